package openloansforpatron_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/library/features/query/openloansforpatron"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func loanIDs(loans []openloansforpatron.Loan) []string {
	ids := make([]string, 0, len(loans))
	for _, loan := range loans {
		ids = append(ids, loan.LoanID)
	}

	return ids
}

func Test_Project_OrdersByBorrowedAtThenInsertion(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	history := core.DomainEvents{
		core.BuildPatronRegistered("p-1", "Alice", "alice@example.org", fakeClock),
		core.BuildBookLentToPatron("l-late", "b-1", "p-1", fakeClock.Add(2*time.Hour)),
		core.BuildBookLentToPatron("l-tie-1", "b-2", "p-1", fakeClock.Add(time.Hour)),
		core.BuildBookLentToPatron("l-tie-2", "b-3", "p-1", fakeClock.Add(time.Hour)),
		core.BuildBookLentToPatron("l-early", "b-4", "p-1", fakeClock),
		core.BuildBookLentToPatron("l-returned", "b-5", "p-1", fakeClock),
		core.BuildBookReturnedByPatron("l-returned", "b-5", "p-1", fakeClock.Add(3*time.Hour)),
	}

	// act
	result := openloansforpatron.Project(history, openloansforpatron.BuildQuery("p-1"), 7)

	// assert
	assert.True(t, result.PatronExists, "Should know the patron")
	assert.Equal(t, []string{"l-early", "l-tie-1", "l-tie-2", "l-late"}, loanIDs(result.Loans),
		"Should order by borrowedAt, ties in insertion order, without returned loans")
	assert.Equal(t, 4, result.Count, "Should count the open loans")
}

func Test_Project_UnknownPatron(t *testing.T) {
	// act
	result := openloansforpatron.Project(core.DomainEvents{}, openloansforpatron.BuildQuery("p-9"), 0)

	// assert
	assert.False(t, result.PatronExists, "Should not know the patron")
	assert.Empty(t, result.Loans, "Should have no loans")
}

func Test_Project_OnTopOfBase(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	query := openloansforpatron.BuildQuery("p-1")
	base := openloansforpatron.Project(core.DomainEvents{
		core.BuildPatronRegistered("p-1", "Alice", "alice@example.org", fakeClock),
		core.BuildBookLentToPatron("l-1", "b-1", "p-1", fakeClock.Add(time.Hour)),
		core.BuildBookLentToPatron("l-2", "b-2", "p-1", fakeClock.Add(time.Hour)),
	}, query, 3)

	// act
	result := openloansforpatron.Project(core.DomainEvents{
		core.BuildBookReturnedByPatron("l-1", "b-1", "p-1", fakeClock.Add(2*time.Hour)),
		core.BuildBookLentToPatron("l-3", "b-3", "p-1", fakeClock.Add(time.Hour)),
	}, query, 5, base)

	// assert
	assert.True(t, result.PatronExists, "Should keep the patron from the base")
	assert.Equal(t, []string{"l-2", "l-3"}, loanIDs(result.Loans), "Should apply return and lend on top of the base")
	assert.Equal(t, uint(5), result.SequenceNumber, "Should carry the new sequence number")
}
