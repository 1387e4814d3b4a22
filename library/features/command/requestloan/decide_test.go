package requestloan_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/requestloan"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func Test_Decide_Success_WhenBookAndPatronExist(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	history := core.DomainEvents{
		givenBookAdded(t, "b-1", fakeClock),
		givenPatronRegistered(t, "p-1", fakeClock),
	}
	command := requestloan.BuildCommand("l-1", "b-1", "p-1", fakeClock.Add(time.Hour))

	// act
	result := requestloan.Decide(history, command)

	// assert
	assert.NoError(t, result.HasError(), "Should not fail")
	assert.Equal(t, core.BuildBookLentToPatron("l-1", "b-1", "p-1", fakeClock.Add(time.Hour)), result.Event,
		"Should lend the book with borrowedAt = occurredAt")
}

func Test_Decide_Success_WithThreeOpenLoansBorrowingTheFourth(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	history := core.DomainEvents{givenBookAdded(t, "b-1", fakeClock), givenPatronRegistered(t, "p-1", fakeClock)}
	history = append(history, givenOpenLoans(t, "p-1", 3, fakeClock)...)

	// act
	result := requestloan.Decide(history, requestloan.BuildCommand("l-new", "b-1", "p-1", fakeClock))

	// assert
	assert.NoError(t, result.HasError(), "Should allow the fourth loan")
	assert.True(t, result.HasEventToAppend(), "Should lend the book")
}

func Test_Decide_Success_AfterReturnTheBookCanBeBorrowedAgain(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	history := core.DomainEvents{
		givenBookAdded(t, "b-1", fakeClock),
		givenPatronRegistered(t, "p-1", fakeClock),
		givenPatronRegistered(t, "p-2", fakeClock),
		core.BuildBookLentToPatron("l-1", "b-1", "p-2", fakeClock),
		core.BuildBookReturnedByPatron("l-1", "b-1", "p-2", fakeClock.Add(time.Hour)),
	}

	// act
	result := requestloan.Decide(history, requestloan.BuildCommand("l-2", "b-1", "p-1", fakeClock.Add(2*time.Hour)))

	// assert
	assert.NoError(t, result.HasError(), "Should lend the returned book")
}

func Test_Decide_Idempotent_WhenLoanWasAlreadyLent(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	history := core.DomainEvents{
		givenBookAdded(t, "b-1", fakeClock),
		givenPatronRegistered(t, "p-1", fakeClock),
		core.BuildBookLentToPatron("l-1", "b-1", "p-1", fakeClock),
	}

	// act
	result := requestloan.Decide(history, requestloan.BuildCommand("l-1", "b-1", "p-1", fakeClock))

	// assert
	assert.True(t, result.IsIdempotent(), "Should be idempotent")
	assert.False(t, result.HasEventToAppend(), "Should not append")
}

func Test_Decide_BusinessErrors(t *testing.T) {
	fakeClock := time.Unix(0, 0).UTC()

	testCases := []struct {
		name    string
		history core.DomainEvents
		kind    error
		message string
	}{
		{
			name:    "book never added",
			history: core.DomainEvents{givenPatronRegistered(t, "p-1", fakeClock)},
			kind:    core.ErrNotFound,
			message: "book not found",
		},
		{
			name: "book removed",
			history: core.DomainEvents{
				givenBookAdded(t, "b-1", fakeClock),
				core.BuildBookRemoved("b-1", "Title", "a-1", "c-1", fakeClock),
				givenPatronRegistered(t, "p-1", fakeClock),
			},
			kind:    core.ErrNotFound,
			message: "book not found",
		},
		{
			name:    "patron unknown",
			history: core.DomainEvents{givenBookAdded(t, "b-1", fakeClock)},
			kind:    core.ErrNotFound,
			message: "patron not found",
		},
		{
			name:    "book and patron unknown reports the book first",
			history: core.DomainEvents{},
			kind:    core.ErrNotFound,
			message: "book not found",
		},
		{
			name: "book borrowed by another patron",
			history: core.DomainEvents{
				givenBookAdded(t, "b-1", fakeClock),
				givenPatronRegistered(t, "p-1", fakeClock),
				givenPatronRegistered(t, "p-2", fakeClock),
				core.BuildBookLentToPatron("l-other", "b-1", "p-2", fakeClock),
			},
			kind:    core.ErrConflict,
			message: "book already borrowed",
		},
		{
			name: "patron at the cap",
			history: append(
				core.DomainEvents{givenBookAdded(t, "b-1", fakeClock), givenPatronRegistered(t, "p-1", fakeClock)},
				givenOpenLoans(t, "p-1", 4, fakeClock)...,
			),
			kind:    core.ErrLimitExceeded,
			message: "max 4 concurrent loans",
		},
		{
			name: "borrowed book at the cap reports the conflict first",
			history: append(
				core.DomainEvents{
					givenBookAdded(t, "b-1", fakeClock),
					givenPatronRegistered(t, "p-1", fakeClock),
					core.BuildBookLentToPatron("l-other", "b-1", "p-2", fakeClock),
				},
				givenOpenLoans(t, "p-1", 4, fakeClock)...,
			),
			kind:    core.ErrConflict,
			message: "book already borrowed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := requestloan.Decide(tc.history, requestloan.BuildCommand("l-1", "b-1", "p-1", fakeClock))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.kind, "Should fail with the right kind")
			assert.Equal(t, tc.message, core.MessageOf(result.HasError()), "Should have the right message")
			assert.Equal(t, core.BuildLendingBookToPatronFailed("b-1", "p-1", tc.message, fakeClock), result.Event,
				"Should record the failure")
		})
	}
}

func givenBookAdded(t *testing.T, bookID string, at time.Time) core.BookAdded {
	t.Helper()

	return core.BuildBookAdded(bookID, "Title of "+bookID, "a-1", "c-1", at)
}

func givenPatronRegistered(t *testing.T, patronID string, at time.Time) core.PatronRegistered {
	t.Helper()

	return core.BuildPatronRegistered(patronID, "Patron "+patronID, patronID+"@example.org", at)
}

func givenOpenLoans(t *testing.T, patronID string, count int, at time.Time) core.DomainEvents {
	t.Helper()

	events := make(core.DomainEvents, 0, 2*count)
	for i := range count {
		bookID := fmt.Sprintf("other-book-%d", i)
		events = append(events,
			givenBookAdded(t, bookID, at),
			core.BuildBookLentToPatron(fmt.Sprintf("loan-%d", i), bookID, patronID, at.Add(time.Duration(i)*time.Minute)),
		)
	}

	return events
}
