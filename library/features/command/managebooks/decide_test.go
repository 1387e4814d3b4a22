package managebooks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managebooks"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func ptr(s string) *string { return &s }

func givenCatalog(fakeClock time.Time) core.DomainEvents {
	return core.DomainEvents{
		core.BuildAuthorAdded("a-1", "Hugo", fakeClock),
		core.BuildAuthorAdded("a-2", "Zola", fakeClock),
		core.BuildCategoryAdded("c-1", "Roman", fakeClock),
	}
}

func Test_DecideAdd(t *testing.T) {
	fakeClock := time.Unix(0, 0).UTC()
	catalog := givenCatalog(fakeClock)
	withBook := append(givenCatalog(fakeClock), core.BuildBookAdded("b-1", "Les Misérables", "a-1", "c-1", fakeClock))
	withRemovedAuthor := append(givenCatalog(fakeClock), core.BuildAuthorRemoved("a-1", "Hugo", fakeClock))

	testCases := []struct {
		name      string
		history   core.DomainEvents
		command   managebooks.AddCommand
		wantIdem  bool
		wantErrIs error
		wantMsg   string
	}{
		{name: "resolving relations", history: catalog, command: managebooks.BuildAddCommand("b-1", "Les Misérables", "a-1", "c-1", fakeClock)},
		{
			name:      "unknown author",
			history:   catalog,
			command:   managebooks.BuildAddCommand("b-1", "Nana", "a-9", "c-1", fakeClock),
			wantErrIs: core.ErrValidation,
			wantMsg:   "author not found",
		},
		{
			name:      "removed author",
			history:   withRemovedAuthor,
			command:   managebooks.BuildAddCommand("b-1", "Nana", "a-1", "c-1", fakeClock),
			wantErrIs: core.ErrValidation,
			wantMsg:   "author not found",
		},
		{
			name:      "unknown category",
			history:   catalog,
			command:   managebooks.BuildAddCommand("b-1", "Nana", "a-2", "c-9", fakeClock),
			wantErrIs: core.ErrValidation,
			wantMsg:   "category not found",
		},
		{
			name:     "identical again",
			history:  withBook,
			command:  managebooks.BuildAddCommand("b-1", "Les Misérables", "a-1", "c-1", fakeClock),
			wantIdem: true,
		},
		{
			name:      "same id other details",
			history:   withBook,
			command:   managebooks.BuildAddCommand("b-1", "Nana", "a-2", "c-1", fakeClock),
			wantErrIs: core.ErrConflict,
			wantMsg:   "book already exists",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := managebooks.DecideAdd(tc.history, tc.command)

			// assert
			assert.Equal(t, tc.wantIdem, result.IsIdempotent(), "Should decide about idempotency")

			if tc.wantErrIs != nil {
				assert.ErrorIs(t, result.HasError(), tc.wantErrIs, "Should reject")
				assert.Equal(t, tc.wantMsg, core.MessageOf(result.HasError()), "Should explain")
				assert.False(t, result.HasEventToAppend(), "Should append nothing")

				return
			}

			assert.NoError(t, result.HasError(), "Should not reject")
		})
	}
}

func Test_DecideChangeDetails(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	history := append(givenCatalog(fakeClock), core.BuildBookAdded("b-1", "Les Misérables", "a-1", "c-1", fakeClock))

	// act
	retitled := managebooks.DecideChangeDetails(history,
		managebooks.BuildChangeDetailsCommand("b-1", managebooks.Patch{Title: ptr("Les Mis")}, fakeClock))
	moved := managebooks.DecideChangeDetails(history,
		managebooks.BuildChangeDetailsCommand("b-1", managebooks.Patch{AuthorID: ptr("a-2")}, fakeClock))
	badAuthor := managebooks.DecideChangeDetails(history,
		managebooks.BuildChangeDetailsCommand("b-1", managebooks.Patch{AuthorID: ptr("a-9")}, fakeClock))
	unchanged := managebooks.DecideChangeDetails(history,
		managebooks.BuildChangeDetailsCommand("b-1", managebooks.Patch{CategoryID: ptr("c-1")}, fakeClock))
	unknown := managebooks.DecideChangeDetails(history,
		managebooks.BuildChangeDetailsCommand("b-2", managebooks.Patch{Title: ptr("X")}, fakeClock))

	// assert
	assert.Equal(t, core.BuildBookDetailsChanged("b-1", "Les Mis", "a-1", "c-1", fakeClock), retitled.Event,
		"Should keep the relations")
	assert.Equal(t, core.BuildBookDetailsChanged("b-1", "Les Misérables", "a-2", "c-1", fakeClock), moved.Event,
		"Should move the book to the other author")
	assert.ErrorIs(t, badAuthor.HasError(), core.ErrValidation, "Should reject an unresolved author")
	assert.True(t, unchanged.IsIdempotent(), "Should be idempotent for identical values")
	assert.ErrorIs(t, unknown.HasError(), core.ErrNotFound, "Should not find the book")
}

func Test_DecideRemove(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	added := core.BuildBookAdded("b-1", "Les Misérables", "a-1", "c-1", fakeClock)
	lent := core.BuildBookLentToPatron("l-1", "b-1", "p-1", fakeClock)
	returned := core.BuildBookReturnedByPatron("l-1", "b-1", "p-1", fakeClock)
	command := managebooks.BuildRemoveCommand("b-1", fakeClock)

	// act
	lentOut := managebooks.DecideRemove(core.DomainEvents{added, lent}, command)
	available := managebooks.DecideRemove(core.DomainEvents{added, lent, returned}, command)
	removedAlready := managebooks.DecideRemove(
		core.DomainEvents{added, core.BuildBookRemoved("b-1", "Les Misérables", "a-1", "c-1", fakeClock)}, command)

	// assert
	assert.ErrorIs(t, lentOut.HasError(), core.ErrConflict, "Should refuse while lent")
	assert.Equal(t, core.BuildBookRemoved("b-1", "Les Misérables", "a-1", "c-1", fakeClock), available.Event,
		"Should remove an available book")
	assert.ErrorIs(t, removedAlready.HasError(), core.ErrNotFound, "Should not find a removed book")
}
