package manageauthors_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/manageauthors"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func ptr(s string) *string { return &s }

func Test_DecideAdd(t *testing.T) {
	fakeClock := time.Unix(0, 0).UTC()
	added := core.BuildAuthorAdded("a-1", "Hugo", fakeClock)

	testCases := []struct {
		name        string
		history     core.DomainEvents
		command     manageauthors.AddCommand
		wantEvent   bool
		wantIdem    bool
		wantErrorIs error
	}{
		{name: "new author", history: core.DomainEvents{}, command: manageauthors.BuildAddCommand("a-1", "Hugo", fakeClock), wantEvent: true},
		{name: "same name again", history: core.DomainEvents{added}, command: manageauthors.BuildAddCommand("a-1", "Hugo", fakeClock), wantIdem: true},
		{name: "other name", history: core.DomainEvents{added}, command: manageauthors.BuildAddCommand("a-1", "Zola", fakeClock), wantErrorIs: core.ErrConflict},
		{
			name:        "removed id",
			history:     core.DomainEvents{added, core.BuildAuthorRemoved("a-1", "Hugo", fakeClock)},
			command:     manageauthors.BuildAddCommand("a-1", "Hugo", fakeClock),
			wantErrorIs: core.ErrConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := manageauthors.DecideAdd(tc.history, tc.command)

			// assert
			assert.Equal(t, tc.wantEvent, result.HasEventToAppend(), "Should decide about the event")
			assert.Equal(t, tc.wantIdem, result.IsIdempotent(), "Should decide about idempotency")

			if tc.wantErrorIs != nil {
				assert.ErrorIs(t, result.HasError(), tc.wantErrorIs, "Should reject")
			} else {
				assert.NoError(t, result.HasError(), "Should not reject")
			}
		})
	}
}

func Test_DecideRename(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	history := core.DomainEvents{
		core.BuildAuthorAdded("a-1", "Hugo", fakeClock),
		core.BuildAuthorRenamed("a-1", "Victor Hugo", fakeClock),
	}

	// act
	renamed := manageauthors.DecideRename(history, manageauthors.BuildRenameCommand("a-1", manageauthors.Patch{Name: ptr("V. Hugo")}, fakeClock))
	same := manageauthors.DecideRename(history, manageauthors.BuildRenameCommand("a-1", manageauthors.Patch{Name: ptr("Victor Hugo")}, fakeClock))
	empty := manageauthors.DecideRename(history, manageauthors.BuildRenameCommand("a-1", manageauthors.Patch{}, fakeClock))
	unknown := manageauthors.DecideRename(history, manageauthors.BuildRenameCommand("a-2", manageauthors.Patch{Name: ptr("X")}, fakeClock))

	// assert
	assert.Equal(t, core.BuildAuthorRenamed("a-1", "V. Hugo", fakeClock), renamed.Event, "Should rename")
	assert.True(t, same.IsIdempotent(), "Should be idempotent for the current name")
	assert.True(t, empty.IsIdempotent(), "Should be idempotent for an empty patch")
	assert.ErrorIs(t, unknown.HasError(), core.ErrNotFound, "Should not find the author")
	assert.False(t, unknown.HasEventToAppend(), "Should not record a failure event")
}

func Test_DecideRemove(t *testing.T) {
	fakeClock := time.Unix(0, 0).UTC()
	added := core.BuildAuthorAdded("a-1", "Hugo", fakeClock)
	book := core.BuildBookAdded("b-1", "Les Misérables", "a-1", "c-1", fakeClock)

	testCases := []struct {
		name        string
		history     core.DomainEvents
		wantErrorIs error
	}{
		{name: "unreferenced", history: core.DomainEvents{added}},
		{name: "unknown", history: core.DomainEvents{}, wantErrorIs: core.ErrNotFound},
		{name: "referenced", history: core.DomainEvents{added, book}, wantErrorIs: core.ErrConflict},
		{
			name:    "reference removed",
			history: core.DomainEvents{added, book, core.BuildBookRemoved("b-1", "Les Misérables", "a-1", "c-1", fakeClock)},
		},
		{
			name:    "reference moved to another author",
			history: core.DomainEvents{added, book, core.BuildBookDetailsChanged("b-1", "Les Misérables", "a-2", "c-1", fakeClock)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := manageauthors.DecideRemove(tc.history, manageauthors.BuildRemoveCommand("a-1", fakeClock))

			// assert
			if tc.wantErrorIs != nil {
				assert.ErrorIs(t, result.HasError(), tc.wantErrorIs, "Should reject")
				assert.False(t, result.HasEventToAppend(), "Should append nothing")

				return
			}

			assert.NoError(t, result.HasError(), "Should remove")
			assert.Equal(t, core.BuildAuthorRemoved("a-1", "Hugo", fakeClock), result.Event, "Should carry the name")
		})
	}
}
