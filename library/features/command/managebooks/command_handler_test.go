package managebooks_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/manageauthors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managebooks"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/testutil/librarytest"
)

func Test_CommandHandlers_AddChangeRemove(t *testing.T) {
	// setup
	ctx := context.Background()
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	librarytest.GivenEvents(t, es, givenCatalog(fakeClock)...)

	// act
	_, addErr := managebooks.NewAddCommandHandler(es).Handle(ctx,
		managebooks.BuildAddCommand("b-1", "Les Misérables", "a-1", "c-1", fakeClock))
	_, changeErr := managebooks.NewChangeDetailsCommandHandler(es).Handle(ctx,
		managebooks.BuildChangeDetailsCommand("b-1", managebooks.Patch{AuthorID: ptr("a-2")}, fakeClock))
	_, removeErr := managebooks.NewRemoveCommandHandler(es).Handle(ctx, managebooks.BuildRemoveCommand("b-1", fakeClock))

	// assert
	require.NoError(t, addErr, "Should add")
	require.NoError(t, changeErr, "Should change the details")
	require.NoError(t, removeErr, "Should remove")
	assert.Equal(t, 1, librarytest.CountEventsOfType(t, es, core.BookRemovedEventType), "Should store the removal")
}

func Test_AddCommandHandler_UnknownAuthor(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	librarytest.GivenEvents(t, es, core.BuildCategoryAdded("c-1", "Roman", fakeClock))

	// act
	_, err := managebooks.NewAddCommandHandler(es).Handle(context.Background(),
		managebooks.BuildAddCommand("b-1", "Les Misérables", "a-1", "c-1", fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation, "Should reject the unknown author")
	assert.Equal(t, 1, es.Len(), "Should append nothing")
}

func Test_AddBookAndRemoveAuthor_Concurrently(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	librarytest.GivenEvents(t, es, givenCatalog(fakeClock)...)

	retry := []shell.RetryOption{shell.WithMaxAttempts(20), shell.WithBaseDelay(time.Millisecond), shell.WithMaxDelay(20*time.Millisecond)}
	addBook := managebooks.NewAddCommandHandler(es, retry...)
	removeAuthor := manageauthors.NewRemoveCommandHandler(es, retry...)

	// act
	var wg sync.WaitGroup
	var addErr, removeErr error

	wg.Add(2)

	go func() {
		defer wg.Done()
		_, addErr = addBook.Handle(context.Background(),
			managebooks.BuildAddCommand("b-1", "Les Misérables", "a-1", "c-1", fakeClock))
	}()

	go func() {
		defer wg.Done()
		_, removeErr = removeAuthor.Handle(context.Background(), manageauthors.BuildRemoveCommand("a-1", fakeClock))
	}()

	wg.Wait()

	// assert
	bookAdded := librarytest.CountEventsOfType(t, es, core.BookAddedEventType) == 1
	authorRemoved := librarytest.CountEventsOfType(t, es, core.AuthorRemovedEventType) == 1

	assert.True(t, bookAdded != authorRemoved, "Should never both add a book for and remove the same author")
	assert.True(t, (addErr == nil) == bookAdded, "Should report the add outcome")
	assert.True(t, (removeErr == nil) == authorRemoved, "Should report the removal outcome")
}
