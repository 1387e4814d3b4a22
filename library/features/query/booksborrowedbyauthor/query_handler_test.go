package booksborrowedbyauthor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/booksborrowedbyauthor"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/testutil/librarytest"
)

func bookIDsOf(result booksborrowedbyauthor.BorrowedBooks) []string {
	ids := make([]string, 0, len(result.Books))
	for _, book := range result.Books {
		ids = append(ids, book.BookID)
	}

	return ids
}

func givenDay(day int, hour, minute, second int) time.Time {
	return time.Date(2024, 1, day, hour, minute, second, 0, time.UTC)
}

func Test_QueryHandler_Handle_OnlyAuthorsBooksInRange(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := booksborrowedbyauthor.NewQueryHandler(es)
	catalogTime := givenDay(1, 0, 0, 0)

	librarytest.GivenEvents(t, es,
		core.BuildBookAdded("b-3", "Quatrevingt-treize", "a-1", "c-1", catalogTime),
		core.BuildBookAdded("b-1", "Les Misérables", "a-1", "c-1", catalogTime),
		core.BuildBookAdded("b-2", "Notre-Dame", "a-1", "c-1", catalogTime),
		core.BuildBookAdded("b-4", "Nana", "a-2", "c-1", catalogTime),
		core.BuildBookAdded("b-5", "Hernani", "a-1", "c-1", catalogTime),

		// in range, returned later
		core.BuildBookLentToPatron("l-1", "b-3", "p-1", givenDay(10, 23, 59, 59)),
		core.BuildBookReturnedByPatron("l-1", "b-3", "p-1", givenDay(25, 0, 0, 0)),
		// in range, borrowed twice
		core.BuildBookLentToPatron("l-2", "b-1", "p-1", givenDay(5, 0, 0, 0)),
		core.BuildBookReturnedByPatron("l-2", "b-1", "p-1", givenDay(6, 0, 0, 0)),
		core.BuildBookLentToPatron("l-3", "b-1", "p-2", givenDay(7, 0, 0, 0)),
		// before range
		core.BuildBookLentToPatron("l-4", "b-2", "p-1", givenDay(4, 23, 59, 59)),
		// other author
		core.BuildBookLentToPatron("l-5", "b-4", "p-1", givenDay(6, 0, 0, 0)),
		// after range
		core.BuildBookLentToPatron("l-6", "b-5", "p-1", givenDay(11, 0, 0, 0)),
	)

	query, err := booksborrowedbyauthor.BuildQuery("a-1", "2024-01-05", "2024-01-10")
	require.NoError(t, err, "Should build the query")

	// act
	result, err := handler.Handle(context.Background(), query)

	// assert
	require.NoError(t, err, "Should handle the query")
	assert.Equal(t, []string{"b-1", "b-3"}, bookIDsOf(result), "Should list distinct borrowed books ordered by id")
	assert.False(t, result.Books[0].Available, "Should derive availability of the lent book")
	assert.True(t, result.Books[1].Available, "Should derive availability of the returned book")
}

func Test_QueryHandler_Handle_UsesCurrentAuthor(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := booksborrowedbyauthor.NewQueryHandler(es)
	librarytest.GivenEvents(t, es,
		core.BuildBookAdded("b-1", "Les Misérables", "a-1", "c-1", givenDay(1, 0, 0, 0)),
		core.BuildBookLentToPatron("l-1", "b-1", "p-1", givenDay(2, 0, 0, 0)),
		core.BuildBookDetailsChanged("b-1", "Les Misérables", "a-2", "c-1", givenDay(3, 0, 0, 0)),
	)

	formerAuthor, err := booksborrowedbyauthor.BuildQuery("a-1", "2024-01-01", "2024-01-31")
	require.NoError(t, err, "Should build the query")
	currentAuthor, err := booksborrowedbyauthor.BuildQuery("a-2", "2024-01-01", "2024-01-31")
	require.NoError(t, err, "Should build the query")

	// act
	former, formerErr := handler.Handle(context.Background(), formerAuthor)
	current, currentErr := handler.Handle(context.Background(), currentAuthor)

	// assert
	require.NoError(t, formerErr, "Should handle the query for the former author")
	require.NoError(t, currentErr, "Should handle the query for the current author")
	assert.Empty(t, former.Books, "Should not attribute the book to its former author")
	assert.Equal(t, []string{"b-1"}, bookIDsOf(current), "Should attribute the book to its current author")
}

func Test_QueryHandler_Handle_AuthorWithoutBooks(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := booksborrowedbyauthor.NewQueryHandler(es)
	query, err := booksborrowedbyauthor.BuildQuery("a-9", "2024-01-01", "2024-01-31")
	require.NoError(t, err, "Should build the query")

	// act
	result, err := handler.Handle(context.Background(), query)

	// assert
	require.NoError(t, err, "Should handle the query")
	assert.NotNil(t, result.Books, "Should return an empty, non-nil list")
	assert.Empty(t, result.Books, "Should list nothing")
}

func Test_QueryHandler_Handle_ReversedRangeIsEmpty(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := booksborrowedbyauthor.NewQueryHandler(es)
	librarytest.GivenEvents(t, es,
		core.BuildBookAdded("b-1", "Les Misérables", "a-1", "c-1", givenDay(1, 0, 0, 0)),
		core.BuildBookLentToPatron("l-1", "b-1", "p-1", givenDay(5, 0, 0, 0)),
	)

	query, err := booksborrowedbyauthor.BuildQuery("a-1", "2024-01-10", "2024-01-01")
	require.NoError(t, err, "Should build the query")

	// act
	result, err := handler.Handle(context.Background(), query)

	// assert
	require.NoError(t, err, "Should handle the query")
	assert.NotNil(t, result.Books, "Should return an empty, non-nil list")
	assert.Empty(t, result.Books, "Should match no loans in a reversed range")
}
