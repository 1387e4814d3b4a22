// Package enginecontract holds the behavior every event store engine must show,
// as a reusable test suite.
package enginecontract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

// EventStore is the engine under test.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Run runs the contract against fresh, empty engines created by newEventStore.
func Run(t *testing.T, newEventStore func(t *testing.T) EventStore) {
	t.Run("append to an empty stream and query it back", func(t *testing.T) {
		testAppendAndQuery(t, newEventStore(t))
	})

	t.Run("stale expected sequence number is a concurrency conflict", func(t *testing.T) {
		testStaleAppend(t, newEventStore(t))
	})

	t.Run("appends to disjoint streams do not conflict", func(t *testing.T) {
		testDisjointStreams(t, newEventStore(t))
	})

	t.Run("predicates and all predicates", func(t *testing.T) {
		testPredicates(t, newEventStore(t))
	})

	t.Run("occurred at and sequence boundaries", func(t *testing.T) {
		testBoundaries(t, newEventStore(t))
	})

	t.Run("multiple events are appended atomically in order", func(t *testing.T) {
		testMultipleEvents(t, newEventStore(t))
	})

	t.Run("concurrent appends with the same expectation, only one succeeds", func(t *testing.T) {
		testConcurrentAppends(t, newEventStore(t))
	})
}

func event(t *testing.T, eventType string, occurredAt time.Time, payload string) eventstore.StorableEvent {
	t.Helper()

	e, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, occurredAt, []byte(payload))
	require.NoError(t, err)

	return e
}

func lent(t *testing.T, bookID, patronID string, occurredAt time.Time) eventstore.StorableEvent {
	t.Helper()

	return event(t, "BookLentToPatron", occurredAt, fmt.Sprintf(`{"BookID":%q,"PatronID":%q}`, bookID, patronID))
}

func bookFilter(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookLentToPatron", "BookReturnedByPatron").
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

func testAppendAndQuery(t *testing.T, es EventStore) {
	ctx := context.Background()
	fakeClock := time.Unix(0, 0).UTC()
	filter := bookFilter("book-1")

	events, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, uint(0), maxSeq)

	require.NoError(t, es.Append(ctx, filter, 0, lent(t, "book-1", "patron-1", fakeClock)))

	events, maxSeq, err = es.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "BookLentToPatron", events[0].EventType)
	assert.True(t, fakeClock.Equal(events[0].OccurredAt), "Should keep occurred at")
	assert.JSONEq(t, `{"BookID":"book-1","PatronID":"patron-1"}`, string(events[0].PayloadJSON))
	assert.JSONEq(t, `{}`, string(events[0].MetadataJSON))
	assert.Greater(t, maxSeq, uint(0))
}

func testStaleAppend(t *testing.T, es EventStore) {
	ctx := context.Background()
	fakeClock := time.Unix(0, 0).UTC()
	filter := bookFilter("book-1")

	require.NoError(t, es.Append(ctx, filter, 0, lent(t, "book-1", "patron-1", fakeClock)))

	err := es.Append(ctx, filter, 0, lent(t, "book-1", "patron-2", fakeClock))

	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	events, _, queryErr := es.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Len(t, events, 1, "Should not append on conflict")
}

func testDisjointStreams(t *testing.T, es EventStore) {
	ctx := context.Background()
	fakeClock := time.Unix(0, 0).UTC()

	require.NoError(t, es.Append(ctx, bookFilter("book-1"), 0, lent(t, "book-1", "patron-1", fakeClock)))
	require.NoError(t, es.Append(ctx, bookFilter("book-2"), 0, lent(t, "book-2", "patron-1", fakeClock)))

	all, maxSeq, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, book1MaxSeq, err := es.Query(ctx, bookFilter("book-1"))
	require.NoError(t, err)
	assert.Less(t, book1MaxSeq, maxSeq)
}

func testPredicates(t *testing.T, es EventStore) {
	ctx := context.Background()
	fakeClock := time.Unix(0, 0).UTC()
	everything := eventstore.BuildEventFilter().MatchingAnyEvent()

	_, maxSeq, err := es.Query(ctx, everything)
	require.NoError(t, err)
	require.NoError(t, es.Append(
		ctx,
		everything,
		maxSeq,
		lent(t, "book-1", "patron-1", fakeClock),
		lent(t, "book-2", "patron-1", fakeClock),
		lent(t, "book-3", "patron-2", fakeClock),
		event(t, "PatronRegistered", fakeClock, `{"PatronID":"patron-1","Name":"Ada"}`),
	))

	anyOf := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookLentToPatron").
		AndAnyPredicateOf(eventstore.P("BookID", "book-3"), eventstore.P("PatronID", "patron-1")).
		Finalize()
	events, _, err := es.Query(ctx, anyOf)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	allOf := eventstore.BuildEventFilter().
		Matching().
		AllPredicatesOf(eventstore.P("BookID", "book-2"), eventstore.P("PatronID", "patron-1")).
		Finalize()
	events, _, err = es.Query(ctx, allOf)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	twoItems := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("PatronRegistered").
		OrMatching().
		AnyEventTypeOf("BookLentToPatron").
		AndAnyPredicateOf(eventstore.P("PatronID", "patron-2")).
		Finalize()
	events, _, err = es.Query(ctx, twoItems)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "BookLentToPatron", events[0].EventType, "Should return events in sequence order")
	assert.Equal(t, "PatronRegistered", events[1].EventType)
}

func testBoundaries(t *testing.T, es EventStore) {
	ctx := context.Background()
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31End := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	everything := eventstore.BuildEventFilter().MatchingAnyEvent()

	require.NoError(t, es.Append(
		ctx,
		everything,
		0,
		lent(t, "book-1", "patron-1", jan1.Add(-time.Second)),
		lent(t, "book-2", "patron-1", jan1),
		lent(t, "book-3", "patron-1", jan31End),
		lent(t, "book-4", "patron-1", jan31End.Add(time.Second)),
	))

	window := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookLentToPatron").
		OccurredFrom(jan1).
		AndOccurredUntil(jan31End).
		Finalize()
	events, _, err := es.Query(ctx, window)
	require.NoError(t, err)
	require.Len(t, events, 2, "Should include both boundaries")
	assert.Contains(t, string(events[0].PayloadJSON), "book-2")
	assert.Contains(t, string(events[1].PayloadJSON), "book-3")

	_, firstTwoMaxSeq, err := es.Query(
		ctx,
		eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", "book-2")).Finalize(),
	)
	require.NoError(t, err)

	incremental := everything.ReopenForSequenceFiltering().WithSequenceNumberHigherThan(firstTwoMaxSeq).Finalize()
	events, _, err = es.Query(ctx, incremental)
	require.NoError(t, err)
	assert.Len(t, events, 2, "Should only return events after the given sequence number")
}

func testMultipleEvents(t *testing.T, es EventStore) {
	ctx := context.Background()
	fakeClock := time.Unix(0, 0).UTC()
	filter := bookFilter("book-1")

	require.NoError(t, es.Append(
		ctx,
		filter,
		0,
		lent(t, "book-1", "patron-1", fakeClock),
		event(t, "BookReturnedByPatron", fakeClock.Add(time.Second), `{"BookID":"book-1","PatronID":"patron-1"}`),
	))

	events, _, err := es.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "BookLentToPatron", events[0].EventType)
	assert.Equal(t, "BookReturnedByPatron", events[1].EventType)
}

func testConcurrentAppends(t *testing.T, es EventStore) {
	ctx := context.Background()
	fakeClock := time.Unix(0, 0).UTC()
	filter := bookFilter("book-1")

	events := make([]eventstore.StorableEvent, 8)
	for i := range events {
		events[i] = lent(t, "book-1", fmt.Sprintf("patron-%d", i), fakeClock)
	}

	var succeeded atomic.Int32
	var unexpected atomic.Value
	var wg sync.WaitGroup

	for _, e := range events {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := es.Append(ctx, filter, 0, e)
			switch {
			case err == nil:
				succeeded.Add(1)
			case !errors.Is(err, eventstore.ErrConcurrencyConflict):
				unexpected.Store(err)
			}
		}()
	}
	wg.Wait()

	assert.Nil(t, unexpected.Load(), "Should only fail with concurrency conflicts")
	assert.Equal(t, int32(1), succeeded.Load())
}
