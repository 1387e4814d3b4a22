package librarytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

// GivenEvents appends the domain events in order, unconditionally.
func GivenEvents(t *testing.T, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	all := eventstore.BuildEventFilter().MatchingAnyEvent()

	for _, event := range events {
		storable, err := shell.StorableEventFrom(event, shell.NewEventMetadata(ctx))
		require.NoError(t, err, "Should map %s", event.EventType())

		_, maxSeq, err := es.Query(ctx, all)
		require.NoError(t, err, "Should query the event store")

		require.NoError(t, es.Append(ctx, all, maxSeq, storable), "Should append %s", event.EventType())
	}
}

// AllEvents returns every stored event as domain events.
func AllEvents(t *testing.T, es shell.QueriesEvents) core.DomainEvents {
	t.Helper()

	storable, _, err := es.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err, "Should query the event store")

	events, err := shell.DomainEventsFrom(storable)
	require.NoError(t, err, "Should map the stored events")

	return events
}

// CountEventsOfType counts the stored events of one type.
func CountEventsOfType(t *testing.T, es shell.QueriesEvents, eventType string) int {
	t.Helper()

	count := 0

	for _, event := range AllEvents(t, es) {
		if event.EventType() == eventType {
			count++
		}
	}

	return count
}
