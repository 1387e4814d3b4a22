package shell

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// QueryAndProject queries the events selected by filter and projects them, errors are normalized with HandlerErrorFrom.
func QueryAndProject[Q Query, R QueryResult](
	ctx context.Context,
	eventStore QueriesEvents,
	query Q,
	filter eventstore.Filter,
	project ProjectionFunc[Q, R],
) (R, error) {

	var empty R

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return empty, HandlerErrorFrom(err)
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return empty, HandlerErrorFrom(err)
	}

	return project(history, query, maxSequenceNumber), nil
}

// EventsOfType keeps only the events of type E, in order.
func EventsOfType[E core.DomainEvent](history core.DomainEvents) []E {
	events := make([]E, 0)

	for _, event := range history {
		if typed, ok := event.(E); ok {
			events = append(events, typed)
		}
	}

	return events
}
