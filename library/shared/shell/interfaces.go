package shell

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// QueriesEvents is the read side of the event store.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// AppendsEvents is the conditional write side of the event store.
type AppendsEvents interface {
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// EventStore is what command handlers need, every engine satisfies it.
type EventStore interface {
	QueriesEvents
	AppendsEvents
}

// Query is implemented by all query types. SnapshotType names the projection a snapshot holds.
type Query interface {
	QueryType() string
	SnapshotType() string
}

// QueryResult is implemented by all projections.
// GetSequenceNumber returns the highest sequence number of the events included in the projection.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler processes a query without any observability concerns.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// ProjectionFunc is a pure function building a projection from events,
// optionally on top of a base projection restored from a snapshot.
type ProjectionFunc[Q Query, R QueryResult] func(
	events core.DomainEvents,
	query Q,
	maxSeq uint,
	base ...R,
) R

// FilterBuilderFunc builds the event filter of a query.
type FilterBuilderFunc[Q Query] func(query Q) eventstore.Filter

// Command is implemented by all command types.
type Command interface {
	CommandType() string
}

// CoreCommandHandler processes a command without any observability concerns.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}
