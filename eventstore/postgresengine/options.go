package postgresengine

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/eventstore/postgresengine/internal/adapters"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the events table name of the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
//
// Debug level: SQL statements with execution timing
// Info level: event counts, durations, concurrency conflicts
// Warn level: cleanup failures
// Error level: failures that make an operation fail
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, its records are correlated with the active trace.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for query/append durations, event counts, conflicts and errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector, a span is started for each query and append.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}

// WithReplica makes eventually consistent queries read from the given replica pool.
// It only has an effect for an EventStore created with NewEventStoreFromPGXPool.
func WithReplica(replica *pgxpool.Pool) Option {
	return func(es *EventStore) error {
		if replica == nil {
			return eventstore.ErrNilDatabaseConnection
		}

		if pgxAdapter, ok := es.db.(*adapters.PGXAdapter); ok {
			es.db = pgxAdapter.WithReplica(replica)
		}

		return nil
	}
}
