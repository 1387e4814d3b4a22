package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-ledger-go/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/publisher"
)

// Store is an opened event store with its health check and the closer of all connections behind it.
//
// OrderedCommits reports that appends become visible in sequence number order. Only then may a
// snapshot be continued with the events above its sequence number. Postgres hands out BIGSERIAL
// values before commit, so a lower number can become visible after a higher one.
type Store struct {
	EventStore     shell.EventStore
	Health         func(ctx context.Context) error
	OrderedCommits bool
	closers        []func() error
}

// Close releases the database pool and the broker connection.
func (s *Store) Close() error {
	var errs []error

	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}

	return errors.Join(errs...)
}

// OpenEventStore opens the configured engine and creates its schema.
// With RABBITMQ_URL set, appended events are also published to the exchange.
func OpenEventStore(ctx context.Context, cfg Config, loggers Loggers, obs *Observability) (*Store, error) {
	var (
		store *Store
		err   error
	)

	switch cfg.Store {
	case StorePostgres:
		store, err = openPostgres(ctx, cfg, loggers, obs)
	case StoreSQLite:
		store, err = openSQLite(ctx, cfg, loggers, obs)
	case StoreMemory:
		store = &Store{
			EventStore:     memoryengine.NewEventStore(memoryengine.WithLogger(loggers.Logger)),
			Health:         func(context.Context) error { return nil },
			OrderedCommits: true,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}

	if err != nil {
		return nil, err
	}

	rabbit, err := publisher.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}

	if rabbit != nil {
		store.EventStore = publisher.NewPublishingEventStore(store.EventStore, rabbit, loggers.Contextual)
		store.closers = append(store.closers, rabbit.Close)
	}

	return store, nil
}

func openPostgres(ctx context.Context, cfg Config, loggers Loggers, obs *Observability) (*Store, error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.EventsTable),
		postgresengine.WithLogger(loggers.Logger),
		postgresengine.WithContextualLogger(loggers.Contextual),
	}

	if obs.Metrics != nil {
		options = append(options, postgresengine.WithMetrics(obs.Metrics))
	}

	if obs.Tracing != nil {
		options = append(options, postgresengine.WithTracing(obs.Tracing))
	}

	store := &Store{}

	var (
		es  postgresengine.EventStore
		err error
	)

	switch cfg.PostgresDriver {
	case DriverSQL:
		db, openErr := NewSQLDB(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return nil, openErr
		}

		store.Health = db.PingContext
		store.closers = append(store.closers, db.Close)
		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case DriverSQLX:
		db, openErr := NewSQLX(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return nil, openErr
		}

		store.Health = db.PingContext
		store.closers = append(store.closers, db.Close)
		es, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		pool, openErr := NewPGXPool(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return nil, openErr
		}

		store.Health = pool.Ping
		store.closers = append(store.closers, func() error { pool.Close(); return nil })
		es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)
	}

	if err == nil {
		err = es.CreateSchema(ctx)
	}

	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("preparing postgres event store: %w", err)
	}

	store.EventStore = es

	return store, nil
}

func openSQLite(ctx context.Context, cfg Config, loggers Loggers, obs *Observability) (*Store, error) {
	db, err := sqliteengine.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	options := []sqliteengine.Option{
		sqliteengine.WithTableName(cfg.EventsTable),
		sqliteengine.WithLogger(loggers.Contextual),
	}

	if obs.Metrics != nil {
		options = append(options, sqliteengine.WithMetrics(obs.Metrics))
	}

	es, err := sqliteengine.NewEventStore(db, options...)
	if err == nil {
		err = es.CreateSchema(ctx)
	}

	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("preparing sqlite event store: %w", err)
	}

	// IMMEDIATE transactions serialize the writers.
	return &Store{EventStore: es, Health: db.PingContext, OrderedCommits: true, closers: []func() error{db.Close}}, nil
}
