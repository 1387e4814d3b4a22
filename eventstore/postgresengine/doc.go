// Package postgresengine provides the PostgreSQL engine of the event store.
//
// It implements dynamic event streams on a single events table, supporting pgx, sql.DB (lib/pq)
// and sqlx connections. Appends are conditional inserts: the new events are only written if the
// max sequence number of the events matching the decision filter is still the expected one,
// and each append runs in a SERIALIZABLE transaction.
//
// Usage:
//
//	pool, _ := pgxpool.NewWithConfig(ctx, cfg)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
