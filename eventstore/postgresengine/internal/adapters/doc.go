// Package adapters provides the database adapters for the PostgreSQL event store.
//
// pgxpool.Pool, sql.DB (lib/pq) and sqlx.DB are supported behind the common DBAdapter interface.
// All adapters execute appends in a SERIALIZABLE transaction and report serialization failures
// as ErrSerializationFailure, so the engine can map them to a concurrency conflict.
package adapters
