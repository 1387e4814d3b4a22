package adapters

import (
	"context"
	"errors"
)

// ErrSerializationFailure is returned by ExecSerializable when Postgres aborted the transaction (SQLSTATE 40001).
var ErrSerializationFailure = errors.New("serialization failure")

const sqlStateSerializationFailure = "40001"

// DBAdapter defines the database operations needed by the event store.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)

	// ExecSerializable executes the statement in its own SERIALIZABLE transaction.
	ExecSerializable(ctx context.Context, query string) (DBResult, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
