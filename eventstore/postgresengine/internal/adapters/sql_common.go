package adapters

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// stdRows wraps standard library sql.Rows to implement DBRows interface.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

// stdResult wraps standard library sql.Result to implement DBResult interface.
type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// stdTx is the subset of *sql.Tx and *sqlx.Tx used for serializable execution.
type stdTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

func execInStdTx(ctx context.Context, tx stdTx, query string) (DBResult, error) {
	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()

		return nil, mapSerializationFailure(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, mapSerializationFailure(err)
	}

	return &stdResult{result: result}, nil
}

var serializableTxOptions = &sql.TxOptions{Isolation: sql.LevelSerializable}

// mapSerializationFailure joins ErrSerializationFailure to errors with SQLSTATE 40001 from pgx or lib/pq.
func mapSerializationFailure(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateSerializationFailure {
		return errors.Join(ErrSerializationFailure, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == sqlStateSerializationFailure {
		return errors.Join(ErrSerializationFailure, err)
	}

	return err
}
