package adapters

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func Test_MapSerializationFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		isConflict bool
	}{
		{name: "pgx serialization failure", err: &pgconn.PgError{Code: "40001"}, isConflict: true},
		{name: "lib/pq serialization failure", err: &pq.Error{Code: "40001"}, isConflict: true},
		{name: "pgx unique violation", err: &pgconn.PgError{Code: "23505"}, isConflict: false},
		{name: "plain error", err: errors.New("connection refused"), isConflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapSerializationFailure(tt.err)

			assert.Equal(t, tt.isConflict, errors.Is(mapped, ErrSerializationFailure))
			assert.ErrorIs(t, mapped, tt.err, "Should keep the original error")
		})
	}
}
