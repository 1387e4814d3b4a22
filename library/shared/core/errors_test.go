package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func Test_DomainError_MatchesItsKind(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind error
	}{
		{name: "validation", err: core.ValidationError("book id is required"), kind: core.ErrValidation},
		{name: "not found", err: core.NotFoundError("book not found"), kind: core.ErrNotFound},
		{name: "conflict", err: core.ConflictError("book already borrowed"), kind: core.ErrConflict},
		{name: "limit exceeded", err: core.LimitExceededError("max 4 concurrent loans"), kind: core.ErrLimitExceeded},
		{name: "storage", err: core.StorageError(errors.New("connection refused")), kind: core.ErrStorage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, tc.kind)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tc.err), tc.kind, "Should match through wrapping")

			for _, other := range []error{core.ErrValidation, core.ErrNotFound, core.ErrConflict, core.ErrLimitExceeded, core.ErrStorage} {
				if other != tc.kind {
					assert.NotErrorIs(t, tc.err, other)
				}
			}
		})
	}
}

func Test_StorageError_KeepsTheCause(t *testing.T) {
	cause := errors.New("connection refused")

	err := core.StorageError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage failure: connection refused", err.Error())
	assert.Equal(t, "storage failure", core.MessageOf(err))
}

func Test_MessageOf(t *testing.T) {
	assert.Equal(t, "book already borrowed", core.MessageOf(core.ConflictError("book already borrowed")))
	assert.Equal(t, "book already borrowed", core.MessageOf(fmt.Errorf("ctx: %w", core.ConflictError("book already borrowed"))))
	assert.Equal(t, "internal error", core.MessageOf(errors.New("boom")))
}
