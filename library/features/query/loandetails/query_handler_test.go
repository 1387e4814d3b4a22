package loandetails_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/loandetails"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/testutil/librarytest"
)

func Test_QueryHandler_Handle(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	handler := loandetails.NewQueryHandler(es)
	librarytest.GivenEvents(t, es,
		core.BuildBookLentToPatron("l-1", "b-1", "p-1", fakeClock),
		core.BuildBookLentToPatron("l-2", "b-2", "p-1", fakeClock),
		core.BuildBookReturnedByPatron("l-1", "b-1", "p-1", fakeClock.Add(time.Hour)),
	)

	// act
	returned, returnedErr := handler.Handle(context.Background(), loandetails.BuildQuery("l-1"))
	open, openErr := handler.Handle(context.Background(), loandetails.BuildQuery("l-2"))
	unknown, unknownErr := handler.Handle(context.Background(), loandetails.BuildQuery("l-9"))

	// assert
	require.NoError(t, returnedErr, "Should query the returned loan")
	require.NoError(t, openErr, "Should query the open loan")
	require.NoError(t, unknownErr, "Should query the unknown loan")

	require.NotNil(t, returned.ReturnedAt, "Should set returnedAt")
	assert.Equal(t, fakeClock.Add(time.Hour), *returned.ReturnedAt, "Should carry the return time")
	assert.False(t, returned.IsOpen(), "Should be closed")
	assert.True(t, open.IsOpen(), "Should be open")
	assert.Equal(t, fakeClock, open.BorrowedAt, "Should carry the borrow time")
	assert.False(t, unknown.Found, "Should not find the unknown loan")
}
