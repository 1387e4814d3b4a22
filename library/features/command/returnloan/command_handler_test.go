package returnloan_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/returnloan"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/testutil/librarytest"
)

func Test_CommandHandler_Handle_ReturnTwice(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	handler := returnloan.NewCommandHandler(es)
	librarytest.GivenEvents(t, es, core.BuildBookLentToPatron("l-1", "b-1", "p-1", fakeClock))

	// act
	_, firstErr := handler.Handle(context.Background(), returnloan.BuildCommand("l-1", fakeClock.Add(time.Hour)))
	_, secondErr := handler.Handle(context.Background(), returnloan.BuildCommand("l-1", fakeClock.Add(2*time.Hour)))

	// assert
	assert.NoError(t, firstErr, "Should return the loan")
	assert.ErrorIs(t, secondErr, core.ErrNotFound, "Should reject the second return")
	assert.Equal(t, 1, librarytest.CountEventsOfType(t, es, core.BookReturnedByPatronEventType), "Should return once")
	assert.Equal(t, 1, librarytest.CountEventsOfType(t, es, core.ReturningLoanFailedEventType), "Should record the failure")
}

func Test_CommandHandler_Handle_BlankLoanID(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	handler := returnloan.NewCommandHandler(es)

	// act
	_, err := handler.Handle(context.Background(), returnloan.BuildCommand("", time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation, "Should reject a blank id")
	assert.Equal(t, 0, es.Len(), "Should not touch the event store")
}
