package requestloan_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/requestloan"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/testutil/librarytest"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	handler := requestloan.NewCommandHandler(es)

	// arrange
	librarytest.GivenEvents(t, es, givenBookAdded(t, "b-1", fakeClock), givenPatronRegistered(t, "p-1", fakeClock))

	// act
	result, err := handler.Handle(context.Background(), requestloan.BuildCommand("l-1", "b-1", "p-1", fakeClock))

	// assert
	assert.NoError(t, err, "Should lend the book")
	assert.False(t, result.Idempotent, "Should change state")
	assert.Equal(t, 1, result.RetryAttempts, "Should succeed at the first attempt")
	assert.Equal(t, 1, librarytest.CountEventsOfType(t, es, core.BookLentToPatronEventType), "Should persist the loan")
}

func Test_CommandHandler_Handle_ValidationErrorBeforeStorage(t *testing.T) {
	testCases := []struct {
		name    string
		command requestloan.Command
	}{
		{name: "blank book id", command: requestloan.BuildCommand("l-1", " ", "p-1", time.Now())},
		{name: "blank patron id", command: requestloan.BuildCommand("l-1", "b-1", "", time.Now())},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx, cancel := context.WithCancel(context.Background())
			cancel() // any storage access would fail with a storage error
			handler := requestloan.NewCommandHandler(memoryengine.NewEventStore())

			// act
			_, err := handler.Handle(ctx, tc.command)

			// assert
			assert.ErrorIs(t, err, core.ErrValidation, "Should reject the command before touching storage")
		})
	}
}

func Test_CommandHandler_Handle_RejectionAppendsFailureEvent(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	handler := requestloan.NewCommandHandler(es)
	librarytest.GivenEvents(t, es,
		givenBookAdded(t, "b-1", fakeClock),
		givenPatronRegistered(t, "p-1", fakeClock),
		givenPatronRegistered(t, "p-2", fakeClock),
	)
	_, err := handler.Handle(context.Background(), requestloan.BuildCommand("l-1", "b-1", "p-2", fakeClock))
	assert.NoError(t, err, "Should lend the book to p-2")

	// act
	_, err = handler.Handle(context.Background(), requestloan.BuildCommand("l-2", "b-1", "p-1", fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrConflict, "Should reject the second loan")
	assert.Equal(t, 1, librarytest.CountEventsOfType(t, es, core.LendingBookToPatronFailedEventType),
		"Should record the failure")
	assert.Equal(t, 1, librarytest.CountEventsOfType(t, es, core.BookLentToPatronEventType), "Should keep one loan")
}

func Test_CommandHandler_Handle_ConcurrentRequestsForOneBook(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	handler := requestloan.NewCommandHandler(es, requestloan.WithRetryOptions(shell.WithMaxAttempts(20), shell.WithBaseDelay(time.Millisecond), shell.WithMaxDelay(20*time.Millisecond)))
	librarytest.GivenEvents(t, es, givenBookAdded(t, "b-1", fakeClock))

	const patrons = 8
	for i := range patrons {
		librarytest.GivenEvents(t, es, givenPatronRegistered(t, fmt.Sprintf("p-%d", i), fakeClock))
	}

	var successes, conflicts atomic.Int32
	var wg sync.WaitGroup

	// act
	for i := range patrons {
		wg.Add(1)
		go func() {
			defer wg.Done()

			command := requestloan.BuildCommand(fmt.Sprintf("l-%d", i), "b-1", fmt.Sprintf("p-%d", i), fakeClock)
			_, err := handler.Handle(context.Background(), command)

			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, core.ErrConflict, "Should only fail with a conflict"):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), successes.Load(), "Should lend the book exactly once")
	assert.Equal(t, int32(patrons-1), conflicts.Load(), "Should reject all other requests")
	assert.Equal(t, 1, librarytest.CountEventsOfType(t, es, core.BookLentToPatronEventType), "Should persist one loan")
}

func Test_CommandHandler_Handle_ConcurrentRequestsOfOnePatronRespectTheCap(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	handler := requestloan.NewCommandHandler(es, requestloan.WithRetryOptions(shell.WithMaxAttempts(20), shell.WithBaseDelay(time.Millisecond), shell.WithMaxDelay(20*time.Millisecond)))
	librarytest.GivenEvents(t, es, givenPatronRegistered(t, "p-1", fakeClock))

	const books = 10
	for i := range books {
		librarytest.GivenEvents(t, es, givenBookAdded(t, fmt.Sprintf("b-%d", i), fakeClock))
	}

	var successes, limitReached atomic.Int32
	var wg sync.WaitGroup

	// act
	for i := range books {
		wg.Add(1)
		go func() {
			defer wg.Done()

			command := requestloan.BuildCommand(fmt.Sprintf("l-%d", i), fmt.Sprintf("b-%d", i), "p-1", fakeClock)
			_, err := handler.Handle(context.Background(), command)

			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, core.ErrLimitExceeded, "Should only fail at the cap"):
				limitReached.Add(1)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(core.MaxConcurrentLoansPerPatron), successes.Load(), "Should lend exactly up to the cap")
	assert.Equal(t, int32(books-core.MaxConcurrentLoansPerPatron), limitReached.Load(), "Should reject the rest")
}
