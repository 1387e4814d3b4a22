package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

func recordingSleep(delays *[]time.Duration) RetryOption {
	return withSleep(func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	})
}

func Test_RetryWithExponentialBackoff_SucceedsWithoutRetry(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	// act
	metrics, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.NoError(t, err, "Should succeed")
	assert.Equal(t, 1, callCount, "Should call once")
	assert.Equal(t, 1, metrics.Attempts, "Should count one attempt")
	assert.Equal(t, time.Duration(0), metrics.TotalDelay, "Should not wait")
	assert.Equal(t, "none", metrics.LastErrorType, "Should have no error type")
}

func Test_RetryWithExponentialBackoff_RetriesConcurrencyConflicts(t *testing.T) {
	// arrange
	var delays []time.Duration
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return eventstore.ErrConcurrencyConflict
		}
		return nil
	}

	// act
	metrics, err := RetryWithExponentialBackoff(context.Background(), fn, WithJitterFactor(0), recordingSleep(&delays))

	// assert
	assert.NoError(t, err, "Should succeed eventually")
	assert.Equal(t, 3, metrics.Attempts, "Should count three attempts")
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, delays, "Should back off exponentially")
	assert.Equal(t, 30*time.Millisecond, metrics.TotalDelay, "Should sum the delays")
	assert.False(t, metrics.RetriesExhausted, "Should not exhaust retries")
}

func Test_RetryWithExponentialBackoff_CapsTheDelay(t *testing.T) {
	// arrange
	var delays []time.Duration
	fn := func(_ context.Context) error { return eventstore.ErrConcurrencyConflict }

	// act
	_, err := RetryWithExponentialBackoff(
		context.Background(),
		fn,
		WithMaxAttempts(40),
		WithJitterFactor(0),
		WithMaxDelay(50*time.Millisecond),
		recordingSleep(&delays),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict, "Should exhaust the retries")
	assert.Len(t, delays, 39, "Should sleep between all attempts")
	assert.Equal(t, 40*time.Millisecond, delays[2], "Should back off exponentially below the cap")
	assert.Equal(t, 50*time.Millisecond, delays[3], "Should cap the delay")
	assert.Equal(t, 50*time.Millisecond, delays[38], "Should keep the cap for high attempt numbers")
}

func Test_RetryWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	// arrange
	var delays []time.Duration
	fn := func(_ context.Context) error {
		return eventstore.ErrConcurrencyConflict
	}

	// act
	metrics, err := RetryWithExponentialBackoff(context.Background(), fn, WithJitterFactor(0), recordingSleep(&delays))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict, "Should return the last error")
	assert.Equal(t, 6, metrics.Attempts, "Should make six attempts")
	assert.Equal(t, 160*time.Millisecond, delays[len(delays)-1], "Should wait 160ms before the last attempt")
	assert.True(t, metrics.RetriesExhausted, "Should exhaust retries")
	assert.Equal(t, "concurrency_conflict", metrics.LastErrorType, "Should classify the last error")
}

func Test_RetryWithExponentialBackoff_JitterStaysInBounds(t *testing.T) {
	// arrange
	var delays []time.Duration
	fn := func(_ context.Context) error {
		return eventstore.ErrConcurrencyConflict
	}

	// act
	_, _ = RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(2), recordingSleep(&delays))

	// assert
	assert.Len(t, delays, 1, "Should wait once")
	assert.GreaterOrEqual(t, delays[0], 10*time.Millisecond, "Should wait at least the base delay")
	assert.LessOrEqual(t, delays[0], 13*time.Millisecond, "Should add at most 30% jitter")
}

func Test_RetryWithExponentialBackoff_FailsFastOnOtherErrors(t *testing.T) {
	// arrange
	otherErr := errors.New("bad input")
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return otherErr
	}

	// act
	metrics, err := RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.ErrorIs(t, err, otherErr, "Should return the error")
	assert.Equal(t, 1, callCount, "Should not retry")
	assert.Equal(t, "other", metrics.LastErrorType, "Should classify the error")
}

func Test_RetryWithExponentialBackoff_StopsOnCanceledContext(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return eventstore.ErrConcurrencyConflict
	}

	// act
	metrics, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	// assert
	assert.ErrorIs(t, err, context.Canceled, "Should return the context error")
	assert.Equal(t, 1, callCount, "Should not call again")
	assert.Equal(t, "context_canceled", metrics.LastErrorType, "Should classify the cancellation")
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	testCases := []struct {
		name   string
		option RetryOption
		err    error
	}{
		{name: "zero attempts", option: WithMaxAttempts(0), err: ErrInvalidMaxAttempts},
		{name: "negative delay", option: WithBaseDelay(-time.Millisecond), err: ErrNegativeBaseDelay},
		{name: "jitter above one", option: WithJitterFactor(1.5), err: ErrInvalidJitterFactor},
		{name: "negative jitter", option: WithJitterFactor(-0.1), err: ErrInvalidJitterFactor},
		{name: "zero max delay", option: WithMaxDelay(0), err: ErrInvalidMaxDelay},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error { return nil }, tc.option)

			// assert
			assert.ErrorIs(t, err, tc.err, "Should reject the option")
		})
	}
}
