package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// DecideFunc is the pure business logic of a command, it gets the history selected by the command's filter.
type DecideFunc func(history core.DomainEvents) core.DecisionResult

// ExecuteDecision runs one Query -> Decide -> Append cycle.
//
// The append is conditioned on the same filter and on the max sequence number of the query,
// so it fails with eventstore.ErrConcurrencyConflict if any matching event was appended in between.
// A failure event in the decision is appended before its error is returned.
func ExecuteDecision(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	decide DecideFunc,
) (core.DecisionResult, error) {

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return core.DecisionResult{}, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return core.DecisionResult{}, err
	}

	result := decide(history)

	if !result.HasEventToAppend() {
		return result, result.HasError()
	}

	storableEvent, err := StorableEventFrom(result.Event, NewEventMetadata(ctx))
	if err != nil {
		return result, err
	}

	err = eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent)
	if err != nil {
		return result, err
	}

	return result, result.HasError()
}

// HandleWithRetry runs ExecuteDecision, retrying it on concurrency conflicts, and builds the HandlerResult.
//
// Errors are normalized with HandlerErrorFrom.
func HandleWithRetry(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	decide DecideFunc,
	retryOptions ...RetryOption,
) (HandlerResult, error) {

	var result core.DecisionResult

	retryMetrics, err := RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			var decideErr error
			result, decideErr = ExecuteDecision(ctx, eventStore, filter, decide)

			return decideErr
		},
		retryOptions...,
	)

	if err != nil {
		return NewErrorResult(retryMetrics), HandlerErrorFrom(err)
	}

	if result.IsIdempotent() {
		return NewIdempotentResult(retryMetrics), nil
	}

	return NewSuccessResult(retryMetrics), nil
}

// HandlerErrorFrom keeps business errors and wraps everything else, exhausted retries included, as a storage error.
func HandlerErrorFrom(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *core.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	return core.StorageError(err)
}
