package shell

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Validatable commands are checked before the event store is touched.
type Validatable interface {
	Validate() error
}

// DecisionHandler is a generic core command handler for commands whose whole logic is
// a filter plus a pure Decide function.
type DecisionHandler[C Command] struct {
	eventStore   EventStore
	filterFor    func(command C) eventstore.Filter
	decide       func(history core.DomainEvents, command C) core.DecisionResult
	retryOptions []RetryOption
}

// NewDecisionHandler creates a DecisionHandler, retryOptions default to the standard backoff.
func NewDecisionHandler[C Command](
	eventStore EventStore,
	filterFor func(command C) eventstore.Filter,
	decide func(history core.DomainEvents, command C) core.DecisionResult,
	retryOptions ...RetryOption,
) DecisionHandler[C] {

	return DecisionHandler[C]{
		eventStore:   eventStore,
		filterFor:    filterFor,
		decide:       decide,
		retryOptions: retryOptions,
	}
}

// Handle validates the command if it is Validatable, then runs the decision with retry.
func (h DecisionHandler[C]) Handle(ctx context.Context, command C) (HandlerResult, error) {
	if validatable, ok := any(command).(Validatable); ok {
		if err := validatable.Validate(); err != nil {
			return NewErrorResult(RetryMetrics{LastErrorType: errorTypeOther}), err
		}
	}

	return HandleWithRetry(
		ctx,
		h.eventStore,
		h.filterFor(command),
		func(history core.DomainEvents) core.DecisionResult {
			return h.decide(history, command)
		},
		h.retryOptions...,
	)
}
