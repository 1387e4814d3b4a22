package managebooks

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

func NewAddCommandHandler(eventStore shell.EventStore, retryOptions ...shell.RetryOption) shell.DecisionHandler[AddCommand] {
	return shell.NewDecisionHandler(eventStore, BuildAddEventFilter, DecideAdd, retryOptions...)
}

func NewChangeDetailsCommandHandler(
	eventStore shell.EventStore,
	retryOptions ...shell.RetryOption,
) shell.DecisionHandler[ChangeDetailsCommand] {

	return shell.NewDecisionHandler(eventStore, BuildChangeDetailsEventFilter, DecideChangeDetails, retryOptions...)
}

func NewRemoveCommandHandler(eventStore shell.EventStore, retryOptions ...shell.RetryOption) shell.DecisionHandler[RemoveCommand] {
	return shell.NewDecisionHandler(
		eventStore,
		func(c RemoveCommand) eventstore.Filter { return BuildRemoveEventFilter(c.BookID) },
		DecideRemove,
		retryOptions...,
	)
}
