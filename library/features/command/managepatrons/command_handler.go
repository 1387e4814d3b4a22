package managepatrons

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

func NewRegisterCommandHandler(eventStore shell.EventStore, retryOptions ...shell.RetryOption) shell.DecisionHandler[RegisterCommand] {
	return shell.NewDecisionHandler(
		eventStore,
		func(c RegisterCommand) eventstore.Filter { return BuildEventFilter(c.PatronID) },
		DecideRegister,
		retryOptions...,
	)
}

func NewChangeDetailsCommandHandler(
	eventStore shell.EventStore,
	retryOptions ...shell.RetryOption,
) shell.DecisionHandler[ChangeDetailsCommand] {

	return shell.NewDecisionHandler(
		eventStore,
		func(c ChangeDetailsCommand) eventstore.Filter { return BuildEventFilter(c.PatronID) },
		DecideChangeDetails,
		retryOptions...,
	)
}

func NewRemoveCommandHandler(eventStore shell.EventStore, retryOptions ...shell.RetryOption) shell.DecisionHandler[RemoveCommand] {
	return shell.NewDecisionHandler(
		eventStore,
		func(c RemoveCommand) eventstore.Filter { return BuildRemoveEventFilter(c.PatronID) },
		DecideRemove,
		retryOptions...,
	)
}
