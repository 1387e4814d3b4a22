package manageauthors

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

func NewAddCommandHandler(eventStore shell.EventStore, retryOptions ...shell.RetryOption) shell.DecisionHandler[AddCommand] {
	return shell.NewDecisionHandler(
		eventStore,
		func(c AddCommand) eventstore.Filter { return BuildEventFilter(c.AuthorID) },
		DecideAdd,
		retryOptions...,
	)
}

func NewRenameCommandHandler(eventStore shell.EventStore, retryOptions ...shell.RetryOption) shell.DecisionHandler[RenameCommand] {
	return shell.NewDecisionHandler(
		eventStore,
		func(c RenameCommand) eventstore.Filter { return BuildEventFilter(c.AuthorID) },
		DecideRename,
		retryOptions...,
	)
}

func NewRemoveCommandHandler(eventStore shell.EventStore, retryOptions ...shell.RetryOption) shell.DecisionHandler[RemoveCommand] {
	return shell.NewDecisionHandler(
		eventStore,
		func(c RemoveCommand) eventstore.Filter { return BuildRemoveEventFilter(c.AuthorID) },
		DecideRemove,
		retryOptions...,
	)
}
