package managepatrons

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	failureNotFound      = "patron not found"
	failureAlreadyExists = "patron already exists"
	failureHasOpenLoans  = "patron has open loans"
)

type state struct {
	everRegistered bool
	exists         bool
	name           string
	email          string
	openLoans      map[core.LoanIDString]struct{}
}

func project(history core.DomainEvents, patronID core.PatronIDString) state {
	s := state{openLoans: make(map[core.LoanIDString]struct{})}

	for _, event := range history {
		switch e := event.(type) {
		case core.PatronRegistered:
			if e.PatronID == patronID {
				s.everRegistered, s.exists = true, true
				s.name, s.email = e.Name, e.Email
			}

		case core.PatronDetailsChanged:
			if e.PatronID == patronID {
				s.name, s.email = e.Name, e.Email
			}

		case core.PatronRemoved:
			if e.PatronID == patronID {
				s.exists = false
			}

		case core.BookLentToPatron:
			if e.PatronID == patronID {
				s.openLoans[e.LoanID] = struct{}{}
			}

		case core.BookReturnedByPatron:
			delete(s.openLoans, e.LoanID)
		}
	}

	return s
}

// DecideRegister registers the patron, registering the same details again is idempotent.
func DecideRegister(history core.DomainEvents, command RegisterCommand) core.DecisionResult {
	s := project(history, command.PatronID)

	if s.everRegistered {
		if s.exists && s.name == command.Name && s.email == command.Email {
			return core.IdempotentDecision()
		}

		return core.RejectedDecision(core.ConflictError(failureAlreadyExists))
	}

	return core.SuccessDecision(
		core.BuildPatronRegistered(command.PatronID, command.Name, command.Email, command.OccurredAt),
	)
}

// DecideChangeDetails applies the patch, a patch without any change is idempotent.
func DecideChangeDetails(history core.DomainEvents, command ChangeDetailsCommand) core.DecisionResult {
	s := project(history, command.PatronID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	name, email := s.name, s.email

	if command.Patch.Name != nil {
		name = *command.Patch.Name
	}

	if command.Patch.Email != nil {
		email = *command.Patch.Email
	}

	if name == s.name && email == s.email {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildPatronDetailsChanged(command.PatronID, name, email, command.OccurredAt))
}

// DecideRemove removes the patron if none of their loans is open.
func DecideRemove(history core.DomainEvents, command RemoveCommand) core.DecisionResult {
	s := project(history, command.PatronID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	if len(s.openLoans) > 0 {
		return core.RejectedDecision(core.ConflictError(failureHasOpenLoans))
	}

	return core.SuccessDecision(core.BuildPatronRemoved(command.PatronID, s.name, s.email, command.OccurredAt))
}

// BuildEventFilter selects the patron's events.
func BuildEventFilter(patronID core.PatronIDString) eventstore.Filter {
	return patronItem(patronID).Finalize()
}

// BuildRemoveEventFilter selects the patron's events and their loans.
func BuildRemoveEventFilter(patronID core.PatronIDString) eventstore.Filter {
	return patronItem(patronID).
		OrMatching().
		AnyEventTypeOf(
			core.BookLentToPatronEventType,
			core.BookReturnedByPatronEventType,
		).
		AndAnyPredicateOf(eventstore.P("PatronID", patronID)).
		Finalize()
}

func patronItem(patronID core.PatronIDString) eventstore.CompletedFilterItemBuilder {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.PatronRegisteredEventType,
			core.PatronDetailsChangedEventType,
			core.PatronRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("PatronID", patronID))
}
