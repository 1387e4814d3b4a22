package requestloan

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	failureBookNotFound    = "book not found"
	failurePatronNotFound  = "patron not found"
	failureAlreadyBorrowed = "book already borrowed"
	failureLoanLimit       = "max 4 concurrent loans"
)

type state struct {
	bookExists       bool
	patronExists     bool
	loanAlreadyLent  bool // this very loan, from an earlier attempt
	bookHasOpenLoan  bool
	patronOpenLoans  map[core.LoanIDString]struct{}
	openLoanOfBookID core.LoanIDString
}

// Decide lends the book if:
//
//	the book exists (added and not removed)
//	the patron exists (registered and not removed)
//	the book has no open loan
//	the patron has less than MaxConcurrentLoansPerPatron open loans
//
// The checks run in this order, the first failing one is reported together with a
// LendingBookToPatronFailed event. A command whose loan was already lent is idempotent.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command)

	if s.loanAlreadyLent {
		return core.IdempotentDecision()
	}

	switch {
	case !s.bookExists:
		return reject(command, core.NotFoundError(failureBookNotFound))
	case !s.patronExists:
		return reject(command, core.NotFoundError(failurePatronNotFound))
	case s.bookHasOpenLoan:
		return reject(command, core.ConflictError(failureAlreadyBorrowed))
	case len(s.patronOpenLoans) >= core.MaxConcurrentLoansPerPatron:
		return reject(command, core.LimitExceededError(failureLoanLimit))
	}

	return core.SuccessDecision(
		core.BuildBookLentToPatron(command.LoanID, command.BookID, command.PatronID, command.OccurredAt))
}

func reject(command Command, err error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildLendingBookToPatronFailed(command.BookID, command.PatronID, err.Error(), command.OccurredAt),
		err,
	)
}

func project(history core.DomainEvents, command Command) state {
	s := state{patronOpenLoans: make(map[core.LoanIDString]struct{})}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAdded:
			if e.BookID == command.BookID {
				s.bookExists = true
			}

		case core.BookRemoved:
			if e.BookID == command.BookID {
				s.bookExists = false
			}

		case core.PatronRegistered:
			if e.PatronID == command.PatronID {
				s.patronExists = true
			}

		case core.PatronRemoved:
			if e.PatronID == command.PatronID {
				s.patronExists = false
			}

		case core.BookLentToPatron:
			if e.LoanID == command.LoanID {
				s.loanAlreadyLent = true
			}

			if e.BookID == command.BookID {
				s.bookHasOpenLoan = true
				s.openLoanOfBookID = e.LoanID
			}

			if e.PatronID == command.PatronID {
				s.patronOpenLoans[e.LoanID] = struct{}{}
			}

		case core.BookReturnedByPatron:
			if e.LoanID == s.openLoanOfBookID {
				s.bookHasOpenLoan = false
			}

			delete(s.patronOpenLoans, e.LoanID)
		}
	}

	return s
}

// BuildEventFilter selects the book's and the patron's existence and loan events.
func BuildEventFilter(bookID core.BookIDString, patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedEventType,
			core.BookRemovedEventType,
			core.PatronRegisteredEventType,
			core.PatronRemovedEventType,
			core.BookLentToPatronEventType,
			core.BookReturnedByPatronEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("BookID", bookID),
			eventstore.P("PatronID", patronID),
		).
		Finalize()
}
