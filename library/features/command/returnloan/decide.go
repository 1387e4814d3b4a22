package returnloan

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const failureNoOpenLoan = "loan not found or already returned"

// Decide returns the loan if it is open. An unknown loan and a returned loan are rejected alike,
// with a ReturningLoanFailed event. Returning is not idempotent: the second return fails.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	var openLoan *core.BookLentToPatron

	for _, event := range history {
		switch e := event.(type) {
		case core.BookLentToPatron:
			if e.LoanID == command.LoanID {
				openLoan = &e
			}

		case core.BookReturnedByPatron:
			if e.LoanID == command.LoanID {
				openLoan = nil
			}
		}
	}

	if openLoan == nil {
		err := core.NotFoundError(failureNoOpenLoan)

		return core.ErrorDecision(
			core.BuildReturningLoanFailed(command.LoanID, failureNoOpenLoan, command.OccurredAt),
			err,
		)
	}

	return core.SuccessDecision(
		core.BuildBookReturnedByPatron(openLoan.LoanID, openLoan.BookID, openLoan.PatronID, command.OccurredAt))
}

// BuildEventFilter selects the loan's events.
func BuildEventFilter(loanID core.LoanIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookLentToPatronEventType,
			core.BookReturnedByPatronEventType,
		).
		AndAnyPredicateOf(
			eventstore.P("LoanID", loanID),
		).
		Finalize()
}
