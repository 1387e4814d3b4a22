package loandetails

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func Project(history core.DomainEvents, query Query, maxSeq uint, base ...Loan) Loan {
	result := Loan{LoanID: query.LoanID}

	if len(base) > 0 {
		result = base[0]
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookLentToPatron:
			result.Found = true
			result.BookID, result.PatronID, result.BorrowedAt = e.BookID, e.PatronID, e.OccurredAt

		case core.BookReturnedByPatron:
			returnedAt := e.OccurredAt
			result.ReturnedAt = &returnedAt
		}
	}

	result.SequenceNumber = maxSeq

	return result
}

func BuildEventFilter(query Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookLentToPatronEventType,
			core.BookReturnedByPatronEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", query.LoanID)).
		Finalize()
}
