package openloansforpatron

import (
	"slices"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Project keeps the patron's loans that were not returned, on top of base if given.
func Project(history core.DomainEvents, query Query, maxSeq uint, base ...OpenLoans) OpenLoans {
	result := OpenLoans{PatronID: query.PatronID, Loans: make([]Loan, 0), SequenceNumber: maxSeq}

	if len(base) > 0 {
		result.PatronExists = base[0].PatronExists
		result.Loans = append(result.Loans, base[0].Loans...)
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.PatronRegistered:
			result.PatronExists = true

		case core.PatronRemoved:
			result.PatronExists = false

		case core.BookLentToPatron:
			result.Loans = append(result.Loans, Loan{
				LoanID:     e.LoanID,
				BookID:     e.BookID,
				PatronID:   e.PatronID,
				BorrowedAt: e.OccurredAt,
			})

		case core.BookReturnedByPatron:
			result.Loans = slices.DeleteFunc(result.Loans, func(l Loan) bool {
				return l.LoanID == e.LoanID
			})
		}
	}

	slices.SortStableFunc(result.Loans, func(a, b Loan) int {
		return a.BorrowedAt.Compare(b.BorrowedAt)
	})

	result.Count = len(result.Loans)

	return result
}

// BuildEventFilter selects the patron's lifecycle and loan events.
func BuildEventFilter(query Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.PatronRegisteredEventType,
			core.PatronRemovedEventType,
			core.BookLentToPatronEventType,
			core.BookReturnedByPatronEventType,
		).
		AndAnyPredicateOf(eventstore.P("PatronID", query.PatronID)).
		Finalize()
}
