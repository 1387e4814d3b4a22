package booksborrowedbyauthor

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Project keeps the candidate books that appear in at least one loan of the history.
// candidates must be ordered by BookID, the history must already be bounded to the date range.
func Project(candidates []books.Book, history core.DomainEvents, query Query, maxSeq uint) BorrowedBooks {
	borrowed := make(map[core.BookIDString]bool)

	for _, lent := range eventsLent(history) {
		if !lent.OccurredAt.Before(query.From) && !lent.OccurredAt.After(query.Until) {
			borrowed[lent.BookID] = true
		}
	}

	result := BorrowedBooks{AuthorID: query.AuthorID, Books: make([]books.Book, 0), SequenceNumber: maxSeq}

	for _, book := range candidates {
		if borrowed[book.BookID] {
			result.Books = append(result.Books, book)
		}
	}

	result.Count = len(result.Books)

	return result
}

func eventsLent(history core.DomainEvents) []core.BookLentToPatron {
	lent := make([]core.BookLentToPatron, 0, len(history))

	for _, event := range history {
		if e, ok := event.(core.BookLentToPatron); ok {
			lent = append(lent, e)
		}
	}

	return lent
}

// BuildCatalogEventFilter selects what the first phase projects.
func BuildCatalogEventFilter() eventstore.Filter {
	return books.BuildEventFilter(books.BuildQuery(""))
}

// BuildLoansEventFilter selects the loans of the candidate books borrowed within the range.
// It needs at least one candidate.
func BuildLoansEventFilter(candidates []books.Book, query Query) eventstore.Filter {
	predicates := make([]eventstore.FilterPredicate, 0, len(candidates))
	for _, book := range candidates {
		predicates = append(predicates, eventstore.P("BookID", book.BookID))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookLentToPatronEventType).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		OccurredFrom(query.From).
		AndOccurredUntil(query.Until).
		Finalize()
}
