package books

import (
	"maps"
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Project folds catalog and loan events into the list of books, on top of base if given.
func Project(history core.DomainEvents, _ Query, maxSeq uint, base ...Books) Books {
	byID := make(map[core.BookIDString]Book)

	if len(base) > 0 {
		for _, book := range base[0].Items {
			byID[book.BookID] = book
		}
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAdded:
			byID[e.BookID] = Book{
				BookID:     e.BookID,
				Title:      e.Title,
				AuthorID:   e.AuthorID,
				CategoryID: e.CategoryID,
				Available:  true,
			}

		case core.BookDetailsChanged:
			if book, ok := byID[e.BookID]; ok {
				book.Title, book.AuthorID, book.CategoryID = e.Title, e.AuthorID, e.CategoryID
				byID[e.BookID] = book
			}

		case core.BookRemoved:
			delete(byID, e.BookID)

		case core.BookLentToPatron:
			setAvailable(byID, e.BookID, false)

		case core.BookReturnedByPatron:
			setAvailable(byID, e.BookID, true)
		}
	}

	items := slices.AppendSeq(make([]Book, 0, len(byID)), maps.Values(byID))
	slices.SortFunc(items, func(a, b Book) int {
		return strings.Compare(a.BookID, b.BookID)
	})

	return Books{Items: items, SequenceNumber: maxSeq}
}

func setAvailable(byID map[core.BookIDString]Book, bookID core.BookIDString, available bool) {
	if book, ok := byID[bookID]; ok {
		book.Available = available
		byID[bookID] = book
	}
}

// BuildEventFilter selects catalog and loan events, restricted to one book if the query names one.
func BuildEventFilter(query Query) eventstore.Filter {
	builder := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedEventType,
			core.BookDetailsChangedEventType,
			core.BookRemovedEventType,
			core.BookLentToPatronEventType,
			core.BookReturnedByPatronEventType,
		)

	if query.BookID != "" {
		return builder.AndAnyPredicateOf(eventstore.P("BookID", query.BookID)).Finalize()
	}

	return builder.Finalize()
}
