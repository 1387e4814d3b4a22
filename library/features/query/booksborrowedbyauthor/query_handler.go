package booksborrowedbyauthor

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle runs both phases, the second one is skipped if the author has no books.
// A reversed range matches nothing and skips both.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowedBooks, error) {
	if query.From.After(query.Until) {
		return Project(nil, nil, query, 0), nil
	}

	catalog, err := shell.QueryAndProject(ctx, h.eventStore, books.BuildQuery(""), BuildCatalogEventFilter(), books.Project)
	if err != nil {
		return BorrowedBooks{}, err
	}

	candidates := catalog.ByAuthor(query.AuthorID)
	if len(candidates) == 0 {
		return Project(nil, nil, query, catalog.SequenceNumber), nil
	}

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, BuildLoansEventFilter(candidates, query))
	if err != nil {
		return BorrowedBooks{}, shell.HandlerErrorFrom(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BorrowedBooks{}, shell.HandlerErrorFrom(err)
	}

	return Project(candidates, history, query, max(maxSeq, catalog.SequenceNumber)), nil
}
