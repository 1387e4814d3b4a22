package ledger

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// book falls back to the bare id for a book removed after its loans were returned.
func (l *Ledger) book(ctx context.Context, bookID core.BookIDString) (books.Book, error) {
	result, err := l.books.Handle(ctx, books.BuildQuery(bookID))
	if err != nil {
		return books.Book{}, err
	}

	if len(result.Items) == 0 {
		return books.Book{BookID: bookID}, nil
	}

	return result.Items[0], nil
}

func (l *Ledger) patron(ctx context.Context, patronID core.PatronIDString) (patrons.Patron, error) {
	result, err := l.patrons.Handle(ctx, patrons.BuildQuery(patronID))
	if err != nil {
		return patrons.Patron{}, err
	}

	if len(result.Items) == 0 {
		return patrons.Patron{}, core.NotFoundError(failurePatronNotFound)
	}

	return result.Items[0], nil
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
