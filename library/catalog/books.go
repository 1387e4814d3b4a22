package catalog

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managebooks"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// AddBook fails with a validation error if the author or the category does not exist. New books are available.
func (c *Catalog) AddBook(
	ctx context.Context,
	title string,
	authorID core.AuthorIDString,
	categoryID core.CategoryIDString,
) (books.Book, error) {

	bookID, err := c.newID()
	if err != nil {
		return books.Book{}, err
	}

	command := managebooks.BuildAddCommand(bookID, title, authorID, categoryID, c.deps.Now())
	if _, err = c.addBook.Handle(ctx, command); err != nil {
		return books.Book{}, err
	}

	return books.Book{BookID: bookID, Title: title, AuthorID: authorID, CategoryID: categoryID, Available: true}, nil
}

// ChangeBookDetails applies the patch and returns the current book, availability included.
func (c *Catalog) ChangeBookDetails(ctx context.Context, bookID core.BookIDString, patch managebooks.Patch) (books.Book, error) {
	if _, err := c.changeBookDetails.Handle(ctx, managebooks.BuildChangeDetailsCommand(bookID, patch, c.deps.Now())); err != nil {
		return books.Book{}, err
	}

	return c.GetBook(ctx, bookID)
}

// RemoveBook fails with a conflict while the book is lent.
func (c *Catalog) RemoveBook(ctx context.Context, bookID core.BookIDString) error {
	_, err := c.removeBook.Handle(ctx, managebooks.BuildRemoveCommand(bookID, c.deps.Now()))

	return err
}

func (c *Catalog) ListBooks(ctx context.Context) ([]books.Book, error) {
	result, err := c.books.Handle(ctx, books.BuildQuery(""))
	if err != nil {
		return nil, err
	}

	return result.Items, nil
}

func (c *Catalog) GetBook(ctx context.Context, bookID core.BookIDString) (books.Book, error) {
	if err := core.RequireNonBlank("id", bookID); err != nil {
		return books.Book{}, err
	}

	result, err := c.books.Handle(ctx, books.BuildQuery(bookID))
	if err != nil {
		return books.Book{}, err
	}

	return single(result.Items, failureBookNotFound)
}
