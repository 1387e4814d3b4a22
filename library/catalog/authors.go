package catalog

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/manageauthors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/authors"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func (c *Catalog) AddAuthor(ctx context.Context, name string) (authors.Author, error) {
	authorID, err := c.newID()
	if err != nil {
		return authors.Author{}, err
	}

	if _, err = c.addAuthor.Handle(ctx, manageauthors.BuildAddCommand(authorID, name, c.deps.Now())); err != nil {
		return authors.Author{}, err
	}

	return authors.Author{AuthorID: authorID, Name: name}, nil
}

// RenameAuthor applies the patch and returns the current author.
func (c *Catalog) RenameAuthor(ctx context.Context, authorID core.AuthorIDString, patch manageauthors.Patch) (authors.Author, error) {
	if _, err := c.renameAuthor.Handle(ctx, manageauthors.BuildRenameCommand(authorID, patch, c.deps.Now())); err != nil {
		return authors.Author{}, err
	}

	return c.GetAuthor(ctx, authorID)
}

// RemoveAuthor fails with a conflict while a book refers to the author.
func (c *Catalog) RemoveAuthor(ctx context.Context, authorID core.AuthorIDString) error {
	_, err := c.removeAuthor.Handle(ctx, manageauthors.BuildRemoveCommand(authorID, c.deps.Now()))

	return err
}

func (c *Catalog) ListAuthors(ctx context.Context) ([]authors.Author, error) {
	result, err := c.authors.Handle(ctx, authors.BuildQuery(""))
	if err != nil {
		return nil, err
	}

	return result.Items, nil
}

func (c *Catalog) GetAuthor(ctx context.Context, authorID core.AuthorIDString) (authors.Author, error) {
	if err := core.RequireNonBlank("id", authorID); err != nil {
		return authors.Author{}, err
	}

	result, err := c.authors.Handle(ctx, authors.BuildQuery(authorID))
	if err != nil {
		return authors.Author{}, err
	}

	return single(result.Items, failureAuthorNotFound)
}
