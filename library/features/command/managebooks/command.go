package managebooks

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

type AddCommand struct {
	BookID     core.BookIDString
	Title      string
	AuthorID   core.AuthorIDString
	CategoryID core.CategoryIDString
	OccurredAt core.OccurredAtTS
}

func BuildAddCommand(
	bookID core.BookIDString,
	title string,
	authorID core.AuthorIDString,
	categoryID core.CategoryIDString,
	occurredAt time.Time,
) AddCommand {

	return AddCommand{
		BookID:     bookID,
		Title:      title,
		AuthorID:   authorID,
		CategoryID: categoryID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c AddCommand) CommandType() string { return "AddBook" }

func (c AddCommand) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"id", c.BookID},
		{"title", c.Title},
		{"authorId", c.AuthorID},
		{"categoryId", c.CategoryID},
	} {
		if err := core.RequireNonBlank(field.name, field.value); err != nil {
			return err
		}
	}

	return nil
}

// Patch lists the updatable fields of a book, nil fields stay unchanged.
type Patch struct {
	Title      *string
	AuthorID   *core.AuthorIDString
	CategoryID *core.CategoryIDString
}

type ChangeDetailsCommand struct {
	BookID     core.BookIDString
	Patch      Patch
	OccurredAt core.OccurredAtTS
}

func BuildChangeDetailsCommand(bookID core.BookIDString, patch Patch, occurredAt time.Time) ChangeDetailsCommand {
	return ChangeDetailsCommand{BookID: bookID, Patch: patch, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c ChangeDetailsCommand) CommandType() string { return "ChangeBookDetails" }

func (c ChangeDetailsCommand) Validate() error {
	if err := core.RequireNonBlank("id", c.BookID); err != nil {
		return err
	}

	if c.Patch.Title != nil {
		if err := core.RequireNonBlank("title", *c.Patch.Title); err != nil {
			return err
		}
	}

	if c.Patch.AuthorID != nil {
		if err := core.RequireNonBlank("authorId", *c.Patch.AuthorID); err != nil {
			return err
		}
	}

	if c.Patch.CategoryID != nil {
		return core.RequireNonBlank("categoryId", *c.Patch.CategoryID)
	}

	return nil
}

type RemoveCommand struct {
	BookID     core.BookIDString
	OccurredAt core.OccurredAtTS
}

func BuildRemoveCommand(bookID core.BookIDString, occurredAt time.Time) RemoveCommand {
	return RemoveCommand{BookID: bookID, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c RemoveCommand) CommandType() string { return "RemoveBook" }

func (c RemoveCommand) Validate() error {
	return core.RequireNonBlank("id", c.BookID)
}
