package catalog

import (
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/manageauthors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managebooks"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managecategories"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managepatrons"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/authors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/categories"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/wiring"
)

const (
	failureAuthorNotFound   = "author not found"
	failureCategoryNotFound = "category not found"
	failureBookNotFound     = "book not found"
	failurePatronNotFound   = "patron not found"
)

type Catalog struct {
	deps wiring.Dependencies

	addAuthor    shell.CoreCommandHandler[manageauthors.AddCommand]
	renameAuthor shell.CoreCommandHandler[manageauthors.RenameCommand]
	removeAuthor shell.CoreCommandHandler[manageauthors.RemoveCommand]
	authors      shell.CoreQueryHandler[authors.Query, authors.Authors]

	addCategory    shell.CoreCommandHandler[managecategories.AddCommand]
	renameCategory shell.CoreCommandHandler[managecategories.RenameCommand]
	removeCategory shell.CoreCommandHandler[managecategories.RemoveCommand]
	categories     shell.CoreQueryHandler[categories.Query, categories.Categories]

	addBook           shell.CoreCommandHandler[managebooks.AddCommand]
	changeBookDetails shell.CoreCommandHandler[managebooks.ChangeDetailsCommand]
	removeBook        shell.CoreCommandHandler[managebooks.RemoveCommand]
	books             shell.CoreQueryHandler[books.Query, books.Books]

	registerPatron      shell.CoreCommandHandler[managepatrons.RegisterCommand]
	changePatronDetails shell.CoreCommandHandler[managepatrons.ChangeDetailsCommand]
	removePatron        shell.CoreCommandHandler[managepatrons.RemoveCommand]
	patrons             shell.CoreQueryHandler[patrons.Query, patrons.Patrons]
}

func New(eventStore shell.EventStore, opts ...wiring.Option) (*Catalog, error) {
	deps, err := wiring.NewDependencies(eventStore, opts...)
	if err != nil {
		return nil, err
	}

	c := &Catalog{deps: deps}

	for _, wire := range []func() error{c.wireAuthors, c.wireCategories, c.wireBooks, c.wirePatrons} {
		if err = wire(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) wireAuthors() error {
	var err error

	es, deps := c.deps.EventStore, c.deps

	if c.addAuthor, err = wiring.Command[manageauthors.AddCommand](
		manageauthors.NewAddCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.renameAuthor, err = wiring.Command[manageauthors.RenameCommand](
		manageauthors.NewRenameCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.removeAuthor, err = wiring.Command[manageauthors.RemoveCommand](
		manageauthors.NewRemoveCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	c.authors, err = wiring.SnapshotQuery[authors.Query, authors.Authors](
		authors.NewQueryHandler(es), authors.Project, authors.BuildEventFilter, deps,
	)

	return err
}

func (c *Catalog) wireCategories() error {
	var err error

	es, deps := c.deps.EventStore, c.deps

	if c.addCategory, err = wiring.Command[managecategories.AddCommand](
		managecategories.NewAddCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.renameCategory, err = wiring.Command[managecategories.RenameCommand](
		managecategories.NewRenameCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.removeCategory, err = wiring.Command[managecategories.RemoveCommand](
		managecategories.NewRemoveCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	c.categories, err = wiring.SnapshotQuery[categories.Query, categories.Categories](
		categories.NewQueryHandler(es), categories.Project, categories.BuildEventFilter, deps,
	)

	return err
}

func (c *Catalog) wireBooks() error {
	var err error

	es, deps := c.deps.EventStore, c.deps

	if c.addBook, err = wiring.Command[managebooks.AddCommand](
		managebooks.NewAddCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.changeBookDetails, err = wiring.Command[managebooks.ChangeDetailsCommand](
		managebooks.NewChangeDetailsCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.removeBook, err = wiring.Command[managebooks.RemoveCommand](
		managebooks.NewRemoveCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	c.books, err = wiring.SnapshotQuery[books.Query, books.Books](
		books.NewQueryHandler(es), books.Project, books.BuildEventFilter, deps,
	)

	return err
}

func (c *Catalog) wirePatrons() error {
	var err error

	es, deps := c.deps.EventStore, c.deps

	if c.registerPatron, err = wiring.Command[managepatrons.RegisterCommand](
		managepatrons.NewRegisterCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.changePatronDetails, err = wiring.Command[managepatrons.ChangeDetailsCommand](
		managepatrons.NewChangeDetailsCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	if c.removePatron, err = wiring.Command[managepatrons.RemoveCommand](
		managepatrons.NewRemoveCommandHandler(es, deps.RetryOptions...), deps,
	); err != nil {
		return err
	}

	c.patrons, err = wiring.SnapshotQuery[patrons.Query, patrons.Patrons](
		patrons.NewQueryHandler(es), patrons.Project, patrons.BuildEventFilter, deps,
	)

	return err
}

func (c *Catalog) newID() (string, error) {
	id, err := c.deps.NewID()
	if err != nil {
		return "", core.StorageError(err)
	}

	return id, nil
}

// single returns the only item of a by-id projection, or not found.
func single[T any](items []T, failure string) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, core.NotFoundError(failure)
	}

	return items[0], nil
}
