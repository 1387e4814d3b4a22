package httpapi

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/manageauthors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managebooks"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managecategories"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managepatrons"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/authors"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/categories"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/ledger"
)

// Loans is implemented by *ledger.Ledger.
type Loans interface {
	RequestLoan(ctx context.Context, bookID, patronID string) (ledger.Loan, error)
	ReturnLoan(ctx context.Context, loanID string) error
	GetLoan(ctx context.Context, loanID string) (ledger.Loan, error)
	ListOpenLoansForPatron(ctx context.Context, patronID string) ([]ledger.Loan, error)
	ListBooksBorrowedByAuthorBetween(ctx context.Context, authorID, startDate, endDate string) ([]books.Book, error)
}

// Catalog is implemented by *catalog.Catalog.
type Catalog interface {
	AddAuthor(ctx context.Context, name string) (authors.Author, error)
	RenameAuthor(ctx context.Context, authorID string, patch manageauthors.Patch) (authors.Author, error)
	RemoveAuthor(ctx context.Context, authorID string) error
	ListAuthors(ctx context.Context) ([]authors.Author, error)
	GetAuthor(ctx context.Context, authorID string) (authors.Author, error)

	AddCategory(ctx context.Context, name string) (categories.Category, error)
	RenameCategory(ctx context.Context, categoryID string, patch managecategories.Patch) (categories.Category, error)
	RemoveCategory(ctx context.Context, categoryID string) error
	ListCategories(ctx context.Context) ([]categories.Category, error)
	GetCategory(ctx context.Context, categoryID string) (categories.Category, error)

	AddBook(ctx context.Context, title, authorID, categoryID string) (books.Book, error)
	ChangeBookDetails(ctx context.Context, bookID string, patch managebooks.Patch) (books.Book, error)
	RemoveBook(ctx context.Context, bookID string) error
	ListBooks(ctx context.Context) ([]books.Book, error)
	GetBook(ctx context.Context, bookID string) (books.Book, error)

	RegisterPatron(ctx context.Context, name, email string) (patrons.Patron, error)
	ChangePatronDetails(ctx context.Context, patronID string, patch managepatrons.Patch) (patrons.Patron, error)
	RemovePatron(ctx context.Context, patronID string) error
	ListPatrons(ctx context.Context) ([]patrons.Patron, error)
	GetPatron(ctx context.Context, patronID string) (patrons.Patron, error)
}

// HealthCheck reports whether the event store can be reached.
type HealthCheck func(ctx context.Context) error
