package ledger

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/requestloan"
	"github.com/AntonStoeckl/library-ledger-go/library/features/command/returnloan"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/booksborrowedbyauthor"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/loandetails"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/openloansforpatron"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/wiring"
)

const (
	failurePatronNotFound = "patron not found"
	failureLoanNotFound   = "loan not found"
)

type Ledger struct {
	deps wiring.Dependencies

	requestLoan      shell.CoreCommandHandler[requestloan.Command]
	returnLoan       shell.CoreCommandHandler[returnloan.Command]
	openLoans        shell.CoreQueryHandler[openloansforpatron.Query, openloansforpatron.OpenLoans]
	borrowedByAuthor shell.CoreQueryHandler[booksborrowedbyauthor.Query, booksborrowedbyauthor.BorrowedBooks]
	loanDetails      shell.CoreQueryHandler[loandetails.Query, loandetails.Loan]
	books            shell.CoreQueryHandler[books.Query, books.Books]
	patrons          shell.CoreQueryHandler[patrons.Query, patrons.Patrons]
}

func New(eventStore shell.EventStore, opts ...wiring.Option) (*Ledger, error) {
	deps, err := wiring.NewDependencies(eventStore, opts...)
	if err != nil {
		return nil, err
	}

	l := &Ledger{deps: deps}

	if err := l.wireHandlers(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) wireHandlers() error {
	var err error

	es, deps := l.deps.EventStore, l.deps

	if l.requestLoan, err = wiring.Command[requestloan.Command](
		requestloan.NewCommandHandler(es, requestloan.WithRetryOptions(deps.RetryOptions...)), deps,
	); err != nil {
		return err
	}

	if l.returnLoan, err = wiring.Command[returnloan.Command](
		returnloan.NewCommandHandler(es, returnloan.WithRetryOptions(deps.RetryOptions...)), deps,
	); err != nil {
		return err
	}

	if l.openLoans, err = wiring.SnapshotQuery[openloansforpatron.Query, openloansforpatron.OpenLoans](
		openloansforpatron.NewQueryHandler(es), openloansforpatron.Project, openloansforpatron.BuildEventFilter, deps,
	); err != nil {
		return err
	}

	if l.books, err = wiring.SnapshotQuery[books.Query, books.Books](
		books.NewQueryHandler(es), books.Project, books.BuildEventFilter, deps,
	); err != nil {
		return err
	}

	if l.patrons, err = wiring.Query[patrons.Query, patrons.Patrons](patrons.NewQueryHandler(es), deps); err != nil {
		return err
	}

	if l.borrowedByAuthor, err = wiring.Query[booksborrowedbyauthor.Query, booksborrowedbyauthor.BorrowedBooks](
		booksborrowedbyauthor.NewQueryHandler(es), deps,
	); err != nil {
		return err
	}

	l.loanDetails, err = wiring.Query[loandetails.Query, loandetails.Loan](loandetails.NewQueryHandler(es), deps)

	return err
}

// RequestLoan lends the book to the patron and returns the new loan.
//
// It fails with a validation error for blank ids, not found if book or patron don't exist,
// conflict if the book is already lent and limit exceeded if the patron has reached the loan cap.
func (l *Ledger) RequestLoan(ctx context.Context, bookID core.BookIDString, patronID core.PatronIDString) (Loan, error) {
	loanID, err := l.deps.NewID()
	if err != nil {
		return Loan{}, core.StorageError(err)
	}

	borrowedAt := core.ToOccurredAt(l.deps.Now())

	if _, err = l.requestLoan.Handle(ctx, requestloan.BuildCommand(loanID, bookID, patronID, borrowedAt)); err != nil {
		return Loan{}, err
	}

	book, err := l.book(ctx, bookID)
	if err != nil {
		return Loan{}, err
	}

	patron, err := l.patron(ctx, patronID)
	if err != nil {
		return Loan{}, err
	}

	return Loan{LoanID: loanID, Book: book, Patron: patron, BorrowedAt: borrowedAt}, nil
}

// ReturnLoan closes the open loan, a closed or unknown loan is not found.
func (l *Ledger) ReturnLoan(ctx context.Context, loanID core.LoanIDString) error {
	_, err := l.returnLoan.Handle(ctx, returnloan.BuildCommand(loanID, l.deps.Now()))

	return err
}

// ListOpenLoansForPatron returns the patron's open loans ordered by borrowedAt.
func (l *Ledger) ListOpenLoansForPatron(ctx context.Context, patronID core.PatronIDString) ([]Loan, error) {
	if err := core.RequireNonBlank("patronId", patronID); err != nil {
		return nil, err
	}

	open, err := l.openLoans.Handle(ctx, openloansforpatron.BuildQuery(patronID))
	if err != nil {
		return nil, err
	}

	if !open.PatronExists {
		return nil, core.NotFoundError(failurePatronNotFound)
	}

	patron, err := l.patron(ctx, patronID)
	if err != nil {
		return nil, err
	}

	catalog, err := l.books.Handle(ctx, books.BuildQuery(""))
	if err != nil {
		return nil, err
	}

	booksByID := make(map[core.BookIDString]books.Book, len(catalog.Items))
	for _, book := range catalog.Items {
		booksByID[book.BookID] = book
	}

	loans := make([]Loan, 0, len(open.Loans))
	for _, loan := range open.Loans {
		loans = append(loans, Loan{
			LoanID:     loan.LoanID,
			Book:       booksByID[loan.BookID],
			Patron:     patron,
			BorrowedAt: loan.BorrowedAt,
		})
	}

	return loans, nil
}

// ListBooksBorrowedByAuthorBetween returns the author's distinct books with a loan borrowed between the
// two YYYY-MM-DD dates, both days inclusive, ordered by book id.
func (l *Ledger) ListBooksBorrowedByAuthorBetween(
	ctx context.Context,
	authorID core.AuthorIDString,
	startDate string,
	endDate string,
) ([]books.Book, error) {

	query, err := booksborrowedbyauthor.BuildQuery(authorID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	result, err := l.borrowedByAuthor.Handle(ctx, query)
	if err != nil {
		return nil, err
	}

	return result.Books, nil
}

// GetLoan returns a loan, open or returned.
func (l *Ledger) GetLoan(ctx context.Context, loanID core.LoanIDString) (Loan, error) {
	if err := core.RequireNonBlank("loanId", loanID); err != nil {
		return Loan{}, err
	}

	details, err := l.loanDetails.Handle(ctx, loandetails.BuildQuery(loanID))
	if err != nil {
		return Loan{}, err
	}

	if !details.Found {
		return Loan{}, core.NotFoundError(failureLoanNotFound)
	}

	book, err := l.book(ctx, details.BookID)
	if err != nil {
		return Loan{}, err
	}

	patron, err := l.patron(ctx, details.PatronID)
	switch {
	case isNotFound(err):
		// removed after returning the loan
		patron = patrons.Patron{PatronID: details.PatronID}
	case err != nil:
		return Loan{}, err
	}

	return Loan{
		LoanID:     details.LoanID,
		Book:       book,
		Patron:     patron,
		BorrowedAt: details.BorrowedAt,
		ReturnedAt: details.ReturnedAt,
	}, nil
}
