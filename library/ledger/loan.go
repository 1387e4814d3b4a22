package ledger

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Loan is a loan with its book and patron resolved. ReturnedAt is nil while the loan is open.
type Loan struct {
	LoanID     core.LoanIDString
	Book       books.Book
	Patron     patrons.Patron
	BorrowedAt time.Time
	ReturnedAt *time.Time
}

func (l Loan) IsOpen() bool {
	return l.ReturnedAt == nil
}
