package loandetails

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Loan is the zero value with Found false if no loan has the queried id.
type Loan struct {
	Found          bool
	LoanID         core.LoanIDString
	BookID         core.BookIDString
	PatronID       core.PatronIDString
	BorrowedAt     core.OccurredAtTS
	ReturnedAt     *time.Time
	SequenceNumber uint
}

func (l Loan) GetSequenceNumber() uint {
	return l.SequenceNumber
}

func (l Loan) IsOpen() bool {
	return l.Found && l.ReturnedAt == nil
}
