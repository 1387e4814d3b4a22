package openloansforpatron

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

type Loan struct {
	LoanID     core.LoanIDString
	BookID     core.BookIDString
	PatronID   core.PatronIDString
	BorrowedAt core.OccurredAtTS
}

type OpenLoans struct {
	PatronID       core.PatronIDString
	PatronExists   bool
	Loans          []Loan
	Count          int
	SequenceNumber uint
}

func (r OpenLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
