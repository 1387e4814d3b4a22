package requestloan

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const commandType = "RequestLoan"

// Command represents the intent to lend a book to a patron. LoanID is chosen by the caller.
type Command struct {
	LoanID     core.LoanIDString
	BookID     core.BookIDString
	PatronID   core.PatronIDString
	OccurredAt core.OccurredAtTS
}

// BuildCommand creates a new Command, occurredAt becomes the borrowedAt of the loan.
func BuildCommand(
	loanID core.LoanIDString,
	bookID core.BookIDString,
	patronID core.PatronIDString,
	occurredAt time.Time,
) Command {

	return Command{
		LoanID:     loanID,
		BookID:     bookID,
		PatronID:   patronID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type.
func (c Command) CommandType() string {
	return commandType
}

// Validate rejects blank ids.
func (c Command) Validate() error {
	if err := core.RequireNonBlank("bookId", c.BookID); err != nil {
		return err
	}

	if err := core.RequireNonBlank("patronId", c.PatronID); err != nil {
		return err
	}

	return core.RequireNonBlank("loanId", c.LoanID)
}
