package returnloan

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const commandType = "ReturnLoan"

// Command represents the intent to return a borrowed book.
type Command struct {
	LoanID     core.LoanIDString
	OccurredAt core.OccurredAtTS
}

// BuildCommand creates a new Command, occurredAt becomes the returnedAt of the loan.
func BuildCommand(loanID core.LoanIDString, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type.
func (c Command) CommandType() string {
	return commandType
}

func (c Command) Validate() error {
	return core.RequireNonBlank("loanId", c.LoanID)
}
