package core

import (
	"time"
)

// LendingBookToPatronFailedEventType is the event type identifier.
const LendingBookToPatronFailedEventType = "LendingBookToPatronFailed"

// ReturningLoanFailedEventType is the event type identifier.
const ReturningLoanFailedEventType = "ReturningLoanFailed"

// LendingBookToPatronFailed records that a RequestLoan was rejected by a business rule.
type LendingBookToPatronFailed struct {
	BookID      BookIDString
	PatronID    PatronIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

func BuildLendingBookToPatronFailed(
	bookID BookIDString,
	patronID PatronIDString,
	failureInfo string,
	occurredAt time.Time,
) LendingBookToPatronFailed {

	return LendingBookToPatronFailed{
		BookID:      bookID,
		PatronID:    patronID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e LendingBookToPatronFailed) EventType() string {
	return LendingBookToPatronFailedEventType
}

func (e LendingBookToPatronFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e LendingBookToPatronFailed) IsErrorEvent() bool {
	return true
}

// ReturningLoanFailed records that a ReturnLoan was rejected by a business rule.
type ReturningLoanFailed struct {
	LoanID      LoanIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

func BuildReturningLoanFailed(loanID LoanIDString, failureInfo string, occurredAt time.Time) ReturningLoanFailed {
	return ReturningLoanFailed{
		LoanID:      loanID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e ReturningLoanFailed) EventType() string {
	return ReturningLoanFailedEventType
}

func (e ReturningLoanFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReturningLoanFailed) IsErrorEvent() bool {
	return true
}
