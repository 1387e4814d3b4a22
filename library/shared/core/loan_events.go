package core

import (
	"time"
)

// BookLentToPatronEventType is the event type identifier.
const BookLentToPatronEventType = "BookLentToPatron"

// BookReturnedByPatronEventType is the event type identifier.
const BookReturnedByPatronEventType = "BookReturnedByPatron"

// BookLentToPatron records that a loan was opened, the book is unavailable from now on. OccurredAt is the borrowedAt of the loan.
type BookLentToPatron struct {
	LoanID     LoanIDString
	BookID     BookIDString
	PatronID   PatronIDString
	OccurredAt OccurredAtTS
}

func BuildBookLentToPatron(
	loanID LoanIDString,
	bookID BookIDString,
	patronID PatronIDString,
	occurredAt time.Time,
) BookLentToPatron {

	return BookLentToPatron{
		LoanID:     loanID,
		BookID:     bookID,
		PatronID:   patronID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookLentToPatron) EventType() string {
	return BookLentToPatronEventType
}

func (e BookLentToPatron) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookLentToPatron) IsErrorEvent() bool {
	return false
}

// BookReturnedByPatron records that a loan was closed, the book is available again. OccurredAt is the returnedAt of the loan.
type BookReturnedByPatron struct {
	LoanID     LoanIDString
	BookID     BookIDString
	PatronID   PatronIDString
	OccurredAt OccurredAtTS
}

func BuildBookReturnedByPatron(
	loanID LoanIDString,
	bookID BookIDString,
	patronID PatronIDString,
	occurredAt time.Time,
) BookReturnedByPatron {

	return BookReturnedByPatron{
		LoanID:     loanID,
		BookID:     bookID,
		PatronID:   patronID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookReturnedByPatron) EventType() string {
	return BookReturnedByPatronEventType
}

func (e BookReturnedByPatron) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookReturnedByPatron) IsErrorEvent() bool {
	return false
}
