package core

import (
	"time"
)

// BookIDString represents a book identifier.
type BookIDString = string

// AuthorIDString represents an author identifier.
type AuthorIDString = string

// CategoryIDString represents a category identifier.
type CategoryIDString = string

// PatronIDString represents a patron identifier.
type PatronIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt normalizes to UTC with microsecond precision, the precision Postgres keeps.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// MaxConcurrentLoansPerPatron is the loan cap.
const MaxConcurrentLoansPerPatron = 4
