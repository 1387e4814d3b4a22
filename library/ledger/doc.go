// Package ledger is the entry point for the loan lifecycle: requesting and returning loans,
// listing a patron's open loans and finding an author's books borrowed within a date range.
//
// Every operation runs a command or query slice behind the shell decorators. Errors are *core.DomainError
// values, match their kind with errors.Is.
package ledger
