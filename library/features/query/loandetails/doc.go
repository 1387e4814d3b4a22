// Package loandetails implements the query for a single loan, open or returned.
package loandetails
