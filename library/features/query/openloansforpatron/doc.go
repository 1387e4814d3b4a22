// Package openloansforpatron implements the query for the open loans of one patron.
//
// Loans are ordered by borrowedAt, loans borrowed at the same instant keep the order in which they were stored.
// Whether the patron exists is part of the result, so callers can tell an unknown patron from one without loans.
package openloansforpatron
