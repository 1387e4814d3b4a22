// Package booksborrowedbyauthor implements the query for the books of an author that were borrowed
// within a date range.
//
// It reads in two phases. The first projects the catalog to find the books currently assigned to the author.
// The second queries the loans of exactly those books, bounded by the event store's occurred_at filter.
// A loan counts if it was borrowed in the range, no matter if it is still open.
package booksborrowedbyauthor
