// Package books implements the catalog query for books.
//
// Availability is not stored anywhere: a book is available unless its latest loan is still open.
package books
