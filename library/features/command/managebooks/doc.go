// Package managebooks implements adding books to the catalog, changing their details and removing them.
//
// A book's author and category must exist when they are set. A book with an open loan can't be removed.
// Availability is derived from loans and is never changed here.
package managebooks
