// Package manageauthors implements adding, renaming and removing authors.
//
// An author referenced by a book can't be removed. The removal decision reads all book events,
// so it conflicts with any concurrent book change.
package manageauthors
