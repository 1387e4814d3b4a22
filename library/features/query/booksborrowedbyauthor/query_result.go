package booksborrowedbyauthor

import (
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/books"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// BorrowedBooks lists distinct books ordered by BookID.
type BorrowedBooks struct {
	AuthorID       core.AuthorIDString
	Books          []books.Book
	Count          int
	SequenceNumber uint
}

func (r BorrowedBooks) GetSequenceNumber() uint {
	return r.SequenceNumber
}
