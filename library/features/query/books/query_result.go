package books

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

type Book struct {
	BookID     core.BookIDString
	Title      string
	AuthorID   core.AuthorIDString
	CategoryID core.CategoryIDString
	Available  bool
}

// Books is ordered by BookID.
type Books struct {
	Items          []Book
	SequenceNumber uint
}

func (r Books) GetSequenceNumber() uint {
	return r.SequenceNumber
}

// ByAuthor keeps the books currently assigned to authorID.
func (r Books) ByAuthor(authorID core.AuthorIDString) []Book {
	kept := make([]Book, 0)

	for _, book := range r.Items {
		if book.AuthorID == authorID {
			kept = append(kept, book)
		}
	}

	return kept
}
