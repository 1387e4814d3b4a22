package books

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	queryType    = "Books"
	snapshotType = "Books"
)

// Query selects all books, or only the one with BookID if it is not empty.
type Query struct {
	BookID core.BookIDString
}

func BuildQuery(bookID core.BookIDString) Query {
	return Query{BookID: bookID}
}

func (q Query) QueryType() string    { return queryType }
func (q Query) SnapshotType() string { return snapshotType }
