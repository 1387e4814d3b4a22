package authors

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	queryType    = "Authors"
	snapshotType = "Authors"
)

// Query selects all authors, or only the one with AuthorID if it is not empty.
type Query struct {
	AuthorID core.AuthorIDString
}

func BuildQuery(authorID core.AuthorIDString) Query {
	return Query{AuthorID: authorID}
}

func (q Query) QueryType() string {
	return queryType
}

func (q Query) SnapshotType() string {
	return snapshotType
}
