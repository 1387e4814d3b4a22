package categories

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	queryType    = "Categories"
	snapshotType = "Categories"
)

// Query selects all categories, or only the one with CategoryID if it is not empty.
type Query struct {
	CategoryID core.CategoryIDString
}

func BuildQuery(categoryID core.CategoryIDString) Query {
	return Query{CategoryID: categoryID}
}

func (q Query) QueryType() string {
	return queryType
}

func (q Query) SnapshotType() string {
	return snapshotType
}
