package openloansforpatron

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	queryType    = "OpenLoansForPatron"
	snapshotType = "OpenLoansForPatron"
)

type Query struct {
	PatronID core.PatronIDString
}

func BuildQuery(patronID core.PatronIDString) Query {
	return Query{PatronID: patronID}
}

func (q Query) QueryType() string    { return queryType }
func (q Query) SnapshotType() string { return snapshotType }
