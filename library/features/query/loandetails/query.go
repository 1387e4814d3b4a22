package loandetails

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	queryType    = "LoanDetails"
	snapshotType = "LoanDetails"
)

type Query struct {
	LoanID core.LoanIDString
}

func BuildQuery(loanID core.LoanIDString) Query {
	return Query{LoanID: loanID}
}

func (q Query) QueryType() string    { return queryType }
func (q Query) SnapshotType() string { return snapshotType }
