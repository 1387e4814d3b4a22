package patrons

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

type Patron struct {
	PatronID core.PatronIDString
	Name     string
	Email    string
}

// Patrons is ordered by PatronID.
type Patrons struct {
	Items          []Patron
	SequenceNumber uint
}

func (r Patrons) GetSequenceNumber() uint {
	return r.SequenceNumber
}
