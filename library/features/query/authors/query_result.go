package authors

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

type Author struct {
	AuthorID core.AuthorIDString
	Name     string
}

// Authors is ordered by AuthorID.
type Authors struct {
	Items          []Author
	SequenceNumber uint
}

func (r Authors) GetSequenceNumber() uint {
	return r.SequenceNumber
}
