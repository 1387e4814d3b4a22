package categories

import (
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

type Category struct {
	CategoryID core.CategoryIDString
	Name       string
}

// Categories is ordered by CategoryID.
type Categories struct {
	Items          []Category
	SequenceNumber uint
}

func (r Categories) GetSequenceNumber() uint {
	return r.SequenceNumber
}
