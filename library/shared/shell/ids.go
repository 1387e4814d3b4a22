package shell

import (
	"github.com/google/uuid"
)

// IDGenerator creates ids for new entities and loans.
type IDGenerator func() (string, error)

// NewID returns a time ordered UUIDv7.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
