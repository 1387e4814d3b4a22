package eventstore

import (
	"encoding/json"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrInvalidSnapshotJSON   = errors.New("snapshot json is not valid")
	ErrEmptyProjectionType   = errors.New("projection type must not be empty")
	ErrEmptyFilterHash       = errors.New("filter hash must not be empty")
	ErrSavingSnapshotFailed  = errors.New("saving snapshot failed")
	ErrLoadingSnapshotFailed = errors.New("loading snapshot failed")
)

// Snapshot is a stored projection state together with the sequence number of the last event it contains,
// so that a projection can be continued from there with an incremental query.
type Snapshot struct {
	ProjectionType string                // e.g. "AuthorsList"
	FilterHash     string                // Filter.Hash() of the filter the projection was built with
	SequenceNumber MaxSequenceNumberUint // last event sequence number contained in Data
	Data           json.RawMessage
	CreatedAt      time.Time
}

// Validate ensures the snapshot has valid data for storage operations.
func (s Snapshot) Validate() error {
	if s.ProjectionType == "" {
		return ErrEmptyProjectionType
	}

	if s.FilterHash == "" {
		return ErrEmptyFilterHash
	}

	if !jsoniter.ConfigFastest.Valid(s.Data) {
		return ErrInvalidSnapshotJSON
	}

	return nil
}

// BuildSnapshot creates a new validated Snapshot.
func BuildSnapshot(
	projectionType string,
	filterHash string,
	sequenceNumber MaxSequenceNumberUint,
	data json.RawMessage,
) (Snapshot, error) {

	snapshot := Snapshot{
		ProjectionType: projectionType,
		FilterHash:     filterHash,
		SequenceNumber: sequenceNumber,
		Data:           data,
		CreatedAt:      time.Now(),
	}

	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}
