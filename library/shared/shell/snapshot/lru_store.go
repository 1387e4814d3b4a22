package snapshot

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

// DefaultLRUSize is the number of snapshots an LRUStore keeps by default.
const DefaultLRUSize = 256

// ErrInvalidLRUSize is returned for a non-positive cache size.
var ErrInvalidLRUSize = errors.New("snapshot cache size must be positive")

// LRUStore keeps snapshots in memory, evicting the least recently used ones.
// Snapshots are keyed by projection type and filter hash.
type LRUStore struct {
	cache *lru.Cache[string, eventstore.Snapshot]
}

// NewLRUStore creates an LRUStore holding at most size snapshots.
func NewLRUStore(size int) (*LRUStore, error) {
	if size <= 0 {
		return nil, ErrInvalidLRUSize
	}

	cache, err := lru.New[string, eventstore.Snapshot](size)
	if err != nil {
		return nil, errors.Join(ErrInvalidLRUSize, err)
	}

	return &LRUStore{cache: cache}, nil
}

// SaveSnapshot validates and stores the snapshot, replacing an older one for the same key.
// A snapshot with a lower sequence number than the stored one is ignored.
func (s *LRUStore) SaveSnapshot(ctx context.Context, snapshot eventstore.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrSavingSnapshotFailed, err)
	}

	if err := snapshot.Validate(); err != nil {
		return errors.Join(eventstore.ErrSavingSnapshotFailed, err)
	}

	key := snapshotKey(snapshot.ProjectionType, snapshot.FilterHash)

	if stored, ok := s.cache.Peek(key); ok && stored.SequenceNumber > snapshot.SequenceNumber {
		return nil
	}

	s.cache.Add(key, snapshot)

	return nil
}

// LoadSnapshot returns the stored snapshot, or nil without error if there is none.
func (s *LRUStore) LoadSnapshot(
	ctx context.Context,
	projectionType string,
	filter eventstore.Filter,
) (*eventstore.Snapshot, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(eventstore.ErrLoadingSnapshotFailed, err)
	}

	snapshot, ok := s.cache.Get(snapshotKey(projectionType, filter.Hash()))
	if !ok {
		return nil, nil
	}

	return &snapshot, nil
}

// Purge drops all snapshots.
func (s *LRUStore) Purge() {
	s.cache.Purge()
}

// Len returns the number of stored snapshots.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}

func snapshotKey(projectionType, filterHash string) string {
	return projectionType + "/" + filterHash
}
