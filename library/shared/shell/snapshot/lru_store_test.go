package snapshot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/snapshot"
)

func givenSnapshot(t *testing.T, filter eventstore.Filter, seq uint, data string) eventstore.Snapshot {
	t.Helper()

	s, err := eventstore.BuildSnapshot("AuthorsList", filter.Hash(), seq, []byte(data))
	require.NoError(t, err, "Should build a snapshot")

	return s
}

func Test_LRUStore_SaveAndLoad(t *testing.T) {
	// setup
	store, err := snapshot.NewLRUStore(2)
	require.NoError(t, err, "Should create the store")
	filter := authorsFilter()
	ctx := context.Background()

	// arrange
	require.NoError(t, store.SaveSnapshot(ctx, givenSnapshot(t, filter, 3, `{"n":1}`)), "Should save")

	// act
	loaded, err := store.LoadSnapshot(ctx, "AuthorsList", filter)

	// assert
	assert.NoError(t, err, "Should load")
	require.NotNil(t, loaded, "Should find the snapshot")
	assert.Equal(t, uint(3), loaded.SequenceNumber, "Should keep the sequence number")
	assert.JSONEq(t, `{"n":1}`, string(loaded.Data), "Should keep the data")
}

func Test_LRUStore_Miss(t *testing.T) {
	// setup
	store, err := snapshot.NewLRUStore(2)
	require.NoError(t, err, "Should create the store")

	// act
	loaded, err := store.LoadSnapshot(context.Background(), "AuthorsList", authorsFilter())

	// assert
	assert.NoError(t, err, "Should not fail on a miss")
	assert.Nil(t, loaded, "Should return nil on a miss")
}

func Test_LRUStore_KeepsNewerSnapshot(t *testing.T) {
	// setup
	store, err := snapshot.NewLRUStore(2)
	require.NoError(t, err, "Should create the store")
	filter := authorsFilter()
	ctx := context.Background()
	require.NoError(t, store.SaveSnapshot(ctx, givenSnapshot(t, filter, 9, `{"n":9}`)), "Should save")

	// act
	err = store.SaveSnapshot(ctx, givenSnapshot(t, filter, 4, `{"n":4}`))

	// assert
	assert.NoError(t, err, "Should ignore the older snapshot silently")
	loaded, _ := store.LoadSnapshot(ctx, "AuthorsList", filter)
	require.NotNil(t, loaded, "Should find the snapshot")
	assert.Equal(t, uint(9), loaded.SequenceNumber, "Should keep the newer snapshot")
}

func Test_LRUStore_Evicts(t *testing.T) {
	// setup
	store, err := snapshot.NewLRUStore(1)
	require.NoError(t, err, "Should create the store")
	ctx := context.Background()
	first := authorsFilter()
	second := eventstore.BuildEventFilter().Matching().AnyEventTypeOf("CategoryAdded").Finalize()

	// act
	require.NoError(t, store.SaveSnapshot(ctx, givenSnapshot(t, first, 1, `{}`)), "Should save")
	require.NoError(t, store.SaveSnapshot(ctx, givenSnapshot(t, second, 2, `{}`)), "Should save")

	// assert
	assert.Equal(t, 1, store.Len(), "Should hold one snapshot")
	loaded, _ := store.LoadSnapshot(ctx, "AuthorsList", first)
	assert.Nil(t, loaded, "Should have evicted the least recently used snapshot")
}

func Test_LRUStore_RejectsInvalidSize(t *testing.T) {
	// act
	_, err := snapshot.NewLRUStore(0)

	// assert
	assert.ErrorIs(t, err, snapshot.ErrInvalidLRUSize, "Should reject a zero size")
}

func Test_LRUStore_RejectsInvalidSnapshot(t *testing.T) {
	// setup
	store, err := snapshot.NewLRUStore(1)
	require.NoError(t, err, "Should create the store")

	// act
	err = store.SaveSnapshot(context.Background(), eventstore.Snapshot{ProjectionType: "AuthorsList"})

	// assert
	assert.ErrorIs(t, err, eventstore.ErrSavingSnapshotFailed, "Should reject an invalid snapshot")
	assert.ErrorIs(t, err, eventstore.ErrEmptyFilterHash, "Should name the reason")
}
