package wiring_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/authors"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/snapshot"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/wiring"
	"github.com/AntonStoeckl/library-ledger-go/testutil/librarytest"
	"github.com/AntonStoeckl/library-ledger-go/testutil/testdoubles"
)

func Test_NewDependencies_Defaults(t *testing.T) {
	// act
	deps, err := wiring.NewDependencies(memoryengine.NewEventStore())

	// assert
	require.NoError(t, err, "Should accept an event store without options")
	assert.NotNil(t, deps.Now, "Should default the clock")
	assert.NotNil(t, deps.NewID, "Should default the id generator")
	assert.Nil(t, deps.Snapshots, "Should not enable snapshots by default")
}

func Test_NewDependencies_RejectsNilValues(t *testing.T) {
	testCases := []struct {
		name string
		opts []wiring.Option
		err  error
	}{
		{name: "clock", opts: []wiring.Option{wiring.WithClock(nil)}, err: wiring.ErrNilClock},
		{name: "id generator", opts: []wiring.Option{wiring.WithIDGenerator(nil)}, err: wiring.ErrNilIDGenerator},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := wiring.NewDependencies(memoryengine.NewEventStore(), tc.opts...)

			// assert
			assert.ErrorIs(t, err, tc.err, "Should reject the nil value")
		})
	}

	_, err := wiring.NewDependencies(nil)
	assert.ErrorIs(t, err, wiring.ErrNilEventStore, "Should reject a nil event store")
}

func Test_SnapshotQuery_ObservesAndSnapshots(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	librarytest.GivenEvents(t, es, core.BuildAuthorAdded("a-1", "Hugo", fakeClock))

	metrics := testdoubles.NewMetricsCollectorSpy(true)
	store, err := snapshot.NewLRUStore(4)
	require.NoError(t, err, "Should create the snapshot store")

	deps, err := wiring.NewDependencies(es, wiring.WithMetrics(metrics), wiring.WithSnapshots(store))
	require.NoError(t, err, "Should build the dependencies")

	handler, err := wiring.SnapshotQuery[authors.Query, authors.Authors](
		authors.NewQueryHandler(es), authors.Project, authors.BuildEventFilter, deps,
	)
	require.NoError(t, err, "Should wire the query")

	// act
	result, err := handler.Handle(context.Background(), authors.BuildQuery(""))

	// assert
	require.NoError(t, err, "Should handle the query")
	assert.Len(t, result.Items, 1, "Should project the author")
	assert.Equal(t, 1, store.Len(), "Should save a snapshot")
	assert.Positive(t, metrics.CountCounterRecordsForMetric(shell.QueryHandlerCallsMetric), "Should count the call")
}
