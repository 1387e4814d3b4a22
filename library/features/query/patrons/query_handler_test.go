package patrons_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/testutil/librarytest"
)

func Test_QueryHandler_Handle(t *testing.T) {
	// setup
	fakeClock := time.Unix(0, 0).UTC()
	es := memoryengine.NewEventStore()
	handler := patrons.NewQueryHandler(es)
	librarytest.GivenEvents(t, es,
		core.BuildPatronRegistered("p-2", "Bob", "bob@example.org", fakeClock),
		core.BuildPatronRegistered("p-1", "Alice", "alice@example.org", fakeClock),
		core.BuildPatronRegistered("p-3", "Carol", "carol@example.org", fakeClock),
		core.BuildPatronDetailsChanged("p-1", "Alice", "alice@example.com", fakeClock),
		core.BuildPatronRemoved("p-3", "Carol", "carol@example.org", fakeClock),
	)

	// act
	all, allErr := handler.Handle(context.Background(), patrons.BuildQuery(""))
	removed, removedErr := handler.Handle(context.Background(), patrons.BuildQuery("p-3"))

	// assert
	require.NoError(t, allErr, "Should list the patrons")
	require.NoError(t, removedErr, "Should query a removed patron")
	assert.Equal(t,
		[]patrons.Patron{
			{PatronID: "p-1", Name: "Alice", Email: "alice@example.com"},
			{PatronID: "p-2", Name: "Bob", Email: "bob@example.org"},
		},
		all.Items,
		"Should list the registered patrons ordered by id with current details",
	)
	assert.Empty(t, removed.Items, "Should not resolve a removed patron")
}
