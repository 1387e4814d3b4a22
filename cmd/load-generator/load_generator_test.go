package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-ledger-go/library/catalog"
	"github.com/AntonStoeckl/library-ledger-go/library/ledger"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/wiring"
)

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}

func Test_LoadGenerator_KeepsInvariantsUnderConcurrency(t *testing.T) {
	// setup
	ctx := context.Background()
	es := memoryengine.NewEventStore()

	loans, err := ledger.New(es)
	require.NoError(t, err)
	books, err := catalog.New(es)
	require.NoError(t, err)

	cfg := Config{Requests: 400, Workers: 16, Books: 12, Patrons: 3, ReturnPercent: 25}
	generator := NewLoadGenerator(loans, books, cfg, discardLogger{})

	// arrange
	require.NoError(t, generator.Seed(ctx))

	// act
	generator.Run(ctx)
	violations, err := generator.Verify(ctx)

	// assert
	require.NoError(t, err)
	assert.Empty(t, violations, "Should keep every invariant")

	var total int64
	outcomes := generator.Outcomes()
	for _, count := range outcomes {
		total += count
	}
	assert.Equal(t, int64(cfg.Requests), total, "Should count every operation")
	assert.Positive(t, outcomes[outcomeLent], "Should lend books")
	assert.Positive(t, outcomes[outcomeConflict]+outcomes[outcomeLimit], "Should reject loans with 12 books and 3 patrons")
}

func Test_LoadGenerator_StopsWhenCancelled(t *testing.T) {
	// setup
	es := memoryengine.NewEventStore()
	loans, err := ledger.New(es, wiring.WithLogger(discardLogger{}))
	require.NoError(t, err)
	books, err := catalog.New(es)
	require.NoError(t, err)

	generator := NewLoadGenerator(loans, books, Config{Requests: 1_000_000, Workers: 2, Books: 1, Patrons: 1}, discardLogger{})
	require.NoError(t, generator.Seed(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	generator.Run(ctx)

	// assert
	var total int64
	for _, count := range generator.Outcomes() {
		total += count
	}
	assert.Less(t, total, int64(1_000_000), "Should stop feeding operations")
}

func Test_OutcomeOf(t *testing.T) {
	assert.Equal(t, outcomeLent, outcomeOf(nil, outcomeLent))
	assert.Equal(t, outcomeConflict, outcomeOf(core.ConflictError("book not available"), outcomeLent))
	assert.Equal(t, outcomeLimit, outcomeOf(core.LimitExceededError("loan limit reached"), outcomeLent))
	assert.Equal(t, outcomeNotFound, outcomeOf(core.NotFoundError("loan not found"), outcomeReturned))
	assert.Equal(t, outcomeFailed, outcomeOf(core.StorageError(context.DeadlineExceeded), outcomeLent))
}

func Test_Config_Validate(t *testing.T) {
	valid := Config{Requests: 1, Workers: 1, Books: 1, Patrons: 1, ReturnPercent: 50}
	assert.NoError(t, valid.validate())

	noWorkers := valid
	noWorkers.Workers = 0
	assert.Error(t, noWorkers.validate(), "Should require workers")

	tooManyReturns := valid
	tooManyReturns.ReturnPercent = 101
	assert.Error(t, tooManyReturns.validate(), "Should reject the percentage")
}
