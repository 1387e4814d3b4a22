package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-ledger-go/testutil/testdoubles"
)

type fakeQuery struct{}

func (fakeQuery) QueryType() string    { return "FakeQuery" }
func (fakeQuery) SnapshotType() string { return "FakeProjection" }

type fakeQueryResult struct {
	Count          int
	SequenceNumber uint
}

func (r fakeQueryResult) GetSequenceNumber() uint { return r.SequenceNumber }

type fakeQueryHandler struct {
	result fakeQueryResult
	err    error
}

func (h fakeQueryHandler) Handle(_ context.Context, _ fakeQuery) (fakeQueryResult, error) {
	return h.result, h.err
}

func givenWrappedQueryHandler(
	t *testing.T,
	coreHandler fakeQueryHandler,
) (*observable.QueryWrapper[fakeQuery, fakeQueryResult], *testdoubles.MetricsCollectorSpy, *testdoubles.ContextualLoggerSpy) {
	t.Helper()

	metrics := testdoubles.NewMetricsCollectorSpy(true)
	logger := testdoubles.NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[fakeQuery, fakeQueryResult](
		coreHandler,
		observable.WithQueryMetrics[fakeQuery, fakeQueryResult](metrics),
		observable.WithQueryTracing[fakeQuery, fakeQueryResult](testdoubles.NewTracingCollectorSpy(true)),
		observable.WithQueryContextualLogging[fakeQuery, fakeQueryResult](logger),
	)
	assert.NoError(t, err, "Should create wrapper")

	return wrapper, metrics, logger
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	wrapper, metrics, logger := givenWrappedQueryHandler(t, fakeQueryHandler{result: fakeQueryResult{Count: 3, SequenceNumber: 7}})

	// act
	result, err := wrapper.Handle(context.Background(), fakeQuery{})

	// assert
	assert.NoError(t, err, "Should handle query")
	assert.Equal(t, 3, result.Count, "Should return the core result")
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "FakeQuery").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should count the call")
	assert.True(t, logger.HasInfoLog(shell.LogMsgQueryCompleted), "Should log the completion")
}

func Test_QueryWrapper_Handle_Canceled(t *testing.T) {
	// arrange
	wrapper, metrics, logger := givenWrappedQueryHandler(t, fakeQueryHandler{err: core.StorageError(context.Canceled)})

	// act
	_, err := wrapper.Handle(context.Background(), fakeQuery{})

	// assert
	assert.ErrorIs(t, err, context.Canceled, "Should return the core error")
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCanceledMetric).
		WithStatus(shell.StatusCanceled).
		Assert(), "Should count the canceled query")
	assert.True(t, logger.HasErrorLog(shell.LogMsgQueryFailed), "Should log the failure")
}

func Test_QueryWrapper_Handle_Error(t *testing.T) {
	// arrange
	wrapper, metrics, _ := givenWrappedQueryHandler(t, fakeQueryHandler{err: core.StorageError(errors.New("boom"))})

	// act
	_, err := wrapper.Handle(context.Background(), fakeQuery{})

	// assert
	assert.ErrorIs(t, err, core.ErrStorage, "Should return the core error")
	assert.True(t, metrics.HasDurationRecordForMetric(shell.QueryHandlerDurationMetric).
		WithStatus(shell.StatusError).
		Assert(), "Should record the duration with status error")
}
