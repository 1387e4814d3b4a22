package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/oteladapters"
)

func givenMetricsCollector(t *testing.T) (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return oteladapters.NewMetricsCollector(provider.Meter("ledger-test")), reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %s was not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDurationInSeconds(t *testing.T) {
	collector, reader := givenMetricsCollector(t)

	collector.RecordDuration(
		"eventstore_query_duration_seconds",
		150*time.Millisecond,
		map[string]string{"operation": "query", "status": "success"},
	)

	m := collectMetric(t, reader, "eventstore_query_duration_seconds")
	assert.Equal(t, "s", m.Unit)
	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Should be a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	operation, found := histogram.DataPoints[0].Attributes.Value(attribute.Key("operation"))
	assert.True(t, found)
	assert.Equal(t, "query", operation.AsString())
}

func Test_MetricsCollector_IncrementCounterAggregatesPerLabelSet(t *testing.T) {
	collector, reader := givenMetricsCollector(t)
	ctx := context.Background()

	collector.IncrementCounter("eventstore_concurrency_conflicts_total", map[string]string{"operation": "append"})
	collector.IncrementCounterContext(ctx, "eventstore_concurrency_conflicts_total", map[string]string{"operation": "append"})
	collector.IncrementCounterContext(ctx, "eventstore_concurrency_conflicts_total", map[string]string{"operation": "query"})

	m := collectMetric(t, reader, "eventstore_concurrency_conflicts_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Should be an int64 sum")
	assert.True(t, sum.IsMonotonic)
	require.Len(t, sum.DataPoints, 2)

	total := int64(0)
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
}

func Test_MetricsCollector_RecordValueAsGauge(t *testing.T) {
	collector, reader := givenMetricsCollector(t)

	collector.RecordValue("ledger_open_loans", 3, nil)
	collector.RecordValueContext(context.Background(), "ledger_open_loans", 2, nil)

	m := collectMetric(t, reader, "ledger_open_loans")
	gauge, ok := m.Data.(metricdata.Gauge[float64])
	require.True(t, ok, "Should be a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, float64(2), gauge.DataPoints[0].Value, "Should keep the last value")
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	collector, reader := givenMetricsCollector(t)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("commandhandler_calls_total", map[string]string{"command_type": "RequestLoan"})
		}()
	}
	wg.Wait()

	sum := collectMetric(t, reader, "commandhandler_calls_total").Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}
