package oteladapters_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"

	"github.com/AntonStoeckl/library-ledger-go/eventstore/oteladapters"
)

type recordingOTelLogger struct {
	embedded.Logger
	minSeverity log.Severity
	records     []log.Record
}

func (r *recordingOTelLogger) Emit(_ context.Context, record log.Record) {
	r.records = append(r.records, record)
}

func (r *recordingOTelLogger) Enabled(_ context.Context, param log.EnabledParameters) bool {
	return param.Severity >= r.minSeverity
}

func attributesOf(record log.Record) map[string]log.Value {
	attrs := make(map[string]log.Value)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	return attrs
}

func Test_SlogLogger_WritesAllLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message", "book_id", "b-1")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	output := buf.String()
	assert.Contains(t, output, `"msg":"debug message"`)
	assert.Contains(t, output, `"book_id":"b-1"`)
	assert.Contains(t, output, `"msg":"info message"`)
	assert.Contains(t, output, `"msg":"warn message"`)
	assert.Contains(t, output, `"msg":"error message"`)
	assert.NotNil(t, logger.Slog())
}

func Test_SlogBridgeLogger_DoesNotPanicWithoutProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("ledger-test")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "no provider configured", "key", "value")
	})
}

func Test_OTelLogger_EmitsRecordsWithTypedAttributes(t *testing.T) {
	// setup
	recorder := &recordingOTelLogger{minSeverity: log.SeverityDebug}
	logger := oteladapters.NewOTelLogger(recorder)

	// act
	logger.InfoContext(
		context.Background(),
		"events appended",
		"event_count", 2,
		"table", "events",
		"strong", true,
		"error", errors.New("boom"),
		"dangling",
	)

	// assert
	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, log.SeverityInfo, record.Severity())
	assert.Equal(t, "INFO", record.SeverityText())
	assert.Equal(t, "events appended", record.Body().AsString())
	assert.WithinDuration(t, time.Now(), record.Timestamp(), time.Minute)

	attrs := attributesOf(record)
	assert.Len(t, attrs, 4, "Should drop the dangling key")
	assert.Equal(t, int64(2), attrs["event_count"].AsInt64())
	assert.Equal(t, "events", attrs["table"].AsString())
	assert.True(t, attrs["strong"].AsBool())
	assert.Equal(t, "boom", attrs["error"].AsString())
}

func Test_OTelLogger_SkipsDisabledSeverities(t *testing.T) {
	recorder := &recordingOTelLogger{minSeverity: log.SeverityWarn}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug")
	logger.InfoContext(ctx, "info")
	logger.WarnContext(ctx, "warn")
	logger.ErrorContext(ctx, "error")

	require.Len(t, recorder.records, 2)
	assert.Equal(t, log.SeverityWarn, recorder.records[0].Severity())
	assert.Equal(t, log.SeverityError, recorder.records[1].Severity())
}
