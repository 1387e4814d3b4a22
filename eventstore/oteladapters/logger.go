package oteladapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

// SlogBridgeLogger is an eventstore.ContextualLogger on top of a *slog.Logger.
// Created with NewSlogBridgeLogger it emits through the global OTel LoggerProvider,
// so every record carries the trace and span id of its context.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a logger that writes through the otelslog bridge.
func NewSlogBridgeLogger(instrumentationName string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(instrumentationName)}
}

// NewSlogLogger wraps an existing *slog.Logger without any OTel correlation.
func NewSlogLogger(logger *slog.Logger) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: logger}
}

func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

// Slog exposes the wrapped logger, e.g. for the HTTP request logging middleware.
func (l *SlogBridgeLogger) Slog() *slog.Logger {
	return l.logger
}

// OTelLogger is an eventstore.ContextualLogger that emits log.Records with the OTel log API directly.
type OTelLogger struct {
	logger log.Logger
	now    func() time.Time
}

func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger, now: time.Now}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, "DEBUG", msg, args)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, "INFO", msg, args)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, "WARN", msg, args)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, "ERROR", msg, args)
}

func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, severityText, msg string, args []any) {
	if !l.logger.Enabled(ctx, log.EnabledParameters{Severity: severity}) {
		return
	}

	var record log.Record
	record.SetTimestamp(l.now())
	record.SetSeverity(severity)
	record.SetSeverityText(severityText)
	record.SetBody(log.StringValue(msg))
	record.AddAttributes(keyValuesFrom(args)...)

	l.logger.Emit(ctx, record)
}

// keyValuesFrom converts slog style alternating key/value args, a dangling key is dropped.
func keyValuesFrom(args []any) []log.KeyValue {
	kvs := make([]log.KeyValue, 0, len(args)/2)

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		kvs = append(kvs, log.KeyValue{Key: key, Value: logValueFrom(args[i+1])})
	}

	return kvs
}

func logValueFrom(v any) log.Value {
	switch typed := v.(type) {
	case string:
		return log.StringValue(typed)
	case bool:
		return log.BoolValue(typed)
	case int:
		return log.IntValue(typed)
	case int64:
		return log.Int64Value(typed)
	case uint:
		return log.Int64Value(int64(typed))
	case float64:
		return log.Float64Value(typed)
	case time.Duration:
		return log.Int64Value(typed.Milliseconds())
	case error:
		return log.StringValue(typed.Error())
	default:
		return log.StringValue(fmt.Sprint(typed))
	}
}

var (
	_ eventstore.ContextualLogger = (*SlogBridgeLogger)(nil)
	_ eventstore.ContextualLogger = (*OTelLogger)(nil)
)
