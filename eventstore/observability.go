package eventstore

import (
	"context"
	"time"
)

// Labels are the dimensions attached to a metric or span, keyed by label name.
type Labels = map[string]string

type (
	// Logger matches *slog.Logger, engines log with it when no ContextualLogger is set.
	Logger interface {
		Debug(msg string, args ...any)
		Info(msg string, args ...any)
		Warn(msg string, args ...any)
		Error(msg string, args ...any)
	}

	// ContextualLogger matches *slog.Logger too and lets a handler pick up the trace from ctx.
	ContextualLogger interface {
		DebugContext(ctx context.Context, msg string, args ...any)
		InfoContext(ctx context.Context, msg string, args ...any)
		WarnContext(ctx context.Context, msg string, args ...any)
		ErrorContext(ctx context.Context, msg string, args ...any)
	}
)

type (
	MetricsCollector interface {
		RecordDuration(metric string, duration time.Duration, labels Labels)
		IncrementCounter(metric string, labels Labels)
		RecordValue(metric string, value float64, labels Labels)
	}

	// ContextualMetricsCollector is checked for with a type assertion, callers then pass ctx along.
	ContextualMetricsCollector interface {
		MetricsCollector
		RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels Labels)
		IncrementCounterContext(ctx context.Context, metric string, labels Labels)
		RecordValueContext(ctx context.Context, metric string, value float64, labels Labels)
	}
)

type (
	SpanContext interface {
		SetStatus(status string)
		AddAttribute(key, value string)
	}

	// TracingCollector opens a span in StartSpan, the returned ctx carries it to nested calls.
	TracingCollector interface {
		StartSpan(ctx context.Context, name string, attrs Labels) (context.Context, SpanContext)
		FinishSpan(spanCtx SpanContext, status string, attrs Labels)
	}
)
