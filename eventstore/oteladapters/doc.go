// Package oteladapters implements the eventstore observability interfaces with OpenTelemetry:
// a contextual logger (slog bridge or the OTel log API), a metrics collector on a metric.Meter
// and a tracing collector on a trace.Tracer.
package oteladapters
