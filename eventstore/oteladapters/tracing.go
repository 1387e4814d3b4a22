package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

const attrStatus = "status"

// TracingCollector starts OTel spans for event store and handler operations.
type TracingCollector struct {
	tracer trace.Tracer
}

func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

func (c *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	spanCtx, span := c.tracer.Start(ctx, name, trace.WithAttributes(attributesFrom(attrs)...))

	return spanCtx, &Span{span: span}
}

// FinishSpan sets the final attributes and the status, then ends the span.
// Span contexts not created by this collector are ignored.
func (c *TracingCollector) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*Span)
	if !ok {
		return
	}

	span.span.SetAttributes(attributesFrom(attrs)...)
	span.SetStatus(status)
	span.span.End()
}

// Span wraps a trace.Span as eventstore.SpanContext.
type Span struct {
	span trace.Span
}

// SetStatus maps the status labels used across the ledger onto OTel status codes.
// "idempotent" is a successful outcome, unknown labels only become an attribute.
func (s *Span) SetStatus(status string) {
	s.span.SetAttributes(attribute.String(attrStatus, status))

	switch status {
	case "success", "idempotent", "ok":
		s.span.SetStatus(codes.Ok, "")
	case "error":
		s.span.SetStatus(codes.Error, "operation failed")
	case "canceled", "cancelled":
		s.span.SetStatus(codes.Error, "operation canceled")
	case "timeout":
		s.span.SetStatus(codes.Error, "operation timed out")
	case "concurrency_conflict", "conflict":
		s.span.SetStatus(codes.Error, "concurrency conflict")
	}
}

func (s *Span) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var (
	_ eventstore.TracingCollector = (*TracingCollector)(nil)
	_ eventstore.SpanContext      = (*Span)(nil)
)
