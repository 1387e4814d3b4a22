package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

// SpySpanContext is the span handed out by the TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	name       string
	status     string
	attributes map[string]string
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

// SpySpanRecord is a finished span.
type SpySpanRecord struct {
	Name            string
	Status          string
	StartAttributes map[string]string
	EndAttributes   map[string]string
	SpanAttributes  map[string]string
}

// TracingCollectorSpy captures started and finished spans, it implements eventstore.TracingCollector.
type TracingCollectorSpy struct {
	mu          sync.Mutex
	recordCalls bool
	started     map[*SpySpanContext]map[string]string
	records     []SpySpanRecord
}

func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{
		recordCalls: recordCalls,
		started:     make(map[*SpySpanContext]map[string]string),
	}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, eventstore.SpanContext) {

	span := &SpySpanContext{name: name, attributes: make(map[string]string)}

	if s.recordCalls {
		s.mu.Lock()
		s.started[span] = maps.Clone(attrs)
		s.mu.Unlock()
	}

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !ok || !s.recordCalls {
		return
	}

	span.mu.Lock()
	spanAttributes := maps.Clone(span.attributes)
	span.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpySpanRecord{
		Name:            span.name,
		Status:          status,
		StartAttributes: s.started[span],
		EndAttributes:   maps.Clone(attrs),
		SpanAttributes:  spanAttributes,
	})
	delete(s.started, span)
}

// GetSpanRecords returns a copy of all finished spans.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpySpanRecord(nil), s.records...)
}

// HasSpanRecordForName returns a matcher over the finished spans with the given name.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	candidates := make([]SpySpanRecord, 0)

	for _, record := range s.GetSpanRecords() {
		if record.Name == name {
			candidates = append(candidates, record)
		}
	}

	return &SpanRecordMatcher{candidates: candidates}
}

type SpanRecordMatcher struct {
	candidates []SpySpanRecord
}

func (m *SpanRecordMatcher) filter(keep func(SpySpanRecord) bool) *SpanRecordMatcher {
	kept := make([]SpySpanRecord, 0)

	for _, record := range m.candidates {
		if keep(record) {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	return m.filter(func(r SpySpanRecord) bool { return r.Status == status })
}

func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(r SpySpanRecord) bool { return r.StartAttributes[key] == value })
}

func (m *SpanRecordMatcher) WithEndAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(r SpySpanRecord) bool { return r.EndAttributes[key] == value })
}

func (m *SpanRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
