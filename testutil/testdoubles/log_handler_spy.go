package testdoubles

import (
	"context"
	"log/slog"
	"sync"
)

// LogHandlerSpy is a slog.Handler capturing all records at all levels.
type LogHandlerSpy struct {
	mu      *sync.Mutex
	records *[]slog.Record
	attrs   []slog.Attr
}

func NewLogHandlerSpy() *LogHandlerSpy {
	return &LogHandlerSpy{mu: &sync.Mutex{}, records: &[]slog.Record{}}
}

func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := record.Clone()
	r.AddAttrs(s.attrs...)
	*s.records = append(*s.records, r)

	return nil
}

func (s *LogHandlerSpy) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandlerSpy{mu: s.mu, records: s.records, attrs: append(append([]slog.Attr(nil), s.attrs...), attrs...)}
}

func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecords returns a copy of all captured records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]slog.Record(nil), *s.records...)
}

// FindRecord returns the first record with the given level and message.
func (s *LogHandlerSpy) FindRecord(level slog.Level, message string) (slog.Record, bool) {
	for _, record := range s.GetRecords() {
		if record.Level == level && record.Message == message {
			return record, true
		}
	}

	return slog.Record{}, false
}

// AttrValue returns the value of the named attribute of the record.
func AttrValue(record slog.Record, key string) (slog.Value, bool) {
	var found slog.Value
	var ok bool

	record.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found, ok = a.Value, true
			return false
		}

		return true
	})

	return found, ok
}
