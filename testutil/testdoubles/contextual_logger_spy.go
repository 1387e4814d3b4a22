package testdoubles

import (
	"context"
	"slices"
	"sync"
)

// ContextualLogRecord is one captured log call.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Ctx     context.Context
}

// ContextualLoggerSpy captures log calls, it implements eventstore.ContextualLogger and eventstore.Logger.
type ContextualLoggerSpy struct {
	mu          sync.Mutex
	recordCalls bool
	records     []ContextualLogRecord
}

func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (l *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	l.record(ctx, "debug", msg, args)
}

func (l *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	l.record(ctx, "info", msg, args)
}

func (l *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	l.record(ctx, "warn", msg, args)
}

func (l *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.record(ctx, "error", msg, args)
}

func (l *ContextualLoggerSpy) Debug(msg string, args ...any) {
	l.record(context.Background(), "debug", msg, args)
}

func (l *ContextualLoggerSpy) Info(msg string, args ...any) {
	l.record(context.Background(), "info", msg, args)
}

func (l *ContextualLoggerSpy) Warn(msg string, args ...any) {
	l.record(context.Background(), "warn", msg, args)
}

func (l *ContextualLoggerSpy) Error(msg string, args ...any) {
	l.record(context.Background(), "error", msg, args)
}

func (l *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !l.recordCalls {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, ContextualLogRecord{Level: level, Message: msg, Args: slices.Clone(args), Ctx: ctx})
}

// GetRecords returns a copy of all captured records.
func (l *ContextualLoggerSpy) GetRecords() []ContextualLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.records)
}

// HasLog reports whether a record with the given level and message was captured.
func (l *ContextualLoggerSpy) HasLog(level, message string) bool {
	return slices.ContainsFunc(l.GetRecords(), func(r ContextualLogRecord) bool {
		return r.Level == level && r.Message == message
	})
}

func (l *ContextualLoggerSpy) HasDebugLog(message string) bool {
	return l.HasLog("debug", message)
}

func (l *ContextualLoggerSpy) HasInfoLog(message string) bool {
	return l.HasLog("info", message)
}

func (l *ContextualLoggerSpy) HasErrorLog(message string) bool {
	return l.HasLog("error", message)
}
