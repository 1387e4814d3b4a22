package wiring

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/snapshot"
)

var (
	ErrNilEventStore  = errors.New("event store must not be nil")
	ErrNilClock       = errors.New("clock must not be nil")
	ErrNilIDGenerator = errors.New("id generator must not be nil")
)

// Option configures the Dependencies of a facade.
type Option func(*Dependencies) error

// NewDependencies applies the options on top of time.Now and UUIDv7 ids.
func NewDependencies(eventStore shell.EventStore, opts ...Option) (Dependencies, error) {
	if eventStore == nil {
		return Dependencies{}, ErrNilEventStore
	}

	deps := Dependencies{
		EventStore: eventStore,
		Now:        time.Now,
		NewID:      shell.NewID,
	}

	for _, opt := range opts {
		if err := opt(&deps); err != nil {
			return Dependencies{}, err
		}
	}

	return deps, nil
}

// WithClock replaces time.Now for the instants recorded on events.
func WithClock(now func() time.Time) Option {
	return func(d *Dependencies) error {
		if now == nil {
			return ErrNilClock
		}

		d.Now = now

		return nil
	}
}

// WithIDGenerator replaces the UUIDv7 ids.
func WithIDGenerator(newID shell.IDGenerator) Option {
	return func(d *Dependencies) error {
		if newID == nil {
			return ErrNilIDGenerator
		}

		d.NewID = newID

		return nil
	}
}

func WithMetrics(collector shell.MetricsCollector) Option {
	return func(d *Dependencies) error {
		d.Metrics = collector
		return nil
	}
}

func WithTracing(collector shell.TracingCollector) Option {
	return func(d *Dependencies) error {
		d.Tracing = collector
		return nil
	}
}

func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(d *Dependencies) error {
		d.ContextualLogger = logger
		return nil
	}
}

func WithLogger(logger shell.Logger) Option {
	return func(d *Dependencies) error {
		d.Logger = logger
		return nil
	}
}

// WithSnapshots enables incremental projections for the queries wired with SnapshotQuery.
func WithSnapshots(store snapshot.SavesAndLoadsSnapshots) Option {
	return func(d *Dependencies) error {
		d.Snapshots = store
		return nil
	}
}

func WithRetryOptions(options ...shell.RetryOption) Option {
	return func(d *Dependencies) error {
		d.RetryOptions = options
		return nil
	}
}
