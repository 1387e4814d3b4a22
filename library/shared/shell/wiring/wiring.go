package wiring

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell/snapshot"
)

// Dependencies are shared by all handlers of a facade. Nil collectors and a nil snapshot store are skipped.
type Dependencies struct {
	EventStore       shell.EventStore
	Snapshots        snapshot.SavesAndLoadsSnapshots
	Metrics          shell.MetricsCollector
	Tracing          shell.TracingCollector
	ContextualLogger shell.ContextualLogger
	Logger           shell.Logger
	RetryOptions     []shell.RetryOption
	Now              func() time.Time
	NewID            shell.IDGenerator
}

// Command wraps a core command handler with observability.
func Command[C shell.Command](coreHandler shell.CoreCommandHandler[C], deps Dependencies) (shell.CoreCommandHandler[C], error) {
	opts := make([]observable.CommandOption[C], 0, 4)

	if deps.Metrics != nil {
		opts = append(opts, observable.WithCommandMetrics[C](deps.Metrics))
	}

	if deps.Tracing != nil {
		opts = append(opts, observable.WithCommandTracing[C](deps.Tracing))
	}

	if deps.ContextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C](deps.ContextualLogger))
	}

	if deps.Logger != nil {
		opts = append(opts, observable.WithCommandLogging[C](deps.Logger))
	}

	wrapper, err := observable.NewCommandWrapper(coreHandler, opts...)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}

// Query wraps a core query handler with observability.
func Query[Q shell.Query, R shell.QueryResult](
	coreHandler shell.CoreQueryHandler[Q, R],
	deps Dependencies,
) (shell.CoreQueryHandler[Q, R], error) {

	opts := make([]observable.QueryOption[Q, R], 0, 4)

	if deps.Metrics != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](deps.Metrics))
	}

	if deps.Tracing != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](deps.Tracing))
	}

	if deps.ContextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](deps.ContextualLogger))
	}

	if deps.Logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](deps.Logger))
	}

	wrapper, err := observable.NewQueryWrapper(coreHandler, opts...)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}

// SnapshotQuery adds snapshots below observability if deps has a snapshot store.
// projectFunc and filterBuilder must be the ones coreHandler uses.
func SnapshotQuery[Q shell.Query, R shell.QueryResult](
	coreHandler shell.CoreQueryHandler[Q, R],
	projectFunc shell.ProjectionFunc[Q, R],
	filterBuilder shell.FilterBuilderFunc[Q],
	deps Dependencies,
) (shell.CoreQueryHandler[Q, R], error) {

	if deps.Snapshots != nil {
		var opts []snapshot.Option[Q, R]
		if deps.ContextualLogger != nil {
			opts = append(opts, snapshot.WithLogger[Q, R](deps.ContextualLogger))
		}

		coreHandler = snapshot.NewQueryWrapper(coreHandler, deps.EventStore, deps.Snapshots, projectFunc, filterBuilder, opts...)
	}

	return Query(coreHandler, deps)
}
