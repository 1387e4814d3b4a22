package snapshot

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

const snapshotSaveTimeout = 5 * time.Second

const (
	logMsgSnapshotHit         = "snapshot hit: incremental query"
	logMsgSnapshotMiss        = "snapshot miss: full query"
	logMsgSnapshotLoadError   = "snapshot load error: falling back to full query"
	logMsgSnapshotDecodeError = "snapshot decode error: falling back to full query"
	logMsgSnapshotSaveError   = "snapshot save error"
	logAttrQueryType          = "query_type"
	logAttrFromSequence       = "from_sequence"
	logAttrEventCount         = "event_count"
	logAttrError              = "error"
)

var (
	// ErrIncrementalQueryFailed is returned when the query for events after the snapshot fails.
	ErrIncrementalQueryFailed = errors.New("incremental query failed")

	// ErrEventUnmarshalingFailed is returned when the incremental events can't be mapped.
	ErrEventUnmarshalingFailed = errors.New("event unmarshaling failed")
)

// SavesAndLoadsSnapshots is a snapshot store.
type SavesAndLoadsSnapshots interface {
	SaveSnapshot(ctx context.Context, snapshot eventstore.Snapshot) error
	LoadSnapshot(ctx context.Context, projectionType string, filter eventstore.Filter) (*eventstore.Snapshot, error)
}

// QueryWrapper adds snapshot based incremental projection to a core query handler.
//
// Snapshot problems never fail a query, the wrapper falls back to the core handler instead.
// Failures of the event store itself are returned.
type QueryWrapper[Q shell.Query, R shell.QueryResult] struct {
	coreHandler   shell.CoreQueryHandler[Q, R]
	eventStore    shell.QueriesEvents
	snapshots     SavesAndLoadsSnapshots
	projectFunc   shell.ProjectionFunc[Q, R]
	filterBuilder shell.FilterBuilderFunc[Q]
	logger        shell.ContextualLogger
}

// Option configures a QueryWrapper.
type Option[Q shell.Query, R shell.QueryResult] func(*QueryWrapper[Q, R])

// WithLogger sets a logger for snapshot hits, misses and errors.
func WithLogger[Q shell.Query, R shell.QueryResult](logger shell.ContextualLogger) Option[Q, R] {
	return func(w *QueryWrapper[Q, R]) {
		w.logger = logger
	}
}

// NewQueryWrapper wraps coreHandler. projectFunc and filterBuilder must be the ones the core handler uses.
func NewQueryWrapper[Q shell.Query, R shell.QueryResult](
	coreHandler shell.CoreQueryHandler[Q, R],
	eventStore shell.QueriesEvents,
	snapshots SavesAndLoadsSnapshots,
	projectFunc shell.ProjectionFunc[Q, R],
	filterBuilder shell.FilterBuilderFunc[Q],
	opts ...Option[Q, R],
) *QueryWrapper[Q, R] {

	wrapper := &QueryWrapper[Q, R]{
		coreHandler:   coreHandler,
		eventStore:    eventStore,
		snapshots:     snapshots,
		projectFunc:   projectFunc,
		filterBuilder: filterBuilder,
	}

	for _, opt := range opts {
		opt(wrapper)
	}

	return wrapper
}

// Handle projects the events after the stored snapshot on top of it and stores the new snapshot.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	baseFilter := w.filterBuilder(query)

	snapshot, err := w.snapshots.LoadSnapshot(ctx, query.SnapshotType(), baseFilter)
	if err != nil {
		w.log(ctx, logMsgSnapshotLoadError, logAttrQueryType, query.QueryType(), logAttrError, err.Error())
		return w.fullQuery(ctx, query, baseFilter)
	}

	if snapshot == nil {
		w.log(ctx, logMsgSnapshotMiss, logAttrQueryType, query.QueryType())
		return w.fullQuery(ctx, query, baseFilter)
	}

	var baseProjection R
	if err = jsoniter.ConfigFastest.Unmarshal(snapshot.Data, &baseProjection); err != nil {
		w.log(ctx, logMsgSnapshotDecodeError, logAttrQueryType, query.QueryType(), logAttrError, err.Error())
		return w.fullQuery(ctx, query, baseFilter)
	}

	incrementalFilter := baseFilter.
		ReopenForSequenceFiltering().
		WithSequenceNumberHigherThan(snapshot.SequenceNumber).
		Finalize()

	storableEvents, maxSeq, err := w.eventStore.Query(ctx, incrementalFilter)
	if err != nil {
		return *new(R), shell.HandlerErrorFrom(errors.Join(ErrIncrementalQueryFailed, err))
	}

	incrementalEvents, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return *new(R), shell.HandlerErrorFrom(errors.Join(ErrEventUnmarshalingFailed, err))
	}

	w.log(
		ctx, logMsgSnapshotHit,
		logAttrQueryType, query.QueryType(),
		logAttrFromSequence, snapshot.SequenceNumber,
		logAttrEventCount, len(incrementalEvents),
	)

	finalSeq := max(maxSeq, snapshot.SequenceNumber)
	result := w.projectFunc(incrementalEvents, query, finalSeq, baseProjection)

	if len(incrementalEvents) > 0 {
		w.save(ctx, query, baseFilter, finalSeq, result)
	}

	return result, nil
}

func (w *QueryWrapper[Q, R]) fullQuery(ctx context.Context, query Q, baseFilter eventstore.Filter) (R, error) {
	result, err := w.coreHandler.Handle(ctx, query)
	if err != nil {
		return result, err
	}

	w.save(ctx, query, baseFilter, result.GetSequenceNumber(), result)

	return result, nil
}

func (w *QueryWrapper[Q, R]) save(
	parentCtx context.Context,
	query Q,
	filter eventstore.Filter,
	sequenceNumber eventstore.MaxSequenceNumberUint,
	projection R,
) {

	ctx, cancel := context.WithTimeout(parentCtx, snapshotSaveTimeout)
	defer cancel()

	data, err := jsoniter.ConfigFastest.Marshal(projection)
	if err == nil {
		var snapshot eventstore.Snapshot

		snapshot, err = eventstore.BuildSnapshot(query.SnapshotType(), filter.Hash(), sequenceNumber, data)
		if err == nil {
			err = w.snapshots.SaveSnapshot(ctx, snapshot)
		}
	}

	if err != nil {
		w.log(ctx, logMsgSnapshotSaveError, logAttrQueryType, query.QueryType(), logAttrError, err.Error())
	}
}

func (w *QueryWrapper[Q, R]) log(ctx context.Context, msg string, args ...any) {
	if w.logger != nil {
		w.logger.DebugContext(ctx, msg, args...)
	}
}
