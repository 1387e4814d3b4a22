package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

const (
	defaultEventTableName     = "events"
	driverName                = "sqlite"
	dialectSQLite             = "sqlite3"
	dsnPragmas                = "?_pragma=busy_timeout=5000&_pragma=journal_mode=WAL&_txlock=immediate"
	colEventType              = "event_type"
	colOccurredAt             = "occurred_at"
	colPayload                = "payload"
	colMetadata               = "metadata"
	colSequenceNumber         = "sequence_number"
	aliasVals                 = "vals"
	payloadFieldEquals        = "json_extract(" + colPayload + ", ?) = ?"
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database execution failed during event append"
	logAttrError              = "error"
	logAttrEventCount         = "event_count"
	logAttrDurationMS         = "duration_ms"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrRowsAffected       = "rows_affected"
)

const (
	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"
	labelOperation             = "operation"
	labelStatus                = "status"
	labelErrorType             = "error_type"
	operationQuery             = "query"
	operationAppend            = "append"
	statusSuccess              = "success"
	statusError                = "error"
	errorTypeDatabaseQuery     = "database_query"
	errorTypeDatabaseExec      = "database_exec"
)

// EventStore is the SQLite engine of the event store.
type EventStore struct {
	db               *sql.DB
	eventTableName   string
	logger           eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the events table name of the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets a context-aware logger for the EventStore.
func WithLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for query/append durations, conflicts and errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// Open opens the SQLite database file at path with WAL journaling, a busy timeout
// and immediate write transactions.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, "file:"+path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %q: %w", path, err)
	}

	return db, nil
}

// NewEventStore creates a new EventStore using a sql.DB opened with the sqlite driver.
func NewEventStore(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// CreateSchema creates the events table with its indexes if it does not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	table := quoteIdentifier(es.eventTableName)

	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
	occurred_at     INTEGER NOT NULL,
	event_type      TEXT NOT NULL,
	payload         TEXT NOT NULL,
	metadata        TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s (occurred_at);`,
		table,
		quoteIdentifier(es.eventTableName+"_event_type_idx"),
		quoteIdentifier(es.eventTableName+"_occurred_at_idx"),
	)

	if _, err := es.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating sqlite events table: %w", err)
	}

	return nil
}

// Query retrieves the events matching the filter in sequence order
// and the max sequence number of this "dynamic event stream".
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	var empty eventstore.StorableEvents

	sqlQuery, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		return empty, 0, buildErr
	}

	start := time.Now()

	rows, queryErr := es.db.QueryContext(ctx, sqlQuery)
	if queryErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, queryErr)
		es.recordError(operationQuery, errorTypeDatabaseQuery)

		return empty, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer func() { _ = rows.Close() }()

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		var (
			eventType      string
			occurredAtNano int64
			payload        []byte
			metadata       []byte
			sequenceNumber int64
		)

		if scanErr := rows.Scan(&eventType, &occurredAtNano, &payload, &metadata, &sequenceNumber); scanErr != nil {
			return empty, 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		event, buildEventErr := eventstore.BuildStorableEvent(eventType, time.Unix(0, occurredAtNano).UTC(), payload, metadata)
		if buildEventErr != nil {
			return empty, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildEventErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return empty, 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowsErr)
	}

	duration := time.Since(start)
	es.logDebug(ctx, logMsgQueryCompleted, logAttrEventCount, len(eventStream), logAttrDurationMS, duration.Milliseconds())
	es.recordDuration(metricQueryDuration, operationQuery, duration)

	return eventStream, maxSequenceNumber, nil
}

// Append appends the events if the max sequence number of the events matching the filter
// is still expectedMaxSequenceNumber, otherwise it returns eventstore.ErrConcurrencyConflict.
// A database that stays locked beyond the busy timeout is reported as a conflict too.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	sqlQuery, buildErr := es.buildInsertQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildErr != nil {
		return buildErr
	}

	start := time.Now()

	rowsAffected, execErr := es.execInImmediateTx(ctx, sqlQuery)
	if execErr != nil {
		if isBusy(execErr) {
			es.logConcurrencyConflict(ctx, expectedMaxSequenceNumber, 0)

			return errors.Join(eventstore.ErrConcurrencyConflict, execErr)
		}

		es.logError(ctx, logMsgDBExecFailed, execErr)
		es.recordError(operationAppend, errorTypeDatabaseExec)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	if rowsAffected < int64(len(allEvents)) {
		es.logConcurrencyConflict(ctx, expectedMaxSequenceNumber, rowsAffected)

		return eventstore.ErrConcurrencyConflict
	}

	duration := time.Since(start)
	es.logInfo(ctx, logMsgEventsAppended, logAttrEventCount, len(allEvents), logAttrDurationMS, duration.Milliseconds())
	es.recordDuration(metricAppendDuration, operationAppend, duration)

	return nil
}

func (es EventStore) execInImmediateTx(ctx context.Context, sqlQuery string) (int64, error) {
	tx, beginErr := es.db.BeginTx(ctx, nil)
	if beginErr != nil {
		return 0, beginErr
	}

	result, execErr := tx.ExecContext(ctx, sqlQuery)
	if execErr != nil {
		_ = tx.Rollback()

		return 0, execErr
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		_ = tx.Rollback()

		return 0, errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return 0, commitErr
	}

	return rowsAffected, nil
}

func isBusy(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	primaryCode := sqliteErr.Code() & 0xff

	return primaryCode == sqlite3.SQLITE_BUSY || primaryCode == sqlite3.SQLITE_LOCKED
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Where(whereExpression(filter)).
		Order(goqu.I(colSequenceNumber).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildInsertQuery renders
// INSERT INTO events (...) SELECT ... FROM (SELECT ... UNION ALL ...) AS vals
// WHERE COALESCE((SELECT MAX(sequence_number) FROM events WHERE <filter>), 0) = <expected>.
func (es EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectSQLite)

	maxSeqStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber)).
		Where(whereExpression(filter))

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		eventStmt := builder.Select(
			goqu.V(event.EventType).As(colEventType),
			goqu.V(event.OccurredAt.UnixNano()).As(colOccurredAt),
			goqu.V(string(event.PayloadJSON)).As(colPayload),
			goqu.V(string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = eventStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(eventStmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(
			builder.From(valuesStmt.As(aliasVals)).
				Select(
					goqu.I(aliasVals+"."+colEventType),
					goqu.I(aliasVals+"."+colOccurredAt),
					goqu.I(aliasVals+"."+colPayload),
					goqu.I(aliasVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(maxSeqStmt, 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// whereExpression mirrors the Postgres engine, with json_extract instead of jsonb containment.
func whereExpression(filter eventstore.Filter) exp.Expression {
	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0)
		predicateExpressions := make([]goqu.Expression, 0)

		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		for _, predicate := range item.Predicates() {
			predicateExpressions = append(
				predicateExpressions,
				goqu.L(payloadFieldEquals, jsonPath(predicate.Key()), predicate.Val()),
			)
		}

		var predicatesExpressionList exp.ExpressionList

		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(
			itemsExpressions,
			goqu.And(goqu.Or(eventTypeExpressions...), predicatesExpressionList),
		)
	}

	boundaryExpressions := make([]goqu.Expression, 0)

	if !filter.OccurredFrom().IsZero() {
		boundaryExpressions = append(boundaryExpressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom().UnixNano()))
	}

	if !filter.OccurredUntil().IsZero() {
		boundaryExpressions = append(boundaryExpressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil().UnixNano()))
	}

	if filter.SequenceNumberHigherThan() > 0 {
		boundaryExpressions = append(boundaryExpressions, goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()))
	}

	return goqu.And(goqu.Or(itemsExpressions...), goqu.And(boundaryExpressions...))
}

func jsonPath(key string) string {
	return `$."` + key + `"`
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
