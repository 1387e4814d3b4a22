package postgresengine

import (
	"context"
	"maps"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

func (es *EventStore) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	es.emit(ctx, levelDebug, logMsgSQLExecuted+action, logAttrDurationMS, es.toMilliseconds(duration), logAttrQuery, sqlQuery)
}

func (es *EventStore) logOperation(ctx context.Context, action string, args ...any) {
	es.emit(ctx, levelInfo, logMsgOperation+action, args...)
}

// logConcurrencyConflict logs at info level, a conflict is an expected outcome.
func (es *EventStore) logConcurrencyConflict(
	ctx context.Context,
	expectedEventCount int,
	rowsAffected int64,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) {

	es.logOperation(
		ctx,
		logMsgConcurrencyConflict,
		logAttrExpectedEvents, expectedEventCount,
		logAttrRowsAffected, rowsAffected,
		logAttrExpectedSequence, expectedMaxSequenceNumber,
	)
}

func (es *EventStore) logWarn(ctx context.Context, message string, err error) {
	es.emit(ctx, levelWarn, message, logAttrError, err.Error())
}

func (es *EventStore) logError(ctx context.Context, message string, err error, args ...any) {
	es.emit(ctx, levelError, message, append([]any{logAttrError, err.Error()}, args...)...)
}

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

// emit writes to both configured loggers.
func (es *EventStore) emit(ctx context.Context, level logLevel, msg string, args ...any) {
	if es.logger != nil {
		switch level {
		case levelDebug:
			es.logger.Debug(msg, args...)
		case levelInfo:
			es.logger.Info(msg, args...)
		case levelWarn:
			es.logger.Warn(msg, args...)
		default:
			es.logger.Error(msg, args...)
		}
	}

	if es.contextualLogger != nil {
		switch level {
		case levelDebug:
			es.contextualLogger.DebugContext(ctx, msg, args...)
		case levelInfo:
			es.contextualLogger.InfoContext(ctx, msg, args...)
		case levelWarn:
			es.contextualLogger.WarnContext(ctx, msg, args...)
		default:
			es.contextualLogger.ErrorContext(ctx, msg, args...)
		}
	}
}

// toMilliseconds rounds to microsecond precision.
func (es *EventStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e3) / 1e3
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Nanoseconds())/1e6, 'f', 2, 64)
}

// spanObserver owns the span of one query or append, all methods are no-ops without a tracing collector.
type spanObserver struct {
	collector eventstore.TracingCollector
	span      eventstore.SpanContext
}

func (es *EventStore) startSpan(ctx context.Context, name string, attrs map[string]string) (*spanObserver, context.Context) {
	if es.tracingCollector == nil {
		return &spanObserver{}, ctx
	}

	ctx, span := es.tracingCollector.StartSpan(ctx, name, attrs)

	return &spanObserver{collector: es.tracingCollector, span: span}, ctx
}

func (es *EventStore) startQueryTracing(ctx context.Context) (*queryTracingObserver, context.Context) {
	observer, ctx := es.startSpan(ctx, spanNameQuery, map[string]string{spanAttrOperation: operationQuery})

	return &queryTracingObserver{observer}, ctx
}

func (es *EventStore) startAppendTracing(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*appendTracingObserver, context.Context) {

	attrs := map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  strconv.Itoa(len(events)),
		spanAttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	}

	if len(events) > 0 {
		attrs[spanAttrEventType] = events[0].EventType
	}

	observer, ctx := es.startSpan(ctx, spanNameAppend, attrs)

	return &appendTracingObserver{observer}, ctx
}

// finish sets the status and the span attributes, then hands the end attributes to the collector.
func (o *spanObserver) finish(status string, spanAttrs, endAttrs map[string]string) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(status)
	for key, value := range spanAttrs {
		o.span.AddAttribute(key, value)
	}

	o.collector.FinishSpan(o.span, status, endAttrs)
}

func (o *spanObserver) finishError(errorType string, extra map[string]string, duration time.Duration) {
	attrs := map[string]string{spanAttrErrorType: errorType}
	maps.Copy(attrs, extra)

	spanAttrs := maps.Clone(attrs)
	if duration > 0 {
		spanAttrs[spanAttrDurationMS] = formatMilliseconds(duration)
	}

	o.finish(statusError, spanAttrs, attrs)
}

type queryTracingObserver struct{ *spanObserver }

func (o *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	o.spanObserver.finishError(errorType, nil, duration)
}

func (o *queryTracingObserver) finishSuccess(
	eventStream eventstore.StorableEvents,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	duration time.Duration,
) {

	attrs := map[string]string{spanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10)}
	if eventStream != nil {
		attrs[spanAttrEventCount] = strconv.Itoa(len(eventStream))
	}

	spanAttrs := maps.Clone(attrs)
	spanAttrs[spanAttrDurationMS] = formatMilliseconds(duration)

	o.finish(statusSuccess, spanAttrs, attrs)
}

type appendTracingObserver struct{ *spanObserver }

func (o *appendTracingObserver) finishError(errorType string, duration time.Duration) {
	o.spanObserver.finishError(errorType, nil, duration)
}

func (o *appendTracingObserver) finishErrorWithAttrs(errorType string, attrs map[string]string) {
	o.spanObserver.finishError(errorType, attrs, 0)
}

func (o *appendTracingObserver) finishSuccess(rowsAffected int64, duration time.Duration) {
	attrs := map[string]string{spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10)}

	spanAttrs := maps.Clone(attrs)
	spanAttrs[spanAttrDurationMS] = formatMilliseconds(duration)

	o.finish(statusSuccess, spanAttrs, attrs)
}

// metricsObserver records the metrics of one operation, preferring the context aware collector methods.
type metricsObserver struct {
	collector eventstore.MetricsCollector
	ctx       context.Context
	operation string
}

func (es *EventStore) startQueryMetrics(ctx context.Context) *queryMetricsObserver {
	return &queryMetricsObserver{metricsObserver{collector: es.metricsCollector, ctx: ctx, operation: operationQuery}}
}

func (es *EventStore) startAppendMetrics(ctx context.Context) *appendMetricsObserver {
	return &appendMetricsObserver{metricsObserver{collector: es.metricsCollector, ctx: ctx, operation: operationAppend}}
}

func (o metricsObserver) labels(status string) map[string]string {
	return map[string]string{spanAttrOperation: o.operation, labelStatus: status}
}

func (o metricsObserver) duration(metric string, duration time.Duration, status string) {
	if o.collector == nil {
		return
	}

	if contextual, ok := o.collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metric, duration, o.labels(status))
		return
	}

	o.collector.RecordDuration(metric, duration, o.labels(status))
}

func (o metricsObserver) value(metric string, value float64) {
	if o.collector == nil {
		return
	}

	if contextual, ok := o.collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, metric, value, o.labels(statusSuccess))
		return
	}

	o.collector.RecordValue(metric, value, o.labels(statusSuccess))
}

func (o metricsObserver) count(metric string, labels map[string]string) {
	if o.collector == nil {
		return
	}

	if contextual, ok := o.collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metric, labels)
		return
	}

	o.collector.IncrementCounter(metric, labels)
}

func (o metricsObserver) recordError(metric, errorType string, duration time.Duration) {
	o.duration(metric, duration, statusError)

	labels := o.labels(statusError)
	labels[spanAttrErrorType] = errorType
	o.count(metricDatabaseErrors, labels)
}

type queryMetricsObserver struct{ metricsObserver }

func (o *queryMetricsObserver) recordSuccess(eventStream eventstore.StorableEvents, duration time.Duration) {
	o.duration(metricQueryDuration, duration, statusSuccess)
	o.value(metricEventsQueried, float64(len(eventStream)))
}

func (o *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	o.metricsObserver.recordError(metricQueryDuration, errorType, duration)
}

type appendMetricsObserver struct{ metricsObserver }

func (o *appendMetricsObserver) recordSuccess(eventCount int, duration time.Duration) {
	o.duration(metricAppendDuration, duration, statusSuccess)
	o.value(metricEventsAppended, float64(eventCount))
}

func (o *appendMetricsObserver) recordError(errorType string, duration time.Duration) {
	o.metricsObserver.recordError(metricAppendDuration, errorType, duration)
}

func (o *appendMetricsObserver) recordConcurrencyConflict() {
	o.count(metricConcurrencyConflicts, map[string]string{spanAttrOperation: o.operation, labelConflictType: conflictTypeConcurrency})
}
