package sqliteengine

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

func (es EventStore) logDebug(ctx context.Context, msg string, args ...any) {
	if es.logger != nil {
		es.logger.DebugContext(ctx, msg, args...)
	}
}

func (es EventStore) logInfo(ctx context.Context, msg string, args ...any) {
	if es.logger != nil {
		es.logger.InfoContext(ctx, msg, args...)
	}
}

func (es EventStore) logError(ctx context.Context, msg string, err error) {
	if es.logger != nil {
		es.logger.ErrorContext(ctx, msg, logAttrError, err.Error())
	}
}

func (es EventStore) logConcurrencyConflict(
	ctx context.Context,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	rowsAffected int64,
) {

	es.logInfo(
		ctx,
		logMsgConcurrencyConflict,
		logAttrExpectedSequence, expectedMaxSequenceNumber,
		logAttrRowsAffected, rowsAffected,
	)

	if es.metricsCollector != nil {
		es.metricsCollector.IncrementCounter(metricConcurrencyConflicts, map[string]string{labelOperation: operationAppend})
	}
}

func (es EventStore) recordDuration(metric, operation string, duration time.Duration) {
	if es.metricsCollector != nil {
		es.metricsCollector.RecordDuration(metric, duration, map[string]string{
			labelOperation: operation,
			labelStatus:    statusSuccess,
		})
	}
}

func (es EventStore) recordError(operation, errorType string) {
	if es.metricsCollector != nil {
		es.metricsCollector.IncrementCounter(metricDatabaseErrors, map[string]string{
			labelOperation: operation,
			labelStatus:    statusError,
			labelErrorType: errorType,
		})
	}
}
