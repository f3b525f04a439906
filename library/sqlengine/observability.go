package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-management-go/library"
)

const (
	spanNamePrefix     = "library."
	spanAttrOperation  = "operation"
	spanAttrErrorType  = library.AttrErrorType
	spanAttrRowCount   = "row_count"
	spanAttrDurationMS = "duration_ms"
	spanAttrDialect    = "db.dialect"

	metricOperationDuration = library.MetricOperationDuration
	metricOperations        = library.MetricOperations
	metricRuleViolations    = library.MetricRuleViolations
	metricStoreErrors       = library.MetricStoreErrors
	metricRowsReturned      = library.MetricRowsReturned

	labelStatus = "status"

	statusSuccess = library.StatusSuccess
	statusError   = library.StatusError

	errorTypeRuleViolation = library.ErrorTypeRuleViolation
	errorTypeBuildQuery    = library.ErrorTypeBuildQuery
	errorTypeBeginTx       = library.ErrorTypeBeginTx
	errorTypeCommit        = library.ErrorTypeCommit
	errorTypeQuery         = library.ErrorTypeQuery
	errorTypeExec          = library.ErrorTypeExec
	errorTypeScan          = library.ErrorTypeScan
	errorTypeCanceled      = library.ErrorTypeCanceled
	errorTypeUnknown       = library.ErrorTypeUnknown
)

// errorTypeOf classifies err for metrics labels and span attributes.
func errorTypeOf(err error) string {
	switch {
	case library.IsBusinessRuleViolation(err):
		return errorTypeRuleViolation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorTypeCanceled
	case errors.Is(err, library.ErrBuildingQueryFailed):
		return errorTypeBuildQuery
	case errors.Is(err, library.ErrBeginTxFailed):
		return errorTypeBeginTx
	case errors.Is(err, library.ErrCommitFailed):
		return errorTypeCommit
	case errors.Is(err, library.ErrQueryingFailed):
		return errorTypeQuery
	case errors.Is(err, library.ErrExecutingFailed):
		return errorTypeExec
	case errors.Is(err, library.ErrScanningRowFailed):
		return errorTypeScan
	default:
		return errorTypeUnknown
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Nanoseconds())/1e6)
}

// === Logging ===
// Every message goes to the Logger and to the ContextualLogger, whichever are configured.

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s LibraryService) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (s LibraryService) logOperation(ctx context.Context, operation string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+operation, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	}
}

// logWarn logs non-critical issues and business rule rejections at warn level.
func (s LibraryService) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Warn(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// logError logs store failures at error level.
func (s LibraryService) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// === Tracing Observer ===

// operationTracingObserver encapsulates the tracing span lifecycle of one operation.
type operationTracingObserver struct {
	s    LibraryService
	span library.SpanContext
}

// startTracing starts the span of an operation if the tracing collector is configured.
func (s LibraryService) startTracing(ctx context.Context, operation string) (*operationTracingObserver, context.Context) {
	observer := &operationTracingObserver{s: s}

	if s.tracingCollector == nil {
		return observer, ctx
	}

	attrs := map[string]string{
		spanAttrOperation: operation,
		spanAttrDialect:   string(s.dialect),
	}

	newCtx, span := s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, attrs)
	observer.span = span

	return observer, newCtx
}

// finishSuccess completes the span of a committed operation.
func (o *operationTracingObserver) finishSuccess(rowCount int, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(statusSuccess)
	o.span.AddAttribute(spanAttrRowCount, strconv.Itoa(rowCount))
	o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))

	o.s.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrRowCount: strconv.Itoa(rowCount),
	})
}

// finishError completes the span of a failed operation with the error type.
func (o *operationTracingObserver) finishError(errorType string, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(statusError)
	o.span.AddAttribute(spanAttrErrorType, errorType)
	o.span.AddAttribute(spanAttrDurationMS, formatMilliseconds(duration))

	o.s.tracingCollector.FinishSpan(o.span, statusError, map[string]string{
		spanAttrErrorType: errorType,
	})
}

// === Metrics Observer ===

// operationMetricsObserver encapsulates the metrics collection of one operation.
type operationMetricsObserver struct {
	s         LibraryService
	ctx       context.Context
	operation string
}

// startMetrics creates a new metrics observer for an operation.
func (s LibraryService) startMetrics(ctx context.Context, operation string) *operationMetricsObserver {
	return &operationMetricsObserver{
		s:         s,
		ctx:       ctx,
		operation: operation,
	}
}

// recordSuccess records all metrics for a committed operation.
// rowsReturned is only recorded for the query operations, which pass a non-negative count.
func (o *operationMetricsObserver) recordSuccess(rowsReturned int, duration time.Duration) {
	labels := o.labels(statusSuccess)

	o.s.recordDuration(o.ctx, metricOperationDuration, duration, labels)
	o.s.incrementCounter(o.ctx, metricOperations, labels)

	if rowsReturned >= 0 {
		o.s.recordValue(o.ctx, metricRowsReturned, float64(rowsReturned), labels)
	}
}

// recordError records all metrics for a failed operation.
func (o *operationMetricsObserver) recordError(errorType string, duration time.Duration) {
	labels := o.labels(statusError)

	o.s.recordDuration(o.ctx, metricOperationDuration, duration, labels)
	o.s.incrementCounter(o.ctx, metricOperations, labels)

	errorLabels := o.labels(statusError)
	errorLabels[spanAttrErrorType] = errorType

	if errorType == errorTypeRuleViolation {
		o.s.incrementCounter(o.ctx, metricRuleViolations, errorLabels)
		return
	}

	o.s.incrementCounter(o.ctx, metricStoreErrors, errorLabels)
}

func (o *operationMetricsObserver) labels(status string) map[string]string {
	return map[string]string{
		spanAttrOperation: o.operation,
		labelStatus:       status,
	}
}

// recordDuration records a duration, with context if the collector supports it.
func (s LibraryService) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metric, duration, labels)
}

// incrementCounter increments a counter, with context if the collector supports it.
func (s LibraryService) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metric, labels)
}

// recordValue records a value, with context if the collector supports it.
func (s LibraryService) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metric, value, labels)
}
