package library

import (
	"context"
	"time"
)

// Names of the metrics the library service records.
const (
	MetricOperationDuration = "library_operation_duration_seconds"
	MetricOperations        = "library_operations_total"
	MetricRuleViolations    = "library_rule_violations_total"
	MetricStoreErrors       = "library_store_errors_total"
	MetricRowsReturned      = "library_rows_returned"
)

// Operation statuses, passed to TracingCollector.FinishSpan and used as the "status" metric label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AttrErrorType is the span attribute and metric label carrying one of the ErrorType values of a failed operation.
const AttrErrorType = "error_type"

// Kinds of failed operations.
const (
	ErrorTypeRuleViolation = "rule_violation"
	ErrorTypeBuildQuery    = "build_query"
	ErrorTypeBeginTx       = "begin_tx"
	ErrorTypeCommit        = "commit"
	ErrorTypeQuery         = "query"
	ErrorTypeExec          = "exec"
	ErrorTypeScan          = "scan"
	ErrorTypeCanceled      = "canceled"
	ErrorTypeUnknown       = "unknown"
)

// Logger interface for SQL query logging, operational information, warnings, and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// *slog.Logger satisfies it, as do the adapters in the oteladapters package.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting operation durations, counts and error metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
// The service uses them when the configured collector implements this interface.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting distributed tracing information from library operations.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}
