package sqlengine

import (
	"github.com/AntonStoeckl/library-management-go/library"
)

// Option defines a functional option for configuring LibraryService.
type Option func(*LibraryService) error

// WithDialect sets the SQL dialect of the underlying database.
func WithDialect(dialect Dialect) Option {
	return func(s *LibraryService) error {
		if !dialect.valid() {
			return library.ErrUnsupportedDialect
		}

		s.dialect = dialect

		return nil
	}
}

// WithSchemaInitializer replaces the DDL used by ResetDatabase.
// Without it, PostgresSchema or SQLiteSchema is picked according to the dialect.
func WithSchemaInitializer(schema SchemaInitializer) Option {
	return func(s *LibraryService) error {
		if schema == nil {
			return library.ErrNilSchemaInitializer
		}

		s.schema = schema

		return nil
	}
}

// WithLogger sets the logger for the LibraryService.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Completed operations with durations and row counts (production-safe)
// Warn level: Business rule rejections and non-critical issues like rollback failures
// Error level: Store failures that cause operation failures.
func WithLogger(logger library.Logger) Option {
	return func(s *LibraryService) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the LibraryService.
// It receives the same messages as the Logger, together with the context of the operation,
// which allows trace correlation when tracing is enabled.
func WithContextualLogger(logger library.ContextualLogger) Option {
	return func(s *LibraryService) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the LibraryService.
// It receives operation durations, operation counts, returned row counts, business rule violations and store errors.
func WithMetrics(collector library.MetricsCollector) Option {
	return func(s *LibraryService) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the LibraryService.
// Every operation gets one span, finished with the status and the error type on failure.
func WithTracing(collector library.TracingCollector) Option {
	return func(s *LibraryService) error {
		s.tracingCollector = collector
		return nil
	}
}
