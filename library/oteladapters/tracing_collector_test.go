package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/oteladapters"
)

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// setup
	exporter, collector := newTracingCollector()

	// act
	_, spanCtx := collector.StartSpan(context.Background(), "library.borrow_book", map[string]string{
		"operation":  "borrow_book",
		"db.dialect": "sqlite3",
	})
	spanCtx.AddAttribute("duration_ms", "1.50")
	collector.FinishSpan(spanCtx, "success", map[string]string{"row_count": "0"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "library.borrow_book", span.Name)
	assertSpanHasAttribute(t, span, "operation", "borrow_book")
	assertSpanHasAttribute(t, span, "db.dialect", "sqlite3")
	assertSpanHasAttribute(t, span, "duration_ms", "1.50")
	assertSpanHasAttribute(t, span, "row_count", "0")
	assert.Equal(t, codes.Ok, span.Status.Code)
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		name                string
		status              string
		errorType           string
		expectedCode        codes.Code
		expectedDescription string
	}{
		{name: "success", status: library.StatusSuccess, expectedCode: codes.Ok},
		{
			name:                "rule violation",
			status:              library.StatusError,
			errorType:           library.ErrorTypeRuleViolation,
			expectedCode:        codes.Error,
			expectedDescription: "library rule violated",
		},
		{
			name:                "canceled",
			status:              library.StatusError,
			errorType:           library.ErrorTypeCanceled,
			expectedCode:        codes.Error,
			expectedDescription: "library operation canceled",
		},
		{
			name:                "store failure",
			status:              library.StatusError,
			errorType:           library.ErrorTypeCommit,
			expectedCode:        codes.Error,
			expectedDescription: "library store failure: commit",
		},
		{
			name:                "error without type",
			status:              library.StatusError,
			expectedCode:        codes.Error,
			expectedDescription: "library operation failed",
		},
		{name: "unknown status", status: "pending", expectedCode: codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			exporter, collector := newTracingCollector()

			// act
			_, spanCtx := collector.StartSpan(context.Background(), "library.remove_card", nil)
			collector.FinishSpan(spanCtx, tc.status, map[string]string{library.AttrErrorType: tc.errorType})

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
			assert.Equal(t, tc.expectedDescription, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_ContextPropagation(t *testing.T) {
	// setup
	exporter, collector := newTracingCollector()

	// act
	parentCtx, parentSpan := collector.StartSpan(context.Background(), "cli.borrow", nil)
	_, childSpan := collector.StartSpan(parentCtx, "library.borrow_book", nil)
	collector.FinishSpan(childSpan, "success", nil)
	collector.FinishSpan(parentSpan, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.True(t, trace.SpanContextFromContext(parentCtx).IsValid())
}

func Test_TracingCollector_ForeignSpanContextIsIgnored(t *testing.T) {
	_, collector := newTracingCollector()

	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, "success", nil)
		collector.FinishSpan(nil, "error", nil)
	})
}

/***** helpers *****/

func newTracingCollector() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, expectedValue, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	assert.Fail(t, "span attribute not found", key)
}
