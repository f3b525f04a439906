package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/library-management-go/library"
)

// TracingCollector implements library.TracingCollector on the OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a tracing collector; tracer should come from your TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span with attrs and returns the context carrying it.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, library.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, sets the status and ends the span. Foreign SpanContext implementations are ignored.
// For a failed operation the status description names the kind of failure, taken from the error type attribute.
func (t *TracingCollector) FinishSpan(spanCtx library.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.setSpanStatus(status, attrs[library.AttrErrorType])
	otelSpanCtx.span.End()
}

var _ library.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements library.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status, "")
}

func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

// setSpanStatus maps the operation status of the library service to an OpenTelemetry status code.
// Unknown statuses leave the code unset and are kept as an attribute.
func (s *OTelSpanContext) setSpanStatus(status, errorType string) {
	switch status {
	case library.StatusSuccess:
		s.span.SetStatus(codes.Ok, "")
	case library.StatusError:
		s.span.SetStatus(codes.Error, failureDescription(errorType))
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

func failureDescription(errorType string) string {
	switch errorType {
	case "":
		return "library operation failed"
	case library.ErrorTypeRuleViolation:
		return "library rule violated"
	case library.ErrorTypeCanceled:
		return "library operation canceled"
	default:
		return "library store failure: " + errorType
	}
}

var _ library.SpanContext = (*OTelSpanContext)(nil)
