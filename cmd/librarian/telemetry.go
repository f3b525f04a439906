package main

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/library-management-go/library/oteladapters"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine"
)

const instrumentationName = "librarian"

// telemetry records the spans and metrics of one command run and writes them to the log.
// Spans are logged when they end, metrics once on shutdown.
type telemetry struct {
	logger         *slog.Logger
	handler        slog.Handler
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	reader         *sdkmetric.ManualReader
}

func newTelemetry(handler slog.Handler) *telemetry {
	res := resource.NewSchemaless(attribute.String("service.name", instrumentationName))
	logger := slog.New(handler)
	reader := sdkmetric.NewManualReader()

	return &telemetry{
		logger:  logger,
		handler: handler,
		tracerProvider: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSyncer(spanLogExporter{logger: logger}),
		),
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		),
		reader: reader,
	}
}

func (t *telemetry) options() []sqlengine.Option {
	return []sqlengine.Option{
		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLoggerWithHandler(traceHandler{Handler: t.handler})),
		sqlengine.WithTracing(oteladapters.NewTracingCollector(t.tracerProvider.Tracer(instrumentationName))),
		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(t.meterProvider.Meter(instrumentationName))),
	}
}

// shutdown logs the collected metrics and stops both providers.
func (t *telemetry) shutdown(ctx context.Context) error {
	var collected metricdata.ResourceMetrics
	collectErr := t.reader.Collect(ctx, &collected)
	if collectErr == nil {
		t.logMetrics(ctx, collected)
	}

	return errors.Join(
		collectErr,
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}

func (t *telemetry) logMetrics(ctx context.Context, collected metricdata.ResourceMetrics) {
	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Histogram[float64]:
				for _, point := range data.DataPoints {
					t.logger.InfoContext(ctx, "metric", "name", m.Name, "unit", m.Unit,
						"count", point.Count, "sum", point.Sum, "labels", labelsOf(point.Attributes))
				}
			case metricdata.Sum[int64]:
				for _, point := range data.DataPoints {
					t.logger.InfoContext(ctx, "metric", "name", m.Name, "unit", m.Unit,
						"value", point.Value, "labels", labelsOf(point.Attributes))
				}
			case metricdata.Gauge[float64]:
				for _, point := range data.DataPoints {
					t.logger.InfoContext(ctx, "metric", "name", m.Name, "unit", m.Unit,
						"value", point.Value, "labels", labelsOf(point.Attributes))
				}
			}
		}
	}
}

func labelsOf(set attribute.Set) map[string]string {
	labels := make(map[string]string, set.Len())
	for _, kv := range set.ToSlice() {
		labels[string(kv.Key)] = kv.Value.Emit()
	}

	return labels
}

// spanLogExporter is a sdktrace.SpanExporter that writes every finished span as one log record.
type spanLogExporter struct {
	logger *slog.Logger
}

func (e spanLogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := make(map[string]string, len(span.Attributes()))
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}

		e.logger.InfoContext(ctx, "span",
			"name", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"span_id", span.SpanContext().SpanID().String(),
			"status", span.Status().Code.String(),
			"duration_ms", float64(span.EndTime().Sub(span.StartTime()).Microseconds())/1000,
			"attributes", attrs,
		)
	}

	return nil
}

func (e spanLogExporter) Shutdown(context.Context) error {
	return nil
}

// traceHandler adds the trace and span id of the record context.
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, record slog.Record) error {
	if spanContext := trace.SpanContextFromContext(ctx); spanContext.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", spanContext.TraceID().String()),
			slog.String("span_id", spanContext.SpanID().String()),
		)
	}

	return h.Handler.Handle(ctx, record)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{Handler: h.Handler.WithGroup(name)}
}
