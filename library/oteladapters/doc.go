// Package oteladapters provides OpenTelemetry adapters for the library observability interfaces.
//
// The adapters plug into sqlengine.WithContextualLogger, sqlengine.WithMetrics and sqlengine.WithTracing:
//
//	meter := otel.GetMeterProvider().Meter("library")
//	tracer := otel.Tracer("library")
//
//	service, _ := sqlengine.NewLibraryServiceFromPGXPool(
//		db,
//		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("library")),
//		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		sqlengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//	)
package oteladapters
