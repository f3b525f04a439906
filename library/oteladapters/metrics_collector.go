package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/library-management-go/library"
)

// MetricsCollector implements library.ContextualMetricsCollector on the OpenTelemetry metrics API:
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Instruments are created on first use and cached by name. The metrics of the library service get their own
// description and unit, other names a generic one. It is safe for concurrent use.
type MetricsCollector struct {
	meter metric.Meter

	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewMetricsCollector creates a metrics collector whose instruments are created from meter.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(ctx context.Context, metricName string, duration time.Duration, labels map[string]string) {
	histogram := m.histogram(metricName)
	if histogram == nil {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
}

func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	counter := m.counter(metricName)
	if counter == nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, metricName string, value float64, labels map[string]string) {
	gauge := m.gauge(metricName)
	if gauge == nil {
		return
	}

	gauge.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
}

// histogram returns the cached histogram for name, creating it on first use. It returns nil if creation failed.
func (m *MetricsCollector) histogram(name string) metric.Float64Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	info := instrumentInfoFor(name, "Library operation duration", "s")

	histogram, err := m.meter.Float64Histogram(
		name,
		metric.WithDescription(info.description),
		metric.WithUnit(info.unit),
	)
	if err != nil {
		return nil
	}

	m.histograms[name] = histogram

	return histogram
}

func (m *MetricsCollector) counter(name string) metric.Int64Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	info := instrumentInfoFor(name, "Library operation counter", "")

	counter, err := m.meter.Int64Counter(
		name,
		metric.WithDescription(info.description),
		metric.WithUnit(info.unit),
	)
	if err != nil {
		return nil
	}

	m.counters[name] = counter

	return counter
}

func (m *MetricsCollector) gauge(name string) metric.Float64Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	info := instrumentInfoFor(name, "Library operation value", "")

	gauge, err := m.meter.Float64Gauge(
		name,
		metric.WithDescription(info.description),
		metric.WithUnit(info.unit),
	)
	if err != nil {
		return nil
	}

	m.gauges[name] = gauge

	return gauge
}

type instrumentInfo struct {
	description string
	unit        string
}

var libraryInstruments = map[string]instrumentInfo{
	library.MetricOperationDuration: {"Duration of one library operation transaction, from begin to commit or rollback", "s"},
	library.MetricOperations:        {"Library operations by operation and status", "{operation}"},
	library.MetricRuleViolations:    {"Library operations rejected by a business rule", "{violation}"},
	library.MetricStoreErrors:       {"Library operations failed by a store or connectivity error", "{error}"},
	library.MetricRowsReturned:      {"Rows returned by the last book, card or borrow history query", "{row}"},
}

func instrumentInfoFor(name, fallbackDescription, fallbackUnit string) instrumentInfo {
	if info, known := libraryInstruments[name]; known {
		return info
	}

	return instrumentInfo{description: fallbackDescription, unit: fallbackUnit}
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return attrs
}

var _ library.ContextualMetricsCollector = (*MetricsCollector)(nil)
