package helper

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-management-go/library"
)

// SpyMetricRecord is one recorded metrics call.
type SpyMetricRecord struct {
	Metric   string
	Kind     string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
	Context  bool
}

// Kinds of SpyMetricRecord.
const (
	MetricKindDuration = "duration"
	MetricKindCounter  = "counter"
	MetricKindValue    = "value"
)

// MetricsCollectorSpy is a library.ContextualMetricsCollector that captures all calls for testing.
type MetricsCollectorSpy struct {
	records []SpyMetricRecord
	mu      sync.Mutex
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{records: make([]SpyMetricRecord, 0)}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Metric: metric, Kind: MetricKindDuration, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Metric: metric, Kind: MetricKindCounter, Value: 1, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Metric: metric, Kind: MetricKindValue, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Metric: metric, Kind: MetricKindDuration, Duration: duration, Labels: labels, Context: true})
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Metric: metric, Kind: MetricKindCounter, Value: 1, Labels: labels, Context: true})
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Metric: metric, Kind: MetricKindValue, Value: value, Labels: labels, Context: true})
}

func (s *MetricsCollectorSpy) record(record SpyMetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Labels = maps.Clone(record.Labels)
	s.records = append(s.records, record)
}

// GetRecords returns a copy of all captured records.
func (s *MetricsCollectorSpy) GetRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyMetricRecord, len(s.records))
	copy(records, s.records)

	return records
}

// FindRecords returns the records of metric whose labels contain all of the given labels.
func (s *MetricsCollectorSpy) FindRecords(metric string, labels map[string]string) []SpyMetricRecord {
	found := make([]SpyMetricRecord, 0)

	for _, record := range s.GetRecords() {
		if record.Metric != metric {
			continue
		}

		matches := true
		for key, value := range labels {
			if record.Labels[key] != value {
				matches = false
				break
			}
		}

		if matches {
			found = append(found, record)
		}
	}

	return found
}

// Reset clears all captured records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

var _ library.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)

// PlainMetricsCollectorSpy hides the contextual methods of a MetricsCollectorSpy.
type PlainMetricsCollectorSpy struct {
	spy *MetricsCollectorSpy
}

// NewPlainMetricsCollectorSpy wraps spy so that it only implements library.MetricsCollector.
func NewPlainMetricsCollectorSpy(spy *MetricsCollectorSpy) PlainMetricsCollectorSpy {
	return PlainMetricsCollectorSpy{spy: spy}
}

func (p PlainMetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	p.spy.RecordDuration(metric, duration, labels)
}

func (p PlainMetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	p.spy.IncrementCounter(metric, labels)
}

func (p PlainMetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	p.spy.RecordValue(metric, value, labels)
}

var _ library.MetricsCollector = PlainMetricsCollectorSpy{}
