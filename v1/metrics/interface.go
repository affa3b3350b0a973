package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides an interface for collecting and exposing application metrics.
//
// This interface is implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// RecordOperation counts a completed operation and records its latency.
	// A non-nil err marks the operation as failed. size is added to the
	// per-operation size counter when positive.
	RecordOperation(component, operation string, duration time.Duration, err error, size int64)

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
