package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// RecordOperation counts a completed operation and records its latency.
// Example: m.RecordOperation("arango", "find", time.Since(start), err, 12)
func (m *Metrics) RecordOperation(component, operation string, duration time.Duration, err error, size int64) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.operationsTotal.WithLabelValues(component, operation, status).Inc()
	m.operationDuration.WithLabelValues(component, operation).Observe(duration.Seconds())
	if size > 0 {
		m.operationSize.WithLabelValues(component, operation).Add(float64(size))
	}
}

// CreateCounter creates a CounterVec, prefixed with the configured namespace,
// and registers it. Registering the same name twice panics.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(prefixed(m.namespace, name), help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram is CreateCounter for a HistogramVec.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(prefixed(m.namespace, name), help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(prefixed(m.namespace, name), help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
