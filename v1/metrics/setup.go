package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// operationBuckets covers sub-millisecond cached lookups up to multi-second scans.
var operationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing application metrics.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationSize     *prometheus.CounterVec
}

// NewMetrics creates an isolated registry, registers the built-in operation
// metrics (and the default collectors when enabled) under a constant
// service label, and prepares an HTTP server exposing /metrics.
//
// Built-in metrics, prefixed with cfg.Namespace when set:
//   - operations_total{component,operation,status}
//   - operation_duration_seconds{component,operation}
//   - operation_size_total{component,operation}
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "docstore"})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	var registerer prometheus.Registerer = registry
	if cfg.ServiceName != "" {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"service": cfg.ServiceName},
			registry,
		)
	}

	m := &Metrics{
		Registry:   registry,
		registerer: registerer,
		namespace:  cfg.Namespace,
	}

	m.operationsTotal = createCounterVec(
		prefixed(cfg.Namespace, "operations_total"),
		"Total number of completed operations by component, operation and status",
		[]string{"component", "operation", "status"},
	)
	m.operationDuration = createHistogramVec(
		prefixed(cfg.Namespace, "operation_duration_seconds"),
		"Duration of completed operations in seconds",
		[]string{"component", "operation"},
		operationBuckets,
	)
	m.operationSize = createCounterVec(
		prefixed(cfg.Namespace, "operation_size_total"),
		"Sum of the operation-specific sizes, e.g. documents returned or removed",
		[]string{"component", "operation"},
	)

	registerer.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.operationSize,
	)

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	return m
}

func prefixed(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "_" + name
}
