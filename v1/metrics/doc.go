// Package metrics provides Prometheus-based metrics for docstore.
//
// Metrics owns an isolated registry and an HTTP server exposing /metrics.
// Besides the factories for custom counters, histograms and gauges, it carries
// three built-in operation metrics fed by OperationObserver, the
// observability.Observer implementation that the arango client reports to:
//
//	operations_total{component,operation,status}
//	operation_duration_seconds{component,operation}
//	operation_size_total{component,operation}
//
// # Direct Usage
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "docstore"})
//	go m.Server.ListenAndServe()
//	client := arango.NewClient(cfg, transport).WithObserver(metrics.NewOperationObserver(m))
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=docstore
//	METRICS_SERVICE_NAME=search-store
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package metrics
