package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// resultSizeBuckets spans single-document lookups up to large scans.
var resultSizeBuckets = []float64{0, 1, 10, 100, 1000, 10000, 100000}

// OperationObserver turns observability events into Prometheus samples.
// It implements observability.Observer, so it can be handed to any client of
// this module:
//
//	client.WithObserver(metrics.NewOperationObserver(m))
//
// Besides the collector's operation metrics it keeps:
//   - resource_operations_total{component,resource,operation,status}
//   - operation_result_size{component,operation}
//   - last_operation_timestamp_seconds{component,operation}
type OperationObserver struct {
	collector MetricsCollector

	byResource *prometheus.CounterVec
	resultSize *prometheus.HistogramVec
	lastSeen   *prometheus.GaugeVec
	now        func() time.Time
}

var _ observability.Observer = (*OperationObserver)(nil)

// NewOperationObserver returns an observer recording into collector. It
// registers its own metrics, so create at most one per collector.
func NewOperationObserver(collector MetricsCollector) *OperationObserver {
	o := &OperationObserver{collector: collector, now: time.Now}
	if collector == nil {
		return o
	}
	o.byResource = collector.CreateCounter(
		"resource_operations_total",
		"Completed operations by resource, e.g. per collection",
		[]string{"component", "resource", "operation", "status"},
	)
	o.resultSize = collector.CreateHistogram(
		"operation_result_size",
		"Operation-specific size of each completed operation",
		[]string{"component", "operation"},
		resultSizeBuckets,
	)
	o.lastSeen = collector.CreateGauge(
		"last_operation_timestamp_seconds",
		"Unix time of the last completed operation",
		[]string{"component", "operation"},
	)
	return o
}

// ObserveOperation records one completed operation.
func (o *OperationObserver) ObserveOperation(ctx observability.OperationContext) {
	if o == nil || o.collector == nil {
		return
	}
	o.collector.RecordOperation(ctx.Component, ctx.Operation, ctx.Duration, ctx.Error, ctx.Size)

	status := statusSuccess
	if ctx.Error != nil {
		status = statusError
	}
	if ctx.Resource != "" {
		o.byResource.WithLabelValues(ctx.Component, ctx.Resource, ctx.Operation, status).Inc()
	}
	if ctx.Error == nil {
		o.resultSize.WithLabelValues(ctx.Component, ctx.Operation).Observe(float64(ctx.Size))
	}
	o.lastSeen.WithLabelValues(ctx.Component, ctx.Operation).Set(float64(o.now().Unix()))
}
