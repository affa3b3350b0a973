package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/docstore/v1/observability"
)

func TestRecordOperation(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "docstore-test"})

	m.RecordOperation("arango", "find", 10*time.Millisecond, nil, 3)
	m.RecordOperation("arango", "find", 20*time.Millisecond, nil, 2)
	m.RecordOperation("arango", "find", time.Millisecond, errors.New("boom"), 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("arango", "find", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("arango", "find", statusError)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.operationSize.WithLabelValues("arango", "find")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDuration))
}

func TestOperationObserver(t *testing.T) {
	m := NewMetrics(Config{})
	var obs observability.Observer = NewOperationObserver(m)

	obs.ObserveOperation(observability.OperationContext{
		Component: "arango",
		Operation: "delete",
		Resource:  "users",
		Duration:  time.Millisecond,
		Size:      4,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("arango", "delete", statusSuccess)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.operationSize.WithLabelValues("arango", "delete")))
}

func TestOperationObserver_ResourceMetrics(t *testing.T) {
	m := NewMetrics(Config{})
	obs := NewOperationObserver(m)
	obs.now = func() time.Time { return time.Unix(1700000000, 0) }

	obs.ObserveOperation(observability.OperationContext{Component: "arango", Operation: "find", Resource: "users", Size: 12})
	obs.ObserveOperation(observability.OperationContext{Component: "arango", Operation: "find", Resource: "users", Error: errors.New("boom")})
	obs.ObserveOperation(observability.OperationContext{Component: "arango", Operation: "query"})

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.byResource.WithLabelValues("arango", "users", "find", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.byResource.WithLabelValues("arango", "users", "find", statusError)))
	assert.Equal(t, 2, testutil.CollectAndCount(obs.byResource), "operations without a resource are not broken down")
	assert.Equal(t, 2, testutil.CollectAndCount(obs.resultSize))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(obs.lastSeen.WithLabelValues("arango", "find")))
}

func TestOperationObserver_NilSafe(t *testing.T) {
	var o *OperationObserver
	assert.NotPanics(t, func() {
		o.ObserveOperation(observability.OperationContext{Operation: "find"})
	})
}

func TestNamespaceAndEndpoint(t *testing.T) {
	m := NewMetrics(Config{Namespace: "docstore", ServiceName: "svc"})
	m.RecordOperation("arango", "count", time.Millisecond, nil, 1)

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `docstore_operations_total{component="arango",operation="count",service="svc",status="success"} 1`), body)
}

func TestCreateCustomMetrics(t *testing.T) {
	m := NewMetrics(Config{})

	c := m.CreateCounter("cursor_batches_total", "batches", []string{"collection"})
	c.WithLabelValues("users").Inc()
	g := m.CreateGauge("open_cursors", "open cursors", []string{"collection"})
	g.WithLabelValues("users").Set(2)
	h := m.CreateHistogram("batch_size", "batch size", []string{"collection"}, []float64{1, 10, 100})
	h.WithLabelValues("users").Observe(5)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.WithLabelValues("users")))
	assert.Equal(t, 2.0, testutil.ToFloat64(g.WithLabelValues("users")))
}

func TestCreateCustomMetrics_Namespaced(t *testing.T) {
	m := NewMetrics(Config{Namespace: "docstore"})
	m.CreateCounter("cursor_batches_total", "batches", nil).WithLabelValues().Inc()

	n, err := testutil.GatherAndCount(m.Registry, "docstore_cursor_batches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
