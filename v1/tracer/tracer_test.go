package tracer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Fatal(string, error, ...map[string]interface{}) {}

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(rec))
	return &Tracer{
		provider:   tp,
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		logger:     nopLogger{},
	}, rec
}

func TestNewClient_WithoutExport(t *testing.T) {
	tr := NewClient(Config{ServiceName: "docstore-test", AppEnv: "test"}, nopLogger{})
	require.NotNil(t, tr)
	defer func() { _ = tr.Shutdown(context.Background()) }()

	ctx, span := tr.StartSpan(context.Background(), "op")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	carrier := tr.GetCarrier(ctx)
	assert.Contains(t, carrier, "traceparent")
}

func TestTracer_RecordErrorAndAttributes(t *testing.T) {
	tr, rec := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), "arango.find")
	tr.SetAttributes(span, map[string]interface{}{
		"collection": "users",
		"limit":      10,
		"count":      int64(3),
		"ratio":      0.5,
		"cached":     false,
		"other":      []string{"a"},
	})
	tr.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "arango.find", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
	assert.Len(t, ended[0].Attributes(), 6)
}

func TestTracer_CarrierRoundTrip(t *testing.T) {
	tr, _ := newRecordingTracer()

	ctx, span := tr.StartSpan(context.Background(), "parent")
	defer span.End()

	restored := tr.SetCarrierOnContext(context.Background(), tr.GetCarrier(ctx))
	_, child := tr.StartSpan(restored, "child")
	defer child.End()

	assert.Equal(t, span.SpanContext().TraceID(), child.SpanContext().TraceID())
}

func TestTracer_InjectHTTPHeaders(t *testing.T) {
	tr, _ := newRecordingTracer()

	ctx, span := tr.StartSpan(context.Background(), "request")
	defer span.End()

	h := http.Header{}
	tr.InjectHTTPHeaders(ctx, h)
	assert.NotEmpty(t, h.Get("traceparent"))
}

func TestTracer_ShutdownNil(t *testing.T) {
	var tr *Tracer
	assert.NoError(t, tr.Shutdown(context.Background()))
}
