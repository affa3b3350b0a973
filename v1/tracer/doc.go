// Package tracer sets up OpenTelemetry tracing for docstore.
//
// NewClient installs a TracerProvider (optionally exporting over OTLP/HTTP)
// and the W3C propagators. The arango HTTP transport uses the resulting
// *Tracer to open a span per request and to forward the trace context to
// the server in the request headers.
//
//	tr := tracer.NewClient(tracer.Config{ServiceName: "docstore"}, log)
//	transport := arango.NewHTTPTransport(cfg, arango.WithTracer(tr))
package tracer
