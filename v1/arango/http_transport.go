package arango

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Tracer opens spans around HTTP requests and forwards the trace context to
// the server. *tracer.Tracer from this module satisfies it.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
	InjectHTTPHeaders(ctx context.Context, h http.Header)
}

// HTTPOption customizes an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithTracer enables a span per request.
func WithTracer(t Tracer) HTTPOption {
	return func(h *HTTPTransport) { h.tracer = t }
}

// WithHTTPClient replaces the HTTP client built from the configuration.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPTransport) { h.client = c }
}

// HTTPTransport implements Transport and Provisioner over the ArangoDB HTTP API.
// It is safe for concurrent use.
type HTTPTransport struct {
	cfg      Config
	endpoint string
	client   *http.Client
	tracer   Tracer
	logger   Logger

	provisioning singleflight.Group
}

var (
	_ Transport   = (*HTTPTransport)(nil)
	_ Provisioner = (*HTTPTransport)(nil)
)

// NewHTTPTransport validates cfg and builds the transport. Zero values in cfg
// fall back to the package defaults.
//
// Example:
//
//	t, err := arango.NewHTTPTransport(arango.DefaultConfig().WithCredentials("root", "secret"))
//	if err != nil {
//	    return err
//	}
//	client := arango.NewClient(cfg, t)
func NewHTTPTransport(cfg Config, opts ...HTTPOption) (*HTTPTransport, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &HTTPTransport{
		cfg:      cfg,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		logger:   cfg.Logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.TLS.Enabled {
			tlsCfg, err := buildTLSConfig(cfg.TLS)
			if err != nil {
				return nil, err
			}
			transport.TLSClientConfig = tlsCfg
		}
		h.client = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	}
	return h, nil
}

func buildTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		ServerName:         cfg.ServerName,
	}
	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("arango: read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("arango: no certificates found in %s", cfg.CACertPath)
		}
		tlsCfg.RootCAs = pool
	}
	return tlsCfg, nil
}

// Config returns the effective configuration.
func (h *HTTPTransport) Config() Config { return h.cfg }

type cursorRequest struct {
	Query     string         `json:"query"`
	BindVars  map[string]any `json:"bindVars,omitempty"`
	BatchSize int            `json:"batchSize,omitempty"`
	Count     bool           `json:"count,omitempty"`
}

type cursorResponse struct {
	Result  []json.RawMessage `json:"result"`
	HasMore bool              `json:"hasMore"`
	ID      string            `json:"id"`
	Count   *int64            `json:"count"`
	Extra   struct {
		Stats    map[string]any `json:"stats"`
		Warnings []Warning      `json:"warnings"`
	} `json:"extra"`
}

func (r *cursorResponse) raw() *RawResult {
	return &RawResult{
		Records:  r.Result,
		Count:    r.Count,
		HasMore:  r.HasMore,
		Handle:   r.ID,
		Stats:    r.Extra.Stats,
		Warnings: r.Extra.Warnings,
	}
}

// errorResponse is the body ArangoDB sends with every failed request.
type errorResponse struct {
	Error        bool   `json:"error"`
	Code         int    `json:"code"`
	ErrorNum     int    `json:"errorNum"`
	ErrorMessage string `json:"errorMessage"`
}

// Execute runs q through POST /_api/cursor. Queries are never retried.
func (h *HTTPTransport) Execute(ctx context.Context, q CompiledQuery) (*RawResult, error) {
	batch := q.BatchSize
	if batch == 0 {
		batch = h.cfg.BatchSize
	}
	body := cursorRequest{Query: q.Text, BindVars: q.Bindings, BatchSize: batch, Count: q.Count}

	var resp cursorResponse
	if _, err := h.do(ctx, request{
		method: http.MethodPost,
		route:  "/_api/cursor",
		path:   h.dbPath("/_api/cursor"),
		body:   body,
		out:    &resp,
	}); err != nil {
		return nil, err
	}
	return resp.raw(), nil
}

// Next fetches the next batch through PUT /_api/cursor/{handle}. Never retried:
// a batch that was delivered but lost cannot be fetched again.
func (h *HTTPTransport) Next(ctx context.Context, handle string) (*RawResult, error) {
	var resp cursorResponse
	if _, err := h.do(ctx, request{
		method: http.MethodPut,
		route:  "/_api/cursor/{id}",
		path:   h.dbPath("/_api/cursor/" + url.PathEscape(handle)),
		out:    &resp,
	}); err != nil {
		return nil, err
	}
	return resp.raw(), nil
}

// Release deletes the server-side cursor through DELETE /_api/cursor/{handle}.
func (h *HTTPTransport) Release(ctx context.Context, handle string) error {
	_, err := h.do(ctx, request{
		method:     http.MethodDelete,
		route:      "/_api/cursor/{id}",
		path:       h.dbPath("/_api/cursor/" + url.PathEscape(handle)),
		idempotent: true,
	})
	return err
}

// VersionInfo is the answer of the version endpoint.
type VersionInfo struct {
	Server  string `json:"server"`
	Version string `json:"version"`
	License string `json:"license"`
}

// Version queries the server version. It doubles as a connectivity check.
func (h *HTTPTransport) Version(ctx context.Context) (VersionInfo, error) {
	var info VersionInfo
	_, err := h.do(ctx, request{
		method:     http.MethodGet,
		route:      "/_api/version",
		path:       h.dbPath("/_api/version"),
		out:        &info,
		idempotent: true,
	})
	return info, err
}

// Close releases idle connections.
func (h *HTTPTransport) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

func (h *HTTPTransport) dbPath(p string) string {
	return "/_db/" + url.PathEscape(h.cfg.Database) + p
}

type request struct {
	method string
	// route is the path template used for span names.
	route      string
	path       string
	body       any
	out        any
	idempotent bool
	// accept lists non-2xx statuses that are returned instead of failing.
	accept []int
}

// do performs req, retrying idempotent requests with exponential backoff on
// network errors and 503 answers. It returns the final HTTP status.
func (h *HTTPTransport) do(ctx context.Context, req request) (int, error) {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return 0, &TransportError{Message: "encode request body", Err: err}
		}
	}

	if !req.idempotent || h.cfg.MaxRetries == 0 {
		return h.roundTrip(ctx, req, payload)
	}

	var status int
	operation := func() error {
		var err error
		status, err = h.roundTrip(ctx, req, payload)
		if err != nil && !isRetryable(ctx, err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.cfg.RetryInitialInterval
	policy.MaxElapsedTime = 0
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(h.cfg.MaxRetries)), ctx)

	err := backoff.RetryNotify(operation, retry, func(err error, wait time.Duration) {
		if h.logger != nil {
			h.logger.Warn("arango: retrying request", err, map[string]interface{}{
				"method": req.method,
				"route":  req.route,
				"wait":   wait.String(),
			})
		}
	})
	return status, err
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode == 0 || te.StatusCode == http.StatusServiceUnavailable
}

func (h *HTTPTransport) roundTrip(ctx context.Context, req request, payload []byte) (status int, err error) {
	if h.tracer != nil {
		var span trace.Span
		ctx, span = h.tracer.StartSpan(ctx, "arango "+req.method+" "+req.route)
		defer func() {
			h.tracer.SetAttributes(span, map[string]interface{}{
				"db.system":        "arangodb",
				"db.name":          h.cfg.Database,
				"http.method":      req.method,
				"http.status_code": status,
			})
			if err != nil {
				h.tracer.RecordErrorOnSpan(span, err)
			}
			span.End()
		}()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, h.endpoint+req.path, body)
	if err != nil {
		return 0, &TransportError{Message: "build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	switch {
	case h.cfg.Token != "":
		httpReq.Header.Set("Authorization", "bearer "+h.cfg.Token)
	case h.cfg.Username != "":
		httpReq.SetBasicAuth(h.cfg.Username, h.cfg.Password)
	}
	if h.tracer != nil {
		h.tracer.InjectHTTPHeaders(ctx, httpReq.Header)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return 0, &TransportError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &TransportError{StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		if slices.Contains(req.accept, resp.StatusCode) {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, decodeError(resp.StatusCode, data)
	}

	if req.out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, req.out); err != nil {
			return resp.StatusCode, &TransportError{StatusCode: resp.StatusCode, Message: "decode response body", Err: err}
		}
	}
	return resp.StatusCode, nil
}

func decodeError(status int, data []byte) error {
	te := &TransportError{StatusCode: status}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && (er.Error || er.ErrorNum != 0) {
		te.ErrorNum = er.ErrorNum
		te.Message = er.ErrorMessage
	}
	if te.Message == "" {
		te.Message = strings.TrimSpace(string(data))
	}
	if te.Message == "" {
		te.Message = http.StatusText(status)
	}
	return te
}
