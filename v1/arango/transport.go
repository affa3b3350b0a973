package arango

import (
	"context"
	"encoding/json"
)

// Transport executes compiled queries against the store and manages
// server-side cursor handles. It keeps no cursor state between calls; the
// Cursor that received a handle owns it.
//
// Errors are expected to be *TransportError so callers can branch on
// ErrNotFound and friends; context errors may be returned as they are.
//
//go:generate mockgen -source=transport.go -destination=mock_transport.go -package=arango
type Transport interface {
	// Execute runs q and returns its first batch.
	Execute(ctx context.Context, q CompiledQuery) (*RawResult, error)

	// Next fetches the next batch of the cursor identified by handle.
	Next(ctx context.Context, handle string) (*RawResult, error)

	// Release frees the server-side cursor identified by handle.
	Release(ctx context.Context, handle string) error
}

// Provisioner creates collections and databases on demand. Both methods are
// idempotent and report true only when the call created the resource.
type Provisioner interface {
	EnsureCollection(ctx context.Context, name string) (bool, error)
	EnsureDatabase(ctx context.Context, name string) (bool, error)
}

// RawResult is one batch of a query result as returned by the server.
type RawResult struct {
	// Records are the raw JSON values of this batch.
	Records []json.RawMessage
	// Count is the total number of results, present when requested.
	Count *int64
	// HasMore reports whether further batches can be fetched with Handle.
	HasMore bool
	// Handle identifies the server-side cursor; empty when none was kept open.
	Handle string
	// Stats holds the execution statistics reported by the server.
	Stats map[string]any
	// Warnings lists the warnings raised while running the query.
	Warnings []Warning
}

// Warning is a non-fatal message produced by the query engine.
type Warning struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
