package arango

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// releaseTimeout bounds releases issued by Close and by automatic cleanup.
const releaseTimeout = 10 * time.Second

// CursorState is the lifecycle position of a Cursor.
type CursorState int

const (
	// StateFresh is a cursor built from the first batch that has not been read yet.
	StateFresh CursorState = iota
	// StateActive is a cursor being iterated. More records may follow.
	StateActive
	// StateExhausted is a cursor whose every record was returned.
	StateExhausted
	// StateDisposed is terminal: the cursor yields nothing more.
	StateDisposed
)

func (s CursorState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateActive:
		return "active"
	case StateExhausted:
		return "exhausted"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("CursorState(%d)", int(s))
}

// Cursor iterates over a query result, fetching batches from the server on
// demand. Each fetched batch replaces the previous one.
//
// A Cursor owns its server-side handle. Call Dispose (or Close) when done;
// cursors dropped without disposal release their handle on a best-effort
// basis once garbage collected.
//
// All methods are safe for concurrent use; calls are serialized.
type Cursor struct {
	mu sync.Mutex

	transport Transport
	handle    *cursorHandle
	cleanup   runtime.Cleanup
	cleanupOn bool

	batch    []json.RawMessage
	pos      int
	hasMore  bool
	count    *int64
	stats    map[string]any
	warnings []Warning
	state    CursorState

	resource string
	logger   Logger
	observer observability.Observer
}

// cursorHandle is the part of the cursor automatic cleanup needs. It must not
// point back to the Cursor, or the cursor would never become unreachable.
type cursorHandle struct {
	mu        sync.Mutex
	id        string
	transport Transport
	logger    Logger
}

func (h *cursorHandle) set(id string) {
	h.mu.Lock()
	h.id = id
	h.mu.Unlock()
}

func (h *cursorHandle) get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id
}

// take returns the handle and clears it, so it is released at most once.
func (h *cursorHandle) take() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.id
	h.id = ""
	return id
}

func releaseAbandoned(h *cursorHandle) {
	id := h.take()
	if id == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := h.transport.Release(ctx, id); err != nil && !isCursorGone(err) && h.logger != nil {
		h.logger.Warn("arango: automatic cursor release failed", err, map[string]interface{}{
			"handle": id,
		})
	}
}

type cursorDeps struct {
	resource string
	logger   Logger
	observer observability.Observer
}

// NewCursor wraps the first batch of a query executed through t.
func NewCursor(t Transport, first *RawResult) *Cursor {
	return newCursor(t, first, cursorDeps{})
}

func newCursor(t Transport, first *RawResult, deps cursorDeps) *Cursor {
	if first == nil {
		first = &RawResult{}
	}
	c := &Cursor{
		transport: t,
		handle:    &cursorHandle{transport: t, logger: deps.logger},
		batch:     first.Records,
		hasMore:   first.HasMore,
		count:     first.Count,
		stats:     first.Stats,
		warnings:  slices.Clone(first.Warnings),
		state:     StateFresh,
		resource:  deps.resource,
		logger:    deps.logger,
		observer:  deps.observer,
	}
	if first.HasMore && first.Handle != "" {
		c.handle.set(first.Handle)
		c.cleanup = runtime.AddCleanup(c, releaseAbandoned, c.handle)
		c.cleanupOn = true
	}
	return c
}

func (c *Cursor) stopCleanup() {
	if c.cleanupOn {
		c.cleanup.Stop()
		c.cleanupOn = false
	}
}

// Next returns the next document, fetching the next batch when the current
// one is used up. It returns ErrNoMoreDocuments at the end of the result and
// ErrCursorDisposed after Dispose.
//
// A failed fetch leaves the cursor as it was; calling Next again retries.
func (c *Cursor) Next(ctx context.Context) (*Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextLocked(ctx)
}

func (c *Cursor) nextLocked(ctx context.Context) (*Document, error) {
	if c.state == StateDisposed {
		return nil, ErrCursorDisposed
	}

	for c.pos >= len(c.batch) {
		if !c.hasMore {
			c.state = StateExhausted
			return nil, ErrNoMoreDocuments
		}
		c.state = StateActive
		if err := c.fetchLocked(ctx); err != nil {
			return nil, err
		}
	}

	raw := c.batch[c.pos]
	c.pos++
	c.state = StateActive
	if c.pos == len(c.batch) && !c.hasMore {
		c.state = StateExhausted
	}

	doc, err := Materialize(raw)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// fetchLocked replaces the current batch with the next one from the server.
// On failure nothing is changed.
func (c *Cursor) fetchLocked(ctx context.Context) (err error) {
	start := time.Now()
	handle := c.handle.get()
	var size int64
	defer func() {
		observeOperation(c.observer, "fetch", c.resource, handle, time.Since(start), err, size, nil)
	}()

	if handle == "" {
		return &TransportError{Message: "cursor has more results but no handle"}
	}

	res, err := c.transport.Next(ctx, handle)
	if err != nil {
		return fmt.Errorf("arango: fetch batch for cursor %s: %w", handle, err)
	}
	if res == nil {
		res = &RawResult{}
	}

	c.batch = res.Records
	c.pos = 0
	c.hasMore = res.HasMore
	if res.Count != nil {
		c.count = res.Count
	}
	if res.Stats != nil {
		c.stats = res.Stats
	}
	c.warnings = append(c.warnings, res.Warnings...)
	size = int64(len(res.Records))

	switch {
	case !res.HasMore:
		// The server drops a cursor once its last batch was delivered.
		c.handle.take()
		c.stopCleanup()
	case res.Handle != "" && res.Handle != handle:
		c.handle.set(res.Handle)
	}
	return nil
}

// FetchAll returns the remaining documents, fetching every further batch. On
// failure it returns the documents gathered so far together with the error.
func (c *Cursor) FetchAll(ctx context.Context) ([]*Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var docs []*Document
	for {
		doc, err := c.nextLocked(ctx)
		if errors.Is(err, ErrNoMoreDocuments) {
			return docs, nil
		}
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
}

// All returns an iterator over the remaining documents. Iteration stops after
// yielding the first error.
//
//	for doc, err := range cursor.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
func (c *Cursor) All(ctx context.Context) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		for {
			doc, err := c.Next(ctx)
			if errors.Is(err, ErrNoMoreDocuments) {
				return
			}
			if !yield(doc, err) || err != nil {
				return
			}
		}
	}
}

// Dispose releases the server-side cursor, if one is still open, and makes
// the cursor terminal. Calling it again is a no-op. A failed release is
// returned as *DisposalError; the cursor is disposed regardless.
func (c *Cursor) Dispose(ctx context.Context) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDisposed {
		return nil
	}
	c.state = StateDisposed
	c.batch = nil
	c.pos = 0
	c.hasMore = false
	c.stopCleanup()

	handle := c.handle.take()
	if handle == "" {
		return nil
	}

	start := time.Now()
	defer func() {
		observeOperation(c.observer, "dispose", c.resource, handle, time.Since(start), err, 0, nil)
	}()

	if rerr := c.transport.Release(ctx, handle); rerr != nil && !isCursorGone(rerr) {
		return &DisposalError{Handle: handle, Err: rerr}
	}
	return nil
}

// Close disposes the cursor with a bounded background context. It implements io.Closer.
func (c *Cursor) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	return c.Dispose(ctx)
}

// State returns the current lifecycle state.
func (c *Cursor) State() CursorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasMore reports whether Next may still return documents without a fetch
// failing for lack of data. A disposed cursor always reports false.
func (c *Cursor) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisposed {
		return false
	}
	return c.pos < len(c.batch) || c.hasMore
}

// Count returns the total result count when the query asked for it.
func (c *Cursor) Count() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == nil {
		return 0, false
	}
	return *c.count, true
}

// Stats returns a copy of the latest execution statistics.
func (c *Cursor) Stats() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.stats)
}

// Warnings returns the warnings gathered over all batches.
func (c *Cursor) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.warnings)
}

// Handle returns the open server-side cursor id, or "" once the server or
// Dispose has released it.
func (c *Cursor) Handle() string {
	return c.handle.get()
}

// isCursorGone reports whether a release failed only because the server had
// already dropped the cursor.
func isCursorGone(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.ErrorNum == ErrorNumCursorNotFound
}
