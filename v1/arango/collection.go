package arango

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Collection is the CRUD façade over one collection. It is cheap to create and
// safe for concurrent use.
type Collection struct {
	name   string
	client *Client
}

var _ DocumentStore = (*Collection)(nil)

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Find returns a cursor over the documents matching cons, after skipping skip
// documents and returning at most limit. limit 0 means no limit.
// The caller must dispose the cursor.
func (c *Collection) Find(ctx context.Context, cons *Constraint, limit, skip int64) (cur *Cursor, err error) {
	start := time.Now()
	var size int64
	defer func() {
		c.observe("find", "", start, err, size)
	}()

	q, err := Build(OpFind, c.name, nil, cons, c.options(Options{Limit: limit, Skip: skip}))
	if err != nil {
		return nil, err
	}
	res, err := c.execute(ctx, q)
	if err != nil {
		return nil, err
	}
	size = int64(len(res.Records))
	return c.client.newCursor(c.name, res), nil
}

// FindOne returns the first document matching cons, or nil when none does.
func (c *Collection) FindOne(ctx context.Context, cons *Constraint) (*Document, error) {
	cur, err := c.Find(ctx, cons, 1, 0)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = cur.Close() }()

	doc, err := cur.Next(ctx)
	if errors.Is(err, ErrNoMoreDocuments) {
		return nil, nil
	}
	return doc, err
}

// Get returns the document stored under key, or nil when there is none.
func (c *Collection) Get(ctx context.Context, key string) (*Document, error) {
	if key == "" {
		return nil, compileErr("get", FieldKey, ErrMissingKey)
	}
	return c.FindOne(ctx, Where(FieldKey, key))
}

// Insert stores data as a new document. A _key in data is used as the
// document key; _id and _rev are ignored.
func (c *Collection) Insert(ctx context.Context, data *Record) (doc *Document, err error) {
	start := time.Now()
	defer func() {
		c.observe("insert", docKey(doc), start, err, countDoc(doc))
	}()

	q, err := Build(OpInsert, c.name, data, nil, c.options(Options{}))
	if err != nil {
		return nil, err
	}
	return c.single(ctx, q)
}

// Update merges data into the document stored under key and returns the
// updated document. key may be empty when data carries a _key; when both are
// given they must agree.
func (c *Collection) Update(ctx context.Context, key string, data *Record) (doc *Document, err error) {
	start := time.Now()
	defer func() {
		c.observe("update", key, start, err, countDoc(doc))
	}()

	q, err := Build(OpUpdate, c.name, data, nil, c.options(Options{Key: key}))
	if err != nil {
		return nil, err
	}
	return c.single(ctx, q)
}

// Upsert updates the document whose matchField equals data's value for it,
// or inserts data when no document matches.
func (c *Collection) Upsert(ctx context.Context, matchField string, data *Record) (doc *Document, err error) {
	start := time.Now()
	defer func() {
		c.observe("upsert", docKey(doc), start, err, countDoc(doc))
	}()

	if matchField == "" {
		return nil, compileErr("upsert", "", ErrMissingKey)
	}
	q, err := Build(OpUpdate, c.name, data, nil, c.options(Options{UpsertKey: matchField}))
	if err != nil {
		return nil, err
	}
	return c.single(ctx, q)
}

// Delete removes the document stored under key. Deleting a missing key is
// not an error and returns 0.
func (c *Collection) Delete(ctx context.Context, key string) (removed int64, err error) {
	start := time.Now()
	defer func() {
		c.observe("delete", key, start, err, removed)
	}()

	if key == "" {
		return 0, compileErr("delete", FieldKey, ErrMissingKey)
	}
	q, err := Build(OpDelete, c.name, nil, nil, c.options(Options{Key: key}))
	if err != nil {
		return 0, err
	}
	res, err := c.execute(ctx, q)
	if err != nil {
		if IsNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}
	for _, raw := range res.Records {
		if !isJSONNull(raw) {
			removed++
		}
	}
	return removed, nil
}

// DeleteWhere removes every document matching cons and returns how many were
// removed. An empty constraint is rejected; wiping a collection has to be
// spelled out as a raw query.
func (c *Collection) DeleteWhere(ctx context.Context, cons *Constraint) (removed int64, err error) {
	start := time.Now()
	defer func() {
		c.observe("delete_where", "", start, err, removed)
	}()

	q, err := Build(OpDelete, c.name, nil, cons, c.options(Options{}))
	if err != nil {
		return 0, err
	}
	return c.scalar(ctx, q)
}

// Count returns the number of documents matching cons, counted by the server.
func (c *Collection) Count(ctx context.Context, cons *Constraint) (n int64, err error) {
	start := time.Now()
	defer func() {
		c.observe("count", "", start, err, n)
	}()

	q, err := Build(OpCount, c.name, nil, cons, c.options(Options{}))
	if err != nil {
		return 0, err
	}
	return c.scalar(ctx, q)
}

// EnsureExists creates the collection when it does not exist yet and reports
// whether this call created it.
func (c *Collection) EnsureExists(ctx context.Context) (created bool, err error) {
	start := time.Now()
	defer func() {
		c.observe("ensure_collection", "", start, err, 0)
	}()

	if err := c.client.checkOpen(); err != nil {
		return false, err
	}
	p := c.client.provisionerRef()
	if p == nil {
		return false, ErrProvisioningUnsupported
	}
	created, err = p.EnsureCollection(ctx, c.name)
	if err == nil {
		c.client.ensured.Store(c.name, struct{}{})
	}
	return created, err
}

func (c *Collection) options(o Options) Options {
	o.BatchSize = c.client.cfg.BatchSize
	return o
}

func (c *Collection) execute(ctx context.Context, q CompiledQuery) (*RawResult, error) {
	if err := c.client.checkOpen(); err != nil {
		return nil, err
	}
	if c.client.cfg.AutoProvision {
		if _, done := c.client.ensured.Load(c.name); !done {
			if _, err := c.EnsureExists(ctx); err != nil && !errors.Is(err, ErrProvisioningUnsupported) {
				return nil, err
			}
		}
	}

	c.client.log().Debug("arango: executing query", nil, map[string]interface{}{
		"collection": c.name,
		"query":      q.Text,
	})
	res, err := c.client.transport.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &RawResult{}
	}
	return res, nil
}

// single runs a query returning exactly one document.
func (c *Collection) single(ctx context.Context, q CompiledQuery) (*Document, error) {
	res, err := c.execute(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("%w: empty result", ErrInvalidDocument)
	}
	return Materialize(res.Records[0])
}

// scalar runs a query returning a single number.
func (c *Collection) scalar(ctx context.Context, q CompiledQuery) (int64, error) {
	res, err := c.execute(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(res.Records) == 0 {
		return 0, fmt.Errorf("%w: empty result", ErrInvalidDocument)
	}
	var n int64
	if err := json.Unmarshal(res.Records[0], &n); err != nil {
		return 0, fmt.Errorf("%w: expected a number: %v", ErrInvalidDocument, err)
	}
	return n, nil
}

func (c *Collection) observe(operation, subResource string, start time.Time, err error, size int64) {
	observeOperation(c.client.observerRef(), operation, c.name, subResource, time.Since(start), err, size, nil)
}

func docKey(d *Document) string {
	if d == nil {
		return ""
	}
	return d.Key
}

func countDoc(d *Document) int64 {
	if d == nil {
		return 0
	}
	return 1
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
