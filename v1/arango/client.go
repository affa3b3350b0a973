package arango

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// versioner is implemented by transports with a cheap connectivity check.
type versioner interface {
	Version(ctx context.Context) (VersionInfo, error)
}

// Client is the entry point of the package. It owns the transport and hands
// out Collections that share it. A Client is safe for concurrent use.
type Client struct {
	cfg         Config
	transport   Transport
	provisioner Provisioner

	mu       sync.RWMutex
	logger   Logger
	observer observability.Observer
	closed   bool

	// ensured remembers collections provisioned through AutoProvision.
	ensured sync.Map
}

// NewClient creates a client on top of transport. When transport also
// implements Provisioner it is used for EnsureDatabase and EnsureExists.
//
// Example:
//
//	cfg := arango.DefaultConfig().WithDatabase("shop").WithCredentials("root", "secret")
//	transport, err := arango.NewHTTPTransport(cfg)
//	if err != nil {
//	    return err
//	}
//	client := arango.NewClient(cfg, transport)
//	users := client.Collection("users")
func NewClient(cfg Config, transport Transport) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:       cfg,
		transport: transport,
		logger:    cfg.Logger,
	}
	if p, ok := transport.(Provisioner); ok {
		c.provisioner = p
	}
	return c
}

// WithObserver sets the observer notified about every operation and returns c.
func (c *Client) WithObserver(obs observability.Observer) *Client {
	c.mu.Lock()
	c.observer = obs
	c.mu.Unlock()
	return c
}

// WithLogger sets the logger and returns c.
func (c *Client) WithLogger(l Logger) *Client {
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
	return c
}

// WithProvisioner overrides the provisioner taken from the transport and returns c.
func (c *Client) WithProvisioner(p Provisioner) *Client {
	c.mu.Lock()
	c.provisioner = p
	c.mu.Unlock()
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Collection returns a handle on the named collection. No request is made.
func (c *Client) Collection(name string) *Collection {
	return &Collection{name: name, client: c}
}

// Query runs a raw AQL query with bind parameters and returns a cursor over
// its result. Values must be passed as bindings, never spliced into text.
//
//	cur, err := client.Query(ctx, "FOR u IN users FILTER u.age >= @min RETURN u", map[string]any{"min": 18})
func (c *Client) Query(ctx context.Context, text string, bindings map[string]any) (cur *Cursor, err error) {
	start := time.Now()
	var size int64
	defer func() {
		observeOperation(c.observerRef(), "query", "", "", time.Since(start), err, size, nil)
	}()

	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, compileErr("query", "", ErrEmptyQuery)
	}
	if bindings == nil {
		bindings = map[string]any{}
	}

	res, err := c.transport.Execute(ctx, CompiledQuery{Text: text, Bindings: bindings, BatchSize: c.cfg.BatchSize})
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &RawResult{}
	}
	size = int64(len(res.Records))
	return c.newCursor("", res), nil
}

// EnsureDatabase creates the configured database when it does not exist.
func (c *Client) EnsureDatabase(ctx context.Context) (created bool, err error) {
	start := time.Now()
	defer func() {
		observeOperation(c.observerRef(), "ensure_database", c.cfg.Database, "", time.Since(start), err, 0, nil)
	}()

	if err := c.checkOpen(); err != nil {
		return false, err
	}
	p := c.provisionerRef()
	if p == nil {
		return false, ErrProvisioningUnsupported
	}
	return p.EnsureDatabase(ctx, c.cfg.Database)
}

// Ping checks that the server answers. Transports without a version endpoint
// are checked with a trivial query.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		observeOperation(c.observerRef(), "ping", "", "", time.Since(start), err, 0, nil)
	}()

	if err := c.checkOpen(); err != nil {
		return err
	}
	if v, ok := c.transport.(versioner); ok {
		info, err := v.Version(ctx)
		if err != nil {
			return err
		}
		c.log().Debug("arango: server reachable", nil, map[string]interface{}{
			"server":  info.Server,
			"version": info.Version,
		})
		return nil
	}
	_, err = c.transport.Execute(ctx, CompiledQuery{Text: "RETURN 1", Bindings: map[string]any{}})
	return err
}

// Close marks the client closed and closes the transport when it is an
// io.Closer. Cursors that are still open keep working until disposed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Client) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

func (c *Client) observerRef() observability.Observer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.observer
}

func (c *Client) provisionerRef() Provisioner {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provisioner
}

func (c *Client) log() Logger {
	c.mu.RLock()
	l := c.logger
	c.mu.RUnlock()
	if l == nil {
		return nopLogger{}
	}
	return l
}

func (c *Client) newCursor(resource string, res *RawResult) *Cursor {
	c.mu.RLock()
	deps := cursorDeps{resource: resource, logger: c.logger, observer: c.observer}
	c.mu.RUnlock()
	return newCursor(c.transport, res, deps)
}

type nopLogger struct{}

func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}
