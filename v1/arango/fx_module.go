package arango

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/docstore/v1/logger"
	"github.com/Aleph-Alpha/docstore/v1/observability"
	"github.com/Aleph-Alpha/docstore/v1/tracer"
)

// FXModule is an fx.Module that provides the HTTP transport and the client.
//
// The module:
//  1. Provides *HTTPTransport, exposed as Transport and Provisioner
//  2. Provides *Client wired with the optional logger, observer and tracer
//  3. On start, creates the database when AutoProvision is set and pings the server
//  4. On stop, closes the client
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,  // optional
//	    metrics.FXModule, // optional, provides the observer
//	    arango.FXModule,
//	    fx.Provide(func() arango.Config { return loadConfig() }),
//	)
var FXModule = fx.Module("arango",
	fx.Provide(
		NewHTTPTransportWithDI,
		func(t *HTTPTransport) Transport { return t },
		func(t *HTTPTransport) Provisioner { return t },
		NewClientWithDI,
	),
	fx.Invoke(RegisterArangoLifecycle),
)

// TransportParams groups the dependencies needed to create the HTTP transport.
type TransportParams struct {
	fx.In

	Config Config
	Logger logger.Logger  `optional:"true"`
	Tracer *tracer.Tracer `optional:"true"`
}

// NewHTTPTransportWithDI builds the transport, injecting the optional logger
// and tracer.
func NewHTTPTransportWithDI(p TransportParams) (*HTTPTransport, error) {
	cfg := p.Config
	if p.Logger != nil && cfg.Logger == nil {
		cfg.Logger = p.Logger
	}
	var opts []HTTPOption
	if p.Tracer != nil {
		opts = append(opts, WithTracer(p.Tracer))
	}
	return NewHTTPTransport(cfg, opts...)
}

// ClientParams groups the dependencies needed to create the client.
type ClientParams struct {
	fx.In

	Config    Config
	Transport Transport
	Logger    logger.Logger          `optional:"true"`
	Observer  observability.Observer `optional:"true"`
}

// NewClientWithDI creates the client from injected dependencies.
func NewClientWithDI(p ClientParams) *Client {
	cfg := p.Config
	if p.Logger != nil && cfg.Logger == nil {
		cfg.Logger = p.Logger
	}
	c := NewClient(cfg, p.Transport)
	if p.Observer != nil {
		c.WithObserver(p.Observer)
	}
	return c
}

// LifecycleParams groups the dependencies needed for lifecycle management.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *Client
}

// RegisterArangoLifecycle provisions the database when configured, checks
// connectivity on start and closes the client on stop.
func RegisterArangoLifecycle(p LifecycleParams) {
	client := p.Client
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if client.cfg.AutoProvision {
				created, err := client.EnsureDatabase(ctx)
				if err != nil {
					client.log().Error("arango: failed to provision database", err, map[string]interface{}{
						"database": client.cfg.Database,
					})
					return err
				}
				if created {
					client.log().Info("arango: database created", nil, map[string]interface{}{
						"database": client.cfg.Database,
					})
				}
			}
			if err := client.Ping(ctx); err != nil {
				client.log().Error("arango: failed to ping server on startup", err, nil)
				return err
			}
			client.log().Info("arango: client started", nil, map[string]interface{}{
				"endpoint": client.cfg.Endpoint,
				"database": client.cfg.Database,
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			client.log().Info("arango: shutting down client", nil, nil)
			return client.Close()
		},
	})
}
