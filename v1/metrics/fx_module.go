package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/docstore/v1/logger"
	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// FXModule provides *Metrics, the MetricsCollector interface and an
// observability.Observer backed by them, and runs the /metrics server for the
// lifetime of the application.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    arango.FXModule, // picks up the observer automatically
//	    fx.Provide(func() metrics.Config {
//	        return metrics.Config{Address: ":9090", ServiceName: "docstore"}
//	    }),
//	)
//
// Dependencies required by this module:
// - A metrics.Config instance
// - A logger.Logger instance is optional
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) MetricsCollector { return m },
		func(c MetricsCollector) observability.Observer { return NewOperationObserver(c) },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// LifecycleParams groups the dependencies of RegisterMetricsLifecycle.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the metrics HTTP server in the background on
// start and shuts it down gracefully on stop.
func RegisterMetricsLifecycle(p LifecycleParams) {
	log := p.Logger
	m := p.Metrics

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if log != nil {
					log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
						"address": m.Server.Addr,
					})
				}
				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && log != nil {
					log.Error("Error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if log != nil {
				log.Info("Shutting down Prometheus metrics server", nil, nil)
			}
			return m.Server.Shutdown(ctx)
		},
	})
}
