package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/docstore/v1/logger"
)

// FXModule provides *Tracer and shuts the provider down when the application
// stops, flushing spans still held by the batcher.
//
// Dependencies required by this module:
// - A tracer.Config
// - A logger.Logger (logger.FXModule provides one)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		func(l logger.Logger) Logger { return l },
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers the OnStop hook that shuts the tracer down.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if tracer == nil || tracer.provider == nil {
				return nil
			}
			tracer.logger.Info("shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
