package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *LoggerClient, also exposed as Logger so packages such as
// arango, metrics and tracer can take it as an optional dependency, and syncs
// it when the application stops.
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config { return logger.Config{Level: logger.Info} }),
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
		func(l *LoggerClient) Logger { return l },
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle flushes buffered entries on stop.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *LoggerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := client.Zap.Sync()
			if isUnsyncableOutput(err) {
				return nil
			}
			return err
		},
	})
}
