// Package logger provides the structured logger used across docstore.
//
// It wraps go.uber.org/zap behind a small Logger interface whose methods take
// a message, an optional error and any number of field maps:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "docstore"})
//	log.Info("Collection ensured", nil, map[string]interface{}{"collection": "users"})
//
// # Trace correlation
//
// With Config.EnableTracing set, the *WithContext variants add trace_id and
// span_id taken from the OpenTelemetry span stored in the context:
//
//	log.ErrorWithContext(ctx, "Cursor release failed", err, map[string]interface{}{
//		"handle": handle,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule, // Provides *LoggerClient and logger.Logger
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Debug, EnableTracing: true}
//		}),
//	)
//
// The module flushes the zap core when the application stops.
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=info           # debug, info, warning, error
//	LOGGER_ENABLE_TRACING=true      # attach trace_id/span_id
//	LOGGER_SERVICE_NAME=docstore    # value of the "service" field
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package logger
