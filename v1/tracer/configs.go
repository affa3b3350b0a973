package tracer

// Config holds the tracer settings.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" env:"TRACER_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment, e.g. "production".
	AppEnv string `yaml:"app_env" env:"TRACER_APP_ENV"`

	// EnableExport turns on the OTLP/HTTP exporter. The exporter reads its
	// endpoint from the standard OTEL_EXPORTER_OTLP_* environment variables.
	EnableExport bool `yaml:"enable_export" env:"TRACER_ENABLE_EXPORT"`
}
