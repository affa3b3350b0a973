package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the logger settings.
type Config struct {
	// Level selects the minimum level that is written.
	// One of "debug", "info", "warning", "error". Anything else means "info".
	Level string `yaml:"level" env:"ZAP_LOGGER_LEVEL"`

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods when the context carries an OpenTelemetry span.
	EnableTracing bool `yaml:"enable_tracing" env:"LOGGER_ENABLE_TRACING"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"LOGGER_SERVICE_NAME"`
}
