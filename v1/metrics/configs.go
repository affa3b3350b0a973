package metrics

// Config defines the Prometheus metrics server settings.
type Config struct {
	// Address is the listen address of the /metrics endpoint, e.g. ":9090".
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes the names of the built-in metrics.
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`

	// ServiceName is added as a constant "service" label to every metric.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`
}
