package arango

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultEndpoint             = "http://localhost:8529"
	DefaultDatabase             = "_system"
	DefaultTimeout              = 30 * time.Second
	DefaultBatchSize            = 1000
	DefaultMaxRetries           = 3
	DefaultRetryInitialInterval = 200 * time.Millisecond
)

// Config holds the connection settings of the ArangoDB client.
type Config struct {
	// Endpoint is the base URL of the server, e.g. "http://localhost:8529".
	Endpoint string `yaml:"endpoint" env:"ARANGO_ENDPOINT"`

	// Database is the database every query runs in.
	// Default: "_system"
	Database string `yaml:"database" env:"ARANGO_DATABASE"`

	// Username and Password enable HTTP basic authentication.
	Username string `yaml:"username" env:"ARANGO_USERNAME"`
	Password string `yaml:"password" env:"ARANGO_PASSWORD"`

	// Token is a JWT sent as a bearer token. It takes precedence over basic auth.
	Token string `yaml:"token" env:"ARANGO_TOKEN"`

	// Timeout applies to every HTTP request.
	// Default: 30 seconds
	Timeout time.Duration `yaml:"timeout" env:"ARANGO_TIMEOUT"`

	// BatchSize is the number of documents per cursor batch.
	// Default: 1000
	BatchSize int `yaml:"batch_size" env:"ARANGO_BATCH_SIZE"`

	// MaxRetries bounds retries of idempotent requests (version checks,
	// provisioning and cursor release). Queries are never retried.
	// Default: 3, set to 0 to disable
	MaxRetries int `yaml:"max_retries" env:"ARANGO_MAX_RETRIES"`

	// RetryInitialInterval is the first backoff interval between retries.
	// Default: 200 milliseconds
	RetryInitialInterval time.Duration `yaml:"retry_initial_interval" env:"ARANGO_RETRY_INITIAL_INTERVAL"`

	// AutoProvision creates the database on startup when it does not exist,
	// and collections on first use through Client.Collection.
	AutoProvision bool `yaml:"auto_provision" env:"ARANGO_AUTO_PROVISION"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is optional. *logger.LoggerClient satisfies it.
	Logger Logger `yaml:"-"`
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS for the connection
	Enabled bool `yaml:"enabled" env:"ARANGO_TLS_ENABLED"`

	// CACertPath is the file path to the CA certificate for verifying the server
	CACertPath string `yaml:"ca_cert_path" env:"ARANGO_TLS_CA_CERT_PATH"`

	// InsecureSkipVerify controls whether to skip verification of the server's certificate
	// WARNING: Setting this to true is insecure and should only be used in testing
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" env:"ARANGO_TLS_INSECURE_SKIP_VERIFY"`

	// ServerName is used to verify the hostname on the returned certificates
	ServerName string `yaml:"server_name" env:"ARANGO_TLS_SERVER_NAME"`
}

// DefaultConfig returns a configuration for a local, unauthenticated server.
func DefaultConfig() Config {
	return Config{
		Endpoint:             DefaultEndpoint,
		Database:             DefaultDatabase,
		Timeout:              DefaultTimeout,
		BatchSize:            DefaultBatchSize,
		MaxRetries:           DefaultMaxRetries,
		RetryInitialInterval: DefaultRetryInitialInterval,
	}
}

// WithEndpoint sets the server URL.
func (c Config) WithEndpoint(endpoint string) Config {
	c.Endpoint = endpoint
	return c
}

// WithDatabase sets the database name.
func (c Config) WithDatabase(name string) Config {
	c.Database = name
	return c
}

// WithCredentials sets basic authentication credentials.
func (c Config) WithCredentials(username, password string) Config {
	c.Username = username
	c.Password = password
	return c
}

// WithToken sets a JWT bearer token.
func (c Config) WithToken(token string) Config {
	c.Token = token
	return c
}

// WithBatchSize sets the cursor batch size.
func (c Config) WithBatchSize(n int) Config {
	c.BatchSize = n
	return c
}

// WithTimeout sets the per-request timeout.
func (c Config) WithTimeout(d time.Duration) Config {
	c.Timeout = d
	return c
}

// WithLogger sets the logger.
func (c Config) WithLogger(l Logger) Config {
	c.Logger = l
	return c
}

// withDefaults fills zero values with the package defaults.
func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.RetryInitialInterval == 0 {
		c.RetryInitialInterval = DefaultRetryInitialInterval
	}
	return c
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is required"))
	} else if u, err := url.Parse(c.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("endpoint %q must be an http(s) URL", c.Endpoint))
	}
	if c.Database == "" {
		errs = append(errs, errors.New("database is required"))
	}
	if c.BatchSize < 0 {
		errs = append(errs, errors.New("batch size must not be negative"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries must not be negative"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("arango: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
