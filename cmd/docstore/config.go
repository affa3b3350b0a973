package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/docstore/v1/arango"
)

// envPrefix namespaces the environment variables read by the CLI:
// DOCSTORE_ENDPOINT, DOCSTORE_TLS_ENABLED, DOCSTORE_LOG_LEVEL, ...
const envPrefix = "DOCSTORE"

// cliConfig mirrors the configuration file layout.
type cliConfig struct {
	Endpoint             string        `mapstructure:"endpoint"`
	Database             string        `mapstructure:"database"`
	Username             string        `mapstructure:"username"`
	Password             string        `mapstructure:"password"`
	Token                string        `mapstructure:"token"`
	Timeout              time.Duration `mapstructure:"timeout"`
	BatchSize            int           `mapstructure:"batch_size"`
	MaxRetries           int           `mapstructure:"max_retries"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	AutoProvision        bool          `mapstructure:"auto_provision"`

	TLS struct {
		Enabled            bool   `mapstructure:"enabled"`
		CACertPath         string `mapstructure:"ca_cert_path"`
		InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
		ServerName         string `mapstructure:"server_name"`
	} `mapstructure:"tls"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// newViper returns a viper instance with every known key defaulted, so
// environment variables are picked up by Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	def := arango.DefaultConfig()

	v.SetDefault("endpoint", def.Endpoint)
	v.SetDefault("database", def.Database)
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("token", "")
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("batch_size", def.BatchSize)
	v.SetDefault("max_retries", def.MaxRetries)
	v.SetDefault("retry_initial_interval", def.RetryInitialInterval)
	v.SetDefault("auto_provision", false)
	v.SetDefault("tls.enabled", false)
	v.SetDefault("tls.ca_cert_path", "")
	v.SetDefault("tls.insecure_skip_verify", false)
	v.SetDefault("tls.server_name", "")
	v.SetDefault("log.level", "warning")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags maps command line flags onto configuration keys. Flags win over
// the environment, which wins over the file.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"endpoint":  "endpoint",
		"database":  "database",
		"username":  "username",
		"password":  "password",
		"token":     "token",
		"log-level": "log.level",
	}
	for flag, key := range bindings {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig reads path, when given, and resolves the final configuration.
func loadConfig(v *viper.Viper, path string) (cliConfig, error) {
	var cfg cliConfig
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// arangoConfig converts the file layout into the client configuration.
func (c cliConfig) arangoConfig() arango.Config {
	return arango.Config{
		Endpoint:             c.Endpoint,
		Database:             c.Database,
		Username:             c.Username,
		Password:             c.Password,
		Token:                c.Token,
		Timeout:              c.Timeout,
		BatchSize:            c.BatchSize,
		MaxRetries:           c.MaxRetries,
		RetryInitialInterval: c.RetryInitialInterval,
		AutoProvision:        c.AutoProvision,
		TLS: arango.TLSConfig{
			Enabled:            c.TLS.Enabled,
			CACertPath:         c.TLS.CACertPath,
			InsecureSkipVerify: c.TLS.InsecureSkipVerify,
			ServerName:         c.TLS.ServerName,
		},
	}
}
