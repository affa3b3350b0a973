package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/docstore/v1/arango"
	"github.com/Aleph-Alpha/docstore/v1/logger"
)

var (
	configPath string
	cfgViper   = newViper()
)

var rootCmd = &cobra.Command{
	Use:   "docstore",
	Short: "ArangoDB document store CLI",
	Long:  "docstore reads and writes documents of an ArangoDB database through parameterized AQL queries.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cfgViper, cmd.Flags())
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	flags.String("endpoint", "", "server URL (default "+arango.DefaultEndpoint+")")
	flags.StringP("database", "d", "", "database name (default "+arango.DefaultDatabase+")")
	flags.StringP("username", "u", "", "basic auth user")
	flags.StringP("password", "p", "", "basic auth password")
	flags.String("token", "", "JWT bearer token")
	flags.String("log-level", "", "log level: debug, info, warning or error")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(ensureCmd)
	rootCmd.AddCommand(queryCmd)
}

// session bundles what a subcommand needs to talk to the server.
type session struct {
	client *arango.Client
	log    *logger.LoggerClient
}

func (s *session) Close() {
	if err := s.client.Close(); err != nil {
		s.log.Warn("failed to close client", err, nil)
	}
	_ = s.log.Zap.Sync()
}

// openSession resolves the configuration and connects a client.
func openSession() (*session, error) {
	cfg, err := loadConfig(cfgViper, configPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewLoggerClient(logger.Config{Level: cfg.Log.Level, ServiceName: "docstore"})

	arangoCfg := cfg.arangoConfig()
	arangoCfg.Logger = log

	transport, err := arango.NewHTTPTransport(arangoCfg)
	if err != nil {
		return nil, err
	}
	return &session{client: arango.NewClient(arangoCfg, transport), log: log}, nil
}

// commandContext is cancelled on SIGINT and SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// withSession runs fn with a connected client and a signal-aware context.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession()
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer s.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()
	return fn(ctx, s)
}
