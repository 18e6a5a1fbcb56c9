// Package cmd provides the CLI commands for AstroPhoenix.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TinyDragon612/astrophoenix-host/internal/config"
	"github.com/TinyDragon612/astrophoenix-host/internal/logging"
	"github.com/TinyDragon612/astrophoenix-host/pkg/version"
)

const defaultConfigPath = "astrophoenix.yaml"

// rootOptions holds flags shared across commands.
type rootOptions struct {
	configPath string
	baseURL    string
	workers    int
	logLevel   string
}

// NewRootCmd creates the root command for the astrophoenix CLI.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "astrophoenix",
		Short: "Keyword and fuzzy search over a remote corpus of papers",
		Long: `AstroPhoenix indexes a corpus of plain-text papers served from a
static file host and answers ranked keyword/fuzzy queries against it.

The index is built in memory per session: the corpus manifest is fetched,
documents are downloaded concurrently, and every completed download becomes
searchable immediately.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("astrophoenix version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path (default astrophoenix.yaml)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Corpus base URL (overrides config and env)")
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "Concurrent fetch workers (clamped to 2-8)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newIndexCmd(&opts))
	cmd.AddCommand(newSearchCmd(&opts))
	cmd.AddCommand(newConfigCmd(&opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig resolves configuration from file, env, and flags, then installs
// the process logger.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path,
		config.WithBaseURL(opts.baseURL),
		config.WithWorkers(opts.workers))
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	logging.SetupDefault(cfg.Logging.Level)
	return cfg, nil
}
