package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/flashkick/flashkick-agent/internal/bootstrap"
	"github.com/flashkick/flashkick-agent/internal/config"
	"github.com/flashkick/flashkick-agent/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags override configuration for one run.
type globalFlags struct {
	backendURL string
	logLevel   string
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "flashkick",
		Short:         "Submit football videos for highlight generation",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", config.Version, config.GitCommit, config.BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.backendURL, "backend-url", "", "highlight backend base URL (overrides "+config.EnvBackendURL+")")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "accept submissions locally without contacting the backend")

	root.AddCommand(newServeCmd(&flags))
	root.AddCommand(newTUICmd(&flags))
	root.AddCommand(newLinkCmd(&flags))
	root.AddCommand(newUploadCmd(&flags))
	root.AddCommand(newHistoryCmd(&flags))
	return root
}

func loadConfig(flags *globalFlags) (*config.EnvConfig, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.backendURL != "" {
		cfg.SetBackendURL(flags.backendURL)
	}
	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return cfg, nil
}

func newLogger(flags *globalFlags, cfg config.Config, w io.Writer) *slog.Logger {
	level := cfg.LogLevel()
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	return logging.NewLoggerTo(w, level)
}

func loadApp(flags *globalFlags, cfg config.Config, logger *slog.Logger, opts bootstrap.Options) (*bootstrap.App, error) {
	opts.DryRun = opts.DryRun || flags.dryRun
	return bootstrap.New(cfg, logger, opts)
}
