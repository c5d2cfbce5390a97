package main

import (
	"io"
	"log/slog"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/config"
	"github.com/ludo-technologies/pmdview/service"
	"github.com/spf13/cobra"
)

// loadConfig resolves configuration for cmd (file discovered from target,
// PMDVIEW_* variables, flags) and installs the default logger
func loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := service.NewConfigurationLoader().LoadConfig(configPath, target, cmd.Flags())
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogging(cmd.ErrOrStderr(), cfg, verbose)
	return cfg, nil
}

// setupLogging sends diagnostics to w at the configured level
func setupLogging(w io.Writer, cfg *config.Config, verbose bool) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// newFormatter creates the table writer configured by cfg
func newFormatter(cfg *config.Config) *service.OutputFormatterImpl {
	formatter := service.NewOutputFormatter()
	formatter.SetCollapseWhitespace(cfg.Output.CollapseWhitespace)
	return formatter
}

// newLastFileStore creates the "open last file" store configured by cfg
func newLastFileStore(cfg *config.Config) domain.LastFileStore {
	if !cfg.Session.RememberLastFile {
		return service.NoOpLastFileStore{}
	}
	return service.NewLastFileStore(cfg.Session.StateFilePath())
}
