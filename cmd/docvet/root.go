package main

import (
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docvet/docvet/internal/config"
)

var verbosity string

var rootCmd = &cobra.Command{
	Use:   "docvet",
	Short: "LLM-backed structured document validation",
	Long: `Docvet validates a structured document against a list of
natural-language requirement specs by delegating judgment to an LLM backend.

It establishes one conversation per document, sends the document structure
exactly once, asks one validation question per spec against the shared
context, and aggregates the verdicts into a pass/fail/error report with
token accounting.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&verbosity, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads file and environment configuration, with the log-level
// flag taking precedence over the configured level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if verbosity != "" {
		cfg.Logging.Level = verbosity
	}
	return cfg, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
