// Package cmd implements the skillreg command-line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/skillreg/skillreg/internal/app"
	"github.com/skillreg/skillreg/internal/config"
	"github.com/skillreg/skillreg/internal/log"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var (
	flagLogLevel string
	flagJSONLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "skillreg",
	Short: "Semantic knowledge registry for skills and documents",
	Long: `skillreg indexes skills and source documents with vector embeddings
and answers semantic queries over them.

Skills and documents are stored in PostgreSQL with pgvector. Documents are
deduplicated by path and re-embedded only when their content changes.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false,
		"emit logs as JSON")
}

// newLogger builds the CLI logger from the persistent flags.
func newLogger() log.Logger {
	var level slog.Level
	switch flagLogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return log.New(log.Config{Level: level, JSON: flagJSONLogs})
}

// setupApp loads configuration and initializes the application container.
// The caller must Close the returned App.
func setupApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return app.Setup(ctx, cfg, newLogger())
}
