package main

import (
	"io"
	"log/slog"

	"github.com/cwbudde/evolopt/internal/config"
	"github.com/cwbudde/evolopt/internal/trace"
	"github.com/spf13/cobra"
)

var (
	logLevel      string
	logger        *slog.Logger
	configPath    string
	objectiveName string
	seed          int64
	traceFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "evolopt",
	Short: "Binary genetic algorithm and differential evolution optimizers",
	Long: `evolopt runs a binary-encoded genetic algorithm or differential evolution
against a benchmark objective (ackley, sumsq) and reports the fitness trace.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), logLevel)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML run configuration (merged over defaults)")
	rootCmd.PersistentFlags().StringVar(&objectiveName, "objective", "sumsq", "Objective function (ackley, sumsq)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "Random seed")
	rootCmd.PersistentFlags().StringVar(&traceFormat, "trace", "none", "Trace output on stdout (none, jsonl, csv)")
}

func newLogger(w io.Writer, levelName string) *slog.Logger {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

// loadConfig reads --config and applies the persistent flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("objective") {
		cfg.Objective = objectiveName
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

// outputs returns the trace format and where the human summary goes. The
// summary moves to stderr when stdout carries a trace.
func outputs(cmd *cobra.Command) (trace.Format, io.Writer, error) {
	format, err := trace.ParseFormat(traceFormat)
	if err != nil {
		return trace.FormatNone, nil, err
	}
	if format == trace.FormatNone {
		return format, cmd.OutOrStdout(), nil
	}
	return format, cmd.ErrOrStderr(), nil
}

func commandLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
