package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	logJSON    bool
	verbose    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "phaselockd",
		Short: "Phase synchronization and consensus-scoring daemon",
		Long: `phaselockd tracks the phase state of a fixed topology of worker nodes,
computes a system coherence score from their alignment with a floating
anchor phase, detects drift, redistributes load away from degraded
nodes, and nudges drifting nodes back toward the anchor.

The daemon polls node metrics endpoints, drives periodic self-correction
passes, evaluates alert rules, and exposes engine state as Prometheus
metrics. Consensus scoring of pipeline stage outputs is available via
the score subcommand.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON instead of console output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newScoreCommand())
	return root
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if logJSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		})
	}
	slog.SetDefault(slog.New(handler))
}
