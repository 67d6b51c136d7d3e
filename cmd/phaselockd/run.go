package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/phaselock/phaselock/internal/alerts"
	"github.com/phaselock/phaselock/internal/config"
	"github.com/phaselock/phaselock/internal/engine"
	"github.com/phaselock/phaselock/internal/poller"
	"github.com/phaselock/phaselock/internal/telemetry"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the synchronization daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	}
}

func runDaemon(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.Info("phaselockd starting",
		"config", configPath,
		"nodes", len(cfg.Engine.Nodes),
		"poll_interval", cfg.Poll.Interval,
	)

	eng, err := engine.New(cfg.Engine.Topology(), cfg.Engine.Options())
	if err != nil {
		return err
	}

	metrics := telemetry.New()
	alerter := alerts.New(cfg.Alerts)

	var targets []poller.Target
	for _, n := range cfg.Engine.Nodes {
		if n.Endpoint == "" {
			continue
		}
		targets = append(targets, poller.Target{Node: n.Name, Endpoint: n.Endpoint})
	}
	if len(targets) == 0 {
		slog.Warn("no node endpoints configured — health relies on the staleness sweep only")
	}
	p := poller.New(targets, cfg.Poll.Timeout)

	// Config hot reload swaps alert rules and webhooks. Topology changes
	// require a restart: nodes are fixed for the engine's lifetime.
	go func() {
		if err := config.Watch(ctx, configPath, func(updated *config.Config) {
			alerter.SetRules(updated.Alerts)
			slog.Info("alert rules hot-reloaded", "rules", len(updated.Alerts.Rules))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	if cfg.Metrics.Enabled {
		serveMetrics(ctx, cfg.Metrics.Listen, metrics)
	}

	pollTicker := time.NewTicker(cfg.Poll.Interval)
	defer pollTicker.Stop()
	correctTicker := time.NewTicker(cfg.Poll.CorrectInterval)
	defer correctTicker.Stop()

	publish := func() {
		rep := eng.Report()
		metrics.ObserveReport(rep)
		alerter.Evaluate(rep)
	}
	publish()

	for {
		select {
		case <-ctx.Done():
			slog.Info("phaselockd shutting down")
			return nil

		case now := <-pollTicker.C:
			for _, s := range p.Poll(ctx) {
				if s.Err != nil {
					// Skip the partial sample; the staleness sweep takes the
					// node offline if it keeps failing.
					metrics.RecordUpdateFailure()
					continue
				}
				if err := eng.UpdateNode(s.Node, s.Phase, s.Amplitude, s.Health); err != nil {
					slog.Warn("update rejected", "node", s.Node, "err", err)
					metrics.RecordUpdateFailure()
					continue
				}
				metrics.RecordUpdate()
			}
			if n := eng.MarkStale(now); n > 0 {
				metrics.RecordStale(n)
			}
			publish()

		case <-correctTicker.C:
			w := eng.SelfCorrect()
			if w.Detected && len(w.Affected) > 0 {
				metrics.RecordCorrection()
			}
			publish()
		}
	}
}

// serveMetrics starts the Prometheus exposition listener and shuts it
// down when ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, metrics *telemetry.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
