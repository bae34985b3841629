package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacesedan/firebird/config"
	"github.com/spacesedan/firebird/internal/monitoring"
	"github.com/spacesedan/firebird/internal/processing"
)

var flagAt string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate every active campaign",
	Long:  "Evaluate every active campaign once, or on every RUN_INTERVAL until interrupted.",
	RunE:  runEvaluator,
}

func init() {
	runCmd.Flags().StringVar(&flagAt, "at", "", "evaluate as of this RFC3339 time instead of now (always a single run)")
}

type evaluator interface {
	EvaluateAll(ctx context.Context, currentTime time.Time) (processing.RunSummary, error)
}

func runEvaluator(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	clock, err := parseAt(flagAt)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer cleanup.Close()

	store, err := openStore(ctx, cfg, &cleanup)
	if err != nil {
		return err
	}
	postFeed, err := openFeed(ctx, cfg)
	if err != nil {
		return err
	}
	classifier, err := openClassifier(cfg, &cleanup)
	if err != nil {
		return err
	}
	reporter, checks, err := openReporters(ctx, cfg, cmd.OutOrStdout(), store, &cleanup)
	if err != nil {
		return err
	}

	storeCheck := monitoring.Check{Name: "campaign store", Pinger: store}
	if err := monitoring.RunPreflight(ctx, append([]monitoring.Check{storeCheck}, checks...)...); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}

	campaigns := processing.NewCampaignEvaluator(store, postFeed, classifier, reporter, cfg.EvaluatorOptions())
	if cfg.RunInterval <= 0 || flagAt != "" {
		_, err := campaigns.EvaluateAll(ctx, clock())
		return err
	}

	healthy := &atomic.Bool{}
	healthy.Store(true)
	go monitoring.MonitorHealth(ctx, storeCheck, healthy, monitoring.HEALTHCHECK_TIMER)

	runPeriodically(ctx, campaigns, cfg.RunInterval, clock, healthy)
	return nil
}

// parseAt returns a clock pinned to at, or the wall clock when at is empty.
func parseAt(at string) (func() time.Time, error) {
	if at == "" {
		return func() time.Time { return time.Now().UTC() }, nil
	}
	pinned, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("--at must be an RFC3339 time: %w", err)
	}
	pinned = pinned.UTC()
	return func() time.Time { return pinned }, nil
}

// runPeriodically evaluates right away and then on every tick until ctx is
// done. Ticks are skipped while the store is unhealthy, and a failed run
// never stops the loop.
func runPeriodically(ctx context.Context, e evaluator, interval time.Duration, clock func() time.Time, healthy *atomic.Bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	evaluate := func() {
		if !healthy.Load() {
			slog.Warn("[Main] Campaign store is unhealthy, skipping run")
			return
		}
		if _, err := e.EvaluateAll(ctx, clock()); err != nil {
			slog.Error("[Main] Run failed", slog.String("error", err.Error()))
		}
	}

	evaluate()
	for {
		select {
		case <-ticker.C:
			evaluate()
		case <-ctx.Done():
			slog.Info("Shutting down evaluator gracefully...")
			return
		}
	}
}
