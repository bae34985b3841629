package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	HEALTHCHECK_TIMER   = 15 * time.Second
	HEALTHCHECK_TIMEOUT = 5 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Check struct {
	Name   string
	Pinger Pinger
}

// RunPreflight pings every dependency once before a run and returns all
// failures together.
func RunPreflight(ctx context.Context, checks ...Check) error {
	var errs []error
	for _, check := range checks {
		if err := ping(ctx, check); err != nil {
			slog.Error("[HealthCheck] Preflight check failed",
				slog.String("check", check.Name),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", check.Name, err))
			continue
		}
		slog.Info("[HealthCheck] Preflight check passed", slog.String("check", check.Name))
	}
	return errors.Join(errs...)
}

// MonitorHealth pings check on every tick and stores the outcome in healthy
// until ctx is done.
func MonitorHealth(ctx context.Context, check Check, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := ping(ctx, check)
			healthy.Store(err == nil)
			if err != nil {
				slog.Warn("[HealthCheck] Dependency is unhealthy",
					slog.String("check", check.Name),
					slog.String("error", err.Error()))
			}
		}
	}
}

func ping(ctx context.Context, check Check) error {
	ctx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()
	return check.Pinger.Ping(ctx)
}
