package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/firebird/internal/processing"
)

func TestParseAt(t *testing.T) {
	clock, err := parseAt("2025-03-01T12:00:00+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := clock(); !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := parseAt("yesterday"); err == nil {
		t.Fatalf("expected error for non RFC3339 time")
	}

	now, err := parseAt("")
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if time.Since(now()) > time.Minute {
		t.Fatalf("expected the wall clock")
	}
}

type countingEvaluator struct {
	mu    sync.Mutex
	calls int
	err   error
	ran   chan struct{}
}

func (c *countingEvaluator) EvaluateAll(ctx context.Context, currentTime time.Time) (processing.RunSummary, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	select {
	case c.ran <- struct{}{}:
	default:
	}
	return processing.RunSummary{}, c.err
}

func (c *countingEvaluator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRunPeriodicallyKeepsGoingAfterFailures(t *testing.T) {
	evaluator := &countingEvaluator{err: errors.New("listing failed"), ran: make(chan struct{}, 1)}
	healthy := &atomic.Bool{}
	healthy.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runPeriodically(ctx, evaluator, 5*time.Millisecond, time.Now, healthy)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for evaluator.count() < 3 {
		select {
		case <-evaluator.ran:
		case <-deadline:
			t.Fatalf("expected repeated runs, got %d", evaluator.count())
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop on cancellation")
	}
}

func TestRunPeriodicallySkipsWhileUnhealthy(t *testing.T) {
	evaluator := &countingEvaluator{ran: make(chan struct{}, 1)}
	healthy := &atomic.Bool{}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	runPeriodically(ctx, evaluator, 5*time.Millisecond, time.Now, healthy)

	if evaluator.count() != 0 {
		t.Fatalf("expected no runs while unhealthy, got %d", evaluator.count())
	}
}

func TestClosersRunInReverseOrder(t *testing.T) {
	var order []int
	var cleanup closers
	cleanup.add(func() { order = append(order, 1) })
	cleanup.add(func() { order = append(order, 2) })
	cleanup.Close()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("expected reverse order, got %v", order)
	}
}
