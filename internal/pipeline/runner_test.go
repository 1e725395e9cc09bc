package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitUntilIdle(t *testing.T, r *Runner) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !r.Running() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("runner still busy after deadline")
}

func TestStartRequiresCommand(t *testing.T) {
	t.Parallel()

	r := New(nil, "", zap.NewNop(), nil)
	if err := r.Start(context.Background()); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}

func TestStartRejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	r := New([]string{"sh", "-c", "sleep 1"}, "", zap.NewNop(), nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if !r.Running() {
		t.Fatalf("expected runner to report running")
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	waitUntilIdle(t, r)
}

func TestFinishedRunClearsStateAndNotifies(t *testing.T) {
	t.Parallel()

	var finished atomic.Int32
	r := New([]string{"sh", "-c", "exit 0"}, "", zap.NewNop(), func() {
		finished.Add(1)
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	waitUntilIdle(t, r)

	deadline := time.Now().Add(5 * time.Second)
	for finished.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if finished.Load() != 1 {
		t.Fatalf("expected onFinish to run once, got %d", finished.Load())
	}

	// A new run is accepted after completion.
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	waitUntilIdle(t, r)
}

func TestFailedRunSkipsNotify(t *testing.T) {
	t.Parallel()

	var finished atomic.Int32
	r := New([]string{"sh", "-c", "exit 3"}, "", zap.NewNop(), func() {
		finished.Add(1)
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	waitUntilIdle(t, r)

	if finished.Load() != 0 {
		t.Fatalf("onFinish must not run for failed pipeline")
	}
}
