// Package pipeline controls the external lead-qualification job. The runner
// owns the single piece of process-wide mutable state in the system: whether
// a pipeline run is in flight. It exposes that state through Running()
// instead of an ambient global, and serving code keeps answering from the
// current lead snapshot while a run is in progress.
package pipeline

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned by Start while a run is in flight. There is
// deliberately no queueing or retry: the caller reports busy and the user
// tries again later.
var ErrAlreadyRunning = errors.New("pipeline is already running")

// ErrNoCommand is returned when no pipeline command is configured.
var ErrNoCommand = errors.New("pipeline command is not configured")

type Runner struct {
	command  []string
	workdir  string
	logger   *zap.Logger
	onFinish func()

	mu      sync.Mutex
	running bool
}

// New creates a runner for the given command line. onFinish is invoked after
// every successful run, typically to reload the lead store.
func New(command []string, workdir string, logger *zap.Logger, onFinish func()) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		command:  command,
		workdir:  workdir,
		logger:   logger,
		onFinish: onFinish,
	}
}

// Start launches the pipeline command in the background. It returns
// ErrAlreadyRunning while a previous run is still in flight.
func (r *Runner) Start(ctx context.Context) error {
	if len(r.command) == 0 {
		return ErrNoCommand
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.running = true
	r.mu.Unlock()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Dir = r.workdir

	started := time.Now()
	if err := cmd.Start(); err != nil {
		r.setRunning(false)
		return err
	}

	r.logger.Info("pipeline started",
		zap.Strings("command", r.command),
		zap.Int("pid", cmd.Process.Pid),
	)

	go func() {
		err := cmd.Wait()
		r.setRunning(false)

		if err != nil {
			r.logger.Warn("pipeline finished with error",
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err),
			)
			return
		}

		r.logger.Info("pipeline finished",
			zap.Duration("elapsed", time.Since(started)),
		)

		if r.onFinish != nil {
			r.onFinish()
		}
	}()

	return nil
}

// Running reports whether a pipeline run is in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) setRunning(v bool) {
	r.mu.Lock()
	r.running = v
	r.mu.Unlock()
}
