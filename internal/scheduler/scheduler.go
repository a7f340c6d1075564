// Package scheduler triggers periodic synchronization passes in the
// background.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"wallmirror/internal/middleware"
	syncengine "wallmirror/internal/sync"
)

// Runner is the synchronization entry point the scheduler drives.
type Runner interface {
	Run(ctx context.Context, opts syncengine.Options) (*syncengine.Result, error)
}

// Scheduler runs a sync pass at a fixed interval. Errors are logged and
// swallowed; the process keeps running.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// New creates a scheduler around the given runner.
func New(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   middleware.Logger,
	}
}

// Start blocks until ctx is cancelled, firing a pass every interval.
// Call it from its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := s.runner.Run(ctx, syncengine.Options{}); err != nil {
				s.logger.ErrorContext(ctx, "scheduled sync failed", slog.String("error", err.Error()))
			}
		}
	}
}
