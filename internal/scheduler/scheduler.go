// Package scheduler runs periodic maintenance: the deadline sweep and the
// notification-ledger cleanup.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Task is one unit of periodic work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewTaskFunc names fn as a Task.
func NewTaskFunc(name string, fn func(ctx context.Context) error) TaskFunc {
	return TaskFunc{name: name, fn: fn}
}

func (t TaskFunc) Name() string                  { return t.name }
func (t TaskFunc) Run(ctx context.Context) error { return t.fn(ctx) }

// Scheduler owns the main loop: ticks on an interval and runs each task sequentially.
type Scheduler struct {
	tasks    []Task
	interval time.Duration
	pause    time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs all tasks at the given interval,
// waiting pause between consecutive tasks.
func NewScheduler(tasks []Task, interval, pause time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		tasks:    tasks,
		interval: interval,
		pause:    pause,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"tasks", len(s.tasks),
	)

	// Run one immediate cycle.
	s.runAll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runAll(ctx)
		}
	}
}

// runAll runs each task in order. A failing task is logged and the next
// one still runs.
func (s *Scheduler) runAll(ctx context.Context) {
	for i, t := range s.tasks {
		if ctx.Err() != nil {
			return
		}

		if err := t.Run(ctx); err != nil {
			s.logger.Error("task failed",
				"task", t.Name(),
				"error", err,
			)
		}

		if i < len(s.tasks)-1 && s.pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.pause):
			}
		}
	}
}
