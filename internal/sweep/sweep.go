// Package sweep announces saved postings whose deadline is coming up.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobcal/internal/model"
)

// DefaultWindow is how far ahead deadlines are announced.
const DefaultWindow = 72 * time.Hour

// Sweeper owns one reminder cycle: query due postings, drop the ones
// already announced, notify, and record.
type Sweeper struct {
	store    model.DeadlineStore
	notifier model.Notifier
	window   time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewSweeper creates a sweeper wired with its dependencies. A non-positive
// window falls back to DefaultWindow.
func NewSweeper(store model.DeadlineStore, notifier model.Notifier, window time.Duration, logger *slog.Logger) *Sweeper {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Sweeper{
		store:    store,
		notifier: notifier,
		window:   window,
		now:      time.Now,
		logger:   logger,
	}
}

// Name identifies the sweep in scheduler logs.
func (s *Sweeper) Name() string { return "deadline sweep" }

// Run executes one sweep and discards the count.
func (s *Sweeper) Run(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}

// Sweep announces every posting due in [today, today+window] that has not
// been announced for its current deadline, and returns how many were sent.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	from := startOfDay(s.now())
	to := from.Add(s.window)

	due, err := s.store.PostingsDueBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("deadline sweep: %w", err)
	}

	var fresh []model.Posting
	for _, p := range due {
		if p.Deadline == nil {
			continue
		}
		done, err := s.store.HasNotified(ctx, p.ID, *p.Deadline)
		if err != nil {
			return 0, fmt.Errorf("deadline sweep: checking posting %d: %w", p.ID, err)
		}
		if !done {
			fresh = append(fresh, p)
		}
	}

	if len(fresh) > 0 {
		if err := s.notifier.Notify(fresh); err != nil {
			return 0, fmt.Errorf("deadline sweep: notifying: %w", err)
		}
	}

	for _, p := range fresh {
		if err := s.store.MarkNotified(ctx, p.ID, *p.Deadline); err != nil {
			return 0, fmt.Errorf("deadline sweep: marking posting %d: %w", p.ID, err)
		}
	}

	s.logger.Info("swept deadlines",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
		"due", len(due),
		"new", len(fresh),
	)
	return len(fresh), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
