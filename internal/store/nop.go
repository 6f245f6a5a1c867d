package store

import (
	"context"
	"time"

	"github.com/amishk599/jobcal/internal/model"
)

// DryRunStore reads due postings from the wrapped store but never records
// a notification, so every due posting is announced on each sweep.
type DryRunStore struct {
	inner model.DeadlineStore
}

func NewDryRunStore(inner model.DeadlineStore) *DryRunStore { return &DryRunStore{inner: inner} }

func (s *DryRunStore) PostingsDueBetween(ctx context.Context, from, to time.Time) ([]model.Posting, error) {
	return s.inner.PostingsDueBetween(ctx, from, to)
}

func (s *DryRunStore) HasNotified(context.Context, int64, time.Time) (bool, error) { return false, nil }
func (s *DryRunStore) MarkNotified(context.Context, int64, time.Time) error        { return nil }
