package notifier

import (
	"log/slog"

	"github.com/amishk599/jobcal/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes deadline reminders to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting with company, title, deadline, location and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(postings []model.Posting) error {
	for _, p := range postings {
		args := []any{"id", p.ID, "company", p.CompanyName, "title", p.JobTitle, "url", p.OriginalURL}
		if p.Deadline != nil {
			args = append(args, "deadline", p.Deadline.Format("2006-01-02"))
		}
		if p.Location != "" {
			args = append(args, "location", p.Location)
		}
		n.logger.Info("deadline approaching", args...)
	}
	return nil
}
