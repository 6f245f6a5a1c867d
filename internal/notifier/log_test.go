package notifier

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobcal/internal/model"
)

func TestLogNotifier_Notify_zeroPostings(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.Posting{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogNotifier_Notify_multiplePostings(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	deadline := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	postings := []model.Posting{
		{ID: 1, CompanyName: "잡캘", JobTitle: "백엔드", Deadline: &deadline, OriginalURL: "https://example.com/1", Location: "서울"},
		{ID: 2, CompanyName: "Beta", JobTitle: "Developer", OriginalURL: "https://example.com/2"},
	}
	if err := n.Notify(postings); err != nil {
		t.Errorf("Notify(postings) = %v, want nil", err)
	}

	out := buf.String()
	if strings.Count(out, "deadline approaching") != 2 {
		t.Errorf("expected two records, got %q", out)
	}
	if !strings.Contains(out, "deadline=2024-03-15") {
		t.Errorf("expected formatted deadline, got %q", out)
	}
}
