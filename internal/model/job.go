package model

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	UnknownCompany  = "Unknown Company"
	UnknownPosition = "Unknown Position"

	// LocationMaxLength caps the stored location string (in runes).
	LocationMaxLength = 1000
)

// ParsedJob is the normalized result of extracting one job posting page.
// Build it with NewParsedJob; it is treated as a value and never mutated
// after it is returned.
type ParsedJob struct {
	CompanyName    string     // never blank, see UnknownCompany
	JobTitle       string     // never blank, see UnknownPosition
	Deadline       *time.Time // nil when the posting has no recoverable deadline
	Description    string     // markdown after sanitization (and reformat)
	DescriptionRaw string     // canonical text before sanitization and reformat
	Location       string
	ParsedData     Metadata // always carries "source", or only "error" on failure
}

// JobFields are the raw values an extractor recovered. Blank strings mean
// "not found".
type JobFields struct {
	CompanyName    string
	JobTitle       string
	Deadline       *time.Time
	Description    string
	DescriptionRaw string
	Location       string
}

// NewParsedJob builds the immutable result, substituting placeholders for a
// missing company or title and capping the location length.
func NewParsedJob(f JobFields, data Metadata) ParsedJob {
	company := strings.TrimSpace(f.CompanyName)
	if company == "" {
		company = UnknownCompany
	}
	title := strings.TrimSpace(f.JobTitle)
	if title == "" {
		title = UnknownPosition
	}
	location := strings.TrimSpace(f.Location)
	if utf8.RuneCountInString(location) > LocationMaxLength {
		location = string([]rune(location)[:LocationMaxLength])
	}
	raw := f.DescriptionRaw
	if raw == "" {
		raw = f.Description
	}
	return ParsedJob{
		CompanyName:    company,
		JobTitle:       title,
		Deadline:       f.Deadline,
		Description:    f.Description,
		DescriptionRaw: raw,
		Location:       location,
		ParsedData:     data.Clone(),
	}
}

// FailedParsedJob is the placeholder result for an extraction that failed
// internally. Its metadata holds the source tag and the error message.
func FailedParsedJob(source string, err error) ParsedJob {
	msg := "extraction failed"
	if err != nil {
		msg = err.Error()
	}
	data := NewMetadata(source)
	data.Set("error", msg)
	return NewParsedJob(JobFields{}, data)
}

// WithDescription returns a copy of j carrying a new final description.
func (j ParsedJob) WithDescription(description string) ParsedJob {
	j.Description = description
	j.ParsedData = j.ParsedData.Clone()
	return j
}

// Source returns the extractor identifier recorded in ParsedData.
func (j ParsedJob) Source() string {
	s, _ := j.ParsedData.Get("source").(string)
	return s
}

// ApplicationStatus tracks where the user is with a saved posting.
type ApplicationStatus string

const (
	StatusNotApplied   ApplicationStatus = "NOT_APPLIED"
	StatusApplied      ApplicationStatus = "APPLIED"
	StatusInterviewing ApplicationStatus = "INTERVIEWING"
	StatusRejected     ApplicationStatus = "REJECTED"
	StatusAccepted     ApplicationStatus = "ACCEPTED"
)

// ApplicationStatuses lists every status in workflow order.
var ApplicationStatuses = []ApplicationStatus{
	StatusNotApplied,
	StatusApplied,
	StatusInterviewing,
	StatusRejected,
	StatusAccepted,
}

// ParseApplicationStatus accepts a status name in any case.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	want := ApplicationStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range ApplicationStatuses {
		if st == want {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Closed reports whether the application has reached a final outcome.
func (s ApplicationStatus) Closed() bool {
	return s == StatusRejected || s == StatusAccepted
}

// Posting is a stored job posting keyed by its canonical URL.
type Posting struct {
	ID             int64
	CompanyName    string
	JobTitle       string
	Deadline       *time.Time
	OriginalURL    string
	Description    string
	DescriptionRaw string
	Location       string
	ParsedData     Metadata
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Application links the user to a stored posting.
type Application struct {
	ID        int64
	PostingID int64
	Status    ApplicationStatus
	CreatedAt time.Time
}

// Fetcher returns the body of a URL. Any failure (non-2xx, I/O, timeout,
// malformed URL) is an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DescriptionFormatter turns a plain description into markdown. It never
// fails: on any problem it returns its input unchanged.
type DescriptionFormatter interface {
	Format(ctx context.Context, text string) string
}

// DeadlineStore is the slice of persistence the deadline sweep needs.
type DeadlineStore interface {
	PostingsDueBetween(ctx context.Context, from, to time.Time) ([]Posting, error)
	HasNotified(ctx context.Context, postingID int64, deadline time.Time) (bool, error)
	MarkNotified(ctx context.Context, postingID int64, deadline time.Time) error
}

// Notifier announces postings whose deadline is approaching.
type Notifier interface {
	Notify(postings []Posting) error
}
