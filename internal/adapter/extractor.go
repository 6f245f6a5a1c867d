// Package adapter holds the per-source field extractors. Each one turns a
// parsed page into a model.ParsedJob using its own fallback chain of
// structured payloads, CSS selectors and keyword scans.
package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/sanitize"
	"github.com/amishk599/jobcal/internal/textutil"
)

// Extractor identifiers, recorded as "source" in ParsedData.
const (
	SourceGeneric    = "generic"
	SourceJobKorea   = "jobkorea"
	SourceWanted     = "wanted"
	SourceInthiswork = "inthiswork"
	SourceZighang    = "zighang"
)

// DescriptionMaxLength caps stored descriptions, in runes.
const DescriptionMaxLength = 10000

// Extractor turns one source's page into a ParsedJob. Extract never panics
// and never returns an error: internal failures come back as a placeholder
// result with "error" set in ParsedData.
type Extractor interface {
	Source() string
	Extract(ctx context.Context, doc *Document) model.ParsedJob
}

// Leaf is an extractor that works on its own page only. Aggregators accept
// Leaf delegates, so a delegate can never delegate again.
type Leaf interface {
	Extractor
	leaf()
}

// guard runs fn and converts a panic into a failed result for source.
func guard(source string, fn func() model.ParsedJob) (job model.ParsedJob) {
	defer func() {
		if r := recover(); r != nil {
			job = model.FailedParsedJob(source, fmt.Errorf("%v", r))
		}
	}()
	return fn()
}

// finish normalizes the raw description, derives the sanitized description
// when the extractor did not set one, and builds the result.
func finish(f model.JobFields, data model.Metadata) model.ParsedJob {
	f.DescriptionRaw = textutil.TrimToMax(textutil.NormalizeRawText(f.DescriptionRaw), DescriptionMaxLength)
	if f.Description == "" {
		f.Description = sanitize.Clean(f.DescriptionRaw)
	}
	f.Description = textutil.TrimToMax(f.Description, DescriptionMaxLength)
	return model.NewParsedJob(f, data)
}

// parseISO reads a structured date field such as validThrough or due_time.
func parseISO(value string) *time.Time {
	t, ok := textutil.ParseISODate(value)
	if !ok {
		return nil
	}
	return &t
}

func joinNonBlank(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func shorterThan(n int) func(string) bool {
	return func(s string) bool { return len([]rune(s)) < n }
}
