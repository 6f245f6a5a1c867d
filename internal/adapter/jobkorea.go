package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/textutil"
)

// JobKorea extracts classic job-board pages (jobkorea.co.kr) with CSS and
// keyword heuristics.
type JobKorea struct{}

// NewJobKorea creates a JobKorea extractor.
func NewJobKorea() *JobKorea {
	return &JobKorea{}
}

func (j *JobKorea) Source() string { return SourceJobKorea }

func (j *JobKorea) leaf() {}

// Extract reads a JobKorea posting page.
func (j *JobKorea) Extract(_ context.Context, doc *Document) model.ParsedJob {
	return guard(SourceJobKorea, func() model.ParsedJob {
		ld := doc.jobPostingLD()

		data := model.NewMetadata(SourceJobKorea)
		data.SetString("employmentType", ld.Text("employmentType"))

		return finish(model.JobFields{
			CompanyName:    j.companyName(doc, ld),
			JobTitle:       j.jobTitle(doc, ld),
			Deadline:       j.deadline(doc, ld),
			DescriptionRaw: j.description(doc, ld),
			Location:       j.location(doc, ld),
		}, data)
	})
}

func (j *JobKorea) companyName(doc *Document, ld Payload) string {
	if name := ld.Text("hiringOrganization", "name"); name != "" {
		return name
	}
	return doc.firstText(shorterThan(100), ".company-name", "[class*=company]", "h2")
}

func (j *JobKorea) jobTitle(doc *Document, ld Payload) string {
	if title := ld.Text("title"); title != "" {
		return title
	}
	return doc.firstText(nil, "h1[class*=title]", ".job-title", "h1")
}

func (j *JobKorea) deadline(doc *Document, ld Payload) *time.Time {
	var explicit *time.Time
	doc.Find("[class*=deadline], .date").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		explicit = labeledDeadline(s)
		return explicit == nil
	})
	if explicit != nil {
		return explicit
	}
	if t := parseISO(ld.Text("validThrough")); t != nil {
		return t
	}
	return doc.scanDate(deadlineKeywords)
}

// labeledDeadline reads the date attached to a deadline keyword inside s:
// the dd after a matching dt, else the text following the keyword. Date
// blocks also list a start date, so an unlabeled date only counts when the
// element's class itself names the deadline.
func labeledDeadline(s *goquery.Selection) *time.Time {
	var found *time.Time
	s.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !textutil.ContainsAnyFold(selectionText(dt), deadlineKeywords) {
			return true
		}
		if t, ok := textutil.ExtractDate(selectionText(dt.NextFiltered("dd"))); ok {
			found = &t
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	text := selectionText(s)
	if rest, ok := afterKeyword(text, deadlineKeywords); ok {
		if t, ok := textutil.ExtractDate(rest); ok {
			return &t
		}
		return nil
	}
	if class, _ := s.Attr("class"); strings.Contains(strings.ToLower(class), "deadline") {
		if t, ok := textutil.ExtractDate(text); ok {
			return &t
		}
	}
	return nil
}

// afterKeyword returns the text following the earliest keyword match.
func afterKeyword(text string, keywords []string) (string, bool) {
	lower := strings.ToLower(text)
	at, end := -1, 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if i := strings.Index(lower, kw); i >= 0 && (at < 0 || i < at) {
			at, end = i, i+len(kw)
		}
	}
	if at < 0 {
		return "", false
	}
	return text[end:], true
}

func (j *JobKorea) description(doc *Document, ld Payload) string {
	if desc := doc.firstBlock(50, "[class*=description]", "[class*=content]", ".job-content"); desc != "" {
		return desc
	}
	if desc := htmlFragmentText(ld.RawText("description")); len([]rune(desc)) > 50 {
		return desc
	}
	if desc := doc.meta(`meta[property="og:description"]`); desc != "" {
		return desc
	}
	return doc.meta(`meta[name="description"]`)
}

func (j *JobKorea) location(doc *Document, ld Payload) string {
	if loc := ldLocation(ld); loc != "" {
		return loc
	}
	return doc.scanLabel([]string{"위치", "location", "근무지", "근무지역"}, scanMaxRunes)
}
