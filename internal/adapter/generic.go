package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/amishk599/jobcal/internal/model"
)

var genericDeadlineKeywords = append(append([]string{}, deadlineKeywords...), "채용기간")

// Generic is the last-resort extractor for any host: meta tags, headings and
// keyword scans.
type Generic struct{}

// NewGeneric creates a Generic extractor.
func NewGeneric() *Generic {
	return &Generic{}
}

func (g *Generic) Source() string { return SourceGeneric }

func (g *Generic) leaf() {}

// Extract reads the page with meta/heading heuristics.
func (g *Generic) Extract(_ context.Context, doc *Document) model.ParsedJob {
	return guard(SourceGeneric, func() model.ParsedJob {
		ld := doc.jobPostingLD()

		data := model.NewMetadata(SourceGeneric)
		data.SetString("employmentType", ld.Text("employmentType"))

		return finish(model.JobFields{
			CompanyName:    g.companyName(doc, ld),
			JobTitle:       g.jobTitle(doc, ld),
			Deadline:       g.deadline(doc, ld),
			DescriptionRaw: g.description(doc, ld),
			Location:       g.location(doc, ld),
		}, data)
	})
}

func (g *Generic) companyName(doc *Document, ld Payload) string {
	if name := ld.Text("hiringOrganization", "name"); name != "" {
		return name
	}
	if site := doc.meta(`meta[property="og:site_name"]`); site != "" {
		return site
	}
	return doc.firstText(func(s string) bool {
		n := len([]rune(s))
		return n >= 2 && n <= 50
	}, "h1", "h2", "h3", "[class*=company]", "[id*=company]")
}

func (g *Generic) jobTitle(doc *Document, ld Payload) string {
	if title := ld.Text("title"); title != "" {
		return title
	}
	if title := doc.meta(`meta[property="og:title"]`); title != "" {
		return firstSegment(title)
	}
	if title := selectionText(doc.Find("title").First()); title != "" {
		return firstSegment(title)
	}
	return selectionText(doc.Find("h1").First())
}

func (g *Generic) deadline(doc *Document, ld Payload) *time.Time {
	if t := parseISO(ld.Text("validThrough")); t != nil {
		return t
	}
	return doc.scanDate(genericDeadlineKeywords)
}

func (g *Generic) description(doc *Document, ld Payload) string {
	if desc := htmlFragmentText(ld.RawText("description")); len([]rune(desc)) > 50 {
		return desc
	}
	if desc := doc.firstBlock(50, "[class*=description]", "[class*=content]", "[class*=detail]", "main", "article"); desc != "" {
		return desc
	}
	if desc := doc.meta(`meta[property="og:description"]`); desc != "" {
		return desc
	}
	return doc.meta(`meta[name="description"]`)
}

func (g *Generic) location(doc *Document, ld Payload) string {
	if loc := ldLocation(ld); loc != "" {
		return loc
	}
	return doc.scanLabel(locationKeywords, 100)
}

// firstSegment keeps the part of a page title before " - ", which is where
// boards put the posting name.
func firstSegment(title string) string {
	if before, _, ok := strings.Cut(title, " - "); ok && strings.TrimSpace(before) != "" {
		return strings.TrimSpace(before)
	}
	return title
}
