package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/sanitize"
	"github.com/amishk599/jobcal/internal/textutil"
)

// sectionCollectLimit bounds how many siblings after a heading are read
// into one section.
const sectionCollectLimit = 6

const sectionHeadingTags = "h1, h2, h3, h4, h5, strong, dt, th"

var (
	responsibilityKeywords = []string{"주요업무", "업무내용", "담당업무", "Responsibilities", "Role"}
	requirementKeywords    = []string{"자격요건", "필수요건", "Requirements", "Qualifications"}
	preferenceKeywords     = []string{"우대사항", "Preferences", "Preferred"}
)

// wantedSections maps Next.js initialData fields to section labels.
var wantedSections = []struct {
	field string
	label string
}{
	{field: "intro", label: "회사소개"},
	{field: "main_tasks", label: "주요업무"},
	{field: "requirements", label: "자격요건"},
	{field: "preferred_points", label: "우대사항"},
	{field: "benefits", label: "혜택 및 복지"},
	{field: "hire_rounds", label: "채용 전형"},
}

// Wanted extracts wanted.co.kr pages. The Next.js __NEXT_DATA__ payload is
// authoritative, then LD+JSON, then the rendered DOM.
type Wanted struct{}

// NewWanted creates a Wanted extractor.
func NewWanted() *Wanted {
	return &Wanted{}
}

func (w *Wanted) Source() string { return SourceWanted }

func (w *Wanted) leaf() {}

// Extract reads a Wanted posting page.
func (w *Wanted) Extract(_ context.Context, doc *Document) model.ParsedJob {
	return guard(SourceWanted, func() model.ParsedJob {
		initial := doc.nextData()
		ld := doc.jobPostingLD()

		responsibilities := firstNonBlankFn(
			func() string { return initial.Text("main_tasks") },
			func() string { return doc.section(responsibilityKeywords) },
		)
		requirements := firstNonBlankFn(
			func() string { return initial.Text("requirements") },
			func() string { return doc.section(requirementKeywords) },
		)
		preferences := firstNonBlankFn(
			func() string { return initial.Text("preferred_points") },
			func() string { return doc.section(preferenceKeywords) },
		)

		data := model.NewMetadata(SourceWanted)
		data.SetString("responsibilities", responsibilities)
		data.SetString("requirements", requirements)
		data.SetString("preferences", preferences)
		data.SetString("employmentType", textutil.FirstNonBlank(initial.Text("employment_type"), ld.Text("employmentType")))
		data.SetString("hireRounds", initial.Text("hire_rounds"))
		data.SetString("confirmTime", initial.Text("confirm_time"))

		return finish(model.JobFields{
			CompanyName:    w.companyName(doc, initial, ld),
			JobTitle:       w.jobTitle(doc, initial, ld),
			Deadline:       w.deadline(doc, initial, ld),
			DescriptionRaw: w.description(doc, initial, ld, responsibilities, requirements, preferences),
			Location:       w.location(doc, initial),
		}, data)
	})
}

func (w *Wanted) companyName(doc *Document, initial, ld Payload) string {
	if name := initial.Text("company", "company_name"); name != "" {
		return name
	}
	if name := ld.Text("hiringOrganization", "name"); name != "" {
		return name
	}
	link := doc.Find(`a[class*="JobHeader_JobHeader__Tools__Company__Link"]`).First()
	if link.Length() > 0 {
		if text := selectionText(link); text != "" {
			return text
		}
		if name, ok := link.Attr("data-company-name"); ok && textutil.CleanText(name) != "" {
			return textutil.CleanText(name)
		}
	}
	return doc.firstText(shorterThan(100), "h2[class*=company]", ".company-name", "[data-testid=company-name]", "h2")
}

func (w *Wanted) jobTitle(doc *Document, initial, ld Payload) string {
	if position := initial.Text("position"); position != "" {
		return position
	}
	if title := ld.Text("title"); title != "" {
		return title
	}
	return doc.firstText(nil, "h1[class*=title]", "h1[class*=position]", "[data-testid=job-title]", "h1")
}

func (w *Wanted) deadline(doc *Document, initial, ld Payload) *time.Time {
	if t := parseISO(initial.Text("due_time")); t != nil {
		return t
	}
	if t := parseISO(ld.Text("validThrough")); t != nil {
		return t
	}
	return doc.scanDate(deadlineKeywords)
}

func (w *Wanted) description(doc *Document, initial, ld Payload, responsibilities, requirements, preferences string) string {
	sections := sanitize.SectionMap{}
	for _, s := range wantedSections {
		sections.Set(s.label, initial.RawText(s.field))
	}
	if sections.Len() > 0 {
		return sections.Markdown()
	}

	if desc := htmlFragmentText(ld.RawText("description")); len([]rune(desc)) > 50 {
		return desc
	}

	if desc := doc.firstBlock(50, "[class*=description]", "[class*=content]", ".job-description"); desc != "" {
		return desc
	}

	sections.Set("주요업무", responsibilities)
	sections.Set("자격요건", requirements)
	sections.Set("우대사항", preferences)
	if sections.Len() > 0 {
		return sections.Markdown()
	}
	return doc.meta(`meta[property="og:description"]`)
}

func (w *Wanted) location(doc *Document, initial Payload) string {
	if full := initial.Text("address", "full_location"); full != "" {
		return full
	}
	if loc := joinNonBlank(" ", initial.Text("address", "location"), initial.Text("address", "district")); loc != "" {
		return loc
	}
	return firstNonBlankFn(
		func() string {
			return selectionText(doc.Find(`span[class*="JobHeader_JobHeader__Tools__Company__Info"]`).First())
		},
		func() string {
			return selectionText(doc.Find(`[data-testid*=location]`).First())
		},
		func() string { return doc.scanLabel([]string{"위치", "location", "근무지"}, scanMaxRunes) },
	)
}

// section finds a heading mentioning one of keywords and collects the text
// of up to sectionCollectLimit following siblings, stopping at the next
// heading. Without a heading it falls back to the parent of the first
// element mentioning a keyword.
func (d *Document) section(keywords []string) string {
	var collected string
	d.Find(sectionHeadingTags).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !textutil.ContainsAnyFold(selectionText(h), keywords) {
			return true
		}
		collected = collectSection(h)
		return collected == ""
	})
	if collected != "" {
		return collected
	}

	d.eachElement(func(s *goquery.Selection, text string) bool {
		if !textutil.ContainsAnyFold(text, keywords) {
			return true
		}
		parent := selectionText(s.Parent())
		if n := len([]rune(parent)); n > 30 && n < 1000 {
			collected = parent
			return false
		}
		return true
	})
	return collected
}

func collectSection(heading *goquery.Selection) string {
	var parts []string
	next := heading.Next()
	for i := 0; next.Length() > 0 && i < sectionCollectLimit; i++ {
		if next.Is(sectionHeadingTags) {
			break
		}
		if text := selectionText(next); text != "" {
			parts = append(parts, text)
		}
		next = next.Next()
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// WantedDiagnostics reports what the Wanted extractor had to work with:
// whether the Next.js payload was present and how many description sections
// it carried.
func WantedDiagnostics(doc *Document) (hasNextData bool, sections int) {
	initial := doc.nextData()
	if !initial.Present() {
		return false, 0
	}
	for _, s := range wantedSections {
		if initial.RawText(s.field) != "" {
			sections++
		}
	}
	return true, sections
}

// firstNonBlankFn evaluates candidates lazily and returns the first
// non-blank one.
func firstNonBlankFn(candidates ...func() string) string {
	for _, c := range candidates {
		if v := c(); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
