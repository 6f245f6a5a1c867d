package adapter

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/sanitize"
	"github.com/amishk599/jobcal/internal/textutil"
)

const inthisworkTitleSuffix = "– IN THIS WORK · 인디스워크"

var (
	inthisworkTitleSelectors = []string{
		"section.fusion-page-title-bar h1.fusion-title-heading",
		`meta[property="og:title"]`,
		"title",
	}
	inthisworkContentSelectors = []string{
		"#content .post .fusion-content-tb-2",
		"#content .post .fusion-content-tb-1",
		".post .fusion-content-tb-2",
		".post .fusion-content-tb-1",
	}
	inthisworkDeadlineKeywords = []string{"마감", "지원마감", "채용마감", "접수마감", "모집마감", "~", "deadline"}

	bracketPattern = regexp.MustCompile(`\[(.+?)\]`)
)

// Inthiswork extracts inthiswork.com articles, a WordPress site where each
// posting is a blog post.
type Inthiswork struct{}

// NewInthiswork creates an Inthiswork extractor.
func NewInthiswork() *Inthiswork {
	return &Inthiswork{}
}

func (i *Inthiswork) Source() string { return SourceInthiswork }

func (i *Inthiswork) leaf() {}

// Extract reads an Inthiswork article.
func (i *Inthiswork) Extract(_ context.Context, doc *Document) model.ParsedJob {
	return guard(SourceInthiswork, func() model.ParsedJob {
		title := i.titleCandidate(doc)
		raw := i.description(doc)

		data := model.NewMetadata(SourceInthiswork)
		data.SetString("employmentType", i.employmentType(doc))
		data.SetString("applyUrl", i.applyURL(doc))

		return finish(model.JobFields{
			CompanyName:    i.companyName(doc, title),
			JobTitle:       title,
			Deadline:       i.deadline(doc, title),
			Description:    sanitize.FormatSectionHints(sanitize.Clean(raw)),
			DescriptionRaw: raw,
			Location:       i.location(doc),
		}, data)
	})
}

// titleCandidate reads the page title without the site suffix.
func (i *Inthiswork) titleCandidate(doc *Document) string {
	for _, sel := range inthisworkTitleSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(strings.ReplaceAll(textOrContent(s), inthisworkTitleSuffix, ""))
		if text != "" {
			return text
		}
	}
	return ""
}

func (i *Inthiswork) companyName(doc *Document, title string) string {
	if before, _, ok := strings.Cut(title, "｜"); ok {
		if company := textutil.CleanText(before); company != "" {
			return company
		}
	}
	if m := bracketPattern.FindStringSubmatch(title); m != nil {
		if company := textutil.CleanText(m[1]); company != "" {
			return company
		}
	}
	if before, _, ok := strings.Cut(title, "|"); ok {
		if company := textutil.CleanText(before); company != "" {
			return company
		}
	}

	var company string
	doc.Find("#content .post h5.wp-block-heading, .post h5.wp-block-heading").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := selectionText(s)
		if text == "" || strings.EqualFold(text, "Affiliation") || strings.Contains(text, "합류") {
			return true
		}
		company = text
		return false
	})
	return company
}

func (i *Inthiswork) deadline(doc *Document, title string) *time.Time {
	if t, ok := textutil.ExtractDate(title); ok {
		return &t
	}
	return doc.scanDate(inthisworkDeadlineKeywords)
}

// description keeps the line structure of the longest content block so the
// section-hint formatter can find headings.
func (i *Inthiswork) description(doc *Document) string {
	if text := doc.longestBlock(30, inthisworkContentSelectors...); text != "" {
		return text
	}
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if text := doc.meta(sel); len([]rune(text)) > 30 {
			return text
		}
	}
	return ""
}

func (i *Inthiswork) location(doc *Document) string {
	var found string
	doc.Find("#content .post p, #content .post li, .post p, .post li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := selectionText(s)
		if textutil.ContainsAnyFold(text, []string{"근무지", "근무지역", "위치", "location"}) {
			found = text
			return false
		}
		return true
	})
	return found
}

// employmentType is the heading that follows the "Affiliation" heading.
func (i *Inthiswork) employmentType(doc *Document) string {
	headings := doc.Find(".post .fusion-content-tb-2 h5.wp-block-heading, .post .fusion-content-tb-1 h5.wp-block-heading")
	for n := 0; n < headings.Length()-1; n++ {
		if strings.Contains(strings.ToLower(selectionText(headings.Eq(n))), "affiliation") {
			if next := selectionText(headings.Eq(n + 1)); next != "" {
				return next
			}
		}
	}
	return ""
}

func (i *Inthiswork) applyURL(doc *Document) string {
	for _, sel := range []string{".post a.maxbutton[href]", `.post a[href*="toss.im/career"]`} {
		if href := doc.attr(sel, "href"); href != "" {
			return href
		}
	}
	return ""
}
