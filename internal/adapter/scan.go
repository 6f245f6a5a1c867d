package adapter

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobcal/internal/textutil"
)

// scanMaxRunes bounds the text of an element considered by a keyword scan.
// Larger elements are page containers whose first date or label says
// nothing about the posting.
const scanMaxRunes = 300

var (
	deadlineKeywords = []string{"마감", "deadline", "지원마감", "채용마감", "접수마감", "모집마감"}
	locationKeywords = []string{"위치", "location", "근무지", "근무지역", "지역"}
)

// eachElement visits body elements in document order with their cleaned
// text until fn returns false.
func (d *Document) eachElement(fn func(s *goquery.Selection, text string) bool) {
	d.doc.Find("body *").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if skipText[s.Nodes[0].DataAtom] {
			return true
		}
		return fn(s, selectionText(s))
	})
}

// isLabelOnly reports whether lower holds nothing but keywords and
// separators.
func isLabelOnly(lower string, keywords []string) bool {
	sorted := append([]string(nil), keywords...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, kw := range sorted {
		lower = strings.ReplaceAll(lower, strings.ToLower(kw), "")
	}
	return strings.Trim(lower, " :：-") == ""
}

// childMentions reports whether a child element also mentions kw, in which
// case the scan descends to it instead of using the container.
func childMentions(s *goquery.Selection, kw string) bool {
	found := false
	s.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		found = strings.Contains(strings.ToLower(selectionText(c)), kw)
		return !found
	})
	return found
}

// scanDate looks for the innermost element mentioning a keyword (keywords are
// tried in order) and reads a date from its text, its next sibling or its
// parent.
func (d *Document) scanDate(keywords []string) *time.Time {
	whole := strings.ToLower(d.Text())
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if !strings.Contains(whole, kw) {
			continue
		}
		var found *time.Time
		d.eachElement(func(s *goquery.Selection, text string) bool {
			if !strings.Contains(strings.ToLower(text), kw) || childMentions(s, kw) {
				return true
			}
			for _, candidate := range []string{text, selectionText(s.Next()), selectionText(s.Parent())} {
				if candidate == "" || utf8.RuneCountInString(candidate) > scanMaxRunes {
					continue
				}
				if t, ok := textutil.ExtractDate(candidate); ok {
					found = &t
					return false
				}
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// scanLabel returns the text of the innermost element under maxRunes that
// mentions a keyword. When the element is only the label itself, the next
// sibling's text is used as the value.
func (d *Document) scanLabel(keywords []string, maxRunes int) string {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		var found string
		d.eachElement(func(s *goquery.Selection, text string) bool {
			lower := strings.ToLower(text)
			if !strings.Contains(lower, kw) || utf8.RuneCountInString(text) >= maxRunes || childMentions(s, kw) {
				return true
			}
			if isLabelOnly(lower, keywords) {
				next := selectionText(s.Next())
				if next != "" && utf8.RuneCountInString(next) < maxRunes {
					found = next
					return false
				}
				return true
			}
			found = text
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}
