package sanitize

import (
	"strings"

	"github.com/amishk599/jobcal/internal/textutil"
)

// SectionLabels is the fixed emission order of labeled sections.
var SectionLabels = []string{
	"회사소개",
	"주요업무",
	"자격요건",
	"우대사항",
	"혜택 및 복지",
	"채용 전형",
}

// SectionMap maps a label from SectionLabels to its body text. Labels outside
// SectionLabels are ignored when rendering.
type SectionMap map[string]string

// Set stores body under label when the body is not blank.
func (s SectionMap) Set(label, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	s[label] = body
}

// Len counts the non-blank sections that would be rendered.
func (s SectionMap) Len() int {
	n := 0
	for _, label := range SectionLabels {
		if strings.TrimSpace(s[label]) != "" {
			n++
		}
	}
	return n
}

// Markdown renders the sections in SectionLabels order as
// "## **label**" headings followed by the normalized body. A body whose first
// line already shows the label is emitted without the synthetic heading.
func (s SectionMap) Markdown() string {
	var blocks []string
	for _, label := range SectionLabels {
		body := normalizeBullets(textutil.NormalizeRawText(s[label]))
		if strings.TrimSpace(body) == "" {
			continue
		}
		if startsWithLabel(body, label) {
			blocks = append(blocks, body)
			continue
		}
		blocks = append(blocks, "## **"+label+"**\n"+body)
	}
	return strings.Join(blocks, "\n\n")
}

var bulletGlyphs = []string{"•", "·", "ㆍ"}

// normalizeBullets rewrites lines that start with a bullet glyph as markdown
// list items.
func normalizeBullets(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		for _, g := range bulletGlyphs {
			if strings.HasPrefix(trimmed, g) {
				lines[i] = "- " + strings.TrimSpace(strings.TrimPrefix(trimmed, g))
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

func startsWithLabel(body, label string) bool {
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		squash := func(s string) string { return strings.ReplaceAll(s, " ", "") }
		return strings.Contains(squash(line), squash(label))
	}
	return false
}
