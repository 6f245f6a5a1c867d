package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sectionHints mark heading lines in free-form article bodies.
var sectionHints = []string{
	"포지션 상세",
	"이런 일을 해요",
	"이런 분과 함께하고 싶어요",
	"이런 경험이 있으면 더",
	"주요업무",
	"자격요건",
	"우대사항",
	"고용조건",
	"복지",
	"포지션 정보",
	"합류 여정",
	"지원 시 유의사항",
}

const maxHeadingRunes = 30

var (
	gluedBullet    = regexp.MustCompile(`([가-힣A-Za-z0-9)])[ \t]*[•·][ \t]*`)
	bulletPrefix   = regexp.MustCompile(`^[-•·]\s*`)
	trailingPunct  = regexp.MustCompile(`[!?:\s]+$`)
	headingNoise   = strings.NewReplacer("!", "", "?", "", ":", "", "🙋🏻‍♀️", "", "🙆🏻‍♀️", "", "🙆🏻‍♂️", "")
	hintSplitRules []*regexp.Regexp
)

func init() {
	for _, hint := range sectionHints {
		hintSplitRules = append(hintSplitRules, regexp.MustCompile(`([^\s\p{L}\p{N}])`+regexp.QuoteMeta(hint)))
	}
}

// FormatSectionHints turns a flat article body into markdown: short lines that
// carry a section hint become "## **...**" headings and every other line
// becomes a "- " list item. Bullets glued to the previous word are split onto
// their own line first, and a hint glued to preceding punctuation starts a
// new line. A hint inside a longer word (사내복지포인트) is left alone.
func FormatSectionHints(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = gluedBullet.ReplaceAllString(text, "$1\n• ")
	for i, rule := range hintSplitRules {
		text = rule.ReplaceAllString(text, "$1\n"+sectionHints[i])
	}

	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isSectionHeading(line) {
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString("## **" + strings.TrimSpace(trailingPunct.ReplaceAllString(line, "")) + "**")
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + strings.TrimSpace(bulletPrefix.ReplaceAllString(line, "")))
	}
	if b.Len() == 0 {
		return raw
	}
	return b.String()
}

func isSectionHeading(line string) bool {
	normalized := strings.TrimSpace(headingNoise.Replace(line))
	if utf8.RuneCountInString(normalized) > maxHeadingRunes {
		return false
	}
	for _, hint := range sectionHints {
		if containsWord(normalized, hint) {
			return true
		}
	}
	return false
}

// containsWord reports whether hint occurs in s without a letter directly
// before or after it.
func containsWord(s, hint string) bool {
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], hint)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(hint)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !unicode.IsLetter(before) && !unicode.IsLetter(after) {
			return true
		}
		from = start + 1
	}
	return false
}
