// Package textutil holds the text helpers shared by every extractor and by
// the description sanitizer.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	controlSpace  = strings.NewReplacer("\t", " ", "\f", " ", "\v", " ", "\u00a0", " ")
)

// CleanText collapses every whitespace run to a single space and trims.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// NormalizeRawText prepares multi-line text for storage while keeping its
// paragraph structure. Line endings become "\n", non-breaking spaces, tabs
// and form feeds become plain spaces, trailing whitespace is stripped per
// line and runs of blank lines are capped at two. Leading and trailing blank
// lines are dropped. The function is idempotent.
func NormalizeRawText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = controlSpace.Replace(s)

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}

// DedupeConsecutiveLines drops a line when its whitespace-normalized form
// equals the last non-blank line that was kept. Blank lines are always kept.
func DedupeConsecutiveLines(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	last := ""
	for _, line := range lines {
		key := CleanText(line)
		if key == "" {
			out = append(out, line)
			continue
		}
		if key == last {
			continue
		}
		last = key
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// TrimToMax cuts s to at most max runes.
func TrimToMax(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// FirstNonBlank returns the first candidate that is not blank after trimming.
func FirstNonBlank(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

// ContainsAnyFold reports whether text contains any keyword, ignoring case.
func ContainsAnyFold(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
