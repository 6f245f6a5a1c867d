package ai

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Thresholds of the content-preservation gate.
const (
	MinLengthRatio = 0.85
	MaxLengthRatio = 1.20
	MinTokenRecall = 0.92
	minTokenRunes  = 2
)

var (
	listMarker    = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	headingMarker = regexp.MustCompile(`(?m)^\s*#+\s*`)
	backticks     = regexp.MustCompile("`+")
	whitespace    = regexp.MustCompile(`\s+`)
	tokenSplit    = regexp.MustCompile(`[^\p{L}\p{N}:/._-]+`)
)

// Canonicalize strips markdown list and heading markers, backticks and bold
// markers, then collapses whitespace. Only used for comparison.
func Canonicalize(text string) string {
	text = listMarker.ReplaceAllString(text, "")
	text = headingMarker.ReplaceAllString(text, "")
	text = backticks.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize lower-cases text and splits it into the set of tokens of at
// least two runes. Letters, digits and : / . _ - stay inside tokens so URLs
// and version numbers compare whole.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, part := range tokenSplit.Split(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(part) >= minTokenRunes {
			tokens[part] = struct{}{}
		}
	}
	return tokens
}

// IsContentPreserved reports whether candidate is original with only
// formatting added. Both are canonicalized; the candidate's length must be
// within [MinLengthRatio, MaxLengthRatio] of the original's and at least
// MinTokenRecall of the original tokens must survive. Empty input on either
// side is rejected.
func IsContentPreserved(original, candidate string) bool {
	o := Canonicalize(original)
	c := Canonicalize(candidate)
	if o == "" || c == "" {
		return false
	}

	ratio := float64(utf8.RuneCountInString(c)) / float64(utf8.RuneCountInString(o))
	if ratio < MinLengthRatio || ratio > MaxLengthRatio {
		return false
	}

	want := Tokenize(o)
	got := Tokenize(c)
	if len(want) == 0 || len(got) == 0 {
		return false
	}
	kept := 0
	for tok := range want {
		if _, ok := got[tok]; ok {
			kept++
		}
	}
	return float64(kept)/float64(len(want)) >= MinTokenRecall
}
