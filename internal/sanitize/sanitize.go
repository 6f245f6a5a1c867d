// Package sanitize removes page boilerplate from extracted job descriptions
// and assembles labeled sections into markdown.
package sanitize

import (
	"strings"

	"github.com/amishk599/jobcal/internal/textutil"
)

// NoiseMarkers start trailing blocks that are never part of a posting:
// related-post lists, comment sections and share widgets. Text is cut at the
// earliest marker found.
var NoiseMarkers = []string{
	"최신 댓글 모음 보러가기",
	"관련 채용공고",
	"함께 보면 좋은 공고",
	"이 공고와 비슷한 공고",
	"댓글 남기기",
	"답글 남기기",
	"이 글 공유하기",
	"Related Posts",
	"Leave a Reply",
	"Share this:",
}

// DuplicateAnchors are section titles that appear once per posting body.
// A second occurrence means the page rendered the body twice.
var DuplicateAnchors = []string{
	"포지션 정보",
	"포지션 상세",
	"이런 일을 해요",
	"이런 분과 함께하고 싶어요",
	"합류 여정",
}

// ApplyCallToAction is kept as the last line when the source had it and
// truncation removed it.
const ApplyCallToAction = "지원하러 가기"

// Clean runs the full sanitizer: normalization, noise truncation, duplicate
// section truncation, consecutive-line dedup and call-to-action restoration.
func Clean(text string) string {
	raw := textutil.NormalizeRawText(text)
	if raw == "" {
		return ""
	}
	out := TruncateNoise(raw)
	out = TruncateDuplicateSections(out)
	out = textutil.DedupeConsecutiveLines(out)
	out = RestoreCallToAction(raw, out)
	return textutil.NormalizeRawText(out)
}

// TruncateNoise cuts text at the earliest noise marker.
func TruncateNoise(text string) string {
	cut := -1
	for _, marker := range NoiseMarkers {
		if i := strings.Index(text, marker); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 {
		return text
	}
	return strings.TrimRight(text[:cut], " \n")
}

// TruncateDuplicateSections cuts text at the earliest second occurrence of
// any duplicate anchor.
func TruncateDuplicateSections(text string) string {
	cut := -1
	for _, anchor := range DuplicateAnchors {
		first := strings.Index(text, anchor)
		if first < 0 {
			continue
		}
		rest := text[first+len(anchor):]
		second := strings.Index(rest, anchor)
		if second < 0 {
			continue
		}
		at := first + len(anchor) + second
		if cut < 0 || at < cut {
			cut = at
		}
	}
	if cut < 0 {
		return text
	}
	return strings.TrimRight(text[:cut], " \n")
}

// RestoreCallToAction re-appends ApplyCallToAction when original carried it
// and sanitized lost it.
func RestoreCallToAction(original, sanitized string) string {
	if !strings.Contains(original, ApplyCallToAction) || strings.Contains(sanitized, ApplyCallToAction) {
		return sanitized
	}
	if strings.TrimSpace(sanitized) == "" {
		return ApplyCallToAction
	}
	return strings.TrimRight(sanitized, " \n") + "\n" + ApplyCallToAction
}
