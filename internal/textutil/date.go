package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datePattern pairs a regexp with the capture-group order of its fields.
type datePattern struct {
	re               *regexp.Regexp
	year, month, day int
}

var datePatterns = []datePattern{
	{re: regexp.MustCompile(`(\d{4})[.-](\d{1,2})[.-](\d{1,2})`), year: 1, month: 2, day: 3},
	{re: regexp.MustCompile(`(\d{1,2})[.-](\d{1,2})[.-](\d{4})`), year: 3, month: 2, day: 1},
	{re: regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`), year: 1, month: 2, day: 3},
}

// strictLayouts are tried against the whole trimmed text after the patterns.
var strictLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006 01 02",
}

// ExtractDate finds the first valid calendar date in text. Numeric patterns
// are tried in order (Y-M-D, D-M-Y, Korean 년/월/일); matches that do not form a
// real date are skipped. The strict layouts are the last resort. The second
// return value is false when nothing parses.
func ExtractDate(text string) (time.Time, bool) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, false
	}

	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if d, ok := buildDate(m[p.year], m[p.month], m[p.day]); ok {
				return d, true
			}
		}
	}

	trimmed := strings.TrimSpace(text)
	for _, layout := range strictLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func buildDate(ys, ms, ds string) (time.Time, bool) {
	y, err := strconv.Atoi(ys)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(ds)
	if err != nil {
		return time.Time{}, false
	}
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject those.
	if t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// ParseISODate reads timestamps such as "2024-03-15T23:59:59+09:00" or a
// plain "2024-03-15" prefix, falling back to ExtractDate.
func ParseISODate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	if len(value) >= 10 {
		if t, err := time.Parse("2006-01-02", value[:10]); err == nil {
			return t, true
		}
	}
	return ExtractDate(value)
}
