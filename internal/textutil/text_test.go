package textutil

import (
	"strings"
	"testing"
	"time"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "collapses runs", input: "  a \t b\n\n c  ", want: "a b c"},
		{name: "non-breaking space", input: "서울 강남구", want: "서울 강남구"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.input); got != tc.want {
				t.Errorf("CleanText(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeRawText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "crlf and cr", input: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "trailing whitespace", input: "a  \t\nb ", want: "a\nb"},
		{name: "tabs become spaces", input: "a\tb", want: "a b"},
		{name: "caps blank runs at two", input: "a\n\n\n\n\nb", want: "a\n\n\nb"},
		{name: "keeps paragraph break", input: "a\n\nb", want: "a\n\nb"},
		{name: "drops outer blank lines", input: "\n\na\n\n", want: "a"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeRawText(tc.input); got != tc.want {
				t.Errorf("NormalizeRawText(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeRawText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"주요업무\r\n\r\n\r\n\r\n• 백엔드 개발\t \r\n",
		"  \n\n\n\n  indented  \n\f\n\n\nend\r",
		"a\n \n \n \n \nb",
	}
	for _, in := range inputs {
		once := NormalizeRawText(in)
		twice := NormalizeRawText(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestDedupeConsecutiveLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "drops adjacent duplicate", input: "a\na\nb", want: "a\nb"},
		{name: "whitespace-insensitive", input: "주요  업무\n 주요 업무 \nx", want: "주요  업무\nx"},
		{name: "blank lines kept and do not reset", input: "a\n\na\nb", want: "a\n\nb"},
		{name: "non-adjacent duplicates kept", input: "a\nb\na", want: "a\nb\na"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DedupeConsecutiveLines(tc.input); got != tc.want {
				t.Errorf("DedupeConsecutiveLines(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDedupeConsecutiveLines_NeverGrows(t *testing.T) {
	inputs := []string{"a\na\na", "x\n\n\nx\ny\ny\n", "", "only"}
	for _, in := range inputs {
		out := DedupeConsecutiveLines(in)
		if strings.Count(out, "\n") > strings.Count(in, "\n") {
			t.Errorf("line count grew for %q: %q", in, out)
		}
	}
}

func TestTrimToMax(t *testing.T) {
	if got := TrimToMax("서울특별시", 2); got != "서울" {
		t.Errorf("TrimToMax = %q, want 서울", got)
	}
	if got := TrimToMax("abc", 10); got != "abc" {
		t.Errorf("TrimToMax = %q, want abc", got)
	}
}

func TestExtractDate(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{name: "year first", input: "채용마감 2024-03-15", want: day, wantOK: true},
		{name: "day first", input: "마감: 15.03.2024", want: day, wantOK: true},
		{name: "korean", input: "2024년 3월 15일 마감", want: day, wantOK: true},
		{name: "dotted single digits", input: "~2024.3.15", want: day, wantOK: true},
		{name: "strict slash layout", input: " 2024/03/15 ", want: day, wantOK: true},
		{name: "invalid month skipped", input: "2024-13-01 or 2024-03-15", want: day, wantOK: true},
		{name: "feb 30 rejected", input: "2024-02-30", wantOK: false},
		{name: "no date", input: "no date here", wantOK: false},
		{name: "blank", input: "   ", wantOK: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractDate(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ExtractDate(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("ExtractDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "2024-03-15T23:59:59+09:00", want: "2024-03-15"},
		{input: "2024-03-15", want: "2024-03-15"},
		{input: "상시채용 2024.03.15", want: "2024-03-15"},
	}
	for _, tc := range tests {
		got, ok := ParseISODate(tc.input)
		if !ok {
			t.Fatalf("ParseISODate(%q) failed", tc.input)
		}
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("ParseISODate(%q) = %s, want %s", tc.input, got.Format("2006-01-02"), tc.want)
		}
	}
	if _, ok := ParseISODate(""); ok {
		t.Error("expected no date for empty input")
	}
}
