package ai

import (
	"fmt"
	"strings"
	"testing"
)

// numberedTokens returns n distinct five-letter tokens joined by spaces.
func numberedTokens(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%02d", prefix, i)
	}
	return out
}

func TestCanonicalize(t *testing.T) {
	in := "## **주요업무**\n- API 설계\n* `go` 운영\n+ 배포\n\n\n끝"
	want := "주요업무 API 설계 go 운영 배포 끝"
	if got := Canonicalize(in); got != want {
		t.Errorf("Canonicalize = %q, want %q", got, want)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Go 1.22 / https://toss.im/career 백엔드, a 개발")
	for _, want := range []string{"go", "1.22", "https://toss.im/career", "백엔드", "개발"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing token %q in %v", want, got)
		}
	}
	if _, ok := got["a"]; ok {
		t.Error("single-rune token should be dropped")
	}
}

func TestIsContentPreserved(t *testing.T) {
	base := numberedTokens("tok", 20)
	original := strings.Join(base, " ")

	recall90 := append([]string(nil), base...)
	recall90[3], recall90[11] = "zzz03", "zzz11"

	recall95 := append([]string(nil), base...)
	recall95[7] = "zzz07"
	recall95 = append(recall95, "extra")

	tests := []struct {
		name      string
		original  string
		candidate string
		want      bool
	}{
		{
			name:      "formatting only",
			original:  "주요업무 API 설계 운영 자격요건 Go 3년 이상",
			candidate: "## **주요업무**\n- API 설계\n- 운영\n\n## **자격요건**\n- Go 3년 이상",
			want:      true,
		},
		{name: "recall 0.90 rejected", original: original, candidate: strings.Join(recall90, " "), want: false},
		{name: "recall 0.95 ratio 1.05 accepted", original: original, candidate: strings.Join(recall95, "\n- "), want: true},
		{name: "summarized rejected", original: original, candidate: strings.Join(base[:12], " "), want: false},
		{name: "added prose rejected", original: original, candidate: original + " " + strings.Join(numberedTokens("new", 5), " "), want: false},
		{name: "empty candidate rejected", original: original, candidate: "  ", want: false},
		{name: "empty original rejected", original: "", candidate: original, want: false},
		{name: "only short tokens rejected", original: "a b c d", candidate: "a b c d", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsContentPreserved(tc.original, tc.candidate); got != tc.want {
				t.Errorf("IsContentPreserved = %v, want %v", got, tc.want)
			}
		})
	}
}
