package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/jobcal/internal/adapter"
	"github.com/amishk599/jobcal/internal/ai"
	"github.com/amishk599/jobcal/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubFetcher serves canned bodies per URL and records every call.
type stubFetcher struct {
	bodies map[string]string
	err    error
	calls  []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return "", f.err
	}
	body, ok := f.bodies[url]
	if !ok {
		return "", errors.New("not found")
	}
	return body, nil
}

// prefixFormatter marks every description it formats.
type prefixFormatter struct {
	calls int
}

func (f *prefixFormatter) Format(_ context.Context, text string) string {
	f.calls++
	return "FMT:" + text
}

type panicExtractor struct{}

func (panicExtractor) Source() string { return adapter.SourceWanted }

func (panicExtractor) Extract(_ context.Context, _ *adapter.Document) model.ParsedJob {
	panic("selector exploded")
}

const genericPage = `<html><head>
<title>백엔드 개발자 - 예시회사</title>
<meta property="og:site_name" content="예시회사">
<meta property="og:description" content="백엔드 개발자를 찾습니다. 주요업무는 API 개발입니다.">
</head><body></body></html>`

const zighangPage = `<html><head><title>[잡캘] 백엔드 엔지니어 | 직행</title></head><body>
<h1>[잡캘] 백엔드 엔지니어</h1>
<div>경력</div><div>3년 이상</div>
<div>출처</div><div>원티드</div>
<a href="https://www.wanted.co.kr/wd/123">원본 보기</a>
</body></html>`

const wantedPage = `<html><head>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"initialData":{
	"position": "백엔드 개발자",
	"company": {"company_name": "잡캘"},
	"due_time": "2024-03-15",
	"main_tasks": "• API 설계\n• 운영",
	"requirements": "Go 3년 이상"
}}}}</script></head><body></body></html>`

func TestClassify(t *testing.T) {
	p := New(&stubFetcher{}, ai.NewNopDescriptionFormatter(), discardLogger(), Options{})

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr error
	}{
		{name: "wanted", url: "https://www.wanted.co.kr/wd/123", want: adapter.SourceWanted},
		{name: "inthiswork", url: "https://inthiswork.com/?p=1", want: adapter.SourceInthiswork},
		{name: "jobkorea subdomain", url: "https://m.jobkorea.co.kr/Recruit/GI_Read/1", want: adapter.SourceJobKorea},
		{name: "zighang upper case host", url: "HTTPS://ZIGHANG.COM/recruit/1", want: adapter.SourceZighang},
		{name: "unknown host falls back", url: "https://example.com/job/1", want: adapter.SourceGeneric},
		{name: "lookalike host is not a board", url: "https://notwanted.co.kr/wd/1", want: adapter.SourceGeneric},
		{name: "malformed", url: "ht!tp://%%", wantErr: model.ErrInvalidURL},
		{name: "no scheme", url: "www.wanted.co.kr/wd/1", wantErr: model.ErrInvalidURL},
		{name: "empty", url: "", wantErr: model.ErrInvalidURL},
		{name: "no host", url: "https:///wd/1", wantErr: model.ErrInvalidURL},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Classify(tc.url)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Classify(%q) error = %v, want %v", tc.url, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify(%q) unexpected error: %v", tc.url, err)
			}
			if got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestClassify_StrictHostsRejectsUnknown(t *testing.T) {
	p := New(&stubFetcher{}, ai.NewNopDescriptionFormatter(), discardLogger(), Options{StrictHosts: true})

	_, err := p.Classify("https://example.com/job/1")
	if !errors.Is(err, model.ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", err)
	}
	if !strings.Contains(err.Error(), "지원하지 않는 채용 사이트입니다") {
		t.Errorf("expected localized message, got %q", err.Error())
	}
	if got, err := p.Classify("https://www.wanted.co.kr/wd/1"); err != nil || got != adapter.SourceWanted {
		t.Errorf("known host under strict policy = %q, %v", got, err)
	}
}

func TestParse_InvalidURLDoesNotFetch(t *testing.T) {
	fetcher := &stubFetcher{}
	p := New(fetcher, ai.NewNopDescriptionFormatter(), discardLogger(), Options{})

	if _, err := p.Parse(context.Background(), "not a url"); !errors.Is(err, model.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("expected no fetch, got %v", fetcher.calls)
	}
}

func TestParse_FetchFailure(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
	}{
		{name: "fetch error", fetcher: &stubFetcher{err: &model.HTTPError{StatusCode: 404}}},
		{name: "blank body", fetcher: &stubFetcher{bodies: map[string]string{"https://example.com/job/1": "  \n "}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			formatter := &prefixFormatter{}
			p := New(tc.fetcher, formatter, discardLogger(), Options{})

			_, err := p.Parse(context.Background(), "https://example.com/job/1")
			if !errors.Is(err, model.ErrFetchFailure) {
				t.Fatalf("expected ErrFetchFailure, got %v", err)
			}
			if formatter.calls != 0 {
				t.Error("formatter must not run without a page")
			}
		})
	}
}

func TestParse_FetchFailureKeepsCause(t *testing.T) {
	p := New(&stubFetcher{err: &model.HTTPError{StatusCode: 503}}, ai.NewNopDescriptionFormatter(), discardLogger(), Options{})

	_, err := p.Parse(context.Background(), "https://www.wanted.co.kr/wd/1")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 503 {
		t.Fatalf("expected wrapped HTTPError 503, got %v", err)
	}
}

func TestParse_GenericPageIsFormatted(t *testing.T) {
	url := "https://example.com/job/1"
	formatter := &prefixFormatter{}
	p := New(&stubFetcher{bodies: map[string]string{url: genericPage}}, formatter, discardLogger(), Options{})

	job, err := p.Parse(context.Background(), url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.CompanyName != "예시회사" || job.JobTitle != "백엔드 개발자" {
		t.Errorf("unexpected company/title %q / %q", job.CompanyName, job.JobTitle)
	}
	wantRaw := "백엔드 개발자를 찾습니다. 주요업무는 API 개발입니다."
	if job.DescriptionRaw != wantRaw {
		t.Errorf("DescriptionRaw = %q", job.DescriptionRaw)
	}
	if job.Description != "FMT:"+wantRaw {
		t.Errorf("Description = %q", job.Description)
	}
	if job.Source() != adapter.SourceGeneric {
		t.Errorf("source = %q", job.Source())
	}
	if formatter.calls != 1 {
		t.Errorf("expected one formatter call, got %d", formatter.calls)
	}
}

func TestParse_UnrecognizablePageGivesPlaceholders(t *testing.T) {
	url := "https://example.com/job/2"
	p := New(&stubFetcher{bodies: map[string]string{url: "<html><body></body></html>"}}, ai.NewNopDescriptionFormatter(), discardLogger(), Options{})

	job, err := p.Parse(context.Background(), url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.CompanyName != model.UnknownCompany || job.JobTitle != model.UnknownPosition {
		t.Errorf("expected placeholders, got %q / %q", job.CompanyName, job.JobTitle)
	}
	if job.Source() != adapter.SourceGeneric {
		t.Errorf("expected source generic, got %q", job.Source())
	}
	if job.ParsedData.Has("error") {
		t.Errorf("unexpected error entry: %v", job.ParsedData.Get("error"))
	}
}

func TestParse_RecoversExtractorPanic(t *testing.T) {
	url := "https://www.wanted.co.kr/wd/1"
	formatter := &prefixFormatter{}
	p := New(&stubFetcher{bodies: map[string]string{url: wantedPage}}, formatter, discardLogger(), Options{})
	p.extractors[adapter.SourceWanted] = panicExtractor{}

	job, err := p.Parse(context.Background(), url)
	if err != nil {
		t.Fatalf("panic must not surface as an error, got %v", err)
	}
	if job.CompanyName != model.UnknownCompany || job.JobTitle != model.UnknownPosition {
		t.Errorf("expected placeholders, got %q / %q", job.CompanyName, job.JobTitle)
	}
	if got := job.ParsedData.String("error"); !strings.Contains(got, "selector exploded") {
		t.Errorf("expected error entry, got %q", got)
	}
	if job.Source() != adapter.SourceWanted {
		t.Errorf("expected source wanted, got %q", job.Source())
	}
	if formatter.calls != 0 {
		t.Error("formatter must not run on a failed extraction")
	}
}

func TestParse_DiagnosticsDoNotChangeResult(t *testing.T) {
	url := "https://www.wanted.co.kr/wd/1"
	fetcher := &stubFetcher{bodies: map[string]string{url: wantedPage}}

	quiet := New(fetcher, ai.NewNopDescriptionFormatter(), discardLogger(), Options{})
	debug := New(fetcher, ai.NewNopDescriptionFormatter(),
		slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})), Options{})

	a, err := quiet.Parse(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	b, err := debug.Parse(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	if a.Description != b.Description || a.JobTitle != b.JobTitle || a.CompanyName != b.CompanyName {
		t.Error("debug logging changed the parse result")
	}
	if a.JobTitle != "백엔드 개발자" || a.CompanyName != "잡캘" {
		t.Errorf("unexpected wanted result %q / %q", a.CompanyName, a.JobTitle)
	}
}

func TestParse_ZighangDelegatesThroughSharedFetcher(t *testing.T) {
	zighangURL := "https://zighang.com/recruit/1"
	fetcher := &stubFetcher{bodies: map[string]string{
		zighangURL:                        zighangPage,
		"https://www.wanted.co.kr/wd/123": wantedPage,
	}}
	p := New(fetcher, ai.NewNopDescriptionFormatter(), discardLogger(), Options{})

	job, err := p.Parse(context.Background(), zighangURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Source() != adapter.SourceZighang {
		t.Errorf("expected source zighang, got %q", job.Source())
	}
	if got := job.ParsedData.String("delegatedSource"); got != adapter.SourceWanted {
		t.Errorf("expected delegatedSource wanted, got %q", got)
	}
	if !strings.Contains(job.Description, "API 설계") {
		t.Errorf("expected delegated description, got %q", job.Description)
	}
	if len(fetcher.calls) != 2 {
		t.Errorf("expected page + origin fetch, got %v", fetcher.calls)
	}
}
