package adapter

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobcal/internal/model"
	"github.com/amishk599/jobcal/internal/textutil"
)

// Labeled fields on a Zighang page, in summary order.
const (
	labelExperience = "경력"
	labelEmployment = "채용 유형"
	labelEducation  = "학력"
	labelLocation   = "지역"
	labelDeadline   = "마감일"
	labelOrigin     = "출처"
)

const noCompanyIntro = "회사 소개가 없습니다."

var (
	fieldStop      = regexp.MustCompile(`\s*(경력|채용 유형|학력|지역|마감일|출처|홈페이지|오류제보|이 공고|지원하기|회사 소개가 없습니다\.)`)
	fieldStopAhead = regexp.MustCompile(`^\s*(경력|채용 유형|학력|지역|마감일|출처|홈페이지|오류제보|이 공고|지원하기|회사 소개가 없습니다\.)`)
	trailingBar    = regexp.MustCompile(`\s*\|\s*$`)
	postedCompany  = regexp.MustCompile(`([가-힣A-Za-z0-9()&,.\-\s]{2,40})\|\s*\d{4}\.\s*\d{1,2}\.\s*\d{1,2}\.\s*게시\|`)

	originLinkSelector = `a[href*="wanted.co.kr"], a[href*="inthiswork.com"], a[href*="jobkorea.co.kr"], a[href*="saramin.co.kr"]`
	proseMirrorNodes   = "h1, h2, h3, h4, p, li, blockquote"
)

var originSourceNames = []struct {
	match string
	name  string
}{
	{match: "원티드", name: "원티드"},
	{match: "인디스워크", name: "인디스워크"},
	{match: "zighang", name: "직행"},
	{match: "직행", name: "직행"},
	{match: "잡코리아", name: "잡코리아"},
	{match: "사람인", name: "사람인"},
}

// Zighang extracts zighang.com pages, an aggregator that republishes
// postings from other boards. When the page links to the original posting
// on a board with a Leaf extractor, that page is fetched once and its
// description is preferred over the local summary.
type Zighang struct {
	fetcher   model.Fetcher
	delegates map[string]Leaf
	logger    *slog.Logger
}

// NewZighang creates a Zighang extractor. A nil fetcher disables delegation.
func NewZighang(fetcher model.Fetcher, logger *slog.Logger, delegates ...Leaf) *Zighang {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	byName := make(map[string]Leaf, len(delegates))
	for _, d := range delegates {
		byName[d.Source()] = d
	}
	return &Zighang{fetcher: fetcher, delegates: byName, logger: logger}
}

func (z *Zighang) Source() string { return SourceZighang }

// Extract reads a Zighang page and, when possible, the original posting it
// links to.
func (z *Zighang) Extract(ctx context.Context, doc *Document) model.ParsedJob {
	return guard(SourceZighang, func() model.ParsedJob {
		fullText := doc.BlockText()
		title := z.jobTitle(doc)

		experience := extractField(fullText, labelExperience)
		employment := extractField(fullText, labelEmployment)
		education := extractField(fullText, labelEducation)
		locationLabel := extractField(fullText, labelLocation)
		deadlineLabel := extractField(fullText, labelDeadline)
		origin := normalizeOrigin(extractField(fullText, labelOrigin))
		originURL := doc.attr(originLinkSelector, "href")

		location := locationLabel
		if location == "" {
			location = doc.scanLabel([]string{"근무지", "근무지역", "위치", "location", "지역"}, 100)
		}

		data := model.NewMetadata(SourceZighang)
		data.SetString("experience", experience)
		data.SetString("employmentType", employment)
		data.SetString("education", education)
		data.SetString("location", location)
		data.SetString("deadlineLabel", deadlineLabel)
		data.SetString("originSource", origin)
		data.SetString("originSourceUrl", originURL)

		raw := proseMirrorText(doc)
		if raw == "" {
			var delegated string
			raw, delegated = z.delegate(ctx, originURL)
			data.SetString("delegatedSource", delegated)
		}
		if raw == "" {
			raw = summary([][2]string{
				{labelExperience, experience},
				{labelEmployment, employment},
				{labelEducation, education},
				{labelLocation, locationLabel},
				{labelDeadline, deadlineLabel},
				{labelOrigin, origin},
			})
		}
		if raw == "" {
			raw = fullText
		}

		return finish(model.JobFields{
			CompanyName:    z.companyName(doc, fullText, title),
			JobTitle:       title,
			Deadline:       z.deadline(fullText, deadlineLabel),
			DescriptionRaw: raw,
			Location:       location,
		}, data)
	})
}

func (z *Zighang) jobTitle(doc *Document) string {
	for _, sel := range []string{`meta[property="og:title"]`, "h1", "[data-testid*=title]", "[class*=title]"} {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if text := textOrContent(s); text != "" {
			return text
		}
	}
	return ""
}

func (z *Zighang) companyName(doc *Document, fullText, title string) string {
	if m := bracketPattern.FindStringSubmatch(title); m != nil {
		if company := textutil.CleanText(m[1]); company != "" {
			return company
		}
	}
	if m := postedCompany.FindStringSubmatch(fullText); m != nil {
		if company := textutil.CleanText(m[1]); company != "" {
			return company
		}
	}
	text := selectionText(doc.Find("h3, [class*=company]").First())
	if text == noCompanyIntro {
		return ""
	}
	return text
}

func (z *Zighang) deadline(fullText, label string) *time.Time {
	if t, ok := textutil.ExtractDate(label); ok {
		return &t
	}
	if t, ok := textutil.ExtractDate(fullText); ok {
		return &t
	}
	return nil
}

// delegate fetches the original posting and returns its description and
// the delegate's source id. Every failure yields "" so the caller falls back
// to the local summary.
func (z *Zighang) delegate(ctx context.Context, originURL string) (string, string) {
	if z.fetcher == nil || originURL == "" {
		return "", ""
	}
	u, err := url.Parse(originURL)
	if err != nil || u.Host == "" {
		return "", ""
	}
	leaf, ok := z.delegates[SourceForHost(u.Hostname())]
	if !ok {
		return "", ""
	}

	body, err := z.fetcher.Fetch(ctx, originURL)
	if err != nil || strings.TrimSpace(body) == "" {
		z.logger.Debug("origin fetch failed", "url", originURL, "error", err)
		return "", ""
	}
	doc, err := NewDocument(body)
	if err != nil {
		return "", ""
	}
	job := leaf.Extract(ctx, doc)
	if job.ParsedData.Has("error") {
		z.logger.Debug("origin extraction failed", "url", originURL, "error", job.ParsedData.String("error"))
		return "", ""
	}
	desc := textutil.FirstNonBlank(job.DescriptionRaw, job.Description)
	if desc == "" {
		return "", ""
	}
	return desc, leaf.Source()
}

// proseMirrorText renders the rich-text editor content of the page: one
// line per block, list items as "- " bullets.
func proseMirrorText(doc *Document) string {
	var lines []string
	doc.Find(".ProseMirror").Each(func(_ int, root *goquery.Selection) {
		root.Find(proseMirrorNodes).Each(func(_ int, node *goquery.Selection) {
			if node.ParentsUntilSelection(root).Is(proseMirrorNodes) {
				return
			}
			text := selectionText(node)
			if text == "" {
				return
			}
			if goquery.NodeName(node) == "li" {
				text = "- " + text
			}
			lines = append(lines, text)
		})
	})
	return strings.Join(lines, "\n")
}

// extractField reads the value after label, up to the next known label or
// stop phrase on the same line. A value running to the end of its line is
// accepted only when the next line starts with a stop phrase or the text
// ends.
func extractField(text, label string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	labelRe := regexp.MustCompile(regexp.QuoteMeta(label) + `\s*[:：]?\s*`)
	for _, loc := range labelRe.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		line, after, _ := strings.Cut(rest, "\n")
		value := ""
		if stop := firstStop(line); stop > 0 {
			value = line[:stop]
		} else if strings.TrimSpace(after) == "" || fieldStopAhead.MatchString(after) {
			value = line
		}
		value = strings.TrimSpace(trailingBar.ReplaceAllString(textutil.CleanText(value), ""))
		if value != "" {
			return value
		}
	}
	return ""
}

// firstStop returns the offset of the first stop phrase that leaves a
// non-empty value before it, or -1.
func firstStop(line string) int {
	for _, loc := range fieldStop.FindAllStringIndex(line, -1) {
		if loc[0] > 0 {
			return loc[0]
		}
	}
	return -1
}

func normalizeOrigin(source string) string {
	if strings.TrimSpace(source) == "" {
		return source
	}
	lower := strings.ToLower(source)
	for _, o := range originSourceNames {
		if strings.Contains(lower, o.match) {
			return o.name
		}
	}
	return source
}

// summary renders labeled fields as a "포지션 정보" section.
func summary(fields [][2]string) string {
	var lines []string
	for _, f := range fields {
		if f[1] != "" {
			lines = append(lines, "- "+f[0]+": "+f[1])
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "## **포지션 정보**\n" + strings.Join(lines, "\n")
}
