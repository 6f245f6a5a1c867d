package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/jobcal/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends deadline reminders to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration
	now        func() time.Time
}

// NewSlackNotifier returns a notifier that posts each posting to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      500 * time.Millisecond,
		now:        time.Now,
	}
}

// Notify posts one Block Kit message per posting. It fails only when no
// message got through; individual failures are logged.
func (s *SlackNotifier) Notify(postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	var failed int
	for i, p := range postings {
		if i > 0 && s.pause > 0 {
			time.Sleep(s.pause)
		}
		if err := s.remind(p); err != nil {
			failed++
			s.logger.Error("slack reminder failed",
				"posting", p.ID,
				"company", p.CompanyName,
				"error", err,
			)
		}
	}

	if failed == len(postings) {
		return fmt.Errorf("slack: none of %d reminders were delivered", failed)
	}
	s.logger.Info("slack reminders delivered", "sent", len(postings)-failed, "failed", failed)
	return nil
}

// remind posts one reminder. A 429 is retried once after the Retry-After
// hint; any other non-200 status is final.
func (s *SlackNotifier) remind(p model.Posting) error {
	body, err := json.Marshal(buildPayload(p, s.now()))
	if err != nil {
		return fmt.Errorf("encoding slack payload: %w", err)
	}

	for attempt := 1; ; attempt++ {
		status, wait, err := s.post(body)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusOK:
			s.logger.Debug("slack reminder sent", "posting", p.ID, "attempts", attempt)
			return nil
		case status == http.StatusTooManyRequests && attempt == 1:
			s.logger.Warn("slack rate limited", "wait", wait)
			time.Sleep(wait)
		default:
			return fmt.Errorf("slack webhook answered %d", status)
		}
	}
}

// post sends body to the webhook. wait is the server's Retry-After hint,
// never less than a second.
func (s *SlackNotifier) post(body []byte) (status int, wait time.Duration, err error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	wait = time.Second
	if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 1 {
		wait = time.Duration(secs) * time.Second
	}
	return resp.StatusCode, wait, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a sample reminder to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	deadline := time.Now().AddDate(0, 0, 3)
	data := model.NewMetadata("test")
	test := model.Posting{
		ID:          0,
		CompanyName: "jobcal",
		JobTitle:    "알림 연동 테스트",
		Deadline:    &deadline,
		OriginalURL: "https://www.wanted.co.kr/",
		Location:    "서울",
		ParsedData:  data,
		CreatedAt:   time.Now(),
	}
	return n.Notify([]model.Posting{test})
}

// DDay renders the days left until deadline the way Korean boards do:
// "D-3", "D-day", or "마감" once it has passed.
func DDay(deadline, now time.Time) string {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = deadline.Date()
	due := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days > 0:
		return fmt.Sprintf("D-%d", days)
	case days == 0:
		return "D-day"
	default:
		return "마감"
	}
}

func buildPayload(p model.Posting, now time.Time) slackPayload {
	deadlineText := "미정"
	countdown := "-"
	if p.Deadline != nil {
		deadlineText = p.Deadline.Format("2006-01-02")
		countdown = DDay(*p.Deadline, now)
	}

	location := p.Location
	if location == "" {
		location = "-"
	}
	source := p.ParsedData.String("source")
	if source == "" {
		source = "-"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "⏰ " + countdown + " " + p.CompanyName + ": " + p.JobTitle},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*회사:*\n" + p.CompanyName},
				{Type: "mrkdwn", Text: "*근무지:*\n" + location},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*마감일:*\n" + deadlineText},
				{Type: "mrkdwn", Text: "*출처:*\n" + source},
			},
		},
		{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "공고 보기"},
					URL:   p.OriginalURL,
					Style: "primary",
				},
			},
		},
		{Type: "divider"},
	}

	return slackPayload{Blocks: blocks}
}
