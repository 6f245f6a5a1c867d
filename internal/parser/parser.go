// Package parser turns a job-posting URL into a model.ParsedJob: it
// classifies the host, fetches the page, runs the matching extractor and
// finishes the description with the configured formatter.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/amishk599/jobcal/internal/adapter"
	"github.com/amishk599/jobcal/internal/model"
)

// Options control dispatch policy.
type Options struct {
	// StrictHosts rejects hosts outside the known boards with
	// model.ErrUnsupportedSource instead of using the generic extractor.
	StrictHosts bool
}

// Parser is safe for concurrent use: it holds no per-call state and every
// call parses its own document.
type Parser struct {
	fetcher    model.Fetcher
	formatter  model.DescriptionFormatter
	extractors map[string]adapter.Extractor
	opts       Options
	logger     *slog.Logger
}

// New creates a Parser with the built-in extractors. The zighang extractor
// fetches through the same fetcher and may delegate to the wanted,
// inthiswork and jobkorea extractors.
func New(fetcher model.Fetcher, formatter model.DescriptionFormatter, logger *slog.Logger, opts Options) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	wanted := adapter.NewWanted()
	jobkorea := adapter.NewJobKorea()
	inthiswork := adapter.NewInthiswork()
	extractors := map[string]adapter.Extractor{
		adapter.SourceGeneric:    adapter.NewGeneric(),
		adapter.SourceWanted:     wanted,
		adapter.SourceJobKorea:   jobkorea,
		adapter.SourceInthiswork: inthiswork,
		adapter.SourceZighang:    adapter.NewZighang(fetcher, logger, wanted, inthiswork, jobkorea),
	}

	return &Parser{
		fetcher:    fetcher,
		formatter:  formatter,
		extractors: extractors,
		opts:       opts,
		logger:     logger,
	}
}

// Classify returns the extractor id for rawURL. It fails with
// model.ErrInvalidURL when the URL has no usable host, and with
// model.ErrUnsupportedSource for unknown hosts under StrictHosts.
func (p *Parser) Classify(rawURL string) (string, error) {
	host, err := hostOf(rawURL)
	if err != nil {
		return "", err
	}
	if source := adapter.SourceForHost(host); source != "" {
		return source, nil
	}
	if p.opts.StrictHosts {
		return "", fmt.Errorf("%s: %w", host, model.ErrUnsupportedSource)
	}
	return adapter.SourceGeneric, nil
}

// Parse fetches rawURL and extracts a posting from it. The only errors are
// model.ErrInvalidURL, model.ErrUnsupportedSource and model.ErrFetchFailure;
// extraction problems come back as a placeholder result with "error" set in
// ParsedData.
func (p *Parser) Parse(ctx context.Context, rawURL string) (model.ParsedJob, error) {
	rawURL = strings.TrimSpace(rawURL)
	source, err := p.Classify(rawURL)
	if err != nil {
		return model.ParsedJob{}, err
	}

	start := time.Now()
	body, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return model.ParsedJob{}, fmt.Errorf("%w: %s: %w", model.ErrFetchFailure, rawURL, err)
	}
	if strings.TrimSpace(body) == "" {
		return model.ParsedJob{}, fmt.Errorf("%w: %s: empty body", model.ErrFetchFailure, rawURL)
	}

	job := p.extract(ctx, source, body)

	if _, failed := job.ParsedData.Get("error").(string); failed {
		p.logger.Warn("extraction failed",
			"url", rawURL,
			"source", source,
			"error", job.ParsedData.String("error"),
		)
		return job, nil
	}

	job = job.WithDescription(p.formatter.Format(ctx, job.Description))

	p.logger.Info("parsed posting",
		"url", rawURL,
		"source", job.Source(),
		"company", job.CompanyName,
		"title", job.JobTitle,
		"has_deadline", job.Deadline != nil,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return job, nil
}

// extract runs the extractor for source over body. A panic that escapes an
// extractor is converted into a failed result here.
func (p *Parser) extract(ctx context.Context, source, body string) (job model.ParsedJob) {
	defer func() {
		if r := recover(); r != nil {
			job = model.FailedParsedJob(source, fmt.Errorf("%v", r))
		}
	}()

	doc, err := adapter.NewDocument(body)
	if err != nil {
		return model.FailedParsedJob(source, err)
	}

	if source == adapter.SourceWanted {
		p.wantedDiagnostics(doc)
	}

	ext, ok := p.extractors[source]
	if !ok {
		ext = p.extractors[adapter.SourceGeneric]
	}
	return ext.Extract(ctx, doc)
}

// wantedDiagnostics logs what the wanted page offered. It never affects the
// result.
func (p *Parser) wantedDiagnostics(doc *adapter.Document) {
	if !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	hasNextData, sections := adapter.WantedDiagnostics(doc)
	p.logger.Debug("wanted page payload",
		"next_data", hasNextData,
		"sections", sections,
		"text_length", len([]rune(doc.Text())),
	)
}

// hostOf returns the lower-cased host of an absolute http(s) URL.
func hostOf(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty url: %w", model.ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%q: %w", rawURL, errors.Join(model.ErrInvalidURL, err))
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%q: %w", rawURL, model.ErrInvalidURL)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("%q: %w", rawURL, model.ErrInvalidURL)
	}
	return host, nil
}
