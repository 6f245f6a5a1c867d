package ai

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"text/template"
)

// LLMDescriptionFormatter asks an LLM to add markdown to a description and
// keeps the answer only when IsContentPreserved accepts it.
type LLMDescriptionFormatter struct {
	provider LLMProvider
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewLLMDescriptionFormatter creates a formatter backed by provider.
func NewLLMDescriptionFormatter(provider LLMProvider, tmpl *template.Template, logger *slog.Logger) *LLMDescriptionFormatter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LLMDescriptionFormatter{
		provider: provider,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// Format returns the reformatted description, or text unchanged when text
// is blank, the call fails or the result does not pass the gate.
func (f *LLMDescriptionFormatter) Format(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	var promptBuf bytes.Buffer
	if err := f.tmpl.Execute(&promptBuf, struct{ Description string }{Description: text}); err != nil {
		f.logger.Warn("render reformat prompt", "error", err)
		return text
	}

	candidate, err := f.provider.Complete(ctx, promptBuf.String())
	if err != nil {
		f.logger.Warn("reformat call failed, keeping original", "error", err)
		return text
	}

	candidate = strings.TrimSpace(candidate)
	if !IsContentPreserved(text, candidate) {
		f.logger.Warn("reformat output altered content, keeping original",
			"original_len", len([]rune(text)),
			"candidate_len", len([]rune(candidate)),
		)
		return text
	}
	return candidate
}
