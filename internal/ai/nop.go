package ai

import "context"

// NopDescriptionFormatter is used when ai.enabled is false or no API key is
// configured. It returns descriptions unchanged with no LLM calls.
type NopDescriptionFormatter struct{}

// NewNopDescriptionFormatter returns a NopDescriptionFormatter.
func NewNopDescriptionFormatter() *NopDescriptionFormatter {
	return &NopDescriptionFormatter{}
}

// Format returns text unchanged.
func (n *NopDescriptionFormatter) Format(_ context.Context, text string) string {
	return text
}
