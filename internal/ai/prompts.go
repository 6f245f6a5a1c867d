package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/reformat.md
var reformatPromptRaw string

// ReformatTemplate is the parsed prompt template for description
// reformatting. Parsed once at package init; reused on every Format call.
var ReformatTemplate = template.Must(template.New("reformat").Parse(reformatPromptRaw))
