package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GenerationOptions are the sampling parameters sent with every request.
type GenerationOptions struct {
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
}

// OpenAIProvider calls the OpenAI /v1/responses endpoint.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	opts       GenerationOptions
	httpClient *http.Client
}

// NewOpenAIProvider creates a provider targeting the OpenAI API. The HTTP
// client's timeout bounds each call.
func NewOpenAIProvider(baseURL, apiKey, model string, opts GenerationOptions, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		opts:       opts,
		httpClient: httpClient,
	}
}

// responsesRequest mirrors the OpenAI /v1/responses request body.
type responsesRequest struct {
	Model           string  `json:"model"`
	Input           string  `json:"input"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"top_p"`
}

// responsesResponse covers both shapes the generated text can arrive in: the
// flat output_text convenience field or the nested output items.
type responsesResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// text returns the first non-blank generated text.
func (r responsesResponse) text() string {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText
	}
	for _, item := range r.Output {
		for _, c := range item.Content {
			if strings.TrimSpace(c.Text) != "" {
				return c.Text
			}
		}
	}
	return ""
}

// Complete sends prompt to OpenAI and returns the generated text.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := responsesRequest{
		Model:           p.model,
		Input:           prompt,
		MaxOutputTokens: p.opts.MaxOutputTokens,
		Temperature:     p.opts.Temperature,
		TopP:            p.opts.TopP,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	url := p.baseURL + "/responses"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("llm returned HTTP %d: %s", resp.StatusCode, string(respBytes))
	}

	var out responsesResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}

	if out.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", out.Error.Type, out.Error.Message)
	}

	text := out.text()
	if text == "" {
		return "", fmt.Errorf("llm returned no text")
	}
	return text, nil
}
