package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func makeTestServer(t *testing.T, statusCode int, body string, capture *responsesRequest) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

var testOptions = GenerationOptions{MaxOutputTokens: 1400, Temperature: 0.1, TopP: 0.9}

func TestComplete_OutputText(t *testing.T) {
	var captured responsesRequest
	srv, client := makeTestServer(t, http.StatusOK, `{"output_text":"## **주요업무**"}`, &captured)

	provider := NewOpenAIProvider(srv.URL+"/", "test-key", "test-model", testOptions, client)
	got, err := provider.Complete(context.Background(), "format this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "## **주요업무**" {
		t.Errorf("got %q", got)
	}

	if captured.Model != "test-model" || captured.Input != "format this" {
		t.Errorf("unexpected request %+v", captured)
	}
	if captured.MaxOutputTokens != 1400 || captured.Temperature != 0.1 || captured.TopP != 0.9 {
		t.Errorf("unexpected generation parameters %+v", captured)
	}
}

func TestComplete_NestedOutput(t *testing.T) {
	body := `{"output":[
		{"type":"reasoning","content":[]},
		{"type":"message","content":[{"type":"output_text","text":"  "},{"type":"output_text","text":"- 운영"}]}
	]}`
	srv, client := makeTestServer(t, http.StatusOK, body, nil)

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", testOptions, client)
	got, err := provider.Complete(context.Background(), "format this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "- 운영" {
		t.Errorf("got %q, want nested text", got)
	}
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`},
		{name: "error object", status: http.StatusOK, body: `{"error":{"message":"bad","type":"invalid_request_error"}}`},
		{name: "no text", status: http.StatusOK, body: `{"output":[]}`},
		{name: "malformed", status: http.StatusOK, body: `not json`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, client := makeTestServer(t, tc.status, tc.body, nil)
			provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", testOptions, client)
			if _, err := provider.Complete(context.Background(), "format this"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
