package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"profile-extractor/internal/llm"
	"profile-extractor/internal/shared/telemetry"
)

type stubSchema struct{}

func (stubSchema) JSONSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}, "required": []string{}, "additionalProperties": false}
}

func (stubSchema) GeminiSchema() map[string]any {
	return map[string]any{"type": "OBJECT"}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	telemetry.SetOutput(io.Discard)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresModelAndKey(t *testing.T) {
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error without model")
	}
	if _, err := NewClient(Config{Model: "gpt-4o-mini"}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestGenerateSendsStrictSchemaRequest(t *testing.T) {
	var mu sync.Mutex
	var lastBody map[string]any
	var lastPath, lastAuth string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		lastBody = payload
		lastPath = r.URL.Path
		lastAuth = r.Header.Get("Authorization")
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4o-mini-2024","choices":[{"message":{"role":"assistant","content":"{\"basics\":{}}"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	})

	resp, err := client.Generate(context.Background(), llm.Request{
		SystemInstruction: "extract",
		UserText:          "resume text",
		SchemaName:        "profile",
		Schema:            stubSchema{},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != `{"basics":{}}` {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Model != "gpt-4o-mini-2024" || resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Fatalf("unexpected response metadata: %+v", resp)
	}

	mu.Lock()
	defer mu.Unlock()
	if lastPath != "/v1/chat/completions" {
		t.Fatalf("unexpected path %q", lastPath)
	}
	if lastAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", lastAuth)
	}
	format := lastBody["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", format["type"])
	}
	schema := format["json_schema"].(map[string]any)
	if schema["strict"] != true || schema["name"] != "profile" {
		t.Fatalf("unexpected json_schema block: %v", schema)
	}
	messages := lastBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	system := messages[0].(map[string]any)
	user := messages[1].(map[string]any)
	if system["role"] != "system" || system["content"] != "extract" {
		t.Fatalf("unexpected system message: %v", system)
	}
	if user["role"] != "user" || user["content"] != "resume text" {
		t.Fatalf("unexpected user message: %v", user)
	}
}

func TestGenerateReturnsContentVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"not json at all"}}]}`))
	})

	resp, err := client.Generate(context.Background(), llm.Request{UserText: "x"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "not json at all" {
		t.Fatalf("expected raw content, got %q", resp.Text)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Fatalf("expected configured model fallback, got %q", resp.Model)
	}
}

func TestGeneratePropagatesProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key","type":"invalid_request_error"}}`, wantMsg: "bad key"},
		{name: "status without body", status: http.StatusBadGateway, body: `upstream`, wantMsg: "status 502"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantMsg: "missing choices"},
		{name: "refusal", status: http.StatusOK, body: `{"choices":[{"message":{"refusal":"cannot help"}}]}`, wantMsg: "refusal"},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"  "}}]}`, wantMsg: "empty content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), llm.Request{UserText: "x"})
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected error containing %q, got %v", tt.wantMsg, err)
			}
			if calls != 1 {
				t.Fatalf("expected exactly one request, got %d", calls)
			}
		})
	}
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, llm.Request{UserText: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
