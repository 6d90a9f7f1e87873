package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"profile-extractor/internal/llm"
	"profile-extractor/internal/shared/telemetry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds OpenAI client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Timeout bounds each HTTP call. Zero means no client timeout.
	Timeout time.Duration
}

// Client implements llm.Client using OpenAI Chat Completions with strict structured outputs.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: base + "/chat/completions",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Refusal string `json:"refusal,omitempty"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate sends one chat completion constrained to req.Schema and returns the raw content.
// The content is not parsed or repaired here.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	temp := float32(0)
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemInstruction},
			{Role: "user", Content: req.UserText},
		},
		Temperature:    &temp,
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = "response"
		}
		body.ResponseFormat = responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   name,
				Strict: true,
				Schema: req.Schema.JSONSchema(),
			},
		}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.Response{}, fmt.Errorf("openai request timeout: %w", err)
		}
		return llm.Response{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Response{}, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return llm.Response{}, fmt.Errorf("openai status %d", resp.StatusCode)
		}
		return llm.Response{}, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return llm.Response{}, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return llm.Response{}, fmt.Errorf("openai status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return llm.Response{}, fmt.Errorf("openai response missing choices")
	}
	msg := parsed.Choices[0].Message
	if msg.Refusal != "" {
		return llm.Response{}, fmt.Errorf("openai refusal: %s", msg.Refusal)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return llm.Response{}, fmt.Errorf("openai response empty content")
	}

	out := llm.Response{Text: msg.Content, Model: parsed.Model}
	if out.Model == "" {
		out.Model = c.model
	}
	if parsed.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}
	logUsage("openai", out)
	return out, nil
}

func logUsage(provider string, out llm.Response) {
	fields := map[string]any{
		"provider": provider,
		"model":    out.Model,
	}
	if out.Usage != nil {
		fields["prompt_tokens"] = out.Usage.PromptTokens
		fields["completion_tokens"] = out.Usage.CompletionTokens
		fields["total_tokens"] = out.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
