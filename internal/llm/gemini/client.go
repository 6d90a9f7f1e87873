package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"profile-extractor/internal/llm"
	"profile-extractor/internal/shared/telemetry"
)

const apiVersion = "v1beta"

// Config holds Gemini client settings.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API host. Empty uses the SDK default.
	BaseURL string
	// Timeout bounds each HTTP call. Zero means no client timeout.
	Timeout time.Duration
}

// Client implements llm.Client on the Gemini API via the genai SDK.
type Client struct {
	model  string
	models *genai.Models
}

// NewClient constructs a new Gemini client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{model: cfg.Model, models: client.Models}, nil
}

// Generate sends one generateContent call constrained to req.Schema and returns the raw text.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		schema, err := toSchema(req.Schema.GeminiSchema())
		if err != nil {
			return llm.Response{}, fmt.Errorf("gemini response schema: %w", err)
		}
		config.ResponseSchema = schema
	}

	contents := []*genai.Content{genai.NewContentFromText(req.UserText, genai.RoleUser)}
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.Response{}, fmt.Errorf("gemini request timeout: %w", err)
		}
		return llm.Response{}, fmt.Errorf("gemini error: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return llm.Response{}, fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return llm.Response{}, fmt.Errorf("gemini response missing candidates")
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	if candidate.Content != nil {
		for _, p := range candidate.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			text.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return llm.Response{}, fmt.Errorf("gemini response empty content (finish reason %s)", candidate.FinishReason)
	}

	out := llm.Response{Text: text.String(), Model: resp.ModelVersion}
	if out.Model == "" {
		out.Model = c.model
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	fields := map[string]any{"provider": "gemini", "model": out.Model}
	if out.Usage != nil {
		fields["prompt_tokens"] = out.Usage.PromptTokens
		fields["completion_tokens"] = out.Usage.CompletionTokens
		fields["total_tokens"] = out.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
	return out, nil
}

// toSchema decodes the rendered Gemini schema map into the SDK's Schema type.
func toSchema(m map[string]any) (*genai.Schema, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var schema genai.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

var _ llm.Client = (*Client)(nil)
