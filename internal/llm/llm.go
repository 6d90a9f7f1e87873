package llm

import (
	"context"
	"errors"
)

// Client abstracts generative model providers for schema-constrained extraction.
// Implementations make exactly one provider call per Generate and never retry.
type Client interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// ResponseSchema renders the expected output shape in each provider's dialect.
type ResponseSchema interface {
	JSONSchema() map[string]any
	GeminiSchema() map[string]any
}

// Request captures one extraction call.
type Request struct {
	SystemInstruction string
	UserText          string
	SchemaName        string
	Schema            ResponseSchema
}

// Response is the raw provider output plus accounting data.
type Response struct {
	Text  string
	Model string
	Usage *Usage
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, req Request) (Response, error) {
	_ = ctx
	_ = req
	return Response{}, ErrNotConfigured
}
