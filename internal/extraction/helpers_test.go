package extraction

import (
	"context"
	"io"
	"testing"

	"profile-extractor/internal/llm"
	"profile-extractor/internal/profile"
	"profile-extractor/internal/shared/telemetry"
)

type staticLLM struct {
	text  string
	err   error
	calls int
	last  llm.Request
}

func (s *staticLLM) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	_ = ctx
	s.calls++
	s.last = req
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Text: s.text, Model: "test-model"}, nil
}

func newTestService(t *testing.T, client llm.Client) *Service {
	t.Helper()
	telemetry.SetOutput(io.Discard)
	return NewService(client, profile.MustSchema(), "test")
}
