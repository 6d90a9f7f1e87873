package extraction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"profile-extractor/internal/extract"
	"profile-extractor/internal/llm"
	"profile-extractor/internal/profile"
	"profile-extractor/internal/shared/metrics"
	"profile-extractor/internal/shared/telemetry"
)

const maxLoggedRawOutput = 2000

// Document is one uploaded file. ID is the extraction id to use; one is
// generated when empty.
type Document struct {
	ID       string
	Data     []byte
	FileName string
	MimeType string
}

// Result is a successful extraction.
type Result struct {
	ID      string
	Profile profile.Profile
	Notes   []string
	Model   string
}

// Service runs the extraction pipeline: text acquisition, prompt construction,
// one provider call and validation. It holds no per-request state.
type Service struct {
	Extractor extract.Extractor
	LLM       llm.Client
	Schema    *profile.Schema
	Validator *profile.Validator
	Archive   *Archive
	Provider  string
}

// NewService wires a Service around schema with the default text extractor.
func NewService(client llm.Client, schema *profile.Schema, provider string) *Service {
	return &Service{
		Extractor: extract.TextExtractor{},
		LLM:       client,
		Schema:    schema,
		Validator: profile.NewValidator(schema),
		Provider:  provider,
	}
}

// Extract turns doc into a Profile. Errors are ErrNoDocument, *StageError or
// *profile.ExtractionFailure.
func (s *Service) Extract(ctx context.Context, doc Document) (Result, error) {
	if len(doc.Data) == 0 {
		return Result{}, ErrNoDocument
	}

	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	start := time.Now()
	metrics.IncExtractionStarted()
	telemetry.Info("extraction.started", map[string]any{
		"extraction_id": id,
		"file_name":     doc.FileName,
		"mime_type":     doc.MimeType,
		"size_bytes":    len(doc.Data),
	})

	text, err := s.Extractor.ExtractText(ctx, doc.Data, doc.MimeType, doc.FileName)
	if err != nil {
		return Result{}, s.fail(ctx, id, start, doc, FailureRecord{Stage: StageText, Error: err.Error()}, &StageError{Stage: StageText, Err: err})
	}

	prompt := BuildPrompt(text)
	promptHash := prompt.Hash()
	resp, err := s.LLM.Generate(ctx, llm.Request{
		SystemInstruction: prompt.System,
		UserText:          prompt.User,
		SchemaName:        SchemaName,
		Schema:            s.Schema,
	})
	if err != nil {
		rec := FailureRecord{Stage: StageProvider, Error: err.Error(), PromptHash: promptHash}
		return Result{}, s.fail(ctx, id, start, doc, rec, &StageError{Stage: StageProvider, Err: err})
	}

	validator := s.Validator
	if validator == nil {
		validator = profile.NewValidator(s.Schema)
	}
	record, notes, err := validator.Validate(resp.Text, text)
	if err != nil {
		rec := FailureRecord{
			Stage:      StageValidate,
			Error:      err.Error(),
			Model:      resp.Model,
			PromptHash: promptHash,
			RawOutput:  resp.Text,
			Notes:      notes,
		}
		return Result{}, s.fail(ctx, id, start, doc, rec, err)
	}

	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(metrics.SinceMillis(start))
	fields := map[string]any{
		"extraction_id": id,
		"provider":      s.Provider,
		"model":         resp.Model,
		"prompt_hash":   promptHash,
		"text_chars":    len(text),
		"duration_ms":   time.Since(start).Milliseconds(),
	}
	if len(notes) > 0 {
		fields["normalization_notes"] = notes
	}
	telemetry.Info("extraction.completed", fields)

	return Result{ID: id, Profile: record, Notes: notes, Model: resp.Model}, nil
}

func (s *Service) fail(ctx context.Context, id string, start time.Time, doc Document, rec FailureRecord, err error) error {
	metrics.IncExtractionFailed(string(rec.Stage))
	metrics.ObserveExtractionDurationMs(metrics.SinceMillis(start))

	fields := map[string]any{
		"extraction_id": id,
		"stage":         string(rec.Stage),
		"provider":      s.Provider,
		"error":         err,
		"duration_ms":   time.Since(start).Milliseconds(),
	}
	if rec.PromptHash != "" {
		fields["prompt_hash"] = rec.PromptHash
	}
	var failure *profile.ExtractionFailure
	if errors.As(err, &failure) {
		fields["raw_output"] = truncate(failure.Raw, maxLoggedRawOutput)
		fields["raw_output_len"] = len(failure.Raw)
	}
	telemetry.Error("extraction.failed", fields)

	// Text acquisition failures are caller input problems; only provider-side failures are archived.
	if s.Archive != nil && rec.Stage != StageText {
		rec.ExtractionID = id
		rec.FileName = doc.FileName
		rec.MimeType = doc.MimeType
		key, archiveErr := s.Archive.Save(context.WithoutCancel(ctx), rec, doc.Data)
		if archiveErr != nil {
			telemetry.Warn("extraction.archive_failed", map[string]any{"extraction_id": id, "error": archiveErr})
		} else if key != "" {
			telemetry.Info("extraction.archived", map[string]any{"extraction_id": id, "key": key})
		}
	}
	return err
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated)"
}
