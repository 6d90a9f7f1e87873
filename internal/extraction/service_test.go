package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"profile-extractor/internal/extract"
	"profile-extractor/internal/profile"
	"profile-extractor/internal/shared/storage/object/local"
)

func TestExtractSkillsScenario(t *testing.T) {
	client := &staticLLM{text: `{"basics":{"name":"Jane Doe","summary":"Backend engineer. Skills: Go, Rust"},"skills":[{"name":"Go"},{"name":"Rust"}]}`}
	svc := newTestService(t, client)

	result, err := svc.Extract(context.Background(), Document{
		Data:     []byte("Jane Doe\nBackend engineer.\nSkills: Go, Rust"),
		FileName: "resume.txt",
		MimeType: "text/plain",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.ID == "" {
		t.Fatal("expected extraction id")
	}
	p := result.Profile
	if p.Basics.Name != "Jane Doe" {
		t.Fatalf("unexpected name %q", p.Basics.Name)
	}
	if strings.Contains(p.Basics.Summary, "Skills") {
		t.Fatalf("summary contains section header: %q", p.Basics.Summary)
	}
	if len(p.Skills) != 2 || p.Skills[0].Name != "Go" || p.Skills[1].Name != "Rust" {
		t.Fatalf("unexpected skills: %+v", p.Skills)
	}
	for name, n := range map[string]int{
		"projects":      len(p.Projects),
		"experience":    len(p.Experience),
		"education":     len(p.Education),
		"achievements":  len(p.Achievements),
		"otherSections": len(p.OtherSections),
	} {
		if n != 0 {
			t.Fatalf("expected empty %s, got %d", name, n)
		}
	}

	if client.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", client.calls)
	}
	if client.last.UserText != "Jane Doe\nBackend engineer.\nSkills: Go, Rust" {
		t.Fatalf("expected extracted text as user payload, got %q", client.last.UserText)
	}
	if client.last.Schema == nil || client.last.SchemaName != SchemaName {
		t.Fatal("expected schema passed to provider")
	}
}

func TestExtractUsesProvidedID(t *testing.T) {
	svc := newTestService(t, &staticLLM{text: `{}`})

	result, err := svc.Extract(context.Background(), Document{ID: "fixed-id", Data: []byte("hello"), FileName: "a.txt"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.ID != "fixed-id" {
		t.Fatalf("expected provided id, got %q", result.ID)
	}
}

func TestExtractNoDocument(t *testing.T) {
	client := &staticLLM{text: `{}`}
	svc := newTestService(t, client)

	_, err := svc.Extract(context.Background(), Document{FileName: "empty.pdf"})
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("expected no provider call without a document")
	}
}

func TestExtractTextStageFailure(t *testing.T) {
	client := &staticLLM{text: `{}`}
	svc := newTestService(t, client)

	_, err := svc.Extract(context.Background(), Document{Data: []byte("%PDF-1.4 broken"), FileName: "cv.pdf", MimeType: "application/pdf"})
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageText {
		t.Fatalf("expected text stage error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("expected no provider call after text failure")
	}

	_, err = svc.Extract(context.Background(), Document{Data: []byte("   \n\t"), FileName: "blank.txt"})
	if !errors.Is(err, extract.ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestExtractProviderFailurePropagates(t *testing.T) {
	providerErr := errors.New("upstream unavailable")
	client := &staticLLM{err: providerErr}
	svc := newTestService(t, client)

	_, err := svc.Extract(context.Background(), Document{Data: []byte("Jane Doe"), FileName: "a.txt"})
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageProvider {
		t.Fatalf("expected provider stage error, got %v", err)
	}
	if !errors.Is(err, providerErr) {
		t.Fatalf("expected provider error unchanged, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected no retries, got %d calls", client.calls)
	}
}

func TestExtractNonJSONOutputIsExtractionFailure(t *testing.T) {
	svc := newTestService(t, &staticLLM{text: "Here is the profile you asked for!"})

	_, err := svc.Extract(context.Background(), Document{Data: []byte("Jane Doe"), FileName: "a.txt"})
	var failure *profile.ExtractionFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected ExtractionFailure, got %v", err)
	}
	if !errors.Is(err, profile.ErrNotJSON) {
		t.Fatalf("expected ErrNotJSON, got %v", err)
	}
}

func TestExtractArchivesFailedOutput(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, &staticLLM{text: "[1,2,3]"})
	svc.Archive = &Archive{
		Store: local.New(dir),
		Now:   func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) },
	}

	_, err := svc.Extract(context.Background(), Document{ID: "run-1", Data: []byte("Jane Doe"), FileName: "cv.txt", MimeType: "text/plain"})
	if !errors.Is(err, profile.ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "failed-outputs", "2026", "03", "04", "run-1.json"))
	if err != nil {
		t.Fatalf("read archived record: %v", err)
	}
	var rec FailureRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("decode archived record: %v", err)
	}
	if rec.RawOutput != "[1,2,3]" || rec.Stage != StageValidate || rec.Model != "test-model" {
		t.Fatalf("unexpected archived record: %+v", rec)
	}
	if rec.PromptHash == "" {
		t.Fatal("expected prompt hash in archived record")
	}

	doc, err := os.ReadFile(filepath.Join(dir, "failed-outputs", "2026", "03", "04", "run-1_cv.txt"))
	if err != nil {
		t.Fatalf("read archived document: %v", err)
	}
	if string(doc) != "Jane Doe" {
		t.Fatalf("unexpected archived document %q", doc)
	}
}

func TestExtractDoesNotArchiveTextFailures(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, &staticLLM{text: "{}"})
	svc.Archive = &Archive{Store: local.New(dir)}

	if _, err := svc.Extract(context.Background(), Document{Data: []byte(" "), FileName: "blank.txt"}); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected nothing archived, found %d entries", len(entries))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc...(truncated)" {
		t.Fatalf("unexpected %q", got)
	}
}
