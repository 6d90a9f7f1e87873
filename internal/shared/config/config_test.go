package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "GEMINI_API_KEY", "SHARE_STORE", "DATABASE_URL", "SHARE_TTL", "ARCHIVE_STORE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini provider, got %q", cfg.LLMProvider)
	}
	if cfg.ShareStore != "memory" {
		t.Fatalf("expected memory share store without DATABASE_URL, got %q", cfg.ShareStore)
	}
	if cfg.ShareTTL != 30*24*time.Hour {
		t.Fatalf("expected 30 day TTL, got %s", cfg.ShareTTL)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ArchiveStore != "none" {
		t.Fatalf("expected archive disabled, got %q", cfg.ArchiveStore)
	}
}

func TestLoadProviderKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "")

	cfg := Load()
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected openai, got %q", cfg.LLMProvider)
	}
	if cfg.LLMAPIKey != "sk-test" {
		t.Fatalf("expected provider key fallback, got %q", cfg.LLMAPIKey)
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Fatalf("expected default openai model, got %q", cfg.LLMModel)
	}
}

func TestNormalizeShareStore(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		dbURL string
		want  string
	}{
		{name: "implicit postgres", raw: "", dbURL: "postgres://x", want: "postgres"},
		{name: "implicit memory", raw: "", dbURL: "", want: "memory"},
		{name: "sqlite", raw: " SQLite ", dbURL: "postgres://x", want: "sqlite"},
		{name: "alias", raw: "pg", want: "postgres"},
		{name: "unknown", raw: "redis", want: "memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeShareStore(tt.raw, tt.dbURL); got != tt.want {
				t.Fatalf("normalizeShareStore(%q, %q) = %q, want %q", tt.raw, tt.dbURL, got, tt.want)
			}
		})
	}
}

func TestGetEnvDurationRejectsInvalid(t *testing.T) {
	t.Setenv("SHARE_SWEEP_INTERVAL", "soon")
	if got := getEnvDuration("SHARE_SWEEP_INTERVAL", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line    string
		key     string
		val     string
		matched bool
	}{
		{line: "PORT=9090", key: "PORT", val: "9090", matched: true},
		{line: `export LLM_MODEL="gpt-4o"`, key: "LLM_MODEL", val: "gpt-4o", matched: true},
		{line: "# comment", matched: false},
		{line: "NOEQUALS", matched: false},
		{line: "=value", matched: false},
	}
	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		if ok != tt.matched || key != tt.key || val != tt.val {
			t.Fatalf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.line, key, val, ok, tt.key, tt.val, tt.matched)
		}
	}
}
