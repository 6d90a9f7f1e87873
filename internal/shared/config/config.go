package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultShareTTL      = 30 * 24 * time.Hour
	defaultSweepInterval = time.Hour
	defaultMaxUpload     = 10 << 20 // 10MB
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	LLMProvider       string
	LLMModel          string
	LLMAPIKey         string
	LLMBaseURL        string
	LLMTimeoutSeconds int

	ShareStore         string
	DatabaseURL        string
	SQLitePath         string
	ShareTTL           time.Duration
	ShareSweepInterval time.Duration

	MaxUploadBytes         int64
	ExtractRateLimitPerMin int

	ArchiveStore  string
	LocalStoreDir string
	AWSRegion     string
	S3Bucket      string
	S3Prefix      string
	S3KMSKeyID    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "gemini"))

	shareStore := normalizeShareStore(getEnv("SHARE_STORE", ""), dbURL)
	if env == "production" && shareStore == "memory" {
		log.Printf("SHARE_STORE=memory in production; shares will not survive restarts")
	}

	return Config{
		Port:                   getEnv("PORT", "8080"),
		Env:                    env,
		CORSAllowOrigin:        splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LLMProvider:            provider,
		LLMModel:               getEnv("LLM_MODEL", defaultModel(provider)),
		LLMAPIKey:              apiKey(provider),
		LLMBaseURL:             getEnv("LLM_BASE_URL", ""),
		LLMTimeoutSeconds:      getEnvInt("LLM_TIMEOUT_SECONDS", 0),
		ShareStore:             shareStore,
		DatabaseURL:            dbURL,
		SQLitePath:             getEnv("SQLITE_PATH", "./data/shares.db"),
		ShareTTL:               getEnvDuration("SHARE_TTL", defaultShareTTL),
		ShareSweepInterval:     getEnvDuration("SHARE_SWEEP_INTERVAL", defaultSweepInterval),
		MaxUploadBytes:         int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUpload)),
		ExtractRateLimitPerMin: getEnvInt("RATE_LIMIT_EXTRACT_PER_MIN", 0),
		ArchiveStore:           normalizeArchiveStore(getEnv("ARCHIVE_STORE", "none")),
		LocalStoreDir:          getEnv("LOCAL_STORE_DIR", "./data/archive"),
		AWSRegion:              getEnv("AWS_REGION", ""),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		S3Prefix:               getEnv("S3_PREFIX", ""),
		S3KMSKeyID:             getEnv("S3_KMS_KEY_ID", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

// apiKey prefers the generic LLM_API_KEY, then the provider-specific variable.
func apiKey(provider string) string {
	if key := strings.TrimSpace(os.Getenv("LLM_API_KEY")); key != "" {
		return key
	}
	switch provider {
	case "openai":
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case "gemini":
		return strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	default:
		return ""
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-2.0-flash"
	default:
		return ""
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	case "none", "":
		return "none"
	default:
		log.Printf("unknown LLM_PROVIDER %q, extraction disabled", raw)
		return "none"
	}
}

// normalizeShareStore picks postgres when a DATABASE_URL is present and no store is named.
func normalizeShareStore(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg", "postgresql":
		return "postgres"
	case "sqlite":
		return "sqlite"
	case "memory":
		return "memory"
	case "":
		if strings.TrimSpace(dbURL) != "" {
			return "postgres"
		}
		return "memory"
	default:
		log.Printf("unknown SHARE_STORE %q, using memory", raw)
		return "memory"
	}
}

func normalizeArchiveStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}
