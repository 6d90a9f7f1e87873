package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"profile-extractor/internal/extraction"
	"profile-extractor/internal/llm"
	"profile-extractor/internal/llm/gemini"
	"profile-extractor/internal/llm/openai"
	"profile-extractor/internal/profile"
	"profile-extractor/internal/shared/config"
	"profile-extractor/internal/shared/server"
	"profile-extractor/internal/shared/storage/db"
	"profile-extractor/internal/shared/storage/object"
	localstore "profile-extractor/internal/shared/storage/object/local"
	s3store "profile-extractor/internal/shared/storage/object/s3"
	"profile-extractor/internal/shares"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Schema            *profile.Schema
	LLM               llm.Client
	ArchiveStore      object.ObjectStore
	ShareRepo         shares.Repo
	ExtractionService *extraction.Service
	ShareService      *shares.Service
	ExtractionHandler *extraction.Handler
	ShareHandler      *shares.Handler
}

// Build constructs every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	schema, err := profile.NewSchema()
	if err != nil {
		return nil, fmt.Errorf("build profile schema: %w", err)
	}

	client, err := BuildLLM(cfg)
	if err != nil {
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("build llm client: %w", err)
		}
		log.Printf("bootstrap: llm client unavailable; extraction disabled: %v", err)
		client = llm.PlaceholderClient{}
	}

	archive, err := buildArchiveStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, shareRepo, err := buildShareRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:       cfg,
		DB:           sqlDB,
		Schema:       schema,
		LLM:          client,
		ArchiveStore: archive,
		ShareRepo:    shareRepo,
	}

	app.ExtractionService = extraction.NewService(client, schema, cfg.LLMProvider)
	if archive != nil {
		app.ExtractionService.Archive = &extraction.Archive{Store: archive}
	}
	app.ShareService = shares.NewService(shareRepo, cfg.ShareTTL)
	app.ExtractionHandler = extraction.NewHandler(app.ExtractionService, cfg.MaxUploadBytes)
	app.ShareHandler = shares.NewHandler(app.ShareService)

	var health func(context.Context) error
	if sqlDB != nil {
		health = sqlDB.PingContext
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		ExtractionHandler: app.ExtractionHandler,
		ShareHandler:      app.ShareHandler,
		HealthCheck:       health,
	})

	return app, nil
}

// StartBackground launches the share sweeper bound to ctx.
func (a *App) StartBackground(ctx context.Context) {
	go shares.RunSweeper(ctx, a.ShareService, a.Config.ShareSweepInterval)
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// BuildLLM returns the configured provider client, or a placeholder when none is set.
func BuildLLM(cfg config.Config) (llm.Client, error) {
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gemini":
		client, err := gemini.NewClient(gemini.Config{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		log.Printf("bootstrap: LLM_PROVIDER=%q; extraction requests will fail until a provider is configured", cfg.LLMProvider)
		return llm.PlaceholderClient{}, nil
	}
}

func buildShareRepo(ctx context.Context, cfg config.Config) (*sql.DB, shares.Repo, error) {
	switch cfg.ShareStore {
	case "postgres":
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: database connect failed; using in-memory share store: %v", err)
				return nil, shares.NewMemoryRepo(), nil
			}
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DialectPostgres); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return sqlDB, &shares.PGRepo{DB: sqlDB}, nil
	case "sqlite":
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath, db.DefaultSQLiteOptions())
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.DialectSQLite); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return sqlDB, &shares.SQLiteRepo{DB: sqlDB}, nil
	default:
		log.Printf("bootstrap: using in-memory share store")
		return nil, shares.NewMemoryRepo(), nil
	}
}

func buildArchiveStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ArchiveStore {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3KMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("build s3 archive: %w", err)
		}
		return store, nil
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
