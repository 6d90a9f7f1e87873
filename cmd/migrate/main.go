package main

// Run share-store migrations:
//   go run ./cmd/migrate
// The dialect follows SHARE_STORE (postgres or sqlite).

import (
	"context"
	"database/sql"
	"log"
	"os"

	"profile-extractor/internal/shared/config"
	"profile-extractor/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var (
		sqlDB   *sql.DB
		dialect string
		err     error
	)
	switch cfg.ShareStore {
	case "postgres":
		dialect = db.DialectPostgres
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	case "sqlite":
		dialect = db.DialectSQLite
		sqlDB, err = db.OpenSQLite(ctx, cfg.SQLitePath, db.DefaultSQLiteOptions())
	default:
		log.Printf("SHARE_STORE=%s needs no migrations", cfg.ShareStore)
		return
	}
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}

	version, err := db.MigrationVersion(ctx, sqlDB, dialect)
	if err != nil {
		log.Printf("failed to read migration version: %v", err)
		os.Exit(1)
	}
	log.Printf("%s share store at migration version %d", dialect, version)
}
