// Package database opens the SQLite store and keeps its schema current.
package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, dbConn *sqlx.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, dbConn.DB, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// CreateMigration writes a new empty SQL migration into dir.
func CreateMigration(name, dir string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}
	// goose.Create reads from the OS filesystem, not the embedded one.
	goose.SetBaseFS(nil)
	return goose.Create(nil, dir, name, "sql")
}
