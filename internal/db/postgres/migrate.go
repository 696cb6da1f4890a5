package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"Folio/internal/db/migrations"
)

// configureGoose points goose at dir on disk, or at the embedded migrations
// when dir is empty, and returns the directory goose should read
func configureGoose(dir string) (string, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		return ".", nil
	}
	goose.SetBaseFS(nil)
	return dir, nil
}

// Migrate applies every pending migration
func Migrate(ctx context.Context, db *sql.DB, dir string) error {
	dir, err := configureGoose(dir)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of every migration
func MigrationStatus(ctx context.Context, db *sql.DB, dir string) error {
	dir, err := configureGoose(dir)
	if err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}
