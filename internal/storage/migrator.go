package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator applies the bookings schema from a filesystem of goose SQL files.
type Migrator struct {
	provider *goose.Provider
	logger   *zap.Logger
}

func NewMigrator(db *sql.DB, fsys fs.FS, logger *zap.Logger) (*Migrator, error) {
	const operation = "storage.NewMigrator"

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load migrations: %w", operation, err)
	}
	return &Migrator{provider: provider, logger: logger}, nil
}

// Versions lists the migration versions found in the filesystem.
func (m *Migrator) Versions() []int64 {
	sources := m.provider.ListSources()
	out := make([]int64, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Version)
	}
	return out
}

func (m *Migrator) Up(ctx context.Context) error {
	const operation = "storage.Migrator.Up"

	m.logger.Info("Running database migrations...")

	results, err := m.provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", operation, err)
	}
	for _, r := range results {
		m.logger.Info("Migration applied",
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration))
	}

	m.logger.Info("Database migrations completed successfully", zap.Int("applied", len(results)))
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	const operation = "storage.Migrator.Down"

	m.logger.Info("Rolling back last migration...")

	result, err := m.provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to rollback migration: %w", operation, err)
	}

	m.logger.Info("Migration rollback completed", zap.Int64("version", result.Source.Version))
	return nil
}

func (m *Migrator) Status(ctx context.Context) error {
	const operation = "storage.Migrator.Status"

	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to check migration status: %w", operation, err)
	}
	for _, s := range statuses {
		m.logger.Info("Migration status",
			zap.Int64("version", s.Source.Version),
			zap.String("state", string(s.State)),
			zap.Time("applied_at", s.AppliedAt))
	}
	return nil
}
