// Package database applies plain .up.sql migrations for the product
// catalog and order log tables.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migrator executes *.up.sql files in lexical order, one transaction per
// file. Migrations are written to be re-runnable (CREATE TABLE IF NOT
// EXISTS), so no version table is kept.
type Migrator struct {
	db  *sql.DB
	log *slog.Logger
}

func NewMigrator(db *sql.DB, log *slog.Logger) *Migrator {
	if log == nil {
		log = slog.Default()
	}
	return &Migrator{db: db, log: log}
}

// ApplyDir runs every *.up.sql file found directly under dir.
func (m *Migrator) ApplyDir(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("scan migrations dir %q: %w", dir, err)
	}
	if len(files) == 0 {
		m.log.Info("no migrations found", slog.String("dir", dir))
		return nil
	}

	sort.Strings(files)

	for _, path := range files {
		if err := m.apply(ctx, path); err != nil {
			return err
		}
	}

	return nil
}

func (m *Migrator) apply(ctx context.Context, path string) error {
	name := filepath.Base(path)

	// #nosec G304: migration paths come from the deployment, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %q: %w", name, err)
	}

	statements := strings.TrimSpace(string(data))
	if statements == "" {
		m.log.Warn("empty migration skipped", slog.String("file", name))
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, statements); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			m.log.Error("migration rollback failed", slog.String("file", name), slog.Any("error", rbErr))
		}
		return fmt.Errorf("apply migration %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %q: %w", name, err)
	}

	m.log.Info("migration applied", slog.String("file", name))

	return nil
}
