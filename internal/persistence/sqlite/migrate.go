package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Migration is a versioned schema change applied exactly once.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

var migrations = []Migration{
	{
		Version:     "001",
		Description: "workbook tables and cells",
		SQL: `
			CREATE TABLE IF NOT EXISTS sheets (
				name TEXT PRIMARY KEY
			);
			CREATE TABLE IF NOT EXISTS cells (
				sheet   TEXT    NOT NULL REFERENCES sheets(name),
				row_idx INTEGER NOT NULL CHECK (row_idx > 0),
				col_idx INTEGER NOT NULL CHECK (col_idx > 0),
				value   TEXT    NOT NULL DEFAULT '',
				PRIMARY KEY (sheet, row_idx, col_idx)
			);
		`,
	},
	{
		Version:     "002",
		Description: "row lookup index",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_cells_sheet_row ON cells (sheet, row_idx);`,
	},
}

// Migrate applies pending migrations in version order.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			execution_time_ms INTEGER
		);
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, migration := range migrations {
		applied, err := s.isVersionApplied(ctx, migration.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := s.executeMigration(ctx, migration); err != nil {
			return err
		}
	}
	return nil
}

// AppliedVersions lists the migration versions recorded in schema_migrations.
func (s *Store) AppliedVersions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

func (s *Store) isVersionApplied(ctx context.Context, version string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE version = ? LIMIT 1`, version).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return true, nil
}

func (s *Store) executeMigration(ctx context.Context, migration Migration) error {
	start := time.Now()
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range splitStatements(migration.SQL) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s (%s): statement %d: %w", migration.Version, migration.Description, i+1, err)
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schema_migrations (version, applied_at, execution_time_ms) VALUES (?, ?, ?)
		`, migration.Version, time.Now().UTC().Format(time.RFC3339), time.Since(start).Milliseconds())
		if err != nil {
			return fmt.Errorf("record migration %s: %w", migration.Version, err)
		}
		return nil
	})
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
