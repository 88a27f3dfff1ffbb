package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/club-attendance/internal/persistence"
	_ "modernc.org/sqlite"
)

// Store implements persistence.TabularStore on top of a SQLite database. Every
// table of the workbook is represented as a set of cells keyed by (sheet, row, col).
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database identified by dsn.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlite: dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite permits a single writer at a time.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureTables registers the provided table names so reads and writes against them succeed.
func (s *Store) EnsureTables(ctx context.Context, tables ...string) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO sheets (name) VALUES (?)`, table); err != nil {
				return fmt.Errorf("register table %s: %w", table, err)
			}
		}
		return nil
	})
}

// ReadRows returns every row of the table ordered by row index.
func (s *Store) ReadRows(ctx context.Context, table string) ([][]string, error) {
	var rows [][]string
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if err := requireTable(ctx, tx, table); err != nil {
			return err
		}

		result, err := tx.QueryContext(ctx, `
			SELECT row_idx, col_idx, value
			FROM cells
			WHERE sheet = ?
			ORDER BY row_idx, col_idx
		`, table)
		if err != nil {
			return err
		}
		defer result.Close()

		for result.Next() {
			var rowIdx, colIdx int
			var value string
			if err := result.Scan(&rowIdx, &colIdx, &value); err != nil {
				return err
			}
			for len(rows) < rowIdx {
				rows = append(rows, nil)
			}
			row := rows[rowIdx-1]
			for len(row) < colIdx {
				row = append(row, "")
			}
			row[colIdx-1] = value
			rows[rowIdx-1] = row
		}
		return result.Err()
	})
	if err != nil {
		return nil, s.mapError(table, "read rows", err)
	}
	return rows, nil
}

// AppendRow writes the row directly after the last populated row.
func (s *Store) AppendRow(ctx context.Context, table string, row []string) error {
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if err := requireTable(ctx, tx, table); err != nil {
			return err
		}

		var last int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(row_idx), 0) FROM cells WHERE sheet = ?`, table).Scan(&last); err != nil {
			return err
		}
		return insertRow(ctx, tx, table, last+1, row)
	})
	return s.mapError(table, "append row", err)
}

// UpdateCell writes a single cell value.
func (s *Store) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("sqlite: %s R%dC%d: %w", table, row, col, persistence.ErrInvalidCell)
	}
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if err := requireTable(ctx, tx, table); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cells (sheet, row_idx, col_idx, value)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (sheet, row_idx, col_idx) DO UPDATE SET value = excluded.value
		`, table, row, col, value)
		return err
	})
	return s.mapError(table, "update cell", err)
}

// ReplaceRows deletes every cell of the table and writes rows in a single transaction.
func (s *Store) ReplaceRows(ctx context.Context, table string, rows [][]string) error {
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if err := requireTable(ctx, tx, table); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE sheet = ?`, table); err != nil {
			return err
		}
		for i, row := range rows {
			if err := insertRow(ctx, tx, table, i+1, row); err != nil {
				return err
			}
		}
		return nil
	})
	return s.mapError(table, "replace rows", err)
}

func requireTable(ctx context.Context, tx *sql.Tx, table string) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sheets WHERE name = ?`, table).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrTableNotFound
	}
	return err
}

func insertRow(ctx context.Context, tx *sql.Tx, table string, rowIdx int, row []string) error {
	for i, value := range row {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cells (sheet, row_idx, col_idx, value) VALUES (?, ?, ?, ?)
		`, table, rowIdx, i+1, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) mapError(table, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrTableNotFound) {
		return fmt.Errorf("sqlite: %s: %w", table, persistence.ErrTableNotFound)
	}
	return fmt.Errorf("sqlite: %s %s: %w: %v", operation, table, persistence.ErrUnavailable, err)
}

// withTransaction executes fn within a transaction, rolling back on error or panic.
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
