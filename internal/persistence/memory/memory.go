package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/club-attendance/internal/persistence"
)

// Storage provides an in-memory tabular store keyed by table name.
type Storage struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

// New returns a Storage with the given tables created empty.
func New(tables ...string) *Storage {
	s := &Storage{tables: make(map[string][][]string, len(tables))}
	for _, name := range tables {
		s.tables[name] = nil
	}
	return s
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// Seed replaces the contents of a table, creating it when absent.
func (s *Storage) Seed(table string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = persistence.CloneRows(rows)
}

// ReadRows returns a copy of every row in the table.
func (s *Storage) ReadRows(ctx context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("memory: %s: %w", table, persistence.ErrTableNotFound)
	}
	return persistence.CloneRows(rows), nil
}

// AppendRow adds a row after the last non-empty row.
func (s *Storage) AppendRow(ctx context.Context, table string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("memory: %s: %w", table, persistence.ErrTableNotFound)
	}
	s.tables[table] = append(rows, append([]string(nil), row...))
	return nil
}

// UpdateCell writes a single cell, growing the grid when needed.
func (s *Storage) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("memory: %s R%dC%d: %w", table, row, col, persistence.ErrInvalidCell)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("memory: %s: %w", table, persistence.ErrTableNotFound)
	}
	for len(rows) < row {
		rows = append(rows, nil)
	}
	target := rows[row-1]
	for len(target) < col {
		target = append(target, "")
	}
	target[col-1] = value
	rows[row-1] = target
	s.tables[table] = rows
	return nil
}

// ReplaceRows clears the table and writes the provided rows.
func (s *Storage) ReplaceRows(ctx context.Context, table string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table]; !ok {
		return fmt.Errorf("memory: %s: %w", table, persistence.ErrTableNotFound)
	}
	s.tables[table] = persistence.CloneRows(rows)
	return nil
}
