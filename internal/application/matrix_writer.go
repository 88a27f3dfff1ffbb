package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/club-attendance/internal/persistence"
)

// MatrixWriter is the single writer for the attendance matrix of one store.
// Every mutation re-reads the table inside the critical section, so the
// "append the date column if absent" step cannot race with another check-in
// served by the same process.
type MatrixWriter struct {
	mu    sync.Mutex
	store persistence.TabularStore
}

// NewMatrixWriter returns a writer bound to store. Create one per store and
// share it between every service that mutates the matrix.
func NewMatrixWriter(store persistence.TabularStore) *MatrixWriter {
	return &MatrixWriter{store: store}
}

// MarkPresent sets the member's cell for date to the presence marker, adding
// the date column and the member row when they do not exist yet.
func (w *MatrixWriter) MarkPresent(ctx context.Context, member Member, date string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	table := persistence.TableAttendanceMatrix
	rows, err := w.store.ReadRows(ctx, table)
	if err != nil {
		return fmt.Errorf("read attendance matrix: %w", err)
	}

	header, err := w.ensureHeader(ctx, rows)
	if err != nil {
		return err
	}

	col := indexOf(header, date) + 1
	if col == 0 {
		col = len(header) + 1
		if err := w.store.UpdateCell(ctx, table, 1, col, date); err != nil {
			return fmt.Errorf("add date column %s: %w", date, err)
		}
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) > 1 && row[1] == member.Phone {
			if err := w.store.UpdateCell(ctx, table, i+1, col, PresenceMarker); err != nil {
				return fmt.Errorf("mark member present: %w", err)
			}
			return nil
		}
	}

	row := make([]string, col)
	row[0] = member.Name
	row[1] = member.Phone
	row[col-1] = PresenceMarker
	if err := w.store.AppendRow(ctx, table, row); err != nil {
		return fmt.Errorf("append member row: %w", err)
	}
	return nil
}

// ensureHeader writes the [Name, Phone] prefix when the matrix is empty or its
// header row is shorter than two cells.
func (w *MatrixWriter) ensureHeader(ctx context.Context, rows [][]string) ([]string, error) {
	table := persistence.TableAttendanceMatrix
	if len(rows) == 0 {
		header := []string{persistence.HeaderMatrixName, persistence.HeaderMatrixPhone}
		if err := w.store.AppendRow(ctx, table, header); err != nil {
			return nil, fmt.Errorf("write matrix header: %w", err)
		}
		return header, nil
	}

	header := append([]string(nil), rows[0]...)
	prefix := []string{persistence.HeaderMatrixName, persistence.HeaderMatrixPhone}
	for i, name := range prefix {
		if i < len(header) {
			continue
		}
		if err := w.store.UpdateCell(ctx, table, 1, i+1, name); err != nil {
			return nil, fmt.Errorf("write matrix header: %w", err)
		}
		header = append(header, name)
	}
	return header, nil
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if normalizeField(v) == target {
			return i
		}
	}
	return -1
}
