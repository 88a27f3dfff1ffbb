package application

import (
	"context"
	"fmt"

	"github.com/example/club-attendance/internal/persistence"
)

// faultyStore wraps a store and fails selected operations with ErrUnavailable.
type faultyStore struct {
	persistence.TabularStore
	failRead   string
	failAppend string
	failUpdate string
	writes     int
}

func (f *faultyStore) ReadRows(ctx context.Context, table string) ([][]string, error) {
	if table == f.failRead {
		return nil, fmt.Errorf("stub: %w", persistence.ErrUnavailable)
	}
	return f.TabularStore.ReadRows(ctx, table)
}

func (f *faultyStore) AppendRow(ctx context.Context, table string, row []string) error {
	if table == f.failAppend {
		return fmt.Errorf("stub: %w", persistence.ErrUnavailable)
	}
	f.writes++
	return f.TabularStore.AppendRow(ctx, table, row)
}

func (f *faultyStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if table == f.failUpdate {
		return fmt.Errorf("stub: %w", persistence.ErrUnavailable)
	}
	f.writes++
	return f.TabularStore.UpdateCell(ctx, table, row, col, value)
}

func (f *faultyStore) ReplaceRows(ctx context.Context, table string, rows [][]string) error {
	f.writes++
	return f.TabularStore.ReplaceRows(ctx, table, rows)
}

type checkinRecorder struct {
	outcomes []string
}

func (r *checkinRecorder) ObserveCheckin(role, outcome string) {
	r.outcomes = append(r.outcomes, role+":"+outcome)
}
