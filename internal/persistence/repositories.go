package persistence

import "context"

// TabularStore exposes the spreadsheet-like operations the attendance workflow
// depends on. Row and column indexes are 1-based; row 1 is the header row.
type TabularStore interface {
	ReadRows(ctx context.Context, table string) ([][]string, error)
	AppendRow(ctx context.Context, table string, row []string) error
	UpdateCell(ctx context.Context, table string, row, col int, value string) error
	ReplaceRows(ctx context.Context, table string, rows [][]string) error
}
