package persistence

import (
	"context"
	"time"
)

// OperationObserver receives the outcome of each store operation.
type OperationObserver interface {
	ObserveStoreOperation(operation, table string, duration time.Duration, err error)
}

// Instrumented decorates a TabularStore and reports latency and failures.
type Instrumented struct {
	next     TabularStore
	observer OperationObserver
	now      func() time.Time
}

// NewInstrumented wraps next. A nil observer disables reporting.
func NewInstrumented(next TabularStore, observer OperationObserver) *Instrumented {
	return &Instrumented{next: next, observer: observer, now: time.Now}
}

func (i *Instrumented) observe(operation, table string, start time.Time, err error) {
	if i.observer == nil {
		return
	}
	i.observer.ObserveStoreOperation(operation, table, i.now().Sub(start), err)
}

// ReadRows implements TabularStore.
func (i *Instrumented) ReadRows(ctx context.Context, table string) (rows [][]string, err error) {
	start := i.now()
	defer func() { i.observe("read_rows", table, start, err) }()
	rows, err = i.next.ReadRows(ctx, table)
	return
}

// AppendRow implements TabularStore.
func (i *Instrumented) AppendRow(ctx context.Context, table string, row []string) (err error) {
	start := i.now()
	defer func() { i.observe("append_row", table, start, err) }()
	err = i.next.AppendRow(ctx, table, row)
	return
}

// UpdateCell implements TabularStore.
func (i *Instrumented) UpdateCell(ctx context.Context, table string, row, col int, value string) (err error) {
	start := i.now()
	defer func() { i.observe("update_cell", table, start, err) }()
	err = i.next.UpdateCell(ctx, table, row, col, value)
	return
}

// ReplaceRows implements TabularStore.
func (i *Instrumented) ReplaceRows(ctx context.Context, table string, rows [][]string) (err error) {
	start := i.now()
	defer func() { i.observe("replace_rows", table, start, err) }()
	err = i.next.ReplaceRows(ctx, table, rows)
	return
}
