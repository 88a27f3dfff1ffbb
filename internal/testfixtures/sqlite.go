package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/club-attendance/internal/persistence"
	"github.com/example/club-attendance/internal/persistence/sqlite"
)

// NewSQLiteStore opens a migrated SQLite store in a temporary directory with
// every table created. The store is closed when the test finishes.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "attendance.db")
	store, err := sqlite.Open("file:" + path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		tb.Fatalf("failed to migrate storage: %v", err)
	}
	if err := store.EnsureTables(ctx, persistence.Tables()...); err != nil {
		tb.Fatalf("failed to create tables: %v", err)
	}
	return store
}
