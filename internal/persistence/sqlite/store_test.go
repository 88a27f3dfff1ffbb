package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/example/club-attendance/internal/persistence"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	store, err := Open("file:" + filepath.Join(dir, "attendance.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := store.EnsureTables(context.Background(), persistence.Tables()...); err != nil {
		t.Fatalf("failed to register tables: %v", err)
	}
	return store
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate should be a no-op, got %v", err)
	}

	versions, err := store.AppliedVersions(ctx)
	if err != nil {
		t.Fatalf("AppliedVersions failed: %v", err)
	}
	if !reflect.DeepEqual(versions, []string{"001", "002"}) {
		t.Fatalf("unexpected applied versions: %v", versions)
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("unknown table", func(t *testing.T) {
		if _, err := store.ReadRows(ctx, "Nope"); !errors.Is(err, persistence.ErrTableNotFound) {
			t.Fatalf("expected ErrTableNotFound, got %v", err)
		}
		if err := store.AppendRow(ctx, "Nope", []string{"x"}); !errors.Is(err, persistence.ErrTableNotFound) {
			t.Fatalf("expected ErrTableNotFound on append, got %v", err)
		}
	})

	t.Run("append preserves order and empty cells", func(t *testing.T) {
		if err := store.AppendRow(ctx, persistence.TableGuest, []string{"ts", "Meera", "None", "", "TMAB12"}); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
		if err := store.AppendRow(ctx, persistence.TableGuest, []string{"ts2", "Kiran"}); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
		rows, err := store.ReadRows(ctx, persistence.TableGuest)
		if err != nil {
			t.Fatalf("ReadRows failed: %v", err)
		}
		expected := [][]string{
			{"ts", "Meera", "None", "", "TMAB12"},
			{"ts2", "Kiran"},
		}
		if !reflect.DeepEqual(rows, expected) {
			t.Fatalf("unexpected rows: %#v", rows)
		}
	})

	t.Run("update cell upserts", func(t *testing.T) {
		if err := store.ReplaceRows(ctx, persistence.TableAttendanceMatrix, [][]string{{"Name", "Phone"}, {"Asha", "9876500000"}}); err != nil {
			t.Fatalf("ReplaceRows failed: %v", err)
		}
		if err := store.UpdateCell(ctx, persistence.TableAttendanceMatrix, 1, 3, "2024-05-01"); err != nil {
			t.Fatalf("UpdateCell failed: %v", err)
		}
		if err := store.UpdateCell(ctx, persistence.TableAttendanceMatrix, 2, 3, "1"); err != nil {
			t.Fatalf("UpdateCell failed: %v", err)
		}
		if err := store.UpdateCell(ctx, persistence.TableAttendanceMatrix, 2, 3, "1"); err != nil {
			t.Fatalf("repeated UpdateCell failed: %v", err)
		}
		rows, err := store.ReadRows(ctx, persistence.TableAttendanceMatrix)
		if err != nil {
			t.Fatalf("ReadRows failed: %v", err)
		}
		expected := [][]string{
			{"Name", "Phone", "2024-05-01"},
			{"Asha", "9876500000", "1"},
		}
		if !reflect.DeepEqual(rows, expected) {
			t.Fatalf("unexpected grid: %#v", rows)
		}
	})

	t.Run("update cell rejects invalid references", func(t *testing.T) {
		if err := store.UpdateCell(ctx, persistence.TableAttendanceMatrix, 1, 0, "x"); !errors.Is(err, persistence.ErrInvalidCell) {
			t.Fatalf("expected ErrInvalidCell, got %v", err)
		}
	})

	t.Run("replace rows clears the table", func(t *testing.T) {
		first := [][]string{{"Meeting Code", "Expiry Timestamp"}, {"TMAAAA", "2024-05-01 20:00:00"}, {"stale"}}
		if err := store.ReplaceRows(ctx, persistence.TableMeetingCode, first); err != nil {
			t.Fatalf("ReplaceRows failed: %v", err)
		}
		second := [][]string{{"Meeting Code", "Expiry Timestamp"}, {"TMBBBB", "2024-05-08 20:00:00"}}
		if err := store.ReplaceRows(ctx, persistence.TableMeetingCode, second); err != nil {
			t.Fatalf("ReplaceRows failed: %v", err)
		}
		rows, err := store.ReadRows(ctx, persistence.TableMeetingCode)
		if err != nil {
			t.Fatalf("ReadRows failed: %v", err)
		}
		if !reflect.DeepEqual(rows, second) {
			t.Fatalf("unexpected rows: %#v", rows)
		}
	})
}
