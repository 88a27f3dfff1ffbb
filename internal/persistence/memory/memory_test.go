package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/club-attendance/internal/persistence"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown tables", func(t *testing.T) {
		storage := New()
		if _, err := storage.ReadRows(ctx, "Missing"); !errors.Is(err, persistence.ErrTableNotFound) {
			t.Fatalf("expected ErrTableNotFound, got %v", err)
		}
		if err := storage.AppendRow(ctx, "Missing", []string{"a"}); !errors.Is(err, persistence.ErrTableNotFound) {
			t.Fatalf("expected ErrTableNotFound on append, got %v", err)
		}
	})

	t.Run("appends and reads rows", func(t *testing.T) {
		storage := New(persistence.TableAttendance)
		if err := storage.AppendRow(ctx, persistence.TableAttendance, []string{"a", "b"}); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
		rows, err := storage.ReadRows(ctx, persistence.TableAttendance)
		if err != nil {
			t.Fatalf("ReadRows failed: %v", err)
		}
		if !reflect.DeepEqual(rows, [][]string{{"a", "b"}}) {
			t.Fatalf("unexpected rows: %#v", rows)
		}

		rows[0][0] = "mutated"
		again, _ := storage.ReadRows(ctx, persistence.TableAttendance)
		if again[0][0] != "a" {
			t.Fatalf("expected ReadRows to return a copy")
		}
	})

	t.Run("update cell grows the grid", func(t *testing.T) {
		storage := New(persistence.TableAttendanceMatrix)
		storage.Seed(persistence.TableAttendanceMatrix, [][]string{{"Name", "Phone"}})

		if err := storage.UpdateCell(ctx, persistence.TableAttendanceMatrix, 1, 3, "2024-05-01"); err != nil {
			t.Fatalf("UpdateCell failed: %v", err)
		}
		if err := storage.UpdateCell(ctx, persistence.TableAttendanceMatrix, 3, 2, "555"); err != nil {
			t.Fatalf("UpdateCell failed: %v", err)
		}

		rows, _ := storage.ReadRows(ctx, persistence.TableAttendanceMatrix)
		expected := [][]string{
			{"Name", "Phone", "2024-05-01"},
			nil,
			{"", "555"},
		}
		if !reflect.DeepEqual(rows, expected) {
			t.Fatalf("unexpected grid: %#v", rows)
		}
	})

	t.Run("update cell validates indexes", func(t *testing.T) {
		storage := New(persistence.TableGuest)
		if err := storage.UpdateCell(ctx, persistence.TableGuest, 0, 1, "x"); !errors.Is(err, persistence.ErrInvalidCell) {
			t.Fatalf("expected ErrInvalidCell, got %v", err)
		}
	})

	t.Run("replace rows clears previous content", func(t *testing.T) {
		storage := New(persistence.TableMeetingCode)
		storage.Seed(persistence.TableMeetingCode, [][]string{{"Meeting Code", "Expiry Timestamp"}, {"TMOLD1", "2024-01-01 10:00:00"}, {"extra"}})

		replacement := [][]string{{"Meeting Code", "Expiry Timestamp"}, {"TMNEW2", "2024-01-02 10:00:00"}}
		if err := storage.ReplaceRows(ctx, persistence.TableMeetingCode, replacement); err != nil {
			t.Fatalf("ReplaceRows failed: %v", err)
		}
		rows, _ := storage.ReadRows(ctx, persistence.TableMeetingCode)
		if !reflect.DeepEqual(rows, replacement) {
			t.Fatalf("unexpected rows after replace: %#v", rows)
		}
	})
}
