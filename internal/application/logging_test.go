package application

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/example/club-attendance/internal/persistence"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		kind string
	}{
		{nil, ""},
		{ErrInvalidCode, "invalid_code"},
		{fmt.Errorf("wrapped: %w", ErrNoActiveCode), "no_active_code"},
		{ErrMemberNotFound, "member_not_found"},
		{ErrRateLimited, "rate_limited"},
		{fmt.Errorf("decode: %w", ErrInvalidFlowState), "invalid_flow_state"},
		{ErrInvalidTransition, "invalid_transition"},
		{&ValidationError{FieldErrors: map[string]string{"name": "name is required"}}, "validation"},
		{fmt.Errorf("sheets: %w", persistence.ErrUnavailable), "store_unavailable"},
		{fmt.Errorf("sheets: %w", persistence.ErrTableNotFound), "store_misconfigured"},
		{io.EOF, "unexpected"},
	}
	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.kind {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.kind)
		}
	}
}
