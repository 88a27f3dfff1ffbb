package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	c.ObserveCheckin("member", "success")
	c.ObserveCheckin("member", "success")
	c.ObserveCheckin("guest", "invalid_code")
	c.ObserveCodeRegenerated()
	c.ObserveStoreOperation("append_row", "Attendance", time.Millisecond, nil)
	c.ObserveStoreOperation("append_row", "Attendance", time.Millisecond, errors.New("down"))

	if got := testutil.ToFloat64(c.checkins.WithLabelValues("member", "success")); got != 2 {
		t.Fatalf("expected 2 member successes, got %v", got)
	}
	if got := testutil.ToFloat64(c.regenerations); got != 1 {
		t.Fatalf("expected 1 regeneration, got %v", got)
	}
	if got := testutil.ToFloat64(c.storeErrors.WithLabelValues("append_row", "Attendance")); got != 1 {
		t.Fatalf("expected 1 store error, got %v", got)
	}

	again, err := New(reg)
	if err != nil {
		t.Fatalf("re-registering should reuse collectors, got %v", err)
	}
	again.ObserveCodeRegenerated()
	if got := testutil.ToFloat64(c.regenerations); got != 2 {
		t.Fatalf("expected shared regeneration counter, got %v", got)
	}
}

func TestNilCollectors(t *testing.T) {
	t.Parallel()

	var c *Collectors
	c.ObserveCheckin("member", "success")
	c.ObserveCodeRegenerated()
	c.ObserveStoreOperation("read_rows", "Members", time.Second, nil)
}
