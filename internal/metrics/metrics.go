// Package metrics exposes Prometheus collectors for the attendance service.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups the service metrics.
type Collectors struct {
	checkins      *prometheus.CounterVec
	regenerations prometheus.Counter
	storeLatency  *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Collectors that are
// already registered are reused.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		checkins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_checkins_total",
			Help: "Check-in submissions by role and outcome.",
		}, []string{"role", "outcome"}),
		regenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_meeting_code_regenerations_total",
			Help: "Meeting codes generated by administrators.",
		}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendance_store_operation_seconds",
			Help:    "Latency of tabular store operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "table"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_store_errors_total",
			Help: "Failed tabular store operations.",
		}, []string{"operation", "table"}),
	}
	if reg == nil {
		return c, nil
	}

	var err error
	c.checkins, err = register(reg, c.checkins)
	if err != nil {
		return nil, err
	}
	c.regenerations, err = register(reg, c.regenerations)
	if err != nil {
		return nil, err
	}
	c.storeLatency, err = register(reg, c.storeLatency)
	if err != nil {
		return nil, err
	}
	c.storeErrors, err = register(reg, c.storeErrors)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

// ObserveCheckin counts a check-in attempt.
func (c *Collectors) ObserveCheckin(role, outcome string) {
	if c == nil {
		return
	}
	c.checkins.WithLabelValues(role, outcome).Inc()
}

// ObserveCodeRegenerated counts a meeting code regeneration.
func (c *Collectors) ObserveCodeRegenerated() {
	if c == nil {
		return
	}
	c.regenerations.Inc()
}

// ObserveStoreOperation implements persistence.OperationObserver.
func (c *Collectors) ObserveStoreOperation(operation, table string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.storeLatency.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		c.storeErrors.WithLabelValues(operation, table).Inc()
	}
}
