package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually advanced time source shared by services under test.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock starts a clock at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// NewMeetingClock starts a clock on the calendar date of ReferenceTime at the given
// wall-clock time in loc.
func NewMeetingClock(loc *time.Location, hour, minute int) *Clock {
	ref := ReferenceTime()
	return &Clock{current: time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, loc)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc returns Now for injection; a nil clock falls back to time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// MeetingDate is the current date as written to the attendance matrix.
func (c *Clock) MeetingDate() string {
	return c.Now().Format(time.DateOnly)
}
