package application

import (
	"sync"
	"time"
)

// codeCache mirrors the stored meeting code record for a short lease so that
// repeated check-ins do not re-read the MeetingCode table on every request.
// The cached value is the stored record, not the validity verdict, so expiry is
// still evaluated against the current time on every lookup.
type codeCache struct {
	mu        sync.RWMutex
	now       func() time.Time
	ttl       time.Duration
	entry     storedCode
	expiresAt time.Time
	loaded    bool
}

// storedCode is the parsed content of the MeetingCode table. present is false
// when the table holds no usable record.
type storedCode struct {
	code    MeetingCode
	present bool
}

// newCodeCache returns nil for a non-positive ttl, which disables caching.
func newCodeCache(ttl time.Duration, now func() time.Time) *codeCache {
	if ttl <= 0 {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	return &codeCache{now: now, ttl: ttl}
}

func (c *codeCache) Get() (storedCode, bool) {
	if c == nil {
		return storedCode{}, false
	}
	c.mu.RLock()
	entry, expiresAt, loaded := c.entry, c.expiresAt, c.loaded
	c.mu.RUnlock()
	if !loaded {
		return storedCode{}, false
	}
	if c.now().After(expiresAt) {
		c.Invalidate()
		return storedCode{}, false
	}
	return entry, true
}

func (c *codeCache) Store(entry storedCode) {
	if c == nil {
		return
	}
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	c.entry = entry
	c.expiresAt = expiry
	c.loaded = true
	c.mu.Unlock()
}

func (c *codeCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entry = storedCode{}
	c.loaded = false
	c.mu.Unlock()
}
