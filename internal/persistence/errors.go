package persistence

import "errors"

var (
	// ErrTableNotFound is returned when the requested table (worksheet) does not exist.
	ErrTableNotFound = errors.New("persistence: table not found")
	// ErrInvalidCell is returned for row or column indexes outside the 1-based grid.
	ErrInvalidCell = errors.New("persistence: invalid cell reference")
	// ErrUnavailable wraps failures to reach the backing store.
	ErrUnavailable = errors.New("persistence: store unavailable")
)
