package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	// ErrStale is returned when a detail arrives for a slot that moved on.
	ErrStale = errors.New("stale detail")
)
