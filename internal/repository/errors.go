package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrCacheMiss is returned by caches when the key is absent.
	ErrCacheMiss = errors.New("cache miss")
)
