package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrUnauthorized indicates the API rejected the poster token.
	// Operator-visible in logs; never fatal to the display.
	ErrUnauthorized = errors.New("poster token rejected by API")

	// ErrMalformed indicates the API returned an unparsable payload.
	// The cycle discards it and keeps the prior cache.
	ErrMalformed = errors.New("malformed API payload")

	// ErrTransient indicates a network failure or server-side error.
	// Retried on the next refresh cycle.
	ErrTransient = errors.New("transient API failure")

	// ErrNotCached indicates the requested poster has no cache entry.
	ErrNotCached = errors.New("poster not cached")

	// ErrOffline indicates the connectivity probe reported no network.
	// This is an expected state, not a fault.
	ErrOffline = errors.New("network unreachable")
)
