package domain

import "errors"

var (
	// ErrMalformedBatch is returned when a payload is not a JSON array of record-like
	// objects. This is the single fatal input condition; per-field shape problems
	// degrade to nil fields instead.
	ErrMalformedBatch = errors.New("batch is not an array of record objects")

	// ErrNoSnapshot is returned when no persisted batch exists to load.
	ErrNoSnapshot = errors.New("no saved batch snapshot found")

	// ErrNoResults is returned when an upstream search matched no products.
	ErrNoResults = errors.New("no products found for keyword")

	// ErrSearchFailure is returned when the upstream search request fails.
	ErrSearchFailure = errors.New("upstream product search failed")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when a batch is not found in the scrape cache.
	ErrCacheMiss = errors.New("cache miss")
)
