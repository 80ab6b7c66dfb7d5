package domain

import "errors"

// Sentinel errors for errors.Is() checking. Adapters map them to transport
// status codes.
var (
	// ErrNotFound means no mutation with the requested name is served.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means a downstream dependency could not be reached.
	ErrUnavailable = errors.New("unavailable")

	// ErrInvalidRequest means the request itself is malformed, before any
	// mutation sees it.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRejected means a downstream dependency refused the request.
	ErrRejected = errors.New("rejected by downstream")
)
