package domain

import "errors"

// Sentinel errors for caller concerns. These must propagate as typed errors;
// a silently empty index would corrupt all downstream ranking without signal.
var (
	// ErrEmptyBatch signals that there were no chunks or texts to encode.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrConfiguration signals an invalid component configuration, such as a
	// chunk overlap that is not smaller than the window.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound signals a missing index or metadata file on load.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest signals an invalid caller request, rejected before any
	// encoding work begins.
	ErrBadRequest = errors.New("bad request")
)
