package store

import "errors"

// Sentinel errors shared by all backends.
var (
	// ErrNotFound is returned for absent snapshots or blobs.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported is returned by blob operations on backends without the
	// DocumentBlobs capability.
	ErrUnsupported = errors.New("operation not supported by this backend")
)
