package dataset

import "errors"

var (
	// ErrNotReady indicates no catalog has been successfully loaded yet.
	// It is distinct from an empty result and must be reported as such.
	ErrNotReady = errors.New("no catalog loaded yet")

	// ErrLoadSuperseded indicates a load finished after a newer load had
	// already installed its snapshot; its result was discarded.
	ErrLoadSuperseded = errors.New("load superseded by a newer load")

	// ErrStoreClosed indicates the store's worker pool has been released.
	ErrStoreClosed = errors.New("dataset store is closed")
)
