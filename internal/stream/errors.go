package stream

import "errors"

var (
	// ErrNotConnected is returned by Send when the socket is not open.
	// Non-fatal: the caller surfaces it inline and the payload is dropped.
	ErrNotConnected = errors.New("stream not connected")

	// ErrStopped is returned when the manager was already torn down.
	ErrStopped = errors.New("stream manager stopped")
)
