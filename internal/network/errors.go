package network

import "errors"

var (
	// ErrCanceled is delivered when a request was canceled before it reached
	// the network.
	ErrCanceled = errors.New("request canceled")

	// ErrQueueClosed is returned by Enqueue after Stop.
	ErrQueueClosed = errors.New("request queue closed")

	// ErrResponseMismatch wraps decode failures: the response body does not
	// match the shape the caller expected. The entity state is left untouched
	// so the caller can retry manually.
	ErrResponseMismatch = errors.New("response body mismatch")
)
