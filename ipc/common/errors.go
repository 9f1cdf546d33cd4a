package common

import "errors"

// Error taxonomy of the IPC client. Every failure surfaces immediately to
// the caller, nothing is retried or silently recovered. Callers match with
// errors.Is after unwrapping.
var (
	// ErrInvalidWidth is returned when a value width other than
	// 1, 2, 4 or 8 bytes is requested. Raised before any I/O.
	ErrInvalidWidth = errors.New("invalid value width")

	// ErrConnectionFailed is returned when the relay endpoint cannot
	// be reached.
	ErrConnectionFailed = errors.New("connection to relay endpoint failed")

	// ErrIOFailed is returned when the request could not be written or
	// the endpoint closed the connection before sending any reply byte.
	ErrIOFailed = errors.New("socket i/o failed")

	// ErrRemoteRejected is returned when the endpoint answers with the
	// failure status code.
	ErrRemoteRejected = errors.New("relay endpoint rejected the command")

	// ErrBatchTooLarge is returned when appending a command would exceed
	// the preallocated batch capacity.
	ErrBatchTooLarge = errors.New("batch exceeds configured capacity")

	// ErrBatchClosed is returned when a batch is used after finalization.
	ErrBatchClosed = errors.New("batch already finalized")

	// ErrUnknown is returned when the outcome is ambiguous, e.g. the
	// connection dropped after the request was sent but before the
	// reply was fully read.
	ErrUnknown = errors.New("command outcome unknown")
)
