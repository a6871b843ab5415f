package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrLockHeld means another request holds the room's advisory lock.
	ErrLockHeld = errors.New("room lock already held")

	// ErrStaleStatus means a guarded status update matched no document:
	// the booking's status changed between read and write.
	ErrStaleStatus = errors.New("booking status changed concurrently")
)
