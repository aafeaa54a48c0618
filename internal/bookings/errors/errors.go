package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrDuplicate is returned when an insert collides with an active booking
	// on the same provider, date and time.
	ErrDuplicate = errors.New("slot already has an active booking")

	// ErrNotActive is returned by a conditional cancel on an already cancelled booking.
	ErrNotActive = errors.New("booking is no longer active")

	// ErrStaleStatus is returned when a status update finds the booking in a
	// different status than the caller read.
	ErrStaleStatus = errors.New("booking status changed concurrently")

	ErrLockHeld = errors.New("slot lock is held by another request")
)
