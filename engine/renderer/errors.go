package renderer

import "errors"

var (
	// ErrInvalidState is returned when an operation needs the static batch after it was released.
	ErrInvalidState = errors.New("invalid renderer state")
	// ErrDevice is returned when the device refuses to record the static batch.
	ErrDevice = errors.New("device error")
)
