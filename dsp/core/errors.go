package core

import "errors"

var (
	// ErrInvalidSampleRate indicates a non-positive or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("core: sample rate must be > 0 and finite")
	// ErrInvalidLayout indicates a negative port or parameter count.
	ErrInvalidLayout = errors.New("core: invalid port/parameter layout")
	// ErrParamCount indicates a parameter snapshot of the wrong size.
	ErrParamCount = errors.New("core: parameter count mismatch")
)
