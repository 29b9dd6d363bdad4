package backend

import "errors"

var (
	// ErrInvalidConfig is returned when a backend cannot be built from the
	// provided options.
	ErrInvalidConfig = errors.New("invalid backend configuration")

	// ErrNotList is returned when a payload is valid JSON but not an array.
	ErrNotList = errors.New("payload is not a JSON array")
)
