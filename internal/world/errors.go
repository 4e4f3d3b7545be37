package world

import "errors"

var (
	// ErrInvalidCapacity indicates a non-positive contact budget.
	ErrInvalidCapacity = errors.New("world: max contacts must be positive")

	// ErrInvalidIterations indicates a negative resolver iteration count.
	ErrInvalidIterations = errors.New("world: iterations must not be negative")
)
