package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrUnstable indicates a particle reached a NaN or infinite position.
	ErrUnstable = errors.New("scenario: simulation unstable (state diverged)")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("scenario: run canceled by context")
)

// FrameError wraps an error with the frame it occurred in.
type FrameError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
