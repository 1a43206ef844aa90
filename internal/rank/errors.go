package rank

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDamping is returned when the damping factor is outside [0, 1].
	ErrInvalidDamping = errors.New("invalid damping factor: must be within [0, 1]")

	// ErrInvalidSampleCount is returned when fewer than one sample is requested.
	ErrInvalidSampleCount = errors.New("invalid sample count: must be positive")

	// ErrInvalidChains is returned when fewer than one chain is requested.
	ErrInvalidChains = errors.New("invalid chain count: must be positive")

	// ErrNotConverged is the sentinel wrapped by NotConvergedError.
	ErrNotConverged = errors.New("iteration did not converge")
)

// NotConvergedError is returned by Iterate when the iteration cap is
// reached before every page moved by less than the threshold.
type NotConvergedError struct {
	// Passes is the number of relaxation passes performed.
	Passes int

	// MaxDelta is the largest per-page change seen in the final pass.
	MaxDelta float64

	// Threshold is the convergence threshold that was not reached.
	Threshold float64
}

// Error implements the error interface.
func (e *NotConvergedError) Error() string {
	return fmt.Sprintf("iteration did not converge after %d passes (max delta %g, threshold %g)",
		e.Passes, e.MaxDelta, e.Threshold)
}

// Unwrap allows errors.Is(err, ErrNotConverged).
func (e *NotConvergedError) Unwrap() error {
	return ErrNotConverged
}
