package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration that cannot be simulated.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrClosed indicates the driver has already been shut down.
	ErrClosed = errors.New("sim: driver closed")

	// ErrUnknownParam indicates a parameter name SetParam does not know.
	ErrUnknownParam = errors.New("sim: unknown parameter")

	// ErrUnstable indicates the body state diverged.
	ErrUnstable = errors.New("sim: simulation unstable (state diverged)")
)

// SimulationError wraps an error with the step at which it happened.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
