package rigid

import "errors"

var (
	// ErrDestroyed is returned when stepping a world after Destroy.
	ErrDestroyed = errors.New("rigid: world destroyed")

	// ErrInvalidStep indicates a non-positive or non-finite step size.
	ErrInvalidStep = errors.New("rigid: step size must be positive and finite")

	// ErrInvalidMass indicates a mass that is zero, negative or not finite.
	ErrInvalidMass = errors.New("rigid: mass must be positive and finite")
)
