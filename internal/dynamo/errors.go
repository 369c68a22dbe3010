package dynamo

import "errors"

// Domain errors for trajectory operations.
var (
	// ErrInvalidMass indicates a non-positive or non-finite black hole mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrDegenerateOrigin indicates a ray launched from r = 0.
	ErrDegenerateOrigin = errors.New("dynamo: ray cannot start at the origin")

	// ErrInvalidInput indicates a NaN or Inf launch coordinate.
	ErrInvalidInput = errors.New("dynamo: launch values must be finite")

	// ErrInvalidSteps indicates a negative step budget.
	ErrInvalidSteps = errors.New("dynamo: step count must be non-negative")

	// ErrInvalidStepSize indicates a non-positive or non-finite affine step.
	ErrInvalidStepSize = errors.New("dynamo: step size must be positive and finite")

	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownIntegrator indicates a name missing from the registry.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrContextCanceled indicates a batch was interrupted between rays.
	ErrContextCanceled = errors.New("dynamo: batch canceled by context")
)

// TraceError wraps an error with the position in the integration where it
// surfaced.
type TraceError struct {
	Step    int
	Lambda  float64
	State   State
	Wrapped error
}

func (e *TraceError) Error() string {
	return e.Wrapped.Error()
}

func (e *TraceError) Unwrap() error {
	return e.Wrapped
}
