package wave

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGrid indicates a resolution below 3 or a non-positive width.
	ErrInvalidGrid = errors.New("wavesim: invalid grid (resolution < 3 or width <= 0)")

	// ErrInvalidParams indicates a parameter set the stepper would ignore.
	ErrInvalidParams = errors.New("wavesim: invalid wave parameters")

	// ErrUnknownParam indicates SetParam was called with an unknown name.
	ErrUnknownParam = errors.New("wavesim: unknown parameter")

	// ErrNonFinite indicates a NaN or Inf value was produced or supplied.
	ErrNonFinite = errors.New("wavesim: non-finite value")
)

// StepError wraps an error with the tick it was observed on.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
