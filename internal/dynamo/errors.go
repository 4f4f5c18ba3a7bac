package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for simulation operations.
var (
	// ErrNoTrajectory indicates a derived quantity was requested before a
	// successful solve.
	ErrNoTrajectory = errors.New("dynamo: no trajectory (solve has not run)")

	// ErrInvalidParameters indicates a physical parameter or solve argument
	// is outside its valid range.
	ErrInvalidParameters = errors.New("dynamo: invalid parameters")

	// ErrSingularConfiguration indicates the equations of motion hit a
	// vanishing denominator.
	ErrSingularConfiguration = errors.New("dynamo: singular configuration")

	// ErrNonFinite indicates a state vector containing NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched vector lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrCanceled indicates the solver was interrupted by its context.
	ErrCanceled = errors.New("dynamo: solve canceled by context")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// ParamError names the offending parameter. It always matches
// ErrInvalidParameters.
type ParamError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrInvalidParameters, e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameters
}

// Positive returns a ParamError unless v is finite and > 0.
func Positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return &ParamError{Name: name, Value: v, Reason: "must be positive"}
	}
	return nil
}

// NonNegative returns a ParamError unless v is finite and >= 0.
func NonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 1) {
		return &ParamError{Name: name, Value: v, Reason: "must be non-negative"}
	}
	return nil
}
