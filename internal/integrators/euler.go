package integrators

import (
	"context"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Euler is the explicit first-order method. It exists as a baseline for
// energy drift comparisons.
type Euler struct {
	Dt float64
}

func NewEuler() *Euler {
	return &Euler{Dt: 1e-4}
}

func (e *Euler) Step(f dynamo.DerivFunc, t float64, x dynamo.State, dt float64) dynamo.State {
	dx := f(t, x)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

func (e *Euler) Solve(ctx context.Context, f dynamo.DerivFunc, span [2]float64, y0 dynamo.State, tEval []float64) (*dynamo.Trajectory, error) {
	return solveFixed(ctx, e.Step, e.Dt, f, span, y0, tEval)
}
