package physics

import (
	"context"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type DecayParams struct {
	Rate float64
}

// ExponentialDecay models du/dt = -a u. It has a closed-form solution and
// serves as a check on solver accuracy.
type ExponentialDecay struct {
	trajectoryHolder

	params DecayParams
	solver dynamo.Solver
}

func NewExponentialDecay(params DecayParams, solver dynamo.Solver) (*ExponentialDecay, error) {
	if err := dynamo.NonNegative("rate", params.Rate); err != nil {
		return nil, err
	}
	if solver == nil {
		return nil, &dynamo.ParamError{Name: "solver", Value: nil, Reason: "must not be nil"}
	}
	return &ExponentialDecay{params: params, solver: solver}, nil
}

func (e *ExponentialDecay) StateDim() int { return 1 }

func (e *ExponentialDecay) Derive(_ float64, x dynamo.State) dynamo.State {
	return dynamo.State{-e.params.Rate * x[0]}
}

func (e *ExponentialDecay) GetParams() map[string]float64 {
	return map[string]float64{"rate": e.params.Rate}
}

func (e *ExponentialDecay) Solve(ctx context.Context, u0, T float64, n int) error {
	tr, err := integrate(ctx, solveRequest{
		solver: e.solver,
		f:      e.Derive,
		y0:     dynamo.State{u0},
		dim:    1,
		T:      T,
		n:      n,
		units:  dynamo.Radians,
	})
	if err != nil {
		return err
	}
	e.set(tr)
	return nil
}

func (e *ExponentialDecay) T() ([]float64, error) { return e.times() }

func (e *ExponentialDecay) U() ([]float64, error) { return e.component(0) }
