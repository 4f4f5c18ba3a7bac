package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// checkProblem validates the arguments shared by every solver and returns
// the state dimension.
func checkProblem(f dynamo.DerivFunc, span [2]float64, y0 dynamo.State, tEval []float64) error {
	if f == nil {
		return &dynamo.ParamError{Name: "derivative", Value: nil, Reason: "must not be nil"}
	}
	if !(span[1] > span[0]) || math.IsInf(span[0], 0) || math.IsInf(span[1], 0) {
		return &dynamo.ParamError{Name: "span", Value: span, Reason: "must be a finite interval with end > start"}
	}
	if len(y0) == 0 {
		return &dynamo.ParamError{Name: "y0", Value: y0, Reason: "must not be empty"}
	}
	if !y0.IsValid() {
		return &dynamo.SimulationError{Time: span[0], State: y0.Clone(), Wrapped: dynamo.ErrNonFinite}
	}
	if len(tEval) == 0 {
		return &dynamo.ParamError{Name: "t_eval", Value: len(tEval), Reason: "must hold at least one time"}
	}
	for i, t := range tEval {
		if t < span[0] || t > span[1] || math.IsNaN(t) {
			return &dynamo.ParamError{Name: "t_eval", Value: t, Reason: fmt.Sprintf("outside span %v", span)}
		}
		if i > 0 && t < tEval[i-1] {
			return &dynamo.ParamError{Name: "t_eval", Value: t, Reason: "must be non-decreasing"}
		}
	}
	return nil
}

// evalDerivative calls f once and checks the result shape.
func evalDerivative(f dynamo.DerivFunc, t float64, x dynamo.State, step int) (dynamo.State, error) {
	dx := f(t, x)
	if len(dx) != len(x) {
		return nil, fmt.Errorf("derivative returned %d components for %d-dim state: %w",
			len(dx), len(x), dynamo.ErrDimensionMismatch)
	}
	if !dx.IsValid() {
		return nil, &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: dynamo.ErrNonFinite}
	}
	return dx, nil
}

func canceled(ctx context.Context, step int, t float64, x dynamo.State) error {
	select {
	case <-ctx.Done():
		return &dynamo.SimulationError{
			Step:    step,
			Time:    t,
			State:   x.Clone(),
			Wrapped: fmt.Errorf("%w: %w", dynamo.ErrCanceled, ctx.Err()),
		}
	default:
		return nil
	}
}

type stepFunc func(f dynamo.DerivFunc, t float64, x dynamo.State, dt float64) dynamo.State

// solveFixed drives a single-step method across tEval, splitting every
// interval into equal sub-steps no longer than maxDt.
func solveFixed(ctx context.Context, step stepFunc, maxDt float64, f dynamo.DerivFunc, span [2]float64, y0 dynamo.State, tEval []float64) (*dynamo.Trajectory, error) {
	if err := checkProblem(f, span, y0, tEval); err != nil {
		return nil, err
	}
	if err := dynamo.Positive("dt", maxDt); err != nil {
		return nil, err
	}
	if _, err := evalDerivative(f, span[0], y0, 0); err != nil {
		return nil, err
	}

	tr := &dynamo.Trajectory{
		Times:  make([]float64, 0, len(tEval)),
		States: make([]dynamo.State, 0, len(tEval)),
	}

	x := y0.Clone()
	t := span[0]
	steps := 0

	for _, target := range tEval {
		if err := canceled(ctx, steps, t, x); err != nil {
			return tr, err
		}

		if gap := target - t; gap > 0 {
			n := int(math.Ceil(gap / maxDt))
			h := gap / float64(n)
			for i := 0; i < n; i++ {
				x = step(f, t, x, h)
				steps++
				if i == n-1 {
					t = target
				} else {
					t += h
				}
				if !x.IsValid() {
					return tr, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrNonFinite}
				}
			}
		}

		tr.Times = append(tr.Times, target)
		tr.States = append(tr.States, x.Clone())
	}

	return tr, nil
}
