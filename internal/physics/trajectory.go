package physics

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/numeric"
)

// trajectoryHolder stores the most recent successful solve of a model.
type trajectoryHolder struct {
	tr *dynamo.Trajectory
}

func (h *trajectoryHolder) set(tr *dynamo.Trajectory) { h.tr = tr }

func (h *trajectoryHolder) has() bool { return h.tr != nil }

func (h *trajectoryHolder) get() (*dynamo.Trajectory, error) {
	if h.tr == nil {
		return nil, dynamo.ErrNoTrajectory
	}
	return h.tr, nil
}

func (h *trajectoryHolder) times() ([]float64, error) {
	tr, err := h.get()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(tr.Times))
	copy(out, tr.Times)
	return out, nil
}

func (h *trajectoryHolder) component(i int) ([]float64, error) {
	tr, err := h.get()
	if err != nil {
		return nil, err
	}
	return tr.Component(i), nil
}

// HasTrajectory reports whether a solve has succeeded.
func (h *trajectoryHolder) HasTrajectory() bool { return h.has() }

// Trajectory returns a copy of the stored trajectory.
func (h *trajectoryHolder) Trajectory() (*dynamo.Trajectory, error) {
	tr, err := h.get()
	if err != nil {
		return nil, err
	}
	return tr.Clone(), nil
}

// solveRequest is what every model hands to integrate.
type solveRequest struct {
	solver dynamo.Solver
	f      dynamo.DerivFunc
	y0     dynamo.State
	dim    int
	angles []int
	T      float64
	n      int
	units  dynamo.AngleUnit
}

func checkSolveArgs(y0 dynamo.State, dim int, T float64, n int) error {
	if !(T > 0) || math.IsInf(T, 1) {
		return &dynamo.ParamError{Name: "T", Value: T, Reason: "must be positive and finite"}
	}
	if n < 1 {
		return &dynamo.ParamError{Name: "n", Value: n, Reason: "must be at least 1"}
	}
	if len(y0) != dim {
		return &dynamo.ParamError{Name: "y0", Value: len(y0), Reason: fmt.Sprintf("must have %d components", dim)}
	}
	if !y0.IsValid() {
		return &dynamo.ParamError{Name: "y0", Value: y0, Reason: "must be finite"}
	}
	return nil
}

// integrate validates the request, converts angle components to radians and
// runs the solver over n evenly spaced times in [0, T].
func integrate(ctx context.Context, req solveRequest) (*dynamo.Trajectory, error) {
	if req.solver == nil {
		return nil, &dynamo.ParamError{Name: "solver", Value: nil, Reason: "must not be nil"}
	}
	if err := checkSolveArgs(req.y0, req.dim, req.T, req.n); err != nil {
		return nil, err
	}

	y := req.y0.Clone()
	switch req.units {
	case dynamo.Radians:
	case dynamo.Degrees:
		for _, i := range req.angles {
			y[i] = numeric.DegToRad(y[i])
		}
	default:
		return nil, &dynamo.ParamError{Name: "units", Value: req.units, Reason: "must be radians or degrees"}
	}

	tEval := numeric.Linspace(0, req.T, req.n)
	tr, err := req.solver.Solve(ctx, req.f, [2]float64{0, req.T}, y, tEval)
	if err != nil {
		return nil, err
	}
	if err := tr.Validate(); err != nil {
		return nil, fmt.Errorf("solver returned an unusable trajectory: %w", err)
	}
	if tr.Len() != len(tEval) {
		return nil, fmt.Errorf("solver returned %d samples for %d times: %w", tr.Len(), len(tEval), dynamo.ErrDimensionMismatch)
	}
	return tr, nil
}

// velocities differentiates position series against the stored times.
func velocities(t []float64, pos ...[]float64) ([][]float64, error) {
	out := make([][]float64, len(pos))
	for i, p := range pos {
		v, err := numeric.Gradient(p, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func kinetic(m float64, vx, vy []float64) []float64 {
	out := make([]float64, len(vx))
	for i := range vx {
		out[i] = 0.5 * m * (vx[i]*vx[i] + vy[i]*vy[i])
	}
	return out
}

func totalEnergy(potential, kinetic func() ([]float64, error)) ([]float64, error) {
	pe, err := potential()
	if err != nil {
		return nil, err
	}
	ke, err := kinetic()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(pe))
	for i := range pe {
		out[i] = pe[i] + ke[i]
	}
	return out, nil
}
