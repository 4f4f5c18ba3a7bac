package dynamo

import (
	"fmt"
	"math"
)

// Trajectory is the sampled solution of an initial value problem.
// Times[i] is paired with States[i].
type Trajectory struct {
	Times  []float64
	States []State
}

func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.Times)
}

// Dim returns the state dimension, or 0 for an empty trajectory.
func (tr *Trajectory) Dim() int {
	if tr == nil || len(tr.States) == 0 {
		return 0
	}
	return len(tr.States[0])
}

// Component returns a fresh slice holding state component i at every
// sample.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		out[k] = s[i]
	}
	return out
}

// Final returns the last sampled state.
func (tr *Trajectory) Final() State {
	if tr.Len() == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}

func (tr *Trajectory) IsFinite() bool {
	_, bad := tr.FirstNonFinite()
	return !bad
}

// FirstNonFinite reports the first sample whose time or state holds NaN
// or Inf.
func (tr *Trajectory) FirstNonFinite() (int, bool) {
	for i, s := range tr.States {
		if !s.IsValid() || math.IsNaN(tr.Times[i]) || math.IsInf(tr.Times[i], 0) {
			return i, true
		}
	}
	return -1, false
}

// Validate checks the structural invariants: one state per time, uniform
// dimension, strictly increasing times and finite values.
func (tr *Trajectory) Validate() error {
	if tr.Len() == 0 {
		return fmt.Errorf("empty trajectory: %w", ErrNoTrajectory)
	}
	if len(tr.Times) != len(tr.States) {
		return fmt.Errorf("%d times vs %d states: %w", len(tr.Times), len(tr.States), ErrDimensionMismatch)
	}
	dim := tr.Dim()
	for i, s := range tr.States {
		if len(s) != dim {
			return fmt.Errorf("sample %d has dim %d, want %d: %w", i, len(s), dim, ErrDimensionMismatch)
		}
		if i > 0 && !(tr.Times[i] > tr.Times[i-1]) {
			return fmt.Errorf("times not strictly increasing at sample %d: %w", i, ErrInvalidParameters)
		}
	}
	if i, bad := tr.FirstNonFinite(); bad {
		return &SimulationError{Step: i, Time: tr.Times[i], State: tr.States[i].Clone(), Wrapped: ErrNonFinite}
	}
	return nil
}

func (tr *Trajectory) Clone() *Trajectory {
	c := &Trajectory{
		Times:  make([]float64, len(tr.Times)),
		States: make([]State, len(tr.States)),
	}
	copy(c.Times, tr.Times)
	for i, s := range tr.States {
		c.States[i] = s.Clone()
	}
	return c
}
