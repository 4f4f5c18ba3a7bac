package dynamo

import (
	"errors"
	"math"
	"testing"
)

func sampleTrajectory() *Trajectory {
	return &Trajectory{
		Times: []float64{0, 0.5, 1.0},
		States: []State{
			{0.1, 0.0},
			{0.05, -0.2},
			{-0.02, -0.1},
		},
	}
}

func TestTrajectoryComponent(t *testing.T) {
	tr := sampleTrajectory()

	omega := tr.Component(1)
	want := []float64{0.0, -0.2, -0.1}
	for i := range want {
		if omega[i] != want[i] {
			t.Errorf("Component(1)[%d] = %v, want %v", i, omega[i], want[i])
		}
	}

	omega[0] = 42
	if tr.States[0][1] != 0 {
		t.Error("Component returned a view into the trajectory")
	}
}

func TestTrajectoryValidate(t *testing.T) {
	if err := sampleTrajectory().Validate(); err != nil {
		t.Fatalf("valid trajectory rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Trajectory)
		target error
	}{
		{"length mismatch", func(tr *Trajectory) { tr.Times = tr.Times[:2] }, ErrDimensionMismatch},
		{"ragged", func(tr *Trajectory) { tr.States[1] = State{1} }, ErrDimensionMismatch},
		{"non-increasing", func(tr *Trajectory) { tr.Times[2] = 0.5 }, ErrInvalidParameters},
		{"nan", func(tr *Trajectory) { tr.States[2][0] = math.NaN() }, ErrNonFinite},
		{"empty", func(tr *Trajectory) { tr.Times, tr.States = nil, nil }, ErrNoTrajectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := sampleTrajectory()
			tt.mutate(tr)
			if err := tr.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("Validate() = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestTrajectoryFirstNonFinite(t *testing.T) {
	tr := sampleTrajectory()
	if !tr.IsFinite() {
		t.Fatal("finite trajectory reported non-finite")
	}

	tr.States[1][1] = math.Inf(1)
	idx, bad := tr.FirstNonFinite()
	if !bad || idx != 1 {
		t.Errorf("FirstNonFinite() = (%d, %v), want (1, true)", idx, bad)
	}
	if tr.IsFinite() {
		t.Error("IsFinite() = true with Inf sample")
	}
}

func TestTrajectoryClone(t *testing.T) {
	tr := sampleTrajectory()
	c := tr.Clone()
	c.Times[0] = 7
	c.States[0][0] = 7
	if tr.Times[0] != 0 || tr.States[0][0] != 0.1 {
		t.Error("Clone shares memory with the original")
	}
	if c.Len() != 3 || c.Dim() != 2 {
		t.Errorf("Clone Len/Dim = %d/%d, want 3/2", c.Len(), c.Dim())
	}
	if got := tr.Final(); got[0] != -0.02 {
		t.Errorf("Final() = %v", got)
	}
}
