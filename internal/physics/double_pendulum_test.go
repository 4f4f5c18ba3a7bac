package physics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
)

func newTestDoublePendulum(t *testing.T) *DoublePendulum {
	t.Helper()
	d, err := NewDoublePendulum(DefaultDoublePendulumParams(), integrators.NewRK45())
	if err != nil {
		t.Fatalf("NewDoublePendulum: %v", err)
	}
	return d
}

func TestDelta(t *testing.T) {
	tests := []struct {
		theta1, theta2, want float64
	}{
		{0, 0, 0},
		{0.3, 1.1, 0.8},
		{1.1, 0.3, -0.8},
		{-math.Pi, math.Pi, 2 * math.Pi},
		{123.456, -7.5, -130.956},
	}

	for _, tt := range tests {
		if got := Delta(tt.theta1, tt.theta2); math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("Delta(%v, %v) = %v, want %v", tt.theta1, tt.theta2, got, tt.want)
		}
	}
}

func TestDoublePendulumDeriveReference(t *testing.T) {
	d := newTestDoublePendulum(t)

	tests := []struct {
		name           string
		x              dynamo.State
		alpha1, alpha2 float64
	}{
		{"aligned", dynamo.State{0, 0.15, 0, 0.15}, 0, 0},
		{"upper bent", dynamo.State{0, 0.15, math.Pi / 6, 0.15}, 3.4150779130841977, -7.8737942286340585},
		{"at rest", dynamo.State{0, 0, 0, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx := d.Derive(0, tt.x)
			if dx[0] != tt.x[1] || dx[2] != tt.x[3] {
				t.Errorf("angle rates %v, %v; want %v, %v", dx[0], dx[2], tt.x[1], tt.x[3])
			}
			if math.Abs(dx[1]-tt.alpha1) > 1e-9 {
				t.Errorf("alpha1 = %.16f, want %.16f", dx[1], tt.alpha1)
			}
			if math.Abs(dx[3]-tt.alpha2) > 1e-9 {
				t.Errorf("alpha2 = %.16f, want %.16f", dx[3], tt.alpha2)
			}
		})
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	d := newTestDoublePendulum(t)

	dx1 := d.Derive(0, dynamo.State{0.1, 0, 0.1, 0})
	dx2 := d.Derive(0, dynamo.State{-0.1, 0, -0.1, 0})

	if math.Abs(dx1[1]+dx2[1]) > 1e-12 {
		t.Errorf("expected symmetric alpha1: %f vs %f", dx1[1], dx2[1])
	}
	if math.Abs(dx1[3]+dx2[3]) > 1e-12 {
		t.Errorf("expected symmetric alpha2: %f vs %f", dx1[3], dx2[3])
	}
}

func TestDoublePendulumAccelerations(t *testing.T) {
	d := newTestDoublePendulum(t)
	x := dynamo.State{0.3, 0.2, -0.4, 1.1}

	a1, a2, err := d.Accelerations(x)
	if err != nil {
		t.Fatalf("Accelerations: %v", err)
	}
	dx := d.Derive(0, x)
	if a1 != dx[1] || a2 != dx[3] {
		t.Errorf("Accelerations (%v, %v) disagree with Derive %v", a1, a2, dx)
	}

	if _, _, err := d.Accelerations(dynamo.State{0, 0}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("short state: got %v", err)
	}
}

func TestDoublePendulumSingularConfiguration(t *testing.T) {
	// A massless upper bob makes the denominator L1 (M1 + M2 sin^2 delta)
	// vanish whenever the rods are aligned.
	d := &DoublePendulum{
		params: DoublePendulumParams{M1: 0, M2: 1, L1: 1, L2: 1, Gravity: 9.81},
		solver: integrators.NewRK45(),
	}

	_, _, err := d.Accelerations(dynamo.State{0.2, 0, 0.2, 0})
	if !errors.Is(err, dynamo.ErrSingularConfiguration) {
		t.Fatalf("expected ErrSingularConfiguration, got %v", err)
	}
	var serr *dynamo.SimulationError
	if !errors.As(err, &serr) || serr.State[0] != 0.2 {
		t.Errorf("expected SimulationError carrying the state, got %v", err)
	}

	dx := d.Derive(0, dynamo.State{0.2, 0, 0.2, 0})
	if dx.IsValid() {
		t.Errorf("Derive hid the singularity: %v", dx)
	}
}

func TestDoublePendulumSolveKeepsTrajectoryOnSingularity(t *testing.T) {
	d := newTestDoublePendulum(t)
	ctx := context.Background()

	if err := d.Solve(ctx, dynamo.State{0.5, 0, 0.2, 0}, 1, 11, dynamo.Radians); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	before, _ := d.Trajectory()

	d.params.M1 = 0
	err := d.Solve(ctx, dynamo.State{0.2, 0, 0.2, 0}, 1, 11, dynamo.Radians)
	if !errors.Is(err, dynamo.ErrSingularConfiguration) {
		t.Fatalf("expected ErrSingularConfiguration, got %v", err)
	}

	after, err := d.Trajectory()
	if err != nil {
		t.Fatalf("trajectory lost: %v", err)
	}
	if after.Len() != before.Len() || after.States[0][0] != 0.5 {
		t.Error("failed solve replaced the stored trajectory")
	}
}

func TestDoublePendulumInvalidParameters(t *testing.T) {
	base := DefaultDoublePendulumParams()
	mutations := map[string]func(*DoublePendulumParams){
		"m1":      func(p *DoublePendulumParams) { p.M1 = 0 },
		"m2":      func(p *DoublePendulumParams) { p.M2 = -1 },
		"l1":      func(p *DoublePendulumParams) { p.L1 = 0 },
		"l2":      func(p *DoublePendulumParams) { p.L2 = math.Inf(1) },
		"gravity": func(p *DoublePendulumParams) { p.Gravity = -9.81 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			_, err := NewDoublePendulum(p, integrators.NewRK45())
			if !errors.Is(err, dynamo.ErrInvalidParameters) {
				t.Errorf("expected ErrInvalidParameters, got %v", err)
			}
			var perr *dynamo.ParamError
			if !errors.As(err, &perr) || perr.Name != name {
				t.Errorf("expected ParamError for %s, got %v", name, err)
			}
		})
	}
}

func TestDoublePendulumAccessorsBeforeSolve(t *testing.T) {
	d := newTestDoublePendulum(t)

	accessors := map[string]func() ([]float64, error){
		"T": d.T, "Theta1": d.Theta1, "Omega1": d.Omega1, "Theta2": d.Theta2, "Omega2": d.Omega2,
		"X1": d.X1, "Y1": d.Y1, "X2": d.X2, "Y2": d.Y2,
		"VX1": d.VX1, "VY1": d.VY1, "VX2": d.VX2, "VY2": d.VY2,
		"Potential": d.Potential, "Kinetic": d.Kinetic, "TotalEnergy": d.TotalEnergy,
	}
	for name, fn := range accessors {
		if _, err := fn(); !errors.Is(err, dynamo.ErrNoTrajectory) {
			t.Errorf("%s: expected ErrNoTrajectory, got %v", name, err)
		}
	}
}

func TestDoublePendulumGeometry(t *testing.T) {
	params := DoublePendulumParams{M1: 1.5, M2: 0.7, L1: 1.2, L2: 0.8, Gravity: 9.81}
	d, err := NewDoublePendulum(params, integrators.NewRK45())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Solve(context.Background(), dynamo.State{100, 0, -45, 2}, 4, 401, dynamo.Degrees); err != nil {
		t.Fatal(err)
	}

	x1, _ := d.X1()
	y1, _ := d.Y1()
	x2, _ := d.X2()
	y2, _ := d.Y2()
	for i := range x1 {
		if r := math.Hypot(x1[i], y1[i]); math.Abs(r-params.L1) > 1e-12 {
			t.Fatalf("sample %d: upper rod length %v", i, r)
		}
		if r := math.Hypot(x2[i]-x1[i], y2[i]-y1[i]); math.Abs(r-params.L2) > 1e-12 {
			t.Fatalf("sample %d: lower rod length %v", i, r)
		}
	}

	theta1, _ := d.Theta1()
	theta2, _ := d.Theta2()
	if math.Abs(theta1[0]-100*math.Pi/180) > 1e-12 || math.Abs(theta2[0]+math.Pi/4) > 1e-12 {
		t.Errorf("initial angles not converted: %v, %v", theta1[0], theta2[0])
	}
	omega2, _ := d.Omega2()
	if omega2[0] != 2 {
		t.Errorf("angular velocity converted: %v", omega2[0])
	}
}

func TestDoublePendulumEnergyConserved(t *testing.T) {
	d := newTestDoublePendulum(t)
	if err := d.Solve(context.Background(), dynamo.State{1.0, 0, -0.5, 0.3}, 5, 10001, dynamo.Radians); err != nil {
		t.Fatal(err)
	}

	total, err := d.TotalEnergy()
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range total {
		if math.Abs(e-total[0])/total[0] > 0.01 {
			t.Fatalf("energy drifted at sample %d: %v vs %v", i, e, total[0])
		}
	}

	tr, _ := d.Trajectory()
	e0 := d.Energy(tr.Final())
	if math.Abs(e0-d.Energy(tr.States[0]))/e0 > 1e-6 {
		t.Errorf("analytic energy drifted: %v -> %v", d.Energy(tr.States[0]), e0)
	}
}
