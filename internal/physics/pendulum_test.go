package physics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
)

func newTestPendulum(t *testing.T, params PendulumParams) *Pendulum {
	t.Helper()
	p, err := NewPendulum(params, integrators.NewRK45())
	if err != nil {
		t.Fatalf("NewPendulum: %v", err)
	}
	return p
}

func TestPendulumDeriveAtRest(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())

	dx := p.Derive(0, dynamo.State{0, 0})
	if dx[0] != 0 || dx[1] != 0 {
		t.Errorf("expected [0 0] at rest, got %v", dx)
	}
}

func TestPendulumDeriveReference(t *testing.T) {
	params := DefaultPendulumParams()
	params.Length = 2.7
	p := newTestPendulum(t, params)

	dx := p.Derive(0, dynamo.State{math.Pi / 6, 0.15})
	if math.Abs(dx[0]-0.15) > 1e-9 {
		t.Errorf("dtheta = %v, want 0.15", dx[0])
	}
	if math.Abs(dx[1]-(-1.8166666666666664)) > 1e-9 {
		t.Errorf("domega = %v, want -1.81666...", dx[1])
	}
}

func TestPendulumDamping(t *testing.T) {
	params := PendulumParams{Mass: 2, Length: 1, Gravity: 9.81, Damping: 0.5}
	p := newTestPendulum(t, params)

	dx := p.Derive(0, dynamo.State{0, 1})
	if math.Abs(dx[1]-(-0.25)) > 1e-12 {
		t.Errorf("damped alpha = %v, want -0.25", dx[1])
	}
}

func TestPendulumInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		params PendulumParams
	}{
		{"zero mass", PendulumParams{Mass: 0, Length: 1, Gravity: 9.81}},
		{"negative length", PendulumParams{Mass: 1, Length: -1, Gravity: 9.81}},
		{"nan length", PendulumParams{Mass: 1, Length: math.NaN(), Gravity: 9.81}},
		{"negative gravity", PendulumParams{Mass: 1, Length: 1, Gravity: -1}},
		{"negative damping", PendulumParams{Mass: 1, Length: 1, Gravity: 9.81, Damping: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPendulum(tt.params, integrators.NewRK45())
			if !errors.Is(err, dynamo.ErrInvalidParameters) {
				t.Errorf("expected ErrInvalidParameters, got %v", err)
			}
		})
	}

	if _, err := NewPendulum(DefaultPendulumParams(), nil); !errors.Is(err, dynamo.ErrInvalidParameters) {
		t.Errorf("nil solver: got %v", err)
	}
}

func TestPendulumAccessorsBeforeSolve(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())

	if p.HasTrajectory() {
		t.Fatal("fresh pendulum reports a trajectory")
	}

	accessors := map[string]func() ([]float64, error){
		"T": p.T, "Theta": p.Theta, "Omega": p.Omega,
		"X": p.X, "Y": p.Y, "VX": p.VX, "VY": p.VY,
		"Potential": p.Potential, "Kinetic": p.Kinetic, "TotalEnergy": p.TotalEnergy,
	}
	for name, fn := range accessors {
		if _, err := fn(); !errors.Is(err, dynamo.ErrNoTrajectory) {
			t.Errorf("%s: expected ErrNoTrajectory, got %v", name, err)
		}
	}
	if _, err := p.Trajectory(); !errors.Is(err, dynamo.ErrNoTrajectory) {
		t.Errorf("Trajectory: expected ErrNoTrajectory, got %v", err)
	}
}

func TestPendulumSolveRejectsBadArguments(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())
	ctx := context.Background()

	tests := []struct {
		name  string
		y0    dynamo.State
		T     float64
		n     int
		units dynamo.AngleUnit
	}{
		{"zero horizon", dynamo.State{0.1, 0}, 0, 10, dynamo.Radians},
		{"negative horizon", dynamo.State{0.1, 0}, -1, 10, dynamo.Radians},
		{"no samples", dynamo.State{0.1, 0}, 1, 0, dynamo.Radians},
		{"short state", dynamo.State{0.1}, 1, 10, dynamo.Radians},
		{"long state", dynamo.State{0.1, 0, 0}, 1, 10, dynamo.Radians},
		{"nan state", dynamo.State{math.NaN(), 0}, 1, 10, dynamo.Radians},
		{"unknown units", dynamo.State{0.1, 0}, 1, 10, dynamo.AngleUnit(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Solve(ctx, tt.y0, tt.T, tt.n, tt.units)
			if !errors.Is(err, dynamo.ErrInvalidParameters) {
				t.Errorf("expected ErrInvalidParameters, got %v", err)
			}
		})
	}
	if p.HasTrajectory() {
		t.Error("failed solves stored a trajectory")
	}
}

func TestPendulumSolveSampling(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())
	if err := p.Solve(context.Background(), dynamo.State{0.3, 0}, 2, 5, dynamo.Radians); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	times, err := p.T()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.5, 1, 1.5, 2}
	for i := range want {
		if math.Abs(times[i]-want[i]) > 1e-12 {
			t.Errorf("t[%d] = %v, want %v", i, times[i], want[i])
		}
	}

	theta, _ := p.Theta()
	if theta[0] != 0.3 {
		t.Errorf("theta[0] = %v, want initial angle", theta[0])
	}
}

func TestPendulumSingleSample(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())
	if err := p.Solve(context.Background(), dynamo.State{0.3, 1}, 1, 1, dynamo.Radians); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	vx, err := p.VX()
	if err != nil {
		t.Fatal(err)
	}
	if len(vx) != 1 || vx[0] != 0 {
		t.Errorf("single-sample velocity = %v, want [0]", vx)
	}
}

func TestPendulumDegreesMatchRadians(t *testing.T) {
	ctx := context.Background()
	deg := newTestPendulum(t, DefaultPendulumParams())
	rad := newTestPendulum(t, DefaultPendulumParams())

	if err := deg.Solve(ctx, dynamo.State{30, 0.2}, 3, 61, dynamo.Degrees); err != nil {
		t.Fatal(err)
	}
	if err := rad.Solve(ctx, dynamo.State{math.Pi / 6, 0.2}, 3, 61, dynamo.Radians); err != nil {
		t.Fatal(err)
	}

	a, _ := deg.Theta()
	b, _ := rad.Theta()
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			t.Fatalf("theta[%d]: degrees %v, radians %v", i, a[i], b[i])
		}
	}
}

func TestPendulumRigidRod(t *testing.T) {
	params := DefaultPendulumParams()
	params.Length = 2.7
	p := newTestPendulum(t, params)
	if err := p.Solve(context.Background(), dynamo.State{2.5, 1}, 5, 201, dynamo.Radians); err != nil {
		t.Fatal(err)
	}

	x, _ := p.X()
	y, _ := p.Y()
	for i := range x {
		if r := math.Hypot(x[i], y[i]); math.Abs(r-2.7) > 1e-12 {
			t.Fatalf("sample %d off the rod: r = %v", i, r)
		}
	}
}

func TestPendulumEnergyConserved(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())
	if err := p.Solve(context.Background(), dynamo.State{1.0, 0.5}, 5, 5001, dynamo.Radians); err != nil {
		t.Fatal(err)
	}

	total, err := p.TotalEnergy()
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range total {
		if math.Abs(e-total[0])/total[0] > 0.01 {
			t.Fatalf("energy drifted at sample %d: %v vs %v", i, e, total[0])
		}
	}

	// Derived energy agrees with the analytic energy of each state.
	tr, _ := p.Trajectory()
	for i := 1; i < tr.Len()-1; i++ {
		if e := p.Energy(tr.States[i]); math.Abs(e-total[i]) > 1e-4 {
			t.Fatalf("sample %d: derived %v, analytic %v", i, total[i], e)
		}
	}
}

func TestPendulumDampedEnergyDecreases(t *testing.T) {
	params := DefaultPendulumParams()
	params.Damping = 0.3
	p := newTestPendulum(t, params)
	if err := p.Solve(context.Background(), dynamo.State{1.2, 0}, 10, 501, dynamo.Radians); err != nil {
		t.Fatal(err)
	}

	tr, _ := p.Trajectory()
	prev := p.Energy(tr.States[0])
	for i := 1; i < tr.Len(); i++ {
		e := p.Energy(tr.States[i])
		if e > prev+1e-7 {
			t.Fatalf("energy rose at sample %d: %v -> %v", i, prev, e)
		}
		prev = e
	}
	if prev > 0.5*p.Energy(tr.States[0]) {
		t.Errorf("damping removed too little energy: final %v", prev)
	}
}

func TestPendulumResolveReplacesTrajectory(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())
	ctx := context.Background()

	if err := p.Solve(ctx, dynamo.State{0.1, 0}, 1, 11, dynamo.Radians); err != nil {
		t.Fatal(err)
	}
	if err := p.Solve(ctx, dynamo.State{0.4, 0}, 2, 21, dynamo.Radians); err != nil {
		t.Fatal(err)
	}
	theta, _ := p.Theta()
	if len(theta) != 21 || theta[0] != 0.4 {
		t.Errorf("second solve not stored: len=%d theta0=%v", len(theta), theta[0])
	}

	if err := p.Solve(ctx, dynamo.State{0.4}, 2, 21, dynamo.Radians); err == nil {
		t.Fatal("expected arity error")
	}
	theta, _ = p.Theta()
	if len(theta) != 21 {
		t.Error("failed solve discarded the stored trajectory")
	}
}

func TestPendulumTrajectoryIsCopy(t *testing.T) {
	p := newTestPendulum(t, DefaultPendulumParams())
	if err := p.Solve(context.Background(), dynamo.State{0.1, 0}, 1, 3, dynamo.Radians); err != nil {
		t.Fatal(err)
	}
	tr, _ := p.Trajectory()
	tr.States[0][0] = 99

	theta, _ := p.Theta()
	if theta[0] != 0.1 {
		t.Error("Trajectory exposed internal state")
	}
}
