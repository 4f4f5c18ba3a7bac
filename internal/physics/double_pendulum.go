package physics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type DoublePendulumParams struct {
	M1, M2  float64
	L1, L2  float64
	Gravity float64
}

func DefaultDoublePendulumParams() DoublePendulumParams {
	return DoublePendulumParams{
		M1: 1.0, M2: 1.0,
		L1: 1.0, L2: 1.0,
		Gravity: DefaultGravity,
	}
}

func (p DoublePendulumParams) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{{"m1", p.M1}, {"m2", p.M2}, {"l1", p.L1}, {"l2", p.L2}}
	for _, c := range checks {
		if err := dynamo.Positive(c.name, c.v); err != nil {
			return err
		}
	}
	return dynamo.NonNegative("gravity", p.Gravity)
}

// DoublePendulum hangs a second rigid pendulum from the bob of the first.
// State: [theta1, omega1, theta2, omega2], both angles from the downward
// vertical.
type DoublePendulum struct {
	trajectoryHolder

	params DoublePendulumParams
	solver dynamo.Solver
}

func NewDoublePendulum(params DoublePendulumParams, solver dynamo.Solver) (*DoublePendulum, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if solver == nil {
		return nil, &dynamo.ParamError{Name: "solver", Value: nil, Reason: "must not be nil"}
	}
	return &DoublePendulum{params: params, solver: solver}, nil
}

func (d *DoublePendulum) Params() DoublePendulumParams { return d.params }

func (d *DoublePendulum) StateDim() int { return 4 }

// Delta is the relative angle theta2 - theta1.
func Delta(theta1, theta2 float64) float64 { return theta2 - theta1 }

func (d *DoublePendulum) accelerations(x dynamo.State) (alpha1, alpha2, den1, den2 float64) {
	theta1, omega1, theta2, omega2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.params.M1, d.params.M2, d.params.L1, d.params.L2, d.params.Gravity

	delta := Delta(theta1, theta2)
	sinD, cosD := math.Sin(delta), math.Cos(delta)
	mt := m1 + m2

	den1 = mt*l1 - m2*l1*cosD*cosD
	den2 = mt*l2 - m2*l2*cosD*cosD

	alpha1 = (m2*l1*omega1*omega1*sinD*cosD +
		m2*g*math.Sin(theta2)*cosD +
		m2*l2*omega2*omega2*sinD -
		mt*g*math.Sin(theta1)) / den1

	alpha2 = (-m2*l2*omega2*omega2*sinD*cosD +
		mt*g*math.Sin(theta1)*cosD -
		mt*l1*omega1*omega1*sinD -
		mt*g*math.Sin(theta2)) / den2

	return alpha1, alpha2, den1, den2
}

// Derive returns [omega1, alpha1, omega2, alpha2]. The equations divide by
// L(M1 + M2 sin^2(delta)); where that vanishes the result is Inf or NaN and
// is returned as is. Use Accelerations to detect it.
func (d *DoublePendulum) Derive(_ float64, x dynamo.State) dynamo.State {
	alpha1, alpha2, _, _ := d.accelerations(x)
	return dynamo.State{x[1], alpha1, x[3], alpha2}
}

// Accelerations returns the angular accelerations at x, or an error wrapping
// dynamo.ErrSingularConfiguration when a denominator vanishes or the result
// is not finite.
func (d *DoublePendulum) Accelerations(x dynamo.State) (float64, float64, error) {
	if len(x) != 4 {
		return 0, 0, fmt.Errorf("double pendulum state has %d components: %w", len(x), dynamo.ErrDimensionMismatch)
	}
	alpha1, alpha2, den1, den2 := d.accelerations(x)
	if den1 == 0 || den2 == 0 || math.IsNaN(alpha1) || math.IsInf(alpha1, 0) || math.IsNaN(alpha2) || math.IsInf(alpha2, 0) {
		return alpha1, alpha2, &dynamo.SimulationError{State: x.Clone(), Wrapped: dynamo.ErrSingularConfiguration}
	}
	return alpha1, alpha2, nil
}

// Energy is the mechanical energy of a single state, measured from both bobs
// hanging at rest.
func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	theta1, omega1, theta2, omega2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.params.M1, d.params.M2, d.params.L1, d.params.L2, d.params.Gravity

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := v1sq + l2*l2*omega2*omega2 + 2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	y1 := -l1 * math.Cos(theta1)
	y2 := y1 - l2*math.Cos(theta2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	pe := m1*g*(y1+l1) + m2*g*(y2+l1+l2)
	return ke + pe
}

func (d *DoublePendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"m1":      d.params.M1,
		"m2":      d.params.M2,
		"l1":      d.params.L1,
		"l2":      d.params.L2,
		"gravity": d.params.Gravity,
	}
}

// singularity records the first singular derivative evaluation of a solve.
type singularity struct {
	hit  bool
	time float64
	x    dynamo.State
}

// Solve integrates from y0 = [theta1, omega1, theta2, omega2] over [0, T]
// sampled at n evenly spaced times. With Degrees both angles are converted.
// A solve that runs into the coordinate singularity fails with an error
// wrapping dynamo.ErrSingularConfiguration and keeps the old trajectory.
func (d *DoublePendulum) Solve(ctx context.Context, y0 dynamo.State, T float64, n int, units dynamo.AngleUnit) error {
	var sing singularity
	f := func(t float64, x dynamo.State) dynamo.State {
		alpha1, alpha2, err := d.Accelerations(x)
		if err != nil && !sing.hit {
			sing = singularity{hit: true, time: t, x: x.Clone()}
		}
		return dynamo.State{x[1], alpha1, x[3], alpha2}
	}

	tr, err := integrate(ctx, solveRequest{
		solver: d.solver,
		f:      f,
		y0:     y0,
		dim:    4,
		angles: []int{0, 2},
		T:      T,
		n:      n,
		units:  units,
	})
	switch {
	case sing.hit:
		serr := &dynamo.SimulationError{Time: sing.time, State: sing.x, Wrapped: dynamo.ErrSingularConfiguration}
		if err != nil {
			return fmt.Errorf("%w: %w", serr, err)
		}
		return serr
	case errors.Is(err, dynamo.ErrNonFinite):
		return fmt.Errorf("%w: %w", dynamo.ErrSingularConfiguration, err)
	case err != nil:
		return err
	}
	d.set(tr)
	return nil
}

func (d *DoublePendulum) T() ([]float64, error) { return d.times() }

func (d *DoublePendulum) Theta1() ([]float64, error) { return d.component(0) }

func (d *DoublePendulum) Omega1() ([]float64, error) { return d.component(1) }

func (d *DoublePendulum) Theta2() ([]float64, error) { return d.component(2) }

func (d *DoublePendulum) Omega2() ([]float64, error) { return d.component(3) }

// positions returns x1, y1, x2, y2.
func (d *DoublePendulum) positions() (x1, y1, x2, y2 []float64, err error) {
	theta1, err := d.Theta1()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	theta2, err := d.Theta2()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	n := len(theta1)
	x1, y1 = make([]float64, n), make([]float64, n)
	x2, y2 = make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = d.params.L1 * math.Sin(theta1[i])
		y1[i] = -d.params.L1 * math.Cos(theta1[i])
		x2[i] = x1[i] + d.params.L2*math.Sin(theta2[i])
		y2[i] = y1[i] - d.params.L2*math.Cos(theta2[i])
	}
	return x1, y1, x2, y2, nil
}

func (d *DoublePendulum) position(i int) ([]float64, error) {
	x1, y1, x2, y2, err := d.positions()
	if err != nil {
		return nil, err
	}
	return [][]float64{x1, y1, x2, y2}[i], nil
}

func (d *DoublePendulum) X1() ([]float64, error) { return d.position(0) }

func (d *DoublePendulum) Y1() ([]float64, error) { return d.position(1) }

func (d *DoublePendulum) X2() ([]float64, error) { return d.position(2) }

func (d *DoublePendulum) Y2() ([]float64, error) { return d.position(3) }

func (d *DoublePendulum) velocity(i int) ([]float64, error) {
	pos, err := d.position(i)
	if err != nil {
		return nil, err
	}
	t, err := d.T()
	if err != nil {
		return nil, err
	}
	v, err := velocities(t, pos)
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func (d *DoublePendulum) VX1() ([]float64, error) { return d.velocity(0) }

func (d *DoublePendulum) VY1() ([]float64, error) { return d.velocity(1) }

func (d *DoublePendulum) VX2() ([]float64, error) { return d.velocity(2) }

func (d *DoublePendulum) VY2() ([]float64, error) { return d.velocity(3) }

// Potential is M1 g (y1 + L1) + M2 g (y2 + L1 + L2).
func (d *DoublePendulum) Potential() ([]float64, error) {
	_, y1, _, y2, err := d.positions()
	if err != nil {
		return nil, err
	}
	m1, m2, l1, l2, g := d.params.M1, d.params.M2, d.params.L1, d.params.L2, d.params.Gravity
	out := make([]float64, len(y1))
	for i := range y1 {
		out[i] = m1*g*(y1[i]+l1) + m2*g*(y2[i]+l1+l2)
	}
	return out, nil
}

func (d *DoublePendulum) Kinetic() ([]float64, error) {
	x1, y1, x2, y2, err := d.positions()
	if err != nil {
		return nil, err
	}
	t, err := d.T()
	if err != nil {
		return nil, err
	}
	v, err := velocities(t, x1, y1, x2, y2)
	if err != nil {
		return nil, err
	}
	k1 := kinetic(d.params.M1, v[0], v[1])
	k2 := kinetic(d.params.M2, v[2], v[3])
	for i := range k1 {
		k1[i] += k2[i]
	}
	return k1, nil
}

func (d *DoublePendulum) TotalEnergy() ([]float64, error) {
	return totalEnergy(d.Potential, d.Kinetic)
}
