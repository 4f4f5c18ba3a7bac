package physics

import (
	"context"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

const DefaultGravity = 9.81

type PendulumParams struct {
	Mass    float64
	Length  float64
	Gravity float64
	Damping float64
}

func DefaultPendulumParams() PendulumParams {
	return PendulumParams{
		Mass:    1.0,
		Length:  1.0,
		Gravity: DefaultGravity,
	}
}

func (p PendulumParams) Validate() error {
	if err := dynamo.Positive("mass", p.Mass); err != nil {
		return err
	}
	if err := dynamo.Positive("length", p.Length); err != nil {
		return err
	}
	if err := dynamo.NonNegative("gravity", p.Gravity); err != nil {
		return err
	}
	return dynamo.NonNegative("damping", p.Damping)
}

// Pendulum is a point mass on a rigid massless rod. State: [theta, omega],
// theta measured from the downward vertical.
type Pendulum struct {
	trajectoryHolder

	params PendulumParams
	solver dynamo.Solver
}

func NewPendulum(params PendulumParams, solver dynamo.Solver) (*Pendulum, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if solver == nil {
		return nil, &dynamo.ParamError{Name: "solver", Value: nil, Reason: "must not be nil"}
	}
	return &Pendulum{params: params, solver: solver}, nil
}

func (p *Pendulum) Params() PendulumParams { return p.params }

func (p *Pendulum) StateDim() int { return 2 }

// Derive returns [omega, alpha] with alpha = -(g/L) sin(theta) - (B/M) omega.
func (p *Pendulum) Derive(_ float64, x dynamo.State) dynamo.State {
	theta, omega := x[0], x[1]

	alpha := -p.params.Gravity / p.params.Length * math.Sin(theta)
	if p.params.Damping > 0 {
		alpha -= p.params.Damping / p.params.Mass * omega
	}
	return dynamo.State{omega, alpha}
}

// Energy is the mechanical energy of a single state, zero at rest hanging
// straight down.
func (p *Pendulum) Energy(x dynamo.State) float64 {
	m, l, g := p.params.Mass, p.params.Length, p.params.Gravity
	v := l * x[1]
	return 0.5*m*v*v + m*g*l*(1-math.Cos(x[0]))
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.params.Mass,
		"length":  p.params.Length,
		"gravity": p.params.Gravity,
		"damping": p.params.Damping,
	}
}

// Solve integrates from y0 = [theta, omega] over [0, T] sampled at n evenly
// spaced times. With Degrees only theta is converted; omega is rad/s.
func (p *Pendulum) Solve(ctx context.Context, y0 dynamo.State, T float64, n int, units dynamo.AngleUnit) error {
	tr, err := integrate(ctx, solveRequest{
		solver: p.solver,
		f:      p.Derive,
		y0:     y0,
		dim:    2,
		angles: []int{0},
		T:      T,
		n:      n,
		units:  units,
	})
	if err != nil {
		return err
	}
	p.set(tr)
	return nil
}

func (p *Pendulum) T() ([]float64, error) { return p.times() }

func (p *Pendulum) Theta() ([]float64, error) { return p.component(0) }

func (p *Pendulum) Omega() ([]float64, error) { return p.component(1) }

func (p *Pendulum) X() ([]float64, error) {
	theta, err := p.Theta()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(theta))
	for i, th := range theta {
		out[i] = p.params.Length * math.Sin(th)
	}
	return out, nil
}

func (p *Pendulum) Y() ([]float64, error) {
	theta, err := p.Theta()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(theta))
	for i, th := range theta {
		out[i] = -p.params.Length * math.Cos(th)
	}
	return out, nil
}

func (p *Pendulum) VX() ([]float64, error) {
	x, err := p.X()
	if err != nil {
		return nil, err
	}
	return p.differentiate(x)
}

func (p *Pendulum) VY() ([]float64, error) {
	y, err := p.Y()
	if err != nil {
		return nil, err
	}
	return p.differentiate(y)
}

func (p *Pendulum) differentiate(pos []float64) ([]float64, error) {
	t, err := p.T()
	if err != nil {
		return nil, err
	}
	v, err := velocities(t, pos)
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

// Potential is M g (y + L), zero at the lowest point.
func (p *Pendulum) Potential() ([]float64, error) {
	y, err := p.Y()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(y))
	for i := range y {
		out[i] = p.params.Mass * p.params.Gravity * (y[i] + p.params.Length)
	}
	return out, nil
}

func (p *Pendulum) Kinetic() ([]float64, error) {
	vx, err := p.VX()
	if err != nil {
		return nil, err
	}
	vy, err := p.VY()
	if err != nil {
		return nil, err
	}
	return kinetic(p.params.Mass, vx, vy), nil
}

func (p *Pendulum) TotalEnergy() ([]float64, error) {
	return totalEnergy(p.Potential, p.Kinetic)
}
