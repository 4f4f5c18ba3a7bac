package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

type RK45 struct {
	RelTol   float64
	AbsTol   float64
	MinStep  float64
	MaxStep  float64
	MaxSteps int

	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		RelTol:   1e-9,
		AbsTol:   1e-11,
		MinStep:  1e-12,
		MaxStep:  0.1,
		MaxSteps: 5_000_000,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// StepAdaptive takes one Dormand-Prince step of size dt from (t, x), with
// k1 = f(t, x) already evaluated. It returns the fifth-order solution, the
// derivative at the new point (first stage of the next step), and the
// error estimate relative to the tolerance; a ratio <= 1 means the step
// is acceptable.
func (r *RK45) StepAdaptive(f dynamo.DerivFunc, t float64, x, k1 dynamo.State, dt float64) (dynamo.State, dynamo.State, float64) {
	n := len(x)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := f(t+a2*dt, x2)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := f(t+a3*dt, x3)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := f(t+a4*dt, x4)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := f(t+a5*dt, x5)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := f(t+dt, x6)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := f(t+dt, xNew)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := r.AbsTol + r.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
		if math.IsNaN(errEst) {
			errMax = math.NaN()
			break
		}
	}

	return xNew, k7, errMax
}

func (r *RK45) nextScale(errRatio float64) float64 {
	if errRatio > 1 {
		return math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	}
	if errRatio > 0 {
		return math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	}
	return r.maxScale
}

func (r *RK45) Solve(ctx context.Context, f dynamo.DerivFunc, span [2]float64, y0 dynamo.State, tEval []float64) (*dynamo.Trajectory, error) {
	if err := checkProblem(f, span, y0, tEval); err != nil {
		return nil, err
	}
	if err := dynamo.Positive("rtol", r.RelTol); err != nil {
		return nil, err
	}
	if err := dynamo.Positive("atol", r.AbsTol); err != nil {
		return nil, err
	}

	k1, err := evalDerivative(f, span[0], y0, 0)
	if err != nil {
		return nil, err
	}

	tr := &dynamo.Trajectory{
		Times:  make([]float64, 0, len(tEval)),
		States: make([]dynamo.State, 0, len(tEval)),
	}

	x := y0.Clone()
	t := span[0]
	h := math.Min(r.MaxStep, (span[1]-span[0])*1e-3)
	steps := 0
	next := 0

	record := func() {
		for next < len(tEval) && tEval[next] <= t {
			tr.Times = append(tr.Times, tEval[next])
			tr.States = append(tr.States, x.Clone())
			next++
		}
	}
	record()

	for next < len(tEval) {
		if err := canceled(ctx, steps, t, x); err != nil {
			return tr, err
		}
		if r.MaxSteps > 0 && steps >= r.MaxSteps {
			return tr, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(),
				Wrapped: fmt.Errorf("%w: step budget %d exhausted", dynamo.ErrStepTooSmall, r.MaxSteps)}
		}

		target := tEval[next]
		hUsed := h
		landing := false
		if t+hUsed >= target {
			hUsed = target - t
			landing = true
		}

		xNew, kNew, ratio := r.StepAdaptive(f, t, x, k1, hUsed)
		steps++

		if math.IsNaN(ratio) || !xNew.IsValid() || !kNew.IsValid() {
			return tr, &dynamo.SimulationError{Step: steps, Time: t + hUsed, State: xNew, Wrapped: dynamo.ErrNonFinite}
		}

		if ratio > 1 {
			h = hUsed * r.nextScale(ratio)
			if h < r.MinStep {
				return tr, &dynamo.SimulationError{Step: steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
			}
			continue
		}

		if landing {
			t = target
		} else {
			t += hUsed
		}
		x = xNew
		k1 = kNew

		grown := hUsed * r.nextScale(ratio)
		if !landing || grown > h {
			h = grown
		}
		if r.MaxStep > 0 && h > r.MaxStep {
			h = r.MaxStep
		}

		record()
	}

	return tr, nil
}
