package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/numeric"
)

func TestRK45StepErrorEstimate(t *testing.T) {
	integ := NewRK45()
	x := dynamo.State{1.0, 0.0}
	k1 := oscillator(0, x)

	_, _, small := integ.StepAdaptive(oscillator, 0, x, k1, 1e-3)
	_, _, large := integ.StepAdaptive(oscillator, 0, x, k1, 0.5)

	if small > 1 {
		t.Errorf("tiny step rejected: ratio %v", small)
	}
	if large <= small {
		t.Errorf("error ratio did not grow with step: small=%v large=%v", small, large)
	}
}

func TestRK45EnergyConservation(t *testing.T) {
	integ := NewRK45()
	tEval := numeric.Linspace(0, 50, 501)

	tr, err := integ.Solve(context.Background(), oscillator, [2]float64{0, 50}, dynamo.State{1, 0}, tEval)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	for i, x := range tr.States {
		energy := 0.5 * (x[0]*x[0] + x[1]*x[1])
		if math.Abs(energy-0.5) > 1e-7 {
			t.Fatalf("energy drift at t=%v: %v", tr.Times[i], energy)
		}
	}
}

func TestRK45LandsOnEvaluationTimes(t *testing.T) {
	integ := NewRK45()
	tEval := []float64{0, 0.013, 0.5, 0.51, 1.7, 3}

	tr, err := integ.Solve(context.Background(), oscillator, [2]float64{0, 3}, dynamo.State{1, 0}, tEval)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if tr.Len() != len(tEval) {
		t.Fatalf("got %d samples, want %d", tr.Len(), len(tEval))
	}
	for i, ti := range tr.Times {
		if ti != tEval[i] {
			t.Errorf("time %d = %v, want %v", i, ti, tEval[i])
		}
		if math.Abs(tr.States[i][0]-math.Cos(ti)) > 1e-8 {
			t.Errorf("x(%v) = %v, want %v", ti, tr.States[i][0], math.Cos(ti))
		}
		if math.Abs(tr.States[i][1]+math.Sin(ti)) > 1e-8 {
			t.Errorf("v(%v) = %v, want %v", ti, tr.States[i][1], -math.Sin(ti))
		}
	}
}

func TestRK45StartingSampleIsInitialState(t *testing.T) {
	y0 := dynamo.State{0.3, -0.1}
	tr, err := NewRK45().Solve(context.Background(), oscillator, [2]float64{0, 1}, y0, []float64{0, 1})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if tr.States[0][0] != y0[0] || tr.States[0][1] != y0[1] {
		t.Errorf("first sample %v, want %v", tr.States[0], y0)
	}

	tr.States[0][0] = 9
	if y0[0] != 0.3 {
		t.Error("solver aliased the initial state")
	}
}

func TestRK45RejectsBadTolerances(t *testing.T) {
	integ := NewRK45()
	integ.RelTol = 0

	_, err := integ.Solve(context.Background(), oscillator, [2]float64{0, 1}, dynamo.State{1, 0}, []float64{0, 1})
	if err == nil {
		t.Fatal("expected error for zero rtol")
	}
}
