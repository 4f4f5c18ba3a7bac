package integrators

import (
	"context"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/numeric"
)

func oscillator(t float64, x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func BenchmarkEulerStep(b *testing.B) {
	integrator := NewEuler()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator, 0, x, 0.01)
	}
}

func BenchmarkRK4Step(b *testing.B) {
	integrator := NewRK4()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(oscillator, 0, x, 0.01)
	}
}

func BenchmarkRK45Solve(b *testing.B) {
	integrator := NewRK45()
	tEval := numeric.Linspace(0, 10, 100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := integrator.Solve(ctx, oscillator, [2]float64{0, 10}, dynamo.State{1, 0}, tEval); err != nil {
			b.Fatal(err)
		}
	}
}

func coupledOscillators(t float64, x dynamo.State) dynamo.State {
	dx := make(dynamo.State, 20)
	for i := 0; i < 5; i++ {
		dx[i*4] = x[i*4+2]
		dx[i*4+1] = x[i*4+3]
		dx[i*4+2] = -x[i*4] * 0.1
		dx[i*4+3] = -x[i*4+1] * 0.1
	}
	return dx
}

func BenchmarkRK4Step_20Dim(b *testing.B) {
	integrator := NewRK4()
	x := make(dynamo.State, 20)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(coupledOscillators, 0, x, 0.001)
	}
}
