// Package integrators provides the numerical solvers behind
// [dynamo.Solver].
//
// Fixed-step solvers ([Euler], [RK4]) subdivide every interval between
// evaluation times into steps no longer than their Dt. The adaptive
// Dormand-Prince solver ([RK45]) controls its step from an embedded error
// estimate and lands exactly on every evaluation time.
//
//	solver := integrators.NewRK45()
//	tr, err := solver.Solve(ctx, pend.Derive, [2]float64{0, 10}, y0, numeric.Linspace(0, 10, 200))
//
// Every solver stops with a [dynamo.SimulationError] wrapping
// [dynamo.ErrNonFinite] as soon as a step produces NaN or Inf, and with
// [dynamo.ErrCanceled] when its context is done.
package integrators
