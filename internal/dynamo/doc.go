// Package dynamo provides core simulation primitives for pendulum models.
//
// The package defines the types shared by every model and solver:
//
//   - [State]: vector of generalized coordinates and velocities
//   - [DerivFunc]: right-hand side of dX/dt = f(t, X)
//   - [System]: a model exposing a derivative function
//   - [Solver]: black-box integrator producing a [Trajectory]
//   - [Trajectory]: sampled times paired with one state per sample
//
// # Example
//
//	pend, _ := physics.NewPendulum(physics.DefaultPendulumParams(), integrators.NewRK45())
//	_ = pend.Solve(ctx, dynamo.State{math.Pi / 6, 0.15}, 10, 100, dynamo.Radians)
//	energy, _ := pend.TotalEnergy()
//
// # Errors
//
// Failures are reported through the sentinel errors in errors.go, wrapped
// in [SimulationError] or [ParamError] when extra context is available.
// Use errors.Is to test for a condition.
//
// # Thread Safety
//
// Nothing in this package is synchronized. A model owns its trajectory and
// must not be solved and read from different goroutines at once.
package dynamo
