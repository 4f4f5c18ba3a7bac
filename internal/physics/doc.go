// Package physics provides the pendulum models and their derived observables.
//
// Each model implements [dynamo.System], holding its physical parameters and
// a [dynamo.Solver]. Solving stores one trajectory on the model; accessors
// derive positions, velocities and energies from it on every call:
//
//   - [Pendulum]: single rigid pendulum with optional linear damping
//   - [DoublePendulum]: two rigid pendulums, the second hung from the first
//   - [ExponentialDecay]: du/dt = -a u, a reference problem for solvers
//
// Pendulum and DoublePendulum also implement [dynamo.Hamiltonian] and
// [dynamo.Configurable].
//
// # Usage
//
//	p, err := physics.NewPendulum(physics.DefaultPendulumParams(), integrators.NewRK45())
//	if err != nil {
//	    return err
//	}
//	if err := p.Solve(ctx, dynamo.State{30, 0}, 10, 1001, dynamo.Degrees); err != nil {
//	    return err
//	}
//	energy, _ := p.TotalEnergy()
//
// Models are not safe for concurrent use. A failed Solve keeps the
// previously stored trajectory.
package physics
