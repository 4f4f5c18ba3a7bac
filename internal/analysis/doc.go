// Package analysis post-processes solved trajectories.
//
//   - [EnergyDrift]: how far a total-energy series strays from its start
//   - [DominantPeriod]: oscillation period from the power spectrum
//   - [Divergence]: exponential separation rate of two nearby runs
//   - [NewPhasePortrait]: angle/velocity plots in the terminal
//
// # Chaos Detection
//
// Two double pendulums started a hair apart separate exponentially when the
// motion is chaotic:
//
//	lambda, err := analysis.Divergence(a, b, 1.0)
//	if err == nil && lambda > 0 {
//	    // trajectories diverge
//	}
package analysis
