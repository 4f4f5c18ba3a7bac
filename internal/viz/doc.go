// Package viz renders pendulum trajectories.
//
// A run is turned into [Frame] values, one per sample, which can be
//
//   - replayed in the terminal with [Player] on a Braille [Canvas]
//   - encoded as a GIF with [WriteGIF]
//   - written as PNG images with [WriteFrames]
//
// Line plots of energies or angles go through [SaveEnergyPlot] (PNG) or
// [ASCIIPlot] (terminal).
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first frame
//	T     - Cycle color themes
//	Q     - Quit
package viz
