// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectra of offset or energy series
//   - [OffsetTrace] and [BodyTrace]: 2D paths for ASCII plotting
//   - [Sweep]: a parameter sweep over fresh worlds
//
// Recover the ringing frequency of the shaken container from a stored run:
//
//	xs := analysis.OffsetSeries(frames, 0)
//	hz := analysis.DominantFrequency(xs, frames[1].Time-frames[0].Time)
package analysis
