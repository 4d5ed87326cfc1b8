// Package metrics derives the summary figures shown next to a sampled
// signal: Nyquist frequency, aliasing, signal-to-noise ratio, the
// frequency-times-bits bit-rate estimate and quantization levels.
//
// Compute bundles them together with time-domain statistics from
// stats/time and, when a spectrum is supplied, spectral shape statistics
// from stats/frequency.
package metrics
