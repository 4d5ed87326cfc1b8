// Package spectrum computes and post-processes discrete Fourier spectra.
//
// [Analyze] transforms a real sequence into a [Result] carrying bin
// frequencies, complex bins, magnitudes and phases. The helpers [Magnitude],
// [Power], [Phase] and [UnwrapPhase] operate on raw complex bins from any
// backend.
package spectrum
