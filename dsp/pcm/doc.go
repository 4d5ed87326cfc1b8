// Package pcm turns sampled signals into pulse-code-modulated form.
//
// [Quantize] snaps samples onto a uniform grid of 2^bits levels spanning
// [-1, +1]. [Encode] maps quantized samples onto a line code. [CodeWords]
// recovers the integer level index of each encoded sample and
// [EyeDiagram] slices an encoded stream into overlapping two-symbol traces.
//
// All functions are pure: inputs are never modified and no state carries
// over between calls.
package pcm
