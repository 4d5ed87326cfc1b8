// Package pipeline runs the teaching signal chain end to end: waveform
// generation, sampling, optional noise, window and Butterworth filter,
// quantization, PCM line coding, spectral analysis and metrics.
//
// Run is a pure function of its Params and random source. Which stages run
// depends on the Variant, mirroring the three classroom levels. Session
// keeps the most recent result for callers that export on demand.
package pipeline
