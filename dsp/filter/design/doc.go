// Package design provides RBJ-style second-order IIR coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad for runtime processing. Higher-order Butterworth
// cascades built from these sections live in design/pass.
package design
