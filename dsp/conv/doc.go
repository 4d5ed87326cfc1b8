// Package conv provides direct time-domain convolution.
//
// [ConvolveMode] trims the full result to the usual full, same and valid
// shapes, and [MovingAverage] builds the boxcar smoother applied before export.
package conv
