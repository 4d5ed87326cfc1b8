package pcm

import (
	"errors"
	"fmt"
	"math"
)

// MaxBits is the largest supported bit depth.
const MaxBits = 16

// ErrInvalidBits is returned for bit depths outside 1..MaxBits.
var ErrInvalidBits = errors.New("pcm: bits must be in 1..16")

// Levels returns the number of quantization levels 2^bits.
func Levels(bits int) (int, error) {
	if err := validateBits(bits); err != nil {
		return 0, err
	}
	return 1 << bits, nil
}

// Quantize maps every sample x to round(x*(L-1)/2) * 2/(L-1) with L = 2^bits,
// rounding half to even. The result is a new slice of the same length.
//
// With one bit the grid degenerates to the two levels -1 and +1: x >= 0 maps
// to +1 and x < 0 to -1.
func Quantize(x []float64, bits int) ([]float64, error) {
	if err := validateBits(bits); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	if bits == 1 {
		for i, v := range x {
			if v < 0 {
				out[i] = -1
			} else {
				out[i] = 1
			}
		}
		return out, nil
	}

	half := float64(int(1)<<bits-1) / 2
	for i, v := range x {
		out[i] = math.RoundToEven(v*half) / half
	}

	return out, nil
}

// StepSize returns the spacing between adjacent levels, 2/(L-1).
func StepSize(bits int) (float64, error) {
	if err := validateBits(bits); err != nil {
		return 0, err
	}
	return 2 / float64(int(1)<<bits-1), nil
}

func validateBits(bits int) error {
	if bits < 1 || bits > MaxBits {
		return fmt.Errorf("%w: got %d", ErrInvalidBits, bits)
	}
	return nil
}
