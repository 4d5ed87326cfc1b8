package pass

import (
	"math"

	"github.com/cwbudde/pcmlab/dsp/filter/biquad"
)

// bilinearK computes the bilinear transform frequency warping factor tan(π*freq/sampleRate).
// Returns (k, true) on success, (0, false) if parameters are invalid.
func bilinearK(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

// butterworthFirstOrderLP designs the first-order section of an odd-order lowpass.
func butterworthFirstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

// butterworthFirstOrderHP designs the first-order section of an odd-order highpass.
func butterworthFirstOrderHP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

// prototypePoles returns the upper-half-plane poles of the normalized analog
// Butterworth lowpass, plus the real pole at -1 when order is odd.
func prototypePoles(order int) (upper []complex128, hasReal bool) {
	for k := 0; 2*k+1 < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		upper = append(upper, complex(math.Cos(theta), math.Sin(theta)))
	}

	return upper, order%2 != 0
}

// bilinearPole maps an analog pole on the tan-warped axis to the z-plane.
func bilinearPole(s complex128) complex128 {
	return (1 + s) / (1 - s)
}
