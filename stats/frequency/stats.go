package frequency

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultRolloff is the energy fraction used by Calculate for Rolloff.
const DefaultRolloff = 0.85

// Stats holds shape descriptors of a linear magnitude spectrum.
type Stats struct {
	BinCount  int     `json:"bin_count" yaml:"bin_count"`
	Max       float64 `json:"max" yaml:"max"`
	MaxBin    int     `json:"max_bin" yaml:"max_bin"`
	PeakHz    float64 `json:"peak_hz" yaml:"peak_hz"`
	Sum       float64 `json:"sum" yaml:"sum"`       // sum of magnitudes
	Energy    float64 `json:"energy" yaml:"energy"` // sum of squared magnitudes
	Average   float64 `json:"average" yaml:"average"`
	Centroid  float64 `json:"centroid_hz" yaml:"centroid_hz"`
	Spread    float64 `json:"spread_hz" yaml:"spread_hz"`
	Flatness  float64 `json:"flatness" yaml:"flatness"` // 0..1, DC excluded
	Rolloff   float64 `json:"rolloff_hz" yaml:"rolloff_hz"`
	Bandwidth float64 `json:"bandwidth_hz" yaml:"bandwidth_hz"` // -3 dB around the peak
}

// Calculate computes spectral statistics for magnitude bins located at the
// given frequencies (Hz). Both slices describe the same bins; when their
// lengths differ the shorter one wins.
func Calculate(freqs, magnitude []float64) Stats {
	freqs, magnitude = align(freqs, magnitude)

	n := len(magnitude)
	if n == 0 {
		return Stats{}
	}

	s := Stats{
		BinCount: n,
		MaxBin:   floats.MaxIdx(magnitude),
		Sum:      floats.Sum(magnitude),
		Energy:   floats.Dot(magnitude, magnitude),
	}
	s.Max = magnitude[s.MaxBin]
	s.PeakHz = freqs[s.MaxBin]
	s.Average = s.Sum / float64(n)

	if n < 2 {
		return s
	}

	s.Centroid = centroid(freqs, magnitude, s.Sum)
	s.Spread = spread(freqs, magnitude, s.Centroid, s.Sum)
	s.Flatness = Flatness(magnitude)
	s.Rolloff = rolloff(freqs, magnitude, DefaultRolloff, s.Energy)
	s.Bandwidth = Bandwidth(freqs, magnitude)

	return s
}

// Centroid returns the magnitude-weighted mean frequency:
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(freqs, magnitude []float64) float64 {
	freqs, magnitude = align(freqs, magnitude)
	return centroid(freqs, magnitude, floats.Sum(magnitude))
}

func centroid(freqs, magnitude []float64, sumMag float64) float64 {
	if sumMag == 0 {
		return 0
	}

	return floats.Dot(freqs, magnitude) / sumMag
}

func spread(freqs, magnitude []float64, cent, sumMag float64) float64 {
	if sumMag == 0 {
		return 0
	}

	acc := 0.0
	for i, v := range magnitude {
		d := freqs[i] - cent
		acc += d * d * v
	}

	return math.Sqrt(acc / sumMag)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1:
//
//	flatness = exp(mean(log|X_i|)) / mean(|X_i|)
//
// Bin 0 is excluded. Any zero bin makes the geometric mean, and so the
// result, zero.
func Flatness(magnitude []float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	bins := magnitude[1:]

	mean := floats.Sum(bins) / float64(len(bins))
	if mean == 0 {
		return 0
	}

	logSum := 0.0
	for _, v := range bins {
		if v <= 0 {
			return 0
		}

		logSum += math.Log(v)
	}

	return math.Exp(logSum/float64(len(bins))) / mean
}

// Rolloff returns the lowest bin frequency below which the given fraction
// (0..1) of spectral energy lies.
func Rolloff(freqs, magnitude []float64, fraction float64) float64 {
	freqs, magnitude = align(freqs, magnitude)
	return rolloff(freqs, magnitude, fraction, floats.Dot(magnitude, magnitude))
}

func rolloff(freqs, magnitude []float64, fraction, energy float64) float64 {
	if len(magnitude) == 0 || energy == 0 {
		return 0
	}

	threshold := fraction * energy
	cum := 0.0

	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return freqs[i]
		}
	}

	return freqs[len(freqs)-1]
}

// Bandwidth returns the width in Hz between the -3 dB points (peak/sqrt 2)
// on either side of the strongest bin. Crossings are linearly interpolated
// between bins; a side that never drops below the threshold extends to the
// outermost bin.
func Bandwidth(freqs, magnitude []float64) float64 {
	freqs, magnitude = align(freqs, magnitude)

	n := len(magnitude)
	if n < 2 {
		return 0
	}

	peak := floats.MaxIdx(magnitude)
	if magnitude[peak] == 0 {
		return 0
	}

	threshold := magnitude[peak] / math.Sqrt2

	lower := freqs[0]
	for i := peak; i >= 1; i-- {
		if magnitude[i-1] <= threshold && magnitude[i] > threshold {
			lower = crossing(freqs[i-1], freqs[i], magnitude[i-1], magnitude[i], threshold)
			break
		}
	}

	upper := freqs[n-1]
	for i := peak; i < n-1; i++ {
		if magnitude[i+1] <= threshold && magnitude[i] > threshold {
			upper = crossing(freqs[i], freqs[i+1], magnitude[i], magnitude[i+1], threshold)
			break
		}
	}

	return math.Max(upper-lower, 0)
}

// crossing interpolates the frequency at which the magnitude passes
// threshold between (f0, m0) and (f1, m1).
func crossing(f0, f1, m0, m1, threshold float64) float64 {
	if m1 == m0 {
		return (f0 + f1) / 2
	}

	t := (threshold - m0) / (m1 - m0)

	return f0 + t*(f1-f0)
}

func align(freqs, magnitude []float64) ([]float64, []float64) {
	n := min(len(freqs), len(magnitude))
	return freqs[:n], magnitude[:n]
}
