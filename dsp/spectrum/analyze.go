package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	// ErrEmptyInput is returned when Analyze receives no samples.
	ErrEmptyInput = errors.New("spectrum: empty input")
	// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
	ErrInvalidSampleRate = errors.New("spectrum: sample rate must be > 0")
)

// Result is the full complex spectrum of a real sequence of length N.
// Bin k sits at k*SampleRate/N.
type Result struct {
	SampleRate float64
	Freqs      []float64
	Bins       []complex128
	Magnitude  []float64
	Phase      []float64
}

// Analyze computes the unnormalized DFT of x. Magnitudes and phases are
// filled for every bin.
func Analyze(x []float64, sampleRate float64) (Result, error) {
	if len(x) == 0 {
		return Result{}, ErrEmptyInput
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Result{}, fmt.Errorf("%w: %g", ErrInvalidSampleRate, sampleRate)
	}

	bins := DFT(x)
	n := len(bins)

	freqs := make([]float64, n)
	for k := range freqs {
		freqs[k] = float64(k) * sampleRate / float64(n)
	}

	return Result{
		SampleRate: sampleRate,
		Freqs:      freqs,
		Bins:       bins,
		Magnitude:  Magnitude(bins),
		Phase:      Phase(bins),
	}, nil
}

// DFT returns the forward transform of a real sequence as len(x) complex bins.
// algo-fft plans are used where the size is supported; other sizes go through
// gonum's mixed-radix transform.
func DFT(x []float64) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}

	in := make([]complex128, n)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, n)
	if plan, err := algofft.NewPlan64(n); err == nil {
		if err := plan.Forward(out, in); err == nil {
			return out
		}
	}

	return fourier.NewCmplxFFT(n).Coefficients(out, in)
}

// Len returns the number of bins.
func (r Result) Len() int { return len(r.Bins) }

// Half returns bins 0..N/2 inclusive, the non-negative frequency range shown
// to users. The returned Result shares storage with r.
func (r Result) Half() Result {
	if len(r.Bins) == 0 {
		return r
	}

	m := len(r.Bins)/2 + 1

	return Result{
		SampleRate: r.SampleRate,
		Freqs:      r.Freqs[:m],
		Bins:       r.Bins[:m],
		Magnitude:  r.Magnitude[:m],
		Phase:      r.Phase[:m],
	}
}

// MagnitudeDB returns 20*log10(|X[k]|) for every bin. Zero bins are clamped
// to floorDB.
func (r Result) MagnitudeDB(floorDB float64) []float64 {
	out := make([]float64, len(r.Magnitude))
	for i, m := range r.Magnitude {
		if m <= 0 {
			out[i] = floorDB
			continue
		}
		out[i] = math.Max(20*math.Log10(m), floorDB)
	}
	return out
}

// Peak returns the frequency and magnitude of the strongest bin, ignoring DC
// when any other bin exists. An empty result returns zeros.
func (r Result) Peak() (freqHz, magnitude float64) {
	if len(r.Magnitude) == 0 {
		return 0, 0
	}

	best := 0
	if len(r.Magnitude) > 1 {
		best = 1
	}
	for i := best + 1; i < len(r.Magnitude); i++ {
		if r.Magnitude[i] > r.Magnitude[best] {
			best = i
		}
	}

	return r.Freqs[best], r.Magnitude[best]
}
