package signal

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when a Sampled time axis and value
	// sequence differ in length.
	ErrLengthMismatch = errors.New("signal: time and value lengths differ")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("signal: sample rate must be > 0")
)

// Sampled is a sequence of (time, amplitude) pairs spaced 1/SampleRate
// apart, starting at t=0.
type Sampled struct {
	Time       []float64
	Values     []float64
	SampleRate int
}

// SampleSignal evaluates w on the generator's sampling instants and wraps the
// result as a Sampled signal.
func (g *Generator) SampleSignal(w Waveform) (Sampled, error) {
	t, x, err := g.Sample(w)
	if err != nil {
		return Sampled{}, err
	}

	return Sampled{Time: t, Values: x, SampleRate: int(g.cfg.SampleRate)}, nil
}

// Len returns the number of samples.
func (s Sampled) Len() int { return len(s.Values) }

// WithValues returns a copy of s carrying values on the same time axis.
// The time slice is shared.
func (s Sampled) WithValues(values []float64) Sampled {
	return Sampled{Time: s.Time, Values: values, SampleRate: s.SampleRate}
}

// Validate checks that the time axis matches the values and the sample
// rate is positive.
func (s Sampled) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, s.SampleRate)
	}
	if len(s.Time) != len(s.Values) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(s.Time), len(s.Values))
	}
	return nil
}
