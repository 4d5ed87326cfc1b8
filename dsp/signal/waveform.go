package signal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/pcmlab/dsp/core"
)

// Kind identifies a periodic waveform shape.
type Kind int

const (
	KindSine Kind = iota
	KindSquare
	KindTriangle
)

// ErrUnknownKind is returned by ParseKind for names it does not recognise.
var ErrUnknownKind = errors.New("signal: unknown waveform kind")

var kindNames = map[Kind]string{
	KindSine:     "sine",
	KindSquare:   "square",
	KindTriangle: "triangle",
}

// String returns the lower-case name of the waveform.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a waveform name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Waveform describes a periodic signal. Frequency and amplitude are
// expected to be validated by the caller.
type Waveform struct {
	Kind        Kind
	FrequencyHz float64
	Amplitude   float64
	PhaseDeg    float64
}

// At evaluates the waveform at each instant of t and returns a new slice.
func (w Waveform) At(t []float64) []float64 {
	return Generate(t, w.Kind, w.FrequencyHz, w.Amplitude, w.PhaseDeg)
}

// Generate evaluates a waveform at the instants in t.
//
//	sine:     A*sin(2*pi*f*t + phi)
//	square:   A*sign(sin(2*pi*f*t + phi)), with sign(0) = +1
//	triangle: A*(2/pi)*asin(sin(2*pi*f*t + phi))
//
// The square wave treats an exact zero crossing as the positive half, so a
// zero-phase square starts at +A.
func Generate(t []float64, kind Kind, freqHz, amplitude, phaseDeg float64) []float64 {
	out := make([]float64, len(t))
	phi := core.DegToRad(phaseDeg)
	w := 2 * math.Pi * freqHz

	for i, ti := range t {
		s := math.Sin(w*ti + phi)
		switch kind {
		case KindSquare:
			out[i] = amplitude * squareSign(s)
		case KindTriangle:
			out[i] = amplitude * (2 / math.Pi) * math.Asin(core.Clamp(s, -1, 1))
		default:
			out[i] = amplitude * s
		}
	}
	return out
}

func squareSign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
