package pass

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/pcmlab/dsp/filter/biquad"
)

// Mode selects the response shape of a Butterworth design.
type Mode int

const (
	ModeLowpass Mode = iota
	ModeHighpass
	ModeBandpass
)

// Order limits accepted by Butterworth.
const (
	DefaultOrder = 4
	MaxOrder     = 8
)

var (
	// ErrInvalidCutoff is returned when a normalized cutoff is outside (0, 1).
	ErrInvalidCutoff = errors.New("pass: cutoff must be in (0, 1) of Nyquist")
	// ErrInvalidOrder is returned when the filter order is outside 1..MaxOrder.
	ErrInvalidOrder = errors.New("pass: invalid filter order")
	// ErrUnknownMode is returned by ParseMode for unrecognized names.
	ErrUnknownMode = errors.New("pass: unknown filter mode")
)

var modeNames = [...]string{
	ModeLowpass:  "lowpass",
	ModeHighpass: "highpass",
	ModeBandpass: "bandpass",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "lowpass", "highpass" and "bandpass" in any case,
// along with the short forms "lp", "hp" and "bp".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lowpass", "low", "lp":
		return ModeLowpass, nil
	case "highpass", "high", "hp":
		return ModeHighpass, nil
	case "bandpass", "band", "bp":
		return ModeBandpass, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Butterworth designs a digital Butterworth filter of the given order.
//
// cutoff is normalized to Nyquist (1.0 = fs/2). Lowpass and highpass use it
// as the -3 dB corner. Bandpass passes the band [cutoff/2, cutoff] and
// doubles the effective order.
func Butterworth(mode Mode, cutoff float64, order int) (*biquad.Chain, error) {
	if math.IsNaN(cutoff) || cutoff <= 0 || cutoff >= 1 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidCutoff, cutoff)
	}
	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidOrder, order, MaxOrder)
	}

	// With a sample rate of 2 the normalized cutoff is already in Hz.
	const sr = 2.0

	var sections []biquad.Coefficients
	switch mode {
	case ModeLowpass:
		sections = ButterworthLP(cutoff, order, sr)
	case ModeHighpass:
		sections = ButterworthHP(cutoff, order, sr)
	case ModeBandpass:
		sections = ButterworthBP(cutoff/2, cutoff, order, sr)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidCutoff, cutoff)
	}

	return biquad.NewChain(sections), nil
}
