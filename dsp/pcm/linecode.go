package pcm

import (
	"errors"
	"fmt"
	"strings"
)

// LineCode selects how quantized samples are shaped on the line.
type LineCode int

const (
	// Unipolar shifts [-1, 1] onto [0, 1] with (x+1)/2.
	Unipolar LineCode = iota
	// PolarNRZ sends the quantized value unchanged.
	PolarNRZ
	// BipolarRZ alternates polarity with sample index parity: positive
	// samples give +1 on even and -1 on odd indices, negative samples the
	// reverse, and zero stays zero.
	BipolarRZ
)

// ErrUnknownLineCode is returned for unrecognized line codes.
var ErrUnknownLineCode = errors.New("pcm: unknown line code")

var lineCodeNames = [...]string{
	Unipolar:  "unipolar",
	PolarNRZ:  "polar-nrz",
	BipolarRZ: "bipolar-rz",
}

func (c LineCode) String() string {
	if c >= 0 && int(c) < len(lineCodeNames) {
		return lineCodeNames[c]
	}
	return fmt.Sprintf("LineCode(%d)", int(c))
}

// ParseLineCode accepts "unipolar", "polar-nrz" and "bipolar-rz". Case,
// spaces and underscores are ignored, so "Polar NRZ" also matches.
func ParseLineCode(name string) (LineCode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)

	for i, n := range lineCodeNames {
		if n == key {
			return LineCode(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLineCode, name)
}

// Encode maps quantized samples onto the line code and returns a new slice.
func Encode(q []float64, code LineCode) ([]float64, error) {
	out := make([]float64, len(q))

	switch code {
	case Unipolar:
		for i, v := range q {
			out[i] = (v + 1) / 2
		}
	case PolarNRZ:
		copy(out, q)
	case BipolarRZ:
		for i, v := range q {
			out[i] = bipolarMark(v, i)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownLineCode, int(code))
	}

	return out, nil
}

func bipolarMark(v float64, index int) float64 {
	var mark float64
	switch {
	case v > 0:
		mark = 1
	case v < 0:
		mark = -1
	default:
		return 0
	}

	if index%2 != 0 {
		mark = -mark
	}

	return mark
}
