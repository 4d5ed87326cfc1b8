package pass

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/pcmlab/dsp/filter/biquad"
	"github.com/cwbudde/pcmlab/dsp/filter/design"
)

// ButterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !design.Valid(freq, sampleRate) {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, design.Lowpass(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 != 0 {
		sections = append(sections, butterworthFirstOrderLP(freq, sampleRate))
	}

	return sections
}

// ButterworthHP designs a highpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !design.Valid(freq, sampleRate) {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, design.Highpass(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 != 0 {
		sections = append(sections, butterworthFirstOrderHP(freq, sampleRate))
	}

	return sections
}

// ButterworthBP designs a bandpass Butterworth cascade passing lowHz..highHz.
//
// The analog lowpass prototype of the given order is mapped to a bandpass
// around the geometric center of the prewarped band edges, giving a digital
// filter of order 2*order built from order sections. Every section has
// numerator 1 - z^-2; the overall gain is folded into the first section so
// the cascade has unit gain at the center frequency.
func ButterworthBP(lowHz, highHz float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || lowHz >= highHz {
		return nil
	}

	wLow, okLow := bilinearK(lowHz, sampleRate)
	wHigh, okHigh := bilinearK(highHz, sampleRate)
	if !okLow || !okHigh {
		return nil
	}

	bw := complex(wHigh-wLow, 0)
	center2 := complex(wLow*wHigh, 0)

	// Each prototype pole p splits into the two roots of s^2 - p*bw*s + center2.
	split := func(p complex128) (complex128, complex128) {
		pb := p * bw
		d := cmplx.Sqrt(pb*pb - 4*center2)
		return (pb + d) / 2, (pb - d) / 2
	}

	upper, hasReal := prototypePoles(order)
	sections := make([]biquad.Coefficients, 0, order)

	for _, p := range upper {
		s1, s2 := split(p)
		for _, s := range []complex128{s1, s2} {
			z := bilinearPole(s)
			sections = append(sections, bandpassSection(-2*real(z), real(z)*real(z)+imag(z)*imag(z)))
		}
	}

	if hasReal {
		s1, s2 := split(-1)
		z1, z2 := bilinearPole(s1), bilinearPole(s2)
		sections = append(sections, bandpassSection(-real(z1+z2), real(z1*z2)))
	}

	centerW := 2 * math.Atan(math.Sqrt(wLow*wHigh))
	h := biquad.NewChain(sections).ResponseAt(centerW)

	if g := cmplx.Abs(h); g > 0 {
		sections[0].B0 /= g
		sections[0].B2 /= g
	}

	return sections
}

func bandpassSection(a1, a2 float64) biquad.Coefficients {
	return biquad.Coefficients{B0: 1, B2: -1, A1: a1, A2: a2}
}
