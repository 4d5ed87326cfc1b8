package biquad

import "slices"

// Chain is an ordered cascade of biquad sections processed in series.
// Higher-order designs (Butterworth lowpass, highpass, bandpass) are
// expressed as one Chain whose sections feed each other.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade from one or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade. Overall gain
// belongs in the numerator of the first section.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades input through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Filter runs x through the cascade from zero state and returns a new
// slice. The chain's streaming state is left as it was.
func (c *Chain) Filter(x []float64) []float64 {
	saved := c.State()
	defer c.SetState(saved)

	c.Reset()

	out := slices.Clone(x)
	c.ProcessBlock(out)

	return out
}

// FiltFilt applies the cascade forward and then backward over x, which
// cancels the phase response and squares the magnitude response. Both ends
// of x are padded with an odd reflection of 3*(2*sections+1) samples
// (clamped to len(x)-1) and each pass starts from the steady state for its
// first sample, which suppresses edge transients. The result has the same
// length as x; x is not modified.
func (c *Chain) FiltFilt(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	saved := c.State()
	defer c.SetState(saved)

	padLen := min(3*(2*len(c.sections)+1), n-1)
	ext := oddExtend(x, padLen)

	c.settle(ext[0])
	c.ProcessBlock(ext)

	slices.Reverse(ext)
	c.settle(ext[0])
	c.ProcessBlock(ext)
	slices.Reverse(ext)

	return slices.Clone(ext[padLen : padLen+n])
}

// settle primes every section for a constant input x0 so the cascade
// starts in steady state.
func (c *Chain) settle(x0 float64) {
	v := x0
	for i := range c.sections {
		v = c.sections[i].SettleTo(v)
	}
}

func oddExtend(x []float64, padLen int) []float64 {
	n := len(x)
	ext := make([]float64, n+2*padLen)

	first, last := x[0], x[n-1]
	for i := range padLen {
		ext[i] = 2*first - x[padLen-i]
		ext[padLen+n+i] = 2*last - x[n-2-i]
	}

	copy(ext[padLen:], x)

	return ext
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order returns the total filter order (2 per full biquad section).
func (c *Chain) Order() int {
	return 2 * len(c.sections)
}

// NumSections returns the number of biquad sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// Coefficients returns a copy of the per-section coefficients.
func (c *Chain) Coefficients() []Coefficients {
	out := make([]Coefficients, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].Coefficients
	}

	return out
}

// Section returns a pointer to the i-th section for inspection or modification.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}

// State returns a snapshot of all section delay-line states.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores previously saved section states.
// The slice length must match NumSections.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
