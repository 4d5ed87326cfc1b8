package signal

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultNoiseStdDev is the standard deviation used by the classroom
// noise stage.
const DefaultNoiseStdDev = 0.1

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GaussianNoise adds zero-mean, independent Gaussian noise to a signal.
type GaussianNoise struct {
	stdDev float64
	rng    *rand.Rand
}

// NewGaussianNoise creates a noise source with the given standard
// deviation drawing from rng. A nil rng gets a randomly seeded PCG source;
// pass NewRand(seed) for reproducible output.
func NewGaussianNoise(stdDev float64, rng *rand.Rand) (*GaussianNoise, error) {
	if stdDev < 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		return nil, fmt.Errorf("noise standard deviation must be >= 0 and finite: %f", stdDev)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &GaussianNoise{stdDev: stdDev, rng: rng}, nil
}

// StdDev returns the configured standard deviation.
func (n *GaussianNoise) StdDev() float64 { return n.stdDev }

// AddTo returns x plus one noise draw per sample. x is not modified.
func (n *GaussianNoise) AddTo(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v + n.rng.NormFloat64()*n.stdDev
	}
	return out
}
