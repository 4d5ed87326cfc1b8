package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/pcmlab/dsp/core"
)

// Generator samples waveforms over the observation window of its
// processor configuration.
type Generator struct {
	cfg core.ProcessorConfig
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg: core.ApplyProcessorOptions(opts...),
	}
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Times returns the sampling instants i/fs covering [0, Duration).
func (g *Generator) Times() ([]float64, error) {
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if g.cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be > 0: %f", g.cfg.Duration)
	}

	n := g.cfg.SampleCount()
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / g.cfg.SampleRate
	}
	return out, nil
}

// Sample evaluates w at the sampling instants and returns both the time
// axis and the sampled values.
func (g *Generator) Sample(w Waveform) (t, x []float64, err error) {
	t, err = g.Times()
	if err != nil {
		return nil, nil, err
	}
	return t, w.At(t), nil
}

// Analog evaluates w on a dense, evenly spaced grid of points over
// [0, Duration] inclusive. It stands in for the continuous reference
// curve drawn behind the sampled points.
func (g *Generator) Analog(w Waveform, points int) (t, x []float64, err error) {
	if points < 2 {
		return nil, nil, fmt.Errorf("analog points must be >= 2: %d", points)
	}
	if g.cfg.Duration <= 0 {
		return nil, nil, fmt.Errorf("duration must be > 0: %f", g.cfg.Duration)
	}
	t = Linspace(0, g.cfg.Duration, points)
	return t, w.At(t), nil
}

// Linspace returns n evenly spaced values over [start, stop], endpoints included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[n-1] = stop
	return out
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
