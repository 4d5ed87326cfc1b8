package pcm

import (
	"github.com/cwbudde/pcmlab/dsp/core"
	"github.com/cwbudde/pcmlab/dsp/signal"
)

// EyeTrace is one overlay of an eye diagram: two symbol periods of signal
// plotted against a time axis running from 0 to 2 symbol periods.
type EyeTrace struct {
	Time   []float64
	Values []float64
}

// SamplesPerSymbol returns int(sampleRate / (2*symbolRate)), the number of
// samples in one symbol period when each cycle of the source carries two
// symbols. Non-positive rates give 0.
func SamplesPerSymbol(sampleRate, symbolRate float64) int {
	if sampleRate <= 0 || symbolRate <= 0 {
		return 0
	}
	return int(sampleRate / (2 * symbolRate))
}

// EyeDiagram slices encoded into overlapping traces of two symbol periods,
// starting every symbol period. Trace i covers samples
// [i*sps, i*sps+2*sps) and traces that would run past the end are dropped.
// When a symbol spans less than one sample there are no traces.
func EyeDiagram(encoded []float64, sampleRate, symbolRate float64) []EyeTrace {
	sps := SamplesPerSymbol(sampleRate, symbolRate)
	if sps < 1 {
		return nil
	}

	symbols := len(encoded) / sps
	axis := signal.Linspace(0, 2, 2*sps)

	var traces []EyeTrace
	for i := 0; i < symbols-1; i++ {
		start := i * sps
		end := start + 2*sps
		if end > len(encoded) {
			break
		}

		traces = append(traces, EyeTrace{
			Time:   core.Clone(axis),
			Values: core.Clone(encoded[start:end]),
		})
	}

	return traces
}
