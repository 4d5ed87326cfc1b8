package pipeline

import (
	"github.com/cwbudde/pcmlab/dsp/conv"
	"github.com/cwbudde/pcmlab/dsp/signal"
)

// ExportSignal regenerates the processed signal for file export: the sine
// is sampled, windowed and filtered as in an Expert run, then smoothed by
// a p.Smoothing-tap moving average whose output is centered on the input.
// The result is not quantized.
func ExportSignal(p Params) (SampledSignal, error) {
	if err := p.Validate(); err != nil {
		return SampledSignal{}, err
	}

	src := p
	src.Variant = VariantExpert

	s, err := signal.NewGenerator(p.processorOptions()...).SampleSignal(src.waveform())
	if err != nil {
		return SampledSignal{}, err
	}

	processed, err := process(p, s.Values)
	if err != nil {
		return SampledSignal{}, err
	}

	if p.Smoothing > 1 {
		processed, err = conv.MovingAverage(processed, p.Smoothing)
		if err != nil {
			return SampledSignal{}, err
		}
	}

	return s.WithValues(processed), nil
}
