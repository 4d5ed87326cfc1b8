package pipeline

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/pcmlab/dsp/filter/design/pass"
	"github.com/cwbudde/pcmlab/dsp/pcm"
	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/cwbudde/pcmlab/dsp/spectrum"
	"github.com/cwbudde/pcmlab/dsp/window"
	"github.com/cwbudde/pcmlab/measure/metrics"
)

// SampledSignal is a uniformly sampled sequence over the observation window.
type SampledSignal = signal.Sampled

// CodeWordDisplay is how many code words Result.CodeWordText holds.
const CodeWordDisplay = 20

// Result holds every intermediate of one run. Fields for stages the
// variant does not execute are left nil.
type Result struct {
	Params Params

	// Analog is the dense reference curve over [0, Duration].
	Analog SampledSignal
	// Sampled is the clean source at the sampling instants.
	Sampled SampledSignal
	// Noisy is Sampled plus Gaussian noise (Intermediate).
	Noisy *SampledSignal
	// Processed is Sampled after window and filter (Expert).
	Processed *SampledSignal
	// Quantized is the stage input snapped to 2^bits levels.
	Quantized SampledSignal

	Encoded      []float64
	CodeWords    []int
	CodeWordText []string
	Eye          []pcm.EyeTrace

	Spectrum *spectrum.Result
	Metrics  metrics.Report
}

// Run executes the stages of p.Variant. The parameters are validated
// first and nothing runs when they are invalid. rng feeds the noise stage;
// nil draws a randomly seeded source. Concurrent callers must not share rng.
func Run(p Params, rng *rand.Rand) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	gen := signal.NewGenerator(p.processorOptions()...)
	src := p.waveform()

	sampled, err := gen.SampleSignal(src)
	if err != nil {
		return Result{}, err
	}

	at, ax, err := gen.Analog(src, p.AnalogPoints)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Params:  p,
		Analog:  SampledSignal{Time: at, Values: ax, SampleRate: p.SampleRateHz},
		Sampled: sampled,
	}

	switch p.Variant {
	case VariantBeginner:
		err = res.runBeginner()
	case VariantIntermediate:
		err = res.runIntermediate(rng)
	case VariantExpert:
		err = res.runExpert()
	}
	if err != nil {
		return Result{}, err
	}

	return res, nil
}

func (r *Result) runBeginner() error {
	if err := r.quantize(r.Sampled.Values); err != nil {
		return err
	}
	return r.computeMetrics(metrics.Input{})
}

func (r *Result) runIntermediate(rng *rand.Rand) error {
	p := r.Params
	stageInput := r.Sampled.Values

	in := metrics.Input{}
	if p.Noise.Enabled {
		noise, err := signal.NewGaussianNoise(p.Noise.StdDev, rng)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidNoise, err)
		}
		noisy := r.Sampled.WithValues(noise.AddTo(r.Sampled.Values))
		r.Noisy = &noisy
		stageInput = noisy.Values
		in.Clean, in.Noisy = r.Sampled.Values, noisy.Values
	}

	if err := r.quantize(stageInput); err != nil {
		return err
	}
	if err := r.analyze(); err != nil {
		return err
	}
	return r.computeMetrics(in)
}

func (r *Result) runExpert() error {
	p := r.Params

	processed, err := process(p, r.Sampled.Values)
	if err != nil {
		return err
	}
	ps := r.Sampled.WithValues(processed)
	r.Processed = &ps

	if err := r.quantize(processed); err != nil {
		return err
	}
	if err := r.analyze(); err != nil {
		return err
	}

	r.Encoded, err = pcm.Encode(r.Quantized.Values, p.LineCode)
	if err != nil {
		return err
	}

	r.CodeWords, err = pcm.CodeWords(r.Encoded, p.Bits)
	if err != nil {
		return err
	}
	r.CodeWordText = pcm.FormatCodeWords(r.CodeWords, p.Bits, CodeWordDisplay)
	r.Eye = pcm.EyeDiagram(r.Encoded, float64(p.SampleRateHz), p.FrequencyHz)

	return r.computeMetrics(metrics.Input{Window: p.Window})
}

// process applies the window and, when enabled, the zero-phase filter.
func process(p Params, x []float64) ([]float64, error) {
	out := window.Multiply(p.Window, x)

	if !p.Filter.Enabled {
		return out, nil
	}

	chain, err := pass.Butterworth(p.Filter.Mode, p.Filter.Normalized(p.SampleRateHz), p.Filter.Order)
	if err != nil {
		return nil, err
	}
	return chain.FiltFilt(out), nil
}

func (r *Result) quantize(x []float64) error {
	q, err := pcm.Quantize(x, r.Params.Bits)
	if err != nil {
		return err
	}
	r.Quantized = r.Sampled.WithValues(q)
	return nil
}

// analyze transforms the quantized signal.
func (r *Result) analyze() error {
	spec, err := spectrum.Analyze(r.Quantized.Values, float64(r.Params.SampleRateHz))
	if err != nil {
		return err
	}
	r.Spectrum = &spec
	return nil
}

func (r *Result) computeMetrics(in metrics.Input) error {
	in.FrequencyHz = r.Params.FrequencyHz
	in.SampleRate = float64(r.Params.SampleRateHz)
	in.Bits = r.Params.Bits
	in.Signal = r.Quantized.Values
	in.Spectrum = r.Spectrum

	report, err := metrics.Compute(in)
	if err != nil {
		return err
	}
	r.Metrics = report
	return nil
}
