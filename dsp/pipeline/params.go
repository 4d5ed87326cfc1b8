package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/pcmlab/dsp/core"
	"github.com/cwbudde/pcmlab/dsp/filter/design/pass"
	"github.com/cwbudde/pcmlab/dsp/pcm"
	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/cwbudde/pcmlab/dsp/window"
)

// Variant selects which stages Run executes.
type Variant int

const (
	// VariantBeginner samples and quantizes a sine.
	VariantBeginner Variant = iota
	// VariantIntermediate adds waveform shape, phase, Gaussian noise, SNR
	// and a magnitude spectrum.
	VariantIntermediate
	// VariantExpert samples a sine through window and filter, then adds
	// the phase spectrum, line coding, code words and an eye diagram.
	VariantExpert
)

var variantNames = [...]string{
	VariantBeginner:     "beginner",
	VariantIntermediate: "intermediate",
	VariantExpert:       "expert",
}

func (v Variant) String() string {
	if v >= 0 && int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant resolves a variant name case-insensitively.
func ParseVariant(name string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range variantNames {
		if n == key {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Defaults used by DefaultParams.
const (
	DefaultDuration     = 0.5
	DefaultAnalogPoints = 1000
	DefaultSmoothing    = 4
	MaxSmoothing        = 8

	// MaxSamples caps Duration*SampleRateHz.
	MaxSamples      = 1 << 20
	MaxAnalogPoints = 1 << 20
)

var (
	ErrInvalidFrequency    = errors.New("pipeline: frequency must be > 0")
	ErrInvalidAmplitude    = errors.New("pipeline: amplitude must be > 0")
	ErrInvalidSampleRate   = errors.New("pipeline: sample rate must be > 0")
	ErrInvalidNoise        = errors.New("pipeline: noise standard deviation must be >= 0")
	ErrInvalidSmoothing    = errors.New("pipeline: smoothing taps out of range")
	ErrInvalidPhase        = errors.New("pipeline: phase must be finite")
	ErrInvalidDuration     = errors.New("pipeline: duration must be > 0")
	ErrTooManySamples      = errors.New("pipeline: duration times sample rate exceeds sample limit")
	ErrInvalidAnalogPoints = errors.New("pipeline: analog points out of range")
	ErrUnknownVariant      = errors.New("pipeline: unknown variant")
	ErrUnknownKind         = signal.ErrUnknownKind
)

// SignalParameters is the source description shared by every variant.
type SignalParameters struct {
	Kind         signal.Kind
	FrequencyHz  float64
	Amplitude    float64
	PhaseDeg     float64
	SampleRateHz int
	Bits         int
}

// NoiseSettings controls the additive Gaussian noise stage.
type NoiseSettings struct {
	Enabled bool
	StdDev  float64
}

// FilterSettings controls the zero-phase Butterworth stage. CutoffHz is
// converted to a fraction of Nyquist; bandpass passes [CutoffHz/2, CutoffHz].
type FilterSettings struct {
	Enabled  bool
	Mode     pass.Mode
	CutoffHz float64
	Order    int
}

// Normalized returns the cutoff as a fraction of the Nyquist frequency.
func (f FilterSettings) Normalized(sampleRateHz int) float64 {
	return f.CutoffHz / (float64(sampleRateHz) / 2)
}

// Params is one complete pipeline configuration.
type Params struct {
	SignalParameters

	Variant  Variant
	Noise    NoiseSettings
	Window   window.Type
	Filter   FilterSettings
	LineCode pcm.LineCode
	// Smoothing is the moving-average length applied by ExportSignal;
	// 0 and 1 leave the signal unchanged.
	Smoothing int
	// Duration is the observation window in seconds.
	Duration float64
	// AnalogPoints is the density of the continuous reference curve.
	AnalogPoints int
}

// DefaultParams returns the classroom defaults for a variant: a 10 Hz,
// unit-amplitude sine sampled at 100 Hz with 3-bit quantization over half
// a second.
func DefaultParams(v Variant) Params {
	return Params{
		SignalParameters: SignalParameters{
			Kind:         signal.KindSine,
			FrequencyHz:  10,
			Amplitude:    1,
			SampleRateHz: 100,
			Bits:         3,
		},
		Variant: v,
		Noise:   NoiseSettings{Enabled: true, StdDev: signal.DefaultNoiseStdDev},
		Window:  window.TypeRectangular,
		Filter: FilterSettings{
			Mode:     pass.ModeLowpass,
			CutoffHz: 20,
			Order:    pass.DefaultOrder,
		},
		LineCode:     pcm.Unipolar,
		Smoothing:    DefaultSmoothing,
		Duration:     DefaultDuration,
		AnalogPoints: DefaultAnalogPoints,
	}
}

// Validate reports every configuration problem at once. Each joined error
// wraps one of the package sentinels, pcm.ErrInvalidBits or
// pass.ErrInvalidCutoff / pass.ErrInvalidOrder.
func (p Params) Validate() error {
	var errs []error

	if int(p.Variant) < 0 || int(p.Variant) >= len(variantNames) {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownVariant, int(p.Variant)))
	}
	if !validKind(p.Kind) {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownKind, int(p.Kind)))
	}
	if !positive(p.FrequencyHz) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidFrequency, p.FrequencyHz))
	}
	if !positive(p.Amplitude) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidAmplitude, p.Amplitude))
	}
	if math.IsNaN(p.PhaseDeg) || math.IsInf(p.PhaseDeg, 0) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidPhase, p.PhaseDeg))
	}
	if p.SampleRateHz <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidSampleRate, p.SampleRateHz))
	}
	if _, err := pcm.Levels(p.Bits); err != nil {
		errs = append(errs, err)
	}
	if !positive(p.Duration) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidDuration, p.Duration))
	} else if n := p.Duration * float64(p.SampleRateHz); p.SampleRateHz > 0 && n > MaxSamples {
		errs = append(errs, fmt.Errorf("%w: %.0f (max %d)", ErrTooManySamples, n, MaxSamples))
	}
	if p.AnalogPoints < 2 || p.AnalogPoints > MaxAnalogPoints {
		errs = append(errs, fmt.Errorf("%w: %d (want 2..%d)", ErrInvalidAnalogPoints, p.AnalogPoints, MaxAnalogPoints))
	}
	if p.Smoothing < 0 || p.Smoothing > MaxSmoothing {
		errs = append(errs, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidSmoothing, p.Smoothing, MaxSmoothing))
	}
	if p.Noise.Enabled && (p.Noise.StdDev < 0 || math.IsNaN(p.Noise.StdDev) || math.IsInf(p.Noise.StdDev, 0)) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidNoise, p.Noise.StdDev))
	}
	if p.Filter.Enabled {
		if p.SampleRateHz > 0 {
			wn := p.Filter.Normalized(p.SampleRateHz)
			if math.IsNaN(wn) || wn <= 0 || wn >= 1 {
				errs = append(errs, fmt.Errorf("%w: %g Hz is %g of Nyquist", pass.ErrInvalidCutoff, p.Filter.CutoffHz, wn))
			}
		}
		if p.Filter.Order < 1 || p.Filter.Order > pass.MaxOrder {
			errs = append(errs, fmt.Errorf("%w: %d (want 1..%d)", pass.ErrInvalidOrder, p.Filter.Order, pass.MaxOrder))
		}
	}

	return errors.Join(errs...)
}

// processorOptions returns the sampling configuration for the generator.
func (p Params) processorOptions() []core.ProcessorOption {
	return []core.ProcessorOption{
		core.WithSampleRate(float64(p.SampleRateHz)),
		core.WithDuration(p.Duration),
	}
}

// waveform returns the source the variant samples. Beginner and Expert
// always use a zero-phase sine.
func (p Params) waveform() signal.Waveform {
	w := signal.Waveform{
		Kind:        signal.KindSine,
		FrequencyHz: p.FrequencyHz,
		Amplitude:   p.Amplitude,
	}
	if p.Variant == VariantIntermediate {
		w.Kind = p.Kind
		w.PhaseDeg = core.WrapDegrees(p.PhaseDeg)
	}
	return w
}

func validKind(k signal.Kind) bool {
	_, err := signal.ParseKind(k.String())
	return err == nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
