package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/pcmlab/dsp/pcm"
	"github.com/cwbudde/pcmlab/dsp/spectrum"
	"github.com/cwbudde/pcmlab/dsp/window"
	"github.com/cwbudde/pcmlab/measure/thd"
	freqstats "github.com/cwbudde/pcmlab/stats/frequency"
	timestats "github.com/cwbudde/pcmlab/stats/time"
)

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
	ErrInvalidSampleRate = errors.New("metrics: sample rate must be > 0")
	// ErrLengthMismatch is returned when SNR inputs differ in length.
	ErrLengthMismatch = errors.New("metrics: clean and noisy signals differ in length")
)

// Nyquist returns half the sample rate.
func Nyquist(sampleRate float64) float64 {
	return sampleRate / 2
}

// IsAliased reports whether freqHz lies strictly above the Nyquist frequency.
func IsAliased(freqHz, sampleRate float64) bool {
	return freqHz > Nyquist(sampleRate)
}

// AliasFrequency returns the apparent frequency of a tone at freqHz after
// sampling at sampleRate:
//
//	|f - fs*round(f/fs)|
//
// Halfway quotients round to even.
func AliasFrequency(freqHz, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return math.NaN()
	}

	return math.Abs(freqHz - sampleRate*math.RoundToEven(freqHz/sampleRate))
}

// BitRate estimates the PCM bit rate as freqHz*bits.
//
// This is the classroom approximation: it counts one code word per signal
// cycle and ignores the sample rate, so it is not a Nyquist-rate figure.
func BitRate(freqHz float64, bits int) float64 {
	return freqHz * float64(bits)
}

// Levels returns the number of quantization levels for the given bit depth.
func Levels(bits int) (int, error) {
	return pcm.Levels(bits)
}

// SNR is a signal-to-noise ratio in dB. Defined is false when the ratio
// does not exist, for example because the noise power is zero.
type SNR struct {
	DB      float64 `json:"db" yaml:"db"`
	Defined bool    `json:"defined" yaml:"defined"`
}

// String formats the ratio with two decimals, or "N/A" when undefined.
func (s SNR) String() string {
	if !s.Defined {
		return "N/A"
	}

	return fmt.Sprintf("%.2f dB", s.DB)
}

// SNRFromPowers returns 10*log10(signalPower/noisePower). Zero noise power,
// zero signal power and non-finite inputs give an undefined SNR.
func SNRFromPowers(signalPower, noisePower float64) SNR {
	if noisePower <= 0 || signalPower <= 0 {
		return SNR{}
	}

	db := 10 * math.Log10(signalPower/noisePower)
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return SNR{}
	}

	return SNR{DB: db, Defined: true}
}

// SignalToNoise compares a clean signal with its noisy version. The noise
// is noisy-clean; both powers are means of squared samples.
func SignalToNoise(clean, noisy []float64) (SNR, error) {
	if len(clean) != len(noisy) {
		return SNR{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(clean), len(noisy))
	}

	noise := make([]float64, len(noisy))
	for i := range noisy {
		noise[i] = noisy[i] - clean[i]
	}

	return SNRFromPowers(timestats.MeanPower(clean), timestats.MeanPower(noise)), nil
}

// Input collects what Compute needs. Noisy and Spectrum are optional.
type Input struct {
	FrequencyHz float64
	SampleRate  float64
	Bits        int
	// Signal is the sequence summarized by the time-domain statistics.
	Signal []float64
	// Clean and Noisy feed the SNR; a nil Noisy skips it.
	Clean []float64
	Noisy []float64
	// Spectrum, when set, feeds the spectral statistics over its
	// non-negative half and the harmonic distortion figures.
	Spectrum *spectrum.Result
	// Window is the weighting applied before Spectrum was taken.
	Window window.Type
}

// Report is the full set of figures for one pipeline run.
type Report struct {
	NyquistHz float64 `json:"nyquist_hz" yaml:"nyquist_hz"`
	Aliased   bool    `json:"aliased" yaml:"aliased"`
	// AliasHz is the apparent frequency; zero unless Aliased.
	AliasHz  float64          `json:"alias_hz" yaml:"alias_hz"`
	Levels   int              `json:"levels" yaml:"levels"`
	BitRate  float64          `json:"bit_rate" yaml:"bit_rate"`
	SNR      *SNR             `json:"snr,omitempty" yaml:"snr,omitempty"`
	Time     timestats.Stats  `json:"time" yaml:"time"`
	Spectral *freqstats.Stats `json:"spectral,omitempty" yaml:"spectral,omitempty"`
	// Distortion is measured at the apparent frequency of the tone. It is
	// nil without a spectrum or when the tone folds onto DC.
	Distortion *thd.Result `json:"distortion,omitempty" yaml:"distortion,omitempty"`
}

// Compute derives every metric for in.
func Compute(in Input) (Report, error) {
	if in.SampleRate <= 0 || math.IsNaN(in.SampleRate) || math.IsInf(in.SampleRate, 0) {
		return Report{}, fmt.Errorf("%w: %g", ErrInvalidSampleRate, in.SampleRate)
	}

	levels, err := Levels(in.Bits)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		NyquistHz: Nyquist(in.SampleRate),
		Aliased:   IsAliased(in.FrequencyHz, in.SampleRate),
		Levels:    levels,
		BitRate:   BitRate(in.FrequencyHz, in.Bits),
		Time:      timestats.Calculate(in.Signal),
	}

	if r.Aliased {
		r.AliasHz = AliasFrequency(in.FrequencyHz, in.SampleRate)
	}

	if in.Noisy != nil {
		snr, err := SignalToNoise(in.Clean, in.Noisy)
		if err != nil {
			return Report{}, err
		}
		r.SNR = &snr
	}

	if in.Spectrum != nil {
		half := in.Spectrum.Half()
		s := freqstats.Calculate(half.Freqs, half.Magnitude)
		r.Spectral = &s
		r.Distortion = distortion(in, r, half)
	}

	return r, nil
}

func distortion(in Input, r Report, half spectrum.Result) *thd.Result {
	fundamental := in.FrequencyHz
	if r.Aliased {
		fundamental = r.AliasHz
	}
	if fundamental <= 0 {
		return nil
	}

	d := thd.NewCalculator(thd.Config{
		SampleRate:      in.SampleRate,
		FFTSize:         in.Spectrum.Len(),
		FundamentalFreq: fundamental,
		WindowType:      in.Window,
	}).Calculate(half.Magnitude)
	if d.FundamentalLevel <= 0 {
		return nil
	}
	return &d
}
