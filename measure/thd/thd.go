// Package thd measures harmonic distortion of a periodic signal from its
// magnitude spectrum: total harmonic distortion, THD+N and SINAD.
package thd

import (
	"math"

	"github.com/cwbudde/pcmlab/dsp/window"
)

// FloorDB is reported for ratios of zero.
const FloorDB = -240.0

// Config holds THD calculation parameters.
type Config struct {
	// SampleRate and FFTSize set the bin spacing SampleRate/FFTSize. A zero
	// FFTSize is taken as 2*(bins-1).
	SampleRate float64
	FFTSize    int
	// FundamentalFreq selects the fundamental bin; 0 picks the strongest
	// non-DC bin.
	FundamentalFreq float64
	// CaptureBins is the number of neighbours summed on each side of a
	// peak. 0 derives it from WindowType; a negative value disables it.
	CaptureBins int
	// MaxHarmonics limits the harmonics evaluated; 0 means up to Nyquist.
	MaxHarmonics int
	// WindowType is the window the signal was weighted with.
	WindowType window.Type
}

// Result holds THD measurement results. Levels are linear magnitudes;
// ratios are relative to the fundamental.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64 `json:"fundamental_hz" yaml:"fundamental_hz"`
	FundamentalLevel float64 `json:"fundamental_level" yaml:"fundamental_level"`
	THD              float64 `json:"thd" yaml:"thd"`
	THDN             float64 `json:"thdn" yaml:"thdn"`
	THD_dB           float64 `json:"thd_db" yaml:"thd_db"`
	THDN_dB          float64 `json:"thdn_db" yaml:"thdn_db"`
	OddHD            float64 `json:"odd_hd" yaml:"odd_hd"`
	EvenHD           float64 `json:"even_hd" yaml:"even_hd"`
	Noise            float64 `json:"noise" yaml:"noise"`
	// Harmonics[i] is the level of harmonic i+2.
	Harmonics []float64 `json:"harmonics" yaml:"harmonics"`
	SINAD     float64   `json:"sinad_db" yaml:"sinad_db"`
}

// Calculator performs THD analysis on frequency-domain data.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a new THD calculator.
func NewCalculator(cfg Config) *Calculator {
	if cfg.MaxHarmonics < 0 {
		cfg.MaxHarmonics = 0
	}
	return &Calculator{cfg: cfg}
}

// Calculate computes THD metrics from the magnitudes of bins 0..N/2.
// A spectrum without a usable fundamental returns a zero Result.
func (c *Calculator) Calculate(magnitude []float64) Result {
	if len(magnitude) <= 1 {
		return Result{}
	}

	cfg := c.cfg
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2 * (len(magnitude) - 1)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	maxBin := len(magnitude) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)

	fundamentalBin := fundamentalBin(magnitude, cfg.FundamentalFreq, binHz)
	if fundamentalBin < 1 || fundamentalBin > maxBin {
		return Result{}
	}

	captureBins := cfg.CaptureBins
	switch {
	case captureBins < 0:
		captureBins = 0
	case captureBins == 0:
		captureBins = firstMinimumBins(cfg.WindowType)
	}
	if captureBins*2 > fundamentalBin {
		captureBins = fundamentalBin / 2
	}

	fundamentalLevel := binValue(magnitude, fundamentalBin, captureBins)
	if fundamentalLevel <= 0 {
		return Result{}
	}

	var thdAbs, oddAbs, evenAbs float64
	harmonics := make([]float64, 0, 8)

	for k := 2; k*fundamentalBin <= maxBin; k++ {
		if cfg.MaxHarmonics > 0 && len(harmonics) >= cfg.MaxHarmonics {
			break
		}

		value := binValue(magnitude, k*fundamentalBin, captureBins)

		thdAbs += value
		if k%2 == 0 {
			evenAbs += value
		} else {
			oddAbs += value
		}
		harmonics = append(harmonics, value/fundamentalLevel)
	}

	totalAbs := 0.0
	for _, m := range magnitude[1:] {
		totalAbs += math.Abs(m)
	}

	thdnAbs := math.Max(totalAbs-fundamentalLevel, 0)
	noiseAbs := math.Max(thdnAbs-thdAbs, 0)

	thdn := thdnAbs / fundamentalLevel
	thdnDB := ratioToDB(thdn)

	return Result{
		FundamentalFreq:  float64(fundamentalBin) * binHz,
		FundamentalLevel: fundamentalLevel,
		THD:              thdAbs / fundamentalLevel,
		THDN:             thdn,
		THD_dB:           ratioToDB(thdAbs / fundamentalLevel),
		THDN_dB:          thdnDB,
		OddHD:            oddAbs / fundamentalLevel,
		EvenHD:           evenAbs / fundamentalLevel,
		Noise:            noiseAbs / fundamentalLevel,
		Harmonics:        harmonics,
		SINAD:            -thdnDB,
	}
}

func fundamentalBin(magnitude []float64, freqHz, binHz float64) int {
	if freqHz > 0 {
		return int(math.Round(freqHz / binHz))
	}

	best := 1
	for i := 2; i < len(magnitude); i++ {
		if magnitude[i] > magnitude[best] {
			best = i
		}
	}
	return best
}

// firstMinimumBins is the half width of the main lobe in bins.
func firstMinimumBins(t window.Type) int {
	switch t {
	case window.TypeRectangular:
		return 1
	case window.TypeBlackman:
		return 3
	default:
		return 2
	}
}

func binValue(magnitude []float64, bin, captureBins int) float64 {
	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(magnitude)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += math.Abs(magnitude[i])
	}
	return sum
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return FloorDB
	}
	return math.Max(20*math.Log10(v), FloorDB)
}
