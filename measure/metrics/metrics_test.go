package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/pcmlab/dsp/pcm"
	"github.com/cwbudde/pcmlab/dsp/spectrum"
	"github.com/cwbudde/pcmlab/internal/testutil"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAliasing(t *testing.T) {
	tests := []struct {
		name    string
		freq    float64
		fs      float64
		aliased bool
		alias   float64
	}{
		{"classroom 60 at 100", 60, 100, true, 40},
		{"below nyquist", 10, 100, false, 10},
		{"at nyquist", 50, 100, false, 50},
		{"just above", 51, 100, true, 49},
		{"folds to dc", 200, 100, true, 0},
		{"second zone", 130, 100, true, 30},
		{"halfway rounds to even", 150, 100, true, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAliased(tc.freq, tc.fs); got != tc.aliased {
				t.Fatalf("IsAliased=%v, want %v", got, tc.aliased)
			}

			if got := AliasFrequency(tc.freq, tc.fs); !almostEqual(got, tc.alias, 1e-12) {
				t.Fatalf("AliasFrequency=%v, want %v", got, tc.alias)
			}
		})
	}

	if !math.IsNaN(AliasFrequency(10, 0)) {
		t.Fatal("expected NaN for zero sample rate")
	}
}

func TestNyquistAndBitRate(t *testing.T) {
	if got := Nyquist(44100); got != 22050 {
		t.Fatalf("Nyquist=%v", got)
	}

	if got := BitRate(10, 8); got != 80 {
		t.Fatalf("BitRate=%v, want 80", got)
	}
}

func TestLevels(t *testing.T) {
	got, err := Levels(3)
	if err != nil || got != 8 {
		t.Fatalf("Levels(3)=%d, %v", got, err)
	}

	if _, err := Levels(0); !errors.Is(err, pcm.ErrInvalidBits) {
		t.Fatalf("expected ErrInvalidBits, got %v", err)
	}
}

func TestSNRFromPowers(t *testing.T) {
	tests := []struct {
		name    string
		signal  float64
		noise   float64
		defined bool
		db      float64
		text    string
	}{
		{"ten to one", 1, 0.1, true, 10, "10.00 dB"},
		{"equal", 0.5, 0.5, true, 0, "0.00 dB"},
		{"no noise", 1, 0, false, 0, "N/A"},
		{"no signal", 0, 1, false, 0, "N/A"},
		{"nan", math.NaN(), 1, false, 0, "N/A"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := SNRFromPowers(tc.signal, tc.noise)
			if s.Defined != tc.defined || !almostEqual(s.DB, tc.db, 1e-12) {
				t.Fatalf("got %+v, want defined=%v db=%v", s, tc.defined, tc.db)
			}

			if s.String() != tc.text {
				t.Fatalf("String()=%q, want %q", s.String(), tc.text)
			}
		})
	}
}

func TestSignalToNoise(t *testing.T) {
	clean := []float64{1, -1, 1, -1}
	noisy := []float64{1.1, -0.9, 0.9, -1.1}

	s, err := SignalToNoise(clean, noisy)
	if err != nil {
		t.Fatal(err)
	}

	if !s.Defined || !almostEqual(s.DB, 20, 1e-9) {
		t.Fatalf("got %+v, want 20 dB", s)
	}

	same, err := SignalToNoise(clean, clean)
	if err != nil || same.Defined {
		t.Fatalf("identical signals should be undefined: %+v %v", same, err)
	}

	if _, err := SignalToNoise(clean, noisy[:2]); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestComputeBeginner(t *testing.T) {
	x := testutil.DeterministicSine(60, 100, 1, 50)

	r, err := Compute(Input{FrequencyHz: 60, SampleRate: 100, Bits: 3, Signal: x})
	if err != nil {
		t.Fatal(err)
	}

	if r.NyquistHz != 50 || !r.Aliased || r.AliasHz != 40 || r.Levels != 8 || r.BitRate != 180 {
		t.Fatalf("unexpected report: %+v", r)
	}

	if r.SNR != nil || r.Spectral != nil || r.Distortion != nil {
		t.Fatalf("optional sections should be empty: %+v", r)
	}

	if r.Time.Length != 50 {
		t.Fatalf("time stats length=%d", r.Time.Length)
	}
}

func TestComputeWithNoiseAndSpectrum(t *testing.T) {
	clean := testutil.DeterministicSine(10, 100, 1, 50)
	noisy := append([]float64(nil), clean...)
	noisy[3] += 0.5

	spec, err := spectrum.Analyze(clean, 100)
	if err != nil {
		t.Fatal(err)
	}

	r, err := Compute(Input{
		FrequencyHz: 10,
		SampleRate:  100,
		Bits:        8,
		Signal:      noisy,
		Clean:       clean,
		Noisy:       noisy,
		Spectrum:    &spec,
	})
	if err != nil {
		t.Fatal(err)
	}

	if r.Aliased || r.AliasHz != 0 {
		t.Fatalf("10 Hz at 100 Hz should not alias: %+v", r)
	}

	if r.SNR == nil || !r.SNR.Defined {
		t.Fatalf("expected defined SNR, got %+v", r.SNR)
	}

	if r.Spectral == nil || r.Spectral.BinCount != 26 {
		t.Fatalf("expected spectral stats over 26 bins, got %+v", r.Spectral)
	}

	if !almostEqual(r.Spectral.PeakHz, 10, 1e-9) {
		t.Fatalf("spectral peak=%v Hz, want 10", r.Spectral.PeakHz)
	}
}

func TestComputeDistortion(t *testing.T) {
	x, err := pcm.Quantize(testutil.DeterministicSine(10, 100, 1, 50), 1)
	if err != nil {
		t.Fatal(err)
	}

	spec, err := spectrum.Analyze(x, 100)
	if err != nil {
		t.Fatal(err)
	}

	r, err := Compute(Input{FrequencyHz: 10, SampleRate: 100, Bits: 1, Signal: x, Spectrum: &spec})
	if err != nil {
		t.Fatal(err)
	}

	if r.Distortion == nil {
		t.Fatal("expected distortion figures")
	}
	if !almostEqual(r.Distortion.FundamentalFreq, 10, 1e-9) {
		t.Fatalf("fundamental=%v Hz, want 10", r.Distortion.FundamentalFreq)
	}
	// 2, 3, 4 and 5 times 10 Hz fit below the 50 Hz Nyquist limit
	if len(r.Distortion.Harmonics) != 4 {
		t.Fatalf("harmonics=%v, want 4 entries", r.Distortion.Harmonics)
	}
	if r.Distortion.THD < 0.5 || r.Distortion.THDN < r.Distortion.THD {
		t.Fatalf("1-bit sine should distort heavily: %+v", r.Distortion)
	}
}

func TestComputeDistortionFoldedOntoDC(t *testing.T) {
	x := testutil.DC(1, 50)

	spec, err := spectrum.Analyze(x, 100)
	if err != nil {
		t.Fatal(err)
	}

	r, err := Compute(Input{FrequencyHz: 100, SampleRate: 100, Bits: 3, Signal: x, Spectrum: &spec})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Aliased || r.AliasHz != 0 {
		t.Fatalf("100 Hz at 100 Hz should alias to 0 Hz: %+v", r)
	}
	if r.Distortion != nil {
		t.Fatalf("expected no distortion figures, got %+v", r.Distortion)
	}
}

func TestComputeErrors(t *testing.T) {
	if _, err := Compute(Input{FrequencyHz: 1, SampleRate: 0, Bits: 3}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("expected ErrInvalidSampleRate, got %v", err)
	}

	if _, err := Compute(Input{FrequencyHz: 1, SampleRate: 10, Bits: 17}); !errors.Is(err, pcm.ErrInvalidBits) {
		t.Fatalf("expected ErrInvalidBits, got %v", err)
	}

	_, err := Compute(Input{FrequencyHz: 1, SampleRate: 10, Bits: 3, Clean: []float64{1}, Noisy: []float64{1, 2}})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}
