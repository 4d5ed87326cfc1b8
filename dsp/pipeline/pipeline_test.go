package pipeline

import (
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/pcmlab/dsp/filter/design/pass"
	"github.com/cwbudde/pcmlab/dsp/pcm"
	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/cwbudde/pcmlab/dsp/window"
	"github.com/cwbudde/pcmlab/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBeginnerAliasing(t *testing.T) {
	p := DefaultParams(VariantBeginner)
	p.FrequencyHz = 60

	res, err := Run(p, nil)
	require.NoError(t, err)

	assert.Len(t, res.Sampled.Values, 50)
	assert.Len(t, res.Quantized.Values, 50)
	assert.Len(t, res.Analog.Values, DefaultAnalogPoints)
	assert.Equal(t, 0.5, res.Analog.Time[len(res.Analog.Time)-1])

	m := res.Metrics
	assert.Equal(t, 50.0, m.NyquistHz)
	assert.True(t, m.Aliased)
	assert.Equal(t, 40.0, m.AliasHz)
	assert.Equal(t, 8, m.Levels)

	assert.Nil(t, res.Noisy)
	assert.Nil(t, res.Processed)
	assert.Nil(t, res.Spectrum)
	assert.Nil(t, res.Encoded)
	assert.Nil(t, m.SNR)
}

func TestRunQuantizerIdempotent(t *testing.T) {
	for bits := 1; bits <= pcm.MaxBits; bits++ {
		p := DefaultParams(VariantBeginner)
		p.Bits = bits

		res, err := Run(p, nil)
		require.NoError(t, err)

		again, err := pcm.Quantize(res.Quantized.Values, bits)
		require.NoError(t, err)
		assert.Equal(t, res.Quantized.Values, again, "bits=%d", bits)
	}
}

func TestRunOneBitIsBinary(t *testing.T) {
	p := DefaultParams(VariantBeginner)
	p.Bits = 1

	res, err := Run(p, nil)
	require.NoError(t, err)

	for i, v := range res.Quantized.Values {
		assert.True(t, v == 1 || v == -1, "sample %d = %v", i, v)
	}
	assert.Equal(t, 2, res.Metrics.Levels)
}

func TestRunIntermediateDeterministicWithSeed(t *testing.T) {
	p := DefaultParams(VariantIntermediate)
	p.Kind = signal.KindSquare

	a, err := Run(p, signal.NewRand(42))
	require.NoError(t, err)
	b, err := Run(p, signal.NewRand(42))
	require.NoError(t, err)

	require.NotNil(t, a.Noisy)
	assert.Equal(t, a.Noisy.Values, b.Noisy.Values)
	assert.Equal(t, a.Quantized.Values, b.Quantized.Values)

	assert.Equal(t, p.Amplitude, a.Sampled.Values[0], "square starts at +amplitude")
	assert.False(t, slices.Equal(a.Sampled.Values, a.Noisy.Values))

	require.NotNil(t, a.Metrics.SNR)
	assert.True(t, a.Metrics.SNR.Defined)
	// unit square against sigma=0.1 is about 20 dB
	assert.InDelta(t, 20, a.Metrics.SNR.DB, 3)

	require.NotNil(t, a.Spectrum)
	assert.Len(t, a.Spectrum.Magnitude, 50)
	require.NotNil(t, a.Metrics.Spectral)
	assert.Equal(t, 26, a.Metrics.Spectral.BinCount)
	require.NotNil(t, a.Metrics.Distortion)
	assert.InDelta(t, 10.0, a.Metrics.Distortion.FundamentalFreq, 1e-9)
}

func TestRunIntermediateWithoutNoise(t *testing.T) {
	p := DefaultParams(VariantIntermediate)
	p.Noise.Enabled = false

	res, err := Run(p, nil)
	require.NoError(t, err)

	assert.Nil(t, res.Noisy)
	assert.Nil(t, res.Metrics.SNR)

	want, err := pcm.Quantize(res.Sampled.Values, p.Bits)
	require.NoError(t, err)
	assert.Equal(t, want, res.Quantized.Values)
}

func TestRunIntermediateZeroNoiseSNRUndefined(t *testing.T) {
	p := DefaultParams(VariantIntermediate)
	p.Noise.StdDev = 0

	res, err := Run(p, signal.NewRand(1))
	require.NoError(t, err)

	require.NotNil(t, res.Metrics.SNR)
	assert.False(t, res.Metrics.SNR.Defined)
	assert.Equal(t, "N/A", res.Metrics.SNR.String())
}

func TestRunExpert(t *testing.T) {
	p := DefaultParams(VariantExpert)
	p.Window = window.TypeHann
	p.Filter.Enabled = true
	p.Filter.Mode = pass.ModeLowpass
	p.LineCode = pcm.BipolarRZ

	res, err := Run(p, nil)
	require.NoError(t, err)

	require.NotNil(t, res.Processed)
	assert.Len(t, res.Processed.Values, 50)
	assert.NotEqual(t, res.Sampled.Values, res.Processed.Values)
	testutil.RequireFinite(t, res.Processed.Values)

	step, err := pcm.StepSize(p.Bits)
	require.NoError(t, err)
	testutil.RequireOnGrid(t, res.Quantized.Values, step, 1e-9)

	assert.Len(t, res.Encoded, 50)
	assert.Len(t, res.CodeWords, 50)
	assert.Len(t, res.CodeWordText, CodeWordDisplay)
	for _, w := range res.CodeWords {
		assert.True(t, w >= 0 && w < 8)
	}
	for _, s := range res.CodeWordText {
		assert.Len(t, s, 3)
	}

	// 100 Hz / (2*10 Hz) = 5 samples per symbol, 10 symbols
	require.Len(t, res.Eye, 9)
	assert.Len(t, res.Eye[0].Values, 10)

	require.NotNil(t, res.Spectrum)
	assert.Len(t, res.Spectrum.Phase, 50)
	assert.Equal(t, 30.0, res.Metrics.BitRate)
	assert.Nil(t, res.Noisy)
}

func TestRunExpertPassthroughMatchesBeginner(t *testing.T) {
	p := DefaultParams(VariantExpert)
	p.Kind = signal.KindTriangle

	expert, err := Run(p, nil)
	require.NoError(t, err)

	p.Variant = VariantBeginner
	beginner, err := Run(p, nil)
	require.NoError(t, err)

	assert.Equal(t, beginner.Quantized.Values, expert.Quantized.Values)
	assert.Equal(t, expert.Sampled.Values, expert.Processed.Values)
}

func TestRunRejectsInvalidParams(t *testing.T) {
	p := DefaultParams(VariantExpert)
	p.Bits = 0

	res, err := Run(p, nil)
	require.ErrorIs(t, err, pcm.ErrInvalidBits)
	assert.Nil(t, res.Sampled.Values)
}

func TestRunSampleCountsFollowRate(t *testing.T) {
	for _, fs := range []int{3, 7, 100, 441} {
		p := DefaultParams(VariantBeginner)
		p.SampleRateHz = fs

		res, err := Run(p, nil)
		require.NoError(t, err)

		want := int(math.Ceil(0.5 * float64(fs)))
		assert.Len(t, res.Quantized.Values, want, "fs=%d", fs)
		assert.Equal(t, fs, res.Quantized.SampleRate)
	}
}

func TestExportSignal(t *testing.T) {
	p := DefaultParams(VariantExpert)
	p.Smoothing = 0

	plain, err := ExportSignal(p)
	require.NoError(t, err)

	res, err := Run(p, nil)
	require.NoError(t, err)
	assert.Equal(t, res.Sampled.Values, plain.Values)

	p.Smoothing = 1
	same, err := ExportSignal(p)
	require.NoError(t, err)
	assert.Equal(t, plain.Values, same.Values)

	p.Smoothing = 4
	smooth, err := ExportSignal(p)
	require.NoError(t, err)
	require.Len(t, smooth.Values, len(plain.Values))

	// ModeSame with 4 taps centers on offset 1: y[n] = mean(x[n-2..n+1])
	n := 20
	want := (plain.Values[n-2] + plain.Values[n-1] + plain.Values[n] + plain.Values[n+1]) / 4
	assert.InDelta(t, want, smooth.Values[n], 1e-12)

	p.Bits = 99
	_, err = ExportSignal(p)
	assert.ErrorIs(t, err, pcm.ErrInvalidBits)
}
