package time

import (
	"math"

	"github.com/cwbudde/pcmlab/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FloorDB is reported for dB quantities whose linear value is zero.
const FloorDB = -240.0

// Stats holds time-domain signal statistics.
//
//nolint:revive
type Stats struct {
	Length         int     `json:"length" yaml:"length"`
	DC             float64 `json:"dc" yaml:"dc"` // mean
	RMS            float64 `json:"rms" yaml:"rms"`
	RMS_dB         float64 `json:"rms_db" yaml:"rms_db"`
	Max            float64 `json:"max" yaml:"max"`
	MaxPos         int     `json:"max_pos" yaml:"max_pos"`
	Min            float64 `json:"min" yaml:"min"`
	MinPos         int     `json:"min_pos" yaml:"min_pos"`
	Peak           float64 `json:"peak" yaml:"peak"` // max(|max|, |min|)
	Peak_dB        float64 `json:"peak_db" yaml:"peak_db"`
	CrestFactor    float64 `json:"crest_factor" yaml:"crest_factor"` // peak / RMS
	CrestFactor_dB float64 `json:"crest_factor_db" yaml:"crest_factor_db"`
	Energy         float64 `json:"energy" yaml:"energy"` // sum of squares
	Power          float64 `json:"power" yaml:"power"`   // energy / length
	Variance       float64 `json:"variance" yaml:"variance"`
	ZeroCrossings  int     `json:"zero_crossings" yaml:"zero_crossings"`
}

// ampTodB converts an amplitude to decibels, flooring silence at FloorDB.
func ampTodB(value float64) float64 {
	db := core.LinearToDB(math.Abs(value))
	if math.IsInf(db, -1) || db < FloorDB {
		return FloorDB
	}

	return db
}

// Calculate computes all time-domain statistics of signal.
//
// An empty signal yields zero values with every dB field at FloorDB.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{RMS_dB: FloorDB, Peak_dB: FloorDB, CrestFactor_dB: FloorDB}
	}

	mean, variance := stat.PopMeanVariance(signal, nil)
	energy := floats.Dot(signal, signal)
	rms := math.Sqrt(energy / float64(n))

	maxPos := floats.MaxIdx(signal)
	minPos := floats.MinIdx(signal)
	maxVal, minVal := signal[maxPos], signal[minPos]
	peak := math.Max(math.Abs(maxVal), math.Abs(minVal))

	s := Stats{
		Length:         n,
		DC:             mean,
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Max:            maxVal,
		MaxPos:         maxPos,
		Min:            minVal,
		MinPos:         minPos,
		Peak:           peak,
		Peak_dB:        ampTodB(peak),
		CrestFactor_dB: FloorDB,
		Energy:         energy,
		Power:          energy / float64(n),
		Variance:       variance,
		ZeroCrossings:  ZeroCrossings(signal),
	}

	if rms > 0 {
		s.CrestFactor = peak / rms
		s.CrestFactor_dB = ampTodB(s.CrestFactor)
	}

	return s
}

// RMS returns the root-mean-square level of signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(floats.Dot(signal, signal) / float64(len(signal)))
}

// MeanPower returns the mean of the squared samples, 0 when empty.
func MeanPower(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return floats.Dot(signal, signal) / float64(len(signal))
}

// Peak returns the maximum absolute sample value.
func Peak(signal []float64) float64 {
	peak := 0.0
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}

	return peak
}

// CrestFactor returns peak / RMS, 0 for silent or empty input.
func CrestFactor(signal []float64) float64 {
	rms := RMS(signal)
	if rms == 0 {
		return 0
	}

	return Peak(signal) / rms
}

// ZeroCrossings counts strict sign changes between neighbouring samples.
// Samples that are exactly zero do not start or end a crossing.
func ZeroCrossings(signal []float64) int {
	count := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}
