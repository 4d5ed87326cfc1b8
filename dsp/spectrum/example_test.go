package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/pcmlab/dsp/spectrum"
)

func ExampleMagnitude() {
	bins := []complex128{1 + 0i, 0 + 1i, -1 + 0i}
	mag := spectrum.Magnitude(bins)
	fmt.Printf("%.1f %.1f %.1f\n", mag[0], mag[1], mag[2])
	// Output:
	// 1.0 1.0 1.0
}

func ExampleUnwrapPhase() {
	wrapped := []float64{2.8, -2.7, -2.6}
	unwrapped := spectrum.UnwrapPhase(wrapped)
	fmt.Printf("%.3f %.3f %.3f\n", unwrapped[0], unwrapped[1], unwrapped[2])
	// Output:
	// 2.800 3.583 3.683
}

func ExampleAnalyze() {
	x := make([]float64, 8)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * float64(i) / 4)
	}

	res, _ := spectrum.Analyze(x, 8)
	half := res.Half()
	for k := range half.Len() {
		fmt.Printf("%.0f Hz: %.1f\n", half.Freqs[k], half.Magnitude[k])
	}
	// Output:
	// 0 Hz: 0.0
	// 1 Hz: 0.0
	// 2 Hz: 4.0
	// 3 Hz: 0.0
	// 4 Hz: 0.0
}
