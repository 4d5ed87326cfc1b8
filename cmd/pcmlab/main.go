// Command pcmlab walks a test signal through sampling, quantization and
// line coding and prints what happened at each stage.
//
// Usage:
//
//	pcmlab [command] [flags]
//
// Examples:
//
//	pcmlab run --variant beginner --frequency 60 --sample-rate 100
//	pcmlab run --variant intermediate --kind square --noise-std 0.2 -o json
//	pcmlab spectrum --window hann --filter lowpass --cutoff 15
//	pcmlab encode --line-code bipolar-rz --bits 4
//	pcmlab export signal.parquet --smoothing 4
//	pcmlab windows hann blackman --size 4096
//	pcmlab filter --filter bandpass --cutoff 30 --impulse 16
//
// Every flag can also be set in pcmlab.yaml or through PCMLAB_* environment
// variables, e.g. PCMLAB_SIGNAL_FREQUENCY=60.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
