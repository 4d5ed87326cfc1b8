package core

import "math"

// ProcessorConfig defines the sampling settings shared by the pipeline stages.
type ProcessorConfig struct {
	SampleRate float64
	// Duration is the observation window in seconds, starting at t=0.
	Duration float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the classroom defaults: 100 Hz sampling
// over a half-second window.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 100,
		Duration:   0.5,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithDuration sets the observation window length in seconds.
func WithDuration(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 {
			cfg.Duration = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// SampleCount returns ceil(Duration*SampleRate), the number of points in
// [0, Duration) spaced 1/SampleRate apart.
func (c ProcessorConfig) SampleCount() int {
	if c.SampleRate <= 0 || c.Duration <= 0 {
		return 0
	}

	// Guard against products like 0.5*300 landing a hair above an integer.
	const slack = 1e-9
	return int(math.Ceil(c.Duration*c.SampleRate - slack))
}
