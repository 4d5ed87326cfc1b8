// Package config maps viper settings (flags, YAML file, PCMLAB_*
// environment variables) onto pipeline parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/pcmlab/dsp/filter/design/pass"
	"github.com/cwbudde/pcmlab/dsp/pcm"
	"github.com/cwbudde/pcmlab/dsp/pipeline"
	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/cwbudde/pcmlab/dsp/window"
	"github.com/cwbudde/pcmlab/export"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names, so signal.frequency
// is read from PCMLAB_SIGNAL_FREQUENCY.
const EnvPrefix = "PCMLAB"

// Name is the config file base name searched for without an explicit path.
const Name = "pcmlab"

// FilterNone disables the filter stage.
const FilterNone = "none"

// Config represents the application configuration.
type Config struct {
	Variant   string `mapstructure:"variant"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Output    string `mapstructure:"output"`
	// Seed fixes the noise source; 0 seeds from the runtime.
	Seed uint64 `mapstructure:"seed"`

	Signal SignalConfig `mapstructure:"signal"`
	Noise  NoiseConfig  `mapstructure:"noise"`
	Filter FilterConfig `mapstructure:"filter"`
	Export ExportConfig `mapstructure:"export"`

	Window       string  `mapstructure:"window"`
	LineCode     string  `mapstructure:"line_code"`
	Smoothing    int     `mapstructure:"smoothing"`
	Duration     float64 `mapstructure:"duration"`
	AnalogPoints int     `mapstructure:"analog_points"`
}

// SignalConfig describes the source waveform and its sampling.
type SignalConfig struct {
	Kind       string  `mapstructure:"kind"`
	Frequency  float64 `mapstructure:"frequency"`
	Amplitude  float64 `mapstructure:"amplitude"`
	Phase      float64 `mapstructure:"phase"`
	SampleRate int     `mapstructure:"sample_rate"`
	Bits       int     `mapstructure:"bits"`
}

// NoiseConfig contains the Gaussian noise settings.
type NoiseConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	StdDev  float64 `mapstructure:"stddev"`
}

// FilterConfig contains the Butterworth settings. Type is "none",
// "lowpass", "highpass" or "bandpass".
type FilterConfig struct {
	Type   string  `mapstructure:"type"`
	Cutoff float64 `mapstructure:"cutoff"`
	Order  int     `mapstructure:"order"`
}

// ExportConfig contains file export settings.
type ExportConfig struct {
	ParquetCompression string  `mapstructure:"parquet_compression"`
	Normalize          float64 `mapstructure:"normalize"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers the classroom defaults.
func SetDefaults(v *viper.Viper) {
	d := pipeline.DefaultParams(pipeline.VariantExpert)

	v.SetDefault("variant", pipeline.VariantExpert.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("output", "table")
	v.SetDefault("seed", 0)

	v.SetDefault("signal.kind", d.Kind.String())
	v.SetDefault("signal.frequency", d.FrequencyHz)
	v.SetDefault("signal.amplitude", d.Amplitude)
	v.SetDefault("signal.phase", d.PhaseDeg)
	v.SetDefault("signal.sample_rate", d.SampleRateHz)
	v.SetDefault("signal.bits", d.Bits)

	v.SetDefault("noise.enabled", d.Noise.Enabled)
	v.SetDefault("noise.stddev", d.Noise.StdDev)

	v.SetDefault("filter.type", FilterNone)
	v.SetDefault("filter.cutoff", d.Filter.CutoffHz)
	v.SetDefault("filter.order", d.Filter.Order)

	v.SetDefault("export.parquet_compression", "snappy")
	v.SetDefault("export.normalize", 0.0)

	v.SetDefault("window", "none")
	v.SetDefault("line_code", d.LineCode.String())
	v.SetDefault("smoothing", d.Smoothing)
	v.SetDefault("duration", d.Duration)
	v.SetDefault("analog_points", d.AnalogPoints)
}

// ReadFile loads path into v. With an empty path the working directory,
// ./configs and $HOME/.config/pcmlab are searched for pcmlab.yaml; not
// finding one there is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", Name))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return c, nil
}

// Load decodes v and converts it to validated pipeline parameters.
func Load(v *viper.Viper) (pipeline.Params, error) {
	c, err := Decode(v)
	if err != nil {
		return pipeline.Params{}, err
	}
	return c.Params()
}

// Params converts c to pipeline parameters. Name lookups and range checks
// are reported together.
func (c Config) Params() (pipeline.Params, error) {
	var errs []error

	variant, err := pipeline.ParseVariant(c.Variant)
	errs = append(errs, err)

	p := pipeline.DefaultParams(variant)
	p.FrequencyHz = c.Signal.Frequency
	p.Amplitude = c.Signal.Amplitude
	p.PhaseDeg = c.Signal.Phase
	p.SampleRateHz = c.Signal.SampleRate
	p.Bits = c.Signal.Bits
	p.Noise = pipeline.NoiseSettings{Enabled: c.Noise.Enabled, StdDev: c.Noise.StdDev}
	p.Smoothing = c.Smoothing
	p.Duration = c.Duration
	p.AnalogPoints = c.AnalogPoints

	p.Kind, err = signal.ParseKind(c.Signal.Kind)
	errs = append(errs, err)

	p.Window, err = window.ParseType(c.Window)
	errs = append(errs, err)

	p.LineCode, err = pcm.ParseLineCode(c.LineCode)
	errs = append(errs, err)

	p.Filter = pipeline.FilterSettings{CutoffHz: c.Filter.Cutoff, Order: c.Filter.Order}
	if t := strings.ToLower(strings.TrimSpace(c.Filter.Type)); t != "" && t != FilterNone {
		p.Filter.Enabled = true
		p.Filter.Mode, err = pass.ParseMode(t)
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return pipeline.Params{}, err
	}
	if err := p.Validate(); err != nil {
		return pipeline.Params{}, err
	}
	return p, nil
}

// ExportOptions returns the export options selected by c.
func (c Config) ExportOptions() []export.Option {
	opts := []export.Option{export.WithParquetCompression(c.Export.ParquetCompression)}
	if c.Export.Normalize > 0 {
		opts = append(opts, export.WithNormalize(c.Export.Normalize))
	}
	return opts
}

// Seeded returns the random seed and whether one was configured.
func (c Config) Seeded() (uint64, bool) {
	return c.Seed, c.Seed != 0
}
