package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/pcmlab/dsp/pipeline"
	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/cwbudde/pcmlab/internal/config"
	"github.com/cwbudde/pcmlab/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg     config.Config
	logger  *zap.Logger
	session *pipeline.Session
}

// flagKeys maps persistent flag names onto viper keys.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"log-format":  "log_format",
	"output":      "output",
	"seed":        "seed",
	"variant":     "variant",
	"kind":        "signal.kind",
	"frequency":   "signal.frequency",
	"amplitude":   "signal.amplitude",
	"phase":       "signal.phase",
	"sample-rate": "signal.sample_rate",
	"bits":        "signal.bits",
	"noise":       "noise.enabled",
	"noise-std":   "noise.stddev",
	"window":      "window",
	"filter":      "filter.type",
	"cutoff":      "filter.cutoff",
	"order":       "filter.order",
	"line-code":   "line_code",
	"smoothing":   "smoothing",
	"duration":    "duration",
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "pcmlab",
		Short: "Sampling, quantization and PCM line coding lab",
		Long: `pcmlab generates a test waveform, samples and quantizes it and reports
what the chain did to it: Nyquist limit and alias frequency, quantization
levels and bit rate, SNR, time and frequency statistics.

Three variants build on each other:
  beginner      sine, sampling and quantization
  intermediate  waveform shape, phase, Gaussian noise and a spectrum
  expert        window and Butterworth stage, line coding and eye diagram`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	d := pipeline.DefaultParams(pipeline.VariantExpert)

	f := cmd.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "",
		"config file (default is pcmlab.yaml in ., ./configs or $HOME/.config/pcmlab)")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.String("log-format", "console", "log format (console, json)")
	f.StringP("output", "o", "table", "output format (table, json, yaml)")
	f.Uint64("seed", 0, "noise seed, 0 picks a random one")

	f.String("variant", pipeline.VariantExpert.String(), "pipeline variant (beginner, intermediate, expert)")
	f.String("kind", d.Kind.String(), "waveform (sine, square, triangle); intermediate only")
	f.Float64P("frequency", "f", d.FrequencyHz, "signal frequency in Hz")
	f.Float64("amplitude", d.Amplitude, "signal amplitude")
	f.Float64("phase", d.PhaseDeg, "phase in degrees; intermediate only")
	f.IntP("sample-rate", "s", d.SampleRateHz, "sampling rate in Hz")
	f.IntP("bits", "b", d.Bits, "quantization bits (1..16)")
	f.Bool("noise", d.Noise.Enabled, "add Gaussian noise; intermediate only")
	f.Float64("noise-std", d.Noise.StdDev, "noise standard deviation")
	f.String("window", "none", "window (none, hann, hamming, blackman, ...)")
	f.String("filter", config.FilterNone, "Butterworth filter (none, lowpass, highpass, bandpass)")
	f.Float64("cutoff", d.Filter.CutoffHz, "filter cutoff in Hz")
	f.Int("order", d.Filter.Order, "filter order")
	f.String("line-code", d.LineCode.String(), "line code (unipolar, polar-nrz, bipolar-rz)")
	f.Int("smoothing", d.Smoothing, "moving-average length applied on export (0..8)")
	f.Float64("duration", d.Duration, "observation window in seconds")

	cobra.CheckErr(bindFlags(a.v, f, flagKeys))

	cmd.AddCommand(
		newRunCmd(a),
		newSpectrumCmd(a),
		newEncodeCmd(a),
		newExportCmd(a),
		newWindowsCmd(a),
		newFilterCmd(a),
	)

	return cmd
}

// bindFlags binds each named flag of fs to its viper key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	var errs []error
	for name, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			errs = append(errs, fmt.Errorf("bind --%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// setup reads the configuration and builds the logger and session.
func (a *app) setup(*cobra.Command, []string) error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Decode(a.v)
	if err != nil {
		return err
	}
	if !validOutput(cfg.Output) {
		return fmt.Errorf("%w: %q", errUnknownOutput, cfg.Output)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", zap.String("path", used))
	}

	opts := []pipeline.SessionOption{pipeline.WithLogger(logger)}
	if seed, ok := cfg.Seeded(); ok {
		opts = append(opts, pipeline.WithRand(signal.NewRand(seed)))
	}

	a.cfg = cfg
	a.logger = logger
	a.session = pipeline.NewSession(opts...)

	return nil
}

// run executes the configured pipeline.
func (a *app) run() (pipeline.Result, error) {
	p, err := a.cfg.Params()
	if err != nil {
		return pipeline.Result{}, err
	}
	return a.session.Update(p)
}

func (a *app) output() string {
	return strings.ToLower(strings.TrimSpace(a.cfg.Output))
}
