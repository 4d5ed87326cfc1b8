package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/pcmlab/dsp/pipeline"
	"github.com/cwbudde/pcmlab/measure/metrics"
	"github.com/spf13/cobra"
)

type sampleView struct {
	Time      float64  `json:"time" yaml:"time"`
	Value     float64  `json:"value" yaml:"value"`
	Noisy     *float64 `json:"noisy,omitempty" yaml:"noisy,omitempty"`
	Processed *float64 `json:"processed,omitempty" yaml:"processed,omitempty"`
	Quantized float64  `json:"quantized" yaml:"quantized"`
}

type runView struct {
	Variant      string         `json:"variant" yaml:"variant"`
	FrequencyHz  float64        `json:"frequency_hz" yaml:"frequency_hz"`
	SampleRateHz int            `json:"sample_rate_hz" yaml:"sample_rate_hz"`
	Bits         int            `json:"bits" yaml:"bits"`
	SampleCount  int            `json:"sample_count" yaml:"sample_count"`
	Metrics      metrics.Report `json:"metrics" yaml:"metrics"`
	CodeWords    []string       `json:"code_words,omitempty" yaml:"code_words,omitempty"`
	EyeTraces    int            `json:"eye_traces,omitempty" yaml:"eye_traces,omitempty"`
	Samples      []sampleView   `json:"samples,omitempty" yaml:"samples,omitempty"`
}

func newRunCmd(a *app) *cobra.Command {
	var withSamples bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline and print its metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.run()
			if err != nil {
				return err
			}

			view := newRunView(res, withSamples)
			return render(cmd.OutOrStdout(), a.output(), view, func(tw *tabwriter.Writer) error {
				return runTable(tw, view)
			})
		},
	}

	cmd.Flags().BoolVar(&withSamples, "samples", false, "include the per-sample values")

	return cmd
}

func newRunView(res pipeline.Result, withSamples bool) runView {
	p := res.Params
	view := runView{
		Variant:      p.Variant.String(),
		FrequencyHz:  p.FrequencyHz,
		SampleRateHz: p.SampleRateHz,
		Bits:         p.Bits,
		SampleCount:  res.Sampled.Len(),
		Metrics:      res.Metrics,
		CodeWords:    res.CodeWordText,
		EyeTraces:    len(res.Eye),
	}

	if !withSamples {
		return view
	}

	view.Samples = make([]sampleView, res.Sampled.Len())
	for i := range view.Samples {
		s := sampleView{
			Time:      res.Sampled.Time[i],
			Value:     res.Sampled.Values[i],
			Quantized: res.Quantized.Values[i],
		}
		if res.Noisy != nil {
			s.Noisy = &res.Noisy.Values[i]
		}
		if res.Processed != nil {
			s.Processed = &res.Processed.Values[i]
		}
		view.Samples[i] = s
	}

	return view
}

func runTable(tw *tabwriter.Writer, v runView) error {
	m := v.Metrics

	alias := yesNo(m.Aliased)
	if m.Aliased {
		alias += " (appears at " + num(m.AliasHz) + " Hz)"
	}

	snr := "-"
	if m.SNR != nil {
		snr = m.SNR.String()
	}

	err := rows(tw,
		[]string{"Variant", v.Variant},
		[]string{"Frequency [Hz]", num(v.FrequencyHz)},
		[]string{"Sample rate [Hz]", strconv.Itoa(v.SampleRateHz)},
		[]string{"Samples", strconv.Itoa(v.SampleCount)},
		[]string{"Nyquist [Hz]", num(m.NyquistHz)},
		[]string{"Aliased", alias},
		[]string{"Levels", strconv.Itoa(m.Levels)},
		[]string{"Bit rate [bit/s]", num(m.BitRate)},
		[]string{"SNR", snr},
		[]string{"RMS", num(m.Time.RMS)},
		[]string{"Peak", num(m.Time.Peak)},
		[]string{"DC", num(m.Time.DC)},
		[]string{"Crest factor", num(m.Time.CrestFactor)},
		[]string{"Zero crossings", strconv.Itoa(m.Time.ZeroCrossings)},
	)
	if err != nil {
		return err
	}

	if s := m.Spectral; s != nil {
		err = rows(tw,
			[]string{"Spectral peak [Hz]", num(s.PeakHz)},
			[]string{"Centroid [Hz]", num(s.Centroid)},
			[]string{"Bandwidth [Hz]", num(s.Bandwidth)},
			[]string{"Flatness", num(s.Flatness)},
		)
		if err != nil {
			return err
		}
	}

	if d := m.Distortion; d != nil {
		err = rows(tw,
			[]string{"THD", fmt.Sprintf("%.2f %%", d.THD*100)},
			[]string{"SINAD", fmt.Sprintf("%.2f dB", d.SINAD)},
		)
		if err != nil {
			return err
		}
	}

	if len(v.CodeWords) > 0 {
		err = rows(tw,
			[]string{"Code words", strings.Join(v.CodeWords, " ")},
			[]string{"Eye traces", strconv.Itoa(v.EyeTraces)},
		)
		if err != nil {
			return err
		}
	}

	if len(v.Samples) == 0 {
		return nil
	}

	if err := rows(tw, []string{}, []string{"n", "t [s]", "x", "noisy", "processed", "quantized"}); err != nil {
		return err
	}
	for i, s := range v.Samples {
		err := rows(tw, []string{
			strconv.Itoa(i), num(s.Time), num(s.Value),
			optional(s.Noisy), optional(s.Processed), num(s.Quantized),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v)
}
