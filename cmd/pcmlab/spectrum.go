package main

import (
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/pcmlab/dsp/spectrum"
	"github.com/spf13/cobra"
)

// defaultFloorDB bounds the dB column for empty bins.
const defaultFloorDB = -120.0

type binView struct {
	Bin         int     `json:"bin" yaml:"bin"`
	FrequencyHz float64 `json:"frequency_hz" yaml:"frequency_hz"`
	Magnitude   float64 `json:"magnitude" yaml:"magnitude"`
	MagnitudeDB float64 `json:"magnitude_db" yaml:"magnitude_db"`
	Power       float64 `json:"power" yaml:"power"`
	Phase       float64 `json:"phase_rad" yaml:"phase_rad"`
}

type spectrumView struct {
	SampleRateHz float64   `json:"sample_rate_hz" yaml:"sample_rate_hz"`
	PeakHz       float64   `json:"peak_hz" yaml:"peak_hz"`
	Unwrapped    bool      `json:"unwrapped" yaml:"unwrapped"`
	Bins         []binView `json:"bins" yaml:"bins"`
}

func newSpectrumCmd(a *app) *cobra.Command {
	var (
		full    bool
		unwrap  bool
		floorDB float64
	)

	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "Print the DFT of the quantized signal",
		Long: `spectrum prints magnitude, power and phase per DFT bin of the quantized
signal. Only the non-negative half is shown unless --full is given; --unwrap
removes the 2*pi jumps from the phase column.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.run()
			if err != nil {
				return err
			}

			spec := res.Spectrum
			if spec == nil {
				s, err := spectrum.Analyze(res.Quantized.Values, float64(res.Params.SampleRateHz))
				if err != nil {
					return err
				}
				spec = &s
			}

			s := *spec
			if !full {
				s = s.Half()
			}

			view := newSpectrumView(s, floorDB, unwrap)
			return render(cmd.OutOrStdout(), a.output(), view, func(tw *tabwriter.Writer) error {
				return spectrumTable(tw, view)
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "show all N bins instead of 0..N/2")
	cmd.Flags().BoolVar(&unwrap, "unwrap", false, "unwrap the phase across bins")
	cmd.Flags().Float64Var(&floorDB, "floor", defaultFloorDB, "lowest magnitude in dB")

	return cmd
}

func newSpectrumView(s spectrum.Result, floorDB float64, unwrap bool) spectrumView {
	db := s.MagnitudeDB(floorDB)
	power := spectrum.Power(s.Bins)
	phase := s.Phase
	if unwrap {
		phase = spectrum.UnwrapPhase(phase)
	}
	peak, _ := s.Peak()

	view := spectrumView{
		SampleRateHz: s.SampleRate,
		PeakHz:       peak,
		Unwrapped:    unwrap,
		Bins:         make([]binView, s.Len()),
	}
	for k := range view.Bins {
		view.Bins[k] = binView{
			Bin:         k,
			FrequencyHz: s.Freqs[k],
			Magnitude:   s.Magnitude[k],
			MagnitudeDB: db[k],
			Power:       power[k],
			Phase:       phase[k],
		}
	}

	return view
}

func spectrumTable(tw *tabwriter.Writer, v spectrumView) error {
	if err := rows(tw, []string{"Bin", "Freq [Hz]", "|X|", "|X| [dB]", "|X|^2", "Phase [rad]"}); err != nil {
		return err
	}
	for _, b := range v.Bins {
		err := rows(tw, []string{
			strconv.Itoa(b.Bin), num(b.FrequencyHz), num(b.Magnitude), num(b.MagnitudeDB), num(b.Power), num(b.Phase),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
