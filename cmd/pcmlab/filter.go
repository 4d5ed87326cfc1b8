package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/pcmlab/dsp/filter/biquad"
	"github.com/cwbudde/pcmlab/dsp/filter/design/pass"
	"github.com/spf13/cobra"
)

var errNoFilter = errors.New("no filter configured, set --filter lowpass, highpass or bandpass")

type rootView struct {
	Re float64 `json:"re" yaml:"re"`
	Im float64 `json:"im" yaml:"im"`
}

type sectionView struct {
	Coefficients biquad.Coefficients `json:"coefficients" yaml:"coefficients"`
	Poles        []rootView          `json:"poles" yaml:"poles"`
	Zeros        []rootView          `json:"zeros" yaml:"zeros"`
}

type responsePoint struct {
	FrequencyHz float64 `json:"frequency_hz" yaml:"frequency_hz"`
	MagnitudeDB float64 `json:"magnitude_db" yaml:"magnitude_db"`
}

type filterView struct {
	Mode         string          `json:"mode" yaml:"mode"`
	CutoffHz     float64         `json:"cutoff_hz" yaml:"cutoff_hz"`
	Order        int             `json:"order" yaml:"order"`
	SampleRateHz int             `json:"sample_rate_hz" yaml:"sample_rate_hz"`
	Stable       bool            `json:"stable" yaml:"stable"`
	Sections     []sectionView   `json:"sections" yaml:"sections"`
	Response     []responsePoint `json:"response" yaml:"response"`
	Impulse      []float64       `json:"impulse,omitempty" yaml:"impulse,omitempty"`
}

func newFilterCmd(a *app) *cobra.Command {
	var (
		points  int
		impulse int
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the designed Butterworth filter",
		Long: `filter designs the configured Butterworth stage and prints its sections
with poles and zeros, whether the cascade is stable, its magnitude response
at evenly spaced frequencies from DC to Nyquist and, with --impulse, the
first samples of its impulse response. The expert pipeline runs this
cascade forward and backward, which doubles the dB figures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if points < 2 {
				return fmt.Errorf("filter: points must be >= 2, got %d", points)
			}
			if impulse < 0 {
				return fmt.Errorf("filter: impulse length must be >= 0, got %d", impulse)
			}

			p, err := a.cfg.Params()
			if err != nil {
				return err
			}
			if !p.Filter.Enabled {
				return errNoFilter
			}

			chain, err := pass.Butterworth(p.Filter.Mode, p.Filter.Normalized(p.SampleRateHz), p.Filter.Order)
			if err != nil {
				return err
			}

			view := filterView{
				Mode:         p.Filter.Mode.String(),
				CutoffHz:     p.Filter.CutoffHz,
				Order:        p.Filter.Order,
				SampleRateHz: p.SampleRateHz,
				Stable:       chain.Stable(),
				Sections:     sectionViews(chain),
				Response:     responseCurve(chain, float64(p.SampleRateHz), points),
				Impulse:      chain.ImpulseResponse(impulse),
			}

			return render(cmd.OutOrStdout(), a.output(), view, func(tw *tabwriter.Writer) error {
				return filterTable(tw, view)
			})
		},
	}

	cmd.Flags().IntVar(&points, "points", 11, "number of response frequencies from DC to Nyquist")
	cmd.Flags().IntVar(&impulse, "impulse", 0, "impulse response samples to print")

	return cmd
}

func sectionViews(chain *biquad.Chain) []sectionView {
	coeffs := chain.Coefficients()
	views := make([]sectionView, len(coeffs))
	for i := range coeffs {
		views[i] = sectionView{
			Coefficients: coeffs[i],
			Poles:        roots(coeffs[i].Poles()),
			Zeros:        roots(coeffs[i].Zeros()),
		}
	}
	return views
}

func roots(rs [2]complex128) []rootView {
	out := make([]rootView, len(rs))
	for i, r := range rs {
		out[i] = rootView{Re: real(r), Im: imag(r)}
	}
	return out
}

// responseCurve samples the magnitude response at points frequencies
// spanning 0..fs/2. Zeros of the response are reported at defaultFloorDB.
func responseCurve(chain *biquad.Chain, sampleRate float64, points int) []responsePoint {
	out := make([]responsePoint, points)
	step := sampleRate / 2 / float64(points-1)
	for i := range out {
		f := float64(i) * step
		db := chain.MagnitudeDB(f, sampleRate)
		if math.IsNaN(db) || db < defaultFloorDB {
			db = defaultFloorDB
		}
		out[i] = responsePoint{FrequencyHz: f, MagnitudeDB: db}
	}
	return out
}

func filterTable(tw *tabwriter.Writer, v filterView) error {
	err := rows(tw,
		[]string{"Mode", v.Mode},
		[]string{"Cutoff [Hz]", num(v.CutoffHz)},
		[]string{"Order", strconv.Itoa(v.Order)},
		[]string{"Sections", strconv.Itoa(len(v.Sections))},
		[]string{"Stable", yesNo(v.Stable)},
		[]string{""},
		[]string{"Section", "b0", "b1", "b2", "a1", "a2", "Poles"},
	)
	if err != nil {
		return err
	}
	for i, s := range v.Sections {
		c := s.Coefficients
		err := rows(tw, []string{
			strconv.Itoa(i), num(c.B0), num(c.B1), num(c.B2), num(c.A1), num(c.A2),
			fmt.Sprintf("%s, %s", formatRoot(s.Poles[0]), formatRoot(s.Poles[1])),
		})
		if err != nil {
			return err
		}
	}

	if err := rows(tw, []string{""}, []string{"Freq [Hz]", "|H| [dB]"}); err != nil {
		return err
	}
	for _, r := range v.Response {
		if err := rows(tw, []string{num(r.FrequencyHz), fmt.Sprintf("%.2f", r.MagnitudeDB)}); err != nil {
			return err
		}
	}

	if len(v.Impulse) == 0 {
		return nil
	}
	if err := rows(tw, []string{""}, []string{"n", "h[n]"}); err != nil {
		return err
	}
	for n, h := range v.Impulse {
		if err := rows(tw, []string{strconv.Itoa(n), num(h)}); err != nil {
			return err
		}
	}
	return nil
}

func formatRoot(r rootView) string {
	return fmt.Sprintf("%.4f%+.4fi", r.Re, r.Im)
}
