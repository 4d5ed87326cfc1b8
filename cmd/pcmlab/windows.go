package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/pcmlab/dsp/window"
	"github.com/spf13/cobra"
)

type windowView struct {
	Name            string  `json:"name" yaml:"name"`
	Size            int     `json:"size" yaml:"size"`
	CoherentGain    float64 `json:"coherent_gain" yaml:"coherent_gain"`
	ENBW            float64 `json:"enbw_bins" yaml:"enbw_bins"`
	HighestSidelobe float64 `json:"highest_sidelobe_db" yaml:"highest_sidelobe_db"`
}

func newWindowsCmd(a *app) *cobra.Command {
	var (
		size     int
		periodic bool
	)

	cmd := &cobra.Command{
		Use:   "windows [name ...]",
		Short: "Print properties of the window functions",
		Long: `windows measures coherent gain and equivalent noise bandwidth of each
window at the given size. Without names every window is listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 1 {
				return fmt.Errorf("windows: size must be >= 1, got %d", size)
			}

			types := window.Types()
			if len(args) > 0 {
				types = nil
				for _, name := range args {
					t, err := window.ParseType(name)
					if err != nil {
						return err
					}
					types = append(types, t)
				}
			}

			var opts []window.Option
			if periodic {
				opts = append(opts, window.WithPeriodic())
			}

			views := make([]windowView, 0, len(types))
			for _, t := range types {
				v, err := measureWindow(t, size, opts)
				if err != nil {
					return err
				}
				views = append(views, v)
			}

			return render(cmd.OutOrStdout(), a.output(), views, func(tw *tabwriter.Writer) error {
				return windowsTable(tw, views)
			})
		},
	}

	cmd.Flags().IntVar(&size, "size", 1024, "window length in samples")
	cmd.Flags().BoolVar(&periodic, "periodic", false, "use the periodic (FFT) form instead of the symmetric one")

	return cmd
}

func measureWindow(t window.Type, size int, opts []window.Option) (windowView, error) {
	coeffs := window.Generate(t, size, opts...)

	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return windowView{}, err
	}
	enbw, err := window.EquivalentNoiseBandwidth(coeffs)
	if err != nil {
		return windowView{}, fmt.Errorf("%s: %w", t, err)
	}

	return windowView{
		Name:            window.Info(t).Name,
		Size:            size,
		CoherentGain:    gain,
		ENBW:            enbw,
		HighestSidelobe: window.Info(t).HighestSidelobe,
	}, nil
}

func windowsTable(tw *tabwriter.Writer, views []windowView) error {
	err := rows(tw,
		[]string{"Window", "Size", "Coherent Gain", "ENBW [bins]", "Sidelobe [dB]"},
		[]string{"------", "----", "-------------", "-----------", "-------------"},
	)
	if err != nil {
		return err
	}

	for _, v := range views {
		err := rows(tw, []string{
			v.Name,
			strconv.Itoa(v.Size),
			fmt.Sprintf("%.6f", v.CoherentGain),
			fmt.Sprintf("%.4f", v.ENBW),
			fmt.Sprintf("%.2f", v.HighestSidelobe),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
