package main

import (
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/pcmlab/dsp/pcm"
	"github.com/cwbudde/pcmlab/dsp/pipeline"
	"github.com/spf13/cobra"
)

type symbolView struct {
	Index     int     `json:"index" yaml:"index"`
	Time      float64 `json:"time" yaml:"time"`
	Quantized float64 `json:"quantized" yaml:"quantized"`
	Encoded   float64 `json:"encoded" yaml:"encoded"`
	CodeWord  string  `json:"code_word" yaml:"code_word"`
}

type encodeView struct {
	LineCode         string       `json:"line_code" yaml:"line_code"`
	Bits             int          `json:"bits" yaml:"bits"`
	Levels           int          `json:"levels" yaml:"levels"`
	BitRate          float64      `json:"bit_rate" yaml:"bit_rate"`
	SamplesPerSymbol int          `json:"samples_per_symbol" yaml:"samples_per_symbol"`
	EyeTraces        int          `json:"eye_traces" yaml:"eye_traces"`
	Symbols          []symbolView `json:"symbols" yaml:"symbols"`
}

func newEncodeCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Line-code the quantized samples and print the code words",
		Long: `encode maps each quantized sample onto the selected line code and prints
it with its binary code word. Variants without a line-coding stage are
encoded here from their quantized output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.run()
			if err != nil {
				return err
			}

			view, err := newEncodeView(res, limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output(), view, func(tw *tabwriter.Writer) error {
				return encodeTable(tw, view)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", pipeline.CodeWordDisplay, "number of symbols to list, 0 lists all")

	return cmd
}

func newEncodeView(res pipeline.Result, limit int) (encodeView, error) {
	p := res.Params

	encoded, words := res.Encoded, res.CodeWords
	if encoded == nil {
		var err error
		if encoded, err = pcm.Encode(res.Quantized.Values, p.LineCode); err != nil {
			return encodeView{}, err
		}
		if words, err = pcm.CodeWords(encoded, p.Bits); err != nil {
			return encodeView{}, err
		}
	}

	fs := float64(p.SampleRateHz)
	text := pcm.FormatCodeWords(words, p.Bits, limit)

	view := encodeView{
		LineCode:         p.LineCode.String(),
		Bits:             p.Bits,
		Levels:           res.Metrics.Levels,
		BitRate:          res.Metrics.BitRate,
		SamplesPerSymbol: pcm.SamplesPerSymbol(fs, p.FrequencyHz),
		EyeTraces:        len(pcm.EyeDiagram(encoded, fs, p.FrequencyHz)),
		Symbols:          make([]symbolView, len(text)),
	}
	for i, w := range text {
		view.Symbols[i] = symbolView{
			Index:     i,
			Time:      res.Quantized.Time[i],
			Quantized: res.Quantized.Values[i],
			Encoded:   encoded[i],
			CodeWord:  w,
		}
	}

	return view, nil
}

func encodeTable(tw *tabwriter.Writer, v encodeView) error {
	err := rows(tw,
		[]string{"Line code", v.LineCode},
		[]string{"Levels", strconv.Itoa(v.Levels)},
		[]string{"Bit rate [bit/s]", num(v.BitRate)},
		[]string{"Samples per symbol", strconv.Itoa(v.SamplesPerSymbol)},
		[]string{"Eye traces", strconv.Itoa(v.EyeTraces)},
		[]string{},
		[]string{"n", "t [s]", "quantized", "encoded", "code word"},
	)
	if err != nil {
		return err
	}

	for _, s := range v.Symbols {
		err := rows(tw, []string{
			strconv.Itoa(s.Index), num(s.Time), num(s.Quantized), num(s.Encoded), s.CodeWord,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
