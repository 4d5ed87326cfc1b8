package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cwbudde/pcmlab/dsp/signal"
)

var csvHeader = []string{"time", "amplitude"}

// writeCSV writes a header row followed by one (time, amplitude) row per
// sample, using the shortest decimal form that round-trips.
func writeCSV(w io.Writer, s signal.Sampled) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, 2)
	for i, v := range s.Values {
		row[0] = strconv.FormatFloat(s.Time[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(v, 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
