package export

import (
	"io"
	"strconv"

	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/parquet-go/parquet-go"
)

// SampleRateKey is the Parquet key/value metadata entry holding the
// sample rate in Hz.
const SampleRateKey = "sample_rate"

// Row is one sample in a Parquet export.
type Row struct {
	Time      float64 `parquet:"time"`
	Amplitude float64 `parquet:"amplitude"`
}

// writeParquet writes one Row per sample in a single row group.
func writeParquet(w io.Writer, s signal.Sampled, compression parquet.WriterOption) error {
	pw := parquet.NewGenericWriter[Row](w,
		compression,
		parquet.KeyValueMetadata(SampleRateKey, strconv.Itoa(s.SampleRate)),
	)

	rows := make([]Row, s.Len())
	for i, v := range s.Values {
		rows[i] = Row{Time: s.Time[i], Amplitude: v}
	}

	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return err
	}

	return pw.Close()
}
