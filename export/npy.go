package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	npyMagic     = "\x93NUMPY"
	npyAlignment = 64
	// magic, version (2 bytes) and the uint16 header length
	npyPreamble = len(npyMagic) + 2 + 2
)

// npyHeader returns the version 1.0 header dictionary for a little-endian
// float64 vector of length n, padded with spaces and terminated by a
// newline so the data starts on a 64-byte boundary.
func npyHeader(n int) string {
	dict := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d,), }", n)
	pad := npyAlignment - (npyPreamble+len(dict)+1)%npyAlignment
	if pad == npyAlignment {
		pad = 0
	}
	return dict + strings.Repeat(" ", pad) + "\n"
}

// writeNPY writes values as a 1-D NumPy array in .npy format version 1.0.
func writeNPY(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	header := npyHeader(len(values))

	if _, err := bw.WriteString(npyMagic); err != nil {
		return err
	}
	if _, err := bw.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := bw.WriteString(header); err != nil {
		return err
	}

	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// writeNPYZstd writes the .npy stream through a zstd encoder.
func writeNPYZstd(w io.Writer, values []float64, level zstd.EncoderLevel) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}

	if err := writeNPY(enc, values); err != nil {
		_ = enc.Close()
		return err
	}

	return enc.Close()
}
