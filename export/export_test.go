package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/go-audio/wav"
	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignal() signal.Sampled {
	return signal.Sampled{
		Time:       []float64{0, 0.25, 0.5, 0.75},
		Values:     []float64{0, 0.5, -0.25, 1},
		SampleRate: 4,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"wav", FormatWAV},
		{".WAV", FormatWAV},
		{"csv", FormatCSV},
		{"npy", FormatNPY},
		{"npy.zst", FormatNPYZstd},
		{"parquet", FormatParquet},
		{"pq", FormatParquet},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, name := range []string{"mat", "npz"} {
		_, err := ParseFormat(name)
		assert.ErrorIs(t, err, ErrUnknownFormat, name)
	}
}

func TestFormatStringRoundTrip(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"out/signal.wav":    FormatWAV,
		"signal.CSV":        FormatCSV,
		"dump.npy":          FormatNPY,
		"dump.npy.zst":      FormatNPYZstd,
		"table.parquet":     FormatParquet,
		"/tmp/x.y/table.pq": FormatParquet,
	}

	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, testSignal()))

	want := "time,amplitude\n0,0\n0.25,0.5\n0.5,-0.25\n0.75,1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteNPY(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatNPY, testSignal()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte("\x93NUMPY\x01\x00")))

	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	assert.Zero(t, (10+headerLen)%64, "data must be 64-byte aligned")

	header := string(data[10 : 10+headerLen])
	assert.Contains(t, header, "'descr': '<f8'")
	assert.Contains(t, header, "'shape': (4,)")
	assert.True(t, strings.HasSuffix(header, "\n"))

	payload := data[10+headerLen:]
	require.Len(t, payload, 4*8)
	for i, want := range testSignal().Values {
		got := math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
		assert.Equal(t, want, got)
	}
}

func TestWriteNPYZstd(t *testing.T) {
	var plain, packed bytes.Buffer
	require.NoError(t, Write(&plain, FormatNPY, testSignal()))
	require.NoError(t, Write(&packed, FormatNPYZstd, testSignal(), WithZstdLevel(zstd.SpeedBestCompression)))

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()

	out, err := dec.DecodeAll(packed.Bytes(), nil)
	require.NoError(t, err)
	assert.Equal(t, plain.Bytes(), out)
}

func TestWriteFileWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.wav")
	require.NoError(t, WriteFile(path, FormatWAV, testSignal()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.EqualValues(t, wavFormatIEEEFloat, dec.WavAudioFormat)
	assert.EqualValues(t, 32, dec.BitDepth)
	assert.EqualValues(t, 1, dec.NumChans)
	assert.EqualValues(t, 4, dec.SampleRate)

	require.Len(t, buf.Data, 4)
	for i, want := range testSignal().Values {
		got := math.Float32frombits(uint32(int32(buf.Data[i])))
		assert.InDelta(t, want, float64(got), 1e-7)
	}
}

func TestWriteFileWAV16(t *testing.T) {
	sig := testSignal().WithValues([]float64{0, 0.5, -1, 2})

	path := filepath.Join(t.TempDir(), "signal.wav")
	require.NoError(t, WriteFile(path, FormatWAV16, sig))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.EqualValues(t, wavFormatPCM, dec.WavAudioFormat)
	assert.EqualValues(t, 16, dec.BitDepth)
	assert.Equal(t, []int{0, 16384, -32767, 32767}, buf.Data)
}

func TestWriteWAVNeedsSeeker(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, FormatWAV, testSignal()), ErrNeedsSeeker)
	assert.ErrorIs(t, Write(&buf, FormatWAV16, testSignal()), ErrNeedsSeeker)
}

func TestWriteParquet(t *testing.T) {
	for _, codec := range []string{"snappy", "zstd", "gzip", "none"} {
		t.Run(codec, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, FormatParquet, testSignal(), WithParquetCompression(codec)))

			data := buf.Bytes()
			f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
			require.NoError(t, err)
			assert.EqualValues(t, 4, f.NumRows())

			rate, ok := f.Lookup(SampleRateKey)
			require.True(t, ok)
			assert.Equal(t, "4", rate)

			rows := readRows(t, data)
			require.Len(t, rows, 4)
			assert.Equal(t, Row{Time: 0.5, Amplitude: -0.25}, rows[2])
		})
	}

	var buf bytes.Buffer
	err := Write(&buf, FormatParquet, testSignal(), WithParquetCompression("lzma"))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func readRows(t *testing.T, data []byte) []Row {
	t.Helper()

	r := parquet.NewGenericReader[Row](bytes.NewReader(data))
	defer r.Close()

	var out []Row
	batch := make([]Row, 2)
	for {
		n, err := r.Read(batch)
		out = append(out, batch[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
	}
}

func TestWithNormalize(t *testing.T) {
	s := testSignal()
	s.Values = []float64{0, 2, -4, 1}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, s, WithNormalize(1)))
	assert.Equal(t, "time,amplitude\n0,0\n0.25,0.5\n0.5,-1\n0.75,0.25\n", buf.String())
	assert.Equal(t, -4.0, s.Values[2], "input must not be modified")

	assert.Error(t, Write(&buf, FormatCSV, s, WithNormalize(0)))
}

func TestWriteValidation(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, Write(&buf, FormatCSV, signal.Sampled{SampleRate: 10}), ErrEmptySignal)

	bad := testSignal()
	bad.Time = bad.Time[:2]
	assert.ErrorIs(t, Write(&buf, FormatCSV, bad), signal.ErrLengthMismatch)

	assert.ErrorIs(t, Write(&buf, Format(99), testSignal()), ErrUnknownFormat)
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	bad := testSignal()
	bad.SampleRate = 0

	require.Error(t, WriteFile(path, FormatCSV, bad))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
