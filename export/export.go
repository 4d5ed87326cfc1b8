// Package export serializes a sampled signal to disk formats: 32-bit
// float or 16-bit integer WAV, CSV with time and amplitude columns, NumPy
// .npy arrays (optionally zstd compressed) and Parquet tables.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/pcmlab/dsp/signal"
)

// Format selects the on-disk encoding.
type Format int

const (
	FormatWAV Format = iota
	FormatCSV
	FormatNPY
	FormatNPYZstd
	FormatParquet
	// FormatWAV16 is 16-bit integer PCM; samples are clipped to [-1, 1].
	FormatWAV16
)

var (
	// ErrUnknownFormat is returned for unrecognized format names or extensions.
	ErrUnknownFormat = errors.New("export: unknown format")
	// ErrEmptySignal is returned when there are no samples to write.
	ErrEmptySignal = errors.New("export: empty signal")
	// ErrNeedsSeeker is returned when WAV output is requested on a writer
	// that cannot seek back to patch the header sizes.
	ErrNeedsSeeker = errors.New("export: wav output requires an io.WriteSeeker")
)

var formatNames = map[Format]string{
	FormatWAV:     "wav",
	FormatCSV:     "csv",
	FormatNPY:     "npy",
	FormatNPYZstd: "npy.zst",
	FormatParquet: "parquet",
	FormatWAV16:   "wav16",
}

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatWAV, FormatWAV16, FormatCSV, FormatNPY, FormatNPYZstd, FormatParquet}
}

// String returns the canonical name. Except for wav16 it doubles as the
// file extension.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat resolves a format name. Matching ignores case and a leading
// dot, so ".WAV" and "wav" are equivalent.
func ParseFormat(name string) (Format, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	switch key {
	case "npy.zstd", "zst":
		return FormatNPYZstd, nil
	case "pq":
		return FormatParquet, nil
	}

	for f, n := range formatNames {
		if n == key {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath infers the format from a file name extension.
func FormatFromPath(path string) (Format, error) {
	base := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(base, ".npy.zst") {
		return FormatNPYZstd, nil
	}

	ext := filepath.Ext(base)
	if ext == "" {
		return 0, fmt.Errorf("%w: no extension in %q", ErrUnknownFormat, path)
	}

	return ParseFormat(ext)
}

// Write encodes s to w in the given format.
func Write(w io.Writer, f Format, s signal.Sampled, opts ...Option) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Len() == 0 {
		return ErrEmptySignal
	}

	cfg, err := applyOptions(opts...)
	if err != nil {
		return err
	}

	if cfg.normalizePeak > 0 {
		values, err := signal.Normalize(s.Values, cfg.normalizePeak)
		if err != nil {
			return err
		}
		s = s.WithValues(values)
	}

	switch f {
	case FormatWAV, FormatWAV16:
		ws, ok := w.(io.WriteSeeker)
		if !ok {
			return ErrNeedsSeeker
		}
		if f == FormatWAV16 {
			return writeWAV16(ws, s)
		}
		return writeWAV(ws, s)
	case FormatCSV:
		return writeCSV(w, s)
	case FormatNPY:
		return writeNPY(w, s.Values)
	case FormatNPYZstd:
		return writeNPYZstd(w, s.Values, cfg.zstdLevel)
	case FormatParquet:
		return writeParquet(w, s, cfg.parquetCompression)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// WriteFile creates path and writes s in the given format. A partially
// written file is removed on error.
func WriteFile(path string, f Format, s signal.Sampled, opts ...Option) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}

	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err = Write(file, f, s, opts...); err != nil {
		return fmt.Errorf("export %s as %s: %w", path, f, err)
	}

	return nil
}
