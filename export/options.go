package export

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"
)

var (
	// ErrUnknownCompression is returned for unsupported Parquet codecs.
	ErrUnknownCompression = errors.New("export: unknown parquet compression")
	errInvalidPeak        = errors.New("export: normalization peak must be > 0 and finite")
)

type config struct {
	normalizePeak      float64
	zstdLevel          zstd.EncoderLevel
	parquetCompression parquet.WriterOption
}

// Option configures Write and WriteFile.
type Option func(*config) error

func defaultConfig() config {
	return config{
		zstdLevel:          zstd.SpeedDefault,
		parquetCompression: parquet.Compression(&parquet.Snappy),
	}
}

func applyOptions(opts ...Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

// WithNormalize rescales the values so their largest magnitude equals peak
// before writing. Float WAV players clip outside [-1, 1].
func WithNormalize(peak float64) Option {
	return func(cfg *config) error {
		if peak <= 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
			return fmt.Errorf("%w: %g", errInvalidPeak, peak)
		}
		cfg.normalizePeak = peak
		return nil
	}
}

// WithZstdLevel sets the encoder level used for npy.zst output.
func WithZstdLevel(level zstd.EncoderLevel) Option {
	return func(cfg *config) error {
		cfg.zstdLevel = level
		return nil
	}
}

// WithParquetCompression selects the Parquet page codec: "snappy"
// (default), "zstd", "gzip" or "none".
func WithParquetCompression(name string) Option {
	return func(cfg *config) error {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "", "snappy":
			cfg.parquetCompression = parquet.Compression(&parquet.Snappy)
		case "zstd":
			cfg.parquetCompression = parquet.Compression(&parquet.Zstd)
		case "gzip":
			cfg.parquetCompression = parquet.Compression(&parquet.Gzip)
		case "none":
			cfg.parquetCompression = parquet.Compression(&parquet.Uncompressed)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownCompression, name)
		}
		return nil
	}
}
