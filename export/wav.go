package export

import (
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/pcmlab/dsp/core"
	"github.com/cwbudde/pcmlab/dsp/signal"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
	wavBitDepth        = 32
	wavPCMBitDepth     = 16
)

// writeWAV writes mono 32-bit IEEE float samples.
func writeWAV(w io.WriteSeeker, s signal.Sampled) error {
	enc := wav.NewEncoder(w, s.SampleRate, wavBitDepth, 1, wavFormatIEEEFloat)

	for i, v := range s.Values {
		if err := enc.WriteFrame(float32(v)); err != nil {
			return fmt.Errorf("wav frame %d: %w", i, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav close: %w", err)
	}
	return nil
}

// writeWAV16 writes mono 16-bit integer samples scaled by 32767.
func writeWAV16(w io.WriteSeeker, s signal.Sampled) error {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: s.SampleRate},
		Data:           make([]int, s.Len()),
		SourceBitDepth: wavPCMBitDepth,
	}
	for i, v := range s.Values {
		buf.Data[i] = int(math.Round(core.Clamp(v, -1, 1) * math.MaxInt16))
	}

	enc := wav.NewEncoder(w, s.SampleRate, wavPCMBitDepth, 1, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav close: %w", err)
	}
	return nil
}
