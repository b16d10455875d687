package wav

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/haivivi/midisynth/pkg/audio/pcm"
)

// Info describes a decoded container.
type Info struct {
	Format   pcm.Format `json:"-" yaml:"-"`
	Header   Header     `json:"header" yaml:"header"`
	Duration float64    `json:"duration" yaml:"duration"`
}

// Decode reads any 16-bit mono PCM WAVE file, including ones with extra
// chunks, and returns its samples.
func Decode(rs io.ReadSeeker) (Info, []int16, error) {
	d := gowav.NewDecoder(rs)
	if !d.IsValidFile() {
		return Info{}, nil, fmt.Errorf("%w: not a valid WAVE file", ErrInvalidHeader)
	}
	if d.WavAudioFormat != formatPCM || d.NumChans != 1 || d.BitDepth != 16 {
		return Info{}, nil, fmt.Errorf("%w: want 16-bit mono PCM, got format %d, %d channels, %d bits",
			ErrInvalidHeader, d.WavAudioFormat, d.NumChans, d.BitDepth)
	}
	f, err := pcm.FormatForRate(int(d.SampleRate))
	if err != nil {
		return Info{}, nil, err
	}

	var buf *audio.IntBuffer
	if buf, err = d.FullPCMBuffer(); err != nil {
		return Info{}, nil, fmt.Errorf("wav: read samples: %w", err)
	}
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(max(math.MinInt16, min(math.MaxInt16, v)))
	}

	h, err := NewHeader(f, len(samples))
	if err != nil {
		return Info{}, nil, err
	}
	return Info{
		Format:   f,
		Header:   h,
		Duration: float64(len(samples)) / float64(f.SampleRate()),
	}, samples, nil
}
