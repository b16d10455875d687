// Package wav writes and reads the canonical 44-byte RIFF/WAVE container for
// 16-bit linear PCM.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/haivivi/midisynth/pkg/audio/pcm"
)

// HeaderSize is the size of the container header in bytes.
const HeaderSize = 44

const (
	fmtChunkSize = 16
	formatPCM    = 1
)

var (
	// ErrInvalidHeader is returned when a header cannot be parsed.
	ErrInvalidHeader = errors.New("wav: invalid header")

	// ErrTooLarge is returned when the sample data does not fit the 32-bit
	// size fields.
	ErrTooLarge = errors.New("wav: data too large")
)

// Header holds the fields of a canonical PCM header.
type Header struct {
	SampleRate    uint32 `json:"sample_rate" yaml:"sample_rate"`
	Channels      uint16 `json:"channels" yaml:"channels"`
	BitsPerSample uint16 `json:"bits_per_sample" yaml:"bits_per_sample"`

	// DataSize is the size of the sample data in bytes.
	DataSize uint32 `json:"data_size" yaml:"data_size"`
}

// NewHeader returns the header for samples samples of format f.
func NewHeader(f pcm.Format, samples int) (Header, error) {
	size := int64(samples) * int64(f.BlockAlign())
	if size > math.MaxUint32-(HeaderSize-8) {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return Header{
		SampleRate:    uint32(f.SampleRate()),
		Channels:      uint16(f.Channels()),
		BitsPerSample: uint16(f.Depth()),
		DataSize:      uint32(size),
	}, nil
}

// BlockAlign returns the size of one frame in bytes.
func (h Header) BlockAlign() uint16 {
	return h.Channels * h.BitsPerSample / 8
}

// ByteRate returns the number of data bytes per second.
func (h Header) ByteRate() uint32 {
	return h.SampleRate * uint32(h.BlockAlign())
}

// FileSize returns the value of the RIFF size field, the file size minus 8.
func (h Header) FileSize() uint32 {
	return HeaderSize - 8 + h.DataSize
}

// Samples returns the number of frames in the data chunk.
func (h Header) Samples() int {
	if h.BlockAlign() == 0 {
		return 0
	}
	return int(h.DataSize / uint32(h.BlockAlign()))
}

// MarshalBinary encodes the header.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, HeaderSize)
	b = append(b, "RIFF"...)
	b = binary.LittleEndian.AppendUint32(b, h.FileSize())
	b = append(b, "WAVE"...)
	b = append(b, "fmt "...)
	b = binary.LittleEndian.AppendUint32(b, fmtChunkSize)
	b = binary.LittleEndian.AppendUint16(b, formatPCM)
	b = binary.LittleEndian.AppendUint16(b, h.Channels)
	b = binary.LittleEndian.AppendUint32(b, h.SampleRate)
	b = binary.LittleEndian.AppendUint32(b, h.ByteRate())
	b = binary.LittleEndian.AppendUint16(b, h.BlockAlign())
	b = binary.LittleEndian.AppendUint16(b, h.BitsPerSample)
	b = append(b, "data"...)
	b = binary.LittleEndian.AppendUint32(b, h.DataSize)
	return b, nil
}

// ParseHeader decodes a canonical header. Only the exact 44-byte layout
// written by MarshalBinary is accepted.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(b))
	}
	le := binary.LittleEndian
	switch {
	case string(b[0:4]) != "RIFF", string(b[8:12]) != "WAVE":
		return Header{}, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidHeader)
	case string(b[12:16]) != "fmt " || le.Uint32(b[16:]) != fmtChunkSize:
		return Header{}, fmt.Errorf("%w: unexpected format chunk", ErrInvalidHeader)
	case le.Uint16(b[20:]) != formatPCM:
		return Header{}, fmt.Errorf("%w: format tag %d is not PCM", ErrInvalidHeader, le.Uint16(b[20:]))
	case string(b[36:40]) != "data":
		return Header{}, fmt.Errorf("%w: missing data chunk", ErrInvalidHeader)
	}
	h := Header{
		Channels:      le.Uint16(b[22:]),
		SampleRate:    le.Uint32(b[24:]),
		BitsPerSample: le.Uint16(b[34:]),
		DataSize:      le.Uint32(b[40:]),
	}
	if le.Uint32(b[4:]) != h.FileSize() {
		return Header{}, fmt.Errorf("%w: RIFF size %d does not match data size %d",
			ErrInvalidHeader, le.Uint32(b[4:]), h.DataSize)
	}
	if le.Uint16(b[32:]) != h.BlockAlign() || le.Uint32(b[28:]) != h.ByteRate() {
		return Header{}, fmt.Errorf("%w: inconsistent block align or byte rate", ErrInvalidHeader)
	}
	return h, nil
}

// Encode writes a complete container holding samples to w.
func Encode(w io.Writer, f pcm.Format, samples []int16) error {
	h, err := NewHeader(f, len(samples))
	if err != nil {
		return err
	}
	hdr, _ := h.MarshalBinary()
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}
	if _, err := w.Write(pcm.Int16ToBytes(samples)); err != nil {
		return fmt.Errorf("wav: write data: %w", err)
	}
	return nil
}

// Bytes returns the complete container holding samples.
func Bytes(f pcm.Format, samples []int16) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + 2*len(samples))
	if err := Encode(&buf, f, samples); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
