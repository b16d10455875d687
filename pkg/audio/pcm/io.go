package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// Writer consumes chunks of audio data.
type Writer interface {
	Write(Chunk) error
}

var (
	_ Writer = WriteFunc(nil)
	_ Writer = (*SampleBuffer)(nil)
)

// WriteFunc adapts a function to the Writer interface.
type WriteFunc func(Chunk) error

// Write calls f(c).
func (f WriteFunc) Write(c Chunk) error {
	return f(c)
}

// SampleBuffer is a Writer that accumulates chunks of one format as
// samples.
type SampleBuffer struct {
	format  Format
	samples []int16
}

// NewSampleBuffer returns an empty buffer for chunks of format f.
func NewSampleBuffer(f Format) *SampleBuffer {
	return &SampleBuffer{format: f}
}

// Write appends the samples of c. Chunks of another format are rejected.
func (b *SampleBuffer) Write(c Chunk) error {
	if c.Format() != b.format {
		return fmt.Errorf("pcm: chunk is %v, buffer is %v", c.Format(), b.format)
	}
	var buf bytes.Buffer
	buf.Grow(int(c.Len()))
	if _, err := c.WriteTo(&buf); err != nil {
		return err
	}
	b.samples = append(b.samples, BytesToInt16(buf.Bytes())...)
	return nil
}

// Samples returns the collected samples.
func (b *SampleBuffer) Samples() []int16 {
	return b.samples
}

// Copy reads r in chunks of at least 20ms and writes them to w until EOF.
func Copy(w Writer, r io.Reader, format Format) error {
	minChunk := int(format.BytesInDuration(20 * time.Millisecond))
	buf := make([]byte, 10*minChunk)
	for {
		n, err := io.ReadAtLeast(r, buf, minChunk)
		if n > 0 {
			if err := w.Write(format.DataChunk(buf[:n])); err != nil {
				return err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
	}
}
