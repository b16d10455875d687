package pcm

import (
	"io"
	"sync/atomic"
)

// Cursor reads an immutable PCM buffer. The read position is the only
// mutable state; it is atomic so one goroutine can advance it while another
// observes progress with Pos.
//
// Read must only be called from one goroutine at a time.
type Cursor struct {
	data []byte
	fmt  Format
	pos  atomic.Int64
}

// NewCursor returns a cursor at the start of samples. The samples must not
// be modified afterwards.
func NewCursor(f Format, samples []int16) *Cursor {
	return &Cursor{data: Int16ToBytes(samples), fmt: f}
}

// Format returns the format of the buffer.
func (c *Cursor) Format() Format {
	return c.fmt
}

// Read implements io.Reader. It only returns whole samples.
func (c *Cursor) Read(p []byte) (int, error) {
	pos := c.pos.Load()
	if pos >= int64(len(c.data)) {
		return 0, io.EOF
	}
	block := c.fmt.BlockAlign()
	if len(p) < block {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/block*block]
	n := copy(p, c.data[pos:])
	c.pos.Add(int64(n))
	return n, nil
}

// Pos returns the number of bytes read so far.
func (c *Cursor) Pos() int64 {
	return c.pos.Load()
}

// Len returns the total buffer size in bytes.
func (c *Cursor) Len() int64 {
	return int64(len(c.data))
}
