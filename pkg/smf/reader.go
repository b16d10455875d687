package smf

import (
	"fmt"
	"io"
)

// Reader reads big-endian primitives from an io.ReadSeeker and keeps track of
// the current offset. All read errors wrap ErrIO.
type Reader struct {
	rs  io.ReadSeeker
	off int64
	buf [4]byte
}

// NewReader returns a Reader positioned at the current offset of rs, which is
// assumed to be 0.
func NewReader(rs io.ReadSeeker) *Reader {
	return &Reader{rs: rs}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.off
}

func (r *Reader) read(n int) ([]byte, error) {
	b := r.buf[:n]
	m, err := io.ReadFull(r.rs, b)
	r.off += int64(m)
	if err != nil {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d: %w", ErrIO, n, r.off-int64(m), err)
	}
	return b, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a big-endian 16-bit value.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadUint24 reads a big-endian 24-bit value.
func (r *Reader) ReadUint24() (uint32, error) {
	b, err := r.read(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadUint32 reads a big-endian 32-bit value.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadTag reads a 4-byte chunk identifier such as "MThd".
func (r *Reader) ReadTag() (string, error) {
	b, err := r.read(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadVarLen reads a variable-length quantity: 7 bits per byte, most
// significant group first, continuation flagged by the top bit. There is no
// limit on the number of bytes; bits shifted beyond 32 are lost.
func (r *Reader) ReadVarLen() (uint32, error) {
	var v uint32
	for {
		c, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint32(c&0x7f)
		if c&0x80 == 0 {
			return v, nil
		}
	}
}

// Skip moves the read position n bytes forward without reading.
func (r *Reader) Skip(n int64) error {
	if n == 0 {
		return nil
	}
	return r.SeekTo(r.off + n)
}

// Unread moves the read position back by one byte.
func (r *Reader) Unread() error {
	return r.SeekTo(r.off - 1)
}

// SeekTo moves the read position to the absolute offset off.
func (r *Reader) SeekTo(off int64) error {
	pos, err := r.rs.Seek(off, io.SeekStart)
	if err != nil {
		return fmt.Errorf("%w: seek to %d: %w", ErrIO, off, err)
	}
	r.off = pos
	return nil
}
