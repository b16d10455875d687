package resampler

import (
	"encoding/binary"
	"io"
)

// sampleSize is the size of one mono 16-bit sample.
const sampleSize = 2

// sampleReader reads little-endian int16 samples from an io.Reader and
// returns them as floats in [-1, 1). A sample split across two reads of the
// underlying reader is held back until its second byte arrives.
type sampleReader struct {
	r   io.Reader
	raw []byte

	// odd holds the first byte of a split sample.
	odd    byte
	hasOdd bool
}

func newSampleReader(r io.Reader) *sampleReader {
	return &sampleReader{r: r}
}

// ReadSamples fills dst with up to len(dst) samples. A trailing odd byte at
// EOF is reported as io.ErrUnexpectedEOF.
func (sr *sampleReader) ReadSamples(dst []float64) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	need := len(dst) * sampleSize
	if cap(sr.raw) < need {
		sr.raw = make([]byte, need)
	}
	raw := sr.raw[:need]

	off := 0
	if sr.hasOdd {
		raw[0] = sr.odd
		sr.hasOdd = false
		off = 1
	}
	rn, err := sr.r.Read(raw[off:])
	n := off + rn

	if n%sampleSize != 0 {
		n--
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		} else {
			sr.odd = raw[n]
			sr.hasOdd = true
		}
	}
	for i := range n / sampleSize {
		dst[i] = float64(int16(binary.LittleEndian.Uint16(raw[i*sampleSize:]))) / 32768.0
	}
	return n / sampleSize, err
}

// fromUnit inverts the conversion done by ReadSamples exactly.
func fromUnit(s float64) int16 {
	return int16(s * 32768.0)
}

// toInt16 converts a float sample back to int16, clamping out-of-range
// values.
func toInt16(s float64) int16 {
	switch {
	case s >= 1.0:
		return 32767
	case s < -1.0:
		return -32768
	}
	return int16(s * 32767.0)
}
