package resampler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"
)

// ErrRate is returned for a non-positive sample rate.
var ErrRate = errors.New("resampler: invalid sample rate")

// Resampler wraps an io.Reader of mono 16-bit PCM and produces the same
// audio at another sample rate. It must be closed with Close to release the
// filter state.
type Resampler struct {
	srcRate int
	dstRate int
	src     *sampleReader

	mu        sync.Mutex
	closeErr  error
	resampler resampling.Resampler
	in        []float64
	leftover  []byte

	// consumed and produced count samples so the flushed tail can be cut
	// to the exact output length.
	consumed int
	produced int
	flushed  bool
}

// New creates a Resampler reading srcRate audio from src and producing
// dstRate audio. Equal rates pass samples through unchanged.
func New(src io.Reader, srcRate, dstRate int) (*Resampler, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrRate, srcRate, dstRate)
	}
	r := &Resampler{
		srcRate: srcRate,
		dstRate: dstRate,
		src:     newSampleReader(src),
	}
	if srcRate != dstRate {
		rs, err := newFilter(srcRate, dstRate)
		if err != nil {
			return nil, err
		}
		r.resampler = rs
	}
	return r, nil
}

func newFilter(srcRate, dstRate int) (resampling.Resampler, error) {
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	return rs, nil
}

// Read copies resampled audio into p. It only returns whole samples and is
// not safe for concurrent use with itself.
func (r *Resampler) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) < sampleSize {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/sampleSize*sampleSize]

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.leftover) > 0 {
		n := copy(p, r.leftover)
		r.leftover = r.leftover[n:]
		return n, nil
	}
	if r.closeErr != nil {
		return 0, r.closeErr
	}

	for {
		n, err := r.fill(p)
		// The filter may consume input without producing output yet.
		if n == 0 && err == nil {
			continue
		}
		return n, err
	}
}

// fill reads one block of source samples and converts it. At the end of
// the source the filter is flushed and the stream is trimmed or padded to
// OutputLen of the samples consumed.
func (r *Resampler) fill(p []byte) (int, error) {
	want := len(p) / sampleSize
	if r.resampler != nil {
		// Estimate how much source data yields len(p) output bytes.
		want = want*r.srcRate/r.dstRate + 4
	}
	if cap(r.in) < want {
		r.in = make([]float64, want)
	}
	in := r.in[:want]

	n, readErr := r.src.ReadSamples(in)
	r.consumed += n
	if r.resampler == nil {
		if n == 0 {
			return 0, readErr
		}
		return r.emit(p, in[:n], fromUnit, readErr)
	}

	var out []float64
	if n > 0 {
		var err error
		if out, err = r.resampler.Process(in[:n]); err != nil {
			return 0, fmt.Errorf("resample error: %w", err)
		}
	}
	if readErr == io.EOF && !r.flushed {
		r.flushed = true
		tail, err := r.resampler.Flush()
		if err != nil {
			return 0, fmt.Errorf("resample flush: %w", err)
		}
		out = fit(append(out, tail...), OutputLen(r.consumed, r.srcRate, r.dstRate)-r.produced)
		if len(out) > 0 {
			// Hand out the tail before reporting EOF.
			readErr = nil
		}
	}
	if len(out) == 0 {
		return 0, readErr
	}
	return r.emit(p, out, toInt16, readErr)
}

// emit encodes samples into p, queueing what does not fit.
func (r *Resampler) emit(p []byte, samples []float64, conv func(float64) int16, readErr error) (int, error) {
	r.produced += len(samples)
	buf := make([]byte, len(samples)*sampleSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*sampleSize:], uint16(conv(s)))
	}
	c := copy(p, buf)
	if len(buf) > c {
		r.leftover = append(r.leftover, buf[c:]...)
	}
	return c, readErr
}

// OutputLen returns the number of samples n input samples at srcRate
// become at dstRate, rounded to the nearest sample.
func OutputLen(n, srcRate, dstRate int) int {
	return int((int64(n)*int64(dstRate) + int64(srcRate)/2) / int64(srcRate))
}

// fit truncates s to n samples or pads it with silence.
func fit(s []float64, n int) []float64 {
	if n <= 0 {
		return s[:0]
	}
	if len(s) >= n {
		return s[:n]
	}
	return append(s, make([]float64, n-len(s))...)
}

// Close releases resources. Subsequent Read calls return io.ErrClosedPipe.
func (r *Resampler) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr == nil {
		r.closeErr = fmt.Errorf("resampler: %w", io.ErrClosedPipe)
	}
	r.resampler = nil
	r.leftover = nil
	return nil
}

// Samples resamples a complete buffer. The result holds exactly
// OutputLen(len(in), srcRate, dstRate) samples.
func Samples(in []int16, srcRate, dstRate int) ([]int16, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrRate, srcRate, dstRate)
	}
	if srcRate == dstRate || len(in) == 0 {
		return append([]int16(nil), in...), nil
	}
	rs, err := newFilter(srcRate, dstRate)
	if err != nil {
		return nil, err
	}
	input := make([]float64, len(in))
	for i, s := range in {
		input[i] = float64(s) / 32768.0
	}
	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	tail, err := rs.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush: %w", err)
	}
	output = fit(append(output, tail...), OutputLen(len(in), srcRate, dstRate))
	out := make([]int16, len(output))
	for i, s := range output {
		out[i] = toInt16(s)
	}
	return out, nil
}
