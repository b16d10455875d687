package pcm

import (
	"bytes"
	"errors"
	"io"
	"math"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		format     Format
		sampleRate int
		str        string
	}{
		{L16Mono16K, 16000, "audio/L16; rate=16000; channels=1"},
		{L16Mono22K, 22050, "audio/L16; rate=22050; channels=1"},
		{L16Mono24K, 24000, "audio/L16; rate=24000; channels=1"},
		{L16Mono44K, 44100, "audio/L16; rate=44100; channels=1"},
		{L16Mono48K, 48000, "audio/L16; rate=48000; channels=1"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.format.SampleRate(); got != tt.sampleRate {
				t.Errorf("SampleRate() = %d, want %d", got, tt.sampleRate)
			}
			if got := tt.format.Channels(); got != 1 {
				t.Errorf("Channels() = %d, want 1", got)
			}
			if got := tt.format.Depth(); got != 16 {
				t.Errorf("Depth() = %d, want 16", got)
			}
			if got := tt.format.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			f, err := FormatForRate(tt.sampleRate)
			if err != nil || f != tt.format {
				t.Errorf("FormatForRate(%d) = %v, %v", tt.sampleRate, f, err)
			}
		})
	}
}

func TestFormatForRateUnsupported(t *testing.T) {
	if _, err := FormatForRate(8000); !errors.Is(err, ErrUnsupportedRate) {
		t.Fatalf("expected ErrUnsupportedRate, got %v", err)
	}
}

func TestFormatInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Format(99).SampleRate()
}

func TestFormatDurations(t *testing.T) {
	f := L16Mono44K
	if got := f.BytesInDuration(time.Second); got != 88200 {
		t.Errorf("BytesInDuration(1s) = %d", got)
	}
	if got := f.Duration(88200); got != time.Second {
		t.Errorf("Duration(88200) = %v", got)
	}
	if got := f.Samples(10); got != 5 {
		t.Errorf("Samples(10) = %d", got)
	}
}

func TestGain(t *testing.T) {
	tests := []struct {
		name string
		buf  []float64
		want float64
	}{
		{"empty", nil, 32000},
		{"silence", []float64{0, 0, 0}, 32000},
		{"unit", []float64{0.5, -1, 0.25}, 32000},
		{"loud", []float64{2, -4}, 8000},
		{"quiet", []float64{0.5e-6}, 32000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Gain(tt.buf); got != tt.want {
				t.Errorf("Gain() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	got := Encode([]float64{1, -1, 0.5, -0.5, 0.00001, -0.00001, 0})
	want := []int16{32000, -32000, 16000, -16000, 0, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("Encode() = %v, want %v", got, want)
	}
}

func TestEncodeTruncatesTowardZero(t *testing.T) {
	// Peak 4 gives gain 8000.
	got := Encode([]float64{4, 1.00001, -1.00001})
	want := []int16{32000, 8000, -8000}
	if !slices.Equal(got, want) {
		t.Errorf("Encode() = %v, want %v", got, want)
	}
}

func TestEncodeSilence(t *testing.T) {
	got := Encode(make([]float64, 16))
	for i, s := range got {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0", i, s)
		}
	}
}

func TestEncodeScaleInvariant(t *testing.T) {
	buf := make([]float64, 500)
	for i := range buf {
		buf[i] = 1000 * math.Sin(float64(i)*0.37) * math.Cos(float64(i)*0.011)
	}
	want := Encode(buf)

	// Powers of two scale exactly, so the normalized output is identical as
	// long as the gain stays below its cap.
	for _, k := range []float64{0.25, 2, 64, 1.0 / 128} {
		scaled := make([]float64, len(buf))
		for i, s := range buf {
			scaled[i] = s * k
		}
		if got := Encode(scaled); !slices.Equal(got, want) {
			t.Errorf("scale %v changed encoded output", k)
		}
	}
}

func TestClamp16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{40000, 32767},
		{-40000, -32768},
		{32767, 32767},
		{-32768, -32768},
		{12, 12},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := clamp16(tt.in); got != tt.want {
			t.Errorf("clamp16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInt16Bytes(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 0x1234}
	data := Int16ToBytes(samples)
	want := []byte{0, 0, 1, 0, 0xff, 0xff, 0xff, 0x7f, 0x00, 0x80, 0x34, 0x12}
	if !bytes.Equal(data, want) {
		t.Fatalf("Int16ToBytes() = %x, want %x", data, want)
	}
	if got := BytesToInt16(append(data, 0xaa)); !slices.Equal(got, samples) {
		t.Errorf("BytesToInt16() = %v", got)
	}
}

func TestCursorRead(t *testing.T) {
	c := NewCursor(L16Mono16K, []int16{1, 2, 3, 4, 5})
	if c.Len() != 10 || c.Pos() != 0 {
		t.Fatalf("Len=%d Pos=%d", c.Len(), c.Pos())
	}

	buf := make([]byte, 5)
	n, err := c.Read(buf)
	if err != nil || n != 4 {
		t.Fatalf("Read = %d, %v; want 4 bytes", n, err)
	}
	if c.Pos() != 4 {
		t.Errorf("Pos=%d, want 4", c.Pos())
	}

	if _, err := c.Read(buf[:1]); !errors.Is(err, io.ErrShortBuffer) {
		t.Errorf("short read err = %v", err)
	}

	rest, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got := BytesToInt16(rest); !slices.Equal(got, []int16{3, 4, 5}) {
		t.Errorf("rest = %v", got)
	}
	if _, err := c.Read(buf); err != io.EOF {
		t.Errorf("read at end = %v, want EOF", err)
	}
	if c.Pos() != c.Len() {
		t.Errorf("Pos at end = %d, want %d", c.Pos(), c.Len())
	}
}

func TestCursorPosConcurrent(t *testing.T) {
	c := NewCursor(L16Mono16K, make([]int16, 16000))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var last int64
		for last < c.Len() {
			p := c.Pos()
			if p < last {
				t.Errorf("position went backwards: %d < %d", p, last)
				return
			}
			last = p
		}
	}()

	out := NewSampleBuffer(c.Format())
	if err := Copy(out, c, c.Format()); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	wg.Wait()

	if n := len(out.Samples()); n != 16000 {
		t.Errorf("copied %d samples, want 16000", n)
	}
	if d := c.Format().Duration(c.Pos()); d != time.Second {
		t.Errorf("read %v, want 1s", d)
	}
}

func TestSampleBuffer(t *testing.T) {
	b := NewSampleBuffer(L16Mono16K)
	if err := b.Write(L16Mono16K.DataChunk(Int16ToBytes([]int16{1, -2, 3}))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := b.Write(L16Mono16K.DataChunk(Int16ToBytes([]int16{4}))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := b.Samples(); !slices.Equal(got, []int16{1, -2, 3, 4}) {
		t.Errorf("Samples = %v", got)
	}
	if err := b.Write(L16Mono48K.DataChunk(make([]byte, 4))); err == nil {
		t.Error("expected error for mismatched format")
	}
}
