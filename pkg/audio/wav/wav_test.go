package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/haivivi/midisynth/pkg/audio/pcm"
)

func TestHeaderLayout(t *testing.T) {
	data, err := Bytes(pcm.L16Mono44K, []int16{1, -2, 3})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	want := []byte{
		'R', 'I', 'F', 'F', 42, 0, 0, 0,
		'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ', 16, 0, 0, 0,
		1, 0, // PCM
		1, 0, // mono
		0x44, 0xac, 0, 0, // 44100
		0x88, 0x58, 0x01, 0, // 88200
		2, 0,
		16, 0,
		'd', 'a', 't', 'a', 6, 0, 0, 0,
		1, 0, 0xfe, 0xff, 3, 0,
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("Bytes() =\n%x\nwant\n%x", data, want)
	}
}

func TestHeaderIntegrity(t *testing.T) {
	for _, n := range []int{0, 1, 66150} {
		data, err := Bytes(pcm.L16Mono44K, make([]int16, n))
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		fileSize := binary.LittleEndian.Uint32(data[4:])
		dataSize := binary.LittleEndian.Uint32(data[40:])
		if dataSize != uint32(2*n) {
			t.Errorf("n=%d: data size %d", n, dataSize)
		}
		if fileSize != 36+dataSize {
			t.Errorf("n=%d: file size %d, want %d", n, fileSize, 36+dataSize)
		}
		if len(data) != HeaderSize+2*n {
			t.Errorf("n=%d: len %d", n, len(data))
		}
	}
}

func TestParseHeader(t *testing.T) {
	h, err := NewHeader(pcm.L16Mono22K, 100)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	b, _ := h.MarshalBinary()
	got, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if got != h {
		t.Errorf("ParseHeader() = %+v, want %+v", got, h)
	}
	if got.Samples() != 100 {
		t.Errorf("Samples() = %d", got.Samples())
	}
}

func TestParseHeaderErrors(t *testing.T) {
	h, _ := NewHeader(pcm.L16Mono16K, 10)
	good, _ := h.MarshalBinary()

	corrupt := func(off int, v ...byte) []byte {
		b := slices.Clone(good)
		copy(b[off:], v)
		return b
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"short", good[:20]},
		{"riff", corrupt(0, 'R', 'I', 'F', 'X')},
		{"wave", corrupt(8, 'A', 'V', 'I', ' ')},
		{"fmt size", corrupt(16, 18)},
		{"format tag", corrupt(20, 3)},
		{"data tag", corrupt(36, 'L', 'I', 'S', 'T')},
		{"riff size", corrupt(4, 0)},
		{"block align", corrupt(32, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHeader(tt.data); !errors.Is(err, ErrInvalidHeader) {
				t.Errorf("ParseHeader() = %v, want ErrInvalidHeader", err)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	samples := []int16{0, 32767, -32768, 1000, -1000, 42}
	data, err := Bytes(pcm.L16Mono48K, samples)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	info, got, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if info.Format != pcm.L16Mono48K {
		t.Errorf("format = %v", info.Format)
	}
	if info.Header.DataSize != 12 {
		t.Errorf("data size = %d", info.Header.DataSize)
	}
	if !slices.Equal(got, samples) {
		t.Errorf("samples = %v, want %v", got, samples)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not a wave file at all, nope"))); err == nil {
		t.Fatal("expected error")
	}
}

type failWriter struct{ n int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestEncodeWriteError(t *testing.T) {
	if err := Encode(&failWriter{}, pcm.L16Mono44K, []int16{1}); err == nil {
		t.Error("expected header write error")
	}
	if err := Encode(&failWriter{n: 1}, pcm.L16Mono44K, []int16{1}); err == nil {
		t.Error("expected data write error")
	}
}
