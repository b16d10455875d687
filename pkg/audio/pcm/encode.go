package pcm

import (
	"encoding/binary"
	"math"
)

// FullScale is the target peak of a normalized buffer, kept below the int16
// ceiling.
const FullScale = 32000

// Gain returns the factor that scales the peak of buf to FullScale. It never
// exceeds FullScale, which also covers a silent buffer.
func Gain(buf []float64) float64 {
	var peak float64
	for _, s := range buf {
		peak = max(peak, math.Abs(s))
	}
	if peak == 0 {
		return FullScale
	}
	return min(FullScale/peak, FullScale)
}

// Encode normalizes buf with Gain and converts it to 16-bit samples,
// truncating toward zero and clamping to the int16 range.
func Encode(buf []float64) []int16 {
	g := Gain(buf)
	out := make([]int16, len(buf))
	for i, s := range buf {
		out[i] = clamp16(math.Trunc(s * g))
	}
	return out
}

func clamp16(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	case math.IsNaN(v):
		return 0
	}
	return int16(v)
}

// Int16ToBytes converts int16 samples to little-endian bytes.
func Int16ToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

// BytesToInt16 converts little-endian bytes to int16 samples. A trailing odd
// byte is ignored.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}
