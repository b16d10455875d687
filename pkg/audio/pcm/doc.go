// Package pcm provides types and utilities for working with PCM (Pulse Code Modulation) audio data.
//
// The package defines 16-bit mono formats at the common sample rates, the
// float to int16 normalizer used by the renderer, and a Cursor for reading a
// finished buffer while its progress is observed elsewhere.
//
// Key types:
//   - Format: Represents audio format (sample rate, channels, bit depth)
//   - Chunk: Interface for audio data chunks
//   - DataChunk: Concrete implementation of Chunk for raw audio data
//   - Writer: Interface for writing audio chunks
//   - SampleBuffer: Writer collecting chunks back into samples
//   - Cursor: Reader over an immutable buffer with an atomic read position
//
// Example usage:
//
//	samples := pcm.Encode(buf)
//	cur := pcm.NewCursor(pcm.L16Mono44K, samples)
//	out := pcm.NewSampleBuffer(cur.Format())
//	err := pcm.Copy(out, cur, cur.Format())
package pcm
