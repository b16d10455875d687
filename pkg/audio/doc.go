// Package audio groups the audio sub-packages used by the renderer:
//
//   - synth: additive note synthesis into float buffers
//   - pcm: 16-bit mono formats, normalization and chunked I/O
//   - wav: the 44-byte RIFF/WAVE container
//   - resampler: sample rate conversion of PCM streams
//
// Example usage:
//
//	buf := synth.Render(tl.Notes, tl.Duration, synth.DefaultParams())
//	samples := pcm.Encode(buf)
//	err := wav.Encode(w, pcm.L16Mono44K, samples)
package audio
