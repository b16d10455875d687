// Package synth renders notes into a mono float sample buffer using a small
// additive harmonic stack and a linear attack/release envelope.
package synth

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/haivivi/midisynth/pkg/timeline"
)

// Partial is one component of the harmonic stack.
type Partial struct {
	// Ratio is the frequency multiple of the fundamental.
	Ratio float64 `json:"ratio" yaml:"ratio" msgpack:"r"`

	// Amplitude is the relative amplitude of the partial.
	Amplitude float64 `json:"amplitude" yaml:"amplitude" msgpack:"a"`
}

// Params controls rendering.
type Params struct {
	SampleRate int `json:"sample_rate" yaml:"sample_rate" msgpack:"sr"`

	// Partials make up pitched notes. Partials at or above Nyquist are
	// skipped.
	Partials []Partial `json:"partials" yaml:"partials" msgpack:"p"`

	// HarmonicNorm divides the sum of the partials of a pitched note.
	HarmonicNorm float64 `json:"harmonic_norm" yaml:"harmonic_norm" msgpack:"hn"`

	Attack  float64 `json:"attack" yaml:"attack" msgpack:"at"`
	Release float64 `json:"release" yaml:"release" msgpack:"rl"`

	// Gain is applied to every note after velocity scaling.
	Gain float64 `json:"gain" yaml:"gain" msgpack:"g"`

	// PercussionChannel renders as a fixed unpitched hit. -1 disables it.
	PercussionChannel int     `json:"percussion_channel" yaml:"percussion_channel" msgpack:"pc"`
	DrumFrequency     float64 `json:"drum_frequency" yaml:"drum_frequency" msgpack:"df"`
	DrumDuration      float64 `json:"drum_duration" yaml:"drum_duration" msgpack:"dd"`

	// Workers is the number of goroutines used by Render. Values below 2
	// render on the calling goroutine. Output does not depend on it.
	Workers int `json:"-" yaml:"-" msgpack:"-"`
}

// DefaultSampleRate is the sample rate of DefaultParams.
const DefaultSampleRate = 44100

// DefaultParams returns the standard voice.
func DefaultParams() Params {
	return Params{
		SampleRate: DefaultSampleRate,
		Partials: []Partial{
			{Ratio: 1, Amplitude: 1.0},
			{Ratio: 2, Amplitude: 0.5},
			{Ratio: 3, Amplitude: 0.3},
			{Ratio: 4, Amplitude: 0.1},
		},
		HarmonicNorm:      1.9,
		Attack:            0.05,
		Release:           0.1,
		Gain:              0.3,
		PercussionChannel: 9,
		DrumFrequency:     100,
		DrumDuration:      0.05,
	}
}

// ErrParams is returned by Validate.
var ErrParams = errors.New("synth: invalid params")

// Validate reports whether p can be rendered.
func (p Params) Validate() error {
	switch {
	case p.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrParams, p.SampleRate)
	case p.HarmonicNorm <= 0:
		return fmt.Errorf("%w: harmonic norm %v", ErrParams, p.HarmonicNorm)
	case p.Attack < 0 || p.Release < 0:
		return fmt.Errorf("%w: negative envelope segment", ErrParams)
	case p.PercussionChannel >= timeline.Channels:
		return fmt.Errorf("%w: percussion channel %d", ErrParams, p.PercussionChannel)
	}
	return nil
}

// Frequency returns the equal-tempered frequency of a MIDI pitch, with
// pitch 69 at 440 Hz.
func Frequency(pitch uint8) float64 {
	return 440 * math.Pow(2, (float64(pitch)-69)/12)
}

// BufferLen returns the number of samples covering duration seconds.
func BufferLen(duration float64, sampleRate int) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Round(duration * float64(sampleRate)))
}

// Render mixes notes into a zeroed buffer of BufferLen(duration) samples.
// Samples past the end of the buffer are dropped.
func Render(notes []timeline.Note, duration float64, p Params) []float64 {
	buf := make([]float64, BufferLen(duration, p.SampleRate))
	if len(buf) == 0 || len(notes) == 0 {
		return buf
	}
	voices := make([]voice, len(notes))
	for i, n := range notes {
		voices[i] = p.voice(n)
	}

	workers := min(p.Workers, len(buf))
	if workers < 2 {
		mix(buf, 0, voices)
		return buf
	}

	// Each worker owns a contiguous range and sums notes in slice order, so
	// every sample sees the same additions as the sequential path.
	var wg sync.WaitGroup
	size := (len(buf) + workers - 1) / workers
	for lo := 0; lo < len(buf); lo += size {
		hi := min(lo+size, len(buf))
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			mix(buf[lo:hi], lo, voices)
		}(lo, hi)
	}
	wg.Wait()
	return buf
}

// voice is a note resolved against Params.
type voice struct {
	offset   int
	length   int
	rate     float64
	duration float64
	attack   float64
	release  float64
	scale    float64
	norm     float64
	partials []Partial
	freq     float64
}

func (p Params) voice(n timeline.Note) voice {
	v := voice{
		offset:   int(math.Round(n.Start * float64(p.SampleRate))),
		rate:     float64(p.SampleRate),
		attack:   p.Attack,
		release:  p.Release,
		scale:    float64(n.Velocity) / 127 * p.Gain,
		duration: n.Duration,
		freq:     Frequency(n.Pitch),
		norm:     p.HarmonicNorm,
		partials: p.Partials,
	}
	if int(n.Channel) == p.PercussionChannel {
		v.freq = p.DrumFrequency
		v.duration = p.DrumDuration
		v.norm = 1
		v.partials = []Partial{{Ratio: 1, Amplitude: 1}}
	}

	nyquist := v.rate / 2
	audible := make([]Partial, 0, len(v.partials))
	for _, pt := range v.partials {
		if v.freq*pt.Ratio < nyquist {
			audible = append(audible, pt)
		}
	}
	v.partials = audible
	v.length = int(math.Ceil((v.duration + v.release) * v.rate))
	return v
}

// envelope returns the gain at t seconds into the note.
func (v *voice) envelope(t float64) float64 {
	switch {
	case t < v.attack:
		return t / v.attack
	case t <= v.duration:
		return 1
	case v.release == 0:
		return 0
	}
	return max(0, 1-(t-v.duration)/v.release)
}

func (v *voice) sample(i int) float64 {
	t := float64(i) / v.rate
	var sum float64
	for _, pt := range v.partials {
		sum += pt.Amplitude * math.Sin(2*math.Pi*v.freq*pt.Ratio*t)
	}
	return sum / v.norm * v.envelope(t) * v.scale
}

// mix adds voices into dst, which holds samples [base, base+len(dst)) of
// the full buffer.
func mix(dst []float64, base int, voices []voice) {
	end := base + len(dst)
	for i := range voices {
		v := &voices[i]
		lo := max(v.offset, base)
		hi := min(v.offset+v.length, end)
		for j := lo; j < hi; j++ {
			dst[j-base] += v.sample(j - v.offset)
		}
	}
}
