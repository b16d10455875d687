// Package render runs the full conversion from a Standard MIDI File to
// 16-bit mono PCM: decode, timeline reconstruction, synthesis,
// normalization and an optional resampling step.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/haivivi/midisynth/pkg/audio/pcm"
	"github.com/haivivi/midisynth/pkg/audio/resampler"
	"github.com/haivivi/midisynth/pkg/audio/synth"
	"github.com/haivivi/midisynth/pkg/audio/wav"
	"github.com/haivivi/midisynth/pkg/cache"
	"github.com/haivivi/midisynth/pkg/smf"
	"github.com/haivivi/midisynth/pkg/timeline"
)

// ErrNoNotes is returned when a file decodes cleanly but yields no notes.
var ErrNoNotes = errors.New("render: no notes found")

// Options configures a Renderer.
type Options struct {
	// Synth holds the voice parameters. Synth.SampleRate must be one of the
	// pcm formats.
	Synth synth.Params

	// OutputRate resamples the rendered audio. Zero keeps Synth.SampleRate.
	OutputRate int

	// Hanging decides what happens to notes without a note off.
	Hanging timeline.HangingPolicy

	// BPM, if set, times the whole file at this tempo and ignores its
	// tempo events.
	BPM float64

	// Cache, if set, is consulted before rendering and filled after.
	Cache *cache.Cache

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options producing the standard 44.1 kHz voice.
func DefaultOptions() Options {
	return Options{Synth: synth.DefaultParams()}
}

// Renderer converts MIDI data to PCM. It is safe for concurrent use.
type Renderer struct {
	opts   Options
	synth  pcm.Format
	output pcm.Format
	tempo  uint32
	logger *slog.Logger
}

// New validates opts and returns a Renderer.
func New(opts Options) (*Renderer, error) {
	if err := opts.Synth.Validate(); err != nil {
		return nil, err
	}
	sf, err := pcm.FormatForRate(opts.Synth.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("render: synthesis rate: %w", err)
	}
	of := sf
	if opts.OutputRate != 0 {
		if of, err = pcm.FormatForRate(opts.OutputRate); err != nil {
			return nil, fmt.Errorf("render: output rate: %w", err)
		}
	}
	tempo, err := timeline.TempoForBPM(opts.BPM)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{opts: opts, synth: sf, output: of, tempo: tempo, logger: logger}, nil
}

// Format returns the format of rendered audio.
func (r *Renderer) Format() pcm.Format {
	return r.output
}

// PercussionChannel returns the channel rendered as percussion, or -1.
func (r *Renderer) PercussionChannel() int {
	return r.opts.Synth.PercussionChannel
}

// Result is a finished render.
type Result struct {
	// Format, Tracks and Division are copied from the MIDI header.
	Format   uint16 `json:"format" yaml:"format"`
	Tracks   uint16 `json:"tracks" yaml:"tracks"`
	Division uint16 `json:"division" yaml:"division"`

	// Events is the number of note and tempo events decoded.
	Events int `json:"events" yaml:"events"`

	Timeline *timeline.Timeline `json:"-" yaml:"-"`

	Audio   pcm.Format `json:"-" yaml:"-"`
	Samples []int16    `json:"-" yaml:"-"`

	// Cached is set when the result came from the cache.
	Cached bool `json:"cached" yaml:"cached"`
}

// WAV returns the result as a complete WAV file.
func (res *Result) WAV() ([]byte, error) {
	return wav.Bytes(res.Audio, res.Samples)
}

// Duration returns the length of the rendered audio.
func (res *Result) Duration() time.Duration {
	return res.Audio.Duration(int64(len(res.Samples) * res.Audio.BlockAlign()))
}

// Summary is the printable description of a render.
type Summary struct {
	Format     uint16         `json:"format" yaml:"format"`
	Tracks     uint16         `json:"tracks" yaml:"tracks"`
	Division   uint16         `json:"division" yaml:"division"`
	Events     int            `json:"events" yaml:"events"`
	Notes      timeline.Stats `json:"notes" yaml:"notes"`
	SampleRate int            `json:"sample_rate" yaml:"sample_rate"`
	Samples    int            `json:"samples" yaml:"samples"`
	Seconds    float64        `json:"seconds" yaml:"seconds"`
	Cached     bool           `json:"cached" yaml:"cached"`
	Output     string         `json:"output,omitempty" yaml:"output,omitempty"`
}

// Summary describes res. Notes on percussionChannel are counted apart.
func (res *Result) Summary(percussionChannel int) Summary {
	return Summary{
		Format:     res.Format,
		Tracks:     res.Tracks,
		Division:   res.Division,
		Events:     res.Events,
		Notes:      res.Timeline.Stats(percussionChannel),
		SampleRate: res.Audio.SampleRate(),
		Samples:    len(res.Samples),
		Seconds:    float64(len(res.Samples)) / float64(res.Audio.SampleRate()),
		Cached:     res.Cached,
	}
}

// fingerprint holds everything besides the input that changes the output.
type fingerprint struct {
	Synth      synth.Params `msgpack:"synth"`
	OutputRate int          `msgpack:"output_rate"`
	Hanging    string       `msgpack:"hanging"`
	Tempo      uint32       `msgpack:"tempo"`
}

// Render converts one MIDI file held in data. ErrNoNotes is returned when
// the file has no notes; no audio is produced in that case.
func (r *Renderer) Render(ctx context.Context, data []byte) (*Result, error) {
	key := ""
	if r.opts.Cache != nil {
		var err error
		key, err = cache.Fingerprint(data, fingerprint{
			Synth:      r.opts.Synth,
			OutputRate: r.output.SampleRate(),
			Hanging:    r.opts.Hanging.String(),
			Tempo:      r.tempo,
		})
		if err != nil {
			return nil, err
		}
		if res, ok := r.lookup(ctx, key); ok {
			return res, nil
		}
	}

	start := time.Now()
	seq, err := smf.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	r.logger.Debug("render: decoded",
		"format", seq.Format, "tracks", seq.Tracks, "division", seq.Division, "events", len(seq.Events))

	tl, err := timeline.Reconstruct(seq.Events, seq.Division,
		timeline.WithHangingNotes(r.opts.Hanging),
		timeline.WithTempoOverride(r.tempo),
	)
	if err != nil {
		return nil, err
	}
	if len(tl.Notes) == 0 {
		return nil, ErrNoNotes
	}
	r.logger.Debug("render: timeline", "notes", len(tl.Notes), "duration", tl.Duration)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := synth.Render(tl.Notes, tl.Duration, r.opts.Synth)
	samples := pcm.Encode(buf)
	r.logger.Debug("render: synthesized", "samples", len(samples), "gain", pcm.Gain(buf))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.output != r.synth {
		if samples, err = r.resample(samples); err != nil {
			return nil, err
		}
		r.logger.Debug("render: resampled", "rate", r.output.SampleRate(), "samples", len(samples))
	}

	res := &Result{
		Format:   seq.Format,
		Tracks:   seq.Tracks,
		Division: seq.Division,
		Events:   len(seq.Events),
		Timeline: tl,
		Audio:    r.output,
		Samples:  samples,
	}
	r.logger.Info("render: done", "notes", len(tl.Notes), "duration", res.Duration(), "took", time.Since(start))

	if r.opts.Cache != nil {
		r.store(ctx, key, res)
	}
	return res, nil
}

// resample streams samples through the resampler in pcm chunks.
func (r *Renderer) resample(samples []int16) ([]int16, error) {
	cur := pcm.NewCursor(r.synth, samples)
	rs, err := resampler.New(cur, r.synth.SampleRate(), r.output.SampleRate())
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	out := pcm.NewSampleBuffer(r.output)
	if err := pcm.Copy(out, rs, r.output); err != nil {
		return nil, fmt.Errorf("render: resample: %w", err)
	}
	if cur.Pos() != cur.Len() {
		return nil, fmt.Errorf("render: resample stopped at byte %d of %d", cur.Pos(), cur.Len())
	}
	return out.Samples(), nil
}

func (r *Renderer) lookup(ctx context.Context, key string) (*Result, bool) {
	e, err := r.opts.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			r.logger.Warn("render: cache lookup failed", "error", err)
		}
		return nil, false
	}
	f, err := pcm.FormatForRate(e.SampleRate)
	if err != nil || f != r.output {
		return nil, false
	}
	tl := e.Timeline
	r.logger.Info("render: cache hit", "key", key[:12], "notes", len(tl.Notes))
	return &Result{
		Format:   e.Format,
		Tracks:   e.Tracks,
		Division: e.Division,
		Events:   e.Events,
		Timeline: &tl,
		Audio:    f,
		Samples:  e.Samples,
		Cached:   true,
	}, true
}

// store writes res to the cache. Failures are logged and ignored.
func (r *Renderer) store(ctx context.Context, key string, res *Result) {
	err := r.opts.Cache.Put(ctx, key, &cache.Entry{
		Format:     res.Format,
		Tracks:     res.Tracks,
		Division:   res.Division,
		Events:     res.Events,
		Timeline:   *res.Timeline,
		SampleRate: res.Audio.SampleRate(),
		Samples:    res.Samples,
	})
	if err != nil {
		r.logger.Warn("render: cache store failed", "error", err)
	}
}
