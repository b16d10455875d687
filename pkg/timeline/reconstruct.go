package timeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/haivivi/midisynth/pkg/smf"
)

// HangingPolicy decides what happens to notes still sounding after the last
// event.
type HangingPolicy int

const (
	// DropHanging discards notes that never received a note off.
	DropHanging HangingPolicy = iota

	// CloseAtEnd closes hanging notes at the time of the last event.
	CloseAtEnd
)

// String returns the policy name as used in configuration.
func (p HangingPolicy) String() string {
	switch p {
	case DropHanging:
		return "drop"
	case CloseAtEnd:
		return "close"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParseHangingPolicy parses "drop" or "close". The empty string means drop.
func ParseHangingPolicy(s string) (HangingPolicy, error) {
	switch strings.ToLower(s) {
	case "", "drop":
		return DropHanging, nil
	case "close":
		return CloseAtEnd, nil
	}
	return 0, fmt.Errorf("timeline: unknown hanging note policy %q", s)
}

// Option configures Reconstruct.
type Option func(*reconstructor)

// WithHangingNotes sets the hanging note policy. Defaults to DropHanging.
func WithHangingNotes(p HangingPolicy) Option {
	return func(r *reconstructor) {
		r.hanging = p
	}
}

// WithTempoOverride times the whole file at one tempo in microseconds per
// quarter note. SetTempo events are ignored while it is set. Zero keeps the
// file's tempo map.
func WithTempoOverride(micros uint32) Option {
	return func(r *reconstructor) {
		if micros == 0 {
			return
		}
		r.tempo = micros
		r.fixed = true
	}
}

// TempoForBPM converts beats per minute to microseconds per quarter note,
// truncating. Zero bpm returns zero, which leaves the tempo map alone.
func TempoForBPM(bpm float64) (uint32, error) {
	if bpm == 0 {
		return 0, nil
	}
	if bpm < 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm > 60e6 {
		return 0, fmt.Errorf("%w: %v", ErrBPM, bpm)
	}
	return uint32(60e6 / bpm), nil
}

// voice is a pending note in the channel × pitch table.
type voice struct {
	active   bool
	start    float64
	velocity uint8
}

type reconstructor struct {
	division float64
	hanging  HangingPolicy
	fixed    bool

	tick  uint32
	now   float64
	tempo uint32

	voices [Channels][Pitches]voice
	notes  []Note
}

// Reconstruct walks events in order, converts ticks to seconds using the
// tempo in effect for each interval, and pairs note ons with note offs.
//
// A note on for a voice that is already sounding closes the pending note
// first. Note offs for silent voices are ignored. Notes whose duration would
// be zero are dropped.
func Reconstruct(events []smf.Event, division uint16, opts ...Option) (*Timeline, error) {
	if division == 0 {
		return nil, ErrDivision
	}
	r := &reconstructor{
		division: float64(division),
		tempo:    smf.DefaultTempo,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, e := range events {
		r.advance(e.Tick)
		switch e.Kind {
		case smf.SetTempo:
			if !r.fixed {
				r.tempo = e.Tempo
			}
		case smf.NoteOn:
			v := &r.voices[e.Channel&0x0f][e.Pitch&0x7f]
			if v.active {
				r.close(e.Channel, e.Pitch, v)
			}
			*v = voice{active: true, start: r.now, velocity: e.Velocity}
		case smf.NoteOff:
			v := &r.voices[e.Channel&0x0f][e.Pitch&0x7f]
			if v.active {
				r.close(e.Channel, e.Pitch, v)
				*v = voice{}
			}
		}
	}

	if r.hanging == CloseAtEnd {
		for ch := range r.voices {
			for p := range r.voices[ch] {
				if v := &r.voices[ch][p]; v.active {
					r.close(uint8(ch), uint8(p), v)
					*v = voice{}
				}
			}
		}
	}

	return &Timeline{Notes: r.notes, Duration: r.now + Tail}, nil
}

// advance moves the clock to tick using the current tempo. Time already
// elapsed is never rescaled by later tempo changes.
func (r *reconstructor) advance(tick uint32) {
	if tick <= r.tick {
		return
	}
	delta := float64(tick - r.tick)
	r.now += delta * float64(r.tempo) / 1e6 / r.division
	r.tick = tick
}

// close emits the pending note of v ending now, if it has positive length.
func (r *reconstructor) close(channel, pitch uint8, v *voice) {
	d := r.now - v.start
	if d <= 0 {
		return
	}
	r.notes = append(r.notes, Note{
		Start:    v.start,
		Duration: d,
		Pitch:    pitch,
		Velocity: v.velocity,
		Channel:  channel,
	})
}
