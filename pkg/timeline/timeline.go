// Package timeline converts tick-based MIDI events into notes with absolute
// start times and durations in seconds.
package timeline

import (
	"cmp"
	"errors"
	"slices"
)

const (
	// Channels is the number of MIDI channels.
	Channels = 16

	// Pitches is the number of MIDI note numbers.
	Pitches = 128

	// Tail is the time appended after the last event so releases can ring out.
	Tail = 1.0
)

// ErrDivision is returned for a zero tick division.
var ErrDivision = errors.New("timeline: division must be positive")

// ErrBPM is returned for a tempo override that is not a positive rate.
var ErrBPM = errors.New("timeline: invalid bpm")

// Note is a finished note. Duration is always positive.
type Note struct {
	Start    float64 `json:"start" yaml:"start" msgpack:"s"`
	Duration float64 `json:"duration" yaml:"duration" msgpack:"d"`
	Pitch    uint8   `json:"pitch" yaml:"pitch" msgpack:"p"`
	Velocity uint8   `json:"velocity" yaml:"velocity" msgpack:"v"`
	Channel  uint8   `json:"channel" yaml:"channel" msgpack:"c"`
}

// End returns the time at which the note is released.
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// Timeline is the result of reconstructing an event sequence.
type Timeline struct {
	Notes []Note `json:"notes" yaml:"notes" msgpack:"notes"`

	// Duration is the time of the last event plus Tail.
	Duration float64 `json:"duration" yaml:"duration" msgpack:"duration"`
}

// SortByStart orders notes by start time, keeping the emission order of
// notes that start together.
func (tl *Timeline) SortByStart() {
	slices.SortStableFunc(tl.Notes, func(a, b Note) int {
		return cmp.Compare(a.Start, b.Start)
	})
}

// Stats summarizes a timeline.
type Stats struct {
	Notes      int     `json:"notes" yaml:"notes"`
	Percussion int     `json:"percussion" yaml:"percussion"`
	Channels   []uint8 `json:"channels" yaml:"channels"`
	MinPitch   uint8   `json:"min_pitch" yaml:"min_pitch"`
	MaxPitch   uint8   `json:"max_pitch" yaml:"max_pitch"`
	Duration   float64 `json:"duration" yaml:"duration"`
}

// Stats returns a summary of the timeline. Notes on percussionChannel are
// counted separately and excluded from the pitch range; pass -1 to treat all
// channels as pitched.
func (tl *Timeline) Stats(percussionChannel int) Stats {
	st := Stats{Notes: len(tl.Notes), Duration: tl.Duration, MinPitch: Pitches - 1}
	var used [Channels]bool
	pitched := false
	for _, n := range tl.Notes {
		used[n.Channel] = true
		if int(n.Channel) == percussionChannel {
			st.Percussion++
			continue
		}
		pitched = true
		st.MinPitch = min(st.MinPitch, n.Pitch)
		st.MaxPitch = max(st.MaxPitch, n.Pitch)
	}
	if !pitched {
		st.MinPitch = 0
	}
	for ch, ok := range used {
		if ok {
			st.Channels = append(st.Channels, uint8(ch))
		}
	}
	return st
}
