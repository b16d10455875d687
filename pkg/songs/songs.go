// Package songs provides built-in melodies for trying out the renderer
// without a MIDI file at hand. Songs are written in beat notation and
// exported as Standard MIDI Files.
package songs

import (
	"bytes"
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Pitch is a MIDI note number, or Rest.
type Pitch int

// MIDI note numbers, with C4 = 60.
const (
	// Octave 2
	C2 Pitch = 36
	D2 Pitch = 38
	E2 Pitch = 40
	F2 Pitch = 41
	G2 Pitch = 43
	A2 Pitch = 45
	B2 Pitch = 47

	// Octave 3
	C3  Pitch = 48
	D3  Pitch = 50
	Eb3 Pitch = 51
	E3  Pitch = 52
	F3  Pitch = 53
	Fs3 Pitch = 54
	G3  Pitch = 55
	A3  Pitch = 57
	Bb3 Pitch = 58
	B3  Pitch = 59

	// Octave 4
	C4  Pitch = 60
	D4  Pitch = 62
	Eb4 Pitch = 63
	E4  Pitch = 64
	F4  Pitch = 65
	Fs4 Pitch = 66
	G4  Pitch = 67
	A4  Pitch = 69
	Bb4 Pitch = 70
	B4  Pitch = 71

	// Octave 5
	C5  Pitch = 72
	D5  Pitch = 74
	Eb5 Pitch = 75
	E5  Pitch = 76
	F5  Pitch = 77
	Fs5 Pitch = 78
	G5  Pitch = 79
	A5  Pitch = 81
	B5  Pitch = 83

	// Octave 6
	C6 Pitch = 84

	Rest Pitch = -1
)

// ========== Tempo and Beat System ==========

// TimeSignature represents the time signature of a song.
type TimeSignature struct {
	BeatsPerBar int // Numerator: how many beats per measure (e.g., 4 for 4/4)
	BeatUnit    int // Denominator: note value that gets one beat (e.g., 4 for quarter note)
}

// Common time signatures
var (
	Time4_4 = TimeSignature{4, 4}
	Time3_4 = TimeSignature{3, 4}
)

// Tempo represents the tempo configuration for a song.
type Tempo struct {
	BPM       int
	Signature TimeSignature
}

// Seconds converts a beat count to seconds.
func (t Tempo) Seconds(beats float64) float64 {
	return beats * 60 / float64(t.BPM)
}

// Note value constants (in terms of beats, quarter note = 1)
const (
	Whole      = 4.0
	Half       = 2.0
	Quarter    = 1.0
	Eighth     = 0.5
	Sixteenth  = 0.25
	DotHalf    = 3.0
	DotQuarter = 1.5
	DotEighth  = 0.75
	Triplet8   = 1.0 / 3
)

// Division is the number of ticks per quarter note in exported files.
const Division = 480

// Ticks converts a beat count to ticks.
func Ticks(beats float64) uint32 {
	return uint32(math.Round(beats * Division))
}

// BeatNote is a pitch held for a number of beats.
type BeatNote struct {
	Pitch Pitch
	Beats float64
}

// N is a shorthand constructor for BeatNote.
func N(p Pitch, beats float64) BeatNote {
	return BeatNote{Pitch: p, Beats: beats}
}

// BeatVoice is one monophonic part.
type BeatVoice struct {
	Notes    []BeatNote
	Velocity uint8 // 0 means DefaultVelocity
}

// DefaultVelocity is used by voices that do not set one.
const DefaultVelocity = 100

// TotalBeats calculates the total number of beats in a BeatVoice.
func (bv BeatVoice) TotalBeats() float64 {
	total := 0.0
	for _, bn := range bv.Notes {
		total += bn.Beats
	}
	return total
}

// track writes the voice on channel ch.
func (bv BeatVoice) track(ch uint8) (smf.Track, error) {
	vel := bv.Velocity
	if vel == 0 {
		vel = DefaultVelocity
	}
	var t smf.Track
	var delta uint32
	for i, n := range bv.Notes {
		ticks := Ticks(n.Beats)
		if n.Pitch == Rest {
			delta += ticks
			continue
		}
		if n.Pitch < 0 || n.Pitch > 127 {
			return nil, fmt.Errorf("songs: note %d: pitch %d out of range", i, n.Pitch)
		}
		key := uint8(n.Pitch)
		t.Add(delta, midi.NoteOn(ch, key, vel))
		t.Add(ticks, midi.NoteOff(ch, key))
		delta = 0
	}
	t.Close(delta)
	return t, nil
}

// ========== Metronome ==========

// Metronome generates a click track on the percussion channel.
type Metronome struct {
	Tempo      Tempo
	TotalBeats int
	HighKey    uint8   // Downbeat (first beat of bar)
	LowKey     uint8   // Other beats
	Click      float64 // Click length in beats
}

// MetronomeChannel is the General MIDI percussion channel.
const MetronomeChannel = 9

// DefaultMetronome creates a metronome with wood block clicks.
func DefaultMetronome(tempo Tempo, totalBeats int) Metronome {
	return Metronome{
		Tempo:      tempo,
		TotalBeats: totalBeats,
		HighKey:    76,
		LowKey:     77,
		Click:      Sixteenth / 2,
	}
}

func (m Metronome) track() smf.Track {
	var t smf.Track
	click := Ticks(m.Click)
	rest := Ticks(1) - click
	var delta uint32
	for beat := range m.TotalBeats {
		key := m.LowKey
		if beat%m.Tempo.Signature.BeatsPerBar == 0 {
			key = m.HighKey
		}
		t.Add(delta, midi.NoteOn(MetronomeChannel, key, 90))
		t.Add(click, midi.NoteOff(MetronomeChannel, key))
		delta = rest
	}
	t.Close(delta)
	return t
}

// ========== Song Definition ==========

// Song represents a complete song with tempo and multiple voices.
type Song struct {
	ID     string             // Unique identifier
	Name   string             // Display name
	Tempo  Tempo              // Tempo configuration
	Voices func() []BeatVoice // Function that returns all voices (melody + accompaniment)
}

// TotalBeats returns the length of the longest voice.
func (s Song) TotalBeats() float64 {
	maxBeats := 0.0
	for _, bv := range s.Voices() {
		maxBeats = max(maxBeats, bv.TotalBeats())
	}
	return maxBeats
}

// Duration returns the total duration of the song in seconds.
func (s Song) Duration() float64 {
	return s.Tempo.Seconds(s.TotalBeats())
}

// SMF encodes the song as a format 1 Standard MIDI File: a tempo track
// followed by one track per voice, each voice on its own channel. With
// withMetronome a click track is added on MetronomeChannel.
func (s Song) SMF(withMetronome bool) ([]byte, error) {
	voices := s.Voices()
	if len(voices) > MetronomeChannel {
		return nil, fmt.Errorf("songs: %s has %d voices, at most %d fit", s.ID, len(voices), MetronomeChannel)
	}

	f := smf.New()
	f.TimeFormat = smf.MetricTicks(Division)

	var meta smf.Track
	meta.Add(0, smf.MetaTrackSequenceName(s.Name))
	meta.Add(0, smf.MetaMeter(uint8(s.Tempo.Signature.BeatsPerBar), uint8(s.Tempo.Signature.BeatUnit)))
	meta.Add(0, smf.MetaTempo(float64(s.Tempo.BPM)))
	meta.Close(0)
	if err := f.Add(meta); err != nil {
		return nil, fmt.Errorf("songs: add tempo track: %w", err)
	}

	for i, bv := range voices {
		t, err := bv.track(uint8(i))
		if err != nil {
			return nil, fmt.Errorf("songs: %s voice %d: %w", s.ID, i, err)
		}
		if err := f.Add(t); err != nil {
			return nil, fmt.Errorf("songs: add track %d: %w", i, err)
		}
	}

	if withMetronome {
		if beats := int(math.Ceil(s.TotalBeats())); beats > 0 {
			if err := f.Add(DefaultMetronome(s.Tempo, beats).track()); err != nil {
				return nil, fmt.Errorf("songs: add metronome: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("songs: write smf: %w", err)
	}
	return buf.Bytes(), nil
}

// ========== All Songs ==========

// All contains all built-in songs.
var All = []Song{
	SongTwinkleStar,
	SongHappyBirthday,
	SongTwoTigers,
	SongScaleC,
	SongScaleGMinor,
}

// ByID returns a song by its ID, or nil if not found.
func ByID(id string) *Song {
	for i := range All {
		if All[i].ID == id {
			return &All[i]
		}
	}
	return nil
}

// IDs returns all song IDs.
func IDs() []string {
	ids := make([]string, len(All))
	for i, s := range All {
		ids[i] = s.ID
	}
	return ids
}
