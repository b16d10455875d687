package smf

import "fmt"

// DefaultTempo is the tempo in microseconds per quarter note assumed before
// the first tempo event (120 BPM).
const DefaultTempo = 500000

// Kind is the type of a decoded event.
type Kind uint8

const (
	// NoteOn starts a note. Note-on messages with velocity 0 decode as NoteOff.
	NoteOn Kind = iota + 1
	// NoteOff ends a note.
	NoteOff
	// SetTempo changes the microseconds per quarter note from its tick on.
	SetTempo
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	case SetTempo:
		return "set-tempo"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is a decoded event at an absolute tick.
type Event struct {
	Tick     uint32 `json:"tick" yaml:"tick"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Channel  uint8  `json:"channel" yaml:"channel"`
	Pitch    uint8  `json:"pitch" yaml:"pitch"`
	Velocity uint8  `json:"velocity" yaml:"velocity"`

	// Tempo is in microseconds per quarter note, set for SetTempo only.
	Tempo uint32 `json:"tempo,omitempty" yaml:"tempo,omitempty"`
}

// BPM returns the tempo of a SetTempo event in beats per minute.
func (e Event) BPM() float64 {
	if e.Kind != SetTempo || e.Tempo == 0 {
		return 0
	}
	return 60e6 / float64(e.Tempo)
}
