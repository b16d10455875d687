package smf

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

const (
	headerTag = "MThd"
	trackTag  = "MTrk"

	// headerLen is the size of the fixed header fields (format, tracks,
	// division). Longer headers are allowed; the excess is skipped.
	headerLen = 6
)

// Sequence is a decoded MIDI file.
type Sequence struct {
	// Format is the SMF format (0, 1 or 2) as declared by the header.
	Format uint16 `json:"format" yaml:"format"`

	// Tracks is the number of track chunks declared by the header.
	Tracks uint16 `json:"tracks" yaml:"tracks"`

	// Division is the number of ticks per quarter note.
	Division uint16 `json:"division" yaml:"division"`

	// Events holds note and tempo events of all tracks, stably sorted by
	// tick so that events sharing a tick keep their file order.
	Events []Event `json:"-" yaml:"-"`

	// TrackEnds holds, per track, the absolute tick at which decoding of
	// that track stopped (end-of-track event or end of chunk).
	TrackEnds []uint32 `json:"track_ends" yaml:"track_ends"`
}

// EndTick returns the largest track end tick.
func (s *Sequence) EndTick() uint32 {
	var end uint32
	for _, t := range s.TrackEnds {
		end = max(end, t)
	}
	return end
}

// Decode reads a Standard MIDI File from rs.
func Decode(rs io.ReadSeeker) (*Sequence, error) {
	r := NewReader(rs)

	tag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	if tag != headerTag {
		return nil, fmt.Errorf("%w: expected %q header, got %q", ErrFormat, headerTag, tag)
	}
	length, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length < headerLen {
		return nil, fmt.Errorf("%w: header length %d is shorter than %d", ErrFormat, length, headerLen)
	}

	seq := &Sequence{}
	if seq.Format, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if seq.Tracks, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if seq.Division, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if seq.Division&0x8000 != 0 {
		return nil, fmt.Errorf("%w: SMPTE time division 0x%04x", ErrUnsupported, seq.Division)
	}
	if seq.Division == 0 {
		return nil, fmt.Errorf("%w: zero ticks per quarter note", ErrFormat)
	}
	if err := r.Skip(int64(length - headerLen)); err != nil {
		return nil, err
	}

	d := &decoder{r: r, seq: seq}
	seq.TrackEnds = make([]uint32, 0, seq.Tracks)
	for i := range int(seq.Tracks) {
		end, err := d.track()
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		seq.TrackEnds = append(seq.TrackEnds, end)
	}

	slices.SortStableFunc(seq.Events, func(a, b Event) int {
		return cmp.Compare(a.Tick, b.Tick)
	})
	return seq, nil
}

type decoder struct {
	r   *Reader
	seq *Sequence
}

func (d *decoder) emit(e Event) {
	d.seq.Events = append(d.seq.Events, e)
}

// seekTrack skips chunks until a track chunk header and returns the offset of
// the first byte after the track.
func (d *decoder) seekTrack() (int64, error) {
	for {
		tag, err := d.r.ReadTag()
		if err != nil {
			return 0, err
		}
		length, err := d.r.ReadUint32()
		if err != nil {
			return 0, err
		}
		if tag == trackTag {
			return d.r.Offset() + int64(length), nil
		}
		if err := d.r.Skip(int64(length)); err != nil {
			return 0, err
		}
	}
}

// track decodes one track chunk and returns the tick at which it ended.
func (d *decoder) track() (uint32, error) {
	end, err := d.seekTrack()
	if err != nil {
		return 0, err
	}

	var (
		tick    uint32
		running byte
	)
	for d.r.Offset() < end {
		delta, err := d.r.ReadVarLen()
		if err != nil {
			return tick, err
		}
		tick += delta

		status, err := d.r.ReadByte()
		if err != nil {
			return tick, err
		}
		if Classify(status) == ClassData {
			if running == 0 {
				return tick, fmt.Errorf("%w: data byte 0x%02x at offset %d without running status",
					ErrFormat, status, d.r.Offset()-1)
			}
			if err := d.r.Unread(); err != nil {
				return tick, err
			}
			status = running
		} else {
			running = status
		}

		done, err := d.message(tick, status)
		if err != nil {
			return tick, err
		}
		if done {
			return tick, d.r.SeekTo(end)
		}
	}
	return tick, nil
}

// message consumes the body of one message. It reports done when the track
// has reached its end-of-track event.
func (d *decoder) message(tick uint32, status byte) (done bool, err error) {
	switch class := Classify(status); class {
	case ClassMeta:
		return d.meta(tick)

	case ClassSysEx:
		length, err := d.r.ReadVarLen()
		if err != nil {
			return false, err
		}
		return false, d.r.Skip(int64(length))

	case ClassNoteOn, ClassNoteOff:
		pitch, err := d.r.ReadByte()
		if err != nil {
			return false, err
		}
		velocity, err := d.r.ReadByte()
		if err != nil {
			return false, err
		}
		kind := NoteOff
		if class == ClassNoteOn && velocity > 0 {
			kind = NoteOn
		}
		d.emit(Event{
			Tick:     tick,
			Kind:     kind,
			Channel:  status & 0x0f,
			Pitch:    pitch & 0x7f,
			Velocity: velocity & 0x7f,
		})
		return false, nil

	default:
		return false, d.r.Skip(int64(class.DataLen()))
	}
}

func (d *decoder) meta(tick uint32) (bool, error) {
	typ, err := d.r.ReadByte()
	if err != nil {
		return false, err
	}
	length, err := d.r.ReadVarLen()
	if err != nil {
		return false, err
	}
	switch {
	case typ == MetaSetTempo && length == 3:
		tempo, err := d.r.ReadUint24()
		if err != nil {
			return false, err
		}
		d.emit(Event{Tick: tick, Kind: SetTempo, Tempo: tempo})
		return false, nil
	case typ == MetaEndOfTrack:
		return true, nil
	}
	return false, d.r.Skip(int64(length))
}
