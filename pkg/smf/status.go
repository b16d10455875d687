package smf

// Class is the classification of a status byte. It determines how many data
// bytes follow and whether the message produces an Event.
type Class uint8

const (
	// ClassData is a byte with the top bit clear: running status applies.
	ClassData Class = iota
	// ClassMeta is 0xFF: type byte, variable length, payload.
	ClassMeta
	// ClassSysEx is 0xF0 or 0xF7: variable length, payload.
	ClassSysEx
	// ClassNoteOff is 0x8n: pitch, velocity.
	ClassNoteOff
	// ClassNoteOn is 0x9n: pitch, velocity. Velocity 0 means note off.
	ClassNoteOn
	// ClassOneData is 0xCn (program change) and 0xDn (channel pressure).
	ClassOneData
	// ClassTwoData covers the remaining messages with two data bytes:
	// 0xAn, 0xBn, 0xEn and the system common range 0xF1-0xFE.
	ClassTwoData
)

// Meta event types handled by the decoder.
const (
	MetaEndOfTrack = 0x2f
	MetaSetTempo   = 0x51
)

// Classify returns the class of a status byte.
func Classify(status byte) Class {
	switch {
	case status < 0x80:
		return ClassData
	case status == 0xff:
		return ClassMeta
	case status == 0xf0, status == 0xf7:
		return ClassSysEx
	}
	switch status & 0xf0 {
	case 0x80:
		return ClassNoteOff
	case 0x90:
		return ClassNoteOn
	case 0xc0, 0xd0:
		return ClassOneData
	}
	return ClassTwoData
}

// DataLen returns the number of data bytes following a channel message of
// class c, or 0 for classes with a variable-length payload.
func (c Class) DataLen() int {
	switch c {
	case ClassNoteOff, ClassNoteOn, ClassTwoData:
		return 2
	case ClassOneData:
		return 1
	}
	return 0
}

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassData:
		return "data"
	case ClassMeta:
		return "meta"
	case ClassSysEx:
		return "sysex"
	case ClassNoteOff:
		return "note-off"
	case ClassNoteOn:
		return "note-on"
	case ClassOneData:
		return "channel-1"
	case ClassTwoData:
		return "channel-2"
	}
	return "unknown"
}
