// Package smf decodes Standard MIDI Files into a flat, time-ordered event list.
//
// Only the events needed for audio rendering are kept: note on, note off and
// tempo changes. Everything else (controllers, program changes, sysex, text
// and other meta events) is consumed and discarded.
//
// Key types:
//   - Reader: big-endian primitive reader over an io.ReadSeeker
//   - Event: a decoded note or tempo event at an absolute tick
//   - Sequence: the decoded file (header fields + sorted events)
//
// Example usage:
//
//	f, err := os.Open("song.mid")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	seq, err := smf.Decode(f)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(seq.Division, len(seq.Events))
//
// Time-code (SMPTE) division is not supported and reported as ErrUnsupported.
package smf
