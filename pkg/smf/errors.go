package smf

import "errors"

// Sentinel errors. Decode wraps one of these so callers can use errors.Is.
var (
	// ErrFormat is returned for missing or wrong chunk tags and malformed
	// chunk structure.
	ErrFormat = errors.New("smf: invalid format")

	// ErrUnsupported is returned for valid files using features the decoder
	// does not implement (SMPTE time division).
	ErrUnsupported = errors.New("smf: unsupported feature")

	// ErrIO is returned when the source ends before an expected field or
	// cannot be read.
	ErrIO = errors.New("smf: read error")
)
