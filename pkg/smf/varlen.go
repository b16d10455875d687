package smf

import "fmt"

// AppendVarLen appends v encoded as a variable-length quantity to dst.
func AppendVarLen(dst []byte, v uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7f)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		tmp[i] = byte(v&0x7f) | 0x80
	}
	return append(dst, tmp[i:]...)
}

// ParseVarLen decodes a variable-length quantity from the start of b and
// returns the value and the number of bytes consumed.
func ParseVarLen(b []byte) (uint32, int, error) {
	var v uint32
	for i, c := range b {
		v = v<<7 | uint32(c&0x7f)
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, len(b), fmt.Errorf("%w: truncated variable-length quantity", ErrIO)
}
