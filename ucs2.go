package cp2102n

import "fmt"

// The string fields hold 2-byte little-endian code units. The device
// stores zero-extended ASCII, not real UTF-16: no surrogates, no byte
// order mark, strings terminated by a zero unit.

// encodeUCS2 widens an ASCII string into wide code units. No terminator is
// written; the descriptor length accounts for it.
func encodeUCS2(s string) ([]byte, error) {
	out := make([]byte, 0, 2*len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == 0 || b > 0x7F {
			return nil, fmt.Errorf("string %q is not plain ASCII", s)
		}
		out = append(out, b, 0)
	}
	return out, nil
}

// decodeUCS2 reads wide code units up to the first zero unit, taking the
// low byte of each. An embedded zero unit truncates the string, matching
// the device's own termination convention.
func decodeUCS2(buf []byte) string {
	out := make([]byte, 0, len(buf)/2)
	for i := 0; i+1 < len(buf); i += 2 {
		u := uint16(buf[i]) | uint16(buf[i+1])<<8
		if u == 0 {
			break
		}
		out = append(out, byte(u))
	}
	return string(out)
}
