// Package utf16 decodes fixed-width UTF-16 byte sequences as found in NTFS attribute names and file names, which are
// never NUL-terminated and are not guaranteed to be well-formed (NTFS permits unpaired surrogates).
package utf16

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
)

// DecodeString decodes b, a whole number of UTF-16 code units in the given byte order, into a Go string. Unpaired
// surrogates are not rejected: Go's unicode/utf16.Decode substitutes the Unicode replacement character for any code
// unit that cannot be paired, so the result is always a valid (if possibly lossy) UTF-8 string.
func DecodeString(b []byte, bo binary.ByteOrder) (string, error) {
	units, err := Units(b, bo)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// Units decodes b into its raw UTF-16 code units without combining surrogate pairs, for callers that want to preserve
// the exact on-disk code units (for example to report the original, possibly-malformed name alongside the best-effort
// decoded string).
func Units(b []byte, bo binary.ByteOrder) ([]uint16, error) {
	blen := len(b)
	if blen%2 != 0 {
		return nil, errors.New("input data must have even number of bytes")
	}
	slen := blen / 2
	units := make([]uint16, slen)
	for i := 0; i < slen; i++ {
		bi := i * 2
		units[i] = bo.Uint16(b[bi : bi+2])
	}
	return units, nil
}

// CodeUnitCount returns the number of UTF-16 code units encoded in a string, i.e. the value that NTFS's own
// name_length fields describe. This differs from len(s) (bytes) and from the rune count (code points outside the
// basic multilingual plane are two code units).
func CodeUnitCount(s string) int {
	return len(utf16.Encode([]rune(s)))
}
