// Package fileref implements the NTFS file reference: the 64-bit (entry index, sequence number) pair used throughout
// the MFT to identify an entry and the historical incarnation of that entry slot being referred to.
package fileref

import (
	"encoding/binary"
	"fmt"
)

// Reference identifies one historical incarnation of one MFT entry. RecordNumber is the low 48 bits of the packed
// on-disk value (the entry index into the MFT); SequenceNumber is the high 16 bits, incremented each time the entry
// slot is reused for a new file. Two References naming the same file must be equal in both fields; a RecordNumber
// match alone only means "same slot", possibly a different, later file.
type Reference struct {
	RecordNumber   uint64
	SequenceNumber uint16
}

// Parse decodes an 8-byte little-endian on-disk file reference. The first 6 bytes are the entry index, the final 2
// bytes are the sequence number.
func Parse(b []byte) (Reference, error) {
	if len(b) != 8 {
		return Reference{}, fmt.Errorf("expected 8 bytes but got %d", len(b))
	}

	return Reference{
		RecordNumber:   binary.LittleEndian.Uint64(padTo(b[:6], 8)),
		SequenceNumber: binary.LittleEndian.Uint16(b[6:]),
	}, nil
}

// IsZero reports whether this is the zero-value reference, as stored for a base record's BaseRecordReference field
// when the entry is not an extension record.
func (r Reference) IsZero() bool {
	return r == Reference{}
}

func (r Reference) String() string {
	return fmt.Sprintf("%d#%d", r.RecordNumber, r.SequenceNumber)
}

func padTo(data []byte, length int) []byte {
	if len(data) >= length {
		return data
	}
	result := make([]byte, length)
	copy(result, data)
	return result
}
