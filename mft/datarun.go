package mft

import (
	"encoding/binary"
	"fmt"
)

// DataRun is one fragment of a non-resident attribute's logical cluster map: Length clusters, starting at LCN (the
// absolute logical cluster number), or a sparse run with LCN == nil when no clusters back it.
type DataRun struct {
	Length uint64
	LCN    *int64
}

// IsSparse reports whether this run has no backing clusters.
func (d DataRun) IsSparse() bool {
	return d.LCN == nil
}

// ParseDataRuns decodes the variable-length, nibble-packed data-run stream that terminates every non-resident
// attribute. Each run is a header byte (low nibble: length of the length field in bytes, 1-8; high nibble: length of
// the signed offset field in bytes, 0-8, with 0 meaning sparse) followed by that many bytes of each. The stream ends
// at a 0x00 header byte or at the end of b.
//
// On a structurally invalid run (an L or O field longer than 8 bytes, or a run claiming zero length), ParseDataRuns
// returns the runs decoded so far along with an error; the caller decides whether a partial run list is still
// useful.
func ParseDataRuns(b []byte) ([]DataRun, error) {
	runs := make([]DataRun, 0)
	currentLCN := int64(0)

	for len(b) > 0 {
		header := b[0]
		if header == 0 {
			break
		}

		lengthLen := int(header & 0x0F)
		offsetLen := int(header >> 4)
		if lengthLen > 8 || offsetLen > 8 {
			return runs, fmt.Errorf("mft: data run header 0x%02x has length/offset field longer than 8 bytes", header)
		}

		need := 1 + lengthLen + offsetLen
		if len(b) < need {
			return runs, fmt.Errorf("mft: data run needs %d bytes but only %d remain", need, len(b))
		}

		length := readUnsignedLE(b[1 : 1+lengthLen])
		if length == 0 {
			return runs, fmt.Errorf("mft: data run has zero length")
		}

		if offsetLen == 0 {
			runs = append(runs, DataRun{Length: length, LCN: nil})
		} else {
			delta := readSignedLE(b[1+lengthLen : 1+lengthLen+offsetLen])
			currentLCN += delta
			lcn := currentLCN
			runs = append(runs, DataRun{Length: length, LCN: &lcn})
		}

		b = b[need:]
	}

	return runs, nil
}

func readUnsignedLE(b []byte) uint64 {
	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:])
}

func readSignedLE(b []byte) int64 {
	var buf [8]byte
	copy(buf[:], b)
	v := binary.LittleEndian.Uint64(buf[:])
	if len(b) > 0 && len(b) < 8 && b[len(b)-1]&0x80 != 0 {
		for i := len(b); i < 8; i++ {
			buf[i] = 0xFF
		}
		v = binary.LittleEndian.Uint64(buf[:])
	}
	return int64(v)
}

// totalLength sums the Length of every run, for comparing against the VCN range a non-resident attribute declares.
func totalLength(runs []DataRun) uint64 {
	var total uint64
	for _, r := range runs {
		total += r.Length
	}
	return total
}
