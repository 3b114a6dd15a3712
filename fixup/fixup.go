// Package fixup applies the NTFS "update sequence array" (USA) integrity scheme found in every MFT record and index
// record: before being written to disk, the last two bytes of each 512-byte sector of the record are replaced with an
// "update sequence number" (USN), and the bytes they displaced are saved in the USA. Applying the fixup restores the
// original bytes and reports whether every sector's saved USN matched, which is how NTFS metadata records detect a
// torn write.
package fixup

import "fmt"

const sectorSize = 512

// Apply validates and rewrites the update sequence array in place over b, a single fixed-size record (MFT entry or
// index record) whose header declared the USA at usaOffset, usaSize 16-bit words long (word 0 is the USN, the
// remaining usaSize-1 words are the per-sector originals).
//
// Apply never leaves the per-sector trailer bytes unrewritten: even when a sector's current trailer does not match
// the USN (a torn or corrupted record), those two bytes are still overwritten with the saved original so that
// downstream attribute decoding sees consistent data. The returned bool is true only when every sector's trailer
// matched before being overwritten.
//
// Apply fails hard (returns an error, b untouched) when usaOffset+2*usaSize would read past b, when the implied
// sector count (usaSize-1) times 512 is not exactly b's length, or when len(b) is not itself a multiple of 512 — these indicate
// the record header is lying about either the USA or the record size, not an expected post-fixup mismatch.
func Apply(b []byte, usaOffset, usaSize int) (valid bool, err error) {
	r := len(b)
	if r%sectorSize != 0 {
		return false, fmt.Errorf("record size %d is not a multiple of %d", r, sectorSize)
	}
	if usaSize < 1 {
		return false, fmt.Errorf("update sequence array size must be at least 1 but is %d", usaSize)
	}
	if usaOffset < 0 || usaOffset+2*usaSize > r {
		return false, fmt.Errorf("update sequence array at offset %d, size %d exceeds record size %d", usaOffset, usaSize, r)
	}
	sectorCount := usaSize - 1
	if sectorCount*sectorSize != r {
		return false, fmt.Errorf("update sequence array implies %d sectors (%d bytes) but record size is %d", sectorCount, sectorCount*sectorSize, r)
	}

	usn := b[usaOffset : usaOffset+2]
	valid = true
	for i := 0; i < sectorCount; i++ {
		trailer := sectorSize*i + sectorSize - 2
		if b[trailer] != usn[0] || b[trailer+1] != usn[1] {
			valid = false
		}
		original := b[usaOffset+2+2*i : usaOffset+4+2*i]
		b[trailer] = original[0]
		b[trailer+1] = original[1]
	}
	return valid, nil
}
