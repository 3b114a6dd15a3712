package fixup_test

import (
	"testing"

	"github.com/omerbenamram/mft/fixup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectorRecord(usn [2]byte, sectorTrailers ...[2]byte) []byte {
	b := make([]byte, 512*len(sectorTrailers))
	for i, trailer := range sectorTrailers {
		b[512*i+510] = trailer[0]
		b[512*i+511] = trailer[1]
	}
	usaOffset := 0x30
	b[usaOffset] = usn[0]
	b[usaOffset+1] = usn[1]
	for i := range sectorTrailers {
		b[usaOffset+2+2*i] = byte(0xA0 + i)
		b[usaOffset+3+2*i] = byte(0xB0 + i)
	}
	return b
}

func TestApply_AllSectorsMatch(t *testing.T) {
	usn := [2]byte{0x01, 0x00}
	b := sectorRecord(usn, usn, usn)
	valid, err := fixup.Apply(b, 0x30, 3)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, byte(0xA0), b[510])
	assert.Equal(t, byte(0xB0), b[511])
	assert.Equal(t, byte(0xA1), b[1022])
	assert.Equal(t, byte(0xB1), b[1023])
}

func TestApply_MismatchIsNonFatal(t *testing.T) {
	usn := [2]byte{0x00, 0x00}
	b := sectorRecord(usn, usn, [2]byte{0xAA, 0xBB})
	valid, err := fixup.Apply(b, 0x30, 3)
	require.NoError(t, err)
	assert.False(t, valid)
	// The trailer is still rewritten to the saved original even though it didn't match the USN.
	assert.Equal(t, byte(0xA1), b[1022])
	assert.Equal(t, byte(0xB1), b[1023])
}

func TestApply_UsaOutOfBounds(t *testing.T) {
	b := make([]byte, 512)
	_, err := fixup.Apply(b, 500, 10)
	assert.Error(t, err)
}

func TestApply_SizeNotMultipleOf512(t *testing.T) {
	b := make([]byte, 513)
	_, err := fixup.Apply(b, 0, 1)
	assert.Error(t, err)
}

func TestApply_SectorCountMismatch(t *testing.T) {
	b := make([]byte, 1024)
	// usaSize=2 implies 1 sector (512 bytes), but the record is 1024 bytes.
	_, err := fixup.Apply(b, 0, 2)
	assert.Error(t, err)
}
