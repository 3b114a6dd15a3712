package fileref_test

import (
	"testing"

	"github.com/omerbenamram/mft/fileref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ref, err := fileref.Parse([]byte{0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, fileref.Reference{RecordNumber: 5, SequenceNumber: 1}, ref)
}

func TestParseHighRecordNumberByteIsNotSignExtended(t *testing.T) {
	// The top bit of the 6th (highest) record-number byte set must not be treated as a sign bit: the record number is
	// an unsigned 48-bit value, unlike a data run's signed LCN delta.
	ref, err := fileref.Parse([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x02, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0000800000000000), ref.RecordNumber)
	assert.Equal(t, uint16(2), ref.SequenceNumber)
}

func TestParseWrongLength(t *testing.T) {
	_, err := fileref.Parse([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestIsZero(t *testing.T) {
	assert.True(t, fileref.Reference{}.IsZero())
	assert.False(t, fileref.Reference{RecordNumber: 1}.IsZero())
}

func TestString(t *testing.T) {
	assert.Equal(t, "5#1", fileref.Reference{RecordNumber: 5, SequenceNumber: 1}.String())
}
