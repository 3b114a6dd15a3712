package mft_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerbenamram/mft/mft"
)

func attributeListEntryBytes(typeCode mft.AttributeType, startingVCN uint64, segmentRecord uint32, segmentSeq uint16, attributeId uint16) []byte {
	const size = 26 // no name
	b := make([]byte, size)
	binary.LittleEndian.PutUint32(b[0x00:], uint32(typeCode))
	binary.LittleEndian.PutUint16(b[0x04:], uint16(size))
	binary.LittleEndian.PutUint64(b[0x08:], startingVCN)
	binary.LittleEndian.PutUint64(b[0x10:], uint64(segmentRecord)|uint64(segmentSeq)<<48)
	binary.LittleEndian.PutUint16(b[0x18:], attributeId)
	return b
}

func TestParseAttributeList_Empty(t *testing.T) {
	entries, err := mft.ParseAttributeList(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseAttributeList_MultipleEntries(t *testing.T) {
	e1 := attributeListEntryBytes(mft.AttributeTypeFileName, 0, 10, 1, 0)
	e2 := attributeListEntryBytes(mft.AttributeTypeData, 0, 11, 2, 3)
	stream := append(append([]byte{}, e1...), e2...)

	entries, err := mft.ParseAttributeList(stream)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, mft.AttributeTypeFileName, entries[0].Type)
	assert.Equal(t, uint64(10), entries[0].SegmentReference.RecordNumber)
	assert.Equal(t, uint16(1), entries[0].SegmentReference.SequenceNumber)

	assert.Equal(t, mft.AttributeTypeData, entries[1].Type)
	assert.Equal(t, uint64(11), entries[1].SegmentReference.RecordNumber)
	assert.Equal(t, uint16(3), entries[1].AttributeId)
}

func TestParseAttributeList_StartingVCNIsIndependentOfSegmentReference(t *testing.T) {
	// A fragmented non-resident $DATA stream lists one entry per VCN range it was split across; the starting VCN at
	// 0x08 and the base record reference at 0x10 must decode independently of one another.
	e := attributeListEntryBytes(mft.AttributeTypeData, 42, 99, 7, 2)

	entries, err := mft.ParseAttributeList(e)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, uint64(42), entries[0].StartingVCN)
	assert.Equal(t, uint64(99), entries[0].SegmentReference.RecordNumber)
	assert.Equal(t, uint16(7), entries[0].SegmentReference.SequenceNumber)
	assert.Equal(t, uint16(2), entries[0].AttributeId)
}

func TestParseAttributeList_TruncatedEntryIsError(t *testing.T) {
	_, err := mft.ParseAttributeList(make([]byte, 10))
	require.Error(t, err)
}

func TestParseAttributeList_InvalidEntryLengthIsError(t *testing.T) {
	b := attributeListEntryBytes(mft.AttributeTypeFileName, 0, 10, 1, 0)
	binary.LittleEndian.PutUint16(b[0x04:], 3) // shorter than minimum
	_, err := mft.ParseAttributeList(b)
	require.Error(t, err)
}
