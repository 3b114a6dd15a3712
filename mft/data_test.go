package mft_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerbenamram/mft/mft"
)

// nonResidentDataAttributeBytes builds a complete non-resident $DATA attribute with the given VCN range and
// data-run stream.
func nonResidentDataAttributeBytes(lowestVCN, highestVCN uint64, runs []byte) []byte {
	const headerSize = 0x40
	attrLen := headerSize + len(runs)
	if attrLen%8 != 0 {
		attrLen += 8 - attrLen%8
	}

	attr := make([]byte, attrLen)
	binary.LittleEndian.PutUint32(attr[0x00:], 0x80) // $DATA
	binary.LittleEndian.PutUint32(attr[0x04:], uint32(attrLen))
	attr[0x08] = 1 // non-resident
	binary.LittleEndian.PutUint64(attr[0x10:], lowestVCN)
	binary.LittleEndian.PutUint64(attr[0x18:], highestVCN)
	binary.LittleEndian.PutUint16(attr[0x20:], headerSize)
	copy(attr[headerSize:], runs)
	return attr
}

func TestParseEntry_NonResidentDataSparseRun(t *testing.T) {
	// 0x01 0x04 0x00 -> one sparse run of 4 clusters, matching scenario 3 from the spec's concrete scenarios.
	dataAttr := nonResidentDataAttributeBytes(0, 3, []byte{0x01, 0x04, 0x00})
	record := buildRecord(30, 1, dataAttr)

	entry, err := mft.ParseEntry(record, 0)
	require.NoError(t, err)

	attrs, err := entry.Attributes()
	require.NoError(t, err)
	require.Len(t, attrs, 1)

	data, ok := attrs[0].Content.(mft.Data)
	require.True(t, ok)
	assert.False(t, data.Resident)
	require.Len(t, data.Runs, 1)
	assert.True(t, data.Runs[0].IsSparse())
	assert.Equal(t, uint64(4), data.Runs[0].Length)
	assert.True(t, data.RunsComplete)
}

func TestParseEntry_NonResidentDataIncompleteRunsFlagged(t *testing.T) {
	// Declares VCN range [0, 9] (10 clusters) but the run stream only covers 4.
	dataAttr := nonResidentDataAttributeBytes(0, 9, []byte{0x01, 0x04, 0x00})
	record := buildRecord(31, 1, dataAttr)

	entry, err := mft.ParseEntry(record, 0)
	require.NoError(t, err)

	attrs, err := entry.Attributes()
	require.NoError(t, err)
	require.Len(t, attrs, 1)

	data, ok := attrs[0].Content.(mft.Data)
	require.True(t, ok)
	assert.False(t, data.RunsComplete)
}

func TestParseEntry_ResidentData(t *testing.T) {
	const headerSize = 24
	payload := []byte("hello resident data")
	attrLen := headerSize + len(payload)
	if attrLen%8 != 0 {
		attrLen += 8 - attrLen%8
	}
	attr := make([]byte, attrLen)
	binary.LittleEndian.PutUint32(attr[0x00:], 0x80)
	binary.LittleEndian.PutUint32(attr[0x04:], uint32(attrLen))
	attr[0x08] = 0
	binary.LittleEndian.PutUint32(attr[0x10:], uint32(len(payload)))
	binary.LittleEndian.PutUint16(attr[0x14:], headerSize)
	copy(attr[headerSize:], payload)

	record := buildRecord(32, 1, attr)
	entry, err := mft.ParseEntry(record, 0)
	require.NoError(t, err)

	attrs, err := entry.Attributes()
	require.NoError(t, err)
	require.Len(t, attrs, 1)

	data, ok := attrs[0].Content.(mft.Data)
	require.True(t, ok)
	assert.True(t, data.Resident)
	assert.Equal(t, payload, data.ResidentData)
}
