package mft_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerbenamram/mft/mft"
)

func TestParseIndexRoot_TooShort(t *testing.T) {
	_, err := mft.ParseIndexRoot(make([]byte, 10))
	require.Error(t, err)
}

func TestParseIndexRoot_Typical(t *testing.T) {
	b := make([]byte, 32)
	binary.LittleEndian.PutUint32(b[0x00:], uint32(mft.AttributeTypeFileName))
	binary.LittleEndian.PutUint32(b[0x04:], uint32(mft.CollationFilename))
	binary.LittleEndian.PutUint32(b[0x08:], 4096)
	b[0x0C] = 1
	binary.LittleEndian.PutUint32(b[0x10:], 0x20)
	binary.LittleEndian.PutUint32(b[0x14:], 0x50)
	binary.LittleEndian.PutUint32(b[0x18:], 0x60)
	binary.LittleEndian.PutUint32(b[0x1C:], 0x01)

	ir, err := mft.ParseIndexRoot(b)
	require.NoError(t, err)
	assert.Equal(t, mft.AttributeTypeFileName, ir.IndexedAttributeType)
	assert.Equal(t, mft.CollationFilename, ir.Collation)
	assert.Equal(t, uint32(4096), ir.IndexAllocationSize)
	assert.Equal(t, byte(1), ir.ClustersPerIndexRecord)
	assert.Equal(t, uint32(0x20), ir.EntriesOffset)
	assert.Equal(t, uint32(0x50), ir.TotalEntrySize)
	assert.Equal(t, uint32(0x60), ir.AllocatedEntrySize)
	assert.Equal(t, uint32(0x01), ir.IndexHeaderFlags)
}
