package mft_test

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerbenamram/mft/mft"
)

func TestParseVolumeName_Empty(t *testing.T) {
	vn, err := mft.ParseVolumeName(nil)
	require.NoError(t, err)
	assert.Equal(t, mft.VolumeName(""), vn)
}

func TestParseVolumeName_Typical(t *testing.T) {
	units := utf16.Encode([]rune("System"))
	b := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(b[i*2:], u)
	}
	vn, err := mft.ParseVolumeName(b)
	require.NoError(t, err)
	assert.Equal(t, mft.VolumeName("System"), vn)
}

func TestParseVolumeName_OddLengthIsError(t *testing.T) {
	_, err := mft.ParseVolumeName([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)
}
