package mft

import (
	"encoding/binary"
	"fmt"

	"github.com/omerbenamram/mft/utf16"
)

// VolumeName is the decoded content of a $VOLUME_NAME attribute: the volume label as set by the user, stored only
// on the $Volume system file's MFT entry.
type VolumeName string

func (VolumeName) isAttributeContent() {}

// ParseVolumeName decodes a $VOLUME_NAME payload. An empty payload (an unlabeled volume) decodes to an empty string.
func ParseVolumeName(b []byte) (VolumeName, error) {
	if len(b) == 0 {
		return VolumeName(""), nil
	}
	if len(b)%2 != 0 {
		return VolumeName(""), fmt.Errorf("expected an even number of bytes but got %d", len(b))
	}

	name, err := utf16.DecodeString(b, binary.LittleEndian)
	if err != nil {
		return VolumeName(""), fmt.Errorf("unable to decode volume name: %w", err)
	}
	return VolumeName(name), nil
}
