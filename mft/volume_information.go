package mft

import (
	"fmt"

	"github.com/omerbenamram/mft/binutil"
)

const volumeInformationSize = 12

// VolumeFlags is a bit mask of dirty/upgrade flags stored in $VOLUME_INFORMATION, as surfaced by chkdsk and the
// NTFS driver's own consistency tracking.
type VolumeFlags uint16

const (
	VolumeFlagsDirty             VolumeFlags = 0x0001
	VolumeFlagsResizeLogFile     VolumeFlags = 0x0002
	VolumeFlagsUpgradeOnMount    VolumeFlags = 0x0004
	VolumeFlagsMounted           VolumeFlags = 0x0008
	VolumeFlagsDeleteUSNUnderway VolumeFlags = 0x0010
	VolumeFlagsRepairObjectID    VolumeFlags = 0x0020
	VolumeFlagsModifiedByChkdsk  VolumeFlags = 0x8000
)

// Is reports whether this VolumeFlags's bit mask contains every bit of c.
func (f VolumeFlags) Is(c VolumeFlags) bool {
	return f&c == c
}

// VolumeInformation is the decoded content of a $VOLUME_INFORMATION attribute, stored on the $Volume system file's
// MFT entry.
type VolumeInformation struct {
	MajorVersion byte
	MinorVersion byte
	Flags        VolumeFlags
}

func (VolumeInformation) isAttributeContent() {}

// ParseVolumeInformation decodes a $VOLUME_INFORMATION payload.
func ParseVolumeInformation(b []byte) (VolumeInformation, error) {
	if len(b) < volumeInformationSize {
		return VolumeInformation{}, fmt.Errorf("expected at least %d bytes but got %d", volumeInformationSize, len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	return VolumeInformation{
		MajorVersion: r.Byte(0x08),
		MinorVersion: r.Byte(0x09),
		Flags:        VolumeFlags(r.Uint16(0x0A)),
	}, nil
}
