package mft

import (
	"fmt"
	"time"

	"github.com/omerbenamram/mft/binutil"
)

// FileAttribute is a bit mask of Windows file attribute flags, as found in $STANDARD_INFORMATION and $FILE_NAME.
type FileAttribute uint32

const (
	FileAttributeReadOnly          FileAttribute = 0x0001
	FileAttributeHidden            FileAttribute = 0x0002
	FileAttributeSystem            FileAttribute = 0x0004
	FileAttributeArchive           FileAttribute = 0x0020
	FileAttributeDevice            FileAttribute = 0x0040
	FileAttributeNormal            FileAttribute = 0x0080
	FileAttributeTemporary         FileAttribute = 0x0100
	FileAttributeSparseFile        FileAttribute = 0x0200
	FileAttributeReparsePoint      FileAttribute = 0x0400
	FileAttributeCompressed        FileAttribute = 0x0800
	FileAttributeOffline           FileAttribute = 0x1000
	FileAttributeNotContentIndexed FileAttribute = 0x2000
	FileAttributeEncrypted         FileAttribute = 0x4000
)

// Is reports whether this FileAttribute's bit mask contains every bit of c.
func (f FileAttribute) Is(c FileAttribute) bool {
	return f&c == c
}

const standardInformationMinSize = 48
const standardInformationExtendedSize = 72

// StandardInformation is the decoded $STANDARD_INFORMATION attribute: file timestamps, attribute flags, and — on
// volumes written by NTFS 3.0+ — quota/security/USN bookkeeping. HasExtendedFields is false on older, 48-byte
// records, in which case the trailing fields are all zero.
type StandardInformation struct {
	Creation                time.Time
	FileLastModified        time.Time
	MftLastModified         time.Time
	LastAccess              time.Time
	FileAttributes          FileAttribute
	MaximumNumberOfVersions uint32
	VersionNumber           uint32
	ClassId                 uint32
	HasExtendedFields       bool
	OwnerId                 uint32
	SecurityId              uint32
	QuotaCharged            uint64
	UpdateSequenceNumber    uint64
}

func (StandardInformation) isAttributeContent() {}

// ParseStandardInformation decodes a $STANDARD_INFORMATION payload. The extended fields (owner id onward) are
// treated as a single all-or-nothing group, present exactly when len(b) >= 72.
func ParseStandardInformation(b []byte) (StandardInformation, error) {
	if len(b) < standardInformationMinSize {
		return StandardInformation{}, fmt.Errorf("expected at least %d bytes but got %d", standardInformationMinSize, len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	si := StandardInformation{
		Creation:                ConvertFileTime(r.Uint64(0x00)),
		FileLastModified:        ConvertFileTime(r.Uint64(0x08)),
		MftLastModified:         ConvertFileTime(r.Uint64(0x10)),
		LastAccess:              ConvertFileTime(r.Uint64(0x18)),
		FileAttributes:          FileAttribute(r.Uint32(0x20)),
		MaximumNumberOfVersions: r.Uint32(0x24),
		VersionNumber:           r.Uint32(0x28),
		ClassId:                 r.Uint32(0x2C),
	}

	if len(b) >= standardInformationExtendedSize {
		si.HasExtendedFields = true
		si.OwnerId = r.Uint32(0x30)
		si.SecurityId = r.Uint32(0x34)
		si.QuotaCharged = r.Uint64(0x38)
		si.UpdateSequenceNumber = r.Uint64(0x40)
	}

	return si, nil
}
