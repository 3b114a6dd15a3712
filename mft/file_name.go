package mft

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/omerbenamram/mft/binutil"
	"github.com/omerbenamram/mft/fileref"
	"github.com/omerbenamram/mft/utf16"
)

// FileNameNamespace distinguishes the naming convention a $FILE_NAME attribute's name was recorded in. A file with
// a name that isn't valid in one of the restricted namespaces (DOS, 8.3) gets two $FILE_NAME attributes: one
// Win32AndDos or Win32, one Dos.
type FileNameNamespace byte

const (
	FileNameNamespacePosix       FileNameNamespace = 0
	FileNameNamespaceWin32       FileNameNamespace = 1
	FileNameNamespaceDos         FileNameNamespace = 2
	FileNameNamespaceWin32AndDos FileNameNamespace = 3
)

const fileNameMinSize = 66

// FileName is the decoded content of a $FILE_NAME attribute. RawNameUnits preserves the exact on-disk UTF-16 code
// units alongside Name, the best-effort decoded string, since NTFS permits names containing unpaired surrogates that
// Name may have lossily substituted.
type FileName struct {
	ParentFileReference fileref.Reference
	Creation            time.Time
	FileLastModified    time.Time
	MftLastModified     time.Time
	LastAccess          time.Time
	AllocatedSize       uint64
	RealSize            uint64
	Flags               FileAttribute
	ReparseValue        uint32
	Namespace           FileNameNamespace
	Name                string
	RawNameUnits        []uint16
}

func (FileName) isAttributeContent() {}

// ParseFileName decodes a $FILE_NAME payload.
func ParseFileName(b []byte) (FileName, error) {
	if len(b) < fileNameMinSize {
		return FileName{}, fmt.Errorf("expected at least %d bytes but got %d", fileNameMinSize, len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	nameLength := int(r.Byte(0x40))
	minSize := fileNameMinSize + nameLength*2
	if len(b) < minSize {
		return FileName{}, fmt.Errorf("expected at least %d bytes but got %d", minSize, len(b))
	}

	nameBytes := r.Read(0x42, nameLength*2)
	units, err := utf16.Units(nameBytes, binary.LittleEndian)
	if err != nil {
		return FileName{}, fmt.Errorf("unable to decode file name: %w", err)
	}
	name, err := utf16.DecodeString(nameBytes, binary.LittleEndian)
	if err != nil {
		return FileName{}, fmt.Errorf("unable to decode file name: %w", err)
	}

	parentRef, err := fileref.Parse(r.Read(0x00, 8))
	if err != nil {
		return FileName{}, fmt.Errorf("unable to parse parent file reference: %w", err)
	}

	return FileName{
		ParentFileReference: parentRef,
		Creation:            ConvertFileTime(r.Uint64(0x08)),
		FileLastModified:    ConvertFileTime(r.Uint64(0x10)),
		MftLastModified:     ConvertFileTime(r.Uint64(0x18)),
		LastAccess:          ConvertFileTime(r.Uint64(0x20)),
		AllocatedSize:       r.Uint64(0x28),
		RealSize:            r.Uint64(0x30),
		Flags:               FileAttribute(r.Uint32(0x38)),
		ReparseValue:        r.Uint32(0x3C),
		Namespace:           FileNameNamespace(r.Byte(0x41)),
		Name:                name,
		RawNameUnits:        units,
	}, nil
}
