package mft

import (
	"encoding/binary"
	"fmt"

	"github.com/omerbenamram/mft/binutil"
	"github.com/omerbenamram/mft/fileref"
	"github.com/omerbenamram/mft/utf16"
)

const attributeListEntryMinSize = 26

// AttributeListEntry points at one attribute that lives in SegmentReference's record rather than the base record
// holding the $ATTRIBUTE_LIST — the mechanism NTFS uses to spread a file's attributes across multiple MFT records
// (extension records) when they no longer fit in one.
type AttributeListEntry struct {
	Type             AttributeType
	RecordLength     uint16
	Name             string
	StartingVCN      uint64
	SegmentReference fileref.Reference
	AttributeId      uint16
}

// AttributeList is the decoded content of an $ATTRIBUTE_LIST attribute.
type AttributeList []AttributeListEntry

func (AttributeList) isAttributeContent() {}

// ParseAttributeList decodes an $ATTRIBUTE_LIST payload into its entries, continuing until the payload is exhausted.
func ParseAttributeList(b []byte) (AttributeList, error) {
	entries := make(AttributeList, 0)

	for len(b) > 0 {
		if len(b) < attributeListEntryMinSize {
			return entries, fmt.Errorf("expected at least %d bytes for attribute list entry but got %d", attributeListEntryMinSize, len(b))
		}

		r := binutil.NewLittleEndianReader(b)
		entryLength := int(r.Uint16(0x04))
		if entryLength < attributeListEntryMinSize || entryLength > len(b) {
			return entries, fmt.Errorf("attribute list entry length %d is invalid for %d remaining bytes", entryLength, len(b))
		}

		name := ""
		nameLength := int(r.Byte(0x06))
		if nameLength != 0 {
			nameOffset := int(r.Byte(0x07))
			nameBytes, err := r.TryRead(nameOffset, nameLength*2)
			if err != nil {
				return entries, fmt.Errorf("unable to read attribute list entry name: %w", err)
			}
			decoded, err := utf16.DecodeString(nameBytes, binary.LittleEndian)
			if err != nil {
				return entries, fmt.Errorf("unable to decode attribute list entry name: %w", err)
			}
			name = decoded
		}

		segmentRef, err := fileref.Parse(r.Read(0x10, 8))
		if err != nil {
			return entries, fmt.Errorf("unable to parse segment reference: %w", err)
		}

		entries = append(entries, AttributeListEntry{
			Type:             AttributeType(r.Uint32(0x00)),
			RecordLength:     uint16(entryLength),
			Name:             name,
			StartingVCN:      r.Uint64(0x08),
			SegmentReference: segmentRef,
			AttributeId:      r.Uint16(0x18),
		})

		b = b[entryLength:]
	}

	return entries, nil
}
