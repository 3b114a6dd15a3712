package mft

import (
	"encoding/binary"
	"fmt"

	"github.com/omerbenamram/mft/binutil"
	"github.com/omerbenamram/mft/utf16"
)

// AttributeType identifies the kind of an Attribute. Use Name() for a human-readable form such as "$FILE_NAME".
type AttributeType uint32

// Well-known AttributeType values. Other values occur on real volumes and are decoded as Raw.
const (
	AttributeTypeStandardInformation AttributeType = 0x10
	AttributeTypeAttributeList       AttributeType = 0x20
	AttributeTypeFileName            AttributeType = 0x30
	AttributeTypeObjectId            AttributeType = 0x40
	AttributeTypeSecurityDescriptor  AttributeType = 0x50
	AttributeTypeVolumeName          AttributeType = 0x60
	AttributeTypeVolumeInformation   AttributeType = 0x70
	AttributeTypeData                AttributeType = 0x80
	AttributeTypeIndexRoot           AttributeType = 0x90
	AttributeTypeIndexAllocation     AttributeType = 0xA0
	AttributeTypeBitmap              AttributeType = 0xB0
	AttributeTypeReparsePoint        AttributeType = 0xC0
	AttributeTypeEAInformation       AttributeType = 0xD0
	AttributeTypeEA                  AttributeType = 0xE0
	AttributeTypePropertySet         AttributeType = 0xF0
	AttributeTypeLoggedUtilityStream AttributeType = 0x100
	attributeTypeTerminator          AttributeType = 0xFFFFFFFF
)

// Name returns a human-readable name for at, e.g. "$STANDARD_INFORMATION", or "unknown" for an AttributeType this
// module does not recognize (such attributes still decode, as Raw).
func (at AttributeType) Name() string {
	switch at {
	case AttributeTypeStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttributeTypeAttributeList:
		return "$ATTRIBUTE_LIST"
	case AttributeTypeFileName:
		return "$FILE_NAME"
	case AttributeTypeObjectId:
		return "$OBJECT_ID"
	case AttributeTypeSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttributeTypeVolumeName:
		return "$VOLUME_NAME"
	case AttributeTypeVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttributeTypeData:
		return "$DATA"
	case AttributeTypeIndexRoot:
		return "$INDEX_ROOT"
	case AttributeTypeIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttributeTypeBitmap:
		return "$BITMAP"
	case AttributeTypeReparsePoint:
		return "$REPARSE_POINT"
	case AttributeTypeEAInformation:
		return "$EA_INFORMATION"
	case AttributeTypeEA:
		return "$EA"
	case AttributeTypePropertySet:
		return "$PROPERTY_SET"
	case AttributeTypeLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	}
	return "unknown"
}

// AttributeFlags is a bit mask of properties of an attribute's data. An encrypted, compressed attribute has value
// Compressed|Encrypted (0x4001).
type AttributeFlags uint16

const (
	AttributeFlagsCompressed AttributeFlags = 0x0001
	AttributeFlagsEncrypted  AttributeFlags = 0x4000
	AttributeFlagsSparse     AttributeFlags = 0x8000
)

// Is reports whether this AttributeFlags's bit mask contains every bit of c.
func (f AttributeFlags) Is(c AttributeFlags) bool {
	return f&c == c
}

// AttributeHeader is the decoded common preamble of an attribute plus its resident- or non-resident-specific fields
// (the ones not applicable to this attribute's residency are left zero).
type AttributeHeader struct {
	Type         AttributeType
	RecordLength uint32
	Resident     bool
	Name         string
	Flags        AttributeFlags
	AttributeId  uint16

	// Resident-only.
	ValueLength uint32
	ValueOffset uint16
	IndexedFlag bool

	// Non-resident-only.
	LowestVCN           uint64
	HighestVCN          uint64
	DataRunOffset       uint16
	CompressionUnitSize uint16
	AllocatedSize       uint64
	RealSize            uint64
	InitializedSize     uint64
}

// AttributeContent is the sealed set of possible decoded attribute payloads: StandardInformation, AttributeList,
// FileName, ObjectId, VolumeName, VolumeInformation, Data, IndexRoot, or the Raw fallback for any other type. Use a
// type switch to inspect it.
type AttributeContent interface {
	isAttributeContent()
}

// Attribute is one decoded attribute: its common header plus its typed content.
type Attribute struct {
	Header  AttributeHeader
	Content AttributeContent
}

// AttributeIterator lazily decodes the attributes of one Entry, in on-disk order. Obtain one from Entry.IterAttributes.
type AttributeIterator struct {
	data   []byte
	cursor int
	limit  int
	done   bool
}

// Next decodes and returns the next attribute. ok is false and err is nil once iteration has reached the end
// marker or the entry's declared real size; ok is false and err is non-nil if the attribute at the cursor is
// malformed, in which case the iterator is exhausted (previously returned attributes remain valid).
func (it *AttributeIterator) Next() (attr Attribute, ok bool, err error) {
	if it.done {
		return Attribute{}, false, nil
	}
	if it.cursor+8 > it.limit {
		it.done = true
		return Attribute{}, false, nil
	}

	typeCode := binary.LittleEndian.Uint32(it.data[it.cursor:])
	if AttributeType(typeCode) == attributeTypeTerminator {
		it.done = true
		return Attribute{}, false, nil
	}

	recordLength := binary.LittleEndian.Uint32(it.data[it.cursor+4:])
	if recordLength < 24 || recordLength%8 != 0 {
		it.done = true
		return Attribute{}, false, fmt.Errorf("mft: attribute at offset %d has invalid record length %d", it.cursor, recordLength)
	}
	if it.cursor+int(recordLength) > it.limit {
		it.done = true
		return Attribute{}, false, fmt.Errorf("mft: attribute at offset %d with record length %d exceeds entry real size %d", it.cursor, recordLength, it.limit)
	}

	raw := it.data[it.cursor : it.cursor+int(recordLength)]
	attr, err = parseAttribute(raw)
	if err != nil {
		it.done = true
		return Attribute{}, false, fmt.Errorf("mft: unable to decode attribute at offset %d: %w", it.cursor, err)
	}

	it.cursor += int(recordLength)
	return attr, true, nil
}

func parseAttribute(b []byte) (Attribute, error) {
	r := binutil.NewLittleEndianReader(b)

	header := AttributeHeader{
		Type:         AttributeType(r.Uint32(0x00)),
		RecordLength: r.Uint32(0x04),
		Resident:     r.Byte(0x08) == 0,
		Flags:        AttributeFlags(r.Uint16(0x0C)),
		AttributeId:  r.Uint16(0x0E),
	}

	nameLength := int(r.Byte(0x09))
	nameOffset := int(r.Uint16(0x0A))
	if nameLength != 0 {
		nameBytes, err := r.TryRead(nameOffset, nameLength*2)
		if err != nil {
			return Attribute{}, fmt.Errorf("unable to read attribute name: %w", err)
		}
		name, err := utf16.DecodeString(nameBytes, binary.LittleEndian)
		if err != nil {
			return Attribute{}, fmt.Errorf("unable to decode attribute name: %w", err)
		}
		header.Name = name
	}

	var payload []byte
	if header.Resident {
		header.ValueLength = r.Uint32(0x10)
		header.ValueOffset = r.Uint16(0x14)
		header.IndexedFlag = r.Byte(0x16) != 0
		data, err := r.TryRead(int(header.ValueOffset), int(header.ValueLength))
		if err != nil {
			return Attribute{}, fmt.Errorf("unable to read resident attribute value: %w", err)
		}
		payload = data
	} else {
		if len(b) < 0x40 {
			return Attribute{}, fmt.Errorf("non-resident attribute header needs at least %d bytes but got %d", 0x40, len(b))
		}
		header.LowestVCN = r.Uint64(0x10)
		header.HighestVCN = r.Uint64(0x18)
		header.DataRunOffset = r.Uint16(0x20)
		header.CompressionUnitSize = r.Uint16(0x22)
		header.AllocatedSize = r.Uint64(0x28)
		header.RealSize = r.Uint64(0x30)
		header.InitializedSize = r.Uint64(0x38)
		data, err := r.TryRead(int(header.DataRunOffset), len(b)-int(header.DataRunOffset))
		if err != nil {
			return Attribute{}, fmt.Errorf("unable to read data run stream: %w", err)
		}
		payload = data
	}

	content := decodeContent(header, payload)
	return Attribute{Header: header, Content: content}, nil
}

// decodeContent never returns an error: a typed decoder that cannot make sense of its payload degrades to Raw rather
// than aborting the whole attribute, per the "never read past declared payload length" contract.
func decodeContent(header AttributeHeader, payload []byte) AttributeContent {
	if !header.Resident {
		if header.Type == AttributeTypeData {
			return parseNonResidentData(header, payload)
		}
		return Raw{TypeCode: header.Type, Data: binutil.Duplicate(payload)}
	}

	switch header.Type {
	case AttributeTypeStandardInformation:
		if si, err := ParseStandardInformation(payload); err == nil {
			return si
		}
	case AttributeTypeAttributeList:
		if al, err := ParseAttributeList(payload); err == nil {
			return al
		}
	case AttributeTypeFileName:
		if fn, err := ParseFileName(payload); err == nil {
			return fn
		}
	case AttributeTypeObjectId:
		if oid, err := ParseObjectId(payload); err == nil {
			return oid
		}
	case AttributeTypeVolumeName:
		if vn, err := ParseVolumeName(payload); err == nil {
			return vn
		}
	case AttributeTypeVolumeInformation:
		if vi, err := ParseVolumeInformation(payload); err == nil {
			return vi
		}
	case AttributeTypeData:
		return Data{Resident: true, ResidentData: binutil.Duplicate(payload)}
	case AttributeTypeIndexRoot:
		if ir, err := ParseIndexRoot(payload); err == nil {
			return ir
		}
	}
	return Raw{TypeCode: header.Type, Data: binutil.Duplicate(payload)}
}
