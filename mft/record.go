package mft

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/omerbenamram/mft/binutil"
	"github.com/omerbenamram/mft/fileref"
	"github.com/omerbenamram/mft/fixup"
)

var (
	signatureFile = []byte{'F', 'I', 'L', 'E'}
	signatureBaad = []byte{'B', 'A', 'A', 'D'}
)

// minRecordHeaderSize is the size of the fixed portion of the record header, up to and including the 32-bit record
// number at 0x2C; ParseEntry needs at least this much data before it can even locate the fixup and attribute data.
const minRecordHeaderSize = 0x30

// ErrZeroedEntry is returned by ParseEntry when the record buffer consists entirely of zero bytes, which NTFS uses to
// mark an MFT slot that has never held an entry. Not a decode failure: the caller should skip the record.
var ErrZeroedEntry = errors.New("mft: record is all zeroes")

// ErrNotAnMftEntry is returned by ParseEntry when the record's first four bytes are neither "FILE" nor "BAAD". The
// façade treats this as fatal only for the very first record of a volume image; elsewhere it is a per-entry skip.
var ErrNotAnMftEntry = errors.New("mft: record signature is not FILE or BAAD")

// RecordFlag is a bit mask describing the status of an MFT record.
type RecordFlag uint16

// Bit values for RecordFlag. An in-use directory has value InUse|IsDirectory (0x0003).
const (
	RecordFlagInUse       RecordFlag = 0x0001
	RecordFlagIsDirectory RecordFlag = 0x0002
	RecordFlagInExtend    RecordFlag = 0x0004
	RecordFlagIsIndex     RecordFlag = 0x0008
)

// Is reports whether this RecordFlag's bit mask contains every bit of c.
func (f RecordFlag) Is(c RecordFlag) bool {
	return f&c == c
}

// Entry represents one decoded MFT record. When Damaged is false and Signature is "FILE", the record is a normal
// entry; when the signature was "BAAD" the record is flagged damaged by NTFS itself but is still decoded
// best-effort. BaseRecordReference is zero for a base record; non-zero identifies the base record this entry extends.
type Entry struct {
	Signature             []byte
	Damaged               bool
	FileReference         fileref.Reference
	BaseRecordReference   fileref.Reference
	LogFileSequenceNumber uint64
	HardLinkCount         int
	Flags                 RecordFlag
	ActualSize            uint32
	AllocatedSize         uint32
	NextAttributeId       int
	RecordNumber          uint64
	ValidFixup            bool

	data                  []byte
	firstAttributeOffset  int
}

// IsDirectory reports whether this entry's flags mark it as a directory.
func (e *Entry) IsDirectory() bool {
	return e.Flags.Is(RecordFlagIsDirectory)
}

// IsAllocated reports whether this entry is currently in use (as opposed to a deleted entry whose slot has not yet
// been reused).
func (e *Entry) IsAllocated() bool {
	return e.Flags.Is(RecordFlagInUse)
}

// IsExtensionRecord reports whether this entry is an extension of another, base record.
func (e *Entry) IsExtensionRecord() bool {
	return !e.BaseRecordReference.IsZero()
}

// ParseEntry parses one fixed-size MFT record. b is assumed to be exactly one record (the caller is responsible for
// framing records at the configured record size); it is duplicated internally before the fixup is applied, so the
// caller's slice is never mutated. recordNumberHint is substituted for the header's own record number field when
// that field is zero, as happens in records written before NTFS tracked it.
//
// ParseEntry returns ErrZeroedEntry for an all-zero record and ErrNotAnMftEntry when the signature is neither "FILE"
// nor "BAAD"; callers distinguish these from hard decode errors with errors.Is. Any other error indicates the header
// itself is structurally inconsistent (offsets that don't fit the record) and no Entry is produced.
func ParseEntry(b []byte, recordNumberHint uint64) (Entry, error) {
	if binutil.IsOnlyZeroes(b) {
		return Entry{}, ErrZeroedEntry
	}
	if len(b) < minRecordHeaderSize {
		return Entry{}, fmt.Errorf("mft: record data length should be at least %d but is %d", minRecordHeaderSize, len(b))
	}

	sig := b[:4]
	damaged := bytes.Equal(sig, signatureBaad)
	if !damaged && !bytes.Equal(sig, signatureFile) {
		return Entry{}, ErrNotAnMftEntry
	}

	b = binutil.Duplicate(b)
	r := binutil.NewLittleEndianReader(b)

	usaOffset := int(r.Uint16(0x04))
	usaSize := int(r.Uint16(0x06))
	firstAttributeOffset := int(r.Uint16(0x14))
	actualSize := r.Uint32(0x18)
	allocatedSize := r.Uint32(0x1C)

	if firstAttributeOffset < minRecordHeaderSize || firstAttributeOffset >= len(b) {
		return Entry{}, fmt.Errorf("mft: invalid first attribute offset %d (data length: %d)", firstAttributeOffset, len(b))
	}
	if usaOffset+2*usaSize > firstAttributeOffset {
		return Entry{}, fmt.Errorf("mft: update sequence array (offset %d, size %d) overlaps attribute data at %d", usaOffset, usaSize, firstAttributeOffset)
	}

	validFixup, err := fixup.Apply(b, usaOffset, usaSize)
	if err != nil {
		return Entry{}, fmt.Errorf("mft: unable to apply fixup: %w", err)
	}

	baseRecordRef, err := fileref.Parse(r.Read(0x20, 8))
	if err != nil {
		return Entry{}, fmt.Errorf("mft: unable to parse base record reference: %w", err)
	}

	recordNumber := uint64(r.Uint32(0x2C))
	if recordNumber == 0 {
		recordNumber = recordNumberHint
	}

	actualSizeInt := int(actualSize)
	if actualSizeInt < firstAttributeOffset || actualSizeInt > len(b) || actualSize > allocatedSize {
		return Entry{}, fmt.Errorf("mft: inconsistent record sizes: real=%d allocated=%d first_attribute_offset=%d buffer=%d", actualSize, allocatedSize, firstAttributeOffset, len(b))
	}

	return Entry{
		Signature:             binutil.Duplicate(sig),
		Damaged:               damaged,
		FileReference:         fileref.Reference{RecordNumber: recordNumber, SequenceNumber: r.Uint16(0x10)},
		BaseRecordReference:   baseRecordRef,
		LogFileSequenceNumber: r.Uint64(0x08),
		HardLinkCount:         int(r.Uint16(0x12)),
		Flags:                 RecordFlag(r.Uint16(0x16)),
		ActualSize:            actualSize,
		AllocatedSize:         allocatedSize,
		NextAttributeId:       int(r.Uint16(0x28)),
		RecordNumber:          recordNumber,
		ValidFixup:            validFixup,
		data:                  b,
		firstAttributeOffset:  firstAttributeOffset,
	}, nil
}

// IterAttributes returns a lazy iterator over this entry's attributes, positioned at the first attribute. Attributes
// are decoded one at a time as Next is called, in their on-disk order; a malformed attribute terminates the
// iteration without affecting attributes already returned.
func (e *Entry) IterAttributes() *AttributeIterator {
	return &AttributeIterator{data: e.data, cursor: e.firstAttributeOffset, limit: int(e.ActualSize)}
}

// Attributes drains IterAttributes into a slice. When a decode error is encountered partway through, the attributes
// successfully decoded before it are returned alongside the error.
func (e *Entry) Attributes() ([]Attribute, error) {
	it := e.IterAttributes()
	attrs := make([]Attribute, 0)
	for {
		attr, ok, err := it.Next()
		if err != nil {
			return attrs, err
		}
		if !ok {
			return attrs, nil
		}
		attrs = append(attrs, attr)
	}
}

// FindAttributes decodes and returns every attribute of the given type on this entry. A decode error occurring after
// the last matching attribute does not affect the result; one occurring before it is reported.
func (e *Entry) FindAttributes(attrType AttributeType) ([]Attribute, error) {
	matches := make([]Attribute, 0)
	it := e.IterAttributes()
	for {
		attr, ok, err := it.Next()
		if err != nil {
			return matches, err
		}
		if !ok {
			return matches, nil
		}
		if attr.Header.Type == attrType {
			matches = append(matches, attr)
		}
	}
}
