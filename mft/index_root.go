package mft

import (
	"fmt"

	"github.com/omerbenamram/mft/binutil"
)

// CollationType identifies the sort order NTFS uses to keep an index's entries ordered, as declared in its
// $INDEX_ROOT attribute. CollationFilename is what every directory index uses.
type CollationType uint32

const (
	CollationBinary        CollationType = 0x00
	CollationFilename      CollationType = 0x01
	CollationUnicodeString CollationType = 0x02
	CollationNtofsULong    CollationType = 0x10
	CollationNtofsSID      CollationType = 0x11
	CollationNtofsSecurity CollationType = 0x12
	CollationNtofsSDH      CollationType = 0x13
)

const indexRootMinSize = 32

// IndexRoot is the decoded preamble of an $INDEX_ROOT attribute: the indexed attribute type, collation rule, index
// allocation sizing, and the index header that describes the entry list immediately following it. The entries
// themselves (B+ tree node content) are left undecoded: walking them requires following $INDEX_ALLOCATION's
// non-resident runs for any index too large to stay resident, which is out of scope for this decoder.
type IndexRoot struct {
	IndexedAttributeType   AttributeType
	Collation              CollationType
	IndexAllocationSize    uint32
	ClustersPerIndexRecord byte

	// EntriesOffset is the offset, relative to the start of the index header (0x10), of the first index entry.
	EntriesOffset uint32
	// TotalEntrySize is the total size, in bytes, of the index entries starting at EntriesOffset.
	TotalEntrySize uint32
	// AllocatedEntrySize is the size, in bytes, allocated for the index entries (TotalEntrySize plus free space).
	AllocatedEntrySize uint32
	// IndexHeaderFlags is 0x01 when the index has child nodes in $INDEX_ALLOCATION, 0x00 when it is a small index
	// fully contained within $INDEX_ROOT.
	IndexHeaderFlags uint32
}

func (IndexRoot) isAttributeContent() {}

// ParseIndexRoot decodes an $INDEX_ROOT payload's fixed 16-byte prelude plus its 16-byte index header.
func ParseIndexRoot(b []byte) (IndexRoot, error) {
	if len(b) < indexRootMinSize {
		return IndexRoot{}, fmt.Errorf("expected at least %d bytes but got %d", indexRootMinSize, len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	return IndexRoot{
		IndexedAttributeType:   AttributeType(r.Uint32(0x00)),
		Collation:              CollationType(r.Uint32(0x04)),
		IndexAllocationSize:    r.Uint32(0x08),
		ClustersPerIndexRecord: r.Byte(0x0C),
		EntriesOffset:          r.Uint32(0x10),
		TotalEntrySize:         r.Uint32(0x14),
		AllocatedEntrySize:     r.Uint32(0x18),
		IndexHeaderFlags:       r.Uint32(0x1C),
	}, nil
}
