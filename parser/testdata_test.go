package parser_test

import (
	"encoding/binary"
	"unicode/utf16"
)

const recordSize = 1024
const usaOffset = 0x30
const usaSize = 3 // (recordSize/512)+1
const firstAttributeOffset = 0x38

// buildEntry assembles a minimal, well-formed 1024-byte MFT record containing a single resident $FILE_NAME
// attribute, for driving the parser package's tests without needing a real MFT image on disk.
func buildEntry(recordNumber uint32, sequence uint16, parentRecord uint32, parentSeq uint16, name string) []byte {
	b := make([]byte, recordSize)
	copy(b[0:4], "FILE")
	binary.LittleEndian.PutUint16(b[0x04:], usaOffset)
	binary.LittleEndian.PutUint16(b[0x06:], usaSize)
	binary.LittleEndian.PutUint16(b[0x10:], sequence)
	binary.LittleEndian.PutUint16(b[0x12:], 1) // hard link count
	binary.LittleEndian.PutUint16(b[0x14:], firstAttributeOffset)
	binary.LittleEndian.PutUint16(b[0x16:], 0x0001) // RecordFlagInUse
	binary.LittleEndian.PutUint32(b[0x2C:], recordNumber)

	units := utf16.Encode([]rune(name))
	nameBytes := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(nameBytes[i*2:], u)
	}

	const fileNameHeaderSize = 24
	const fileNameMinPayload = 66
	payloadLen := fileNameMinPayload + len(nameBytes)
	attrLen := fileNameHeaderSize + payloadLen
	if attrLen%8 != 0 {
		attrLen += 8 - attrLen%8
	}

	attr := b[firstAttributeOffset : firstAttributeOffset+attrLen]
	binary.LittleEndian.PutUint32(attr[0x00:], 0x30) // $FILE_NAME
	binary.LittleEndian.PutUint32(attr[0x04:], uint32(attrLen))
	attr[0x08] = 0 // resident
	binary.LittleEndian.PutUint32(attr[0x10:], uint32(payloadLen))
	binary.LittleEndian.PutUint16(attr[0x14:], fileNameHeaderSize)

	payload := attr[fileNameHeaderSize:]
	binary.LittleEndian.PutUint64(payload[0x00:], uint64(parentRecord)|uint64(parentSeq)<<48)
	payload[0x40] = byte(len(units))
	payload[0x41] = 1 // Win32 namespace
	copy(payload[0x42:], nameBytes)

	actualSize := firstAttributeOffset + attrLen
	binary.LittleEndian.PutUint32(b[0x18:], uint32(actualSize))
	binary.LittleEndian.PutUint32(b[0x1C:], recordSize)

	return b
}
