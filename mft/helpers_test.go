package mft_test

import (
	"encoding/binary"
	"unicode/utf16"
)

const testRecordSize = 1024
const testUsaOffset = 0x30
const testUsaSize = 3 // (testRecordSize/512)+1
const testFirstAttributeOffset = 0x38

// fileNameAttributeBytes builds a complete resident $FILE_NAME attribute (header + payload) and returns its bytes,
// padded to a total length that is a multiple of 8.
func fileNameAttributeBytes(parentRecord uint32, parentSeq uint16, namespace byte, name string) []byte {
	units := utf16.Encode([]rune(name))
	nameBytes := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(nameBytes[i*2:], u)
	}

	const headerSize = 24
	const minPayload = 66
	payloadLen := minPayload + len(nameBytes)
	attrLen := headerSize + payloadLen
	if attrLen%8 != 0 {
		attrLen += 8 - attrLen%8
	}

	attr := make([]byte, attrLen)
	binary.LittleEndian.PutUint32(attr[0x00:], 0x30)
	binary.LittleEndian.PutUint32(attr[0x04:], uint32(attrLen))
	attr[0x08] = 0
	binary.LittleEndian.PutUint32(attr[0x10:], uint32(payloadLen))
	binary.LittleEndian.PutUint16(attr[0x14:], headerSize)

	payload := attr[headerSize:]
	binary.LittleEndian.PutUint64(payload[0x00:], uint64(parentRecord)|uint64(parentSeq)<<48)
	payload[0x40] = byte(len(units))
	payload[0x41] = namespace
	copy(payload[0x42:], nameBytes)

	return attr
}

// buildRecord assembles a minimal, well-formed fixed-size MFT record containing the given pre-built attribute
// bytes (packed back to back, in order), terminated implicitly by entry_size_real.
func buildRecord(recordNumber uint32, sequence uint16, attrs ...[]byte) []byte {
	b := make([]byte, testRecordSize)
	copy(b[0:4], "FILE")
	binary.LittleEndian.PutUint16(b[0x04:], testUsaOffset)
	binary.LittleEndian.PutUint16(b[0x06:], testUsaSize)
	binary.LittleEndian.PutUint16(b[0x10:], sequence)
	binary.LittleEndian.PutUint16(b[0x12:], 1)
	binary.LittleEndian.PutUint16(b[0x14:], testFirstAttributeOffset)
	binary.LittleEndian.PutUint16(b[0x16:], 0x0001)
	binary.LittleEndian.PutUint32(b[0x2C:], recordNumber)

	cursor := testFirstAttributeOffset
	for _, attr := range attrs {
		copy(b[cursor:], attr)
		cursor += len(attr)
	}

	binary.LittleEndian.PutUint32(b[0x18:], uint32(cursor))
	binary.LittleEndian.PutUint32(b[0x1C:], testRecordSize)

	return b
}
