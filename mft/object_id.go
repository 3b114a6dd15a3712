package mft

import (
	"fmt"

	"github.com/google/uuid"
)

const objectIdMinSize = 16

// ObjectId is the decoded content of an $OBJECT_ID attribute: a GUID identifying the file across renames and moves,
// plus up to three optional "birth" GUIDs recorded by the distributed link tracking service when the file's object
// id was first assigned. Volumes formatted by older NTFS versions, or files that predate link tracking, omit the
// birth fields; BirthVolumeId, BirthObjectId and BirthDomainId are then the zero UUID.
type ObjectId struct {
	ObjectId       uuid.UUID
	BirthVolumeId  uuid.UUID
	BirthObjectId  uuid.UUID
	BirthDomainId  uuid.UUID
	HasBirthFields bool
}

func (ObjectId) isAttributeContent() {}

// ParseObjectId decodes an $OBJECT_ID payload. Only the leading 16-byte ObjectId GUID is mandatory; the three birth
// GUIDs are present only when the payload is at least 64 bytes long.
func ParseObjectId(b []byte) (ObjectId, error) {
	if len(b) < objectIdMinSize {
		return ObjectId{}, fmt.Errorf("expected at least %d bytes but got %d", objectIdMinSize, len(b))
	}

	id, err := uuid.FromBytes(toMixedEndian(b[0:16]))
	if err != nil {
		return ObjectId{}, fmt.Errorf("unable to parse object id: %w", err)
	}

	oid := ObjectId{ObjectId: id}
	if len(b) >= 64 {
		birthVolume, err := uuid.FromBytes(toMixedEndian(b[16:32]))
		if err != nil {
			return ObjectId{}, fmt.Errorf("unable to parse birth volume id: %w", err)
		}
		birthObject, err := uuid.FromBytes(toMixedEndian(b[32:48]))
		if err != nil {
			return ObjectId{}, fmt.Errorf("unable to parse birth object id: %w", err)
		}
		birthDomain, err := uuid.FromBytes(toMixedEndian(b[48:64]))
		if err != nil {
			return ObjectId{}, fmt.Errorf("unable to parse birth domain id: %w", err)
		}
		oid.HasBirthFields = true
		oid.BirthVolumeId = birthVolume
		oid.BirthObjectId = birthObject
		oid.BirthDomainId = birthDomain
	}

	return oid, nil
}

// toMixedEndian rearranges a 16-byte Windows GUID (little-endian Data1/Data2/Data3, big-endian Data4) into the
// big-endian byte order uuid.FromBytes expects.
func toMixedEndian(b []byte) []byte {
	out := make([]byte, 16)
	out[0], out[1], out[2], out[3] = b[3], b[2], b[1], b[0]
	out[4], out[5] = b[5], b[4]
	out[6], out[7] = b[7], b[6]
	copy(out[8:], b[8:16])
	return out
}
