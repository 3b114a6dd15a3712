/*
Package mft decodes records and attributes of an NTFS Master File Table ("MFT" for short).

Basic usage

ParseEntry decodes one fixed-size MFT record (applying its fixup first) into an Entry, whose lazily-decoded
attributes are available via Attributes or IterAttributes:

	entry, err := mft.ParseEntry(recordBytes, recordNumberHint)
	names, err := entry.FindAttributes(mft.AttributeTypeFileName)

Higher-level operations — opening a volume image, iterating every entry, resolving full paths — live in the sibling
parser package, which is built on top of this one.
*/
package mft

import "time"

// reallyStrangeEpoch is January 1, 1601 UTC, the epoch FILETIME values are counted from.
var reallyStrangeEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// ConvertFileTime converts a Windows FILETIME (a count of 100-nanosecond intervals since 1601-01-01 UTC) into a civil
// time.Time. FILETIME's native precision is 100ns; time.Time's is 1ns, so the conversion is exact.
func ConvertFileTime(timeValue uint64) time.Time {
	const ticksPerSecond = 10000000
	secs := reallyStrangeEpoch.Unix() + int64(timeValue/ticksPerSecond)
	nsecs := int64(timeValue%ticksPerSecond) * 100
	return time.Unix(secs, nsecs).UTC()
}
