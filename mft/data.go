package mft

// Data is the decoded content of a $DATA attribute (or any other attribute typed $DATA-like by convention; NTFS
// always uses 0x80 for file content). A resident $DATA carries its bytes inline; a non-resident one carries a
// decoded run list describing where its clusters live. RunsComplete is false when the non-resident run list's total
// length does not cover [lowest_vcn, highest_vcn] — see ParseDataRuns — in which case Runs still holds whatever was
// decoded before the mismatch was detected.
type Data struct {
	Resident     bool
	ResidentData []byte
	Runs         []DataRun
	RunsComplete bool
}

func (Data) isAttributeContent() {}

func parseNonResidentData(header AttributeHeader, payload []byte) Data {
	runs, err := ParseDataRuns(payload)
	expectedLength := header.HighestVCN - header.LowestVCN + 1
	return Data{
		Resident:     false,
		Runs:         runs,
		RunsComplete: err == nil && totalLength(runs) == expectedLength,
	}
}
