package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/omerbenamram/mft/mft"
)

// outputRecord is the stable, serializer-facing shape of one decoded entry: spec.md §6 requires the tagged union's
// field names to stay stable across versions, so this is deliberately a flat projection rather than a direct
// re-encoding of mft.Entry (whose unexported fields wouldn't marshal anyway).
type outputRecord struct {
	RecordNumber  uint64          `json:"record_number"`
	Sequence      uint16          `json:"sequence"`
	IsDirectory   bool            `json:"is_directory"`
	IsAllocated   bool            `json:"is_allocated"`
	ValidFixup    bool            `json:"valid_fixup"`
	BaseRecord    *uint64         `json:"base_record,omitempty"`
	FullPath      string          `json:"full_path,omitempty"`
	FileName      string          `json:"file_name,omitempty"`
	Created       *time.Time      `json:"created,omitempty"`
	Modified      *time.Time      `json:"modified,omitempty"`
	FileSize      *uint64         `json:"file_size,omitempty"`
	AttributeList []attributeInfo `json:"attributes"`
}

type attributeInfo struct {
	Type     string `json:"type"`
	Resident bool   `json:"resident"`
}

func toOutputRecord(entry mft.Entry, fullPath string, attrs []mft.Attribute) outputRecord {
	rec := outputRecord{
		RecordNumber: entry.RecordNumber,
		Sequence:     entry.FileReference.SequenceNumber,
		IsDirectory:  entry.IsDirectory(),
		IsAllocated:  entry.IsAllocated(),
		ValidFixup:   entry.ValidFixup,
		FullPath:     fullPath,
	}
	if entry.IsExtensionRecord() {
		base := entry.BaseRecordReference.RecordNumber
		rec.BaseRecord = &base
	}

	for _, attr := range attrs {
		rec.AttributeList = append(rec.AttributeList, attributeInfo{
			Type:     attr.Header.Type.Name(),
			Resident: attr.Header.Resident,
		})

		switch content := attr.Content.(type) {
		case mft.FileName:
			if rec.FileName == "" {
				rec.FileName = content.Name
			}
		case mft.StandardInformation:
			created := content.Creation
			modified := content.FileLastModified
			rec.Created = &created
			rec.Modified = &modified
		case mft.Data:
			if attr.Header.AttributeId == 0 {
				var size uint64
				if content.Resident {
					size = uint64(len(content.ResidentData))
				} else {
					size = attr.Header.RealSize
				}
				rec.FileSize = &size
			}
		}
	}

	return rec
}

func writeJSON(w io.Writer, records []outputRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeJSONL(w io.Writer, records []outputRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, records []outputRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"record_number", "sequence", "is_directory", "is_allocated", "valid_fixup", "full_path", "file_name", "file_size"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		size := ""
		if rec.FileSize != nil {
			size = strconv.FormatUint(*rec.FileSize, 10)
		}
		row := []string{
			strconv.FormatUint(rec.RecordNumber, 10),
			strconv.FormatUint(uint64(rec.Sequence), 10),
			strconv.FormatBool(rec.IsDirectory),
			strconv.FormatBool(rec.IsAllocated),
			strconv.FormatBool(rec.ValidFixup),
			rec.FullPath,
			rec.FileName,
			size,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeRecords(w io.Writer, format string, records []outputRecord) error {
	switch format {
	case "json":
		return writeJSON(w, records)
	case "jsonl":
		return writeJSONL(w, records)
	case "csv":
		return writeCSV(w, records)
	default:
		return fmt.Errorf("unknown output format %q (want json, jsonl, or csv)", format)
	}
}
