package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omerbenamram/mft/bootsect"
	"github.com/omerbenamram/mft/extract"
	"github.com/omerbenamram/mft/fragment"
	"github.com/omerbenamram/mft/mft"
)

const supportedOemId = "NTFS    "

func newDumpCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "dump <volume> <outfile>",
		Short: "Locate the $MFT on an NTFS volume and copy its raw record stream to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0], args[1], force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the output file if it already exists")
	return cmd
}

func runDump(volume, outfile string, force bool) error {
	volumePath := volume
	if isWin {
		volumePath = `\\.\` + volumePath
	}

	in, err := os.Open(volumePath)
	if err != nil {
		return fmt.Errorf("unable to open volume %s: %w", volumePath, err)
	}
	defer in.Close()

	log.Debug().Msg("reading boot sector")
	bootSectorData := make([]byte, 512)
	if _, err := io.ReadFull(in, bootSectorData); err != nil {
		return fmt.Errorf("unable to read boot sector: %w", err)
	}

	bootSector, err := bootsect.Parse(bootSectorData)
	if err != nil {
		return fmt.Errorf("unable to parse boot sector: %w", err)
	}
	if bootSector.OemId != supportedOemId {
		return fmt.Errorf("unsupported file system %q (expected %q)", bootSector.OemId, supportedOemId)
	}

	bytesPerCluster := bootSector.BytesPerSector * bootSector.SectorsPerCluster
	mftPosInBytes := int64(bootSector.MftClusterNumber) * int64(bytesPerCluster)
	if _, err := in.Seek(mftPosInBytes, io.SeekStart); err != nil {
		return fmt.Errorf("unable to seek to $MFT position: %w", err)
	}

	mftSizeInBytes := bootSector.FileRecordSegmentSizeInBytes
	log.Debug().Int64("offset", mftPosInBytes).Int("size", mftSizeInBytes).Msg("reading $MFT record")
	mftData := make([]byte, mftSizeInBytes)
	if _, err := io.ReadFull(in, mftData); err != nil {
		return fmt.Errorf("unable to read $MFT record: %w", err)
	}

	entry, err := mft.ParseEntry(mftData, 0)
	if err != nil {
		return fmt.Errorf("unable to parse $MFT record: %w", err)
	}

	dataAttrs, err := entry.FindAttributes(mft.AttributeTypeData)
	if err != nil {
		return fmt.Errorf("unable to decode $DATA attribute of $MFT record: %w", err)
	}
	if len(dataAttrs) != 1 {
		return fmt.Errorf("expected exactly 1 $DATA attribute on the $MFT record but found %d", len(dataAttrs))
	}

	data, ok := dataAttrs[0].Content.(mft.Data)
	if !ok || data.Resident {
		return fmt.Errorf("$MFT record's $DATA attribute is resident or undecodable; this tool only handles non-resident $MFT")
	}

	fragments := extract.DataRunsToFragments(data.Runs, bytesPerCluster)
	if len(fragments) == 0 {
		return fmt.Errorf("no non-sparse dataruns found in $MFT $DATA record")
	}

	var totalLength int64
	for _, frag := range fragments {
		totalLength += frag.Length
	}

	out, err := openOutputFile(outfile, force)
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer out.Close()

	log.Info().Str("size", humanize.Bytes(uint64(totalLength))).Str("dest", outfile).Msg("copying $MFT data")
	n, err := io.Copy(out, fragment.NewReader(in, fragments))
	if err != nil {
		return fmt.Errorf("error copying $MFT data to output file: %w", err)
	}
	if n != totalLength {
		return fmt.Errorf("expected to copy %d bytes but copied %d", totalLength, n)
	}

	log.Info().Msg("done")
	return nil
}

func openOutputFile(outfile string, force bool) (*os.File, error) {
	if force {
		return os.Create(outfile)
	}
	return os.OpenFile(outfile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
}
