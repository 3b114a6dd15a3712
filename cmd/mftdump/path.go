package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/omerbenamram/mft/parser"
)

func newPathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path <mft-image> <record-number>",
		Short: "Resolve one entry's full path in a dumped MFT image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordNumber, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record number %q: %w", args[1], err)
			}
			return runPath(args[0], recordNumber)
		},
	}
	return cmd
}

func runPath(imagePath string, recordNumber uint64) error {
	p, err := parser.Open(imagePath)
	if err != nil {
		return fmt.Errorf("unable to open MFT image: %w", err)
	}
	defer p.Close()

	entry, err := p.ReadEntry(recordNumber)
	if err != nil {
		return fmt.Errorf("unable to read entry %d: %w", recordNumber, err)
	}

	path, err := p.GetFullPath(entry)
	if err != nil {
		return fmt.Errorf("unable to resolve path for entry %d: %w", recordNumber, err)
	}

	fmt.Println(path)
	return nil
}
