package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omerbenamram/mft/mft"
	"github.com/omerbenamram/mft/parser"
)

func newListCommand() *cobra.Command {
	var format string
	var rangeSpec string
	var cacheCapacity int

	cmd := &cobra.Command{
		Use:   "list <mft-image>",
		Short: "Decode every entry of a dumped MFT image and print it in the chosen format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseRange(rangeSpec)
			if err != nil {
				return err
			}
			return runList(args[0], format, start, end, cacheCapacity)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "jsonl", "output format: json, jsonl, or csv")
	cmd.Flags().StringVarP(&rangeSpec, "range", "r", "", "entry range to list, e.g. 0..1000 (default: all)")
	cmd.Flags().IntVar(&cacheCapacity, "path-cache-capacity", parser.DefaultPathCacheCapacity, "path resolver LRU cache capacity")
	return cmd
}

// parseRange parses a "start..end" range spec into [start, end) bounds. An empty spec means "no bound" on that
// side; end == 0 with no spec given means unbounded.
func parseRange(spec string) (start, end uint64, err error) {
	if spec == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(spec, "..", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q (want start..end)", spec)
	}
	if parts[0] != "" {
		start, err = strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range start %q: %w", parts[0], err)
		}
	}
	if parts[1] != "" {
		end, err = strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range end %q: %w", parts[1], err)
		}
	}
	return start, end, nil
}

func runList(imagePath, format string, start, end uint64, cacheCapacity int) error {
	p, err := parser.Open(imagePath, parser.WithPathCacheCapacity(cacheCapacity))
	if err != nil {
		return fmt.Errorf("unable to open MFT image: %w", err)
	}
	defer p.Close()

	records := make([]outputRecord, 0)
	count, known := p.EntryCount()
	if known {
		log.Debug().Uint64("entries", count).Msg("opened MFT image")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for indexed := range p.IterEntries(ctx) {
		if indexed.Index < start {
			continue
		}
		if end != 0 && indexed.Index >= end {
			break
		}

		if indexed.Err != nil {
			if errors.Is(indexed.Err, mft.ErrZeroedEntry) || errors.Is(indexed.Err, mft.ErrNotAnMftEntry) {
				continue
			}
			log.Warn().Uint64("index", indexed.Index).Err(indexed.Err).Msg("skipping entry")
			continue
		}

		attrs, err := mergedAttributes(p, indexed.Entry)
		if err != nil {
			log.Warn().Uint64("index", indexed.Index).Err(err).Msg("partial attribute merge")
		}

		fullPath, err := p.GetFullPath(indexed.Entry)
		if err != nil {
			log.Debug().Uint64("index", indexed.Index).Err(err).Msg("unable to resolve path")
		}

		records = append(records, toOutputRecord(indexed.Entry, fullPath, attrs))
	}

	return writeRecords(os.Stdout, format, records)
}
