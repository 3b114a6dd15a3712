// Command mftdump drives the mft/parser/extract packages: it can pull the raw $MFT record stream off a live NTFS
// volume, list the entries of a dumped MFT image in a structured format, and resolve an entry's full path.
package main

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const isWin = runtime.GOOS == "windows"

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "mftdump",
		Short:         "Dump, list, and resolve paths in an NTFS Master File Table",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
				Level(level).
				With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDumpCommand())
	root.AddCommand(newListCommand())
	root.AddCommand(newPathCommand())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("mftdump failed")
		os.Exit(1)
	}
}
