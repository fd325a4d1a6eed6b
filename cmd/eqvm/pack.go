package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack SHEET OUTFILE",
	Short: "Compile a sheet and write its programs in msgpack form",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		exec := loadExecutor(args[0])
		f, err := os.Create(args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't create output file")
		}
		if err := exec.Pack(f); err != nil {
			f.Close()
			log.Fatal().Err(err).Msg("Couldn't pack sheet")
		}
		if err := f.Close(); err != nil {
			log.Fatal().Err(err).Msg("Couldn't write output file")
		}
		log.Info().Int("equations", len(exec.Hashes)).Int("programs", exec.Store.Len()).Str("out", args[1]).Msg("packed sheet")
	},
}
