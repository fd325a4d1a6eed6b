package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/gookit/color"
	"github.com/netvis-dev/eqvm/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	workersFlag   int
	cacheSizeFlag int
	formatFlag    string
	progressFlag  bool
)

var runCmd = &cobra.Command{
	Use:   "run SHEET",
	Short: "Evaluate every equation in a sheet",
	Args:  cobra.ExactArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of evaluation workers (default: sheet setting, then CPU count)")
	runCmd.Flags().IntVar(&cacheSizeFlag, "cache-size", 0, "Number of decoded programs kept in the LRU cache (default: sheet setting, then 1000)")
	runCmd.Flags().StringVar(&formatFlag, "format", "text", "Output format (text, json)")
	runCmd.Flags().BoolVar(&progressFlag, "progress", false, "Print each equation to stderr as it is evaluated")
}

func runCommand(cmd *cobra.Command, args []string) {
	if formatFlag != "text" && formatFlag != "json" {
		log.Fatal().Str("format", formatFlag).Msg("Unknown output format")
	}
	sheet, err := model.LoadSheetFromFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load sheet")
	}
	opts := model.Options{
		Workers:   workersFlag,
		CacheSize: cacheSizeFlag,
	}
	if progressFlag {
		opts.Reporter = &model.ColorReporter{Writer: os.Stderr}
	}
	exec, err := sheet.BuildExecutor(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build executor for sheet")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if formatFlag == "text" {
		fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Evaluating %d equations...", len(sheet.Equations)))
	}
	report, err := exec.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error during evaluation")
	}

	switch formatFlag {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal().Err(err).Msg("can't serialize report")
		}
	default:
		fmt.Print(model.FormatResults(report))
		fmt.Fprint(os.Stderr, model.FormatStatistics(report.Statistics))
		if report.Success() {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, color.Green.Sprint("✓ All equations evaluated as expected"))
		}
	}
	if !report.Success() {
		os.Exit(1)
	}
}
