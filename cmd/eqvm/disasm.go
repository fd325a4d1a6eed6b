package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/netvis-dev/eqvm/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm SHEET [EQUATION...]",
	Short: "Print the compiled cells of equations",
	Args:  cobra.MinimumNArgs(1),
	Run:   disasmCommand,
}

func disasmCommand(cmd *cobra.Command, args []string) {
	exec := loadExecutor(args[0])
	names := args[1:]
	if len(names) == 0 {
		names = exec.Sheet.Names()
	}
	for _, name := range names {
		p, err := exec.Program(name)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't load equation")
		}
		fmt.Println(color.Bold.Sprintf("%s", name) + color.Gray.Sprintf("  [%s]", exec.Hashes[name]))
		if src := exec.Sheet.Equations[name].Source; src != "" {
			fmt.Println(color.Gray.Sprintf("  # %s", src))
		}
		p.DebugPrint(os.Stdout)
	}
}

// loadExecutor loads a sheet and compiles it on a single worker.
func loadExecutor(path string) *model.Executor {
	sheet, err := model.LoadSheetFromFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load sheet")
	}
	exec, err := sheet.BuildExecutor(model.Options{Workers: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build executor for sheet")
	}
	return exec
}
