package main

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/netvis-dev/eqvm/interp"
	"github.com/netvis-dev/eqvm/vm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace SHEET EQUATION",
	Short: "Evaluate one equation, printing the stack after every cell",
	Args:  cobra.ExactArgs(2),
	Run:   traceCommand,
}

func traceCommand(cmd *cobra.Command, args []string) {
	exec := loadExecutor(args[0])
	p, err := exec.Program(args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load equation")
	}
	in, err := interp.New(p, exec.Names)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't start interpreter")
	}
	in.Trace = func(pc int, c vm.Cell, stack []vm.Operand) {
		fmt.Printf("%03d %-22s %s\n", pc, vm.CellString(c), color.Gray.Sprint(stackString(stack)))
	}

	v, err := in.Run()
	if err != nil {
		fmt.Println(color.Red.Sprintf("Got err: %s", err))
		return
	}
	fmt.Println(color.Green.Sprintf("Finished: %s %s", v.Kind(), v))
}

func stackString(stack []vm.Operand) string {
	parts := make([]string, len(stack))
	for i, o := range stack {
		parts[i] = strings.TrimPrefix(vm.CellString(o), "PUSH ")
	}
	return "[" + strings.Join(parts, " ") + "]"
}
