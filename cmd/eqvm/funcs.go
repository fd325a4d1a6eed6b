package main

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/netvis-dev/eqvm/vm"
	"github.com/spf13/cobra"
)

var funcsCmd = &cobra.Command{
	Use:   "funcs",
	Short: "List the functions equations may call",
	Run: func(cmd *cobra.Command, args []string) {
		reg := vm.DefaultRegistry()
		for _, name := range reg.Names() {
			fn, _ := reg.Lookup(name)
			typed, ok := fn.(vm.TypedFunction)
			if !ok {
				fmt.Println(color.Bold.Sprint(name))
				continue
			}
			for _, sig := range vm.Signature(typed) {
				fmt.Println(color.Bold.Sprint(sig))
			}
		}
	},
}
