package model

import (
	"fmt"
	"strings"

	"github.com/netvis-dev/eqvm/vm"
)

// CellSpec is one entry of an equation's code listing. Exactly one field
// may be set.
type CellSpec struct {
	Op     string    `toml:"op,omitempty" yaml:"op,omitempty"`
	Float  *float64  `toml:"float,omitempty" yaml:"float,omitempty"`
	Int    *int64    `toml:"int,omitempty" yaml:"int,omitempty"`
	Bool   *bool     `toml:"bool,omitempty" yaml:"bool,omitempty"`
	Str    *string   `toml:"str,omitempty" yaml:"str,omitempty"`
	Name   *string   `toml:"name,omitempty" yaml:"name,omitempty"`
	Floats []float64 `toml:"floats,omitempty" yaml:"floats,omitempty"`
	Ints   []int64   `toml:"ints,omitempty" yaml:"ints,omitempty"`
	Bools  []bool    `toml:"bools,omitempty" yaml:"bools,omitempty"`
	Strs   []string  `toml:"strs,omitempty" yaml:"strs,omitempty"`
	Fn     string    `toml:"fn,omitempty" yaml:"fn,omitempty"`
	Count  *int      `toml:"count,omitempty" yaml:"count,omitempty"`
}

func (c CellSpec) Cell(reg *vm.Registry) (vm.Cell, error) {
	var out []vm.Cell
	if c.Op != "" {
		op, ok := vm.ParseOpcode(strings.ToUpper(c.Op))
		if !ok {
			return nil, fmt.Errorf("unknown opcode %q", c.Op)
		}
		out = append(out, op)
	}
	if c.Float != nil {
		out = append(out, vm.FloatValue(*c.Float))
	}
	if c.Int != nil {
		out = append(out, vm.IntValue(*c.Int))
	}
	if c.Bool != nil {
		out = append(out, vm.BoolValue(*c.Bool))
	}
	if c.Str != nil {
		out = append(out, vm.StrValue(*c.Str))
	}
	if c.Name != nil {
		out = append(out, vm.StrValue(*c.Name))
	}
	if c.Floats != nil {
		out = append(out, vm.FloatListValue(c.Floats))
	}
	if c.Ints != nil {
		out = append(out, vm.IntListValue(c.Ints))
	}
	if c.Bools != nil {
		out = append(out, vm.BoolListValue(c.Bools))
	}
	if c.Strs != nil {
		out = append(out, vm.StrListValue(c.Strs))
	}
	if c.Fn != "" {
		fn, ok := reg.Lookup(c.Fn)
		if !ok {
			return nil, fmt.Errorf("unknown function %q", c.Fn)
		}
		out = append(out, vm.FuncHandle{Fn: fn})
	}
	if c.Count != nil {
		out = append(out, vm.ArgCount(*c.Count))
	}
	switch len(out) {
	case 0:
		return nil, fmt.Errorf("empty cell")
	case 1:
		return out[0], nil
	}
	return nil, fmt.Errorf("cell sets %d fields, expected exactly one", len(out))
}

// BuildProgram turns a code listing into a Program.
func (e EquationSpec) BuildProgram(reg *vm.Registry) (*vm.Program, error) {
	cells := make([]vm.Cell, len(e.Code))
	for i, cs := range e.Code {
		c, err := cs.Cell(reg)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cells[i] = c
	}
	return vm.NewProgram(cells, e.Locations)
}
