package vm

import (
	"errors"
	"fmt"
	"io"
)

// A Cell is one slot of a Program: either an Opcode or an Operand that is
// pushed verbatim.
type Cell interface {
	isCell()
}

// An Operand is anything that can live on the operand stack: every Value,
// plus the two call-only cells FuncHandle and ArgCount.
type Operand interface {
	Cell
	isOperand()
}

// FuncHandle is a literal reference to a callable, consumed by CALL.
type FuncHandle struct {
	Fn Function
}

func (FuncHandle) isCell()    {}
func (FuncHandle) isOperand() {}

func (h FuncHandle) String() string {
	if h.Fn == nil {
		return "fn:<nil>"
	}
	return "fn:" + h.Fn.Name()
}

// ArgCount is the literal argument count that precedes a FuncHandle.
type ArgCount int

func (ArgCount) isCell()    {}
func (ArgCount) isOperand() {}

func (n ArgCount) String() string {
	return fmt.Sprintf("#%d", int(n))
}

var ErrEmptyProgram = errors.New("program has no cells")

// Program is an immutable, pre-compiled equation. The location table runs
// parallel to the cells and holds the source offset each cell came from.
type Program struct {
	code      []Cell
	locations []int
}

// NewProgram copies cells and locations into a Program. A nil locations
// slice means offsets are unknown and are reported as zero.
func NewProgram(cells []Cell, locations []int) (*Program, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyProgram
	}
	if locations == nil {
		locations = make([]int, len(cells))
	}
	if len(locations) != len(cells) {
		return nil, fmt.Errorf("location table has %d entries for %d cells", len(locations), len(cells))
	}
	for i, c := range cells {
		if c == nil {
			return nil, fmt.Errorf("cell %d is nil", i)
		}
		if v, ok := c.(Value); ok {
			if err := CheckText(v); err != nil {
				return nil, fmt.Errorf("cell %d: %w", i, err)
			}
		}
	}
	p := &Program{
		code:      make([]Cell, len(cells)),
		locations: make([]int, len(locations)),
	}
	copy(p.code, cells)
	copy(p.locations, locations)
	return p, nil
}

// MustProgram is NewProgram for fixtures.
func MustProgram(cells ...Cell) *Program {
	p, err := NewProgram(cells, nil)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.code)
}

func (p *Program) Cell(i int) Cell {
	return p.code[i]
}

func (p *Program) Location(i int) int {
	return p.locations[i]
}

// DebugPrint writes one line per cell: index, source offset and the cell.
func (p *Program) DebugPrint(w io.Writer) {
	for i, c := range p.code {
		fmt.Fprintf(w, "  %03d @%-4d %s\n", i, p.locations[i], CellString(c))
	}
}

// CellString renders a cell for listings and error messages.
func CellString(c Cell) string {
	switch v := c.(type) {
	case Opcode:
		return v.String()
	case StrValue:
		return fmt.Sprintf("PUSH %q", string(v))
	case Value:
		return fmt.Sprintf("PUSH %s:%s", v.Kind(), v.String())
	case FuncHandle:
		return "PUSH " + v.String()
	case ArgCount:
		return "PUSH " + v.String()
	}
	return fmt.Sprintf("%#v", c)
}
