package vm

import (
	"fmt"
	"io"

	"github.com/shamaton/msgpack/v2"
)

const codecVersion = 1

type cellTag uint8

const (
	tagOp cellTag = iota
	tagFloat
	tagInt
	tagBool
	tagStr
	tagFloatList
	tagIntList
	tagBoolList
	tagStrList
	tagFunc
	tagCount
)

// wireProgram is the msgpack form of a Program. Function handles travel by
// name and are re-resolved against a Registry on decode.
type wireProgram struct {
	Version   int
	Cells     []wireCell
	Locations []int
}

type wireCell struct {
	T  cellTag
	Op uint8
	F  float64
	I  int64
	B  bool
	S  string
	FL []float64
	IL []int64
	BL []bool
	SL []string
}

func toWire(c Cell) (wireCell, error) {
	switch v := c.(type) {
	case Opcode:
		return wireCell{T: tagOp, Op: uint8(v)}, nil
	case FloatValue:
		return wireCell{T: tagFloat, F: float64(v)}, nil
	case IntValue:
		return wireCell{T: tagInt, I: int64(v)}, nil
	case BoolValue:
		return wireCell{T: tagBool, B: bool(v)}, nil
	case StrValue:
		return wireCell{T: tagStr, S: string(v)}, nil
	case FloatListValue:
		return wireCell{T: tagFloatList, FL: v}, nil
	case IntListValue:
		return wireCell{T: tagIntList, IL: v}, nil
	case BoolListValue:
		return wireCell{T: tagBoolList, BL: v}, nil
	case StrListValue:
		return wireCell{T: tagStrList, SL: v}, nil
	case FuncHandle:
		if v.Fn == nil {
			return wireCell{}, fmt.Errorf("function handle has no function")
		}
		return wireCell{T: tagFunc, S: v.Fn.Name()}, nil
	case ArgCount:
		return wireCell{T: tagCount, I: int64(v)}, nil
	}
	return wireCell{}, fmt.Errorf("cannot encode cell %T", c)
}

func (w wireCell) toCell(reg *Registry) (Cell, error) {
	switch w.T {
	case tagOp:
		return Opcode(w.Op), nil
	case tagFloat:
		return FloatValue(w.F), nil
	case tagInt:
		return IntValue(w.I), nil
	case tagBool:
		return BoolValue(w.B), nil
	case tagStr:
		return StrValue(w.S), nil
	case tagFloatList:
		return FloatListValue(nonNil(w.FL)), nil
	case tagIntList:
		return IntListValue(nonNil(w.IL)), nil
	case tagBoolList:
		return BoolListValue(nonNil(w.BL)), nil
	case tagStrList:
		return StrListValue(nonNil(w.SL)), nil
	case tagFunc:
		if reg == nil {
			return nil, fmt.Errorf("function %s referenced but no registry supplied", w.S)
		}
		fn, ok := reg.Lookup(w.S)
		if !ok {
			return nil, fmt.Errorf("unknown function %s", w.S)
		}
		return FuncHandle{Fn: fn}, nil
	case tagCount:
		return ArgCount(w.I), nil
	}
	return nil, fmt.Errorf("unknown cell tag %d", w.T)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// EncodeProgram writes p to w in msgpack form.
func EncodeProgram(w io.Writer, p *Program) error {
	wp := wireProgram{
		Version:   codecVersion,
		Cells:     make([]wireCell, len(p.code)),
		Locations: p.locations,
	}
	for i, c := range p.code {
		wc, err := toWire(c)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		wp.Cells[i] = wc
	}
	return msgpack.MarshalWrite(w, wp)
}

// DecodeProgram reads a Program written by EncodeProgram, resolving function
// handles through reg.
func DecodeProgram(r io.Reader, reg *Registry) (*Program, error) {
	var wp wireProgram
	if err := msgpack.UnmarshalRead(r, &wp); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	if wp.Version != codecVersion {
		return nil, fmt.Errorf("unsupported program encoding version %d", wp.Version)
	}
	cells := make([]Cell, len(wp.Cells))
	for i, wc := range wp.Cells {
		c, err := wc.toCell(reg)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cells[i] = c
	}
	return NewProgram(cells, wp.Locations)
}
