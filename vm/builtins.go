package vm

import (
	"fmt"
	"math"
	"strings"
)

// DefaultRegistry returns a new Registry holding the standard builtins.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range defaultBuiltins() {
		if err := r.Register(b); err != nil {
			panic(err)
		}
	}
	return r
}

func defaultBuiltins() []*Builtin {
	numeric := [][]Kind{{FloatKind}, {FloatListKind}, {IntListKind}}
	return []*Builtin{
		{FnName: "ABS", Returns: FloatKind, Args: [][]Kind{{FloatKind}}, Impl: builtinAbs},
		{FnName: "LEN", Returns: IntKind, Args: [][]Kind{{StrKind}, {FloatListKind}, {IntListKind}, {BoolListKind}, {StrListKind}}, Impl: builtinLen},
		{FnName: "MAX", Returns: FloatKind, Args: numeric, Impl: reduceBuiltin("MAX", math.Max)},
		{FnName: "MIN", Returns: FloatKind, Args: numeric, Impl: reduceBuiltin("MIN", math.Min)},
		{FnName: "SUM", Returns: FloatKind, Args: numeric, Impl: builtinSum},
		{FnName: "AVERAGE", Returns: FloatKind, Args: numeric, Impl: builtinAverage},
		{FnName: "UPPER", Returns: StrKind, Args: [][]Kind{{StrKind}}, Impl: caseBuiltin("UPPER", strings.ToUpper)},
		{FnName: "LOWER", Returns: StrKind, Args: [][]Kind{{StrKind}}, Impl: caseBuiltin("LOWER", strings.ToLower)},
	}
}

func builtinAbs(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("ABS() takes exactly 1 argument, got %d", len(args))
	}
	f, ok := args[0].(FloatValue)
	if !ok {
		return nil, fmt.Errorf("ABS() argument must be a float, got %s", args[0].Kind())
	}
	return FloatValue(math.Abs(float64(f))), nil
}

// builtinLen returns the length of a string (in runes) or of any list.
func builtinLen(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("LEN() takes exactly 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case StrValue:
		return IntValue(len([]rune(string(v)))), nil
	case FloatListValue:
		return IntValue(len(v)), nil
	case IntListValue:
		return IntValue(len(v)), nil
	case BoolListValue:
		return IntValue(len(v)), nil
	case StrListValue:
		return IntValue(len(v)), nil
	default:
		return nil, fmt.Errorf("LEN() argument must be a string or list, got %s", args[0].Kind())
	}
}

// numbers flattens the accepted numeric argument shapes: one or more floats,
// or a single float or integer list.
func numbers(name string, args []Value) ([]float64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s() requires at least one argument", name)
	}
	if len(args) == 1 {
		switch l := args[0].(type) {
		case FloatListValue:
			return []float64(l), nil
		case IntListValue:
			out := make([]float64, len(l))
			for i, n := range l {
				out[i] = float64(n)
			}
			return out, nil
		}
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, ok := a.(FloatValue)
		if !ok {
			return nil, fmt.Errorf("%s() argument %d must be a float, got %s", name, i+1, a.Kind())
		}
		out[i] = float64(f)
	}
	return out, nil
}

func reduceBuiltin(name string, f func(a, b float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		xs, err := numbers(name, args)
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			return nil, fmt.Errorf("%s() of an empty list", name)
		}
		acc := xs[0]
		for _, x := range xs[1:] {
			acc = f(acc, x)
		}
		return FloatValue(acc), nil
	}
}

func builtinSum(args []Value) (Value, error) {
	xs, err := numbers("SUM", args)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return FloatValue(sum), nil
}

func builtinAverage(args []Value) (Value, error) {
	xs, err := numbers("AVERAGE", args)
	if err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("AVERAGE() of an empty list")
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return FloatValue(sum / float64(len(xs))), nil
}

func caseBuiltin(name string, f func(string) string) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s() takes exactly 1 argument, got %d", name, len(args))
		}
		s, ok := args[0].(StrValue)
		if !ok {
			return nil, fmt.Errorf("%s() argument must be a string, got %s", name, args[0].Kind())
		}
		return StrValue(f(string(s))), nil
	}
}
