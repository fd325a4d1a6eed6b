package vm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies the runtime shape of a Value.
type Kind int

const (
	FloatKind Kind = iota
	IntKind
	BoolKind
	StrKind
	FloatListKind
	IntListKind
	BoolListKind
	StrListKind
)

func (k Kind) String() string {
	switch k {
	case FloatKind:
		return "FLOAT"
	case IntKind:
		return "INT"
	case BoolKind:
		return "BOOL"
	case StrKind:
		return "STRING"
	case FloatListKind:
		return "FLOAT_LIST"
	case IntListKind:
		return "INT_LIST"
	case BoolListKind:
		return "BOOL_LIST"
	case StrListKind:
		return "STRING_LIST"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsList reports whether k is one of the four list kinds.
func (k Kind) IsList() bool {
	return k >= FloatListKind && k <= StrListKind
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := FloatKind; k <= StrListKind; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, true
		}
	}
	return 0, false
}

// Value is the closed set of things an equation can compute. Every
// implementation lives in this file.
type Value interface {
	Operand
	Kind() Kind
	String() string
}

type FloatValue float64

func (FloatValue) isCell()    {}
func (FloatValue) isOperand() {}
func (FloatValue) Kind() Kind { return FloatKind }
func (f FloatValue) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

type IntValue int64

func (IntValue) isCell()    {}
func (IntValue) isOperand() {}
func (IntValue) Kind() Kind { return IntKind }
func (i IntValue) String() string {
	return strconv.FormatInt(int64(i), 10)
}

type BoolValue bool

var (
	BoolTrue  = BoolValue(true)
	BoolFalse = BoolValue(false)
)

func (BoolValue) isCell()    {}
func (BoolValue) isOperand() {}
func (BoolValue) Kind() Kind { return BoolKind }
func (b BoolValue) String() string {
	return strconv.FormatBool(bool(b))
}

type StrValue string

func (StrValue) isCell()          {}
func (StrValue) isOperand()       {}
func (StrValue) Kind() Kind       { return StrKind }
func (s StrValue) String() string { return string(s) }

type FloatListValue []float64

func (FloatListValue) isCell()    {}
func (FloatListValue) isOperand() {}
func (FloatListValue) Kind() Kind { return FloatListKind }
func (l FloatListValue) String() string {
	return joinList(len(l), func(i int) string { return FloatValue(l[i]).String() })
}

type IntListValue []int64

func (IntListValue) isCell()    {}
func (IntListValue) isOperand() {}
func (IntListValue) Kind() Kind { return IntListKind }
func (l IntListValue) String() string {
	return joinList(len(l), func(i int) string { return IntValue(l[i]).String() })
}

type BoolListValue []bool

func (BoolListValue) isCell()    {}
func (BoolListValue) isOperand() {}
func (BoolListValue) Kind() Kind { return BoolListKind }
func (l BoolListValue) String() string {
	return joinList(len(l), func(i int) string { return BoolValue(l[i]).String() })
}

type StrListValue []string

func (StrListValue) isCell()    {}
func (StrListValue) isOperand() {}
func (StrListValue) Kind() Kind { return StrListKind }
func (l StrListValue) String() string {
	return joinList(len(l), func(i int) string { return strconv.Quote(l[i]) })
}

func joinList(n int, elem func(int) string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(elem(i))
	}
	b.WriteByte(']')
	return b.String()
}

// ErrUnsupportedType is returned by NewValue for native shapes that have no
// Value representation.
var ErrUnsupportedType = errors.New("unsupported value type")

// NewValue converts a native Go value into a Value. All integer widths that
// fit are widened to IntValue so that the interpreter only ever sees one
// integer kind. Text must be valid UTF-8.
func NewValue(x any) (Value, error) {
	v, err := toValue(x)
	if err != nil {
		return nil, err
	}
	if err := CheckText(v); err != nil {
		return nil, err
	}
	return v, nil
}

// CheckText rejects STRING and STRING_LIST values holding invalid UTF-8.
// Valid text never starts with 0xFF, which keeps it below the boolean sort
// sentinel.
func CheckText(v Value) error {
	switch t := v.(type) {
	case StrValue:
		if !utf8.ValidString(string(t)) {
			return fmt.Errorf("%w: text %q is not valid UTF-8", ErrUnsupportedType, string(t))
		}
	case StrListValue:
		for i, s := range t {
			if !utf8.ValidString(s) {
				return fmt.Errorf("%w: list element %d %q is not valid UTF-8", ErrUnsupportedType, i, s)
			}
		}
	}
	return nil
}

func toValue(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case int:
		return IntValue(v), nil
	case int8:
		return IntValue(v), nil
	case int16:
		return IntValue(v), nil
	case int32:
		return IntValue(v), nil
	case int64:
		return IntValue(v), nil
	case uint8:
		return IntValue(v), nil
	case uint16:
		return IntValue(v), nil
	case uint32:
		return IntValue(v), nil
	case float32:
		return FloatValue(v), nil
	case float64:
		return FloatValue(v), nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StrValue(v), nil
	case []float64:
		return FloatListValue(v), nil
	case []float32:
		out := make(FloatListValue, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, nil
	case []int64:
		return IntListValue(v), nil
	case []int:
		out := make(IntListValue, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out, nil
	case []int32:
		out := make(IntListValue, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out, nil
	case []bool:
		return BoolListValue(v), nil
	case []string:
		return StrListValue(v), nil
	case []any:
		return newListValue(v)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
}

// MustValue is NewValue for fixtures; it panics on unsupported input.
func MustValue(x any) Value {
	v, err := NewValue(x)
	if err != nil {
		panic(err)
	}
	return v
}

// newListValue handles the untyped slices produced by config decoders. The
// element kind is taken from the first element and every other element must
// agree with it.
func newListValue(in []any) (Value, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: cannot infer element kind of empty list", ErrUnsupportedType)
	}
	elems := make([]Value, len(in))
	var first Kind
	for i, x := range in {
		v, err := NewValue(x)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		if v.Kind().IsList() {
			return nil, fmt.Errorf("%w: nested list at element %d", ErrUnsupportedType, i)
		}
		if i == 0 {
			first = v.Kind()
		} else if v.Kind() != first {
			return nil, fmt.Errorf("%w: mixed list of %s and %s", ErrUnsupportedType, first, v.Kind())
		}
		elems[i] = v
	}
	switch first {
	case FloatKind:
		out := make(FloatListValue, len(elems))
		for i, e := range elems {
			out[i] = float64(e.(FloatValue))
		}
		return out, nil
	case IntKind:
		out := make(IntListValue, len(elems))
		for i, e := range elems {
			out[i] = int64(e.(IntValue))
		}
		return out, nil
	case BoolKind:
		out := make(BoolListValue, len(elems))
		for i, e := range elems {
			out[i] = bool(e.(BoolValue))
		}
		return out, nil
	default:
		out := make(StrListValue, len(elems))
		for i, e := range elems {
			out[i] = string(e.(StrValue))
		}
		return out, nil
	}
}

// ToNative is the inverse of NewValue: it returns the plain Go value held by
// v, copying lists.
func ToNative(v Value) any {
	switch x := v.(type) {
	case FloatValue:
		return float64(x)
	case IntValue:
		return int64(x)
	case BoolValue:
		return bool(x)
	case StrValue:
		return string(x)
	case FloatListValue:
		return append([]float64{}, x...)
	case IntListValue:
		return append([]int64{}, x...)
	case BoolListValue:
		return append([]bool{}, x...)
	case StrListValue:
		return append([]string{}, x...)
	}
	return nil
}
