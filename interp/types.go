package interp

import (
	"fmt"

	"github.com/netvis-dev/eqvm/vm"
)

// Resolver supplies the current value of a named attribute. Lookup must not
// fail: known is false for names it has never heard of, and a known name
// may still map to a nil Value when the attribute is unset.
type Resolver interface {
	Lookup(name string) (v vm.Value, known bool)
}

// MapResolver is a Resolver over a plain map. A nil entry marks a known
// attribute without a value.
type MapResolver map[string]vm.Value

func (m MapResolver) Lookup(name string) (vm.Value, bool) {
	v, ok := m[name]
	return v, ok
}

// operand stack
type stack []vm.Operand

func (s *stack) Push(o vm.Operand) {
	*s = append(*s, o)
}

func (s *stack) Pop() (vm.Operand, error) {
	if len(*s) == 0 {
		return nil, fail(ErrStackUnderflow, "pop from empty stack")
	}
	o := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return o, nil
}

func (s *stack) PopValue() (vm.Value, error) {
	o, err := s.Pop()
	if err != nil {
		return nil, err
	}
	v, ok := o.(vm.Value)
	if !ok {
		return nil, fail(ErrMalformedProgram, "expected a value, got %s", describe(o))
	}
	return v, nil
}

func (s *stack) PopFloat() (float64, error) {
	v, err := s.PopValue()
	if err != nil {
		return 0, err
	}
	f, ok := v.(vm.FloatValue)
	if !ok {
		return 0, fail(ErrMalformedProgram, "expected FLOAT operand, got %s", v.Kind())
	}
	return float64(f), nil
}

func (s *stack) PopStr() (string, error) {
	v, err := s.PopValue()
	if err != nil {
		return "", err
	}
	str, ok := v.(vm.StrValue)
	if !ok {
		return "", fail(ErrMalformedProgram, "expected STRING operand, got %s", v.Kind())
	}
	return string(str), nil
}

func (s *stack) PopBool() (bool, error) {
	v, err := s.PopValue()
	if err != nil {
		return false, err
	}
	b, ok := v.(vm.BoolValue)
	if !ok {
		return false, fail(ErrMalformedProgram, "expected BOOL operand, got %s", v.Kind())
	}
	return bool(b), nil
}

func (s *stack) PopInt() (int64, error) {
	v, err := s.PopValue()
	if err != nil {
		return 0, err
	}
	i, ok := v.(vm.IntValue)
	if !ok {
		return 0, fail(ErrMalformedProgram, "expected INT operand, got %s", v.Kind())
	}
	return int64(i), nil
}

func describe(o vm.Operand) string {
	switch v := o.(type) {
	case vm.Value:
		return v.Kind().String()
	case vm.FuncHandle:
		return "function handle " + v.String()
	case vm.ArgCount:
		return "argument count " + v.String()
	}
	return fmt.Sprintf("%T", o)
}
