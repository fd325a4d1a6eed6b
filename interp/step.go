package interp

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"github.com/netvis-dev/eqvm/vm"
)

// BoolSortSentinel is what SCONVB leaves in place of a boolean so that a
// following string comparison ranks the boolean above any text. No valid
// UTF-8 string starts with 0xFF, so the sentinel compares greater than all
// of them. Text entering through programs, attributes or function results
// is checked with vm.CheckText.
const BoolSortSentinel = "\xff"

func (in *Interpreter) step(op vm.Opcode) error {
	s := &in.stack
	switch op {
	case vm.CALL:
		return in.call()

	case vm.FADD, vm.FSUB, vm.FMUL, vm.FDIV, vm.FPOW:
		b, err := s.PopFloat()
		if err != nil {
			return err
		}
		a, err := s.PopFloat()
		if err != nil {
			return err
		}
		v, err := arith(op, a, b)
		if err != nil {
			return err
		}
		s.Push(vm.FloatValue(v))

	case vm.SCONCAT:
		b, err := s.PopStr()
		if err != nil {
			return err
		}
		a, err := s.PopStr()
		if err != nil {
			return err
		}
		s.Push(vm.StrValue(a + b))

	case vm.UMINUS, vm.UPLUS:
		v, err := s.PopValue()
		if err != nil {
			return err
		}
		switch n := v.(type) {
		case vm.FloatValue:
			if op == vm.UMINUS {
				n = -n
			}
			s.Push(n)
		case vm.IntValue:
			// wraps at MinInt64
			if op == vm.UMINUS {
				n = -n
			}
			s.Push(n)
		default:
			return fail(ErrMalformedProgram, "%s expects a number, got %s", op, v.Kind())
		}

	case vm.FEQ, vm.FNE, vm.FGT, vm.FLT, vm.FGE, vm.FLE:
		b, err := s.PopFloat()
		if err != nil {
			return err
		}
		a, err := s.PopFloat()
		if err != nil {
			return err
		}
		s.Push(vm.BoolValue(relate(op-vm.FEQ, a, b)))

	case vm.SEQ, vm.SNE, vm.SGT, vm.SLT, vm.SGE, vm.SLE:
		b, err := s.PopStr()
		if err != nil {
			return err
		}
		a, err := s.PopStr()
		if err != nil {
			return err
		}
		s.Push(vm.BoolValue(relate(op-vm.SEQ, a, b)))

	case vm.BEQ, vm.BNE, vm.BGT, vm.BLT, vm.BGE, vm.BLE:
		b, err := s.PopBool()
		if err != nil {
			return err
		}
		a, err := s.PopBool()
		if err != nil {
			return err
		}
		s.Push(vm.BoolValue(relate(op-vm.BEQ, boolRank(a), boolRank(b))))

	case vm.AREF:
		name, err := s.PopStr()
		if err != nil {
			return err
		}
		v, known := in.names.Lookup(name)
		if !known {
			return fail(ErrUnknownAttribute, "%q", name)
		}
		if v == nil {
			return fail(ErrUndefinedAttribute, "%q", name)
		}
		if err := vm.CheckText(v); err != nil {
			return fail(ErrMalformedProgram, "attribute %q: %s", name, err)
		}
		s.Push(v)

	case vm.AREF2:
		name, err := s.PopStr()
		if err != nil {
			return err
		}
		def, err := s.PopValue()
		if err != nil {
			return err
		}
		v, known := in.names.Lookup(name)
		if !known {
			return fail(ErrUnknownAttribute, "%q", name)
		}
		if v == nil {
			v = def
		} else if err := vm.CheckText(v); err != nil {
			return fail(ErrMalformedProgram, "attribute %q: %s", name, err)
		}
		s.Push(v)

	case vm.FCONVI:
		i, err := s.PopInt()
		if err != nil {
			return err
		}
		s.Push(vm.FloatValue(float64(i)))

	case vm.FCONVB:
		b, err := s.PopBool()
		if err != nil {
			return err
		}
		if b {
			s.Push(vm.FloatValue(1.0))
		} else {
			s.Push(vm.FloatValue(0.0))
		}

	case vm.FCONVS:
		str, err := s.PopStr()
		if err != nil {
			return err
		}
		f, err := parseNumeral(str)
		if err != nil {
			return err
		}
		s.Push(vm.FloatValue(f))

	case vm.SCONVF:
		f, err := s.PopFloat()
		if err != nil {
			return err
		}
		s.Push(vm.StrValue(vm.FloatValue(f).String()))

	case vm.SCONVI:
		i, err := s.PopInt()
		if err != nil {
			return err
		}
		s.Push(vm.StrValue(vm.IntValue(i).String()))

	case vm.SCONVB:
		if _, err := s.PopBool(); err != nil {
			return err
		}
		s.Push(vm.StrValue(BoolSortSentinel))

	default:
		return fail(ErrMalformedProgram, "unknown opcode %s", op)
	}
	return nil
}

func arith(op vm.Opcode, a, b float64) (float64, error) {
	switch op {
	case vm.FADD:
		return a + b, nil
	case vm.FSUB:
		return a - b, nil
	case vm.FMUL:
		return a * b, nil
	case vm.FPOW:
		return math.Pow(a, b), nil
	case vm.FDIV:
		if b == 0 {
			return 0, fail(ErrDivisionByZero, "%s / 0", vm.FloatValue(a))
		}
		return a / b, nil
	}
	return 0, fail(ErrMalformedProgram, "%s is not arithmetic", op)
}

// relate evaluates one of the six relations, numbered in opcode order
// EQ NE GT LT GE LE. Every comparison family lays its opcodes out the same
// way, so op-FEQ, op-SEQ and op-BEQ all land here.
func relate[T cmp.Ordered](rel vm.Opcode, a, b T) bool {
	switch rel {
	case 0:
		return a == b
	case 1:
		return a != b
	case 2:
		return a > b
	case 3:
		return a < b
	case 4:
		return a >= b
	default:
		return a <= b
	}
}

// boolRank orders false before true.
func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseNumeral accepts a finite decimal numeral, optionally surrounded by
// whitespace.
func parseNumeral(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" || strings.ContainsAny(t, "xXpP_") {
		return 0, fail(ErrConversion, "%q is not a number", s)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fail(ErrConversion, "%q is not a number", s)
	}
	return f, nil
}
