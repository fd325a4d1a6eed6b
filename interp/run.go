package interp

import (
	"errors"

	"github.com/netvis-dev/eqvm/vm"
)

// Interpreter evaluates one Program against one Resolver. It is good for a
// single Run and must not be shared between goroutines; the Program and the
// Resolver are only read and may be shared freely.
type Interpreter struct {
	prog  *vm.Program
	names Resolver
	stack stack
	ran   bool

	// Trace, when set, is called after every cell with the stack as it
	// stands. The slice must not be retained or modified.
	Trace func(pc int, c vm.Cell, stack []vm.Operand)
}

func New(prog *vm.Program, names Resolver) (*Interpreter, error) {
	if prog.Len() == 0 {
		return nil, fail(ErrMalformedProgram, "empty or missing program")
	}
	if names == nil {
		names = MapResolver{}
	}
	return &Interpreter{
		prog:  prog,
		names: names,
	}, nil
}

// Run executes every cell in order and returns the single value left on the
// stack.
func (in *Interpreter) Run() (vm.Value, error) {
	if in.ran {
		return nil, fail(ErrAlreadyRun, "Run called twice")
	}
	in.ran = true
	defer func() { in.stack = nil }()

	for pc := 0; pc < in.prog.Len(); pc++ {
		var err error
		switch c := in.prog.Cell(pc).(type) {
		case vm.Opcode:
			err = in.step(c)
		case vm.Operand:
			in.stack.Push(c)
		default:
			err = fail(ErrMalformedProgram, "unrecognised cell %T", c)
		}
		if err != nil {
			return nil, in.locate(err, pc)
		}
		if in.Trace != nil {
			in.Trace(pc, in.prog.Cell(pc), in.stack)
		}
	}
	v, err := in.result()
	if err != nil {
		return nil, in.locate(err, in.prog.Len()-1)
	}
	return v, nil
}

// result is the whole-program check: exactly one result-eligible value.
func (in *Interpreter) result() (vm.Value, error) {
	if len(in.stack) != 1 {
		return nil, fail(ErrMalformedProgram, "program left %d operands on the stack, expected 1", len(in.stack))
	}
	v, ok := in.stack[0].(vm.Value)
	if !ok {
		return nil, fail(ErrMalformedProgram, "program computed %s, not a value", describe(in.stack[0]))
	}
	switch v.Kind() {
	case vm.FloatKind, vm.IntKind, vm.BoolKind, vm.StrKind,
		vm.FloatListKind, vm.IntListKind, vm.BoolListKind, vm.StrListKind:
		return v, nil
	}
	return nil, fail(ErrMalformedProgram, "program computed unsupported kind %s", v.Kind())
}

func (in *Interpreter) locate(err error, pc int) error {
	var ee *EvalError
	if !errors.As(err, &ee) {
		ee = fail(ErrMalformedProgram, "%s", err)
	}
	ee.PC = pc
	ee.Location = in.prog.Location(pc)
	ee.Op = vm.CellString(in.prog.Cell(pc))
	return ee
}

// Eval is a convenience wrapper for New followed by Run.
func Eval(prog *vm.Program, names Resolver) (vm.Value, error) {
	in, err := New(prog, names)
	if err != nil {
		return nil, err
	}
	return in.Run()
}
