package interp

import (
	"fmt"

	"github.com/netvis-dev/eqvm/vm"
)

// MaxArgs bounds the argument count a CALL will accept. It only exists to
// catch corrupted programs early.
const MaxArgs = 100

// call implements CALL. Stack: A1 .. An n Fn, with Fn on top.
func (in *Interpreter) call() error {
	s := &in.stack
	top, err := s.Pop()
	if err != nil {
		return err
	}
	h, ok := top.(vm.FuncHandle)
	if !ok {
		return fail(ErrMalformedProgram, "CALL expected a function handle, got %s", describe(top))
	}
	if h.Fn == nil {
		return fail(ErrMalformedProgram, "CALL on an empty function handle")
	}

	countOp, err := s.Pop()
	if err != nil {
		return err
	}
	n, err := argCount(countOp)
	if err != nil {
		return err
	}
	if len(*s) < n {
		return fail(ErrStackUnderflow, "%s needs %d arguments, stack holds %d", h.Fn.Name(), n, len(*s))
	}

	// Arguments were pushed left to right, so popping fills the list from
	// the back and args[0] ends up as the earliest push.
	args := make([]vm.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := s.PopValue()
		if err != nil {
			return err
		}
		args[i] = v
	}

	res, err := invoke(h.Fn, args)
	if err != nil {
		return &EvalError{
			Kind:  ErrFunction,
			Msg:   fmt.Sprintf("%s(): %s", h.Fn.Name(), err),
			Cause: err,
		}
	}
	if res == nil {
		return fail(ErrFunction, "%s() returned no value", h.Fn.Name())
	}
	if err := vm.CheckText(res); err != nil {
		return fail(ErrFunction, "%s(): %s", h.Fn.Name(), err)
	}
	s.Push(res)
	return nil
}

func argCount(o vm.Operand) (int, error) {
	var n int64
	switch v := o.(type) {
	case vm.ArgCount:
		n = int64(v)
	case vm.IntValue:
		n = int64(v)
	default:
		return 0, fail(ErrMalformedProgram, "CALL expected an argument count, got %s", describe(o))
	}
	if n < 0 || n > MaxArgs {
		return 0, fail(ErrMalformedProgram, "argument count %d outside [0, %d]", n, MaxArgs)
	}
	return int(n), nil
}

// invoke calls fn, turning a panic into an ordinary error.
func invoke(fn vm.Function, args []vm.Value) (res vm.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn.Call(args)
}
