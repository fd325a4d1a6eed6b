package interp

import (
	"errors"
	"testing"

	"github.com/netvis-dev/eqvm/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the argument list it was called with.
type recorder struct {
	got []vm.Value
	ret vm.Value
	err error
}

func (r *recorder) Name() string { return "RECORD" }

func (r *recorder) Call(args []vm.Value) (vm.Value, error) {
	r.got = args
	if r.err != nil {
		return nil, r.err
	}
	if r.ret != nil {
		return r.ret, nil
	}
	return vm.IntValue(len(args)), nil
}

func TestCallPreservesSourceOrder(t *testing.T) {
	rec := &recorder{}
	v, err := run(t, nil,
		vm.StrValue("first"), vm.FloatValue(2), vm.BoolTrue,
		vm.ArgCount(3), vm.FuncHandle{Fn: rec}, vm.CALL,
	)
	require.NoError(t, err)
	assert.Equal(t, vm.IntValue(3), v)
	assert.Equal(t, []vm.Value{vm.StrValue("first"), vm.FloatValue(2), vm.BoolTrue}, rec.got)
}

func TestCallWithNoArguments(t *testing.T) {
	rec := &recorder{ret: vm.StrValue("ok")}
	v, err := run(t, nil, vm.ArgCount(0), vm.FuncHandle{Fn: rec}, vm.CALL)
	require.NoError(t, err)
	assert.Equal(t, vm.StrValue("ok"), v)
	assert.Empty(t, rec.got)
}

func TestCallAcceptsIntegerCount(t *testing.T) {
	rec := &recorder{}
	v, err := run(t, nil, vm.FloatValue(1), vm.IntValue(1), vm.FuncHandle{Fn: rec}, vm.CALL)
	require.NoError(t, err)
	assert.Equal(t, vm.IntValue(1), v)
}

func TestCallArgCountBounds(t *testing.T) {
	for _, n := range []int{-1, 101, 1000} {
		cells := []vm.Cell{}
		for i := 0; i < 101; i++ {
			cells = append(cells, vm.FloatValue(float64(i)))
		}
		rec := &recorder{}
		cells = append(cells, vm.ArgCount(n), vm.FuncHandle{Fn: rec}, vm.CALL)
		_, err := run(t, nil, cells...)
		require.ErrorIs(t, err, ErrMalformedProgram, "count %d", n)
		assert.Nil(t, rec.got, "function must not be invoked for count %d", n)
	}

	cells := []vm.Cell{}
	for i := 0; i < MaxArgs; i++ {
		cells = append(cells, vm.FloatValue(float64(i)))
	}
	cells = append(cells, vm.ArgCount(MaxArgs), vm.FuncHandle{Fn: &recorder{}}, vm.CALL)
	v, err := run(t, nil, cells...)
	require.NoError(t, err)
	assert.Equal(t, vm.IntValue(MaxArgs), v)
}

func TestCallRequiresFunctionHandle(t *testing.T) {
	_, err := run(t, nil, vm.FloatValue(1), vm.ArgCount(1), vm.StrValue("ABS"), vm.CALL)
	require.ErrorIs(t, err, ErrMalformedProgram)
	assert.Contains(t, err.Error(), "function handle")
}

func TestCallRequiresCount(t *testing.T) {
	_, err := run(t, nil, vm.FloatValue(1), vm.StrValue("1"), builtin("ABS"), vm.CALL)
	require.ErrorIs(t, err, ErrMalformedProgram)
}

func TestCallTooFewOperands(t *testing.T) {
	_, err := run(t, nil, vm.FloatValue(1), vm.ArgCount(2), builtin("MAX"), vm.CALL)
	require.ErrorIs(t, err, ErrStackUnderflow)
}

func TestFunctionErrorsAreResurfaced(t *testing.T) {
	inner := errors.New("value out of range")
	rec := &recorder{err: inner}
	_, err := run(t, nil, vm.FloatValue(1), vm.ArgCount(1), vm.FuncHandle{Fn: rec}, vm.CALL)
	require.ErrorIs(t, err, ErrFunction)
	require.ErrorIs(t, err, ErrMalformedProgram)
	assert.NotErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "value out of range")

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, inner, ee.Cause)
}

func TestFunctionResultMustBeValidText(t *testing.T) {
	rec := &recorder{ret: vm.StrValue("\xffa")}
	_, err := run(t, nil, vm.ArgCount(0), vm.FuncHandle{Fn: rec}, vm.CALL)
	require.ErrorIs(t, err, ErrFunction)
}

type panicky struct{}

func (panicky) Name() string                          { return "BOOM" }
func (panicky) Call(args []vm.Value) (vm.Value, error) { panic("boom") }

func TestFunctionPanicIsCaptured(t *testing.T) {
	_, err := run(t, nil, vm.ArgCount(0), vm.FuncHandle{Fn: panicky{}}, vm.CALL)
	require.ErrorIs(t, err, ErrFunction)
	assert.Contains(t, err.Error(), "boom")
}

func TestCallBuiltins(t *testing.T) {
	tests := []struct {
		name     string
		cells    []vm.Cell
		expected vm.Value
	}{
		{"abs", []vm.Cell{vm.FloatValue(-2), vm.ArgCount(1), builtin("ABS"), vm.CALL}, vm.FloatValue(2)},
		{"len of list", []vm.Cell{vm.StrListValue{"a", "b"}, vm.ArgCount(1), builtin("LEN"), vm.CALL}, vm.IntValue(2)},
		{"max of floats", []vm.Cell{vm.FloatValue(1), vm.FloatValue(9), vm.FloatValue(3), vm.ArgCount(3), builtin("MAX"), vm.CALL}, vm.FloatValue(9)},
		{"sum then add", []vm.Cell{vm.IntListValue{1, 2, 3}, vm.ArgCount(1), builtin("SUM"), vm.CALL, vm.FloatValue(0.5), vm.FADD}, vm.FloatValue(6.5)},
		{"upper of attribute", []vm.Cell{vm.StrValue("label"), vm.AREF, vm.ArgCount(1), builtin("UPPER"), vm.CALL}, vm.StrValue("YFG1")},
	}
	names := MapResolver{"label": vm.StrValue("yfg1")}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := run(t, names, tt.cells...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	_, err := run(t, nil, vm.StrValue("x"), vm.ArgCount(1), builtin("ABS"), vm.CALL)
	require.ErrorIs(t, err, ErrFunction)
}
