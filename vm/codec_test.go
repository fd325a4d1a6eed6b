package vm

import (
	"bytes"
	"testing"

	"github.com/shamaton/msgpack/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramCodec(t *testing.T) {
	reg := DefaultRegistry()
	maxFn, _ := reg.Lookup("MAX")
	cells := []Cell{
		StrValue("degree"), AREF, FCONVI,
		FloatListValue{1.5, 2}, ArgCount(1), FuncHandle{Fn: maxFn}, CALL,
		FADD,
		IntListValue{}, BoolListValue{true}, StrListValue{"a"}, BoolFalse, IntValue(3),
	}
	locs := make([]int, len(cells))
	for i := range locs {
		locs[i] = i * 2
	}
	p, err := NewProgram(cells, locs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeProgram(&buf, p))

	got, err := DecodeProgram(bytes.NewReader(buf.Bytes()), reg)
	require.NoError(t, err)
	require.Equal(t, p.Len(), got.Len())
	for i := 0; i < p.Len(); i++ {
		assert.Equal(t, p.Location(i), got.Location(i))
		if h, ok := p.Cell(i).(FuncHandle); ok {
			gh, ok := got.Cell(i).(FuncHandle)
			require.True(t, ok)
			assert.Equal(t, h.Fn.Name(), gh.Fn.Name())
			continue
		}
		assert.Equal(t, p.Cell(i), got.Cell(i), "cell %d", i)
	}
}

func TestDecodeNeedsKnownFunctions(t *testing.T) {
	abs, _ := DefaultRegistry().Lookup("ABS")
	p := MustProgram(FloatValue(1), ArgCount(1), FuncHandle{Fn: abs}, CALL)
	var buf bytes.Buffer
	require.NoError(t, EncodeProgram(&buf, p))

	_, err := DecodeProgram(bytes.NewReader(buf.Bytes()), NewRegistry())
	assert.ErrorContains(t, err, "unknown function ABS")

	_, err = DecodeProgram(bytes.NewReader(buf.Bytes()), nil)
	assert.Error(t, err)
}

func TestDecodeRejectsInvalidText(t *testing.T) {
	for _, wc := range []wireCell{{T: tagStr, S: "\xffa"}, {T: tagStrList, SL: []string{"\xff"}}} {
		data, err := msgpack.Marshal(wireProgram{Version: codecVersion, Cells: []wireCell{wc}, Locations: []int{0}})
		require.NoError(t, err)
		_, err = DecodeProgram(bytes.NewReader(data), nil)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	}
}

func TestEncodeRejectsEmptyHandle(t *testing.T) {
	p := MustProgram(FuncHandle{})
	var buf bytes.Buffer
	assert.Error(t, EncodeProgram(&buf, p))
}
