package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgram(t *testing.T) {
	_, err := NewProgram(nil, nil)
	require.ErrorIs(t, err, ErrEmptyProgram)

	_, err = NewProgram([]Cell{FloatValue(1)}, []int{0, 1})
	require.Error(t, err)

	_, err = NewProgram([]Cell{FloatValue(1), nil}, nil)
	require.Error(t, err)

	cells := []Cell{FloatValue(1), FloatValue(2), FADD}
	locs := []int{0, 4, 2}
	p, err := NewProgram(cells, locs)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, FADD, p.Cell(2))
	assert.Equal(t, 4, p.Location(1))

	// the program owns its cells
	cells[0] = StrValue("changed")
	locs[0] = 99
	assert.Equal(t, FloatValue(1), p.Cell(0))
	assert.Equal(t, 0, p.Location(0))
}

func TestNewProgramRejectsInvalidText(t *testing.T) {
	for _, c := range []Cell{StrValue("\xff"), StrValue("ok\xffa"), StrListValue{"a", "\xfe"}} {
		_, err := NewProgram([]Cell{c}, nil)
		require.ErrorIs(t, err, ErrUnsupportedType, "%#v", c)
	}
	_, err := NewProgram([]Cell{StrValue("ÿ naïve")}, nil)
	require.NoError(t, err)
}

func TestDebugPrint(t *testing.T) {
	abs, _ := DefaultRegistry().Lookup("ABS")
	p, err := NewProgram([]Cell{FloatValue(-1), ArgCount(1), FuncHandle{Fn: abs}, CALL, StrValue("x")}, []int{4, 0, 0, 0, 9})
	require.NoError(t, err)
	var buf bytes.Buffer
	p.DebugPrint(&buf)
	out := buf.String()
	assert.Contains(t, out, "000 @4    PUSH FLOAT:-1")
	assert.Contains(t, out, "PUSH #1")
	assert.Contains(t, out, "PUSH fn:ABS")
	assert.Contains(t, out, "003 @0    CALL")
	assert.Contains(t, out, `PUSH "x"`)
}

func TestOpcodeNames(t *testing.T) {
	for o := Opcode(0); o < OpcodeMax; o++ {
		got, ok := ParseOpcode(o.String())
		require.True(t, ok, o.String())
		assert.Equal(t, o, got)
		assert.True(t, o.Valid())
	}
	_, ok := ParseOpcode("NOPE")
	assert.False(t, ok)
	assert.False(t, Opcode(200).Valid())
	assert.Equal(t, "Opcode(200)", Opcode(200).String())
}
