package model

import (
	"bytes"
	"testing"

	"github.com/netvis-dev/eqvm/interp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	e, err := testSheet().BuildExecutor(Options{Workers: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Pack(&buf))

	progs, err := Unpack(&buf, e.Registry)
	require.NoError(t, err)
	assert.Len(t, progs, len(e.Sheet.Equations))

	v, err := interp.Eval(progs["call"], e.Names)
	require.NoError(t, err)
	assert.Equal(t, "4", v.String())
}

func TestUnpackGarbage(t *testing.T) {
	_, err := Unpack(bytes.NewReader([]byte{0xc1}), nil)
	assert.Error(t, err)
}
