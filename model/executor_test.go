package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/netvis-dev/eqvm/interp"
	"github.com/netvis-dev/eqvm/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(f float64) CellSpec  { return CellSpec{Float: &f} }
func op(name string) CellSpec   { return CellSpec{Op: name} }
func name(n string) CellSpec    { return CellSpec{Name: &n} }
func count(n int) CellSpec      { return CellSpec{Count: &n} }
func fn(fnName string) CellSpec { return CellSpec{Fn: fnName} }

func testSheet() *Sheet {
	return &Sheet{
		Attributes: map[string]any{"degree": 3, "weight": 0.5},
		Undefined:  []string{"color"},
		Equations: map[string]EquationSpec{
			"product": {Code: []CellSpec{name("degree"), op("AREF"), op("FCONVI"), name("weight"), op("AREF"), op("FMUL")}, Expect: 1.5},
			"copy":    {Code: []CellSpec{name("degree"), op("AREF"), op("FCONVI"), name("weight"), op("AREF"), op("FMUL")}},
			"divzero": {Code: []CellSpec{float(1), float(0), op("FDIV")}, ExpectError: "division_by_zero"},
			"absent":  {Code: []CellSpec{name("color"), op("AREF")}},
			"wrong":   {Code: []CellSpec{float(1)}, Expect: 2.0},
			"call":    {Code: []CellSpec{float(-4), count(1), fn("ABS"), op("CALL")}, Expect: 4.0},
		},
	}
}

func TestExecutorRun(t *testing.T) {
	e, err := testSheet().BuildExecutor(Options{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, e.Workers)
	// product and copy share one stored program
	assert.Equal(t, e.Hashes["product"], e.Hashes["copy"])
	assert.Equal(t, 5, e.Store.Len())

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)

	byName := map[string]Result{}
	var order []string
	for _, r := range report.Results {
		byName[r.Name] = r
		order = append(order, r.Name)
	}
	assert.Equal(t, []string{"absent", "call", "copy", "divzero", "product", "wrong"}, order)

	assert.Equal(t, vm.FloatValue(1.5), byName["product"].Value)
	assert.Equal(t, vm.FloatValue(1.5), byName["copy"].Value)
	assert.Equal(t, vm.FloatValue(4), byName["call"].Value)
	assert.True(t, byName["divzero"].ErrorExpected)
	assert.False(t, byName["divzero"].Failed())
	assert.ErrorIs(t, byName["absent"].Err, interp.ErrUndefinedAttribute)
	assert.True(t, byName["absent"].Failed())
	assert.Contains(t, byName["wrong"].Mismatch, "expected FLOAT 2, got FLOAT 1")

	st := report.Statistics
	assert.Equal(t, 6, st.Equations)
	assert.Equal(t, 4, st.Succeeded)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 1, st.Mismatched)
	assert.Equal(t, 5, st.UniquePrograms)
	assert.Equal(t, 6, st.CacheHits+st.CacheMisses)
	assert.False(t, report.Success())
}

func TestExecutorBuildErrors(t *testing.T) {
	s := &Sheet{Equations: map[string]EquationSpec{"bad": {Code: []CellSpec{fn("NOPE")}}}}
	_, err := s.BuildExecutor(Options{})
	assert.ErrorContains(t, err, `equation "bad"`)

	s = &Sheet{Attributes: map[string]any{"x": struct{}{}}}
	_, err = s.BuildExecutor(Options{})
	assert.Error(t, err)
}

func TestExecutorSettings(t *testing.T) {
	s := testSheet()
	s.Settings = Settings{Workers: 2, CacheSize: 7}
	e, err := s.BuildExecutor(Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, e.Workers)
	assert.Equal(t, 7, e.Store.Stats().MaxSize)

	e, err = s.BuildExecutor(Options{Workers: 5, CacheSize: 9})
	require.NoError(t, err)
	assert.Equal(t, 5, e.Workers)
	assert.Equal(t, 9, e.Store.Stats().MaxSize)
}

func TestExecutorManyEquationsConcurrently(t *testing.T) {
	s := &Sheet{Attributes: map[string]any{"base": 2.0}, Equations: map[string]EquationSpec{}}
	for i := 0; i < 200; i++ {
		s.Equations[fmt.Sprintf("eq%03d", i)] = EquationSpec{
			Code:   []CellSpec{name("base"), op("AREF"), float(float64(i)), op("FPOW")},
			Expect: math.Pow(2, float64(i)),
		}
	}
	e, err := s.BuildExecutor(Options{Workers: 8})
	require.NoError(t, err)
	report, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Success())
	assert.Len(t, report.Results, 200)
	assert.Equal(t, 200, report.Statistics.Succeeded)
}

func TestExecutorCancelled(t *testing.T) {
	e, err := testSheet().BuildExecutor(Options{Workers: 1})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := e.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Results, 6)
	for _, r := range report.Results {
		assert.ErrorIs(t, r.Err, context.Canceled, r.Name)
	}
	assert.Equal(t, 6, report.Statistics.Failed)
}

func TestCheckUnknownErrorKind(t *testing.T) {
	msg, ok := check(EquationSpec{ExpectError: "bogus"}, Result{})
	assert.False(t, ok)
	assert.Contains(t, msg, "unknown expect_error")
	assert.Contains(t, ErrorKindNames(), "division_by_zero")
}

func TestOverflowingEquationStillReportsJSON(t *testing.T) {
	s := &Sheet{Equations: map[string]EquationSpec{
		"overflow": {Code: []CellSpec{float(1e308), float(10), op("FMUL")}},
		"root":     {Code: []CellSpec{float(-1), float(0.5), op("FPOW")}},
	}}
	report, err := Evaluate(context.Background(), s, Options{Workers: 1})
	require.NoError(t, err)
	assert.True(t, report.Success())

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value":"+Inf"`)
	assert.Contains(t, string(data), `"value":"NaN"`)
}

func TestColorReporterSeesEveryEquation(t *testing.T) {
	var buf bytes.Buffer
	e, err := testSheet().BuildExecutor(Options{Workers: 4, Reporter: &ColorReporter{Writer: &buf}})
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	require.NoError(t, err)
	for _, name := range e.Sheet.Names() {
		assert.Contains(t, buf.String(), "  "+name+"\n")
	}
}
