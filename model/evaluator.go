package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/netvis-dev/eqvm/interp"
	"github.com/netvis-dev/eqvm/vm"
	"github.com/rs/zerolog/log"
)

// errorKinds maps the names accepted by expect_error to interpreter errors.
var errorKinds = map[string]error{
	"malformed":           interp.ErrMalformedProgram,
	"stack_underflow":     interp.ErrStackUnderflow,
	"division_by_zero":    interp.ErrDivisionByZero,
	"conversion":          interp.ErrConversion,
	"function":            interp.ErrFunction,
	"unknown_attribute":   interp.ErrUnknownAttribute,
	"undefined_attribute": interp.ErrUndefinedAttribute,
}

// ErrorKindNames lists the values accepted by expect_error.
func ErrorKindNames() []string {
	out := make([]string, 0, len(errorKinds))
	for k := range errorKinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e *Executor) evaluate(item *WorkItem) Result {
	start := time.Now()
	res := Result{Name: item.Name, Hash: item.Hash}

	prog, err := e.Program(item.Name)
	if err == nil {
		res.Value, err = interp.Eval(prog, e.Names)
	}
	res.Err = err
	res.Duration = time.Since(start)
	res.Mismatch, res.ErrorExpected = check(e.Sheet.Equations[item.Name], res)

	if err != nil {
		log.Debug().Str("equation", item.Name).Err(err).Msg("equation failed")
	} else {
		log.Debug().Str("equation", item.Name).Str("kind", res.Value.Kind().String()).Str("value", res.Value.String()).Msg("equation evaluated")
	}
	e.Reporter.Printf("  %s\n", item.Name)
	return res
}

// check compares a result against the equation's expectation. It returns a
// mismatch description (empty when satisfied) and whether the error, if
// any, was the one asked for.
func check(spec EquationSpec, res Result) (string, bool) {
	switch {
	case spec.ExpectError != "":
		kind, ok := errorKinds[strings.ToLower(spec.ExpectError)]
		if !ok {
			return fmt.Sprintf("unknown expect_error %q", spec.ExpectError), false
		}
		if res.Err == nil {
			return fmt.Sprintf("expected %s error, got %s", spec.ExpectError, res.Value), false
		}
		if !errors.Is(res.Err, kind) {
			return fmt.Sprintf("expected %s error, got: %s", spec.ExpectError, res.Err), false
		}
		return "", true
	case spec.Expect != nil:
		want, err := vm.NewValue(spec.Expect)
		if err != nil {
			return fmt.Sprintf("bad expectation: %s", err), false
		}
		if res.Err != nil {
			return "", false
		}
		if !reflect.DeepEqual(want, res.Value) {
			return fmt.Sprintf("expected %s %s, got %s %s", want.Kind(), want, res.Value.Kind(), res.Value), false
		}
	}
	return "", false
}
