package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/gookit/color"
	"github.com/netvis-dev/eqvm/vm"
)

const rule = "--------------------------------------------------------------------------------"

// FormatResults renders one line per equation followed by the failure
// details.
func FormatResults(r *Report) string {
	var b strings.Builder
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprintf("Run %s\n", r.RunID))
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")

	width := 0
	for _, res := range r.Results {
		width = max(width, len(res.Name))
	}
	for _, res := range r.Results {
		b.WriteString(color.Bold.Sprintf("%-*s  ", width, res.Name))
		switch {
		case res.Mismatch != "":
			b.WriteString(color.Yellow.Sprint("MISMATCH "))
			b.WriteString(res.Mismatch)
		case res.Err != nil && res.ErrorExpected:
			b.WriteString(color.Green.Sprint("ok       "))
			b.WriteString(color.Gray.Sprintf("error as expected: %s", res.Err))
		case res.Err != nil:
			b.WriteString(color.Red.Sprint("ERROR    "))
			b.WriteString(color.Red.Sprint(res.Err.Error()))
		default:
			b.WriteString(color.Green.Sprint("ok       "))
			b.WriteString(fmt.Sprintf("%s %s", color.Gray.Sprint(res.Value.Kind()), res.Value))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatStatistics renders the run summary.
func FormatStatistics(s Statistics) string {
	var b strings.Builder
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Equations:       "))
	b.WriteString(fmt.Sprintf("%d\n", s.Equations))
	b.WriteString(color.Bold.Sprint("Succeeded:       "))
	b.WriteString(color.Green.Sprintf("%d\n", s.Succeeded))
	b.WriteString(color.Bold.Sprint("Failed:          "))
	if s.Failed > 0 {
		b.WriteString(color.Red.Sprintf("%d\n", s.Failed))
	} else {
		b.WriteString(fmt.Sprintf("%d\n", s.Failed))
	}
	if s.Mismatched > 0 {
		b.WriteString(color.Bold.Sprint("Mismatched:      "))
		b.WriteString(color.Yellow.Sprintf("%d\n", s.Mismatched))
	}
	b.WriteString(color.Bold.Sprint("Unique programs: "))
	b.WriteString(fmt.Sprintf("%d\n", s.UniquePrograms))
	b.WriteString(color.Bold.Sprint("Cache:           "))
	b.WriteString(fmt.Sprintf("%d hits, %d misses\n", s.CacheHits, s.CacheMisses))
	b.WriteString(color.Bold.Sprint("Elapsed:         "))
	b.WriteString(fmt.Sprintf("%s\n", s.Elapsed))
	return b.String()
}

type resultJSON struct {
	Name     string `json:"name"`
	Hash     string `json:"hash"`
	Kind     string `json:"kind,omitempty"`
	Value    any    `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
	Mismatch string `json:"mismatch,omitempty"`
	OK       bool   `json:"ok"`
}

type reportJSON struct {
	RunID      string       `json:"run_id"`
	Success    bool         `json:"success"`
	Results    []resultJSON `json:"results"`
	Statistics Statistics   `json:"statistics"`
}

func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		RunID:      r.RunID,
		Success:    r.Success(),
		Results:    make([]resultJSON, len(r.Results)),
		Statistics: r.Statistics,
	}
	for i, res := range r.Results {
		rj := resultJSON{
			Name:     res.Name,
			Hash:     res.Hash.String(),
			Mismatch: res.Mismatch,
			OK:       !res.Failed(),
		}
		if res.Err != nil {
			rj.Error = res.Err.Error()
		} else if res.Value != nil {
			rj.Kind = res.Value.Kind().String()
			rj.Value = jsonValue(res.Value)
		}
		out.Results[i] = rj
	}
	return json.Marshal(out)
}

// jsonValue is vm.ToNative, except that non-finite floats, which JSON cannot
// carry, are written as their canonical text ("+Inf", "-Inf", "NaN").
func jsonValue(v vm.Value) any {
	switch x := v.(type) {
	case vm.FloatValue:
		if !finite(float64(x)) {
			return x.String()
		}
	case vm.FloatListValue:
		out := make([]any, len(x))
		for i, f := range x {
			if finite(f) {
				out[i] = f
			} else {
				out[i] = vm.FloatValue(f).String()
			}
		}
		return out
	}
	return vm.ToNative(v)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
