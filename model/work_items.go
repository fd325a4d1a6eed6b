package model

import (
	"time"

	"github.com/netvis-dev/eqvm/cas"
	"github.com/netvis-dev/eqvm/vm"
)

// WorkItem is one equation queued for evaluation
type WorkItem struct {
	Index int
	Name  string
	Hash  cas.Hash
}

type Result struct {
	Name     string
	Hash     cas.Hash
	Value    vm.Value
	Err      error
	Mismatch string // set when the equation's expectation was not met
	Duration time.Duration

	// ErrorExpected is set when Err is the failure the sheet asked for.
	ErrorExpected bool
}

// Failed reports whether the result should count against the run.
func (r Result) Failed() bool {
	if r.Mismatch != "" {
		return true
	}
	return r.Err != nil && !r.ErrorExpected
}

type Statistics struct {
	Equations      int           `json:"equations"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	Mismatched     int           `json:"mismatched"`
	UniquePrograms int           `json:"unique_programs"`
	CacheHits      int           `json:"cache_hits"`
	CacheMisses    int           `json:"cache_misses"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

type Report struct {
	RunID      string
	Results    []Result
	Statistics Statistics
}

// Success reports whether every equation evaluated as expected.
func (r *Report) Success() bool {
	for _, res := range r.Results {
		if res.Failed() {
			return false
		}
	}
	return true
}
