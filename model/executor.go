package model

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/netvis-dev/eqvm/cas"
	"github.com/netvis-dev/eqvm/interp"
	"github.com/netvis-dev/eqvm/vm"
	"github.com/rs/zerolog/log"
)

// An Executor is the context and entrypoint for evaluating a sheet
type Executor struct {
	Sheet    *Sheet
	Registry *vm.Registry
	Store    *cas.LRUCache
	Names    interp.MapResolver
	Hashes   map[string]cas.Hash
	Workers  int
	Reporter Reporter
}

type Options struct {
	// Workers and CacheSize override the sheet's settings when positive.
	Workers   int
	CacheSize int
	Registry  *vm.Registry
	Reporter  Reporter
}

// BuildExecutor compiles every equation listing and stores the programs in
// a fresh CAS.
func (s *Sheet) BuildExecutor(opts Options) (*Executor, error) {
	reg := opts.Registry
	if reg == nil {
		reg = vm.DefaultRegistry()
	}
	workers := s.Settings.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	cacheSize := s.Settings.CacheSize
	if opts.CacheSize > 0 {
		cacheSize = opts.CacheSize
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = &SilentReporter{}
	}

	names, err := s.Resolver()
	if err != nil {
		return nil, err
	}
	e := &Executor{
		Sheet:    s,
		Registry: reg,
		Store:    cas.NewLRUCache(cas.NewMemoryCAS(), cacheSize),
		Names:    names,
		Hashes:   make(map[string]cas.Hash, len(s.Equations)),
		Workers:  workers,
		Reporter: reporter,
	}
	for _, name := range s.Names() {
		p, err := s.Equations[name].BuildProgram(reg)
		if err != nil {
			return nil, fmt.Errorf("equation %q: %w", name, err)
		}
		h, err := e.Store.Put(p)
		if err != nil {
			return nil, fmt.Errorf("equation %q: %w", name, err)
		}
		e.Hashes[name] = h
		log.Debug().Str("equation", name).Str("hash", h.String()).Int("cells", p.Len()).Msg("compiled equation")
	}
	return e, nil
}

// Evaluate builds an executor for s and runs it.
func Evaluate(ctx context.Context, s *Sheet, opts Options) (*Report, error) {
	e, err := s.BuildExecutor(opts)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// Program fetches the stored program for one equation.
func (e *Executor) Program(name string) (*vm.Program, error) {
	h, ok := e.Hashes[name]
	if !ok {
		return nil, fmt.Errorf("no equation named %q", name)
	}
	return cas.Retrieve(e.Store, h, e.Registry)
}

// Run evaluates every equation and returns the results sorted by name.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID: uuid.NewString(),
	}
	names := e.Sheet.Names()
	log.Info().Str("run", report.RunID).Int("equations", len(names)).Int("workers", e.Workers).Msg("evaluating sheet")

	items := make([]*WorkItem, len(names))
	for i, name := range names {
		items[i] = &WorkItem{Index: i, Name: name, Hash: e.Hashes[name]}
	}
	report.Results = runPool(ctx, e.Workers, items, e.evaluate)

	report.Statistics = e.computeStatistics(report.Results, time.Since(start))
	log.Info().
		Str("run", report.RunID).
		Int("succeeded", report.Statistics.Succeeded).
		Int("failed", report.Statistics.Failed).
		Int("mismatched", report.Statistics.Mismatched).
		Dur("elapsed", report.Statistics.Elapsed).
		Msg("sheet evaluated")
	return report, nil
}

func (e *Executor) computeStatistics(results []Result, elapsed time.Duration) Statistics {
	cs := e.Store.Stats()
	st := Statistics{
		Equations:      len(results),
		UniquePrograms: e.Store.Len(),
		CacheHits:      cs.Hits,
		CacheMisses:    cs.Misses,
		Elapsed:        elapsed,
	}
	for _, r := range results {
		switch {
		case r.Mismatch != "":
			st.Mismatched++
		case r.Err != nil && !r.ErrorExpected:
			st.Failed++
		default:
			st.Succeeded++
		}
	}
	return st
}
