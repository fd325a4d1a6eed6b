package model

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives a line per equation as workers finish evaluating
// them. Printf may be called from several workers at once.
type Reporter interface {
	Printf(format string, args ...interface{})
}

// SilentReporter drops every progress line, for --format json and tests.
type SilentReporter struct{}

func (r *SilentReporter) Printf(format string, args ...interface{}) {}

// ColorReporter writes equation names to Writer (stderr under --progress),
// one worker at a time.
type ColorReporter struct {
	Writer io.Writer
	mu     sync.Mutex
}

func (r *ColorReporter) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.Writer, format, args...)
}
