// Package trace provides opt-in pipeline tracing for debugging. The zero
// state traces nothing; callers gate any formatting work behind IsEnabled.
package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Pipeline stage names. Stage accepts any string, but the pipeline only
// emits these, and trace filters are matched against them.
const (
	StageLexer    = "lexer"
	StageParser   = "parser"
	StageAnalysis = "analysis"
	StageCompiler = "compiler"
)

// Tracer writes trace lines for pipeline stages
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// Init initializes the global tracer. Filters are filepath.Match patterns
// against stage names; no filters means every stage is traced.
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// matchesFilter checks if a stage name matches any of the filter patterns
func (t *Tracer) matchesFilter(stage string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, stage); matched {
			return true
		}
	}
	return false
}

// Stage logs one line for a pipeline stage
func (t *Tracer) Stage(stage, format string, args ...any) {
	if !t.enabled || !t.matchesFilter(stage) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] %-8s %s\n", strings.ToUpper(stage), fmt.Sprintf(format, args...))
}

// Stage logs one line for a pipeline stage using the global tracer
func Stage(stage, format string, args ...any) {
	if globalTracer != nil {
		globalTracer.Stage(stage, format, args...)
	}
}
