package conformance

import (
	"fmt"
	"strings"

	"aether"
)

// Result represents the outcome of running a single case
type Result struct {
	Case       LoadedCase
	Passed     bool
	Skipped    bool
	SkipReason string
	Err        error
}

// Runner executes conformance cases. It holds no state: every case compiles
// from scratch, and every case compiles twice so nondeterminism in the
// pipeline fails the corpus even where no expectation would catch it.
type Runner struct{}

// NewRunner creates a new case runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes a single case
func (r *Runner) Run(lc LoadedCase) Result {
	if skipped, reason := lc.Case.IsSkipped(); skipped {
		return Result{Case: lc, Skipped: true, SkipReason: reason}
	}

	var opts []aether.Option
	if lc.Case.Strict {
		opts = append(opts, aether.Strict())
	}

	res, compileErr := aether.CompileSource(lc.Case.Source, opts...)
	again, _ := aether.CompileSource(lc.Case.Source, opts...)

	if a, b := res.Plan.Fingerprint(), again.Plan.Fingerprint(); a != b {
		return Result{Case: lc, Err: fmt.Errorf("nondeterministic compile: fingerprints %s and %s", a, b)}
	}
	if a, b := res.Plan.StringNoColor(), again.Plan.StringNoColor(); a != b {
		return Result{Case: lc, Err: fmt.Errorf("nondeterministic plan rendering:\n%s\nvs:\n%s", a, b)}
	}

	if err := checkExpectation(lc.Case, res, compileErr); err != nil {
		return Result{Case: lc, Err: err}
	}
	return Result{Case: lc, Passed: true}
}

// RunAll executes all loaded cases
func (r *Runner) RunAll(cases []LoadedCase) []Result {
	results := make([]Result, len(cases))
	for i, lc := range cases {
		results[i] = r.Run(lc)
	}
	return results
}

// checkExpectation checks the compile output against the case's expectation
func checkExpectation(c Case, res *aether.Result, compileErr error) error {
	expect := c.Expect

	if !c.Strict && compileErr != nil {
		return fmt.Errorf("lenient compile returned error: %w", compileErr)
	}
	if c.Strict && compileErr != nil && len(expect.Errors) == 0 {
		return fmt.Errorf("unexpected strict-mode error: %w", compileErr)
	}
	if c.Strict && compileErr == nil && len(expect.Errors) > 0 {
		return fmt.Errorf("strict compile succeeded, want an error containing %q", expect.Errors[0])
	}

	if expect.Plan != "" {
		got := strings.TrimRight(res.Plan.StringNoColor(), "\n")
		want := strings.TrimRight(expect.Plan, "\n")
		if got != want {
			return fmt.Errorf("plan mismatch:\ngot:\n%s\nwant:\n%s", got, want)
		}
	}

	errorText := errorFindings(res, compileErr)
	for _, want := range expect.Errors {
		if !containsAny(errorText, want) {
			return fmt.Errorf("no error finding contains %q; findings: %v", want, errorText)
		}
	}

	warnText := warningFindings(res)
	for _, want := range expect.Warnings {
		if !containsAny(warnText, want) {
			return fmt.Errorf("no warning finding contains %q; findings: %v", want, warnText)
		}
	}

	if expect.TotalNodes != nil && res.Report.TotalNodes != *expect.TotalNodes {
		return fmt.Errorf("total nodes = %d, want %d", res.Report.TotalNodes, *expect.TotalNodes)
	}
	if expect.MaxDepth != nil && res.Report.MaxDepth != *expect.MaxDepth {
		return fmt.Errorf("max depth = %d, want %d", res.Report.MaxDepth, *expect.MaxDepth)
	}
	if expect.Complexity != nil && res.Report.ComplexityScore != *expect.Complexity {
		return fmt.Errorf("complexity = %d, want %d", res.Report.ComplexityScore, *expect.Complexity)
	}

	return nil
}

// errorFindings gathers every error-severity finding of one compile: fatal
// diagnostics, validation errors and compile_error markers.
func errorFindings(res *aether.Result, compileErr error) []string {
	var out []string
	for _, d := range res.Diags {
		if d.Kind.IsError() {
			out = append(out, d.Error())
		}
	}
	out = append(out, res.Report.Errors...)
	out = append(out, res.Plan.Errors()...)
	if compileErr != nil {
		out = append(out, compileErr.Error())
	}
	return out
}

// warningFindings gathers lex/parse warnings and validation warnings.
func warningFindings(res *aether.Result) []string {
	var out []string
	for _, d := range res.Diags {
		if !d.Kind.IsError() {
			out = append(out, d.Error())
		}
	}
	out = append(out, res.Report.Warnings...)
	return out
}

func containsAny(findings []string, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}

// SummaryStats computes statistics from case results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from case results
func ComputeStats(results []Result) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}
