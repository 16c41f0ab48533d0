// Package aether compiles AetherraCode source into an executable plan of
// runtime facade calls. The pipeline is tokenize, parse, analyze, compile;
// CompileSource runs all four stages and returns everything they produced.
// Callers that need a single stage use the package for that stage directly:
// parser.Tokenize, parser.Parse, analysis.Analyze, compiler.Compile.
package aether

import (
	"aether/analysis"
	"aether/compiler"
	"aether/diag"
	"aether/parser"
	"aether/plan"
	"aether/trace"
)

// Result carries the output of every pipeline stage for one source text.
type Result struct {
	Tokens []parser.Token
	Tree   *parser.Tree
	Diags  []diag.Diagnostic
	Report *analysis.Report
	Plan   *plan.Plan
}

// Option configures a compile.
type Option func(*options)

type options struct {
	mode parser.Mode
}

// Strict stops the parse at the first syntax error. CompileSource then
// returns that error alongside the partial result.
func Strict() Option {
	return func(o *options) { o.mode = parser.Strict }
}

// CompileSource runs the full pipeline over source. It never panics on any
// input. In lenient mode (the default) the returned error is always nil and
// every finding rides in Result.Diags; in strict mode the first syntax
// error is returned, and the result still holds everything produced before
// the parse halted.
func CompileSource(source string, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	res := &Result{}

	tokens, lexWarnings := parser.Tokenize(source)
	res.Tokens = tokens
	res.Diags = append(res.Diags, lexWarnings...)
	if trace.IsEnabled() {
		trace.Stage(trace.StageLexer, "tokens=%d warnings=%d", len(tokens), len(lexWarnings))
	}

	tree, parseDiags := parser.Parse(tokens, o.mode)
	res.Tree = tree
	res.Diags = append(res.Diags, parseDiags...)
	if trace.IsEnabled() {
		trace.Stage(trace.StageParser, "statements=%d diagnostics=%d", len(tree.Statements()), len(parseDiags))
	}

	res.Report = analysis.Analyze(tree)
	if trace.IsEnabled() {
		trace.Stage(trace.StageAnalysis, "nodes=%d depth=%d complexity=%d errors=%d warnings=%d",
			res.Report.TotalNodes, res.Report.MaxDepth, res.Report.ComplexityScore,
			len(res.Report.Errors), len(res.Report.Warnings))
	}

	res.Plan = compiler.Compile(tree)
	if trace.IsEnabled() {
		trace.Stage(trace.StageCompiler, "calls=%d fingerprint=%s", res.Plan.Total(), res.Plan.Fingerprint())
	}

	if o.mode == parser.Strict {
		if d, ok := diag.First(res.Diags, diag.SyntaxError); ok {
			return res, d
		}
	}
	return res, nil
}
