package analysis

import (
	"fmt"
	"strings"

	"aether/parser"
)

// Report summarizes one parsed program: node statistics plus the
// structural problems the validator found. Errors mark nodes the emitter
// cannot compile; warnings mark nodes that are complete enough to run but
// probably not what the author meant.
type Report struct {
	NodeCounts      map[parser.NodeKind]int
	MaxDepth        int
	TotalNodes      int
	ComplexityScore int
	Errors          []string
	Warnings        []string
}

// complexityWeights is indexed by NodeKind. Block forms that branch or
// repeat cost 2, statement forms that reach the runtime cost 1, inert
// forms cost nothing.
var complexityWeights = [parser.KindCount]int{
	parser.KindProgram:     0,
	parser.KindGoal:        0,
	parser.KindAgent:       1,
	parser.KindMemory:      1,
	parser.KindIntent:      1,
	parser.KindConditional: 2,
	parser.KindPlugin:      1,
	parser.KindSelfMod:     0,
	parser.KindFunctionDef: 1,
	parser.KindLoop:        2,
	parser.KindAssignment:  0,
	parser.KindComment:     0,
}

// Analyze walks the tree and builds its report. The walk is read-only:
// the tree is shared with the emitter and must come out unchanged. The
// root Program node counts as depth 0.
func Analyze(t *parser.Tree) *Report {
	r := &Report{NodeCounts: make(map[parser.NodeKind]int)}
	t.Walk(func(n *parser.Node, depth int) {
		r.NodeCounts[n.Kind]++
		r.TotalNodes++
		if depth > r.MaxDepth {
			r.MaxDepth = depth
		}
		if n.Kind >= 0 && n.Kind < parser.KindCount {
			r.ComplexityScore += complexityWeights[n.Kind]
		}
		r.validate(n)
	})
	return r
}

// HasErrors reports whether validation found anything fatal to emission.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// validate applies the per-kind structural rules to one node.
func (r *Report) validate(n *parser.Node) {
	switch n.Kind {
	case parser.KindGoal:
		if n.Objective == "" {
			r.warnf(n.Line, "goal with empty objective")
		}

	case parser.KindAgent:
		if n.Command == "" {
			r.warnf(n.Line, "agent command is empty")
		}

	case parser.KindMemory:
		switch n.MemOp {
		case parser.MemRemember:
			if n.Data == "" {
				r.errorf(n.Line, "remember with empty data")
			}
		case parser.MemRecall:
			if n.Data == "" {
				r.warnf(n.Line, "recall with empty query")
			}
		case parser.MemPattern:
			if n.Data == "" {
				r.errorf(n.Line, "memory.pattern with empty pattern")
			}
		default:
			r.errorf(n.Line, "invalid memory operation %d", int(n.MemOp))
		}

	case parser.KindIntent:
		if n.Target == "" {
			r.warnf(n.Line, "%s statement has no target", n.Action)
		}

	case parser.KindConditional:
		if n.Condition == "" {
			r.warnf(n.Line, "%s block with empty condition", n.CondKind)
		}

	case parser.KindPlugin:
		if n.Name == "" {
			r.errorf(n.Line, "plugin block missing name")
		}

	case parser.KindFunctionDef:
		if n.Name == "" {
			r.errorf(n.Line, "function definition missing name")
		}

	case parser.KindLoop:
		if n.LoopKind == parser.LoopFor && n.Binder == "" {
			r.errorf(n.Line, "for loop missing its loop variable")
		}
		if n.Source == "" {
			r.warnf(n.Line, "%s loop with empty source", n.LoopKind)
		}
	}
}

func (r *Report) errorf(line int, format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

func (r *Report) warnf(line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

// String renders the one-screen summary the CLI prints. Counts are listed
// in NodeKind order so the output is stable across runs.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d nodes, max depth %d, complexity %d\n", r.TotalNodes, r.MaxDepth, r.ComplexityScore)
	for k := parser.NodeKind(0); k < parser.KindCount; k++ {
		if c := r.NodeCounts[k]; c > 0 {
			fmt.Fprintf(&sb, "  %-16s %d\n", k.String(), c)
		}
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "error: %s\n", e)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "warning: %s\n", w)
	}
	return sb.String()
}
