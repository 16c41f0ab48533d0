// Package compiler lowers a parse tree to an executable plan of runtime
// facade calls. Lowering never fails: statements the runtime cannot execute
// become compile_error marker calls in place, so one bad statement does not
// hide its siblings.
package compiler

import (
	"fmt"

	"aether/parser"
	"aether/plan"
)

// Compiler lowers one tree. It holds no state beyond the tree; lowering is
// a single walk emitting one call per statement in source order.
type Compiler struct {
	tree *parser.Tree
}

// New returns a compiler for the tree.
func New(t *parser.Tree) *Compiler {
	return &Compiler{tree: t}
}

// Compile lowers t to a plan. The plan owns its payload: parameter lists
// and criteria maps are copied out of the arena, so the tree can be dropped
// once the plan is emitted.
func Compile(t *parser.Tree) *plan.Plan {
	return New(t).Compile()
}

// Compile lowers the compiler's tree. An empty or absent tree lowers to an
// empty plan, never nil.
func (c *Compiler) Compile() *plan.Plan {
	if c.tree == nil || len(c.tree.Nodes) == 0 {
		return &plan.Plan{}
	}
	return c.compileBlock(c.tree.Statements())
}

func (c *Compiler) compileBlock(ids []parser.NodeID) *plan.Plan {
	p := &plan.Plan{Calls: make([]plan.Call, 0, len(ids))}
	for _, id := range ids {
		if call, ok := c.compileNode(id); ok {
			p.Calls = append(p.Calls, call)
		}
	}
	return p
}

// compileNode lowers one statement. The second result is false for nodes
// that emit nothing (comments). Every NodeKind must be handled here; the
// coverage test feeds one node of each kind through and rejects the
// unknown-kind marker.
func (c *Compiler) compileNode(id parser.NodeID) (plan.Call, bool) {
	n := c.tree.Node(id)
	switch n.Kind {
	case parser.KindGoal:
		return plan.Call{
			Op:        plan.OpSetGoal,
			Line:      n.Line,
			Objective: n.Objective,
			Priority:  n.Priority,
		}, true

	case parser.KindAgent:
		return plan.Call{Op: plan.OpAgentCommand, Line: n.Line, Command: n.Command}, true

	case parser.KindMemory:
		return c.compileMemory(n), true

	case parser.KindIntent:
		return plan.Call{
			Op:       plan.OpExecuteIntent,
			Line:     n.Line,
			Action:   n.Action,
			Target:   n.Target,
			Modifier: n.Modifier,
		}, true

	case parser.KindConditional:
		call := plan.Call{
			Op:        plan.OpExecuteConditional,
			Line:      n.Line,
			Kind:      n.CondKind.String(),
			Condition: n.Condition,
			Then:      c.compileBlock(n.Body),
		}
		// ElseBody is non-nil exactly when the source had an else branch,
		// even an empty one. An absent branch stays a nil plan so the
		// facade receives a nil thunk.
		if n.ElseBody != nil {
			call.Else = c.compileBlock(n.ElseBody)
		}
		return call, true

	case parser.KindPlugin:
		if n.Name == "" {
			return errorCall(n.Line, "plugin block missing name"), true
		}
		return plan.Call{
			Op:   plan.OpLoadPlugin,
			Line: n.Line,
			Name: n.Name,
			Body: c.compileBlock(n.Body),
		}, true

	case parser.KindSelfMod:
		op := plan.OpSuggestFix
		if n.ModOp == parser.ModApply {
			op = plan.OpApplyFix
		}
		return plan.Call{Op: op, Line: n.Line, Target: n.Target, Condition: n.Condition}, true

	case parser.KindFunctionDef:
		if n.Name == "" {
			return errorCall(n.Line, "function definition missing name"), true
		}
		return plan.Call{
			Op:     plan.OpDefineFunction,
			Line:   n.Line,
			Name:   n.Name,
			Params: append([]string(nil), n.Params...),
			Body:   c.compileBlock(n.Body),
		}, true

	case parser.KindLoop:
		if n.LoopKind == parser.LoopFor && n.Binder == "" {
			return errorCall(n.Line, "for loop missing its loop variable"), true
		}
		return plan.Call{
			Op:     plan.OpExecuteLoop,
			Line:   n.Line,
			Kind:   n.LoopKind.String(),
			Binder: n.Binder,
			Source: n.Source,
			Body:   c.compileBlock(n.Body),
		}, true

	case parser.KindAssignment:
		return plan.Call{Op: plan.OpAssign, Line: n.Line, Target: n.Target, Value: n.Value}, true

	case parser.KindComment, parser.KindProgram:
		return plan.Call{}, false

	default:
		return errorCall(n.Line, fmt.Sprintf("unknown node kind %d", n.Kind)), true
	}
}

func (c *Compiler) compileMemory(n *parser.Node) plan.Call {
	switch n.MemOp {
	case parser.MemRemember:
		if n.Data == "" {
			return errorCall(n.Line, "remember with empty data")
		}
		return plan.Call{Op: plan.OpMemoryRemember, Line: n.Line, Data: n.Data, Tag: n.Tag}

	case parser.MemRecall:
		return plan.Call{
			Op:       plan.OpMemoryRecall,
			Line:     n.Line,
			Query:    n.Data,
			Criteria: copyCriteria(n.Criteria),
		}

	case parser.MemPattern:
		if n.Data == "" {
			return errorCall(n.Line, "memory.pattern with empty pattern")
		}
		return plan.Call{
			Op:        plan.OpMemoryPattern,
			Line:      n.Line,
			Pattern:   n.Data,
			Frequency: n.Criteria["frequency"],
		}

	default:
		return errorCall(n.Line, fmt.Sprintf("invalid memory operation %d", n.MemOp))
	}
}

func errorCall(line int, message string) plan.Call {
	return plan.Call{Op: plan.OpCompileError, Line: line, Message: message}
}

func copyCriteria(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
