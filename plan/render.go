package plan

import (
	"fmt"
	"sort"
	"strings"
)

// ANSI escape sequences used by the colored renderer.
const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiBlue   = "\033[34m"
	ansiGreen  = "\033[32m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
)

// String renders the plan as a box-drawing tree with ANSI colors.
func (p *Plan) String() string {
	var sb strings.Builder
	renderPlan(&sb, p, "", true)
	return sb.String()
}

// StringNoColor renders the plan as a box-drawing tree without colors.
// The output is stable across runs and is what conformance fixtures match.
func (p *Plan) StringNoColor() string {
	var sb strings.Builder
	renderPlan(&sb, p, "", false)
	return sb.String()
}

func renderPlan(sb *strings.Builder, p *Plan, prefix string, color bool) {
	if p == nil {
		return
	}
	for i := range p.Calls {
		renderCall(sb, &p.Calls[i], prefix, i == len(p.Calls)-1, color)
	}
}

func renderCall(sb *strings.Builder, c *Call, prefix string, last, color bool) {
	connector := "├─ "
	childPrefix := prefix + "│  "
	if last {
		connector = "└─ "
		childPrefix = prefix + "   "
	}

	sb.WriteString(prefix)
	sb.WriteString(connector)
	sb.WriteString(paint(c.Op.String(), opColor(c.Op), color))
	sb.WriteString(callFields(c))
	sb.WriteByte('\n')

	switch c.Op {
	case OpExecuteConditional:
		renderBranch(sb, "then", c.Then, childPrefix, c.Else == nil, color)
		if c.Else != nil {
			renderBranch(sb, "else", c.Else, childPrefix, true, color)
		}
	case OpExecuteLoop, OpLoadPlugin, OpDefineFunction:
		renderPlan(sb, c.Body, childPrefix, color)
	}
}

// renderBranch prints a then/else label as a pseudo-node so the two arms of
// a conditional cannot be confused with sibling calls.
func renderBranch(sb *strings.Builder, label string, p *Plan, prefix string, last, color bool) {
	connector := "├─ "
	childPrefix := prefix + "│  "
	if last {
		connector = "└─ "
		childPrefix = prefix + "   "
	}
	sb.WriteString(prefix)
	sb.WriteString(connector)
	sb.WriteString(paint(label, ansiDim, color))
	sb.WriteByte('\n')
	renderPlan(sb, p, childPrefix, color)
}

// callFields renders the payload of a call as key="value" pairs in a fixed
// order per operation. Empty fields are omitted; recall criteria are sorted
// by key so rendering stays deterministic.
func callFields(c *Call) string {
	var b strings.Builder
	add := func(key, val string) {
		if val == "" {
			return
		}
		fmt.Fprintf(&b, " %s=%q", key, val)
	}
	switch c.Op {
	case OpSetGoal:
		add("objective", c.Objective)
		add("priority", c.Priority)
	case OpAgentCommand:
		add("command", c.Command)
	case OpMemoryRemember:
		add("data", c.Data)
		add("tag", c.Tag)
	case OpMemoryRecall:
		add("query", c.Query)
		for _, k := range sortedKeys(c.Criteria) {
			add(k, c.Criteria[k])
		}
	case OpMemoryPattern:
		add("pattern", c.Pattern)
		add("frequency", c.Frequency)
	case OpExecuteIntent:
		add("action", c.Action)
		add("target", c.Target)
		add("modifier", c.Modifier)
	case OpExecuteConditional:
		add("kind", c.Kind)
		add("condition", c.Condition)
	case OpExecuteLoop:
		add("kind", c.Kind)
		add("binder", c.Binder)
		add("source", c.Source)
	case OpLoadPlugin:
		add("name", c.Name)
	case OpSuggestFix, OpApplyFix:
		add("target", c.Target)
		add("condition", c.Condition)
	case OpDefineFunction:
		add("name", c.Name)
		if len(c.Params) > 0 {
			add("params", strings.Join(c.Params, ", "))
		}
	case OpAssign:
		add("target", c.Target)
		add("value", c.Value)
	case OpCompileError:
		fmt.Fprintf(&b, " line=%d", c.Line)
		add("message", c.Message)
	}
	return b.String()
}

func opColor(op CallOp) string {
	switch op {
	case OpSetGoal:
		return ansiBlue
	case OpMemoryRemember, OpMemoryRecall, OpMemoryPattern:
		return ansiGreen
	case OpExecuteConditional, OpExecuteLoop, OpLoadPlugin, OpDefineFunction:
		return ansiCyan
	case OpCompileError:
		return ansiYellow
	default:
		return ""
	}
}

func paint(s, color string, enabled bool) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + ansiReset
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
