package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator precedence levels (higher = tighter binding)
const (
	precedenceLowest = iota
	precedenceOr
	precedenceAnd
	precedenceEquality   // == !=
	precedenceComparison // < <= > >=
	precedenceAdditive   // + -
	precedenceMultiply   // * /
	precedenceUnary      // not -
	precedencePostfix    // %
)

// UnparseProgram converts the tree back to canonical source, one string
// per top-level statement. Block statements embed newlines.
func UnparseProgram(t *Tree) []string {
	stmts := t.Statements()
	if len(stmts) == 0 {
		return []string{}
	}

	var lines []string
	for _, id := range stmts {
		lines = append(lines, unparseNode(t, id, 0))
	}
	return lines
}

// Unparse renders the whole tree as one source text with a trailing
// newline. Parsing the result yields an equivalent tree, so the output
// is a fixpoint of parse and unparse.
func Unparse(t *Tree) string {
	lines := UnparseProgram(t)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// unparseNode converts one statement to source code
func unparseNode(t *Tree, id NodeID, indent int) string {
	indentStr := strings.Repeat("  ", indent)
	n := t.Node(id)

	switch n.Kind {
	case KindGoal:
		if n.Priority != "" {
			return indentStr + "goal: " + n.Objective + " priority: " + n.Priority
		}
		return indentStr + "goal: " + n.Objective

	case KindAgent:
		return indentStr + "agent: " + n.Command

	case KindMemory:
		return indentStr + unparseMemory(n)

	case KindIntent:
		var sb strings.Builder
		sb.WriteString(indentStr + n.Action)
		if n.Modifier != "" {
			sb.WriteString(" " + n.Modifier)
		}
		if n.Target != "" {
			sb.WriteString(" " + n.Target)
		}
		return sb.String()

	case KindConditional:
		var sb strings.Builder
		sb.WriteString(indentStr + n.CondKind.String() + " " + n.Condition + ":\n")
		unparseBlock(t, &sb, n.Body, indent+1)
		if n.ElseBody != nil {
			sb.WriteString(indentStr + "else:\n")
			unparseBlock(t, &sb, n.ElseBody, indent+1)
		}
		sb.WriteString(indentStr + "end")
		return sb.String()

	case KindPlugin:
		var sb strings.Builder
		sb.WriteString(indentStr + "plugin: " + n.Name + "\n")
		unparseBlock(t, &sb, n.Body, indent+1)
		sb.WriteString(indentStr + "end")
		return sb.String()

	case KindSelfMod:
		line := indentStr + n.ModOp.String() + " " + n.Target
		if n.Condition != "" {
			line += " if " + n.Condition
		}
		return line

	case KindFunctionDef:
		var sb strings.Builder
		sb.WriteString(indentStr + "define " + n.Name + "(" + strings.Join(n.Params, ", ") + ")\n")
		unparseBlock(t, &sb, n.Body, indent+1)
		sb.WriteString(indentStr + "end")
		return sb.String()

	case KindLoop:
		var sb strings.Builder
		if n.LoopKind == LoopFor {
			sb.WriteString(indentStr + "for " + n.Binder + " in " + n.Source + ":\n")
		} else {
			sb.WriteString(indentStr + "while " + n.Source + ":\n")
		}
		unparseBlock(t, &sb, n.Body, indent+1)
		sb.WriteString(indentStr + "end")
		return sb.String()

	case KindAssignment:
		return indentStr + n.Target + " = " + n.Value

	case KindComment:
		return indentStr + "# " + n.Text

	case KindProgram:
		var sb strings.Builder
		unparseBlock(t, &sb, n.Body, indent)
		return strings.TrimSuffix(sb.String(), "\n")

	default:
		return indentStr + fmt.Sprintf("<unknown statement: %s>", n.Kind)
	}
}

func unparseBlock(t *Tree, sb *strings.Builder, body []NodeID, indent int) {
	for _, id := range body {
		sb.WriteString(unparseNode(t, id, indent) + "\n")
	}
}

func unparseMemory(n *Node) string {
	switch n.MemOp {
	case MemRemember:
		line := "remember(" + strconv.Quote(n.Data) + ")"
		if n.Tag != "" {
			line += " as " + strconv.Quote(n.Tag)
		}
		return line

	case MemRecall:
		line := "recall " + n.Data
		if since, ok := n.Criteria["since"]; ok {
			line += " since " + strconv.Quote(since)
		}
		if category, ok := n.Criteria["category"]; ok {
			line += " in category " + strconv.Quote(category)
		}
		return line

	case MemPattern:
		line := "memory.pattern(" + strconv.Quote(n.Data)
		if freq, ok := n.Criteria["frequency"]; ok {
			line += ", frequency=" + strconv.Quote(freq)
		}
		return line + ")"

	default:
		return fmt.Sprintf("<unknown memory op: %s>", n.MemOp)
	}
}

// UnparseExpression renders a parsed expression back to source with
// minimal parentheses.
func UnparseExpression(t *ExprTree) string {
	return unparseExpr(t, t.Root, precedenceLowest)
}

func unparseExpr(t *ExprTree, id ExprID, parentPrecedence int) string {
	e := t.Expr(id)
	switch e.Kind {
	case ExprNumber:
		return fmt.Sprintf("%g", e.Num)

	case ExprString:
		return strconv.Quote(e.Str)

	case ExprIdent:
		return e.Name

	case ExprCall:
		return e.Name + "(" + unparseArgs(t, e.Args) + ")"

	case ExprArray:
		var elems []string
		for _, arg := range e.Args {
			elems = append(elems, unparseExpr(t, arg, precedenceLowest))
		}
		return "[" + strings.Join(elems, ", ") + "]"

	case ExprDict:
		var pairs []string
		for i, key := range e.Keys {
			k := unparseExpr(t, key, precedenceLowest)
			v := unparseExpr(t, e.Args[i], precedenceLowest)
			pairs = append(pairs, k+": "+v)
		}
		return "{" + strings.Join(pairs, ", ") + "}"

	case ExprUnary:
		if e.Op == "%" {
			return unparseExpr(t, e.Left, precedencePostfix) + "%"
		}
		operand := unparseExpr(t, e.Left, precedenceUnary)
		if e.Op == "not" {
			return "not " + operand
		}
		return e.Op + operand

	case ExprBinary:
		prec := binaryPrecedence(e.Op)
		left := unparseExpr(t, e.Left, prec)
		right := unparseExpr(t, e.Right, prec+1)
		result := left + " " + e.Op + " " + right
		if prec < parentPrecedence {
			return "(" + result + ")"
		}
		return result

	default:
		return fmt.Sprintf("<unknown expr kind: %d>", e.Kind)
	}
}

// binaryPrecedence returns the precedence level for a binary operator
func binaryPrecedence(op string) int {
	switch op {
	case "or":
		return precedenceOr
	case "and":
		return precedenceAnd
	case "==", "!=":
		return precedenceEquality
	case "<", "<=", ">", ">=":
		return precedenceComparison
	case "+", "-":
		return precedenceAdditive
	case "*", "/":
		return precedenceMultiply
	default:
		return precedenceLowest
	}
}

// unparseArgs converts argument expressions to a comma-separated string
func unparseArgs(t *ExprTree, args []ExprID) string {
	if len(args) == 0 {
		return ""
	}
	var parts []string
	for _, arg := range args {
		parts = append(parts, unparseExpr(t, arg, precedenceLowest))
	}
	return strings.Join(parts, ", ")
}
