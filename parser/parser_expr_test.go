package parser

import (
	"strings"
	"testing"
)

func TestParseExpressionOrBindsLooserThanAnd(t *testing.T) {
	tree, err := ParseExpression("a or b and c")
	if err != nil {
		t.Fatalf("ParseExpression() error = %v", err)
	}

	root := tree.Expr(tree.Root)
	if root.Kind != ExprBinary || root.Op != "or" {
		t.Fatalf("root = %v %q, want binary or", root.Kind, root.Op)
	}

	left := tree.Expr(root.Left)
	if left.Kind != ExprIdent || left.Name != "a" {
		t.Errorf("left = %v %q, want identifier a", left.Kind, left.Name)
	}

	right := tree.Expr(root.Right)
	if right.Kind != ExprBinary || right.Op != "and" {
		t.Fatalf("right = %v %q, want binary and", right.Kind, right.Op)
	}
	if b := tree.Expr(right.Left); b.Name != "b" {
		t.Errorf("and left = %q, want b", b.Name)
	}
	if c := tree.Expr(right.Right); c.Name != "c" {
		t.Errorf("and right = %q, want c", c.Name)
	}
}

func TestParseExpressionCanonicalForms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a or b and c", "a or b and c"},
		{"(a or b) and c", "(a or b) and c"},
		{"not ready", "not ready"},
		{"not a and b", "not a and b"},
		{"error_rate > 5%", "error_rate > 5%"},
		{"x == y or x != z", "x == y or x != z"},
		{"a + b * c", "a + b * c"},
		{"(a + b) * c", "(a + b) * c"},
		{"a > b > c", "a > b > c"},
		{"-x + y", "-x + y"},
		{"latency <= 250", "latency <= 250"},
		{`status == "ok"`, `status == "ok"`},
		{"3.5 > 2", "3.5 > 2"},
		{`load(5, "srv")`, `load(5, "srv")`},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{`{mode: "fast", retries: 3}`, `{mode: "fast", retries: 3}`},
		{"depth([a, b]) > limit", "depth([a, b]) > limit"},
		{"((x))", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("ParseExpression(%q) error = %v", tt.input, err)
			}
			if got := UnparseExpression(tree); got != tt.want {
				t.Errorf("UnparseExpression() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseExpressionNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"0.5", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("ParseExpression(%q) error = %v", tt.input, err)
			}
			root := tree.Expr(tree.Root)
			if root.Kind != ExprNumber {
				t.Fatalf("root kind = %v, want number", root.Kind)
			}
			if root.Num != tt.want {
				t.Errorf("value = %v, want %v", root.Num, tt.want)
			}
		})
	}
}

func TestParseExpressionPercentIsPostfix(t *testing.T) {
	tree, err := ParseExpression("5%")
	if err != nil {
		t.Fatalf("ParseExpression() error = %v", err)
	}
	root := tree.Expr(tree.Root)
	if root.Kind != ExprUnary || root.Op != "%" {
		t.Fatalf("root = %v %q, want unary %%", root.Kind, root.Op)
	}
	if operand := tree.Expr(root.Left); operand.Kind != ExprNumber || operand.Num != 5 {
		t.Errorf("operand = %v %v, want number 5", operand.Kind, operand.Num)
	}
}

func TestParseExpressionCalls(t *testing.T) {
	tree, err := ParseExpression(`health("db", 3) and ready`)
	if err != nil {
		t.Fatalf("ParseExpression() error = %v", err)
	}
	root := tree.Expr(tree.Root)
	if root.Op != "and" {
		t.Fatalf("root op = %q, want and", root.Op)
	}
	call := tree.Expr(root.Left)
	if call.Kind != ExprCall || call.Name != "health" {
		t.Fatalf("left = %v %q, want call health", call.Kind, call.Name)
	}
	if len(call.Args) != 2 {
		t.Fatalf("call has %d args, want 2", len(call.Args))
	}
	if arg := tree.Expr(call.Args[0]); arg.Kind != ExprString || arg.Str != "db" {
		t.Errorf("arg[0] = %v %q, want string db", arg.Kind, arg.Str)
	}
	if arg := tree.Expr(call.Args[1]); arg.Kind != ExprNumber || arg.Num != 3 {
		t.Errorf("arg[1] = %v %v, want number 3", arg.Kind, arg.Num)
	}
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantSub string
	}{
		{"", "unexpected"},
		{"a or", "unexpected"},
		{"a b", "after expression"},
		{"(a", "expected ')'"},
		{"load(1", "unterminated call"},
		{"[1, 2", "unterminated array"},
		{"{a: 1", "unterminated dict"},
		{"{a 1}", "expected ':'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseExpression(tt.input)
			if err == nil {
				t.Fatalf("ParseExpression(%q) succeeded, want error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}
