package parser

import (
	"strings"
	"testing"

	"aether/diag"
)

func TestParseWhenBlock(t *testing.T) {
	source := `when error_rate > 5%:
  analyze logs
  suggest fix for "performance"
end
`
	tree, stmts := parseSource(t, source, Lenient)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}

	cond := tree.Node(stmts[0])
	if cond.Kind != KindConditional || cond.CondKind != CondWhen {
		t.Fatalf("node = %s/%s, want conditional/when", cond.Kind, cond.CondKind)
	}
	if cond.Condition != "error_rate > 5%" {
		t.Errorf("condition = %q, want %q", cond.Condition, "error_rate > 5%")
	}
	if len(cond.Body) != 2 {
		t.Fatalf("body has %d statements, want 2", len(cond.Body))
	}

	intent := tree.Node(cond.Body[0])
	if intent.Kind != KindIntent || intent.Action != "analyze" || intent.Target != "logs" {
		t.Errorf("body[0] = %s %q %q, want analyze logs", intent.Kind, intent.Action, intent.Target)
	}

	mod := tree.Node(cond.Body[1])
	if mod.Kind != KindSelfMod || mod.ModOp != ModSuggest {
		t.Fatalf("body[1] = %s/%s, want self-mod/suggest", mod.Kind, mod.ModOp)
	}
	if mod.Target != `fix for "performance"` {
		t.Errorf("suggest target = %q, want %q", mod.Target, `fix for "performance"`)
	}
	if cond.ElseBody != nil {
		t.Errorf("else body = %v, want none", cond.ElseBody)
	}
}

func TestParseIfElseBlock(t *testing.T) {
	source := `if cpu_usage > 80:
  agent: throttle requests
else:
  agent: resume normal operation
end
`
	tree, stmts := parseSource(t, source, Lenient)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}

	cond := tree.Node(stmts[0])
	if cond.Kind != KindConditional || cond.CondKind != CondIf {
		t.Fatalf("node = %s/%s, want conditional/if", cond.Kind, cond.CondKind)
	}
	if len(cond.Body) != 1 || len(cond.ElseBody) != 1 {
		t.Fatalf("body/else sizes = %d/%d, want 1/1", len(cond.Body), len(cond.ElseBody))
	}
	if got := tree.Node(cond.Body[0]).Command; got != "throttle requests" {
		t.Errorf("then command = %q, want %q", got, "throttle requests")
	}
	if got := tree.Node(cond.ElseBody[0]).Command; got != "resume normal operation" {
		t.Errorf("else command = %q, want %q", got, "resume normal operation")
	}
}

func TestParseNestedConditionals(t *testing.T) {
	source := `when outer > 1:
  when inner > 2:
    agent: deep work
  end
  agent: after nested
end
`
	tree, stmts := parseSource(t, source, Lenient)
	outer := tree.Node(stmts[0])
	if len(outer.Body) != 2 {
		t.Fatalf("outer body has %d statements, want 2", len(outer.Body))
	}

	inner := tree.Node(outer.Body[0])
	if inner.Kind != KindConditional || inner.Condition != "inner > 2" {
		t.Fatalf("inner = %s %q, want conditional %q", inner.Kind, inner.Condition, "inner > 2")
	}
	if len(inner.Body) != 1 {
		t.Fatalf("inner body has %d statements, want 1", len(inner.Body))
	}
	if got := tree.Node(inner.Body[0]).Command; got != "deep work" {
		t.Errorf("inner command = %q, want %q", got, "deep work")
	}
}

func TestParsePluginBlock(t *testing.T) {
	source := `plugin: monitoring
  agent: watch dashboards
  analyze trends
end
`
	tree, stmts := parseSource(t, source, Lenient)
	plugin := tree.Node(stmts[0])
	if plugin.Kind != KindPlugin {
		t.Fatalf("node kind = %s, want %s", plugin.Kind, KindPlugin)
	}
	if plugin.Name != "monitoring" {
		t.Errorf("plugin name = %q, want %q", plugin.Name, "monitoring")
	}
	if len(plugin.Body) != 2 {
		t.Errorf("plugin body has %d statements, want 2", len(plugin.Body))
	}
}

func TestParseFunctionDef(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantName   string
		wantParams []string
		wantBody   int
	}{
		{
			"two params",
			"define deploy(env, version)\n  agent: push release\nend\n",
			"deploy", []string{"env", "version"}, 1,
		},
		{
			"no params",
			"define init()\n  remember(\"started\")\nend\n",
			"init", []string{}, 1,
		},
		{
			"trailing colon",
			"define check(host):\n  analyze host\nend\n",
			"check", []string{"host"}, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, stmts := parseSource(t, tt.source, Lenient)
			fn := tree.Node(stmts[0])
			if fn.Kind != KindFunctionDef {
				t.Fatalf("node kind = %s, want %s", fn.Kind, KindFunctionDef)
			}
			if fn.Name != tt.wantName {
				t.Errorf("name = %q, want %q", fn.Name, tt.wantName)
			}
			if len(fn.Params) != len(tt.wantParams) {
				t.Fatalf("params = %v, want %v", fn.Params, tt.wantParams)
			}
			for i, want := range tt.wantParams {
				if fn.Params[i] != want {
					t.Errorf("param[%d] = %q, want %q", i, fn.Params[i], want)
				}
			}
			if len(fn.Body) != tt.wantBody {
				t.Errorf("body has %d statements, want %d", len(fn.Body), tt.wantBody)
			}
		})
	}
}

func TestParseForLoop(t *testing.T) {
	source := `for task in pending_tasks:
  agent: process task
end
`
	tree, stmts := parseSource(t, source, Lenient)
	loop := tree.Node(stmts[0])
	if loop.Kind != KindLoop || loop.LoopKind != LoopFor {
		t.Fatalf("node = %s/%s, want loop/for", loop.Kind, loop.LoopKind)
	}
	if loop.Binder != "task" {
		t.Errorf("binder = %q, want %q", loop.Binder, "task")
	}
	if loop.Source != "pending_tasks" {
		t.Errorf("source = %q, want %q", loop.Source, "pending_tasks")
	}
	if len(loop.Body) != 1 {
		t.Errorf("body has %d statements, want 1", len(loop.Body))
	}
}

func TestParseWhileLoop(t *testing.T) {
	source := `while queue_depth > 0:
  agent: drain one item
end
`
	tree, stmts := parseSource(t, source, Lenient)
	loop := tree.Node(stmts[0])
	if loop.Kind != KindLoop || loop.LoopKind != LoopWhile {
		t.Fatalf("node = %s/%s, want loop/while", loop.Kind, loop.LoopKind)
	}
	if loop.Binder != "" {
		t.Errorf("binder = %q, want empty", loop.Binder)
	}
	if loop.Source != "queue_depth > 0" {
		t.Errorf("source = %q, want %q", loop.Source, "queue_depth > 0")
	}
}

func TestParseMissingEndReportsHeaderLine(t *testing.T) {
	source := `agent: on
when error_rate > 5%:
  agent: investigate
`
	tokens, _ := Tokenize(source)
	tree, diags := Parse(tokens, Lenient)

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Kind != diag.SyntaxError {
		t.Errorf("diagnostic kind = %v, want %v", d.Kind, diag.SyntaxError)
	}
	if d.Line != 2 {
		t.Errorf("diagnostic line = %d, want 2 (the 'when' header)", d.Line)
	}
	if !strings.Contains(d.Msg, "when") {
		t.Errorf("diagnostic %q does not mention the 'when' block", d.Msg)
	}

	// The statements before the broken block survive.
	stmts := tree.Statements()
	if len(stmts) != 1 || tree.Node(stmts[0]).Kind != KindAgent {
		t.Errorf("got %d surviving statements, want the leading agent statement", len(stmts))
	}
}

func TestParseUnknownStatementWarns(t *testing.T) {
	source := `frobnicate the widgets
agent: on
run diagnostics
`
	tokens, _ := Tokenize(source)
	tree, diags := Parse(tokens, Lenient)

	stmts := tree.Statements()
	if len(stmts) != 1 || tree.Node(stmts[0]).Kind != KindAgent {
		t.Fatalf("got %d statements, want just the agent statement", len(stmts))
	}

	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2 warnings: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Kind != diag.ParseWarning {
			t.Errorf("diagnostic kind = %v, want %v", d.Kind, diag.ParseWarning)
		}
	}
	if !strings.Contains(diags[0].Msg, "frobnicate the widgets") {
		t.Errorf("warning %q does not quote the skipped line", diags[0].Msg)
	}
}

func TestParseLenientRecoversInsideBlock(t *testing.T) {
	source := `when error_rate > 5%:
  remember(oops)
  agent: recover
end
`
	tokens, _ := Tokenize(source)
	tree, diags := Parse(tokens, Lenient)

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Kind != diag.SyntaxError {
		t.Errorf("diagnostic kind = %v, want %v", diags[0].Kind, diag.SyntaxError)
	}

	stmts := tree.Statements()
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	cond := tree.Node(stmts[0])
	if len(cond.Body) != 1 {
		t.Fatalf("block body has %d statements, want the recovered agent statement", len(cond.Body))
	}
	if got := tree.Node(cond.Body[0]).Command; got != "recover" {
		t.Errorf("recovered command = %q, want %q", got, "recover")
	}
}

func TestParseStrictStopsAtFirstError(t *testing.T) {
	source := `goal reduce latency
agent: on
`
	tokens, _ := Tokenize(source)

	lenientTree, lenientDiags := Parse(tokens, Lenient)
	if got := len(lenientTree.Statements()); got != 1 {
		t.Errorf("lenient parse kept %d statements, want 1", got)
	}
	if len(lenientDiags) != 1 {
		t.Errorf("lenient parse recorded %d diagnostics, want 1", len(lenientDiags))
	}

	strictTree, strictDiags := Parse(tokens, Strict)
	if got := len(strictTree.Statements()); got != 0 {
		t.Errorf("strict parse kept %d statements, want 0", got)
	}
	if len(strictDiags) != 1 {
		t.Fatalf("strict parse recorded %d diagnostics, want 1", len(strictDiags))
	}
	if strictDiags[0].Kind != diag.SyntaxError {
		t.Errorf("diagnostic kind = %v, want %v", strictDiags[0].Kind, diag.SyntaxError)
	}
}

func TestParseStrictKeepsEarlierStatements(t *testing.T) {
	source := `agent: on
remember(broken
agent: never reached
`
	tokens, _ := Tokenize(source)
	tree, diags := Parse(tokens, Strict)

	stmts := tree.Statements()
	if len(stmts) != 1 || tree.Node(stmts[0]).Kind != KindAgent {
		t.Fatalf("got %d statements, want the one parsed before the error", len(stmts))
	}
	if len(diags) != 1 {
		t.Errorf("got %d diagnostics, want 1", len(diags))
	}
}

func TestParseAlwaysReturnsProgramRoot(t *testing.T) {
	inputs := []string{
		"",
		"garbage ~~~",
		"when x:\n",
		"end",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens, _ := Tokenize(input)
			tree, _ := Parse(tokens, Lenient)
			if tree == nil {
				t.Fatal("Parse() returned nil tree")
			}
			root := tree.Node(tree.Root)
			if root == nil || root.Kind != KindProgram {
				t.Fatalf("root kind = %v, want %s", root, KindProgram)
			}
		})
	}
}
