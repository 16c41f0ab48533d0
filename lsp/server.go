package lsp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"aether"
	"aether/diag"
	"aether/parser"
	"aether/plan"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{content: make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		// Required by spec.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		return fn(ctx, conn, *req.Params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	delete(s.content, uri)
	// An empty document has no findings, so this clears the client's list.
	go publishDiagnostics(ctx, conn, uri, "")
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	idx := lspPositionToIdx(content, params.Position)

	tokens, _ := parser.Tokenize(content)
	for _, tok := range tokens {
		start, end := tok.Position.Offset, tok.Position.Offset+len(tok.Value)
		if idx < start || idx >= end {
			continue
		}
		doc, ok := keywordDocs[tok.Value]
		if !tok.Type.IsKeyword() || !ok {
			break
		}
		r := lsp.Range{
			Start: lspPositionFromIdx(content, start),
			End:   lspPositionFromIdx(content, end),
		}
		return lsp.Hover{
			Contents: []lsp.MarkedString{
				{Language: "aetherra", Value: doc.signature},
				lsp.RawMarkedString(doc.detail),
			},
			Range: &r,
		}, nil
	}
	return lsp.Hover{}, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	idx := lspPositionToIdx(content, params.Position)
	start := wordStart(content, idx)
	prefix := content[start:idx]
	lspRange := lsp.Range{
		Start: lspPositionFromIdx(content, start),
		End:   lspPositionFromIdx(content, idx),
	}

	items := []lsp.CompletionItem{}
	for _, c := range candidates(content) {
		if !strings.HasPrefix(c.label, prefix) {
			continue
		}
		items = append(items, lsp.CompletionItem{
			Label: c.label,
			Kind:  c.kind,
			TextEdit: &lsp.TextEdit{
				Range:   lspRange,
				NewText: c.label,
			},
		})
	}
	return items, nil
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(content)})
}

// diagnostics runs the pipeline over the document and converts everything
// it reports. Lex and parse findings carry a column and get a token-sized
// range; compile markers and analysis warnings are statement-level and
// span their line.
func diagnostics(content string) []lsp.Diagnostic {
	res, _ := aether.CompileSource(content)

	diags := []lsp.Diagnostic{}
	for _, d := range res.Diags {
		diags = append(diags, lsp.Diagnostic{
			Range:    pointSpan(content, d.Line, d.Column),
			Severity: severityFor(d.Kind),
			Source:   "parse",
			Message:  d.Msg,
		})
	}
	appendMarkerDiags(&diags, content, res.Plan)
	for _, w := range res.Report.Warnings {
		line, msg := splitFinding(w)
		diags = append(diags, lsp.Diagnostic{
			Range:    lineSpan(content, line),
			Severity: lsp.Warning,
			Source:   "analysis",
			Message:  msg,
		})
	}
	return diags
}

// appendMarkerDiags collects the compile_error markers from the plan. The
// markers repeat the validator's fatal findings with a structured line, so
// the report's error strings are not converted separately.
func appendMarkerDiags(diags *[]lsp.Diagnostic, content string, p *plan.Plan) {
	if p == nil {
		return
	}
	for _, c := range p.Calls {
		if c.Op == plan.OpCompileError {
			*diags = append(*diags, lsp.Diagnostic{
				Range:    lineSpan(content, c.Line),
				Severity: lsp.Error,
				Source:   "compile",
				Message:  c.Message,
			})
		}
		appendMarkerDiags(diags, content, c.Then)
		appendMarkerDiags(diags, content, c.Else)
		appendMarkerDiags(diags, content, c.Body)
	}
}

func severityFor(k diag.Kind) lsp.DiagnosticSeverity {
	if k.IsError() {
		return lsp.Error
	}
	return lsp.Warning
}

// splitFinding splits a report finding of the form "line N: msg". Findings
// without the prefix come back with line 0, which spans nothing.
func splitFinding(s string) (int, string) {
	rest, ok := strings.CutPrefix(s, "line ")
	if !ok {
		return 0, s
	}
	i := strings.Index(rest, ": ")
	if i < 0 {
		return 0, s
	}
	n, err := strconv.Atoi(rest[:i])
	if err != nil {
		return 0, s
	}
	return n, rest[i+2:]
}

type keywordDoc struct {
	signature string
	detail    string
}

// keywordDocs backs the hover handler. Keywords that only glue clauses
// together (and, or, not, to, with, from, in, run) have no entry and hover
// to nothing.
var keywordDocs = map[string]keywordDoc{
	"goal":           {`goal: <objective> [priority: <level>]`, "Declares the objective the runtime steers toward. The optional priority clause sets its urgency."},
	"agent":          {`agent: <command>`, "Sends a command to the autonomous agent, for example on, off or a task description."},
	"remember":       {`remember("<data>") [as "<tag>"]`, "Stores data in agent memory, optionally filed under a tag."},
	"recall":         {`recall <query> [since "<time>"] [category "<name>"]`, "Retrieves memories matching the query, narrowed by the optional criteria."},
	"memory.pattern": {`memory.pattern("<pattern>", frequency="<count>")`, "Registers a recurring observation the runtime should watch for."},
	"when":           {`when <condition>: ... end`, "Runs the block each time the condition holds."},
	"if":             {`if <condition>: ... [else: ...] end`, "Runs the first block when the condition holds, the else block otherwise."},
	"else":           {`else:`, "Starts the alternative branch of an if block."},
	"end":            {`end`, "Closes the innermost when, if, plugin, define, for or while block."},
	"plugin":         {`plugin: <name> ... end`, "Groups actions for the named plugin to execute."},
	"suggest":        {`suggest fix for <target>`, "Asks the runtime to propose a correction for the target."},
	"apply":          {`apply fix [if <condition>]`, "Applies the proposed correction, optionally guarded by a condition."},
	"optimize":       {`optimize [for <target>] [with <modifier>]`, "Intent statement: tune the named target."},
	"learn":          {`learn [from <source>]`, "Intent statement: build knowledge from the named source."},
	"analyze":        {`analyze <target>`, "Intent statement: inspect the named target and report."},
	"define":         {`define <name>(<params>) ... end`, "Defines a reusable function with the given parameters."},
	"for":            {`for <var> in <source>: ... end`, "Runs the block once per item in the source."},
	"while":          {`while <condition>: ... end`, "Repeats the block as long as the condition holds."},
	"priority":       {`goal: <objective> priority: <level>`, "Clause of goal: urgency such as critical, high, medium or low."},
	"as":             {`remember("<data>") as "<tag>"`, "Clause of remember: files the data under a tag."},
	"since":          {`recall <query> since "<time>"`, "Clause of recall: keeps matches newer than the given time."},
	"category":       {`recall <query> category "<name>"`, "Clause of recall: keeps matches filed under the category."},
	"frequency":      {`memory.pattern("<pattern>", frequency="<count>")`, "Clause of memory.pattern: occurrences needed before the pattern counts."},
}

type candidate struct {
	label string
	kind  lsp.CompletionItemKind
}

// candidates lists every completion the document can offer: the reserved
// words plus the names the program itself defines.
func candidates(content string) []candidate {
	var cs []candidate
	for _, kw := range parser.Keywords() {
		cs = append(cs, candidate{kw, lsp.CIKKeyword})
	}

	tokens, _ := parser.Tokenize(content)
	tree, _ := parser.Parse(tokens, parser.Lenient)
	seen := make(map[string]bool)
	tree.Walk(func(n *parser.Node, _ int) {
		switch n.Kind {
		case parser.KindAssignment:
			cs = addIdent(cs, seen, n.Target, lsp.CIKVariable)
		case parser.KindFunctionDef:
			cs = addIdent(cs, seen, n.Name, lsp.CIKFunction)
			for _, p := range n.Params {
				cs = addIdent(cs, seen, p, lsp.CIKVariable)
			}
		case parser.KindLoop:
			cs = addIdent(cs, seen, n.Binder, lsp.CIKVariable)
		case parser.KindPlugin:
			cs = addIdent(cs, seen, n.Name, lsp.CIKModule)
		}
	})
	return cs
}

func addIdent(cs []candidate, seen map[string]bool, name string, kind lsp.CompletionItemKind) []candidate {
	if name == "" || seen[name] {
		return cs
	}
	seen[name] = true
	return append(cs, candidate{name, kind})
}

// isWordByte matches the lexer's identifier characters.
func isWordByte(b byte) bool {
	return b == '_' || b == '.' ||
		'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

// wordStart returns the index where the identifier containing idx begins.
func wordStart(s string, idx int) int {
	start := idx
	for start > 0 && isWordByte(s[start-1]) {
		start--
	}
	return start
}

// lineStartIdx returns the byte index where the 1-based line begins.
func lineStartIdx(s string, line int) int {
	idx := 0
	for line > 1 {
		n := strings.IndexByte(s[idx:], '\n')
		if n < 0 {
			return len(s)
		}
		idx += n + 1
		line--
	}
	return idx
}

func lineEndIdx(s string, start int) int {
	if n := strings.IndexByte(s[start:], '\n'); n >= 0 {
		return start + n
	}
	return len(s)
}

// lineSpan covers the text of the 1-based line, indentation excluded. Line
// zero means the position is unknown and spans nothing.
func lineSpan(content string, line int) lsp.Range {
	if line <= 0 {
		return lsp.Range{}
	}
	start := lineStartIdx(content, line)
	end := lineEndIdx(content, start)
	for start < end && (content[start] == ' ' || content[start] == '\t') {
		start++
	}
	return lsp.Range{
		Start: lspPositionFromIdx(content, start),
		End:   lspPositionFromIdx(content, end),
	}
}

// pointSpan covers the word at the 1-based line and byte column, or the
// single character there when no word starts at it.
func pointSpan(content string, line, col int) lsp.Range {
	if line <= 0 {
		return lsp.Range{}
	}
	start := lineStartIdx(content, line)
	end := lineEndIdx(content, start)
	idx := start + col - 1
	if idx < start {
		idx = start
	}
	if idx > end {
		idx = end
	}
	stop := idx
	for stop < end && isWordByte(content[stop]) {
		stop++
	}
	if stop == idx && idx < end {
		stop = idx + 1
	}
	return lsp.Range{
		Start: lspPositionFromIdx(content, idx),
		End:   lspPositionFromIdx(content, stop),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
