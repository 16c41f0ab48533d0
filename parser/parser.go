package parser

import (
	"strings"

	"aether/diag"
)

// Mode selects the parser's error recovery policy
type Mode int

const (
	// Lenient records a syntax error, skips to the next statement
	// boundary, and keeps parsing.
	Lenient Mode = iota
	// Strict stops at the first syntax error.
	Strict
)

// Parser parses an AetherraCode token stream into an AST
type Parser struct {
	tokens []Token
	pos    int
	mode   Mode

	tree   *Tree
	diags  []diag.Diagnostic
	halted bool // strict mode hit a syntax error
}

// Parse consumes a token stream (as produced by Tokenize) and builds the
// AST. It always returns a tree whose root is a Program node; everything
// that went wrong rides in the diagnostics. In Strict mode parsing stops
// at the first syntax error and the tree holds the statements parsed so
// far.
func Parse(tokens []Token, mode Mode) (*Tree, []diag.Diagnostic) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TOKEN_EOF {
		tokens = append(append([]Token(nil), tokens...), Token{Type: TOKEN_EOF})
	}
	p := &Parser{tokens: tokens, mode: mode, tree: &Tree{}}
	p.parseProgram()
	return p.tree, p.diags
}

// current returns the token under examination
func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// nextToken advances to the next token, staying on EOF once reached
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// parseProgram parses statements until EOF and installs the Program root.
// The root is added last: block nodes enter the arena only after their
// children, so every stored NodeID points at a populated slot.
func (p *Parser) parseProgram() {
	root := Node{Kind: KindProgram, Line: 1}
	for p.current().Type != TOKEN_EOF && !p.halted {
		if p.current().Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}
		if id, ok := p.parseStatement(); ok {
			root.Body = append(root.Body, id)
		}
	}
	p.tree.Root = p.tree.Add(root)
}

// errorf records a syntax error at tok. In strict mode it also halts the
// parse.
func (p *Parser) errorf(tok Token, format string, args ...any) {
	p.diags = append(p.diags, diag.Errorf(diag.SyntaxError, tok.Position.Line, tok.Position.Column, format, args...))
	if p.mode == Strict {
		p.halted = true
	}
}

// warnf records a parse warning at tok
func (p *Parser) warnf(tok Token, format string, args ...any) {
	p.diags = append(p.diags, diag.Errorf(diag.ParseWarning, tok.Position.Line, tok.Position.Column, format, args...))
}

// expectColon consumes a ':' or records a syntax error naming the header
// it should have followed.
func (p *Parser) expectColon(after string) bool {
	if p.current().Type == TOKEN_COLON {
		p.nextToken()
		return true
	}
	p.errorf(p.current(), "expected ':' after '%s'", after)
	return false
}

// syncStatement skips tokens until the next statement boundary. The
// boundary token (NEWLINE or 'end') is left current so block loops can
// see their terminator.
func (p *Parser) syncStatement() {
	for {
		switch p.current().Type {
		case TOKEN_NEWLINE, TOKEN_END, TOKEN_EOF:
			return
		}
		p.nextToken()
	}
}

// tokensUntil collects tokens for a free-text field until end of line or
// one of the stop types, without consuming the stop token.
func (p *Parser) tokensUntil(stops ...TokenType) []Token {
	var run []Token
	for {
		t := p.current()
		if t.Type == TOKEN_NEWLINE || t.Type == TOKEN_EOF {
			return run
		}
		for _, s := range stops {
			if t.Type == s {
				return run
			}
		}
		run = append(run, t)
		p.nextToken()
	}
}

// textUntil is tokensUntil joined back into source text.
func (p *Parser) textUntil(stops ...TokenType) string {
	return joinText(p.tokensUntil(stops...))
}

// joinText reconstructs source text from a token run. Tokens that touched
// in the source (same line, adjacent columns) are joined without a space,
// so lexemes like "30%" and quoted fragments survive verbatim; everything
// else is separated by a single space.
func joinText(tokens []Token) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			prev := tokens[i-1]
			if tok.Position.Line != prev.Position.Line ||
				tok.Position.Column != prev.Position.Column+len(prev.Value) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(tok.Value)
	}
	return sb.String()
}
