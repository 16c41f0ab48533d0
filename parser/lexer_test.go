package parser

import (
	"testing"

	"aether/diag"
)

func TestLexerGoalStatementTokens(t *testing.T) {
	input := "goal: reduce memory usage by 30% priority: high"
	want := []Token{
		{Type: TOKEN_GOAL, Value: "goal"},
		{Type: TOKEN_COLON, Value: ":"},
		{Type: TOKEN_IDENTIFIER, Value: "reduce"},
		{Type: TOKEN_MEMORY, Value: "memory"},
		{Type: TOKEN_IDENTIFIER, Value: "usage"},
		{Type: TOKEN_IDENTIFIER, Value: "by"},
		{Type: TOKEN_NUMBER, Value: "30"},
		{Type: TOKEN_PERCENT, Value: "%"},
		{Type: TOKEN_PRIORITY, Value: "priority"},
		{Type: TOKEN_COLON, Value: ":"},
		{Type: TOKEN_IDENTIFIER, Value: "high"},
		{Type: TOKEN_EOF, Value: ""},
	}

	l := NewLexer(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.Type {
			t.Errorf("token[%d] type = %s, want %s", i, tok.Type, w.Type)
		}
		if tok.Value != w.Value {
			t.Errorf("token[%d] value = %q, want %q", i, tok.Value, w.Value)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"goal", TOKEN_GOAL},
		{"agent", TOKEN_AGENT},
		{"remember", TOKEN_REMEMBER},
		{"recall", TOKEN_RECALL},
		{"memory", TOKEN_MEMORY},
		{"memory.pattern", TOKEN_MEMORY_PATTERN},
		{"when", TOKEN_WHEN},
		{"if", TOKEN_IF},
		{"else", TOKEN_ELSE},
		{"end", TOKEN_END},
		{"plugin", TOKEN_PLUGIN},
		{"suggest", TOKEN_SUGGEST},
		{"apply", TOKEN_APPLY},
		{"optimize", TOKEN_OPTIMIZE},
		{"learn", TOKEN_LEARN},
		{"analyze", TOKEN_ANALYZE},
		{"as", TOKEN_AS},
		{"for", TOKEN_FOR},
		{"from", TOKEN_FROM},
		{"to", TOKEN_TO},
		{"with", TOKEN_WITH},
		{"in", TOKEN_IN},
		{"priority", TOKEN_PRIORITY},
		{"define", TOKEN_DEFINE},
		{"run", TOKEN_RUN},
		{"while", TOKEN_WHILE},
		{"since", TOKEN_SINCE},
		{"category", TOKEN_CATEGORY},
		{"frequency", TOKEN_FREQUENCY},
		{"and", TOKEN_AND},
		{"or", TOKEN_OR},
		{"not", TOKEN_NOT},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLexer(tt.input)
			tok := l.NextToken()
			if tok.Type != tt.want {
				t.Errorf("Lexer(%s) = %s, want %s", tt.input, tok.Type, tt.want)
			}
		})
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"memory.stats", TOKEN_IDENTIFIER},
		{"user_name", TOKEN_IDENTIFIER},
		{"v2.0", TOKEN_IDENTIFIER},
		{"_private", TOKEN_IDENTIFIER},
		{"Goal", TOKEN_IDENTIFIER}, // keywords are case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLexer(tt.input)
			tok := l.NextToken()
			if tok.Type != tt.want {
				t.Errorf("Lexer(%s) type = %s, want %s", tt.input, tok.Type, tt.want)
			}
			if tok.Value != tt.input {
				t.Errorf("Lexer(%s) value = %q, want %q", tt.input, tok.Value, tt.input)
			}
		})
	}
}

func TestLexerOperatorsAndDelimiters(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{">", TOKEN_GT},
		{">=", TOKEN_GE},
		{"<", TOKEN_LT},
		{"<=", TOKEN_LE},
		{"==", TOKEN_EQ},
		{"!=", TOKEN_NE},
		{"=", TOKEN_ASSIGN},
		{"+", TOKEN_PLUS},
		{"-", TOKEN_MINUS},
		{"*", TOKEN_STAR},
		{"/", TOKEN_SLASH},
		{":", TOKEN_COLON},
		{"(", TOKEN_LPAREN},
		{")", TOKEN_RPAREN},
		{"[", TOKEN_LBRACKET},
		{"]", TOKEN_RBRACKET},
		{"{", TOKEN_LBRACE},
		{"}", TOKEN_RBRACE},
		{",", TOKEN_COMMA},
		{"%", TOKEN_PERCENT},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLexer(tt.input)
			tok := l.NextToken()
			if tok.Type != tt.want {
				t.Errorf("Lexer(%s) = %s, want %s", tt.input, tok.Type, tt.want)
			}
			if tok.Value != tt.input {
				t.Errorf("Lexer(%s) value = %q, want %q", tt.input, tok.Value, tt.input)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []Token
	}{
		{
			"42",
			[]Token{
				{Type: TOKEN_NUMBER, Value: "42"},
				{Type: TOKEN_EOF, Value: ""},
			},
		},
		{
			"3.14",
			[]Token{
				{Type: TOKEN_NUMBER, Value: "3.14"},
				{Type: TOKEN_EOF, Value: ""},
			},
		},
		{
			"0.5",
			[]Token{
				{Type: TOKEN_NUMBER, Value: "0.5"},
				{Type: TOKEN_EOF, Value: ""},
			},
		},
		{
			"30%",
			[]Token{
				{Type: TOKEN_NUMBER, Value: "30"},
				{Type: TOKEN_PERCENT, Value: "%"},
				{Type: TOKEN_EOF, Value: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLexer(tt.input)
			for i, want := range tt.want {
				tok := l.NextToken()
				if tok.Type != want.Type {
					t.Errorf("token[%d] type = %s, want %s", i, tok.Type, want.Type)
				}
				if tok.Value != want.Value {
					t.Errorf("token[%d] value = %q, want %q", i, tok.Value, want.Value)
				}
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input       string
		wantValue   string
		wantLiteral string
	}{
		{`"System initialized"`, `"System initialized"`, "System initialized"},
		{`'startup'`, `'startup'`, "startup"},
		{`"say \"hi\""`, `"say \"hi\""`, `say "hi"`},
		{`"tab\there"`, `"tab\there"`, "tab\there"},
		{`"line\nbreak"`, `"line\nbreak"`, "line\nbreak"},
		{`"back\\slash"`, `"back\\slash"`, `back\slash`},
		{`"unknown \q escape"`, `"unknown \q escape"`, `unknown \q escape`},
		{`""`, `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLexer(tt.input)
			tok := l.NextToken()
			if tok.Type != TOKEN_STRING {
				t.Fatalf("Lexer(%s) type = %s, want %s", tt.input, tok.Type, TOKEN_STRING)
			}
			if tok.Value != tt.wantValue {
				t.Errorf("Lexer(%s) value = %q, want %q", tt.input, tok.Value, tt.wantValue)
			}
			if tok.Literal != tt.wantLiteral {
				t.Errorf("Lexer(%s) literal = %q, want %q", tt.input, tok.Literal, tt.wantLiteral)
			}
		})
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	tokens, warnings := Tokenize(`remember("oops`)

	want := []TokenType{TOKEN_REMEMBER, TOKEN_LPAREN, TOKEN_STRING, TOKEN_EOF}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("token[%d] type = %s, want %s", i, tokens[i].Type, w)
		}
	}
	if tokens[2].Literal != "oops" {
		t.Errorf("string literal = %q, want %q", tokens[2].Literal, "oops")
	}

	if len(warnings) != 1 {
		t.Fatalf("Tokenize() recorded %d warnings, want 1", len(warnings))
	}
	if warnings[0].Kind != diag.LexWarning {
		t.Errorf("warning kind = %v, want %v", warnings[0].Kind, diag.LexWarning)
	}
}

func TestLexerCommentsNeverBecomeTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{
			"# full line comment\nagent: on",
			[]TokenType{TOKEN_NEWLINE, TOKEN_AGENT, TOKEN_COLON, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			"agent: on # trailing note",
			[]TokenType{TOKEN_AGENT, TOKEN_COLON, TOKEN_IDENTIFIER, TOKEN_EOF},
		},
		{
			"# only a comment",
			[]TokenType{TOKEN_EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, warnings := Tokenize(tt.input)
			if len(warnings) != 0 {
				t.Errorf("Tokenize() recorded %d warnings, want 0", len(warnings))
			}
			if len(tokens) != len(tt.want) {
				t.Fatalf("Tokenize() returned %d tokens, want %d", len(tokens), len(tt.want))
			}
			for i, w := range tt.want {
				if tokens[i].Type != w {
					t.Errorf("token[%d] type = %s, want %s", i, tokens[i].Type, w)
				}
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	input := "goal: x\nagent: y\n"
	want := []struct {
		typ    TokenType
		line   int
		column int
	}{
		{TOKEN_GOAL, 1, 1},
		{TOKEN_COLON, 1, 5},
		{TOKEN_IDENTIFIER, 1, 7},
		{TOKEN_NEWLINE, 1, 8},
		{TOKEN_AGENT, 2, 1},
		{TOKEN_COLON, 2, 6},
		{TOKEN_IDENTIFIER, 2, 8},
		{TOKEN_NEWLINE, 2, 9},
		{TOKEN_EOF, 3, 1},
	}

	tokens, _ := Tokenize(input)
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Type != w.typ {
			t.Errorf("token[%d] type = %s, want %s", i, tok.Type, w.typ)
		}
		if tok.Position.Line != w.line || tok.Position.Column != w.column {
			t.Errorf("token[%d] position = %d:%d, want %d:%d",
				i, tok.Position.Line, tok.Position.Column, w.line, w.column)
		}
	}
}

func TestLexerUnrecognizedCharacters(t *testing.T) {
	tokens, warnings := Tokenize("@ ! ;")

	if len(tokens) != 1 || tokens[0].Type != TOKEN_EOF {
		t.Errorf("Tokenize() = %v, want just EOF", tokens)
	}
	if len(warnings) != 3 {
		t.Fatalf("Tokenize() recorded %d warnings, want 3", len(warnings))
	}
}

func TestTokenizeNeverFails(t *testing.T) {
	tests := []string{
		"",
		"\n\n",
		"goal agent when end",
		`"unterminated`,
		"~~ @@ ##",
		"42.3.7",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens, _ := Tokenize(input)
			if len(tokens) == 0 {
				t.Fatal("Tokenize() returned no tokens, want at least EOF")
			}
			last := tokens[len(tokens)-1]
			if last.Type != TOKEN_EOF {
				t.Errorf("last token = %s, want %s", last.Type, TOKEN_EOF)
			}
			for i, tok := range tokens[:len(tokens)-1] {
				if tok.Type == TOKEN_EOF {
					t.Errorf("token[%d] is EOF before end of stream", i)
				}
			}
		})
	}
}
