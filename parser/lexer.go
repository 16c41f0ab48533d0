package parser

import (
	"unicode"

	"aether/diag"
)

// Lexer tokenizes AetherraCode source text
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
	warnings     []diag.Diagnostic
}

// NewLexer creates a new Lexer instance
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Tokenize converts source text into tokens. It never fails: unrecognized
// characters are skipped and unterminated strings run to end of input, both
// recorded as lex warnings in the returned diagnostics. The stream ends
// with exactly one EOF token.
func Tokenize(source string) ([]Token, []diag.Diagnostic) {
	l := NewLexer(source)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens, l.warnings
}

// Warnings returns the lex warnings recorded so far
func (l *Lexer) Warnings() []diag.Diagnostic {
	return l.warnings
}

// readChar reads the next character and advances position. Line and column
// advance when moving past a newline, so a newline character itself is
// positioned at the end of the line it closes.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace skips spaces and tabs. Newlines are tokens, not
// whitespace: they separate statements.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a # comment up to (not including) the line break
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		if l.ch == '#' {
			l.skipComment()
			continue
		}

		pos := Position{
			Line:   l.line,
			Column: l.column,
			Offset: l.position,
		}

		switch l.ch {
		case 0:
			return Token{Type: TOKEN_EOF, Position: pos}
		case '\n':
			l.readChar()
			return Token{Type: TOKEN_NEWLINE, Value: "\n", Position: pos}
		case '"', '\'':
			return l.readString(l.ch)
		case ':':
			l.readChar()
			return Token{Type: TOKEN_COLON, Value: ":", Position: pos}
		case '(':
			l.readChar()
			return Token{Type: TOKEN_LPAREN, Value: "(", Position: pos}
		case ')':
			l.readChar()
			return Token{Type: TOKEN_RPAREN, Value: ")", Position: pos}
		case '[':
			l.readChar()
			return Token{Type: TOKEN_LBRACKET, Value: "[", Position: pos}
		case ']':
			l.readChar()
			return Token{Type: TOKEN_RBRACKET, Value: "]", Position: pos}
		case '{':
			l.readChar()
			return Token{Type: TOKEN_LBRACE, Value: "{", Position: pos}
		case '}':
			l.readChar()
			return Token{Type: TOKEN_RBRACE, Value: "}", Position: pos}
		case ',':
			l.readChar()
			return Token{Type: TOKEN_COMMA, Value: ",", Position: pos}
		case '%':
			l.readChar()
			return Token{Type: TOKEN_PERCENT, Value: "%", Position: pos}
		case '+':
			l.readChar()
			return Token{Type: TOKEN_PLUS, Value: "+", Position: pos}
		case '-':
			l.readChar()
			return Token{Type: TOKEN_MINUS, Value: "-", Position: pos}
		case '*':
			l.readChar()
			return Token{Type: TOKEN_STAR, Value: "*", Position: pos}
		case '/':
			l.readChar()
			return Token{Type: TOKEN_SLASH, Value: "/", Position: pos}
		case '=':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TOKEN_EQ, Value: "==", Position: pos}
			}
			l.readChar()
			return Token{Type: TOKEN_ASSIGN, Value: "=", Position: pos}
		case '>':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TOKEN_GE, Value: ">=", Position: pos}
			}
			l.readChar()
			return Token{Type: TOKEN_GT, Value: ">", Position: pos}
		case '<':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TOKEN_LE, Value: "<=", Position: pos}
			}
			l.readChar()
			return Token{Type: TOKEN_LT, Value: "<", Position: pos}
		case '!':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TOKEN_NE, Value: "!=", Position: pos}
			}
			l.warnf(pos, "unrecognized character '!'")
			l.readChar()
			continue
		default:
			if isLetter(l.ch) {
				return l.readIdentifier(pos)
			}
			if isDigit(l.ch) {
				return l.readNumber(pos)
			}
			l.warnf(pos, "unrecognized character %q", string(l.ch))
			l.readChar()
			continue
		}
	}
}

// readIdentifier reads an identifier or keyword. Dots are identifier
// characters so qualified names like memory.pattern stay one token.
func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	value := l.input[start:l.position]
	return Token{Type: LookupKeyword(value), Value: value, Position: pos}
}

// readNumber reads an integer or decimal literal
func (l *Lexer) readNumber(pos Position) Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: TOKEN_NUMBER, Value: l.input[start:l.position], Position: pos}
}

// warnf records a lex warning at pos
func (l *Lexer) warnf(pos Position, format string, args ...any) {
	l.warnings = append(l.warnings, diag.Errorf(diag.LexWarning, pos.Line, pos.Column, format, args...))
}

// isLetter returns true if the character is a letter or underscore
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

// isDigit returns true if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
