package parser

import "sort"

// TokenType represents different types of lexical tokens
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_NEWLINE

	// Literals
	TOKEN_NUMBER // 42, 3.14
	TOKEN_STRING // "hello", 'hello'

	// Keywords
	TOKEN_GOAL
	TOKEN_AGENT
	TOKEN_REMEMBER
	TOKEN_RECALL
	TOKEN_MEMORY
	TOKEN_MEMORY_PATTERN // memory.pattern (dotted qualified name)
	TOKEN_WHEN
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_END
	TOKEN_PLUGIN
	TOKEN_SUGGEST
	TOKEN_APPLY
	TOKEN_OPTIMIZE
	TOKEN_LEARN
	TOKEN_ANALYZE
	TOKEN_AS
	TOKEN_FOR
	TOKEN_FROM
	TOKEN_TO
	TOKEN_WITH
	TOKEN_IN
	TOKEN_PRIORITY
	TOKEN_DEFINE
	TOKEN_RUN
	TOKEN_WHILE
	TOKEN_SINCE
	TOKEN_CATEGORY
	TOKEN_FREQUENCY
	TOKEN_AND
	TOKEN_OR
	TOKEN_NOT

	// Identifiers
	TOKEN_IDENTIFIER

	// Operators
	TOKEN_GT // >
	TOKEN_GE // >=
	TOKEN_LT // <
	TOKEN_LE // <=
	TOKEN_EQ // ==
	TOKEN_NE // !=

	TOKEN_PLUS  // +
	TOKEN_MINUS // -
	TOKEN_STAR  // *
	TOKEN_SLASH // /

	// Delimiters
	TOKEN_COLON    // :
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }
	TOKEN_COMMA    // ,
	TOKEN_ASSIGN   // =
	TOKEN_PERCENT  // %
)

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a lexical token
type Token struct {
	Type     TokenType
	Value    string
	Literal  string // Decoded string value (for TOKEN_STRING)
	Position Position
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_NEWLINE:
		return "NEWLINE"
	case TOKEN_NUMBER:
		return "NUMBER"
	case TOKEN_STRING:
		return "STRING"
	case TOKEN_GOAL:
		return "GOAL"
	case TOKEN_AGENT:
		return "AGENT"
	case TOKEN_REMEMBER:
		return "REMEMBER"
	case TOKEN_RECALL:
		return "RECALL"
	case TOKEN_MEMORY:
		return "MEMORY"
	case TOKEN_MEMORY_PATTERN:
		return "MEMORY_PATTERN"
	case TOKEN_WHEN:
		return "WHEN"
	case TOKEN_IF:
		return "IF"
	case TOKEN_ELSE:
		return "ELSE"
	case TOKEN_END:
		return "END"
	case TOKEN_PLUGIN:
		return "PLUGIN"
	case TOKEN_SUGGEST:
		return "SUGGEST"
	case TOKEN_APPLY:
		return "APPLY"
	case TOKEN_OPTIMIZE:
		return "OPTIMIZE"
	case TOKEN_LEARN:
		return "LEARN"
	case TOKEN_ANALYZE:
		return "ANALYZE"
	case TOKEN_AS:
		return "AS"
	case TOKEN_FOR:
		return "FOR"
	case TOKEN_FROM:
		return "FROM"
	case TOKEN_TO:
		return "TO"
	case TOKEN_WITH:
		return "WITH"
	case TOKEN_IN:
		return "IN"
	case TOKEN_PRIORITY:
		return "PRIORITY"
	case TOKEN_DEFINE:
		return "DEFINE"
	case TOKEN_RUN:
		return "RUN"
	case TOKEN_WHILE:
		return "WHILE"
	case TOKEN_SINCE:
		return "SINCE"
	case TOKEN_CATEGORY:
		return "CATEGORY"
	case TOKEN_FREQUENCY:
		return "FREQUENCY"
	case TOKEN_AND:
		return "AND"
	case TOKEN_OR:
		return "OR"
	case TOKEN_NOT:
		return "NOT"
	case TOKEN_IDENTIFIER:
		return "IDENTIFIER"
	case TOKEN_GT:
		return "GT"
	case TOKEN_GE:
		return "GE"
	case TOKEN_LT:
		return "LT"
	case TOKEN_LE:
		return "LE"
	case TOKEN_EQ:
		return "EQ"
	case TOKEN_NE:
		return "NE"
	case TOKEN_PLUS:
		return "PLUS"
	case TOKEN_MINUS:
		return "MINUS"
	case TOKEN_STAR:
		return "STAR"
	case TOKEN_SLASH:
		return "SLASH"
	case TOKEN_COLON:
		return "COLON"
	case TOKEN_LPAREN:
		return "LPAREN"
	case TOKEN_RPAREN:
		return "RPAREN"
	case TOKEN_LBRACKET:
		return "LBRACKET"
	case TOKEN_RBRACKET:
		return "RBRACKET"
	case TOKEN_LBRACE:
		return "LBRACE"
	case TOKEN_RBRACE:
		return "RBRACE"
	case TOKEN_COMMA:
		return "COMMA"
	case TOKEN_ASSIGN:
		return "ASSIGN"
	case TOKEN_PERCENT:
		return "PERCENT"
	default:
		return "UNKNOWN"
	}
}

// Keywords maps keyword strings to their token types. memory.pattern is a
// keyword because identifiers may contain dots for qualified names and the
// full text is what dispatch needs.
var keywords = map[string]TokenType{
	"goal":           TOKEN_GOAL,
	"agent":          TOKEN_AGENT,
	"remember":       TOKEN_REMEMBER,
	"recall":         TOKEN_RECALL,
	"memory":         TOKEN_MEMORY,
	"memory.pattern": TOKEN_MEMORY_PATTERN,
	"when":           TOKEN_WHEN,
	"if":             TOKEN_IF,
	"else":           TOKEN_ELSE,
	"end":            TOKEN_END,
	"plugin":         TOKEN_PLUGIN,
	"suggest":        TOKEN_SUGGEST,
	"apply":          TOKEN_APPLY,
	"optimize":       TOKEN_OPTIMIZE,
	"learn":          TOKEN_LEARN,
	"analyze":        TOKEN_ANALYZE,
	"as":             TOKEN_AS,
	"for":            TOKEN_FOR,
	"from":           TOKEN_FROM,
	"to":             TOKEN_TO,
	"with":           TOKEN_WITH,
	"in":             TOKEN_IN,
	"priority":       TOKEN_PRIORITY,
	"define":         TOKEN_DEFINE,
	"run":            TOKEN_RUN,
	"while":          TOKEN_WHILE,
	"since":          TOKEN_SINCE,
	"category":       TOKEN_CATEGORY,
	"frequency":      TOKEN_FREQUENCY,
	"and":            TOKEN_AND,
	"or":             TOKEN_OR,
	"not":            TOKEN_NOT,
}

// LookupKeyword checks if an identifier is a keyword
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENTIFIER
}

// Keywords returns every reserved word in sorted order.
func Keywords() []string {
	ks := make([]string, 0, len(keywords))
	for k := range keywords {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// IsKeyword reports whether the token type is a reserved word
func (t TokenType) IsKeyword() bool {
	return t >= TOKEN_GOAL && t <= TOKEN_NOT
}
