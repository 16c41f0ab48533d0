package parser

import (
	"fmt"
	"strconv"
)

// ExprKind identifies the variant of an expression node
type ExprKind int

const (
	ExprNumber ExprKind = iota
	ExprString
	ExprIdent
	ExprCall
	ExprArray
	ExprDict
	ExprUnary
	ExprBinary

	// ExprKindCount sizes tables indexed by ExprKind
	ExprKindCount
)

// ExprID is an index into an ExprTree arena
type ExprID int32

// NoExpr marks an absent expression reference.
const NoExpr ExprID = -1

// Expr is one expression node, flat-tagged like Node. Unary operators use
// Left only; calls use Name and Args; dicts pair Keys[i] with Args[i].
type Expr struct {
	Kind ExprKind

	Num  float64 // ExprNumber
	Str  string  // ExprString (decoded)
	Name string  // ExprIdent, ExprCall
	Op   string  // ExprUnary ("not", "-", "%"), ExprBinary

	Left  ExprID
	Right ExprID
	Args  []ExprID // call arguments, array elements, dict values
	Keys  []ExprID // dict keys
}

// ExprTree owns the expression nodes parsed from one piece of free text.
type ExprTree struct {
	Exprs []Expr
	Root  ExprID
}

func (t *ExprTree) add(e Expr) ExprID {
	t.Exprs = append(t.Exprs, e)
	return ExprID(len(t.Exprs) - 1)
}

// Expr returns the arena node for id.
func (t *ExprTree) Expr(id ExprID) *Expr {
	return &t.Exprs[id]
}

// exprParser consumes a token stream for one expression
type exprParser struct {
	tokens []Token
	pos    int
	tree   *ExprTree
}

// ParseExpression parses free text (a condition, value or source field)
// with the structured expression grammar. Statements keep these fields as
// opaque strings; this is the grammar a runtime applies when it needs the
// structure. Precedence, loosest first:
//
//	or | and | == != | > >= < <= | + - | * / | unary not - | % postfix
//
// Comparison operators are plain left-associative binaries: a > b > c is
// (a > b) > c.
func ParseExpression(text string) (*ExprTree, error) {
	raw, _ := Tokenize(text)
	tokens := raw[:0:0]
	for _, tok := range raw {
		if tok.Type != TOKEN_NEWLINE {
			tokens = append(tokens, tok)
		}
	}

	ep := &exprParser{tokens: tokens, tree: &ExprTree{}}
	root, err := ep.parseOr()
	if err != nil {
		return nil, err
	}
	if ep.current().Type != TOKEN_EOF {
		return nil, fmt.Errorf("unexpected %s after expression at column %d", ep.current().Type, ep.current().Position.Column)
	}
	ep.tree.Root = root
	return ep.tree, nil
}

func (ep *exprParser) current() Token {
	return ep.tokens[ep.pos]
}

func (ep *exprParser) next() {
	if ep.pos < len(ep.tokens)-1 {
		ep.pos++
	}
}

func (ep *exprParser) parseOr() (ExprID, error) {
	left, err := ep.parseAnd()
	if err != nil {
		return NoExpr, err
	}
	for ep.current().Type == TOKEN_OR {
		ep.next()
		right, err := ep.parseAnd()
		if err != nil {
			return NoExpr, err
		}
		left = ep.tree.add(Expr{Kind: ExprBinary, Op: "or", Left: left, Right: right})
	}
	return left, nil
}

func (ep *exprParser) parseAnd() (ExprID, error) {
	left, err := ep.parseEquality()
	if err != nil {
		return NoExpr, err
	}
	for ep.current().Type == TOKEN_AND {
		ep.next()
		right, err := ep.parseEquality()
		if err != nil {
			return NoExpr, err
		}
		left = ep.tree.add(Expr{Kind: ExprBinary, Op: "and", Left: left, Right: right})
	}
	return left, nil
}

func (ep *exprParser) parseEquality() (ExprID, error) {
	left, err := ep.parseComparison()
	if err != nil {
		return NoExpr, err
	}
	for ep.current().Type == TOKEN_EQ || ep.current().Type == TOKEN_NE {
		op := ep.current().Value
		ep.next()
		right, err := ep.parseComparison()
		if err != nil {
			return NoExpr, err
		}
		left = ep.tree.add(Expr{Kind: ExprBinary, Op: op, Left: left, Right: right})
	}
	return left, nil
}

func (ep *exprParser) parseComparison() (ExprID, error) {
	left, err := ep.parseAdditive()
	if err != nil {
		return NoExpr, err
	}
	for {
		switch ep.current().Type {
		case TOKEN_GT, TOKEN_GE, TOKEN_LT, TOKEN_LE:
			op := ep.current().Value
			ep.next()
			right, err := ep.parseAdditive()
			if err != nil {
				return NoExpr, err
			}
			left = ep.tree.add(Expr{Kind: ExprBinary, Op: op, Left: left, Right: right})
		default:
			return left, nil
		}
	}
}

func (ep *exprParser) parseAdditive() (ExprID, error) {
	left, err := ep.parseMultiplicative()
	if err != nil {
		return NoExpr, err
	}
	for ep.current().Type == TOKEN_PLUS || ep.current().Type == TOKEN_MINUS {
		op := ep.current().Value
		ep.next()
		right, err := ep.parseMultiplicative()
		if err != nil {
			return NoExpr, err
		}
		left = ep.tree.add(Expr{Kind: ExprBinary, Op: op, Left: left, Right: right})
	}
	return left, nil
}

func (ep *exprParser) parseMultiplicative() (ExprID, error) {
	left, err := ep.parseUnary()
	if err != nil {
		return NoExpr, err
	}
	for ep.current().Type == TOKEN_STAR || ep.current().Type == TOKEN_SLASH {
		op := ep.current().Value
		ep.next()
		right, err := ep.parseUnary()
		if err != nil {
			return NoExpr, err
		}
		left = ep.tree.add(Expr{Kind: ExprBinary, Op: op, Left: left, Right: right})
	}
	return left, nil
}

func (ep *exprParser) parseUnary() (ExprID, error) {
	switch ep.current().Type {
	case TOKEN_NOT:
		ep.next()
		operand, err := ep.parseUnary()
		if err != nil {
			return NoExpr, err
		}
		return ep.tree.add(Expr{Kind: ExprUnary, Op: "not", Left: operand}), nil
	case TOKEN_MINUS:
		ep.next()
		operand, err := ep.parseUnary()
		if err != nil {
			return NoExpr, err
		}
		return ep.tree.add(Expr{Kind: ExprUnary, Op: "-", Left: operand}), nil
	}
	return ep.parsePostfix()
}

// parsePostfix handles the % suffix of rate literals like 5%
func (ep *exprParser) parsePostfix() (ExprID, error) {
	id, err := ep.parsePrimary()
	if err != nil {
		return NoExpr, err
	}
	for ep.current().Type == TOKEN_PERCENT {
		ep.next()
		id = ep.tree.add(Expr{Kind: ExprUnary, Op: "%", Left: id})
	}
	return id, nil
}

func (ep *exprParser) parsePrimary() (ExprID, error) {
	tok := ep.current()
	switch tok.Type {
	case TOKEN_NUMBER:
		num, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return NoExpr, fmt.Errorf("invalid number %q at column %d", tok.Value, tok.Position.Column)
		}
		ep.next()
		return ep.tree.add(Expr{Kind: ExprNumber, Num: num}), nil

	case TOKEN_STRING:
		ep.next()
		return ep.tree.add(Expr{Kind: ExprString, Str: tok.Literal}), nil

	case TOKEN_IDENTIFIER:
		ep.next()
		if ep.current().Type == TOKEN_LPAREN {
			return ep.parseCall(tok.Value)
		}
		return ep.tree.add(Expr{Kind: ExprIdent, Name: tok.Value}), nil

	case TOKEN_LPAREN:
		ep.next()
		inner, err := ep.parseOr()
		if err != nil {
			return NoExpr, err
		}
		if ep.current().Type != TOKEN_RPAREN {
			return NoExpr, fmt.Errorf("expected ')' at column %d, got %s", ep.current().Position.Column, ep.current().Type)
		}
		ep.next()
		return inner, nil

	case TOKEN_LBRACKET:
		return ep.parseArray()

	case TOKEN_LBRACE:
		return ep.parseDict()

	default:
		return NoExpr, fmt.Errorf("unexpected %s at column %d", tok.Type, tok.Position.Column)
	}
}

// parseCall parses the argument list of name(...); the name has already
// been consumed.
func (ep *exprParser) parseCall(name string) (ExprID, error) {
	ep.next() // consume '('
	call := Expr{Kind: ExprCall, Name: name}
	for ep.current().Type != TOKEN_RPAREN {
		if ep.current().Type == TOKEN_EOF {
			return NoExpr, fmt.Errorf("unterminated call to %s", name)
		}
		arg, err := ep.parseOr()
		if err != nil {
			return NoExpr, err
		}
		call.Args = append(call.Args, arg)
		if ep.current().Type == TOKEN_COMMA {
			ep.next()
		}
	}
	ep.next() // consume ')'
	return ep.tree.add(call), nil
}

func (ep *exprParser) parseArray() (ExprID, error) {
	ep.next() // consume '['
	arr := Expr{Kind: ExprArray}
	for ep.current().Type != TOKEN_RBRACKET {
		if ep.current().Type == TOKEN_EOF {
			return NoExpr, fmt.Errorf("unterminated array literal")
		}
		elem, err := ep.parseOr()
		if err != nil {
			return NoExpr, err
		}
		arr.Args = append(arr.Args, elem)
		if ep.current().Type == TOKEN_COMMA {
			ep.next()
		}
	}
	ep.next() // consume ']'
	return ep.tree.add(arr), nil
}

func (ep *exprParser) parseDict() (ExprID, error) {
	ep.next() // consume '{'
	dict := Expr{Kind: ExprDict}
	for ep.current().Type != TOKEN_RBRACE {
		if ep.current().Type == TOKEN_EOF {
			return NoExpr, fmt.Errorf("unterminated dict literal")
		}
		key, err := ep.parseOr()
		if err != nil {
			return NoExpr, err
		}
		if ep.current().Type != TOKEN_COLON {
			return NoExpr, fmt.Errorf("expected ':' in dict literal at column %d", ep.current().Position.Column)
		}
		ep.next()
		val, err := ep.parseOr()
		if err != nil {
			return NoExpr, err
		}
		dict.Keys = append(dict.Keys, key)
		dict.Args = append(dict.Args, val)
		if ep.current().Type == TOKEN_COMMA {
			ep.next()
		}
	}
	ep.next() // consume '}'
	return ep.tree.add(dict), nil
}
