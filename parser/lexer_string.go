package parser

// readString reads a string literal with escape sequences. Value keeps the
// raw quoted text, Literal holds the decoded body. An unterminated string
// consumes to end of input and records a lex warning instead of failing.
func (l *Lexer) readString(quote byte) Token {
	tok := Token{
		Type: TOKEN_STRING,
		Position: Position{
			Line:   l.line,
			Column: l.column,
			Offset: l.position,
		},
	}

	start := l.position
	l.readChar() // skip opening quote

	var result []byte
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar() // skip backslash
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '"':
				result = append(result, '"')
			case '\'':
				result = append(result, '\'')
			case '\\':
				result = append(result, '\\')
			case 0:
				result = append(result, '\\')
			default:
				// Unknown escape - keep the backslash
				result = append(result, '\\', l.ch)
			}
			if l.ch != 0 {
				l.readChar()
			}
		} else {
			result = append(result, l.ch)
			l.readChar()
		}
	}

	if l.ch == quote {
		l.readChar() // skip closing quote
	} else {
		l.warnf(tok.Position, "unterminated string")
	}

	tok.Value = l.input[start:l.position] // Store the full quoted string
	tok.Literal = string(result)          // Store the decoded value
	return tok
}
