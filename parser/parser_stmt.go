package parser

// parseStatement parses a single statement. Dispatch is single-token
// lookahead on the current token's type; lines matching no statement form
// are skipped with a warning. The bool result is false when the line
// produced no node.
func (p *Parser) parseStatement() (NodeID, bool) {
	switch p.current().Type {
	case TOKEN_GOAL:
		return p.parseGoal()
	case TOKEN_AGENT:
		return p.parseAgent()
	case TOKEN_REMEMBER:
		return p.parseRemember()
	case TOKEN_RECALL:
		return p.parseRecall()
	case TOKEN_MEMORY_PATTERN:
		return p.parseMemoryPattern()
	case TOKEN_OPTIMIZE, TOKEN_LEARN, TOKEN_ANALYZE:
		return p.parseIntent()
	case TOKEN_WHEN, TOKEN_IF:
		return p.parseConditional()
	case TOKEN_PLUGIN:
		return p.parsePlugin()
	case TOKEN_SUGGEST, TOKEN_APPLY:
		return p.parseSelfMod()
	case TOKEN_DEFINE:
		return p.parseFunctionDef()
	case TOKEN_FOR, TOKEN_WHILE:
		return p.parseLoop()
	case TOKEN_IDENTIFIER:
		if p.peek().Type == TOKEN_ASSIGN {
			return p.parseAssignment()
		}
		return p.skipUnknown()
	default:
		return p.skipUnknown()
	}
}

// skipUnknown records a warning for a line matching no statement form and
// skips to the end of the line.
func (p *Parser) skipUnknown() (NodeID, bool) {
	tok := p.current()
	text := p.textUntil()
	p.warnf(tok, "unknown statement %q", text)
	return NoNode, false
}

// parseGoal parses: goal : <objective text> [priority : IDENT]
func (p *Parser) parseGoal() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume 'goal'

	if !p.expectColon("goal") {
		p.syncStatement()
		return NoNode, false
	}

	node := Node{
		Kind:      KindGoal,
		Line:      head.Position.Line,
		Objective: p.textUntil(TOKEN_PRIORITY),
	}

	if p.current().Type == TOKEN_PRIORITY {
		p.nextToken() // consume 'priority'
		if !p.expectColon("priority") {
			p.syncStatement()
			return NoNode, false
		}
		switch tok := p.current(); tok.Type {
		case TOKEN_IDENTIFIER:
			node.Priority = tok.Value
			p.nextToken()
		case TOKEN_STRING:
			node.Priority = tok.Literal
			p.nextToken()
		default:
			p.errorf(tok, "expected priority level, got %s", tok.Type)
			p.syncStatement()
			return NoNode, false
		}
	}

	return p.tree.Add(node), true
}

// parseAgent parses: agent : <command text>
func (p *Parser) parseAgent() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume 'agent'

	if !p.expectColon("agent") {
		p.syncStatement()
		return NoNode, false
	}

	return p.tree.Add(Node{
		Kind:    KindAgent,
		Line:    head.Position.Line,
		Command: p.textUntil(),
	}), true
}

// parseRemember parses: remember ( STRING ) [as STRING]
func (p *Parser) parseRemember() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume 'remember'

	if p.current().Type != TOKEN_LPAREN {
		p.errorf(p.current(), "expected '(' after 'remember'")
		p.syncStatement()
		return NoNode, false
	}
	p.nextToken()

	if p.current().Type != TOKEN_STRING {
		p.errorf(p.current(), "expected string in remember(...), got %s", p.current().Type)
		p.syncStatement()
		return NoNode, false
	}
	node := Node{
		Kind:  KindMemory,
		Line:  head.Position.Line,
		MemOp: MemRemember,
		Data:  p.current().Literal,
	}
	p.nextToken()

	if p.current().Type != TOKEN_RPAREN {
		p.errorf(p.current(), "expected ')' to close remember(...)")
		p.syncStatement()
		return NoNode, false
	}
	p.nextToken()

	if p.current().Type == TOKEN_AS {
		p.nextToken() // consume 'as'
		if p.current().Type != TOKEN_STRING {
			p.errorf(p.current(), "expected tag string after 'as'")
			p.syncStatement()
			return NoNode, false
		}
		node.Tag = p.current().Literal
		p.nextToken()
	}

	return p.tree.Add(node), true
}

// parseRecall parses: recall <query> [since STRING] [in category STRING]
func (p *Parser) parseRecall() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume 'recall'

	query := p.tokensUntil(TOKEN_SINCE, TOKEN_IN)
	node := Node{
		Kind:  KindMemory,
		Line:  head.Position.Line,
		MemOp: MemRecall,
	}
	if len(query) == 1 && query[0].Type == TOKEN_STRING {
		node.Data = query[0].Literal
	} else {
		node.Data = joinText(query)
	}

	for {
		switch p.current().Type {
		case TOKEN_SINCE:
			p.nextToken()
			if p.current().Type != TOKEN_STRING {
				p.errorf(p.current(), "expected date string after 'since'")
				p.syncStatement()
				return NoNode, false
			}
			node.setCriterion("since", p.current().Literal)
			p.nextToken()
		case TOKEN_IN:
			p.nextToken()
			if p.current().Type != TOKEN_CATEGORY {
				p.errorf(p.current(), "expected 'category' after 'in'")
				p.syncStatement()
				return NoNode, false
			}
			p.nextToken()
			if p.current().Type != TOKEN_STRING {
				p.errorf(p.current(), "expected category string after 'in category'")
				p.syncStatement()
				return NoNode, false
			}
			node.setCriterion("category", p.current().Literal)
			p.nextToken()
		default:
			return p.tree.Add(node), true
		}
	}
}

// setCriterion stores a recall/pattern criterion, allocating the map on
// first use.
func (n *Node) setCriterion(key, value string) {
	if n.Criteria == nil {
		n.Criteria = make(map[string]string)
	}
	n.Criteria[key] = value
}

// parseMemoryPattern parses: memory.pattern ( STRING [, frequency = STRING] )
func (p *Parser) parseMemoryPattern() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume 'memory.pattern'

	if p.current().Type != TOKEN_LPAREN {
		p.errorf(p.current(), "expected '(' after 'memory.pattern'")
		p.syncStatement()
		return NoNode, false
	}
	p.nextToken()

	if p.current().Type != TOKEN_STRING {
		p.errorf(p.current(), "expected pattern string in memory.pattern(...), got %s", p.current().Type)
		p.syncStatement()
		return NoNode, false
	}
	node := Node{
		Kind:  KindMemory,
		Line:  head.Position.Line,
		MemOp: MemPattern,
		Data:  p.current().Literal,
	}
	p.nextToken()

	if p.current().Type == TOKEN_COMMA {
		p.nextToken()
		if p.current().Type != TOKEN_FREQUENCY {
			p.errorf(p.current(), "expected 'frequency' argument in memory.pattern(...)")
			p.syncStatement()
			return NoNode, false
		}
		p.nextToken()
		if p.current().Type != TOKEN_ASSIGN {
			p.errorf(p.current(), "expected '=' after 'frequency'")
			p.syncStatement()
			return NoNode, false
		}
		p.nextToken()
		if p.current().Type != TOKEN_STRING {
			p.errorf(p.current(), "expected frequency string, got %s", p.current().Type)
			p.syncStatement()
			return NoNode, false
		}
		node.setCriterion("frequency", p.current().Literal)
		p.nextToken()
	}

	if p.current().Type != TOKEN_RPAREN {
		p.errorf(p.current(), "expected ')' to close memory.pattern(...)")
		p.syncStatement()
		return NoNode, false
	}
	p.nextToken()

	return p.tree.Add(node), true
}

// parseIntent parses optimize/learn/analyze statements:
//
//	optimize for speed
//	learn from "server_logs"
//	analyze performance
//
// A connector keyword after the action becomes the modifier; the rest of
// the line is the target.
func (p *Parser) parseIntent() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume the action keyword

	node := Node{
		Kind:   KindIntent,
		Line:   head.Position.Line,
		Action: head.Value,
	}

	switch p.current().Type {
	case TOKEN_FOR, TOKEN_FROM, TOKEN_TO, TOKEN_WITH:
		node.Modifier = p.current().Value
		p.nextToken()
	}

	node.Target = p.textUntil()
	return p.tree.Add(node), true
}

// parseConditional parses when/if blocks:
//
//	when error_rate > 5%:
//	    suggest fix for "performance"
//	end
//
// An optional else branch splits the body.
func (p *Parser) parseConditional() (NodeID, bool) {
	head := p.current()
	kind := CondWhen
	if head.Type == TOKEN_IF {
		kind = CondIf
	}
	p.nextToken() // consume 'when'/'if'

	condition := p.textUntil(TOKEN_COLON)
	if !p.expectColon(head.Value) {
		p.syncStatement()
		return NoNode, false
	}
	p.skipLineBreak()

	body, ok := p.parseBlock(head, TOKEN_ELSE, TOKEN_END)
	if !ok {
		return NoNode, false
	}

	node := Node{
		Kind:      KindConditional,
		Line:      head.Position.Line,
		CondKind:  kind,
		Condition: condition,
		Body:      body,
	}

	if p.current().Type == TOKEN_ELSE {
		p.nextToken() // consume 'else'
		if p.current().Type == TOKEN_COLON {
			p.nextToken()
		}
		p.skipLineBreak()
		elseBody, ok := p.parseBlock(head, TOKEN_END)
		if !ok {
			return NoNode, false
		}
		node.ElseBody = elseBody
	}

	p.nextToken() // consume 'end'
	return p.tree.Add(node), true
}

// parsePlugin parses: plugin : IDENT <actions> end
func (p *Parser) parsePlugin() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume 'plugin'

	if !p.expectColon("plugin") {
		p.syncStatement()
		return NoNode, false
	}

	if p.current().Type != TOKEN_IDENTIFIER {
		p.errorf(p.current(), "expected plugin name, got %s", p.current().Type)
		p.syncStatement()
		return NoNode, false
	}
	name := p.current().Value
	p.nextToken()
	p.skipLineBreak()

	body, ok := p.parseBlock(head, TOKEN_END)
	if !ok {
		return NoNode, false
	}
	p.nextToken() // consume 'end'

	return p.tree.Add(Node{
		Kind: KindPlugin,
		Line: head.Position.Line,
		Name: name,
		Body: body,
	}), true
}

// parseSelfMod parses suggest/apply statements:
//
//	suggest fix for "performance"
//	apply fix if error_rate > 10
//
// The target is everything up to an optional trailing if-condition.
func (p *Parser) parseSelfMod() (NodeID, bool) {
	head := p.current()
	op := ModSuggest
	if head.Type == TOKEN_APPLY {
		op = ModApply
	}
	p.nextToken() // consume 'suggest'/'apply'

	node := Node{
		Kind:   KindSelfMod,
		Line:   head.Position.Line,
		ModOp:  op,
		Target: p.textUntil(TOKEN_IF),
	}

	if p.current().Type == TOKEN_IF {
		p.nextToken() // consume 'if'
		node.Condition = p.textUntil()
	}

	return p.tree.Add(node), true
}

// parseFunctionDef parses: define IDENT ( [IDENT {, IDENT}] ) <body> end
func (p *Parser) parseFunctionDef() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume 'define'

	if p.current().Type != TOKEN_IDENTIFIER {
		p.errorf(p.current(), "expected function name after 'define', got %s", p.current().Type)
		p.syncStatement()
		return NoNode, false
	}
	name := p.current().Value
	p.nextToken()

	if p.current().Type != TOKEN_LPAREN {
		p.errorf(p.current(), "expected '(' after function name")
		p.syncStatement()
		return NoNode, false
	}
	p.nextToken()

	params := []string{}
	for p.current().Type != TOKEN_RPAREN {
		if p.current().Type != TOKEN_IDENTIFIER {
			p.errorf(p.current(), "expected parameter name, got %s", p.current().Type)
			p.syncStatement()
			return NoNode, false
		}
		params = append(params, p.current().Value)
		p.nextToken()
		if p.current().Type == TOKEN_COMMA {
			p.nextToken()
		}
	}
	p.nextToken() // consume ')'

	// A colon after the parameter list is accepted but not required
	if p.current().Type == TOKEN_COLON {
		p.nextToken()
	}
	p.skipLineBreak()

	body, ok := p.parseBlock(head, TOKEN_END)
	if !ok {
		return NoNode, false
	}
	p.nextToken() // consume 'end'

	return p.tree.Add(Node{
		Kind:   KindFunctionDef,
		Line:   head.Position.Line,
		Name:   name,
		Params: params,
		Body:   body,
	}), true
}

// parseLoop parses for/while blocks:
//
//	for item in pending_tasks:
//	    agent: process item
//	end
//	while queue_depth > 0:
//	    ...
//	end
func (p *Parser) parseLoop() (NodeID, bool) {
	head := p.current()
	node := Node{Kind: KindLoop, Line: head.Position.Line}

	if head.Type == TOKEN_FOR {
		node.LoopKind = LoopFor
		p.nextToken() // consume 'for'
		if p.current().Type != TOKEN_IDENTIFIER {
			p.errorf(p.current(), "expected loop variable after 'for', got %s", p.current().Type)
			p.syncStatement()
			return NoNode, false
		}
		node.Binder = p.current().Value
		p.nextToken()
		if p.current().Type != TOKEN_IN {
			p.errorf(p.current(), "expected 'in' after loop variable")
			p.syncStatement()
			return NoNode, false
		}
		p.nextToken()
		node.Source = p.textUntil(TOKEN_COLON)
	} else {
		node.LoopKind = LoopWhile
		p.nextToken() // consume 'while'
		node.Source = p.textUntil(TOKEN_COLON)
	}

	if !p.expectColon(head.Value) {
		p.syncStatement()
		return NoNode, false
	}
	p.skipLineBreak()

	body, ok := p.parseBlock(head, TOKEN_END)
	if !ok {
		return NoNode, false
	}
	p.nextToken() // consume 'end'

	node.Body = body
	return p.tree.Add(node), true
}

// parseAssignment parses: IDENT = <value text>
func (p *Parser) parseAssignment() (NodeID, bool) {
	head := p.current()
	p.nextToken() // consume identifier
	p.nextToken() // consume '='

	value := p.textUntil()
	if value == "" {
		p.errorf(p.current(), "expected value after '=' in assignment to '%s'", head.Value)
		return NoNode, false
	}

	return p.tree.Add(Node{
		Kind:   KindAssignment,
		Line:   head.Position.Line,
		Target: head.Value,
		Value:  value,
	}), true
}

// parseBlock parses statements until one of the terminator tokens is
// current, leaving the terminator for the caller. Running out of input is
// an unterminated-block syntax error attributed to the block header's
// line.
func (p *Parser) parseBlock(head Token, terminators ...TokenType) ([]NodeID, bool) {
	body := []NodeID{}
	for {
		if p.halted {
			return body, false
		}
		t := p.current().Type
		if t == TOKEN_EOF {
			p.errorf(head, "unterminated '%s' block: missing 'end'", head.Value)
			return body, false
		}
		for _, term := range terminators {
			if t == term {
				return body, true
			}
		}
		if t == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}
		if id, ok := p.parseStatement(); ok {
			body = append(body, id)
		}
	}
}

// skipLineBreak consumes a single trailing NEWLINE if present
func (p *Parser) skipLineBreak() {
	if p.current().Type == TOKEN_NEWLINE {
		p.nextToken()
	}
}
