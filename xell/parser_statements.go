package xell

import "unicode/utf8"

func (p *parser) parseGiveStatement() Statement {
	stmt := &GiveStmt{position: p.curToken.Pos}
	if p.statementEndsHere() {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(lowestPrec)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *parser) parseExpressionOrAssignStatement() Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}

	_, compound := compoundAssignOperators[p.peekToken.Type]
	if p.peekTokenIs(tokenAssign) || compound {
		if !isAssignable(expr) {
			p.addParseError(pos, "invalid assignment target")
			return nil
		}
		p.nextToken()
		op := p.curToken.Type
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value == nil {
			return nil
		}
		return &AssignStmt{Target: expr, Operator: op, Value: value, position: pos}
	}

	return &ExprStmt{Expr: expr, position: pos}
}

// looksLikeDestructure reports whether the statement is `a, b, ... = expr`.
func (p *parser) looksLikeDestructure() bool {
	for i := 0; ; i += 2 {
		if p.peekN(i).Type != tokenIdent {
			return false
		}
		switch p.peekN(i + 1).Type {
		case tokenComma:
			continue
		case tokenAssign:
			return i > 0
		default:
			return false
		}
	}
}

func (p *parser) parseDestructureStatement() Statement {
	stmt := &DestructureStmt{position: p.curToken.Pos}
	stmt.Targets = append(stmt.Targets, p.curToken.Literal)
	for p.peekTokenIs(tokenComma) {
		p.nextToken()
		if !p.expectPeek(tokenIdent, "variable name") {
			return nil
		}
		stmt.Targets = append(stmt.Targets, p.curToken.Literal)
	}
	if !p.expectPeek(tokenAssign, "'='") {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(lowestPrec)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

// startsBareCall detects a call without parentheses such as `print "hi"`.
// A '[' starts an argument only when whitespace separates it from the
// callee: `print [1, 2]` is a call, `xs[0]` an index.
func (p *parser) startsBareCall() bool {
	switch p.peekToken.Type {
	case tokenInt, tokenFloat, tokenImaginary, tokenString, tokenRawString, tokenBytes,
		tokenIdent, tokenTrue, tokenFalse, tokenNone, tokenLBrace, tokenAwait:
		return true
	case tokenLBracket:
		return p.peekSeparatedFromCurrent()
	default:
		return false
	}
}

func (p *parser) peekSeparatedFromCurrent() bool {
	cur, peek := p.curToken.Pos, p.peekToken.Pos
	if peek.Line != cur.Line {
		return true
	}
	return peek.Column > cur.Column+utf8.RuneCountInString(p.curToken.Literal)
}

func (p *parser) parseBareCallStatement() Statement {
	callee := &Identifier{Name: p.curToken.Literal, position: p.curToken.Pos}
	call := &CallExpr{Callee: callee, position: callee.position}
	for {
		p.nextToken()
		arg := p.parseExpression(lowestPrec)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if !p.peekTokenIs(tokenComma) {
			break
		}
		p.nextToken()
	}
	return &ExprStmt{Expr: call, position: callee.position}
}

func (p *parser) parseIfStatement() Statement {
	stmt := &IfStmt{position: p.curToken.Pos}
	p.nextToken()
	stmt.Condition = p.parseExpression(lowestPrec)
	if stmt.Condition == nil || !p.expectPeek(tokenColon, "':' after if condition") {
		return nil
	}
	stmt.Consequent = p.parseBlock(true)

	for {
		if p.curTokenIs(tokenSemicolon) {
			if !p.skipNewlinesBeforePeek(tokenElif, tokenElse) {
				return stmt
			}
			p.nextToken()
		}
		switch p.curToken.Type {
		case tokenElif:
			clause := &IfStmt{position: p.curToken.Pos}
			p.nextToken()
			clause.Condition = p.parseExpression(lowestPrec)
			if clause.Condition == nil || !p.expectPeek(tokenColon, "':' after elif condition") {
				return nil
			}
			clause.Consequent = p.parseBlock(true)
			stmt.ElseIf = append(stmt.ElseIf, clause)
		case tokenElse:
			if !p.expectPeek(tokenColon, "':' after else") {
				return nil
			}
			stmt.Alternate = p.parseBlock(false)
			if !p.curTokenIs(tokenSemicolon) {
				return nil
			}
			return stmt
		default:
			return nil
		}
	}
}

func (p *parser) parseForStatement() Statement {
	stmt := &ForStmt{position: p.curToken.Pos}
	if !p.expectPeek(tokenIdent, "loop variable") {
		return nil
	}
	stmt.Vars = append(stmt.Vars, p.curToken.Literal)
	for p.peekTokenIs(tokenComma) {
		p.nextToken()
		if !p.expectPeek(tokenIdent, "loop variable") {
			return nil
		}
		stmt.Vars = append(stmt.Vars, p.curToken.Literal)
	}
	if !p.expectPeek(tokenIn, "'in'") {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(lowestPrec)
	if stmt.Iterable == nil || !p.expectPeek(tokenColon, "':' after for clause") {
		return nil
	}
	stmt.Body = p.parseBlock(false)
	if !p.curTokenIs(tokenSemicolon) {
		return nil
	}
	return stmt
}

func (p *parser) parseWhileStatement() Statement {
	stmt := &WhileStmt{position: p.curToken.Pos}
	p.nextToken()
	stmt.Condition = p.parseExpression(lowestPrec)
	if stmt.Condition == nil || !p.expectPeek(tokenColon, "':' after while condition") {
		return nil
	}
	stmt.Body = p.parseBlock(false)
	if !p.curTokenIs(tokenSemicolon) {
		return nil
	}
	return stmt
}

func (p *parser) parseTryStatement() Statement {
	stmt := &TryStmt{position: p.curToken.Pos}
	if !p.expectPeek(tokenColon, "':' after try") {
		return nil
	}
	stmt.Body = p.parseBlock(false)
	if !p.curTokenIs(tokenSemicolon) {
		return nil
	}
	if p.skipNewlinesBeforePeek(tokenCatch) {
		p.nextToken()
		if !p.expectPeek(tokenIdent, "variable name after 'catch'") {
			return nil
		}
		stmt.CatchVar = p.curToken.Literal
		stmt.HasCatch = true
		if !p.expectPeek(tokenColon, "':' after catch variable") {
			return nil
		}
		stmt.Catch = p.parseBlock(false)
		if !p.curTokenIs(tokenSemicolon) {
			return nil
		}
	}
	if p.skipNewlinesBeforePeek(tokenFinally) {
		p.nextToken()
		if !p.expectPeek(tokenColon, "':' after finally") {
			return nil
		}
		stmt.Finally = p.parseBlock(false)
		if !p.curTokenIs(tokenSemicolon) {
			return nil
		}
	}
	if !stmt.HasCatch && stmt.Finally == nil {
		p.addParseError(stmt.position, "try requires a catch or finally block")
		return nil
	}
	return stmt
}

func (p *parser) parseInCaseStatement() Statement {
	stmt := &InCaseStmt{position: p.curToken.Pos}
	p.nextToken()
	stmt.Subject = p.parseExpression(lowestPrec)
	if stmt.Subject == nil || !p.expectPeek(tokenColon, "':' after incase subject") {
		return nil
	}

	for p.skipNewlinesBeforePeek(tokenIs) {
		p.nextToken()
		clause := InCaseClause{position: p.curToken.Pos}
		for {
			p.nextToken()
			value := p.parseExpression(precOr)
			if value == nil {
				return nil
			}
			clause.Values = append(clause.Values, value)
			if !p.peekTokenIs(tokenOr) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(tokenColon, "':' after incase value") {
			return nil
		}
		clause.Body = p.parseBlock(false)
		if !p.curTokenIs(tokenSemicolon) {
			return nil
		}
		stmt.Clauses = append(stmt.Clauses, clause)
	}

	if p.skipNewlinesBeforePeek(tokenElse) {
		p.nextToken()
		if !p.expectPeek(tokenColon, "':' after else") {
			return nil
		}
		stmt.Else = p.parseBlock(false)
		if !p.curTokenIs(tokenSemicolon) {
			return nil
		}
	}

	p.skipNewlinesBeforePeek(tokenSemicolon)
	if !p.expectPeek(tokenSemicolon, "';' to close incase") {
		return nil
	}
	return stmt
}
