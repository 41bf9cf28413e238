package xell

func (p *parser) parseFunctionStatement(decorators []Expression, isAsync bool) Statement {
	stmt := &FunctionStmt{position: p.curToken.Pos, IsAsync: isAsync, Decorators: decorators}
	if !p.expectPeek(tokenIdent, "function name after 'fn'") {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if !p.expectPeek(tokenLParen, "'(' after function name") {
		return nil
	}
	params, variadic, ok := p.parseParams()
	if !ok {
		return nil
	}
	stmt.Params = params
	stmt.Variadic = variadic
	if !p.expectPeek(tokenColon, "':' after function signature") {
		return nil
	}
	stmt.Body = p.parseBlock(false)
	if !p.curTokenIs(tokenSemicolon) {
		return nil
	}
	return stmt
}

func (p *parser) parseAsyncFunction(decorators []Expression) Statement {
	if !p.expectPeek(tokenFn, "'fn' after 'async'") {
		return nil
	}
	return p.parseFunctionStatement(decorators, true)
}

// parseDecoratedFunction parses one or more `@expr` lines before a function.
func (p *parser) parseDecoratedFunction() Statement {
	var decorators []Expression
	for p.curTokenIs(tokenAt) {
		p.nextToken()
		dec := p.parseExpression(lowestPrec)
		if dec == nil {
			return nil
		}
		decorators = append(decorators, dec)
		p.nextToken()
		for isStatementSeparator(p.curToken.Type) {
			p.nextToken()
		}
	}
	switch p.curToken.Type {
	case tokenFn:
		return p.parseFunctionStatement(decorators, false)
	case tokenAsync:
		return p.parseAsyncFunction(decorators)
	default:
		p.errorExpected(p.curToken, "function definition after decorator")
		return nil
	}
}

func (p *parser) parseBringStatement() Statement {
	stmt := &BringStmt{position: p.curToken.Pos}
	if p.peekTokenIs(tokenAsterisk) {
		p.nextToken()
		stmt.All = true
	} else {
		for {
			if !p.expectPeek(tokenIdent, "name to bring") {
				return nil
			}
			stmt.Names = append(stmt.Names, p.curToken.Literal)
			if !p.peekTokenIs(tokenComma) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expectPeek(tokenFrom, "'from'") {
		return nil
	}
	p.nextToken()
	if !p.curTokenIs(tokenString) && !p.curTokenIs(tokenRawString) {
		p.errorExpected(p.curToken, "module path string")
		return nil
	}
	path := p.curToken.Literal
	if p.curTokenIs(tokenString) {
		decoded, err := decodeEscapes(path, false)
		if err != "" {
			p.addParseError(p.curToken.Pos, err)
			return nil
		}
		path = decoded
	}
	stmt.Path = path

	if p.peekTokenIs(tokenAs) {
		if stmt.All {
			p.addParseError(p.peekToken.Pos, "cannot alias 'bring *'")
			return nil
		}
		p.nextToken()
		for {
			if !p.expectPeek(tokenIdent, "alias name") {
				return nil
			}
			stmt.Aliases = append(stmt.Aliases, p.curToken.Literal)
			if !p.peekTokenIs(tokenComma) {
				break
			}
			p.nextToken()
		}
		if len(stmt.Aliases) != len(stmt.Names) {
			p.addParseError(stmt.position, "alias count must match the number of brought names")
			return nil
		}
	}
	return stmt
}

// parseEnumStatement parses `enum Name: A, B = 5, C ;`. Members may be split
// across lines.
func (p *parser) parseEnumStatement() Statement {
	stmt := &EnumStmt{position: p.curToken.Pos}
	if !p.expectPeek(tokenIdent, "enum name") {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if !p.expectPeek(tokenColon, "':' after enum name") {
		return nil
	}
	for {
		p.nextToken()
		for isStatementSeparator(p.curToken.Type) || p.curTokenIs(tokenComma) {
			p.nextToken()
		}
		if p.curTokenIs(tokenSemicolon) {
			break
		}
		if !p.curTokenIs(tokenIdent) {
			p.errorExpected(p.curToken, "enum member name")
			return nil
		}
		member := EnumMember{Name: p.curToken.Literal}
		if p.peekTokenIs(tokenAssign) {
			p.nextToken()
			p.nextToken()
			member.Value = p.parseExpression(lowestPrec)
			if member.Value == nil {
				return nil
			}
		}
		stmt.Members = append(stmt.Members, member)
	}
	if len(stmt.Members) == 0 {
		p.addParseError(stmt.position, "enum "+stmt.Name+" has no members")
		return nil
	}
	return stmt
}
