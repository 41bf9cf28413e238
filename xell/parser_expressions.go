package xell

import (
	"fmt"
	"strconv"
	"strings"
)

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parseIdentifier() Expression {
	ident := &Identifier{Name: p.curToken.Literal, position: p.curToken.Pos}
	if p.peekTokenIs(tokenFatArrow) {
		p.nextToken()
		return p.parseLambdaBody(&LambdaExpr{Params: []Param{{Name: ident.Name}}, position: ident.position})
	}
	return ident
}

func (p *parser) parseIntegerLiteral() Expression {
	literal := p.curToken.Literal
	base := 10
	if len(literal) > 1 && literal[0] == '0' && strings.ContainsAny(literal[1:2], "xbo") {
		base = 0
	}
	value, err := strconv.ParseInt(literal, base, 64)
	if err != nil {
		p.addParseError(p.curToken.Pos, "invalid integer literal "+literal)
		return nil
	}
	return &IntegerLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseFloatLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addParseError(p.curToken.Pos, "invalid float literal")
		return nil
	}
	return &FloatLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseImaginaryLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addParseError(p.curToken.Pos, "invalid imaginary literal")
		return nil
	}
	return &ImaginaryLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &BoolLiteral{Value: p.curToken.Type == tokenTrue, position: p.curToken.Pos}
}

func (p *parser) parseNoneLiteral() Expression {
	return &NoneLiteral{position: p.curToken.Pos}
}

func (p *parser) parsePrefixExpression() Expression {
	expr := &UnaryExpr{Operator: p.curToken.Type, position: p.curToken.Pos}
	prec := precPrefix
	if expr.Operator == tokenNot {
		expr.Operator = tokenBang
		prec = precAnd
	}
	p.nextToken()
	expr.Right = p.parseExpression(prec)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *parser) parsePrefixIncDec() Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(precPrefix)
	ident, ok := operand.(*Identifier)
	if !ok {
		p.addParseError(tok.Pos, string(tok.Type)+" requires a variable operand")
		return nil
	}
	return &IncDecExpr{Target: ident, Operator: tok.Type, Prefix: true, position: tok.Pos}
}

func (p *parser) parsePostfixIncDec(left Expression) Expression {
	ident, ok := left.(*Identifier)
	if !ok {
		p.addParseError(p.curToken.Pos, string(p.curToken.Type)+" requires a variable operand")
		return nil
	}
	return &IncDecExpr{Target: ident, Operator: p.curToken.Type, position: ident.position}
}

func (p *parser) parseSpreadExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	value := p.parseExpression(precPrefix)
	if value == nil {
		return nil
	}
	return &SpreadExpr{Value: value, position: pos}
}

func (p *parser) parseYieldExpression() Expression {
	expr := &YieldExpr{position: p.curToken.Pos}
	if p.peekStartsExpression() {
		p.nextToken()
		expr.Value = p.parseExpression(lowestPrec)
		if expr.Value == nil {
			return nil
		}
	}
	return expr
}

func (p *parser) parseAwaitExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	value := p.parseExpression(precPrefix)
	if value == nil {
		return nil
	}
	return &AwaitExpr{Value: value, position: pos}
}

func (p *parser) peekStartsExpression() bool {
	switch p.peekToken.Type {
	case tokenNewline, tokenDot, tokenSemicolon, tokenEOF, tokenRParen, tokenRBracket, tokenRBrace, tokenComma:
		return false
	}
	_, ok := p.prefixFns[p.peekToken.Type]
	return ok
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	expr := &BinaryExpr{Left: left, Operator: p.curToken.Type, position: p.curToken.Pos}
	if alias, ok := binaryOperatorAliases[expr.Operator]; ok {
		expr.Operator = alias
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *parser) parseNotInExpression(left Expression) Expression {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIn, "'in' after 'not'") {
		return nil
	}
	p.nextToken()
	right := p.parseExpression(precComparison)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Left: left, Operator: tokenIn, Right: right, Negated: true, position: pos}
}

func (p *parser) parseTernaryExpression(left Expression) Expression {
	expr := &TernaryExpr{Then: left, position: p.curToken.Pos}
	p.nextToken()
	expr.Condition = p.parseExpression(precTernary)
	if expr.Condition == nil {
		return nil
	}
	if !p.expectPeek(tokenElse, "'else' in conditional expression") {
		return nil
	}
	p.nextToken()
	expr.Else = p.parseExpression(lowestPrec)
	if expr.Else == nil {
		return nil
	}
	return expr
}

func (p *parser) parseCallExpression(callee Expression) Expression {
	pos := p.curToken.Pos
	args, ok := p.parseExpressionList(tokenRParen)
	if !ok {
		return nil
	}
	return &CallExpr{Callee: callee, Args: args, position: pos}
}

func (p *parser) parseMemberExpression(object Expression) Expression {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent, "member name after '->'") {
		return nil
	}
	return &MemberExpr{Object: object, Property: p.curToken.Literal, position: pos}
}

func (p *parser) parseIndexExpression(object Expression) Expression {
	pos := p.curToken.Pos
	p.nextToken()
	index := p.parseExpression(lowestPrec)
	if index == nil {
		return nil
	}
	if !p.expectPeek(tokenRBracket, "']'") {
		return nil
	}
	return &IndexExpr{Object: object, Index: index, position: pos}
}

// parseExpressionList parses comma separated expressions up to end. It is
// entered on the opening token and leaves curToken on end.
func (p *parser) parseExpressionList(end TokenType) ([]Expression, bool) {
	list := []Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(lowestPrec)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(tokenComma) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		expr := p.parseExpression(lowestPrec)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end, "'"+string(end)+"'") {
		return nil, false
	}
	return list, true
}

// parseGroupedExpression handles parenthesised expressions, tuples and
// lambdas with a parameter list.
func (p *parser) parseGroupedExpression() Expression {
	pos := p.curToken.Pos
	if p.isLambdaParams() {
		lambda := &LambdaExpr{position: pos}
		params, variadic, ok := p.parseParams()
		if !ok {
			return nil
		}
		lambda.Params = params
		lambda.Variadic = variadic
		if !p.expectPeek(tokenFatArrow, "'=>'") {
			return nil
		}
		return p.parseLambdaBody(lambda)
	}

	if p.peekTokenIs(tokenRParen) {
		p.nextToken()
		return &TupleLiteral{Elements: []Expression{}, position: pos}
	}

	p.nextToken()
	first := p.parseExpression(lowestPrec)
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(tokenComma) {
		if !p.expectPeek(tokenRParen, "')'") {
			return nil
		}
		return first
	}

	elements := []Expression{first}
	for p.peekTokenIs(tokenComma) {
		p.nextToken()
		if p.peekTokenIs(tokenRParen) {
			break
		}
		p.nextToken()
		expr := p.parseExpression(lowestPrec)
		if expr == nil {
			return nil
		}
		elements = append(elements, expr)
	}
	if !p.expectPeek(tokenRParen, "')'") {
		return nil
	}
	return &TupleLiteral{Elements: elements, position: pos}
}

// isLambdaParams reports whether the '(' at curToken closes into '=>'.
func (p *parser) isLambdaParams() bool {
	depth := 0
	for i := 0; ; i++ {
		tok := p.peekN(i)
		switch tok.Type {
		case tokenLParen:
			depth++
		case tokenRParen:
			depth--
			if depth == 0 {
				return p.peekN(i+1).Type == tokenFatArrow
			}
		case tokenEOF:
			return false
		}
	}
}

// parseLambdaBody is entered on '=>'.
func (p *parser) parseLambdaBody(lambda *LambdaExpr) Expression {
	if p.peekTokenIs(tokenColon) {
		p.nextToken()
		lambda.Body = p.parseBlock(false)
		if !p.curTokenIs(tokenSemicolon) {
			return nil
		}
		return lambda
	}
	p.nextToken()
	lambda.Expr = p.parseExpression(lowestPrec)
	if lambda.Expr == nil {
		return nil
	}
	return lambda
}

// parseParams parses `(a, b = 1, ...rest)`. It is entered on '(' and leaves
// curToken on ')'.
func (p *parser) parseParams() ([]Param, string, bool) {
	params := []Param{}
	variadic := ""
	if p.peekTokenIs(tokenRParen) {
		p.nextToken()
		return params, variadic, true
	}
	for {
		p.nextToken()
		if p.curTokenIs(tokenEllipsis) {
			if !p.expectPeek(tokenIdent, "parameter name after '...'") {
				return nil, "", false
			}
			variadic = p.curToken.Literal
			if !p.expectPeek(tokenRParen, "')' after variadic parameter") {
				return nil, "", false
			}
			return params, variadic, true
		}
		if !p.curTokenIs(tokenIdent) {
			p.errorExpected(p.curToken, "parameter name")
			return nil, "", false
		}
		param := Param{Name: p.curToken.Literal}
		if p.peekTokenIs(tokenAssign) {
			p.nextToken()
			p.nextToken()
			param.DefaultVal = p.parseExpression(lowestPrec)
			if param.DefaultVal == nil {
				return nil, "", false
			}
		} else if len(params) > 0 && params[len(params)-1].DefaultVal != nil {
			p.addParseError(p.curToken.Pos, fmt.Sprintf("parameter '%s' without a default follows a parameter with one", param.Name))
			return nil, "", false
		}
		params = append(params, param)
		if p.peekTokenIs(tokenComma) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(tokenRParen, "')' after parameters") {
			return nil, "", false
		}
		return params, variadic, true
	}
}
