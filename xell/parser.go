package xell

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

type parser struct {
	tokens []Token
	index  int
	source string
	path   string

	curToken  Token
	peekToken Token

	errors []*ParseError

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

// Parse turns source text into a Program. All syntax errors are returned
// together as ParseErrors.
func Parse(source, path string) (*Program, error) {
	p := newParser(source, path)
	program := p.ParseProgram()
	if len(p.errors) > 0 {
		return nil, ParseErrors(p.errors)
	}
	return program, nil
}

func newParser(input, path string) *parser {
	p := &parser{
		tokens: newLexer(input).tokenize(),
		source: input,
		path:   path,
		index:  -2,
	}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenInt, p.parseIntegerLiteral)
	p.registerPrefix(tokenFloat, p.parseFloatLiteral)
	p.registerPrefix(tokenImaginary, p.parseImaginaryLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenRawString, p.parseRawStringLiteral)
	p.registerPrefix(tokenBytes, p.parseBytesLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenNone, p.parseNoneLiteral)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenLBracket, p.parseListLiteral)
	p.registerPrefix(tokenLBrace, p.parseBraceLiteral)
	p.registerPrefix(tokenLT, p.parseFrozenSetLiteral)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenNot, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)
	p.registerPrefix(tokenPlus, p.parsePrefixExpression)
	p.registerPrefix(tokenIncrement, p.parsePrefixIncDec)
	p.registerPrefix(tokenDecrement, p.parsePrefixIncDec)
	p.registerPrefix(tokenEllipsis, p.parseSpreadExpression)
	p.registerPrefix(tokenYield, p.parseYieldExpression)
	p.registerPrefix(tokenAwait, p.parseAwaitExpression)

	for tt := range precedences {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenIf] = p.parseTernaryExpression
	p.infixFns[tokenNot] = p.parseNotInExpression
	p.infixFns[tokenIncrement] = p.parsePostfixIncDec
	p.infixFns[tokenDecrement] = p.parsePostfixIncDec
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenArrow] = p.parseMemberExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) tokenAt(i int) Token {
	if i < 0 {
		return Token{}
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) nextToken() {
	p.index++
	p.curToken = p.tokenAt(p.index)
	p.peekToken = p.tokenAt(p.index + 1)
}

// peekN looks n tokens past the current one; peekN(1) is peekToken.
func (p *parser) peekN(n int) Token {
	return p.tokenAt(p.index + n)
}

func (p *parser) curTokenIs(tt TokenType) bool  { return p.curToken.Type == tt }
func (p *parser) peekTokenIs(tt TokenType) bool { return p.peekToken.Type == tt }

func (p *parser) expectPeek(tt TokenType, expected string) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, expected)
	return false
}

func (p *parser) peekPrecedence() int {
	if p.peekToken.Type == tokenNot && p.peekN(2).Type == tokenIn {
		return precComparison
	}
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func isStatementSeparator(tt TokenType) bool {
	return tt == tokenNewline || tt == tokenDot
}

func (p *parser) ParseProgram() *Program {
	program := &Program{Source: p.source, Path: p.path}
	// parseStatementList advances before reading, so back up to just before
	// the first token.
	p.index = -2
	p.nextToken()
	program.Statements = p.parseStatementList(func() bool {
		if p.curTokenIs(tokenSemicolon) {
			p.errorUnexpected(p.curToken)
			return false
		}
		return p.curTokenIs(tokenEOF)
	})
	return program
}

// parseStatementList parses statements until stop reports true for the
// current token. It is entered with curToken on the token before the list.
func (p *parser) parseStatementList(stop func() bool) []Statement {
	var stmts []Statement
	for {
		p.nextToken()
		for isStatementSeparator(p.curToken.Type) {
			p.nextToken()
		}
		if stop() {
			return stmts
		}
		if p.curTokenIs(tokenEOF) {
			p.errorExpected(p.curToken, "';'")
			return stmts
		}
		if p.curTokenIs(tokenSemicolon) {
			// stop rejected a stray ';'; skip it to make progress
			continue
		}
		before := len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		if !p.curTokenIs(tokenSemicolon) && !p.statementEndsHere() {
			p.errorExpected(p.peekToken, "end of statement")
			p.synchronize()
		}
	}
}

func (p *parser) statementEndsHere() bool {
	switch p.peekToken.Type {
	case tokenNewline, tokenDot, tokenSemicolon, tokenEOF, tokenElif, tokenElse:
		return true
	default:
		return false
	}
}

// synchronize skips to the end of the current line so one error does not
// cascade through the rest of the file.
func (p *parser) synchronize() {
	for !p.peekTokenIs(tokenEOF) && !p.peekTokenIs(tokenNewline) && !p.curTokenIs(tokenEOF) {
		p.nextToken()
	}
}

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenFn:
		return p.parseFunctionStatement(nil, false)
	case tokenAsync:
		return p.parseAsyncFunction(nil)
	case tokenAt:
		return p.parseDecoratedFunction()
	case tokenGive:
		return p.parseGiveStatement()
	case tokenIf:
		return p.parseIfStatement()
	case tokenFor:
		return p.parseForStatement()
	case tokenWhile:
		return p.parseWhileStatement()
	case tokenBreak:
		return &BreakStmt{position: p.curToken.Pos}
	case tokenContinue:
		return &ContinueStmt{position: p.curToken.Pos}
	case tokenBring:
		return p.parseBringStatement()
	case tokenTry:
		return p.parseTryStatement()
	case tokenIncase:
		return p.parseInCaseStatement()
	case tokenEnum:
		return p.parseEnumStatement()
	case tokenIdent:
		if p.peekTokenIs(tokenComma) && p.looksLikeDestructure() {
			return p.parseDestructureStatement()
		}
		if p.startsBareCall() {
			return p.parseBareCallStatement()
		}
		return p.parseExpressionOrAssignStatement()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

// parseBlock parses `: statements ;`. It is entered with curToken on the
// colon. With stopAtBranch set it also ends before elif/else and leaves
// curToken on that keyword; otherwise curToken ends on the closing ';'.
func (p *parser) parseBlock(stopAtBranch bool) []Statement {
	return p.parseStatementList(func() bool {
		if p.curTokenIs(tokenSemicolon) {
			return true
		}
		return stopAtBranch && (p.curTokenIs(tokenElif) || p.curTokenIs(tokenElse))
	})
}

// skipNewlinesBeforePeek advances over separators when the token after them
// is the given type, so clauses may start on a fresh line.
func (p *parser) skipNewlinesBeforePeek(types ...TokenType) bool {
	i := 1
	for p.peekN(i).Type == tokenNewline {
		i++
	}
	target := p.peekN(i).Type
	for _, tt := range types {
		if target == tt {
			for j := 1; j < i; j++ {
				p.nextToken()
			}
			return true
		}
	}
	return false
}
