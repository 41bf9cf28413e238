package xell

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

func (p *parser) parseStringLiteral() Expression {
	tok := p.curToken
	parts, ok := p.splitInterpolation(tok)
	if !ok {
		return nil
	}
	if len(parts) == 0 {
		return &StringLiteral{Value: "", position: tok.Pos}
	}
	if len(parts) == 1 {
		if lit, isLit := parts[0].(*StringLiteral); isLit {
			return lit
		}
	}
	return &InterpolatedString{Parts: parts, position: tok.Pos}
}

func (p *parser) parseRawStringLiteral() Expression {
	return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBytesLiteral() Expression {
	decoded, err := decodeEscapes(p.curToken.Literal, true)
	if err != "" {
		p.addParseError(p.curToken.Pos, err)
		return nil
	}
	return &BytesLiteral{Value: []byte(decoded), position: p.curToken.Pos}
}

// splitInterpolation decodes a string body into literal and `{expr}` parts.
func (p *parser) splitInterpolation(tok Token) ([]Expression, bool) {
	raw := tok.Literal
	var parts []Expression
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			parts = append(parts, &StringLiteral{Value: pending.String(), position: tok.Pos})
			pending.Reset()
		}
	}

	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			decoded, width, err := decodeEscape(raw[i:], false)
			if err != "" {
				p.addParseError(tok.Pos, err)
				return nil, false
			}
			pending.WriteString(decoded)
			i += width
		case c == '{':
			end := matchingBrace(raw, i)
			if end < 0 {
				p.addParseError(tok.Pos, "unterminated interpolation in string")
				return nil, false
			}
			inner := strings.TrimSpace(raw[i+1 : end])
			if inner == "" {
				pending.WriteString("{}")
				i = end + 1
				continue
			}
			expr := p.parseInterpolated(inner, tok.Pos)
			if expr == nil {
				return nil, false
			}
			flush()
			parts = append(parts, expr)
			i = end + 1
		default:
			pending.WriteByte(c)
			i++
		}
	}
	flush()
	return parts, true
}

func (p *parser) parseInterpolated(src string, pos Position) Expression {
	sub := newParser(src, p.path)
	expr := sub.parseExpression(lowestPrec)
	if len(sub.errors) == 0 && !sub.peekTokenIs(tokenEOF) {
		sub.errorUnexpected(sub.peekToken)
	}
	for _, err := range sub.errors {
		p.addParseError(Position{Line: pos.Line + err.Pos.Line - 1, Column: pos.Column}, "in interpolation: "+err.Message)
	}
	if len(sub.errors) > 0 {
		return nil
	}
	return expr
}

// matchingBrace returns the index of the '}' closing the '{' at start,
// skipping nested braces and quoted strings.
func matchingBrace(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '"', '\'':
			quote := s[i]
			for i++; i < len(s) && s[i] != quote; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		}
	}
	return -1
}

func decodeEscapes(raw string, bytesMode bool) (string, string) {
	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] == '\\' && i+1 < len(raw) {
			decoded, width, err := decodeEscape(raw[i:], bytesMode)
			if err != "" {
				return "", err
			}
			b.WriteString(decoded)
			i += width
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String(), ""
}

// decodeEscape decodes the escape sequence at the start of s. In bytes mode
// \xNN produces a raw byte instead of a code point.
func decodeEscape(s string, bytesMode bool) (string, int, string) {
	switch s[1] {
	case 'n':
		return "\n", 2, ""
	case 't':
		return "\t", 2, ""
	case 'r':
		return "\r", 2, ""
	case '0':
		return "\x00", 2, ""
	case '\\', '"', '\'', '{', '}':
		return s[1:2], 2, ""
	case 'x':
		if len(s) < 4 {
			return "", 0, "invalid \\x escape"
		}
		n, err := strconv.ParseUint(s[2:4], 16, 8)
		if err != nil {
			return "", 0, "invalid \\x escape"
		}
		if bytesMode {
			return string([]byte{byte(n)}), 4, ""
		}
		return string(rune(n)), 4, ""
	case 'u':
		if len(s) < 6 {
			return "", 0, "invalid \\u escape"
		}
		n, err := strconv.ParseUint(s[2:6], 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return "", 0, "invalid \\u escape"
		}
		return string(rune(n)), 6, ""
	default:
		return s[:2], 2, ""
	}
}

func (p *parser) parseListLiteral() Expression {
	pos := p.curToken.Pos
	elements, ok := p.parseExpressionList(tokenRBracket)
	if !ok {
		return nil
	}
	return &ListLiteral{Elements: elements, position: pos}
}

func (p *parser) parseFrozenSetLiteral() Expression {
	lit := &SetLiteral{Frozen: true, Elements: []Expression{}, position: p.curToken.Pos}
	if p.peekTokenIs(tokenGT) {
		p.nextToken()
		return lit
	}
	for {
		p.nextToken()
		elem := p.parseExpression(precComparison)
		if elem == nil {
			return nil
		}
		lit.Elements = append(lit.Elements, elem)
		if !p.peekTokenIs(tokenComma) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(tokenGT, "'>' to close frozenset") {
		return nil
	}
	return lit
}

// parseBraceLiteral parses `{k: v}` maps and `{a, b}` sets. A literal made
// only of spreads is a map.
func (p *parser) parseBraceLiteral() Expression {
	pos := p.curToken.Pos
	if p.peekTokenIs(tokenRBrace) {
		p.nextToken()
		return &MapLiteral{Entries: []MapLiteralEntry{}, position: pos}
	}

	var entries []MapLiteralEntry
	keyed := false
	plain := false
	for {
		p.nextToken()
		if p.curTokenIs(tokenRBrace) {
			break
		}
		expr := p.parseExpression(lowestPrec)
		if expr == nil {
			return nil
		}
		if p.peekTokenIs(tokenColon) {
			keyed = true
			if ident, ok := expr.(*Identifier); ok {
				expr = &StringLiteral{Value: ident.Name, position: ident.position}
			}
			p.nextToken()
			p.nextToken()
			value := p.parseExpression(lowestPrec)
			if value == nil {
				return nil
			}
			entries = append(entries, MapLiteralEntry{Key: expr, Value: value})
		} else {
			if _, isSpread := expr.(*SpreadExpr); !isSpread {
				plain = true
			}
			entries = append(entries, MapLiteralEntry{Value: expr})
		}
		if !p.peekTokenIs(tokenComma) {
			if !p.expectPeek(tokenRBrace, "'}'") {
				return nil
			}
			break
		}
		p.nextToken()
	}

	if keyed && plain {
		p.addParseError(pos, "cannot mix map entries and set elements")
		return nil
	}
	if plain {
		elements := make([]Expression, len(entries))
		for i, entry := range entries {
			elements[i] = entry.Value
		}
		return &SetLiteral{Elements: elements, position: pos}
	}
	return &MapLiteral{Entries: entries, position: pos}
}
