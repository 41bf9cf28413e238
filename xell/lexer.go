package xell

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune

	// depth counts open brackets; newlines inside brackets are insignificant.
	depth int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	return l.peekRuneN(0)
}

func (l *lexer) peekRuneN(n int) rune {
	idx := l.offset
	for i := 0; ; i++ {
		if idx >= len(l.input) {
			return 0
		}
		r, w := utf8.DecodeRuneInString(l.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
}

// tokenize lexes the whole input. Illegal tokens are kept in the stream so
// the parser can report them with positions.
func (l *lexer) tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == tokenNewline && len(tokens) > 0 && tokens[len(tokens)-1].Type == tokenNewline {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens
		}
	}
}

// operators lists every punctuation token, longer spellings before their
// prefixes.
var operators = []TokenType{
	tokenEllipsis,
	tokenArrow, tokenDecrement, tokenMinusAssign,
	tokenIncrement, tokenPlusAssign,
	tokenStarAssign, tokenSlashAssign, tokenPercentAssign,
	tokenNotEQ, tokenEQ, tokenFatArrow, tokenGTE, tokenLTE,
	tokenAndAnd, tokenOrOr,
	tokenPlus, tokenMinus, tokenAsterisk, tokenSlash, tokenPercent,
	tokenLParen, tokenRParen, tokenLBrace, tokenRBrace, tokenLBracket, tokenRBracket,
	tokenComma, tokenColon, tokenSemicolon, tokenAt, tokenDot,
	tokenBang, tokenAssign, tokenGT, tokenLT, tokenPipe,
}

func (l *lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	switch {
	case l.ch == 0:
		tok.Type = tokenEOF
	case l.ch == '\n':
		tok = l.makeToken(tokenNewline, "\n")
		l.readRune()
	case l.ch == '"' || l.ch == '\'':
		l.readQuoted(&tok, tokenString)
	case (l.ch == 'r' || l.ch == 'b') && (l.peekRune() == '"' || l.peekRune() == '\''):
		kind := tokenRawString
		if l.ch == 'b' {
			kind = tokenBytes
		}
		l.readRune()
		l.readQuoted(&tok, kind)
	case isIdentifierStart(l.ch):
		literal := l.readIdentifier()
		tok.Type = lookupIdent(literal)
		tok.Literal = literal
	case unicode.IsDigit(l.ch):
		literal, kind := l.readNumber()
		tok.Literal = literal
		tok.Type = kind
	default:
		if op, ok := l.readOperator(); ok {
			return op
		}
		tok = l.makeToken(tokenIllegal, string(l.ch))
		l.readRune()
	}

	return tok
}

func (l *lexer) readOperator() (Token, bool) {
	rest := l.input[l.currentOffset():]
	for _, op := range operators {
		if !strings.HasPrefix(rest, string(op)) {
			continue
		}
		tok := l.makeToken(op, string(op))
		for i := 0; i < len(op); i++ {
			l.readRune()
		}
		switch op {
		case tokenLParen, tokenLBrace, tokenLBracket:
			l.depth++
		case tokenRParen, tokenRBrace, tokenRBracket:
			l.closeBracket()
		}
		return tok, true
	}
	return Token{}, false
}

func (l *lexer) closeBracket() {
	if l.depth > 0 {
		l.depth--
	}
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: Position{Line: l.line, Column: l.column}}
}

// skipWhitespaceAndComments stops at a newline when no bracket is open so
// that it becomes a statement separator.
func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readRune()
		case '\n':
			if l.depth == 0 {
				return
			}
			l.readRune()
		case '#':
			for l.ch != 0 && l.ch != '\n' {
				l.readRune()
			}
		case '-':
			if l.peekRune() != '-' || l.peekRuneN(1) != '>' {
				return
			}
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *lexer) skipBlockComment() {
	// consume "-->"
	l.readRune()
	l.readRune()
	l.readRune()
	for l.ch != 0 {
		if l.ch == '<' && l.peekRune() == '-' && l.peekRuneN(1) == '-' {
			l.readRune()
			l.readRune()
			l.readRune()
			return
		}
		l.readRune()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber() (string, TokenType) {
	var sb strings.Builder

	if l.ch == '0' {
		switch l.peekRune() {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			sb.WriteRune(l.ch)
			l.readRune()
			sb.WriteRune(unicode.ToLower(l.ch))
			for isHexDigit(l.peekRune()) || l.peekRune() == '_' {
				l.readRune()
				if l.ch != '_' {
					sb.WriteRune(l.ch)
				}
			}
			l.readRune()
			return sb.String(), tokenInt
		}
	}

	kind := tokenInt
	sb.WriteRune(l.ch)
	for {
		r := l.peekRune()
		switch {
		case r == '_':
			if unicode.IsDigit(l.ch) && unicode.IsDigit(l.peekRuneN(1)) {
				l.readRune()
				continue
			}
			goto done
		case r == '.' && kind == tokenInt && unicode.IsDigit(l.peekRuneN(1)):
			kind = tokenFloat
			l.readRune()
			sb.WriteRune('.')
		case (r == 'e' || r == 'E') && (unicode.IsDigit(l.peekRuneN(1)) ||
			((l.peekRuneN(1) == '+' || l.peekRuneN(1) == '-') && unicode.IsDigit(l.peekRuneN(2)))):
			kind = tokenFloat
			l.readRune()
			sb.WriteRune('e')
			if l.peekRune() == '+' || l.peekRune() == '-' {
				l.readRune()
				sb.WriteRune(l.ch)
			}
		case unicode.IsDigit(r):
			l.readRune()
			sb.WriteRune(r)
		default:
			goto done
		}
	}

done:
	l.readRune()
	if l.ch == 'i' && !isIdentifierRune(l.peekRune()) {
		l.readRune()
		return sb.String(), tokenImaginary
	}
	return sb.String(), kind
}

// readQuoted reads a quoted literal starting at the opening quote. The token
// literal is the undecoded body; escapes and interpolation are handled by the
// parser. Braces inside interpolations may contain nested quoted strings.
func (l *lexer) readQuoted(tok *Token, kind TokenType) {
	quote := l.ch
	start := l.offset
	braces := 0
	for {
		l.readRune()
		switch {
		case l.ch == 0:
			tok.Type = tokenIllegal
			tok.Literal = "unterminated string"
			return
		case l.ch == '\\' && kind != tokenRawString:
			l.readRune()
		case l.ch == '{' && kind == tokenString:
			braces++
		case l.ch == '}' && braces > 0:
			braces--
		case braces > 0 && (l.ch == '"' || l.ch == '\''):
			inner := l.ch
			for {
				l.readRune()
				if l.ch == 0 || l.ch == inner {
					break
				}
				if l.ch == '\\' {
					l.readRune()
				}
			}
		case l.ch == quote:
			tok.Type = kind
			tok.Literal = l.input[start:l.currentOffset()]
			l.readRune()
			return
		}
	}
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
