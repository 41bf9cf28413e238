package xell

import (
	"fmt"
	"strings"
)

// ParseError reports a syntax error at a source position.
type ParseError struct {
	Pos     Position
	Message string
	Path    string
	source  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if frame := formatCodeFrame(e.source, e.Path, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// ParseErrors is every syntax error found in one source.
type ParseErrors []*ParseError

func (errs ParseErrors) Error() string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.addParseError(tok.Pos, fmt.Sprintf("unexpected %s", tokenLabel(tok)))
}

func (p *parser) addParseError(pos Position, msg string) {
	p.errors = append(p.errors, &ParseError{Pos: pos, Message: msg, Path: p.path, source: p.source})
}

func tokenLabel(tok Token) string {
	switch tok.Type {
	case tokenIllegal:
		if tok.Literal == "unterminated string" {
			return tok.Literal
		}
		return fmt.Sprintf("invalid token %q", tok.Literal)
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "end of line"
	case tokenIdent:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case tokenInt:
		return "integer"
	case tokenFloat:
		return "float"
	case tokenImaginary:
		return "imaginary number"
	case tokenString, tokenRawString:
		return "string"
	case tokenBytes:
		return "bytes"
	default:
		if _, ok := keywords[tok.Literal]; ok {
			return fmt.Sprintf("'%s'", tok.Literal)
		}
		return fmt.Sprintf("%q", string(tok.Type))
	}
}
