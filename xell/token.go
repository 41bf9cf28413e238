package xell

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"
	tokenNewline TokenType = "NEWLINE"

	tokenIdent     TokenType = "IDENT"
	tokenInt       TokenType = "INT"
	tokenFloat     TokenType = "FLOAT"
	tokenImaginary TokenType = "IMAGINARY"
	tokenString    TokenType = "STRING"
	tokenRawString TokenType = "RAW_STRING"
	tokenBytes     TokenType = "BYTES"

	tokenAssign        TokenType = "="
	tokenPlusAssign    TokenType = "+="
	tokenMinusAssign   TokenType = "-="
	tokenStarAssign    TokenType = "*="
	tokenSlashAssign   TokenType = "/="
	tokenPercentAssign TokenType = "%="
	tokenPlus          TokenType = "+"
	tokenMinus         TokenType = "-"
	tokenIncrement     TokenType = "++"
	tokenDecrement     TokenType = "--"
	tokenBang          TokenType = "!"
	tokenAsterisk      TokenType = "*"
	tokenSlash         TokenType = "/"
	tokenPercent       TokenType = "%"
	tokenLT            TokenType = "<"
	tokenGT            TokenType = ">"
	tokenLTE           TokenType = "<="
	tokenGTE           TokenType = ">="
	tokenEQ            TokenType = "=="
	tokenNotEQ         TokenType = "!="
	tokenAndAnd        TokenType = "&&"
	tokenOrOr          TokenType = "||"
	tokenPipe          TokenType = "|"

	tokenComma     TokenType = ","
	tokenColon     TokenType = ":"
	tokenSemicolon TokenType = ";"
	tokenDot       TokenType = "."
	tokenEllipsis  TokenType = "..."
	tokenArrow     TokenType = "->"
	tokenFatArrow  TokenType = "=>"
	tokenAt        TokenType = "@"
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenFn       TokenType = "FN"
	tokenGive     TokenType = "GIVE"
	tokenIf       TokenType = "IF"
	tokenElif     TokenType = "ELIF"
	tokenElse     TokenType = "ELSE"
	tokenFor      TokenType = "FOR"
	tokenIn       TokenType = "IN"
	tokenWhile    TokenType = "WHILE"
	tokenBreak    TokenType = "BREAK"
	tokenContinue TokenType = "CONTINUE"
	tokenTrue     TokenType = "TRUE"
	tokenFalse    TokenType = "FALSE"
	tokenNone     TokenType = "NONE"
	tokenAnd      TokenType = "AND"
	tokenOr       TokenType = "OR"
	tokenNot      TokenType = "NOT"
	tokenIs       TokenType = "IS"
	tokenEqKw     TokenType = "EQ"
	tokenNeKw     TokenType = "NE"
	tokenGtKw     TokenType = "GT"
	tokenLtKw     TokenType = "LT"
	tokenGeKw     TokenType = "GE"
	tokenLeKw     TokenType = "LE"
	tokenBring    TokenType = "BRING"
	tokenFrom     TokenType = "FROM"
	tokenAs       TokenType = "AS"
	tokenTry      TokenType = "TRY"
	tokenCatch    TokenType = "CATCH"
	tokenFinally  TokenType = "FINALLY"
	tokenIncase   TokenType = "INCASE"
	tokenYield    TokenType = "YIELD"
	tokenAwait    TokenType = "AWAIT"
	tokenAsync    TokenType = "ASYNC"
	tokenEnum     TokenType = "ENUM"
)

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

var keywords = map[string]TokenType{
	"fn":       tokenFn,
	"give":     tokenGive,
	"if":       tokenIf,
	"elif":     tokenElif,
	"else":     tokenElse,
	"for":      tokenFor,
	"in":       tokenIn,
	"while":    tokenWhile,
	"break":    tokenBreak,
	"continue": tokenContinue,
	"true":     tokenTrue,
	"false":    tokenFalse,
	"none":     tokenNone,
	"and":      tokenAnd,
	"or":       tokenOr,
	"not":      tokenNot,
	"is":       tokenIs,
	"eq":       tokenEqKw,
	"ne":       tokenNeKw,
	"gt":       tokenGtKw,
	"lt":       tokenLtKw,
	"ge":       tokenGeKw,
	"le":       tokenLeKw,
	"bring":    tokenBring,
	"from":     tokenFrom,
	"as":       tokenAs,
	"try":      tokenTry,
	"catch":    tokenCatch,
	"finally":  tokenFinally,
	"incase":   tokenIncase,
	"yield":    tokenYield,
	"await":    tokenAwait,
	"async":    tokenAsync,
	"enum":     tokenEnum,
}

func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return tokenIdent
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	return out
}
