package xell

func isAssignable(expr Expression) bool {
	switch expr.(type) {
	case *Identifier, *MemberExpr, *IndexExpr:
		return true
	default:
		return false
	}
}

const (
	lowestPrec = iota
	precTernary
	precPipeOr
	precPipeAnd
	precPipe
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precPostfix
	precCall
)

var precedences = map[TokenType]int{
	tokenIf:        precTernary,
	tokenOrOr:      precPipeOr,
	tokenAndAnd:    precPipeAnd,
	tokenPipe:      precPipe,
	tokenOr:        precOr,
	tokenAnd:       precAnd,
	tokenEQ:        precEquality,
	tokenNotEQ:     precEquality,
	tokenIs:        precEquality,
	tokenEqKw:      precEquality,
	tokenNeKw:      precEquality,
	tokenLT:        precComparison,
	tokenLTE:       precComparison,
	tokenGT:        precComparison,
	tokenGTE:       precComparison,
	tokenLtKw:      precComparison,
	tokenLeKw:      precComparison,
	tokenGtKw:      precComparison,
	tokenGeKw:      precComparison,
	tokenIn:        precComparison,
	tokenPlus:      precSum,
	tokenMinus:     precSum,
	tokenSlash:     precProduct,
	tokenAsterisk:  precProduct,
	tokenPercent:   precProduct,
	tokenIncrement: precPostfix,
	tokenDecrement: precPostfix,
	tokenLParen:    precCall,
	tokenArrow:     precCall,
	tokenLBracket:  precCall,
}

// binaryOperatorAliases maps keyword comparisons onto their symbolic form.
var binaryOperatorAliases = map[TokenType]TokenType{
	tokenIs:   tokenEQ,
	tokenEqKw: tokenEQ,
	tokenNeKw: tokenNotEQ,
	tokenGtKw: tokenGT,
	tokenLtKw: tokenLT,
	tokenGeKw: tokenGTE,
	tokenLeKw: tokenLTE,
}

var compoundAssignOperators = map[TokenType]TokenType{
	tokenPlusAssign:    tokenPlus,
	tokenMinusAssign:   tokenMinus,
	tokenStarAssign:    tokenAsterisk,
	tokenSlashAssign:   tokenSlash,
	tokenPercentAssign: tokenPercent,
}
