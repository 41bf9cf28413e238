package xell

import (
	"fmt"
	"strings"
)

// Inspect walks node depth-first, calling visit for each node. Children are
// skipped when visit returns false.
func Inspect(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		inspectStatements(n.Statements, visit)
	case *ExprStmt:
		Inspect(n.Expr, visit)
	case *AssignStmt:
		Inspect(n.Target, visit)
		Inspect(n.Value, visit)
	case *DestructureStmt:
		Inspect(n.Value, visit)
	case *FunctionStmt:
		for _, dec := range n.Decorators {
			Inspect(dec, visit)
		}
		inspectParams(n.Params, visit)
		inspectStatements(n.Body, visit)
	case *GiveStmt:
		if n.Value != nil {
			Inspect(n.Value, visit)
		}
	case *IfStmt:
		Inspect(n.Condition, visit)
		inspectStatements(n.Consequent, visit)
		for _, branch := range n.ElseIf {
			Inspect(branch, visit)
		}
		inspectStatements(n.Alternate, visit)
	case *ForStmt:
		Inspect(n.Iterable, visit)
		inspectStatements(n.Body, visit)
	case *WhileStmt:
		Inspect(n.Condition, visit)
		inspectStatements(n.Body, visit)
	case *TryStmt:
		inspectStatements(n.Body, visit)
		inspectStatements(n.Catch, visit)
		inspectStatements(n.Finally, visit)
	case *InCaseStmt:
		Inspect(n.Subject, visit)
		for _, clause := range n.Clauses {
			for _, v := range clause.Values {
				Inspect(v, visit)
			}
			inspectStatements(clause.Body, visit)
		}
		inspectStatements(n.Else, visit)
	case *EnumStmt:
		for _, member := range n.Members {
			if member.Value != nil {
				Inspect(member.Value, visit)
			}
		}
	case *InterpolatedString:
		inspectExpressions(n.Parts, visit)
	case *ListLiteral:
		inspectExpressions(n.Elements, visit)
	case *TupleLiteral:
		inspectExpressions(n.Elements, visit)
	case *SetLiteral:
		inspectExpressions(n.Elements, visit)
	case *MapLiteral:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				Inspect(entry.Key, visit)
			}
			Inspect(entry.Value, visit)
		}
	case *SpreadExpr:
		Inspect(n.Value, visit)
	case *UnaryExpr:
		Inspect(n.Right, visit)
	case *BinaryExpr:
		Inspect(n.Left, visit)
		Inspect(n.Right, visit)
	case *IncDecExpr:
		Inspect(n.Target, visit)
	case *CallExpr:
		Inspect(n.Callee, visit)
		inspectExpressions(n.Args, visit)
	case *IndexExpr:
		Inspect(n.Object, visit)
		Inspect(n.Index, visit)
	case *MemberExpr:
		Inspect(n.Object, visit)
	case *TernaryExpr:
		Inspect(n.Then, visit)
		Inspect(n.Condition, visit)
		Inspect(n.Else, visit)
	case *LambdaExpr:
		inspectParams(n.Params, visit)
		if n.Expr != nil {
			Inspect(n.Expr, visit)
		}
		inspectStatements(n.Body, visit)
	case *YieldExpr:
		if n.Value != nil {
			Inspect(n.Value, visit)
		}
	case *AwaitExpr:
		Inspect(n.Value, visit)
	}
}

func inspectStatements(stmts []Statement, visit func(Node) bool) {
	for _, stmt := range stmts {
		Inspect(stmt, visit)
	}
}

func inspectExpressions(exprs []Expression, visit func(Node) bool) {
	for _, expr := range exprs {
		Inspect(expr, visit)
	}
}

func inspectParams(params []Param, visit func(Node) bool) {
	for _, param := range params {
		if param.DefaultVal != nil {
			Inspect(param.DefaultVal, visit)
		}
	}
}

// containsYield reports whether node yields. Nested functions and lambdas,
// including node itself, are not entered.
func containsYield(node Node) bool {
	found := false
	Inspect(node, func(n Node) bool {
		if found {
			return false
		}
		switch n.(type) {
		case *YieldExpr:
			found = true
			return false
		case *FunctionStmt, *LambdaExpr:
			return false
		}
		return true
	})
	return found
}

func bodyContainsYield(stmts []Statement) bool {
	for _, stmt := range stmts {
		if containsYield(stmt) {
			return true
		}
	}
	return false
}

// nodeName is the node's type name without package or pointer decoration.
func nodeName(node Node) string {
	name := fmt.Sprintf("%T", node)
	name = strings.TrimPrefix(name, "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
