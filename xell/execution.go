package xell

import (
	"errors"
	"fmt"
)

// Execution is one evaluation context: the root program, or the body of a
// single generator running on its own goroutine. It carries the call stack
// and the source of the code currently running.
type Execution struct {
	interp    *Interpreter
	gen       *Generator
	callStack []callFrame
	// base is the call depth of whoever last resumed this generator body,
	// so the recursion limit covers the whole chain across generators.
	base   int
	source string
	path   string
}

type callFrame struct {
	Function string
	Line     int
	source   string
	path     string
}

func newExecution(in *Interpreter, gen *Generator) *Execution {
	return &Execution{interp: in, gen: gen}
}

// depth is the number of calls active on the chain that reached exec.
func (exec *Execution) depth() int {
	return exec.base + len(exec.callStack)
}

func (exec *Execution) pushFrame(function string, line int) error {
	if limit := exec.interp.config.RecursionLimit; limit > 0 && exec.depth() >= limit {
		exec.interp.logger.Debug().Int("limit", limit).Str("function", function).Msg("recursion limit reached")
		return newError(RecursionError, line, "maximum recursion depth exceeded (limit %d)", limit)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Line: line, source: exec.source, path: exec.path})
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

// wrapError attaches position, code frame and stack to a language error
// the first time it crosses a statement. Control signals pass through.
func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil || isControlSignal(err) {
		return err
	}
	var xe *Error
	if !errors.As(err, &xe) {
		xe = &Error{Kind: RuntimeError, Message: err.Error()}
		err = xe
	}
	if xe.Line == 0 {
		xe.Line = pos.Line
	}
	if xe.Frames == nil {
		xe.Path = exec.path
		framePos := Position{Line: xe.Line}
		if xe.Line == pos.Line {
			framePos.Column = pos.Column
		}
		xe.CodeFrame = formatCodeFrame(exec.source, exec.path, framePos)
		xe.Frames = exec.frames(xe.Line)
	}
	return err
}

func (exec *Execution) frames(line int) []StackFrame {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) == 0 {
		return append(frames, StackFrame{Function: "<script>", Line: line})
	}
	current := exec.callStack[len(exec.callStack)-1]
	frames = append(frames, StackFrame{Function: current.Function, Line: line})
	for i := len(exec.callStack) - 1; i >= 0; i-- {
		caller := "<script>"
		if i > 0 {
			caller = exec.callStack[i-1].Function
		}
		frames = append(frames, StackFrame{Function: caller, Line: exec.callStack[i].Line})
	}
	return frames
}

// escapeError converts a control signal that reached a boundary it may not
// cross into a language error.
func (exec *Execution) escapeError(err error, line int) error {
	switch {
	case errors.Is(err, errLoopBreak):
		return exec.wrapError(newError(RuntimeError, line, "'break' outside loop"), Position{Line: line})
	case errors.Is(err, errLoopContinue):
		return exec.wrapError(newError(RuntimeError, line, "'continue' outside loop"), Position{Line: line})
	case errors.Is(err, errGeneratorAbandoned):
		return err
	default:
		return exec.wrapError(err, Position{Line: line})
	}
}

func (exec *Execution) evalStatements(stmts []Statement, env *Env) (Value, bool, error) {
	result := NewNone()
	for _, stmt := range stmts {
		val, returned, err := exec.evalStatement(stmt, env)
		if err != nil {
			return NewNone(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

// evalBlock runs stmts in a fresh child scope.
func (exec *Execution) evalBlock(stmts []Statement, env *Env) (Value, bool, error) {
	return exec.evalStatements(stmts, newEnv(env))
}

func (exec *Execution) evalStatement(stmt Statement, env *Env) (Value, bool, error) {
	val, returned, err := exec.dispatchStatement(stmt, env)
	if err != nil {
		return NewNone(), false, exec.wrapError(err, stmt.Pos())
	}
	return val, returned, nil
}

func (exec *Execution) dispatchStatement(stmt Statement, env *Env) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr, env)
		return val, false, err
	case *AssignStmt:
		return NewNone(), false, exec.evalAssign(s, env)
	case *DestructureStmt:
		return NewNone(), false, exec.evalDestructure(s, env)
	case *FunctionStmt:
		return NewNone(), false, exec.evalFunctionStatement(s, env)
	case *GiveStmt:
		if s.Value == nil {
			return NewNone(), true, nil
		}
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewNone(), false, err
		}
		return val, true, nil
	case *IfStmt:
		return exec.evalIfStatement(s, env)
	case *ForStmt:
		return exec.evalForStatement(s, env)
	case *WhileStmt:
		return exec.evalWhileStatement(s, env)
	case *BreakStmt:
		return NewNone(), false, errLoopBreak
	case *ContinueStmt:
		return NewNone(), false, errLoopContinue
	case *BringStmt:
		return NewNone(), false, exec.evalBring(s, env)
	case *TryStmt:
		return exec.evalTryStatement(s, env)
	case *InCaseStmt:
		return exec.evalInCaseStatement(s, env)
	case *EnumStmt:
		return NewNone(), false, exec.evalEnumStatement(s, env)
	default:
		return NewNone(), false, newError(NotImplementedError, stmt.Pos().Line, "unsupported statement %s", nodeName(stmt))
	}
}

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *Identifier:
		return exec.evalIdentifier(e, env)
	case *IntegerLiteral:
		return NewInt(e.Value), nil
	case *FloatLiteral:
		return NewFloat(e.Value), nil
	case *ImaginaryLiteral:
		return NewComplex(complex(0, e.Value)), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *InterpolatedString:
		return exec.evalInterpolatedString(e, env)
	case *BytesLiteral:
		return NewBytes(append([]byte(nil), e.Value...)), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NoneLiteral:
		return NewNone(), nil
	case *ListLiteral:
		items, err := exec.evalElements(e.Elements, env)
		if err != nil {
			return NewNone(), err
		}
		return NewList(items), nil
	case *TupleLiteral:
		items, err := exec.evalElements(e.Elements, env)
		if err != nil {
			return NewNone(), err
		}
		return NewTuple(items), nil
	case *SetLiteral:
		return exec.evalSetLiteral(e, env)
	case *MapLiteral:
		return exec.evalMapLiteral(e, env)
	case *SpreadExpr:
		return NewNone(), newError(TypeError, e.Pos().Line, "spread is only allowed in literals and call arguments")
	case *UnaryExpr:
		return exec.evalUnaryExpr(e, env)
	case *BinaryExpr:
		return exec.evalBinaryExpr(e, env)
	case *IncDecExpr:
		return exec.evalIncDec(e, env)
	case *CallExpr:
		return exec.evalCallExpr(e, env)
	case *IndexExpr:
		return exec.evalIndexExpr(e, env)
	case *MemberExpr:
		return exec.evalMemberExpr(e, env)
	case *TernaryExpr:
		cond, err := exec.evalExpression(e.Condition, env)
		if err != nil {
			return NewNone(), err
		}
		if cond.Truthy() {
			return exec.evalExpression(e.Then, env)
		}
		return exec.evalExpression(e.Else, env)
	case *LambdaExpr:
		return exec.evalLambda(e, env), nil
	case *YieldExpr:
		return exec.evalYield(e, env)
	case *AwaitExpr:
		return exec.evalAwait(e, env)
	default:
		return NewNone(), newError(NotImplementedError, expr.Pos().Line, "unsupported expression %s", nodeName(expr))
	}
}

func (exec *Execution) evalIdentifier(ident *Identifier, env *Env) (Value, error) {
	if val, ok := env.Get(ident.Name); ok {
		return val, nil
	}
	if builtin, ok := exec.interp.builtins[ident.Name]; ok {
		return builtin, nil
	}
	return NewNone(), newError(UndefinedVariableError, ident.Pos().Line, "undefined variable '%s'", ident.Name)
}

func (exec *Execution) evalInterpolatedString(expr *InterpolatedString, env *Env) (Value, error) {
	var out []byte
	for _, part := range expr.Parts {
		val, err := exec.evalExpression(part, env)
		if err != nil {
			return NewNone(), err
		}
		out = append(out, val.String()...)
	}
	return NewString(string(out)), nil
}

// evalElements evaluates literal elements or call arguments, expanding
// spreads of any iterable in place.
func (exec *Execution) evalElements(exprs []Expression, env *Env) ([]Value, error) {
	out := make([]Value, 0, len(exprs))
	for _, expr := range exprs {
		spread, ok := expr.(*SpreadExpr)
		if !ok {
			val, err := exec.evalExpression(expr, env)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
			continue
		}
		val, err := exec.evalExpression(spread.Value, env)
		if err != nil {
			return nil, err
		}
		items, err := exec.iterate(val, spread.Pos().Line)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func (exec *Execution) evalSetLiteral(expr *SetLiteral, env *Env) (Value, error) {
	items, err := exec.evalElements(expr.Elements, env)
	if err != nil {
		return NewNone(), err
	}
	var val Value
	if expr.Frozen {
		val, err = NewFrozenSet(items)
	} else {
		val, err = NewSet(items)
	}
	if err != nil {
		return NewNone(), withLine(err, expr.Pos().Line)
	}
	return val, nil
}

func (exec *Execution) evalMapLiteral(expr *MapLiteral, env *Env) (Value, error) {
	m := newMap()
	for _, entry := range expr.Entries {
		if entry.Key == nil {
			spread, ok := entry.Value.(*SpreadExpr)
			if !ok {
				return NewNone(), newError(TypeError, entry.Value.Pos().Line, "map entry is missing a key")
			}
			src, err := exec.evalExpression(spread.Value, env)
			if err != nil {
				return NewNone(), err
			}
			if src.Kind() != KindMap {
				return NewNone(), newError(TypeError, spread.Pos().Line, "cannot spread %s into a map", src.TypeName())
			}
			for _, e := range src.MapData().entries {
				m.setHashed(mustHashKey(e.Key), e.Key, e.Value)
			}
			continue
		}
		key, err := exec.evalExpression(entry.Key, env)
		if err != nil {
			return NewNone(), err
		}
		val, err := exec.evalExpression(entry.Value, env)
		if err != nil {
			return NewNone(), err
		}
		if err := m.Set(key, val); err != nil {
			return NewNone(), withLine(err, entry.Key.Pos().Line)
		}
	}
	return NewMapValue(m), nil
}

func (exec *Execution) evalLambda(expr *LambdaExpr, env *Env) Value {
	fn := &Function{
		Params:   expr.Params,
		Variadic: expr.Variadic,
		Body:     expr.Body,
		Expr:     expr.Expr,
		Env:      env.Snapshot(),
		Pos:      expr.Pos(),
		Source:   exec.source,
		Path:     exec.path,
	}
	if expr.Expr != nil {
		fn.IsGenerator = containsYield(expr.Expr)
	} else {
		fn.IsGenerator = bodyContainsYield(expr.Body)
	}
	return NewFunctionValue(fn)
}

// withLine sets the line on a language error that has none yet.
func withLine(err error, line int) error {
	var xe *Error
	if errors.As(err, &xe) && xe.Line == 0 {
		xe.Line = line
	}
	return err
}

func mustHashKey(v Value) string {
	key, err := hashKey(v)
	if err != nil {
		panic(fmt.Sprintf("xell: unhashable map key %s", v.TypeName()))
	}
	return key
}
