package xell

import (
	"errors"
)

func (exec *Execution) evalCallExpr(call *CallExpr, env *Env) (Value, error) {
	line := call.Pos().Line
	if member, ok := call.Callee.(*MemberExpr); ok {
		return exec.evalMemberCall(member, call, env)
	}

	var callee Value
	var err error
	if ident, ok := call.Callee.(*Identifier); ok {
		callee, err = exec.resolveCallee(ident.Name, env, line)
	} else {
		callee, err = exec.evalExpression(call.Callee, env)
	}
	if err != nil {
		return NewNone(), err
	}

	args, err := exec.evalElements(call.Args, env)
	if err != nil {
		return NewNone(), err
	}
	return exec.callValue(callee, args, line)
}

// resolveCallee prefers a user function visible in env, then a builtin,
// then whatever else env binds to name.
func (exec *Execution) resolveCallee(name string, env *Env, line int) (Value, error) {
	val, found := env.Get(name)
	if found && val.Kind() == KindFunction {
		return val, nil
	}
	if builtin, ok := exec.interp.builtins[name]; ok {
		return builtin, nil
	}
	if found {
		if !val.isCallable() {
			return NewNone(), newError(TypeError, line, "'%s' is not callable (%s)", name, val.TypeName())
		}
		return val, nil
	}
	return NewNone(), newError(UndefinedVariableError, line, "undefined function '%s'", name)
}

// evalMemberCall handles obj->m(args). A map holding a callable under m is
// called directly; otherwise m is resolved as a function and receives obj as
// its first argument.
func (exec *Execution) evalMemberCall(member *MemberExpr, call *CallExpr, env *Env) (Value, error) {
	line := call.Pos().Line
	obj, err := exec.evalExpression(member.Object, env)
	if err != nil {
		return NewNone(), err
	}
	args, err := exec.evalElements(call.Args, env)
	if err != nil {
		return NewNone(), err
	}
	if obj.Kind() == KindMap {
		if fn, ok := obj.MapData().GetString(member.Property); ok && fn.isCallable() {
			return exec.callValue(fn, args, line)
		}
	}
	callee, err := exec.resolveCallee(member.Property, env, line)
	if err != nil {
		return NewNone(), err
	}
	return exec.callValue(callee, append([]Value{obj}, args...), line)
}

func (exec *Execution) callValue(callee Value, args []Value, line int) (Value, error) {
	switch callee.Kind() {
	case KindFunction:
		return exec.callFunction(callee.Function(), args, line)
	case KindBuiltin:
		builtin := callee.Builtin()
		val, err := builtin.Fn(exec.interp, args, line)
		if err != nil {
			return NewNone(), withLine(err, line)
		}
		return val, nil
	default:
		return NewNone(), newError(TypeError, line, "%s is not callable", callee.TypeName())
	}
}

func functionLabel(fn *Function) string {
	if fn.Name == "" {
		return "<lambda>"
	}
	return fn.Name
}

// bindArguments creates the call scope, checking arity and evaluating
// missing defaults in the closure scope.
func (exec *Execution) bindArguments(fn *Function, args []Value, line int) (*Env, error) {
	minArgs := fn.MinArity()
	maxArgs := len(fn.Params)
	variadic := fn.Variadic != ""
	if len(args) < minArgs || (!variadic && len(args) > maxArgs) {
		return nil, arityError(functionLabel(fn), minArgs, maxArgs, len(args), variadic, line)
	}

	callEnv := newEnv(fn.Env)
	for i, param := range fn.Params {
		if i < len(args) {
			callEnv.Define(param.Name, args[i])
			continue
		}
		if param.DefaultVal == nil {
			return nil, newError(ArityError, line, "%s() missing argument '%s'", functionLabel(fn), param.Name)
		}
		val, err := exec.evalExpression(param.DefaultVal, fn.Env)
		if err != nil {
			return nil, err
		}
		callEnv.Define(param.Name, val)
	}
	if variadic {
		var rest []Value
		if len(args) > maxArgs {
			rest = append(rest, args[maxArgs:]...)
		}
		callEnv.Define(fn.Variadic, NewList(rest))
	}
	return callEnv, nil
}

// callFunction runs fn with args. Generator and async functions return a
// Generator without running their body.
func (exec *Execution) callFunction(fn *Function, args []Value, line int) (Value, error) {
	callEnv, err := exec.bindArguments(fn, args, line)
	if err != nil {
		return NewNone(), err
	}
	if fn.IsGenerator || fn.IsAsync {
		return NewGeneratorValue(exec.interp.newGenerator(fn, callEnv)), nil
	}

	if err := exec.pushFrame(functionLabel(fn), line); err != nil {
		return NewNone(), err
	}
	defer exec.popFrame()

	prevSource, prevPath := exec.source, exec.path
	exec.source, exec.path = fn.Source, fn.Path
	defer func() {
		exec.source, exec.path = prevSource, prevPath
	}()

	val, _, err := exec.runBody(fn, callEnv)
	if err != nil {
		return NewNone(), err
	}
	return val, nil
}

// runBody evaluates a function body and reports whether it ended with
// give. Loop signals that escape the body become errors.
func (exec *Execution) runBody(fn *Function, callEnv *Env) (Value, bool, error) {
	if fn.Expr != nil {
		val, err := exec.evalExpression(fn.Expr, callEnv)
		if err != nil {
			return NewNone(), false, exec.bodyError(err, fn.Expr.Pos())
		}
		return val, false, nil
	}
	val, returned, err := exec.evalStatements(fn.Body, callEnv)
	if err != nil {
		return NewNone(), false, exec.bodyError(err, fn.Pos)
	}
	if !returned {
		return NewNone(), false, nil
	}
	return val, true, nil
}

func (exec *Execution) bodyError(err error, pos Position) error {
	if errors.Is(err, errLoopBreak) || errors.Is(err, errLoopContinue) {
		return exec.escapeError(err, pos.Line)
	}
	return exec.wrapError(err, pos)
}
