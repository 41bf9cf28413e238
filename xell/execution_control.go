package xell

import (
	"errors"
)

func (exec *Execution) evalIfStatement(stmt *IfStmt, env *Env) (Value, bool, error) {
	cond, err := exec.evalExpression(stmt.Condition, env)
	if err != nil {
		return NewNone(), false, err
	}
	if cond.Truthy() {
		return exec.evalBlock(stmt.Consequent, env)
	}
	for _, branch := range stmt.ElseIf {
		cond, err := exec.evalExpression(branch.Condition, env)
		if err != nil {
			return NewNone(), false, exec.wrapError(err, branch.Pos())
		}
		if cond.Truthy() {
			return exec.evalBlock(branch.Consequent, env)
		}
	}
	if stmt.Alternate != nil {
		return exec.evalBlock(stmt.Alternate, env)
	}
	return NewNone(), false, nil
}

// loopBody runs one iteration in its own scope. It reports whether the loop
// should stop, translating break and continue.
func (exec *Execution) loopBody(body []Statement, iterEnv *Env) (val Value, returned, stop bool, err error) {
	val, returned, err = exec.evalStatements(body, iterEnv)
	if err != nil {
		if errors.Is(err, errLoopBreak) {
			return NewNone(), false, true, nil
		}
		if errors.Is(err, errLoopContinue) {
			return NewNone(), false, false, nil
		}
		return NewNone(), false, true, err
	}
	return val, returned, returned, nil
}

func (exec *Execution) bindLoopVars(stmt *ForStmt, item Value, iterEnv *Env) error {
	if len(stmt.Vars) == 1 {
		iterEnv.Define(stmt.Vars[0], item)
		return nil
	}
	scratch := newEnv(nil)
	if err := exec.destructure(stmt.Vars, item, scratch, stmt.Pos().Line); err != nil {
		return err
	}
	for _, name := range stmt.Vars {
		val, _ := scratch.Get(name)
		iterEnv.Define(name, val)
	}
	return nil
}

func (exec *Execution) evalForStatement(stmt *ForStmt, env *Env) (Value, bool, error) {
	iterable, err := exec.evalExpression(stmt.Iterable, env)
	if err != nil {
		return NewNone(), false, err
	}
	if iterable.Kind() != KindList {
		// a generator made just for this loop would otherwise stay parked
		// until the interpreter closes
		if _, temp := stmt.Iterable.(*CallExpr); temp && iterable.Kind() == KindGenerator {
			_ = iterable.Generator().Close()
		}
		return NewNone(), false, newError(TypeError, stmt.Pos().Line, "for..in requires a list, got %s", iterable.TypeName())
	}

	// the body may mutate the list; iterate over a snapshot
	items := append([]Value(nil), iterable.Items()...)
	for _, item := range items {
		iterEnv := newEnv(env)
		if err := exec.bindLoopVars(stmt, item, iterEnv); err != nil {
			return NewNone(), false, err
		}
		val, returned, stop, err := exec.loopBody(stmt.Body, iterEnv)
		if err != nil {
			return NewNone(), false, err
		}
		if stop {
			return val, returned, nil
		}
	}
	return NewNone(), false, nil
}

func (exec *Execution) evalWhileStatement(stmt *WhileStmt, env *Env) (Value, bool, error) {
	for {
		cond, err := exec.evalExpression(stmt.Condition, env)
		if err != nil {
			return NewNone(), false, err
		}
		if !cond.Truthy() {
			return NewNone(), false, nil
		}
		val, returned, stop, err := exec.loopBody(stmt.Body, newEnv(env))
		if err != nil {
			return NewNone(), false, err
		}
		if stop {
			return val, returned, nil
		}
	}
}

// iterate snapshots the elements spread, destructuring and the collection
// builtins visit. Lists are copied. Generators are drained.
func (exec *Execution) iterate(val Value, line int) ([]Value, error) {
	switch val.Kind() {
	case KindList, KindTuple:
		return append([]Value(nil), val.Items()...), nil
	case KindString:
		runes := []rune(val.Str())
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = NewString(string(r))
		}
		return out, nil
	case KindSet, KindFrozenSet:
		return val.SetData().Items(), nil
	case KindMap:
		return val.MapData().Keys(), nil
	case KindBytes:
		data := val.BytesData()
		out := make([]Value, len(data))
		for i, b := range data {
			out[i] = NewInt(int64(b))
		}
		return out, nil
	case KindGenerator:
		return val.Generator().collect()
	default:
		return nil, newError(TypeError, line, "cannot iterate over %s", val.TypeName())
	}
}

func (exec *Execution) evalTryStatement(stmt *TryStmt, env *Env) (Value, bool, error) {
	val, returned, err := exec.evalBlock(stmt.Body, env)

	if err != nil && stmt.HasCatch && !isControlSignal(err) {
		langErr := asLanguageError(err, stmt.Pos().Line)
		catchEnv := newEnv(env)
		if stmt.CatchVar != "" {
			catchEnv.Define(stmt.CatchVar, errorValue(langErr))
		}
		val, returned, err = exec.evalStatements(stmt.Catch, catchEnv)
	}

	if stmt.Finally != nil {
		finVal, finReturned, finErr := exec.evalBlock(stmt.Finally, env)
		if finErr != nil {
			return NewNone(), false, finErr
		}
		if finReturned {
			return finVal, true, nil
		}
	}

	if err != nil {
		return NewNone(), false, err
	}
	return val, returned, nil
}

func (exec *Execution) evalInCaseStatement(stmt *InCaseStmt, env *Env) (Value, bool, error) {
	subject, err := exec.evalExpression(stmt.Subject, env)
	if err != nil {
		return NewNone(), false, err
	}
	for _, clause := range stmt.Clauses {
		for _, candidate := range clause.Values {
			val, err := exec.evalExpression(candidate, env)
			if err != nil {
				return NewNone(), false, err
			}
			if subject.Equal(val) {
				return exec.evalBlock(clause.Body, env)
			}
		}
	}
	if stmt.Else != nil {
		return exec.evalBlock(stmt.Else, env)
	}
	return NewNone(), false, nil
}

func (exec *Execution) evalEnumStatement(stmt *EnumStmt, env *Env) error {
	enum := &Enum{Name: stmt.Name, Values: make(map[string]Value, len(stmt.Members))}
	next := int64(0)
	for _, member := range stmt.Members {
		if _, dup := enum.Values[member.Name]; dup {
			return newError(ValueError, stmt.Pos().Line, "duplicate enum member '%s' in %s", member.Name, stmt.Name)
		}
		val := NewInt(next)
		if member.Value != nil {
			v, err := exec.evalExpression(member.Value, env)
			if err != nil {
				return err
			}
			val = v
		}
		if val.Kind() == KindInt {
			next = val.Int() + 1
		} else {
			next++
		}
		enum.Members = append(enum.Members, member.Name)
		enum.Values[member.Name] = val
	}
	env.Define(stmt.Name, NewEnumValue(enum))
	return nil
}

func (exec *Execution) evalFunctionStatement(stmt *FunctionStmt, env *Env) error {
	fn := &Function{
		Name:        stmt.Name,
		Params:      stmt.Params,
		Variadic:    stmt.Variadic,
		Body:        stmt.Body,
		Env:         env,
		IsGenerator: bodyContainsYield(stmt.Body),
		IsAsync:     stmt.IsAsync,
		Pos:         stmt.Pos(),
		Source:      exec.source,
		Path:        exec.path,
	}
	value := NewFunctionValue(fn)
	env.Define(stmt.Name, value)

	line := stmt.Pos().Line
	for i := len(stmt.Decorators) - 1; i >= 0; i-- {
		decorator, err := exec.evalExpression(stmt.Decorators[i], env)
		if err != nil {
			return err
		}
		value, err = exec.callValue(decorator, []Value{value}, line)
		if err != nil {
			return err
		}
	}
	if len(stmt.Decorators) > 0 {
		env.Define(stmt.Name, value)
	}
	return nil
}
