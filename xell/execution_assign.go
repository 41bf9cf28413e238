package xell

func (exec *Execution) evalAssign(stmt *AssignStmt, env *Env) error {
	value, err := exec.evalExpression(stmt.Value, env)
	if err != nil {
		return err
	}
	if op, compound := compoundAssignOperators[stmt.Operator]; compound {
		current, err := exec.evalExpression(stmt.Target, env)
		if err != nil {
			return err
		}
		value, err = binaryOp(op, current, value, stmt.Pos().Line)
		if err != nil {
			return err
		}
	}
	return exec.assign(stmt.Target, value, env)
}

func (exec *Execution) assign(target Expression, value Value, env *Env) error {
	switch t := target.(type) {
	case *Identifier:
		env.Set(t.Name, value)
		return nil
	case *IndexExpr:
		obj, err := exec.evalExpression(t.Object, env)
		if err != nil {
			return err
		}
		index, err := exec.evalExpression(t.Index, env)
		if err != nil {
			return err
		}
		return assignIndex(obj, index, value, t.Pos().Line)
	case *MemberExpr:
		obj, err := exec.evalExpression(t.Object, env)
		if err != nil {
			return err
		}
		if obj.Kind() != KindMap {
			return newError(TypeError, t.Pos().Line, "cannot set member '%s' on %s", t.Property, obj.TypeName())
		}
		obj.MapData().SetString(t.Property, value)
		return nil
	default:
		return newError(TypeError, target.Pos().Line, "cannot assign to %s", nodeName(target))
	}
}

func assignIndex(obj, index, value Value, line int) error {
	switch obj.Kind() {
	case KindList:
		list := obj.List()
		idx, err := normalizeIndex(index, len(list.Items), line)
		if err != nil {
			return err
		}
		list.Items[idx] = value
		return nil
	case KindMap:
		if err := obj.MapData().Set(index, value); err != nil {
			return withLine(err, line)
		}
		return nil
	case KindBytes:
		data := obj.BytesData()
		idx, err := normalizeIndex(index, len(data), line)
		if err != nil {
			return err
		}
		if value.Kind() != KindInt || value.Int() < 0 || value.Int() > 255 {
			return newError(ValueError, line, "byte value must be an int in 0..255")
		}
		data[idx] = byte(value.Int())
		return nil
	case KindTuple, KindString, KindFrozenSet:
		return newError(TypeError, line, "%s does not support item assignment", obj.TypeName())
	default:
		return newError(TypeError, line, "cannot index-assign into %s", obj.TypeName())
	}
}

// normalizeIndex resolves a possibly negative int index against length.
func normalizeIndex(index Value, length, line int) (int, error) {
	if index.Kind() != KindInt {
		return 0, newError(TypeError, line, "index must be an int, got %s", index.TypeName())
	}
	idx := index.Int()
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return 0, newError(IndexError, line, "index %d out of range for length %d", index.Int(), length)
	}
	return int(idx), nil
}

func (exec *Execution) evalDestructure(stmt *DestructureStmt, env *Env) error {
	value, err := exec.evalExpression(stmt.Value, env)
	if err != nil {
		return err
	}
	return exec.destructure(stmt.Targets, value, env, stmt.Pos().Line)
}

func (exec *Execution) destructure(targets []string, value Value, env *Env, line int) error {
	var items []Value
	switch value.Kind() {
	case KindList, KindTuple:
		items = value.Items()
	default:
		var err error
		items, err = exec.iterate(value, line)
		if err != nil {
			return newError(TypeError, line, "cannot destructure %s", value.TypeName())
		}
	}
	if len(items) != len(targets) {
		return newError(ValueError, line, "expected %d values to unpack, got %d", len(targets), len(items))
	}
	for i, name := range targets {
		env.Set(name, items[i])
	}
	return nil
}

func (exec *Execution) evalIncDec(expr *IncDecExpr, env *Env) (Value, error) {
	line := expr.Pos().Line
	current, err := env.Lookup(expr.Target.Name, line)
	if err != nil {
		return NewNone(), err
	}
	op := tokenPlus
	if expr.Operator == tokenDecrement {
		op = tokenMinus
	}
	if current.Kind() != KindInt && current.Kind() != KindFloat {
		return NewNone(), newError(TypeError, line, "%s requires a number, got %s", expr.Operator, current.TypeName())
	}
	updated, err := binaryOp(op, current, NewInt(1), line)
	if err != nil {
		return NewNone(), err
	}
	env.Set(expr.Target.Name, updated)
	if expr.Prefix {
		return updated, nil
	}
	return current, nil
}
