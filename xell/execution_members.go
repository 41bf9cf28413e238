package xell

func (exec *Execution) evalIndexExpr(expr *IndexExpr, env *Env) (Value, error) {
	obj, err := exec.evalExpression(expr.Object, env)
	if err != nil {
		return NewNone(), err
	}
	index, err := exec.evalExpression(expr.Index, env)
	if err != nil {
		return NewNone(), err
	}
	return indexValue(obj, index, expr.Pos().Line)
}

func indexValue(obj, index Value, line int) (Value, error) {
	switch obj.Kind() {
	case KindList, KindTuple:
		items := obj.Items()
		idx, err := normalizeIndex(index, len(items), line)
		if err != nil {
			return NewNone(), err
		}
		return items[idx], nil
	case KindString:
		runes := []rune(obj.Str())
		idx, err := normalizeIndex(index, len(runes), line)
		if err != nil {
			return NewNone(), err
		}
		return NewString(string(runes[idx])), nil
	case KindBytes:
		data := obj.BytesData()
		idx, err := normalizeIndex(index, len(data), line)
		if err != nil {
			return NewNone(), err
		}
		return NewInt(int64(data[idx])), nil
	case KindMap:
		val, ok, err := obj.MapData().Get(index)
		if err != nil {
			return NewNone(), withLine(err, line)
		}
		if !ok {
			return NewNone(), newError(KeyError, line, "key %s not found", index.repr())
		}
		return val, nil
	default:
		return NewNone(), newError(TypeError, line, "%s is not indexable", obj.TypeName())
	}
}

// evalMemberExpr reads obj->name: a string key of a map or a member of an
// enum.
func (exec *Execution) evalMemberExpr(expr *MemberExpr, env *Env) (Value, error) {
	obj, err := exec.evalExpression(expr.Object, env)
	if err != nil {
		return NewNone(), err
	}
	line := expr.Pos().Line
	switch obj.Kind() {
	case KindMap:
		val, ok := obj.MapData().GetString(expr.Property)
		if !ok {
			return NewNone(), newError(KeyError, line, "key '%s' not found", expr.Property)
		}
		return val, nil
	case KindEnum:
		enum := obj.Enum()
		val, ok := enum.Values[expr.Property]
		if !ok {
			return NewNone(), newError(KeyError, line, "enum %s has no member '%s'", enum.Name, expr.Property)
		}
		return val, nil
	default:
		return NewNone(), newError(TypeError, line, "%s has no member '%s'", obj.TypeName(), expr.Property)
	}
}
