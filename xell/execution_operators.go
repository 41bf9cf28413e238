package xell

func (exec *Execution) evalUnaryExpr(expr *UnaryExpr, env *Env) (Value, error) {
	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return NewNone(), err
	}
	line := expr.Pos().Line
	switch expr.Operator {
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	case tokenMinus:
		switch right.Kind() {
		case KindInt:
			return NewInt(-right.Int()), nil
		case KindFloat:
			return NewFloat(-right.Float()), nil
		case KindComplex:
			return NewComplex(-right.Complex()), nil
		default:
			return NewNone(), newError(TypeError, line, "bad operand type for unary -: %s", right.TypeName())
		}
	case tokenPlus:
		if !right.isNumeric() {
			return NewNone(), newError(TypeError, line, "bad operand type for unary +: %s", right.TypeName())
		}
		return right, nil
	default:
		return NewNone(), newError(NotImplementedError, line, "unsupported unary operator %s", expr.Operator)
	}
}

func (exec *Execution) evalBinaryExpr(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(expr.Left, env)
	if err != nil {
		return NewNone(), err
	}

	switch expr.Operator {
	case tokenAnd:
		if !left.Truthy() {
			return left, nil
		}
		return exec.evalExpression(expr.Right, env)
	case tokenOr:
		if left.Truthy() {
			return left, nil
		}
		return exec.evalExpression(expr.Right, env)
	case tokenAndAnd:
		if !exitStatus(left) {
			return left, nil
		}
		return exec.evalExpression(expr.Right, env)
	case tokenOrOr:
		if exitStatus(left) {
			return left, nil
		}
		return exec.evalExpression(expr.Right, env)
	}

	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return NewNone(), err
	}
	result, err := binaryOp(expr.Operator, left, right, expr.Pos().Line)
	if err != nil {
		return NewNone(), err
	}
	if expr.Negated {
		return NewBool(!result.Truthy()), nil
	}
	return result, nil
}
