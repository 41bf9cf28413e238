package xell

import (
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

// binaryOp applies an operator to two evaluated operands. Short-circuit
// operators are handled by the evaluator before reaching here.
func binaryOp(op TokenType, left, right Value, line int) (Value, error) {
	switch op {
	case tokenPlus:
		return addValues(left, right, line)
	case tokenMinus, tokenAsterisk, tokenSlash, tokenPercent:
		return arithmetic(op, left, right, line)
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	case tokenLT, tokenLTE, tokenGT, tokenGTE:
		return compareOp(op, left, right, line)
	case tokenPipe:
		if left.Kind() != KindString || right.Kind() != KindString {
			return NewNone(), newError(TypeError, line, "'|' requires two strings, got %s and %s", left.TypeName(), right.TypeName())
		}
		return NewString(left.Str() + " | " + right.Str()), nil
	case tokenIn:
		found, err := contains(right, left, line)
		if err != nil {
			return NewNone(), err
		}
		return NewBool(found), nil
	default:
		return NewNone(), newError(NotImplementedError, line, "unsupported operator %s", op)
	}
}

func addValues(left, right Value, line int) (Value, error) {
	switch {
	case left.Kind() == KindString && right.Kind() == KindString:
		return NewString(left.Str() + right.Str()), nil
	case left.Kind() == KindString:
		return NewString(left.Str() + right.String()), nil
	case right.Kind() == KindString:
		return NewString(left.String() + right.Str()), nil
	case left.Kind() == KindList && right.Kind() == KindList:
		items := make([]Value, 0, len(left.Items())+len(right.Items()))
		items = append(items, left.Items()...)
		items = append(items, right.Items()...)
		return NewList(items), nil
	case left.Kind() == KindTuple && right.Kind() == KindTuple:
		items := make([]Value, 0, len(left.Items())+len(right.Items()))
		items = append(items, left.Items()...)
		items = append(items, right.Items()...)
		return NewTuple(items), nil
	case left.Kind() == KindBytes && right.Kind() == KindBytes:
		data := append(append([]byte(nil), left.BytesData()...), right.BytesData()...)
		return NewBytes(data), nil
	case left.isNumeric() && right.isNumeric():
		return arithmetic(tokenPlus, left, right, line)
	default:
		return NewNone(), newError(TypeError, line, "unsupported operand types for +: %s and %s", left.TypeName(), right.TypeName())
	}
}

// arithmetic applies numeric promotion: int op int stays int, a float
// operand makes the result float, a complex operand makes it complex.
func arithmetic(op TokenType, left, right Value, line int) (Value, error) {
	if !left.isNumeric() || !right.isNumeric() {
		return NewNone(), newError(TypeError, line, "unsupported operand types for %s: %s and %s", op, left.TypeName(), right.TypeName())
	}

	if left.Kind() == KindComplex || right.Kind() == KindComplex {
		a, b := left.Complex(), right.Complex()
		switch op {
		case tokenPlus:
			return NewComplex(a + b), nil
		case tokenMinus:
			return NewComplex(a - b), nil
		case tokenAsterisk:
			return NewComplex(a * b), nil
		case tokenSlash:
			if b == 0 {
				return NewNone(), newError(DivisionByZeroError, line, "division by zero")
			}
			return NewComplex(a / b), nil
		default:
			return NewNone(), newError(TypeError, line, "unsupported operand types for %%: complex")
		}
	}

	if left.Kind() == KindInt && right.Kind() == KindInt {
		a, b := left.Int(), right.Int()
		switch op {
		case tokenPlus:
			return NewInt(a + b), nil
		case tokenMinus:
			return NewInt(a - b), nil
		case tokenAsterisk:
			return NewInt(a * b), nil
		case tokenSlash:
			if b == 0 {
				return NewNone(), newError(DivisionByZeroError, line, "division by zero")
			}
			if a%b == 0 {
				return NewInt(a / b), nil
			}
			return NewFloat(float64(a) / float64(b)), nil
		case tokenPercent:
			if b == 0 {
				return NewNone(), newError(DivisionByZeroError, line, "modulo by zero")
			}
			return NewInt(a % b), nil
		}
	}

	a, b := left.Float(), right.Float()
	switch op {
	case tokenPlus:
		return NewFloat(a + b), nil
	case tokenMinus:
		return NewFloat(a - b), nil
	case tokenAsterisk:
		return NewFloat(a * b), nil
	case tokenSlash:
		if b == 0 {
			return NewNone(), newError(DivisionByZeroError, line, "division by zero")
		}
		return NewFloat(a / b), nil
	case tokenPercent:
		if b == 0 {
			return NewNone(), newError(DivisionByZeroError, line, "modulo by zero")
		}
		return NewFloat(math.Mod(a, b)), nil
	}
	return NewNone(), newError(NotImplementedError, line, "unsupported operator %s", op)
}

func compareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareValues orders two numbers or two strings.
func compareValues(left, right Value, line int) (int, error) {
	if left.Kind() == KindComplex || right.Kind() == KindComplex {
		return 0, newError(TypeError, line, "complex numbers are not ordered")
	}
	switch {
	case left.Kind() == KindInt && right.Kind() == KindInt:
		return compareOrdered(left.Int(), right.Int()), nil
	case left.isNumeric() && right.isNumeric():
		return compareOrdered(left.Float(), right.Float()), nil
	case left.Kind() == KindString && right.Kind() == KindString:
		return compareOrdered(left.Str(), right.Str()), nil
	default:
		return 0, newError(TypeError, line, "cannot compare %s with %s", left.TypeName(), right.TypeName())
	}
}

func compareOp(op TokenType, left, right Value, line int) (Value, error) {
	cmp, err := compareValues(left, right, line)
	if err != nil {
		return NewNone(), err
	}
	switch op {
	case tokenLT:
		return NewBool(cmp < 0), nil
	case tokenLTE:
		return NewBool(cmp <= 0), nil
	case tokenGT:
		return NewBool(cmp > 0), nil
	default:
		return NewBool(cmp >= 0), nil
	}
}

// contains implements `needle in haystack`.
func contains(haystack, needle Value, line int) (bool, error) {
	switch haystack.Kind() {
	case KindList, KindTuple:
		for _, item := range haystack.Items() {
			if item.Equal(needle) {
				return true, nil
			}
		}
		return false, nil
	case KindSet, KindFrozenSet:
		if !needle.IsHashable() {
			return false, nil
		}
		return haystack.SetData().Has(needle)
	case KindMap:
		if !needle.IsHashable() {
			return false, nil
		}
		_, ok, err := haystack.MapData().Get(needle)
		return ok, err
	case KindString:
		if needle.Kind() != KindString {
			return false, newError(TypeError, line, "'in <string>' requires a string, got %s", needle.TypeName())
		}
		return strings.Contains(haystack.Str(), needle.Str()), nil
	case KindBytes:
		switch needle.Kind() {
		case KindInt:
			for _, b := range haystack.BytesData() {
				if int64(b) == needle.Int() {
					return true, nil
				}
			}
			return false, nil
		case KindBytes:
			return strings.Contains(string(haystack.BytesData()), string(needle.BytesData())), nil
		}
		return false, newError(TypeError, line, "'in <bytes>' requires an int or bytes, got %s", needle.TypeName())
	default:
		return false, newError(TypeError, line, "argument of type %s is not iterable", haystack.TypeName())
	}
}

// exitStatus applies the exit-code convention used by && and ||: numbers
// succeed at zero, maps with an exit_code key use that key, anything else
// falls back to truthiness.
func exitStatus(v Value) bool {
	switch v.Kind() {
	case KindInt, KindFloat:
		return v.Float() == 0
	case KindMap:
		if code, ok := v.MapData().GetString("exit_code"); ok && (code.Kind() == KindInt || code.Kind() == KindFloat) {
			return code.Float() == 0
		}
	}
	return v.Truthy()
}
