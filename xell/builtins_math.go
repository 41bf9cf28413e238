package xell

import (
	"math"
	"math/cmplx"
)

func numberArg(name string, args []Value, pos, line int) (Value, error) {
	if err := expectKind(name, args[pos], pos, line, KindInt, KindFloat); err != nil {
		return NewNone(), err
	}
	return args[pos], nil
}

func builtinAbs(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("abs", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	arg := args[0]
	switch arg.Kind() {
	case KindInt:
		n := arg.Int()
		if n == math.MinInt64 {
			return NewNone(), newError(ValueError, line, "abs() overflows int")
		}
		if n < 0 {
			n = -n
		}
		return NewInt(n), nil
	case KindFloat:
		return NewFloat(math.Abs(arg.Float())), nil
	case KindComplex:
		return NewFloat(cmplx.Abs(arg.Complex())), nil
	default:
		return NewNone(), newError(TypeError, line, "abs() argument must be a number, got %s", arg.TypeName())
	}
}

func builtinMin(in *Interpreter, args []Value, line int) (Value, error) {
	return extremum(in, "min", args, line, -1)
}

func builtinMax(in *Interpreter, args []Value, line int) (Value, error) {
	return extremum(in, "max", args, line, 1)
}

// extremum backs min() and max(). A single argument is iterated; several
// arguments are compared directly.
func extremum(in *Interpreter, name string, args []Value, line int, want int) (Value, error) {
	if err := expectArgs(name, args, 1, -1, line); err != nil {
		return NewNone(), err
	}
	items := args
	if len(args) == 1 {
		var err error
		if items, err = in.active.iterate(args[0], line); err != nil {
			return NewNone(), err
		}
	}
	if len(items) == 0 {
		return NewNone(), newError(ValueError, line, "%s() of empty sequence", name)
	}
	best := items[0]
	for _, item := range items[1:] {
		cmp, err := compareValues(item, best, line)
		if err != nil {
			return NewNone(), err
		}
		if cmp == want {
			best = item
		}
	}
	return best, nil
}

func builtinSum(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("sum", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	total := NewInt(0)
	if len(args) == 2 {
		total = args[1]
	}
	for _, item := range items {
		if total, err = addValues(total, item, line); err != nil {
			return NewNone(), err
		}
	}
	return total, nil
}

func builtinFloor(in *Interpreter, args []Value, line int) (Value, error) {
	return rounding("floor", args, line, math.Floor)
}

func builtinCeil(in *Interpreter, args []Value, line int) (Value, error) {
	return rounding("ceil", args, line, math.Ceil)
}

func rounding(name string, args []Value, line int, fn func(float64) float64) (Value, error) {
	if err := expectArgs(name, args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	arg, err := numberArg(name, args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	if arg.Kind() == KindInt {
		return arg, nil
	}
	f := fn(arg.Float())
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NewNone(), newError(ValueError, line, "cannot convert %s to int", formatFloat(f))
	}
	return NewInt(int64(f)), nil
}

// builtinRound rounds half away from zero. With digits it returns a float.
func builtinRound(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("round", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	arg, err := numberArg("round", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	if len(args) == 1 {
		return rounding("round", args[:1], line, math.Round)
	}
	if err := expectKind("round", args[1], 1, line, KindInt); err != nil {
		return NewNone(), err
	}
	scale := math.Pow(10, float64(args[1].Int()))
	return NewFloat(math.Round(arg.Float()*scale) / scale), nil
}

func builtinSqrt(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("sqrt", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	arg := args[0]
	switch arg.Kind() {
	case KindComplex:
		return NewComplex(cmplx.Sqrt(arg.Complex())), nil
	case KindInt, KindFloat:
		if arg.Float() < 0 {
			return NewNone(), newError(ValueError, line, "sqrt() of negative number")
		}
		return NewFloat(math.Sqrt(arg.Float())), nil
	default:
		return NewNone(), newError(TypeError, line, "sqrt() argument must be a number, got %s", arg.TypeName())
	}
}

func builtinPow(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("pow", args, 2, 2, line); err != nil {
		return NewNone(), err
	}
	base, exp := args[0], args[1]
	if !base.isNumeric() || !exp.isNumeric() {
		return NewNone(), newError(TypeError, line, "pow() arguments must be numbers, got %s and %s", base.TypeName(), exp.TypeName())
	}
	switch {
	case base.Kind() == KindComplex || exp.Kind() == KindComplex:
		return NewComplex(cmplx.Pow(base.Complex(), exp.Complex())), nil
	case base.Kind() == KindInt && exp.Kind() == KindInt && exp.Int() >= 0:
		result, b := int64(1), base.Int()
		for e := exp.Int(); e > 0; e >>= 1 {
			if e&1 == 1 {
				result *= b
			}
			b *= b
		}
		return NewInt(result), nil
	default:
		if base.Float() == 0 && exp.Float() < 0 {
			return NewNone(), newError(DivisionByZeroError, line, "zero to a negative power")
		}
		return NewFloat(math.Pow(base.Float(), exp.Float())), nil
	}
}

func builtinReal(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("real", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	if !args[0].isNumeric() {
		return NewNone(), newError(TypeError, line, "real() argument must be a number, got %s", args[0].TypeName())
	}
	return NewFloat(real(args[0].Complex())), nil
}

func builtinImag(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("imag", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	if !args[0].isNumeric() {
		return NewNone(), newError(TypeError, line, "imag() argument must be a number, got %s", args[0].TypeName())
	}
	return NewFloat(imag(args[0].Complex())), nil
}

func builtinConj(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("conj", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	if !args[0].isNumeric() {
		return NewNone(), newError(TypeError, line, "conj() argument must be a number, got %s", args[0].TypeName())
	}
	return NewComplex(cmplx.Conj(args[0].Complex())), nil
}
