package xell

import (
	"math"
	"strconv"
	"strings"
)

func builtinType(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("type", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	return NewString(args[0].TypeName()), nil
}

func builtinStr(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("str", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	return NewString(args[0].String()), nil
}

func builtinInt(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("int", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	arg := args[0]
	if len(args) == 2 {
		if err := expectKind("int", arg, 0, line, KindString); err != nil {
			return NewNone(), err
		}
		if err := expectKind("int", args[1], 1, line, KindInt); err != nil {
			return NewNone(), err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(arg.Str()), int(args[1].Int()), 64)
		if err != nil {
			return NewNone(), newError(ValueError, line, "invalid literal for int() with base %d: %q", args[1].Int(), arg.Str())
		}
		return NewInt(n), nil
	}

	switch arg.Kind() {
	case KindInt:
		return arg, nil
	case KindBool:
		return NewInt(arg.Int()), nil
	case KindFloat:
		f := arg.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return NewNone(), newError(ValueError, line, "cannot convert %s to int", formatFloat(f))
		}
		return NewInt(int64(f)), nil
	case KindString:
		text := strings.ReplaceAll(strings.TrimSpace(arg.Str()), "_", "")
		if n, err := strconv.ParseInt(text, 0, 64); err == nil {
			return NewInt(n), nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return NewInt(int64(f)), nil
		}
		return NewNone(), newError(ValueError, line, "invalid literal for int(): %q", arg.Str())
	default:
		return NewNone(), newError(TypeError, line, "int() argument must be a number or string, got %s", arg.TypeName())
	}
}

func builtinFloat(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("float", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	arg := args[0]
	switch arg.Kind() {
	case KindFloat:
		return arg, nil
	case KindInt:
		return NewFloat(arg.Float()), nil
	case KindBool:
		return NewFloat(float64(arg.Int())), nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(arg.Str()), 64)
		if err != nil {
			return NewNone(), newError(ValueError, line, "invalid literal for float(): %q", arg.Str())
		}
		return NewFloat(f), nil
	default:
		return NewNone(), newError(TypeError, line, "float() argument must be a number or string, got %s", arg.TypeName())
	}
}

func builtinComplex(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("complex", args, 0, 2, line); err != nil {
		return NewNone(), err
	}
	var re, im float64
	if len(args) > 0 {
		if args[0].Kind() == KindComplex && len(args) == 1 {
			return args[0], nil
		}
		if err := expectKind("complex", args[0], 0, line, KindInt, KindFloat); err != nil {
			return NewNone(), err
		}
		re = args[0].Float()
	}
	if len(args) > 1 {
		if err := expectKind("complex", args[1], 1, line, KindInt, KindFloat); err != nil {
			return NewNone(), err
		}
		im = args[1].Float()
	}
	return NewComplex(complex(re, im)), nil
}

func builtinBool(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("bool", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	return NewBool(args[0].Truthy()), nil
}

func builtinList(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("list", args, 0, 1, line); err != nil {
		return NewNone(), err
	}
	if len(args) == 0 {
		return NewList(nil), nil
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	return NewList(items), nil
}

func builtinTuple(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("tuple", args, 0, 1, line); err != nil {
		return NewNone(), err
	}
	if len(args) == 0 {
		return NewTuple(nil), nil
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	return NewTuple(items), nil
}

func builtinSet(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("set", args, 0, 1, line); err != nil {
		return NewNone(), err
	}
	var items []Value
	if len(args) == 1 {
		var err error
		if items, err = in.active.iterate(args[0], line); err != nil {
			return NewNone(), err
		}
	}
	set, err := NewSet(items)
	if err != nil {
		return NewNone(), withLine(err, line)
	}
	return set, nil
}

func builtinFrozenSet(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("frozenset", args, 0, 1, line); err != nil {
		return NewNone(), err
	}
	var items []Value
	if len(args) == 1 {
		var err error
		if items, err = in.active.iterate(args[0], line); err != nil {
			return NewNone(), err
		}
	}
	set, err := NewFrozenSet(items)
	if err != nil {
		return NewNone(), withLine(err, line)
	}
	return set, nil
}

func builtinBytes(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("bytes", args, 0, 1, line); err != nil {
		return NewNone(), err
	}
	if len(args) == 0 {
		return NewBytes(nil), nil
	}
	arg := args[0]
	switch arg.Kind() {
	case KindBytes:
		return arg.Clone(), nil
	case KindString:
		return NewBytes([]byte(arg.Str())), nil
	case KindInt:
		if arg.Int() < 0 {
			return NewNone(), newError(ValueError, line, "negative bytes length")
		}
		return NewBytes(make([]byte, arg.Int())), nil
	case KindList, KindTuple:
		items := arg.Items()
		data := make([]byte, len(items))
		for i, item := range items {
			if item.Kind() != KindInt || item.Int() < 0 || item.Int() > 255 {
				return NewNone(), newError(ValueError, line, "bytes() elements must be ints in 0..255")
			}
			data[i] = byte(item.Int())
		}
		return NewBytes(data), nil
	default:
		return NewNone(), newError(TypeError, line, "cannot convert %s to bytes", arg.TypeName())
	}
}

func builtinIsNone(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("is_none", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	return NewBool(args[0].IsNone()), nil
}
