package xell

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
)

func builtinLen(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("len", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	arg := args[0]
	switch arg.Kind() {
	case KindString:
		return NewInt(int64(len([]rune(arg.Str())))), nil
	case KindList, KindTuple:
		return NewInt(int64(len(arg.Items()))), nil
	case KindSet, KindFrozenSet:
		return NewInt(int64(arg.SetData().Len())), nil
	case KindMap:
		return NewInt(int64(arg.MapData().Len())), nil
	case KindBytes:
		return NewInt(int64(len(arg.BytesData()))), nil
	default:
		return NewNone(), newError(TypeError, line, "len() unsupported for %s", arg.TypeName())
	}
}

// builtinPush appends to a list or adds to a set in place and returns the
// container.
func builtinPush(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("push", args, 2, -1, line); err != nil {
		return NewNone(), err
	}
	target := args[0]
	switch target.Kind() {
	case KindList:
		list := target.List()
		list.Items = append(list.Items, args[1:]...)
		return target, nil
	case KindSet:
		set := target.SetData()
		for _, item := range args[1:] {
			if err := set.Add(item); err != nil {
				return NewNone(), withLine(err, line)
			}
		}
		return target, nil
	default:
		return NewNone(), newError(TypeError, line, "push() expects a list or set, got %s", target.TypeName())
	}
}

// builtinPop removes and returns the last list element, or the element at
// the given index. On a map it removes the key and returns its value.
func builtinPop(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("pop", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	target := args[0]
	switch target.Kind() {
	case KindList:
		list := target.List()
		if len(list.Items) == 0 {
			return NewNone(), newError(IndexError, line, "pop from empty list")
		}
		idx := len(list.Items) - 1
		if len(args) == 2 {
			if err := expectKind("pop", args[1], 1, line, KindInt); err != nil {
				return NewNone(), err
			}
			var err error
			if idx, err = normalizeIndex(args[1], len(list.Items), line); err != nil {
				return NewNone(), err
			}
		}
		val := list.Items[idx]
		list.Items = slices.Delete(list.Items, idx, idx+1)
		return val, nil
	case KindMap:
		if len(args) != 2 {
			return NewNone(), newError(TypeError, line, "pop() on a map requires a key")
		}
		m := target.MapData()
		val, ok, err := m.Get(args[1])
		if err != nil {
			return NewNone(), withLine(err, line)
		}
		if !ok {
			return NewNone(), newError(KeyError, line, "key %s not found", args[1].repr())
		}
		if _, err := m.Delete(args[1]); err != nil {
			return NewNone(), withLine(err, line)
		}
		return val, nil
	case KindSet:
		if len(args) != 2 {
			return NewNone(), newError(TypeError, line, "pop() on a set requires an element")
		}
		removed, err := target.SetData().Remove(args[1])
		if err != nil {
			return NewNone(), withLine(err, line)
		}
		return NewBool(removed), nil
	default:
		return NewNone(), newError(TypeError, line, "pop() expects a list, map or set, got %s", target.TypeName())
	}
}

func builtinKeys(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("keys", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	if err := expectKind("keys", args[0], 0, line, KindMap); err != nil {
		return NewNone(), err
	}
	return NewList(args[0].MapData().Keys()), nil
}

func builtinValues(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("values", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	if err := expectKind("values", args[0], 0, line, KindMap); err != nil {
		return NewNone(), err
	}
	return NewList(args[0].MapData().Values()), nil
}

func builtinHas(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("has", args, 2, 2, line); err != nil {
		return NewNone(), err
	}
	if err := expectKind("has", args[0], 0, line, KindMap); err != nil {
		return NewNone(), err
	}
	if !args[1].IsHashable() {
		return NewBool(false), nil
	}
	_, ok, err := args[0].MapData().Get(args[1])
	if err != nil {
		return NewNone(), withLine(err, line)
	}
	return NewBool(ok), nil
}

// builtinRange follows range(stop), range(start, stop) and
// range(start, stop, step).
func builtinRange(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("range", args, 1, 3, line); err != nil {
		return NewNone(), err
	}
	for i, arg := range args {
		if err := expectKind("range", arg, i, line, KindInt); err != nil {
			return NewNone(), err
		}
	}
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		stop = args[0].Int()
	case 2:
		start, stop = args[0].Int(), args[1].Int()
	default:
		start, stop, step = args[0].Int(), args[1].Int(), args[2].Int()
	}
	if step == 0 {
		return NewNone(), newError(ValueError, line, "range() step must not be zero")
	}
	var items []Value
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		items = append(items, NewInt(i))
	}
	return NewList(items), nil
}

func builtinReverse(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("reverse", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	arg := args[0]
	switch arg.Kind() {
	case KindString:
		runes := []rune(arg.Str())
		slices.Reverse(runes)
		return NewString(string(runes)), nil
	case KindList:
		items := append([]Value(nil), arg.Items()...)
		slices.Reverse(items)
		return NewList(items), nil
	case KindTuple:
		items := append([]Value(nil), arg.Items()...)
		slices.Reverse(items)
		return NewTuple(items), nil
	case KindBytes:
		data := append([]byte(nil), arg.BytesData()...)
		slices.Reverse(data)
		return NewBytes(data), nil
	default:
		return NewNone(), newError(TypeError, line, "reverse() unsupported for %s", arg.TypeName())
	}
}

// builtinSort returns a sorted copy. An optional key function maps each
// element to the value compared.
func builtinSort(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("sort", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	keys := items
	if len(args) == 2 {
		keys = make([]Value, len(items))
		for i, item := range items {
			if keys[i], err = in.CallValue(args[1], []Value{item}, line); err != nil {
				return NewNone(), err
			}
		}
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	var cmpErr error
	slices.SortStableFunc(order, func(a, b int) int {
		if cmpErr != nil {
			return 0
		}
		cmp, err := compareValues(keys[a], keys[b], line)
		if err != nil {
			cmpErr = err
		}
		return cmp
	})
	if cmpErr != nil {
		return NewNone(), cmpErr
	}
	sorted := make([]Value, len(items))
	for i, idx := range order {
		sorted[i] = items[idx]
	}
	return NewList(sorted), nil
}

// builtinNaturalSort orders strings so that embedded numbers compare by
// value: "file2" sorts before "file10".
func builtinNaturalSort(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("natural_sort", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	for i, item := range items {
		if item.Kind() != KindString {
			return NewNone(), newError(TypeError, line, "natural_sort() element %d must be string, got %s", i, item.TypeName())
		}
	}
	slices.SortStableFunc(items, func(a, b Value) int {
		switch {
		case natural.Less(a.Str(), b.Str()):
			return -1
		case natural.Less(b.Str(), a.Str()):
			return 1
		default:
			return 0
		}
	})
	return NewList(items), nil
}

func builtinClone(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("clone", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	return args[0].Clone(), nil
}

func builtinContains(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("contains", args, 2, 2, line); err != nil {
		return NewNone(), err
	}
	ok, err := contains(args[0], args[1], line)
	if err != nil {
		return NewNone(), withLine(err, line)
	}
	return NewBool(ok), nil
}

func builtinJoin(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("join", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	sep := ""
	if len(args) == 2 {
		if err := expectKind("join", args[1], 1, line, KindString); err != nil {
			return NewNone(), err
		}
		sep = args[1].Str()
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return NewString(strings.Join(parts, sep)), nil
}

func builtinMap(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("map", args, 2, 2, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	out := make([]Value, len(items))
	for i, item := range items {
		if out[i], err = in.CallValue(args[1], []Value{item}, line); err != nil {
			return NewNone(), err
		}
	}
	return NewList(out), nil
}

func builtinFilter(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("filter", args, 2, 2, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	var out []Value
	for _, item := range items {
		keep, err := in.CallValue(args[1], []Value{item}, line)
		if err != nil {
			return NewNone(), err
		}
		if keep.Truthy() {
			out = append(out, item)
		}
	}
	return NewList(out), nil
}

// builtinReduce folds items left to right. Without an initial value the
// first item seeds the accumulator.
func builtinReduce(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("reduce", args, 2, 3, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	var acc Value
	if len(args) == 3 {
		acc = args[2]
	} else {
		if len(items) == 0 {
			return NewNone(), newError(ValueError, line, "reduce() of empty sequence with no initial value")
		}
		acc, items = items[0], items[1:]
	}
	for _, item := range items {
		if acc, err = in.CallValue(args[1], []Value{acc, item}, line); err != nil {
			return NewNone(), err
		}
	}
	return acc, nil
}

func builtinAny(in *Interpreter, args []Value, line int) (Value, error) {
	return quantify(in, "any", args, line, true)
}

func builtinAll(in *Interpreter, args []Value, line int) (Value, error) {
	return quantify(in, "all", args, line, false)
}

// quantify backs any() and all(). It stops at the first item whose
// truthiness equals stopOn.
func quantify(in *Interpreter, name string, args []Value, line int, stopOn bool) (Value, error) {
	if err := expectArgs(name, args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	items, err := in.active.iterate(args[0], line)
	if err != nil {
		return NewNone(), err
	}
	for _, item := range items {
		test := item
		if len(args) == 2 {
			if test, err = in.CallValue(args[1], []Value{item}, line); err != nil {
				return NewNone(), err
			}
		}
		if test.Truthy() == stopOn {
			return NewBool(stopOn), nil
		}
	}
	return NewBool(!stopOn), nil
}
