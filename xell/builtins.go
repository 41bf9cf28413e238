package xell

// registerStandardBuiltins installs the builtin library into in's table.
func registerStandardBuiltins(in *Interpreter) {
	// io
	in.registerBuiltin("print", builtinPrint)
	in.registerBuiltin("input", builtinInput)

	// type
	in.registerBuiltin("type", builtinType)
	in.registerBuiltin("str", builtinStr)
	in.registerBuiltin("int", builtinInt)
	in.registerBuiltin("float", builtinFloat)
	in.registerBuiltin("complex", builtinComplex)
	in.registerBuiltin("bool", builtinBool)
	in.registerBuiltin("list", builtinList)
	in.registerBuiltin("tuple", builtinTuple)
	in.registerBuiltin("set", builtinSet)
	in.registerBuiltin("frozenset", builtinFrozenSet)
	in.registerBuiltin("bytes", builtinBytes)
	in.registerBuiltin("is_none", builtinIsNone)

	// collection
	in.registerBuiltin("len", builtinLen)
	in.registerBuiltin("push", builtinPush)
	in.registerBuiltin("pop", builtinPop)
	in.registerBuiltin("keys", builtinKeys)
	in.registerBuiltin("values", builtinValues)
	in.registerBuiltin("has", builtinHas)
	in.registerBuiltin("range", builtinRange)
	in.registerBuiltin("reverse", builtinReverse)
	in.registerBuiltin("sort", builtinSort)
	in.registerBuiltin("natural_sort", builtinNaturalSort)
	in.registerBuiltin("clone", builtinClone)
	in.registerBuiltin("contains", builtinContains)
	in.registerBuiltin("join", builtinJoin)
	in.registerBuiltin("map", builtinMap)
	in.registerBuiltin("filter", builtinFilter)
	in.registerBuiltin("reduce", builtinReduce)
	in.registerBuiltin("any", builtinAny)
	in.registerBuiltin("all", builtinAll)

	// string
	in.registerBuiltin("split", builtinSplit)
	in.registerBuiltin("upper", builtinUpper)
	in.registerBuiltin("lower", builtinLower)
	in.registerBuiltin("trim", builtinTrim)
	in.registerBuiltin("replace", builtinReplace)
	in.registerBuiltin("starts_with", builtinStartsWith)
	in.registerBuiltin("ends_with", builtinEndsWith)
	in.registerBuiltin("format", builtinFormat)

	// math
	in.registerBuiltin("abs", builtinAbs)
	in.registerBuiltin("min", builtinMin)
	in.registerBuiltin("max", builtinMax)
	in.registerBuiltin("sum", builtinSum)
	in.registerBuiltin("floor", builtinFloor)
	in.registerBuiltin("ceil", builtinCeil)
	in.registerBuiltin("round", builtinRound)
	in.registerBuiltin("sqrt", builtinSqrt)
	in.registerBuiltin("pow", builtinPow)
	in.registerBuiltin("real", builtinReal)
	in.registerBuiltin("imag", builtinImag)
	in.registerBuiltin("conj", builtinConj)

	// generator
	in.registerBuiltin("next", builtinNext)
	in.registerBuiltin("is_exhausted", builtinIsExhausted)
	in.registerBuiltin("gen_collect", builtinGenCollect)
	in.registerBuiltin("gen_close", builtinGenClose)

	// json
	in.registerBuiltin("json_parse", builtinJSONParse)
	in.registerBuiltin("json_stringify", builtinJSONStringify)

	// misc
	in.registerBuiltin("throw", builtinThrow)
	in.registerBuiltin("assert", builtinAssert)
	in.registerBuiltin("uuid", builtinUUID)
	in.registerBuiltin("hash", builtinHash)
}

func expectArgs(name string, args []Value, min, max, line int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		if max < 0 {
			return arityError(name, min, min, len(args), true, line)
		}
		return arityError(name, min, max, len(args), false, line)
	}
	return nil
}

func expectKind(name string, arg Value, pos int, line int, kinds ...ValueKind) error {
	for _, kind := range kinds {
		if arg.Kind() == kind {
			return nil
		}
	}
	want := make([]string, len(kinds))
	for i, kind := range kinds {
		want[i] = kind.String()
	}
	expected := want[0]
	for i := 1; i < len(want); i++ {
		if i == len(want)-1 {
			expected += " or " + want[i]
		} else {
			expected += ", " + want[i]
		}
	}
	return newError(TypeError, line, "%s() argument %d must be %s, got %s", name, pos+1, expected, arg.TypeName())
}
