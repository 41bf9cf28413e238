package xell

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNone() bool { return v.kind == KindNone }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	case KindBool:
		if v.data.(bool) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	case KindComplex:
		return real(v.data.(complex128))
	default:
		return 0
	}
}

func (v Value) Complex() complex128 {
	switch v.kind {
	case KindComplex:
		return v.data.(complex128)
	case KindFloat:
		return complex(v.data.(float64), 0)
	case KindInt:
		return complex(float64(v.data.(int64)), 0)
	default:
		return 0
	}
}

// Str returns the payload of a String value and "" for any other kind. Use
// String for the printable form.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.data.(string)
}

func (v Value) List() *List {
	if v.kind != KindList {
		return nil
	}
	return v.data.(*List)
}

func (v Value) Tuple() *Tuple {
	if v.kind != KindTuple {
		return nil
	}
	return v.data.(*Tuple)
}

// Items returns the elements of a List or Tuple.
func (v Value) Items() []Value {
	switch v.kind {
	case KindList:
		return v.data.(*List).Items
	case KindTuple:
		return v.data.(*Tuple).Items
	default:
		return nil
	}
}

func (v Value) MapData() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.data.(*Map)
}

func (v Value) SetData() *Set {
	if v.kind != KindSet && v.kind != KindFrozenSet {
		return nil
	}
	return v.data.(*Set)
}

func (v Value) Function() *Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Function)
}

func (v Value) Builtin() *Builtin {
	if v.kind != KindBuiltin {
		return nil
	}
	return v.data.(*Builtin)
}

func (v Value) Enum() *Enum {
	if v.kind != KindEnum {
		return nil
	}
	return v.data.(*Enum)
}

func (v Value) Generator() *Generator {
	if v.kind != KindGenerator {
		return nil
	}
	return v.data.(*Generator)
}

func (v Value) BytesData() []byte {
	if v.kind != KindBytes {
		return nil
	}
	return v.data.(*Bytes).Data
}

func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat || v.kind == KindComplex
}

func (v Value) isCallable() bool {
	return v.kind == KindFunction || v.kind == KindBuiltin
}

// TypeName is the name scripts see from type().
func (v Value) TypeName() string {
	return v.kind.String()
}

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindSet:
		return "set"
	case KindFrozenSet:
		return "frozenset"
	case KindMap:
		return "map"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindEnum:
		return "enum"
	case KindGenerator:
		return "generator"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}
