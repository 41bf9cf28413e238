package xell

type ValueKind int

const (
	KindNone ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindComplex
	KindString
	KindList
	KindTuple
	KindSet
	KindFrozenSet
	KindMap
	KindFunction
	KindBuiltin
	KindEnum
	KindGenerator
	KindBytes
)

// Value is a dynamically typed runtime datum. Scalars are stored inline;
// containers, functions, enums and generators hold a shared pointer, so
// copying a Value shares the payload. Use Clone for an independent copy.
type Value struct {
	kind ValueKind
	data any
}

// List is a mutable ordered sequence shared by every Value that refers to it.
type List struct {
	Items []Value
}

// Tuple is an immutable ordered sequence.
type Tuple struct {
	Items []Value
}

type Bytes struct {
	Data []byte
}

// Function is a user-defined function or lambda together with its closure.
type Function struct {
	Name        string
	Params      []Param
	Variadic    string
	Body        []Statement
	Expr        Expression
	Env         *Env
	IsGenerator bool
	IsAsync     bool
	Pos         Position

	// Source and Path locate the defining file for error code frames.
	Source string
	Path   string
}

// MinArity is the number of leading parameters without a default.
func (fn *Function) MinArity() int {
	n := 0
	for _, param := range fn.Params {
		if param.DefaultVal != nil {
			break
		}
		n++
	}
	return n
}

// BuiltinFunc is a native function. line is the call site for errors.
type BuiltinFunc func(in *Interpreter, args []Value, line int) (Value, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// Enum is a named, ordered set of members.
type Enum struct {
	Name    string
	Members []string
	Values  map[string]Value
}

func NewNone() Value                      { return Value{kind: KindNone} }
func NewBool(b bool) Value                { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value                { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value            { return Value{kind: KindFloat, data: f} }
func NewComplex(c complex128) Value       { return Value{kind: KindComplex, data: c} }
func NewString(s string) Value            { return Value{kind: KindString, data: s} }
func NewList(items []Value) Value         { return Value{kind: KindList, data: &List{Items: items}} }
func NewTuple(items []Value) Value        { return Value{kind: KindTuple, data: &Tuple{Items: items}} }
func NewBytes(b []byte) Value             { return Value{kind: KindBytes, data: &Bytes{Data: b}} }
func NewMapValue(m *Map) Value            { return Value{kind: KindMap, data: m} }
func NewFunctionValue(fn *Function) Value { return Value{kind: KindFunction, data: fn} }
func NewEnumValue(e *Enum) Value          { return Value{kind: KindEnum, data: e} }
func NewGeneratorValue(g *Generator) Value {
	return Value{kind: KindGenerator, data: g}
}

func NewBuiltinValue(name string, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn}}
}

// NewSet builds a set, rejecting unhashable elements.
func NewSet(items []Value) (Value, error) {
	s, err := newSetFrom(items, false)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindSet, data: s}, nil
}

func NewFrozenSet(items []Value) (Value, error) {
	s, err := newSetFrom(items, true)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindFrozenSet, data: s}, nil
}

func newSetValue(s *Set) Value {
	if s.frozen {
		return Value{kind: KindFrozenSet, data: s}
	}
	return Value{kind: KindSet, data: s}
}

// NewMap builds a map from string keys in the given order.
func NewMap(keys []string, values []Value) Value {
	m := newMap()
	for i, key := range keys {
		m.SetString(key, values[i])
	}
	return NewMapValue(m)
}
