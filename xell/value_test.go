package xell

import (
	"errors"
	"math"
	"testing"
)

func TestValueStringFormatting(t *testing.T) {
	set, err := NewSet([]Value{NewInt(1), NewInt(2)})
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	frozen, err := NewFrozenSet([]Value{NewString("a")})
	if err != nil {
		t.Fatalf("new frozenset: %v", err)
	}
	empty, _ := NewSet(nil)

	cases := []struct {
		name string
		val  Value
		want string
	}{
		{"none", NewNone(), "none"},
		{"int", NewInt(-7), "-7"},
		{"integral float", NewFloat(3.0), "3"},
		{"float", NewFloat(0.1), "0.1"},
		{"inf", NewFloat(math.Inf(1)), "inf"},
		{"complex", NewComplex(complex(1, -2)), "(1-2i)"},
		{"string", NewString("hi"), "hi"},
		{"list", NewList([]Value{NewInt(1), NewString("a")}), `[1, "a"]`},
		{"one tuple", NewTuple([]Value{NewInt(1)}), "(1,)"},
		{"tuple", NewTuple([]Value{NewInt(1), NewInt(2)}), "(1, 2)"},
		{"set", set, "{1, 2}"},
		{"empty set", empty, "set()"},
		{"frozenset", frozen, `<"a">`},
		{"map", NewMap([]string{"k"}, []Value{NewString("v")}), `{k: "v"}`},
		{"bytes", NewBytes([]byte("a\x00")), `b"a\x00"`},
		{"builtin", NewBuiltinValue("len", builtinLen), "<builtin len>"},
		{"function", NewFunctionValue(&Function{Name: "f"}), "<fn f>"},
		{"lambda", NewFunctionValue(&Function{}), "<fn lambda>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.val.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValueTruthy(t *testing.T) {
	falsy := []Value{
		NewNone(), NewBool(false), NewInt(0), NewFloat(0), NewComplex(0),
		NewString(""), NewList(nil), NewTuple(nil), NewBytes(nil),
		NewMap(nil, nil),
	}
	for _, v := range falsy {
		if v.Truthy() {
			t.Fatalf("expected %s (%s) to be falsy", v, v.TypeName())
		}
	}
	truthy := []Value{
		NewBool(true), NewInt(-1), NewFloat(0.5), NewString("0"),
		NewList([]Value{NewNone()}), NewFunctionValue(&Function{}),
	}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Fatalf("expected %s (%s) to be truthy", v, v.TypeName())
		}
	}
}

func TestValueEqual(t *testing.T) {
	if !NewInt(1).Equal(NewFloat(1.0)) {
		t.Fatalf("expected 1 == 1.0")
	}
	if !NewFloat(2).Equal(NewComplex(2)) {
		t.Fatalf("expected 2.0 == 2+0i")
	}
	if NewInt(1).Equal(NewString("1")) {
		t.Fatalf("int should not equal string")
	}

	a := NewMap([]string{"x", "y"}, []Value{NewInt(1), NewInt(2)})
	b := NewMap([]string{"y", "x"}, []Value{NewInt(2), NewInt(1)})
	if !a.Equal(b) {
		t.Fatalf("maps with the same entries should be equal regardless of order")
	}

	s1, _ := NewSet([]Value{NewInt(1), NewInt(2)})
	s2, _ := NewSet([]Value{NewInt(2), NewInt(1)})
	if !s1.Equal(s2) {
		t.Fatalf("sets with the same members should be equal")
	}

	fn := &Function{Name: "f"}
	if !NewFunctionValue(fn).Equal(NewFunctionValue(fn)) {
		t.Fatalf("function should equal itself")
	}
	if NewFunctionValue(fn).Equal(NewFunctionValue(&Function{Name: "f"})) {
		t.Fatalf("distinct functions should not be equal")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	inner := NewList([]Value{NewInt(1)})
	m := NewMap([]string{"items"}, []Value{inner})
	orig := NewList([]Value{m, NewBytes([]byte{1, 2})})

	copied := orig.Clone()
	if !copied.Equal(orig) {
		t.Fatalf("clone should equal original")
	}

	copiedMap := copied.Items()[0].MapData()
	items, _ := copiedMap.GetString("items")
	items.List().Items = append(items.List().Items, NewInt(2))
	copied.Items()[1].BytesData()[0] = 9

	if len(inner.Items()) != 1 {
		t.Fatalf("mutating the clone changed the original list: %s", orig)
	}
	if orig.Items()[1].BytesData()[0] != 1 {
		t.Fatalf("mutating the clone changed the original bytes")
	}
}

func TestHashability(t *testing.T) {
	_, err := NewSet([]Value{NewList(nil)})
	if !errors.Is(err, ErrHash) {
		t.Fatalf("expected HashError, got %v", err)
	}
	if err.Error() != "[XELL ERROR] HashError: cannot hash mutable type 'list'" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	tuple := NewTuple([]Value{NewInt(1), NewString("a")})
	frozen, _ := NewFrozenSet([]Value{NewInt(1)})
	set, err := NewSet([]Value{tuple, frozen, NewInt(1), NewFloat(1)})
	if err != nil {
		t.Fatalf("hashable values rejected: %v", err)
	}
	if set.SetData().Len() != 3 {
		t.Fatalf("expected 1 and 1.0 to collapse, got %s", set)
	}

	m := newMap()
	if err := m.Set(NewInt(1), NewString("one")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := m.Get(NewFloat(1))
	if err != nil || !ok || got.Str() != "one" {
		t.Fatalf("expected 1.0 to find key 1, got %v %v %v", got, ok, err)
	}
	if _, _, err := m.Get(NewList(nil)); !errors.Is(err, ErrHash) {
		t.Fatalf("expected HashError for list key, got %v", err)
	}
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := newMap()
	for _, key := range []string{"c", "a", "b"} {
		m.SetString(key, NewString(key))
	}
	if _, err := m.Delete(NewString("a")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	m.SetString("a", NewString("again"))

	keys := m.Keys()
	want := []string{"c", "b", "a"}
	for i, key := range keys {
		if key.Str() != want[i] {
			t.Fatalf("expected key order %v, got %s", want, NewList(keys))
		}
	}
	if v, _ := m.GetString("b"); v.Str() != "b" {
		t.Fatalf("index not rebuilt after delete")
	}
}

func TestEnumHashKeyIncludesMembers(t *testing.T) {
	colorRGB := NewEnumValue(&Enum{Name: "Color", Members: []string{"RED", "GREEN", "BLUE"}})
	colorCMY := NewEnumValue(&Enum{Name: "Color", Members: []string{"CYAN", "MAGENTA", "YELLOW"}})
	sameRGB := NewEnumValue(&Enum{Name: "Color", Members: []string{"RED", "GREEN", "BLUE"}})

	set, err := NewSet([]Value{colorRGB, colorCMY, sameRGB})
	if err != nil {
		t.Fatalf("enums rejected as set elements: %v", err)
	}
	if set.SetData().Len() != 2 {
		t.Fatalf("expected 2 distinct enums, got %d", set.SetData().Len())
	}

	m := newMap()
	if err := m.Set(colorRGB, NewString("rgb")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := m.Get(colorCMY); ok {
		t.Fatalf("enum with different members found the other's entry")
	}
	if got, ok, _ := m.Get(sameRGB); !ok || got.Str() != "rgb" {
		t.Fatalf("equal enum should find the entry, got %v %v", got, ok)
	}
}
