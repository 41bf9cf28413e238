package xell

import (
	"errors"
	"reflect"
	"testing"
)

func TestEnvDefineShadowsAndSetMutatesNearest(t *testing.T) {
	global := NewEnv(nil)
	global.Define("x", NewInt(1))
	global.Define("y", NewInt(2))

	inner := NewEnv(global)
	inner.Define("x", NewInt(10))
	inner.Set("y", NewInt(20))
	inner.Set("z", NewInt(30))

	if v, _ := global.Get("x"); v.Int() != 1 {
		t.Fatalf("define should shadow, outer x = %s", v)
	}
	if v, _ := global.Get("y"); v.Int() != 20 {
		t.Fatalf("set should mutate the outer binding, got %s", v)
	}
	if global.Has("z") {
		t.Fatalf("set of a new name should define in the current scope")
	}
	if inner.Parent() != global {
		t.Fatalf("unexpected parent")
	}
}

func TestEnvLookupMissing(t *testing.T) {
	env := NewEnv(nil)
	_, err := env.Lookup("ghost", 7)
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
	var xe *Error
	if !errors.As(err, &xe) || xe.Line != 7 || xe.Message != "undefined variable 'ghost'" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestEnvAllNamesOutermostFirst(t *testing.T) {
	global := NewEnv(nil)
	global.Define("b", NewNone())
	global.Define("a", NewNone())
	inner := NewEnv(global)
	inner.Define("c", NewNone())
	inner.Define("a", NewNone())

	got := inner.AllNames()
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEnvSnapshotIsDetached(t *testing.T) {
	global := NewEnv(nil)
	list := NewList([]Value{NewInt(1)})
	global.Define("xs", list)
	global.Define("n", NewInt(1))

	snap := NewEnv(global).Snapshot()
	if snap.Parent() != nil {
		t.Fatalf("snapshot should have no parent")
	}
	global.Set("n", NewInt(2))
	list.List().Items = append(list.List().Items, NewInt(2))

	if v, _ := snap.Get("n"); v.Int() != 1 {
		t.Fatalf("snapshot saw rebinding: %s", v)
	}
	if v, _ := snap.Get("xs"); len(v.Items()) != 1 {
		t.Fatalf("snapshot saw mutation: %s", v)
	}
}
