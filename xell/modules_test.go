package xell

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func moduleInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	return newTestInterpreter(t, Config{ModulePaths: []string{filepath.Join("testdata", "modules")}})
}

func TestBringNamesWithAliases(t *testing.T) {
	in := moduleInterpreter(t)
	require.NoError(t, in.RunSource(`bring square, PI from "mathlib" as sq, pi
print sq(4) + pi`, ""))
	require.Equal(t, "19\n", in.Output())
	require.False(t, in.Globals().Has("square"))
}

func TestBringAll(t *testing.T) {
	in := moduleInterpreter(t)
	require.NoError(t, in.RunSource(`bring * from "mathlib.xel"
print cube(2), PI`, ""))
	require.Equal(t, "8 3\n", in.Output())
}

func TestBringPreservesModuleLocalResolution(t *testing.T) {
	in := moduleInterpreter(t)
	require.NoError(t, in.RunSource(`fn square(x): give 0 ;
bring cube from "mathlib"
print cube(3)`, ""))
	require.Equal(t, "27\n", in.Output())
}

func TestBringMissingName(t *testing.T) {
	in := moduleInterpreter(t)
	err := in.RunSource(`bring nothing from "mathlib"`, "")
	require.True(t, errors.Is(err, ErrBring), "expected BringError, got %v", err)
	require.Contains(t, err.Error(), "'nothing' is not defined in 'mathlib'")
}

func TestBringMissingModule(t *testing.T) {
	in := moduleInterpreter(t)
	err := in.RunSource(`bring x from "nope"`, "")
	require.True(t, errors.Is(err, ErrBring), "expected BringError, got %v", err)
	require.Contains(t, err.Error(), "module 'nope' not found")
}

func TestBringParseFailureIsBringError(t *testing.T) {
	in := moduleInterpreter(t)
	err := in.RunSource(`bring * from "broken"`, "")
	require.True(t, errors.Is(err, ErrBring), "expected BringError, got %v", err)
	require.Contains(t, err.Error(), "cannot parse module 'broken'")
}

func TestBringRuntimeFailureIsBringError(t *testing.T) {
	in := moduleInterpreter(t)
	err := in.RunSource(`bring * from "failing"`, "")
	require.True(t, errors.Is(err, ErrBring), "expected BringError, got %v", err)
	require.Contains(t, err.Error(), "BringError: module 'failing' failed: DivisionByZeroError: division by zero")

	// the failure inside the module is still reachable with its own location
	require.True(t, errors.Is(err, ErrDivisionByZero))
	var outer *Error
	require.True(t, errors.As(err, &outer))
	var inner *Error
	require.True(t, errors.As(outer.Cause, &inner))
	require.Equal(t, DivisionByZeroError, inner.Kind)
	require.Equal(t, 1, inner.Line)
	require.True(t, strings.HasSuffix(inner.Path, "failing.xel"), "unexpected path %q", inner.Path)
}

func TestBringCachesModules(t *testing.T) {
	in := moduleInterpreter(t)
	require.NoError(t, in.RunSource(`bring VALUE from "noisy"
bring VALUE from "noisy" as again
print again`, ""))
	require.Equal(t, "loaded\n1\n", in.Output())
}

func TestBringCycleDetected(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	err := in.RunFile(filepath.Join("testdata", "cycle_a.xel"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBring), "expected BringError, got %v", err)
	require.Contains(t, err.Error(), "circular bring detected: cycle_a.xel -> cycle_b.xel -> cycle_a.xel")
}

func TestBringResolvesRelativeToImporter(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	require.NoError(t, in.RunFile(filepath.Join("testdata", "relative", "main.xel")))
	require.Equal(t, "value 7\n", in.Output())
}

func TestBringFollowsSymlinkedModules(t *testing.T) {
	dir := t.TempDir()
	target, err := filepath.Abs(filepath.Join("testdata", "modules", "mathlib.xel"))
	require.NoError(t, err)
	if err := os.Symlink(target, filepath.Join(dir, "alias.xel")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	in := newTestInterpreter(t, Config{ModulePaths: []string{dir, filepath.Join("testdata", "modules")}})
	require.NoError(t, in.RunSource(`bring PI from "alias"
bring PI from "mathlib" as PI2
print PI == PI2`, ""))
	require.Equal(t, "true\n", in.Output())
	// both names resolve to one canonical file, so one cached module
	require.Len(t, in.imported, 1)
}

func TestResetClearsModuleCache(t *testing.T) {
	in := moduleInterpreter(t)
	require.NoError(t, in.RunSource(`bring VALUE from "noisy"`, ""))
	in.Reset()
	require.NoError(t, in.RunSource(`bring VALUE from "noisy"`, ""))
	require.Equal(t, "loaded\nloaded\n", in.Output())
}

func TestModuleCycleFromLoadStack(t *testing.T) {
	stack := []string{"/m/a.xel", "/m/b.xel", "/m/c.xel"}
	cycle, ok := moduleCycleFromLoadStack(stack, "/m/b.xel")
	require.True(t, ok)
	require.Equal(t, []string{"/m/b.xel", "/m/c.xel", "/m/b.xel"}, cycle)
	require.Equal(t, "b.xel -> c.xel -> b.xel", formatModuleCycle(cycle))

	_, ok = moduleCycleFromLoadStack(stack, "/m/d.xel")
	require.False(t, ok)
}

func TestNewRejectsInvalidModulePath(t *testing.T) {
	_, err := New(Config{ModulePaths: []string{filepath.Join("testdata", "does-not-exist")}})
	require.Error(t, err)
	_, err = New(Config{ModulePaths: []string{" "}})
	require.Error(t, err)
}
