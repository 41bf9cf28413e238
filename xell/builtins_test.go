package xell

import (
	"strings"
	"testing"
)

func TestBuiltinOutputs(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"sort", `print sort([3, 1, 2])`, "[1, 2, 3]"},
		{"sort by key", `print sort(["bb", "a", "ccc"], s => len(s))`, `["a", "bb", "ccc"]`},
		{"natural sort", `print natural_sort(["file10", "file2", "file1"])`, `["file1", "file2", "file10"]`},
		{"reverse", `print reverse([1, 2, 3])`, "[3, 2, 1]"},
		{"map", `print map([1, 2, 3], x => x * 2)`, "[2, 4, 6]"},
		{"filter", `print filter(range(10), x => x % 3 == 0)`, "[0, 3, 6, 9]"},
		{"reduce", `print reduce([1, 2, 3, 4], (a, b) => a + b)`, "10"},
		{"reduce initial", `print reduce([], (a, b) => a + b, 5)`, "5"},
		{"range step", `print range(0, 10, 3)`, "[0, 3, 6, 9]"},
		{"range negative", `print range(3, 0, -1)`, "[3, 2, 1]"},
		{"any all", `print any([0, none, 2]), all([1, ""])`, "true false"},
		{"pop", "xs = [1, 2, 3]\nprint pop(xs), pop(xs, 0), xs", "3 1 [2]"},
		{"keys values", "m = {a: 1, b: 2}\nprint keys(m), values(m), has(m, \"a\")", `["a", "b"] [1, 2] true`},
		{"conversions", `print int("42"), int(3.9), int("ff", 16), float("2.5"), str(7) + "!"`, "42 3 255 2.5 7!"},
		{"type names", `print type(1), type(1.5), type("s"), type([]), type({a: 1}), type(none)`, "int float string list map none"},
		{"hash numeric", `print hash(1) == hash(1.0)`, "true"},
		{"min max sum", `print min(3, 1, 2), max([4, 9]), sum([1, 2, 3])`, "1 9 6"},
		{"pow sqrt", `print pow(2, 10), sqrt(16), pow(2, -1)`, "1024 4 0.5"},
		{"rounding", `print round(2.567, 2), floor(-1.5), ceil(1.2), abs(-5)`, "2.57 -2 2 5"},
		{"strings", `print join(split("a,b,c", ","), "-"), upper("hi"), trim("  x  "), replace("aaa", "a", "b", 2)`, "a-b-c HI x bba"},
		{"prefix", `print starts_with("xell", "xe"), ends_with("xell", "x")`, "true false"},
		{"format", `print format(r"{} + {} = {{{}}}", 1, 2, 3)`, "1 + 2 = {3}"},
		{"json stringify", `print json_stringify({b: 1, a: [1, 2.5, "x", none, true]})`, `{"b":1,"a":[1,2.5,"x",null,true]}`},
		{"json parse", `print json_parse(r'{"z": [1, 2.5], "a": null}')`, "{a: none, z: [1, 2.5]}"},
		{"uuid", `print len(uuid())`, "36"},
		{"len runes", `print len("héllo"), len([1, 2])`, "5 2"},
		{"contains", `print contains([1, 2], 2), contains("xell", "ll")`, "true true"},
		{"clone", "a = [[1]]\nb = clone(a)\npush(b[0], 2)\nprint a, b", "[[1]] [[1, 2]]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := strings.TrimSuffix(runScript(t, tc.src), "\n")
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind ErrorKind
		msg  string
	}{
		{"range step zero", `range(1, 5, 0)`, ValueError, "range() step must not be zero"},
		{"reduce empty", `reduce([], (a, b) => a)`, ValueError, "reduce() of empty sequence with no initial value"},
		{"sqrt negative", `sqrt(-1)`, ValueError, ""},
		{"pow zero negative", `pow(0, -1)`, DivisionByZeroError, ""},
		{"json trailing", `json_parse("[1] 2")`, ValueError, "json_parse() unexpected trailing data"},
		{"json nan", `json_stringify(float("nan"))`, ValueError, ""},
		{"format short", `format(r"{} {}", 1)`, IndexError, "format() needs more than 1 arguments"},
		{"int invalid", `int("abc")`, ValueError, `invalid literal for int(): "abc"`},
		{"natural sort types", `natural_sort(["a", 1])`, TypeError, "natural_sort() element 1 must be string, got int"},
		{"pop empty", `pop([])`, IndexError, "pop from empty list"},
		{"min empty", `min([])`, ValueError, "min() of empty sequence"},
		{"throw custom", `throw("ConfigError", "missing key")`, ErrorKind("ConfigError"), "missing key"},
		{"throw default", `throw("boom")`, RuntimeError, "boom"},
		{"assert", `assert(1 == 2, "math")`, RuntimeError, "assertion failed: math"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := runScriptError(t, tc.src)
			if err.Kind != tc.kind {
				t.Fatalf("expected %s, got %s: %v", tc.kind, err.Kind, err)
			}
			if tc.msg != "" && err.Message != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, err.Message)
			}
			if err.Line != 1 {
				t.Fatalf("expected line 1, got %d", err.Line)
			}
		})
	}
}

func TestCaughtCustomErrorKind(t *testing.T) {
	out := runScript(t, `try:
  throw("ConfigError", "missing key")
;
catch e:
  print e->type, e->message, e->line
;`)
	if out != "ConfigError missing key 2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
