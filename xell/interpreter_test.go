package xell

import (
	"errors"
	"strings"
	"testing"
)

func newTestInterpreter(t *testing.T, cfg Config) *Interpreter {
	t.Helper()
	cfg.CaptureOutput = true
	in, err := New(cfg)
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	t.Cleanup(func() { in.Close() })
	return in
}

func runScript(t *testing.T, source string) string {
	t.Helper()
	in := newTestInterpreter(t, Config{})
	if err := in.RunSource(source, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return in.Output()
}

func runScriptError(t *testing.T, source string) *Error {
	t.Helper()
	in := newTestInterpreter(t, Config{})
	err := in.RunSource(source, "")
	if err == nil {
		t.Fatalf("expected error, got output %q", in.Output())
	}
	var xe *Error
	if !errors.As(err, &xe) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return xe
}

func TestArithmeticPromotion(t *testing.T) {
	out := runScript(t, `print 10 / 2
print 10 / 3
print 7 % 3
print 2 + 3 * 4
print 1.5 + 1
print 6.0
print 2 * 3i
print "n=" + 5`)
	want := "5\n3.3333333333333335\n1\n14\n2.5\n6\n(0+6i)\nn=5\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestDivisionByZero(t *testing.T) {
	err := runScriptError(t, `x = 1
y = x / 0`)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected DivisionByZeroError, got %v", err)
	}
	if err.Line != 2 {
		t.Fatalf("expected line 2, got %d", err.Line)
	}
	if !strings.HasPrefix(err.Error(), "[XELL ERROR] Line 2 - DivisionByZeroError: division by zero") {
		t.Fatalf("unexpected rendering: %s", err.Error())
	}
}

func TestDivisionByZeroAcrossNumericKinds(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`10 / 0`, "division by zero"},
		{`10.0 / 0.0`, "division by zero"},
		{`10 / 0.0`, "division by zero"},
		{`7 % 0`, "modulo by zero"},
		{`5.5 % 0.0`, "modulo by zero"},
		{`2i / 0`, "division by zero"},
	}
	for _, tc := range cases {
		err := runScriptError(t, tc.src)
		if !errors.Is(err, ErrDivisionByZero) || err.Message != tc.want {
			t.Fatalf("%s: expected DivisionByZeroError %q, got %v", tc.src, tc.want, err)
		}
	}
}

func TestDivisionResultKinds(t *testing.T) {
	out := runScript(t, `print type(10 / 3), type(10 / 2), type(10.0 / 4)
print 10 / 2, 10.0 / 4`)
	if out != "float int float\n5 2.5\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestErrorRenderingIncludesPathAndFrame(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	err := in.RunSource("fn boom():\n  give 1 % 0\n;\nboom()", "main.xel")
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "[XELL ERROR] main.xel: Line 2 - DivisionByZeroError: modulo by zero") {
		t.Fatalf("unexpected header: %s", msg)
	}
	if !strings.Contains(msg, "give 1 % 0") {
		t.Fatalf("expected code frame in %s", msg)
	}
	if !strings.Contains(msg, "at boom (line 2)") || !strings.Contains(msg, "at <script> (line 4)") {
		t.Fatalf("expected call frames in %s", msg)
	}
}

func TestArityErrors(t *testing.T) {
	err := runScriptError(t, `fn f(a, b): give a ;
f(1)`)
	if err.Kind != ArityError {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if err.Message != "f() expects 2 argument(s), got 1" {
		t.Fatalf("unexpected message %q", err.Message)
	}

	err = runScriptError(t, `fn g(a, b = 1): give a ;
g(1, 2, 3)`)
	if err.Message != "g() expects at most 2 argument(s), got 3" {
		t.Fatalf("unexpected message %q", err.Message)
	}
}

func TestDefaultsAndVariadic(t *testing.T) {
	out := runScript(t, `fn f(a, b = 10, ...rest): give [a, b, rest] ;
print f(1)
print f(1, 2, 3, 4)`)
	if out != "[1, 10, []]\n[1, 2, [3, 4]]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLambdaCapturesSnapshot(t *testing.T) {
	out := runScript(t, `x = 1
f = () => x
x = 2
print f()
y = 1
fn g(): give y ;
y = 2
print g()`)
	if out != "1\n2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDecoratorsApplyBottomUp(t *testing.T) {
	out := runScript(t, `fn twice(f): give x => f(f(x)) ;
fn plus_ten(f): give x => f(x) + 10 ;
@plus_ten
@twice
fn inc(n): give n + 1 ;
print inc(1)`)
	if out != "13\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTryCatchFinally(t *testing.T) {
	out := runScript(t, `try:
  x = 1 / 0
;
catch e:
  print e->type
  print e->message
;
finally:
  print "done"
;`)
	if out != "DivisionByZeroError\ndivision by zero\ndone\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFinallyGiveOverrides(t *testing.T) {
	out := runScript(t, `fn f():
  try:
    give 1
  ;
  finally:
    give 2
  ;
;
print f()`)
	if out != "2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFinallyRunsOnRethrow(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	err := in.RunSource(`try:
  throw("KeyError", "missing")
;
finally:
  print "cleanup"
;`, "")
	if !errors.Is(err, ErrKey) {
		t.Fatalf("expected KeyError, got %v", err)
	}
	if in.Output() != "cleanup\n" {
		t.Fatalf("finally did not run: %q", in.Output())
	}
}

func TestInCase(t *testing.T) {
	out := runScript(t, `for x in [1, 2, 4]:
  incase x:
    is 1: print "one" ;
    is 2 or 3: print "two or three" ;
    else: print "other" ;
  ;
;`)
	if out != "one\ntwo or three\nother\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEnumAutoIncrement(t *testing.T) {
	out := runScript(t, `enum Color: RED, GREEN = 5, BLUE ;
print Color->RED
print Color->BLUE
print Color`)
	if out != "0\n6\n<enum Color: RED, GREEN, BLUE>\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDestructuring(t *testing.T) {
	out := runScript(t, `a, b = [1, 2]
print a + b
for k, v in [(1, "x"), (2, "y")]: print k, v ;`)
	if out != "3\n1 x\n2 y\n" {
		t.Fatalf("unexpected output %q", out)
	}

	err := runScriptError(t, `a, b = [1]`)
	if err.Kind != ValueError || err.Message != "expected 2 values to unpack, got 1" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRecursionLimitIsRecoverable(t *testing.T) {
	in := newTestInterpreter(t, Config{RecursionLimit: 50})
	err := in.RunSource(`fn f(n): give f(n + 1) ;
f(0)`, "")
	if !errors.Is(err, ErrRecursion) {
		t.Fatalf("expected RecursionError, got %v", err)
	}

	in.Reset()
	if err := in.RunSource(`fn f(n): give f(n + 1) ;
try:
  f(0)
;
catch e:
  print e->type
;
fn ok(n): give n ;
print ok(3)`, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if in.Output() != "RecursionError\n3\n" {
		t.Fatalf("unexpected output %q", in.Output())
	}
}

func TestLoopsBreakContinue(t *testing.T) {
	out := runScript(t, `total = 0
for i in range(10):
  if i == 5: break ;
  if i % 2 == 0: continue ;
  total += i
;
print total
n = 0
while n < 3: n++ ;
print n`)
	if out != "4\n3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	err := runScriptError(t, `break`)
	if err.Kind != RuntimeError || err.Message != "'break' outside loop" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSharingAndClone(t *testing.T) {
	out := runScript(t, `a = [1, 2]
b = a
push(b, 3)
c = clone(a)
push(c, 4)
print a
print c`)
	if out != "[1, 2, 3]\n[1, 2, 3, 4]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMapsAndSpread(t *testing.T) {
	out := runScript(t, `m = {a: 1, "b": 2}
m->c = 3
m["d"] = 4
print m
print len(m)
xs = [1, 2]
print [0, ...xs, 3]
print {...m, e: 5}->e`)
	want := "{a: 1, b: 2, c: 3, d: 4}\n4\n[0, 1, 2, 3]\n5\n"
	if out != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestOperators(t *testing.T) {
	out := runScript(t, `print "a" | "b"
print 0 && "ok"
print 1 && "ok"
print 1 || "fallback"
print none or "x"
print "yes" if 1 > 0 else "no"
print 2 in [1, 2]
print 3 not in [1, 2]
print "ell" in "hello"
print 1 == 1.0
print(not 0)
i = 1
j = i++
k = ++i
print i, j, k
name = "xell"
print "hi {name}"`)
	want := "a | b\nok\n1\nfallback\nx\nyes\ntrue\ntrue\ntrue\ntrue\ntrue\n3 1 3\nhi xell\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestMemberCallPassesReceiver(t *testing.T) {
	out := runScript(t, `fn double(x): give x * 2 ;
n = 4
print n->double()
obj = {greet: name => "hi " + name}
print obj->greet("bo")`)
	if out != "8\nhi bo\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCallResolutionErrors(t *testing.T) {
	err := runScriptError(t, `print y`)
	if err.Kind != UndefinedVariableError || err.Message != "undefined variable 'y'" {
		t.Fatalf("unexpected error %v", err)
	}

	err = runScriptError(t, `x = 1
x()`)
	if err.Kind != TypeError {
		t.Fatalf("expected TypeError, got %v", err)
	}

	err = runScriptError(t, `nothing()`)
	if err.Kind != UndefinedVariableError {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
}

func TestUserFunctionShadowsBuiltin(t *testing.T) {
	out := runScript(t, `fn len(x): give "mine" ;
print len([1])`)
	if out != "mine\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRegisteredBuiltinSurvivesReset(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	in.RegisterBuiltin("twice", func(in *Interpreter, args []Value, line int) (Value, error) {
		if len(args) != 1 || args[0].Kind() != KindInt {
			return NewNone(), NewError(TypeError, line, "twice() expects an int")
		}
		return NewInt(args[0].Int() * 2), nil
	})
	in.Reset()
	if err := in.RunSource(`print twice(21)`, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if in.Output() != "42\n" {
		t.Fatalf("unexpected output %q", in.Output())
	}
}

func TestEvalAndCallUserFn(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	if err := in.RunSource(`fn add(a, b): give a + b ;`, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	fnVal, ok := in.Globals().Get("add")
	if !ok || fnVal.Kind() != KindFunction {
		t.Fatalf("add not defined")
	}
	result, err := in.CallUserFn(fnVal.Function(), []Value{NewInt(2), NewInt(3)}, 0)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !result.Equal(NewInt(5)) {
		t.Fatalf("expected 5, got %s", result)
	}

	program, err := Parse(`add(4, 5)`, "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	stmt := program.Statements[0].(*ExprStmt)
	val, err := in.Eval(stmt.Expr)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if val.Int() != 9 {
		t.Fatalf("expected 9, got %s", val)
	}
}

func TestTopLevelGiveStopsProgram(t *testing.T) {
	out := runScript(t, `print "a"
give
print "b"`)
	if out != "a\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInputBuiltin(t *testing.T) {
	in := newTestInterpreter(t, Config{Input: strings.NewReader("alice\n")})
	if err := in.RunSource(`name = input("name? ")
print "hi " + name
print is_none(input())`, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if in.Output() != "name? hi alice\ntrue\n" {
		t.Fatalf("unexpected output %q", in.Output())
	}
}

func TestClosedInterpreterRejectsRun(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	in.Close()
	if err := in.RunSource(`print 1`, ""); err == nil {
		t.Fatalf("expected error from closed interpreter")
	}
}

func TestForInRequiresList(t *testing.T) {
	cases := []struct {
		src      string
		typeName string
	}{
		{`for c in "ab": print c ;`, "string"},
		{`for x in (1, 2): print x ;`, "tuple"},
		{`for k in {a: 1}: print k ;`, "map"},
		{`for x in 5: print x ;`, "int"},
	}
	for _, tc := range cases {
		in := newTestInterpreter(t, Config{})
		err := in.RunSource(tc.src, "")
		if !errors.Is(err, ErrType) {
			t.Fatalf("%s: expected TypeError, got %v", tc.src, err)
		}
		if !strings.Contains(err.Error(), "for..in requires a list, got "+tc.typeName) {
			t.Fatalf("%s: unexpected message %v", tc.src, err)
		}
		if in.Output() != "" {
			t.Fatalf("%s: loop body ran: %q", tc.src, in.Output())
		}
	}
}

func TestForInRejectsGeneratorAndClosesIt(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	err := in.RunSource(`fn gen():
  yield 1
  yield 2
;
for x in gen(): break ;`, "")
	if !errors.Is(err, ErrType) || !strings.Contains(err.Error(), "for..in requires a list, got generator") {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if n := in.LiveGenerators(); n != 0 {
		t.Fatalf("expected the loop's generator to be closed, %d still live", n)
	}

	if err := in.RunSource(`for x in gen_collect(gen()): print x ;`, ""); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if in.Output() != "1\n2\n" {
		t.Fatalf("unexpected output %q", in.Output())
	}
}

func TestMissingArgumentWithoutDefault(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	fn := &Function{
		Name: "f",
		Params: []Param{
			{Name: "a", DefaultVal: &IntegerLiteral{Value: 1}},
			{Name: "b"},
		},
		Expr: &Identifier{Name: "b"},
		Env:  in.Globals(),
	}
	_, err := in.CallUserFn(fn, []Value{NewInt(5)}, 3)
	var xe *Error
	if !errors.As(err, &xe) || xe.Kind != ArityError {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if xe.Message != "f() missing argument 'b'" || xe.Line != 3 {
		t.Fatalf("unexpected error %+v", xe)
	}
}
