package xell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorNextSequence(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	err := in.RunSource(`fn gen():
  yield 1
  yield 2
  give 3
;
g = gen()
print next(g)
print next(g)
print is_exhausted(g)
print next(g)
print is_exhausted(g)`, "")
	require.NoError(t, err)
	require.Equal(t, "1\n2\nfalse\n3\ntrue\n", in.Output())

	err = in.RunSource(`next(g)`, "")
	require.True(t, errors.Is(err, ErrRuntime), "expected RuntimeError, got %v", err)
	require.Contains(t, err.Error(), "generator exhausted")
	require.Equal(t, 0, in.LiveGenerators())
}

func TestGeneratorBodyIsLazy(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	require.NoError(t, in.RunSource(`fn gen():
  print "started"
  yield 1
;
g = gen()
print "created"
print next(g)`, ""))
	require.Equal(t, "created\nstarted\n1\n", in.Output())
}

func TestAwaitReturnsGivenValueOnce(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	require.NoError(t, in.RunSource(`fn gen():
  print "run"
  yield 1
  yield 2
  give 3
;
g = gen()
print await g
print await g`, ""))
	require.Equal(t, "run\n3\n3\n", in.Output())
}

func TestAwaitReturnsLastYield(t *testing.T) {
	out := runScript(t, `fn gen():
  yield "a"
  yield "b"
;
print await gen()`)
	require.Equal(t, "b\n", out)
}

func TestAwaitPassesThroughPlainValues(t *testing.T) {
	out := runScript(t, `async fn fetch(x): give x * 2 ;
print await fetch(21)
print await 5
f = fetch(1)
print type(f)`)
	require.Equal(t, "42\n5\ngenerator\n", out)
}

func TestGeneratorDrainingBuiltins(t *testing.T) {
	out := runScript(t, `fn count(n):
  i = 0
  while i < n:
    yield i
    i += 1
  ;
;
for x in gen_collect(count(3)): print x ;
print gen_collect(count(4))
print sum(count(5))
print [...count(2), 9]`)
	require.Equal(t, "0\n1\n2\n[0, 1, 2, 3]\n10\n[0, 1, 9]\n", out)
}

func TestRecursionLimitSpansGenerators(t *testing.T) {
	in := newTestInterpreter(t, Config{RecursionLimit: 20})
	err := in.RunSource(`fn g(n):
  if n == 0: give 0 ;
  give next(g(n - 1)) + 1
  yield 0
;
print next(g(200))`, "")
	require.True(t, errors.Is(err, ErrRecursion), "expected RecursionError, got %v", err)
	require.Empty(t, in.Output())
	require.Equal(t, 0, in.LiveGenerators())

	require.NoError(t, in.RunSource(`print next(g(5))`, ""))
	require.Equal(t, "5\n", in.Output())
}

func TestGeneratorDeferredError(t *testing.T) {
	out := runScript(t, `fn bad():
  yield 1
  x = 1 / 0
;
g = bad()
print next(g)
try:
  next(g)
;
catch e:
  print e->type
;
print is_exhausted(g)`)
	require.Equal(t, "1\nDivisionByZeroError\ntrue\n", out)
}

func TestGeneratorAbandonRunsFinally(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	require.NoError(t, in.RunSource(`fn gen():
  try:
    yield 1
    print "unreachable"
    yield 2
  ;
  finally:
    print "cleanup"
  ;
;
g = gen()
print next(g)
gen_close(g)
print is_exhausted(g)`, ""))
	require.Equal(t, "1\ncleanup\ntrue\n", in.Output())
	require.Equal(t, 0, in.LiveGenerators())
}

func TestAbandonedGeneratorNotCaughtByCatch(t *testing.T) {
	out := runScript(t, `fn gen():
  try:
    yield 1
    yield 2
  ;
  catch e:
    print "caught"
  ;
  print "after"
;
g = gen()
next(g)
gen_close(g)
print "closed"`)
	require.Equal(t, "closed\n", out)
}

func TestInterpreterCloseJoinsGenerators(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	require.NoError(t, in.RunSource(`fn forever():
  i = 0
  while true:
    yield i
    i += 1
  ;
;
c = forever()
next(c)
next(c)
a = forever()
b = forever()
next(a)`, ""))
	require.Equal(t, 3, in.LiveGenerators())

	in.Reset()
	require.Equal(t, 0, in.LiveGenerators())
}

func TestYieldOutsideGenerator(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	program, err := Parse(`x = 1`, "")
	require.NoError(t, err)
	require.NoError(t, in.Run(program))

	err = in.RunSource(`yield 1`, "")
	require.Error(t, err)
	require.True(t, IsKind(err, RuntimeError))
	require.Contains(t, err.Error(), "'yield' outside generator")
}

func TestGeneratorPhases(t *testing.T) {
	in := newTestInterpreter(t, Config{})
	require.NoError(t, in.RunSource(`fn gen():
  yield 1
;
g = gen()`, ""))
	val, ok := in.Globals().Get("g")
	require.True(t, ok)
	g := val.Generator()
	require.NotNil(t, g)
	require.Equal(t, GeneratorNotStarted, g.Phase())

	_, err := builtinNext(in, []Value{val}, 0)
	require.NoError(t, err)
	require.Equal(t, GeneratorYielded, g.Phase())

	require.NoError(t, g.Close())
	require.Equal(t, GeneratorDone, g.Phase())
	require.Equal(t, "done", g.Phase().String())
	// closing twice is harmless
	require.NoError(t, g.Close())
}

func TestGeneratorCallsBackIntoScript(t *testing.T) {
	out := runScript(t, `fn gen(xs):
  for x in map(xs, v => v * 10): yield x ;
;
print gen_collect(gen([1, 2]))`)
	require.Equal(t, "[10, 20]\n", out)
}
