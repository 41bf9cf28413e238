package xell

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type GeneratorPhase int

const (
	GeneratorNotStarted GeneratorPhase = iota
	GeneratorRunning
	GeneratorYielded
	GeneratorDone
)

func (p GeneratorPhase) String() string {
	switch p {
	case GeneratorNotStarted:
		return "not_started"
	case GeneratorRunning:
		return "running"
	case GeneratorYielded:
		return "yielded"
	default:
		return "done"
	}
}

type resumeState int

const (
	resumeYielded resumeState = iota
	// resumeCompleted is reported once, by the resume that observed the
	// body finish.
	resumeCompleted
	resumeExhausted
)

// Generator is a suspended call of a generator or async function. Its body
// runs on a dedicated goroutine; a mutex and condition variable hand
// control back and forth so that the driver and the body never run at the
// same time.
type Generator struct {
	ID   uuid.UUID
	Name string

	fn     *Function
	env    *Env
	interp *Interpreter
	exec   *Execution
	logger zerolog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	phase   GeneratorPhase
	current Value
	// last is the most recent yielded or given value; await returns it.
	last  Value
	given Value
	gave  bool
	err   error
	done  chan struct{}
}

func (in *Interpreter) newGenerator(fn *Function, env *Env) *Generator {
	g := &Generator{
		ID:      uuid.New(),
		Name:    functionLabel(fn),
		fn:      fn,
		env:     env,
		interp:  in,
		current: NewNone(),
		last:    NewNone(),
		given:   NewNone(),
		done:    make(chan struct{}),
	}
	g.cond = sync.NewCond(&g.mu)
	g.exec = newExecution(in, g)
	g.exec.source, g.exec.path = fn.Source, fn.Path
	g.logger = in.logger.With().Str("generator", g.ID.String()).Str("fn", g.Name).Logger()
	in.trackGenerator(g)
	g.logger.Debug().Msg("generator spawned")
	go g.run()
	return g
}

func (g *Generator) Phase() GeneratorPhase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// run is the worker. It waits to be driven, evaluates the body once and
// always finishes in the Done phase.
func (g *Generator) run() {
	defer close(g.done)

	g.mu.Lock()
	for g.phase == GeneratorNotStarted {
		g.cond.Wait()
	}
	if g.phase == GeneratorDone {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	val, returned, err := g.evalBody()

	g.mu.Lock()
	switch {
	case errors.Is(err, errGeneratorAbandoned):
	case err != nil:
		g.err = err
	case returned:
		g.given = val
		g.gave = true
		g.last = val
	}
	g.phase = GeneratorDone
	g.cond.Broadcast()
	g.mu.Unlock()
}

func (g *Generator) evalBody() (val Value, returned bool, err error) {
	if err := g.exec.pushFrame(g.Name, g.fn.Pos.Line); err != nil {
		return NewNone(), false, err
	}
	defer g.exec.popFrame()
	return g.exec.runBody(g.fn, g.env)
}

// resume runs the body until its next yield or its end. The resume that
// sees the body finish reports resumeCompleted together with the given
// value and rethrows a deferred error; later calls report resumeExhausted.
func (g *Generator) resume() (Value, resumeState, error) {
	g.mu.Lock()
	if g.phase == GeneratorDone {
		g.mu.Unlock()
		return NewNone(), resumeExhausted, nil
	}
	if g.phase == GeneratorRunning {
		g.mu.Unlock()
		return NewNone(), resumeExhausted, newError(RuntimeError, 0, "generator %s is already running", g.Name)
	}

	prev := g.interp.active
	g.exec.base = prev.depth()
	g.interp.active = g.exec
	g.phase = GeneratorRunning
	g.cond.Broadcast()
	for g.phase == GeneratorRunning {
		g.cond.Wait()
	}
	g.interp.active = prev

	if g.phase == GeneratorYielded {
		val := g.current
		g.mu.Unlock()
		return val, resumeYielded, nil
	}

	err := g.err
	g.err = nil
	val := NewNone()
	if g.gave {
		val = g.given
	}
	g.mu.Unlock()

	<-g.done
	g.interp.forgetGenerator(g)
	if err != nil {
		g.logger.Debug().Err(err).Msg("generator failed")
		return NewNone(), resumeCompleted, err
	}
	g.logger.Debug().Msg("generator completed")
	return val, resumeCompleted, nil
}

// yield is called on the worker goroutine. It hands v to the driver and
// blocks until resumed. errGeneratorAbandoned means the driver closed the
// generator and the body must unwind.
func (g *Generator) yield(v Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == GeneratorDone {
		return errGeneratorAbandoned
	}
	g.current = v
	g.last = v
	g.phase = GeneratorYielded
	g.cond.Broadcast()
	for g.phase == GeneratorYielded {
		g.cond.Wait()
	}
	if g.phase == GeneratorDone {
		return errGeneratorAbandoned
	}
	return nil
}

// Close abandons the generator and waits for its worker to exit. A body
// suspended at a yield unwinds without running further statements other
// than finally blocks.
func (g *Generator) Close() error {
	g.mu.Lock()
	switch g.phase {
	case GeneratorRunning:
		g.mu.Unlock()
		return newError(RuntimeError, 0, "cannot close running generator %s", g.Name)
	case GeneratorDone:
		g.mu.Unlock()
		<-g.done
		g.interp.forgetGenerator(g)
		return nil
	}
	abandoned := g.phase == GeneratorYielded
	prev := g.interp.active
	g.interp.active = g.exec
	g.phase = GeneratorDone
	g.cond.Broadcast()
	g.mu.Unlock()

	<-g.done
	g.interp.active = prev
	g.interp.forgetGenerator(g)
	if abandoned {
		g.logger.Debug().Msg("generator abandoned")
	}
	g.logger.Debug().Msg("generator joined")
	return nil
}

// Exhausted reports whether the body has finished.
func (g *Generator) Exhausted() bool {
	return g.Phase() == GeneratorDone
}

// await drives the generator to completion and returns the last yielded or
// given value. On a finished generator it returns the stored value without
// running anything.
func (g *Generator) await() (Value, error) {
	for {
		_, state, err := g.resume()
		if err != nil {
			return NewNone(), err
		}
		if state != resumeYielded {
			break
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last, nil
}

// collect drains the remaining yielded values. The given value is not
// included.
func (g *Generator) collect() ([]Value, error) {
	var out []Value
	for {
		val, state, err := g.resume()
		if err != nil {
			return nil, err
		}
		if state != resumeYielded {
			return out, nil
		}
		out = append(out, val)
	}
}

// next implements the next() builtin.
func (g *Generator) next(line int) (Value, error) {
	val, state, err := g.resume()
	if err != nil {
		return NewNone(), withLine(err, line)
	}
	if state == resumeExhausted {
		return NewNone(), newError(RuntimeError, line, "generator exhausted")
	}
	return val, nil
}

func (exec *Execution) evalYield(expr *YieldExpr, env *Env) (Value, error) {
	if exec.gen == nil {
		return NewNone(), newError(RuntimeError, expr.Pos().Line, "'yield' outside generator")
	}
	val := NewNone()
	if expr.Value != nil {
		var err error
		val, err = exec.evalExpression(expr.Value, env)
		if err != nil {
			return NewNone(), err
		}
	}
	if err := exec.gen.yield(val); err != nil {
		return NewNone(), err
	}
	return NewNone(), nil
}

func (exec *Execution) evalAwait(expr *AwaitExpr, env *Env) (Value, error) {
	val, err := exec.evalExpression(expr.Value, env)
	if err != nil {
		return NewNone(), err
	}
	if val.Kind() != KindGenerator {
		return val, nil
	}
	return val.Generator().await()
}
