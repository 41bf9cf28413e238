package xell

// Env is one lexical scope. Names remember definition order so that
// listings are stable.
type Env struct {
	parent *Env
	names  []string
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

// NewEnv creates an empty scope whose lookups fall through to parent.
func NewEnv(parent *Env) *Env {
	return newEnv(parent)
}

func (e *Env) Parent() *Env { return e.parent }

func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Lookup is Get that reports a missing name as an UndefinedVariableError.
func (e *Env) Lookup(name string, line int) (Value, error) {
	if val, ok := e.Get(name); ok {
		return val, nil
	}
	return Value{}, newError(UndefinedVariableError, line, "undefined variable '%s'", name)
}

func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, val Value) {
	if _, ok := e.values[name]; !ok {
		e.names = append(e.names, name)
	}
	e.values[name] = val
}

// Set updates the nearest scope that already binds name, or defines it
// here when no scope does.
func (e *Env) Set(name string, val Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return
		}
	}
	e.Define(name, val)
}

// AllNames lists every visible name, outermost scope first. A shadowed
// name appears once.
func (e *Env) AllNames() []string {
	var chain []*Env
	for env := e; env != nil; env = env.parent {
		chain = append(chain, env)
	}
	seen := make(map[string]struct{})
	var out []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, name := range chain[i].names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Snapshot copies every visible binding into a new parentless scope.
// Container values are deep-copied so later mutation on either side is not
// observed by the other.
func (e *Env) Snapshot() *Env {
	snap := newEnv(nil)
	for _, name := range e.AllNames() {
		val, _ := e.Get(name)
		snap.Define(name, val.Clone())
	}
	return snap
}
