package xell

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Interpreter owns a global environment, a builtin table and the state of
// every module and generator created while running programs against it.
// Statements are evaluated on the caller's goroutine; it is not safe for
// concurrent use.
type Interpreter struct {
	config Config
	logger zerolog.Logger

	globals  *Env
	builtins map[string]Value
	custom   map[string]BuiltinFunc

	out      io.Writer
	captured *bytes.Buffer
	in       *bufio.Reader

	modules     *moduleRegistry
	importChain []string
	imported    []*Interpreter

	genMu      sync.Mutex
	generators map[*Generator]struct{}

	root   *Execution
	active *Execution
	closed bool
}

// New constructs an Interpreter with defaults applied and the standard
// builtins registered.
func New(cfg Config) (*Interpreter, error) {
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if err := validateModulePaths(cfg.ModulePaths); err != nil {
		return nil, err
	}
	cfg.ModulePaths = append([]string(nil), cfg.ModulePaths...)
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	in := &Interpreter{
		config:  cfg,
		logger:  subLogger(logger, "interpreter"),
		custom:  make(map[string]BuiltinFunc),
		out:     cfg.Output,
		in:      bufio.NewReader(cfg.Input),
		modules: newModuleRegistry(),
	}
	if cfg.CaptureOutput {
		in.captured = &bytes.Buffer{}
		in.out = in.captured
	}
	if cfg.SourcePath != "" {
		if canonical, err := canonicalPath(cfg.SourcePath); err == nil {
			in.importChain = []string{canonical}
		}
	}
	in.resetState()
	return in, nil
}

// MustNew constructs an Interpreter or panics if the config is invalid.
func MustNew(cfg Config) *Interpreter {
	in, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return in
}

func (in *Interpreter) resetState() {
	in.globals = newEnv(nil)
	in.builtins = make(map[string]Value)
	registerStandardBuiltins(in)
	for name, fn := range in.custom {
		in.builtins[name] = NewBuiltinValue(name, fn)
	}
	in.generators = make(map[*Generator]struct{})
	in.imported = nil
	in.root = newExecution(in, nil)
	in.root.path = in.config.SourcePath
	in.active = in.root
}

// newChild builds the interpreter that runs an imported module. It shares
// configuration, builtins, output and the module registry with in.
func (in *Interpreter) newChild(path string) *Interpreter {
	child := &Interpreter{
		config:      in.config,
		logger:      in.logger,
		globals:     newEnv(nil),
		builtins:    in.builtins,
		custom:      in.custom,
		out:         in.out,
		captured:    in.captured,
		in:          in.in,
		modules:     in.modules,
		importChain: append(append([]string(nil), in.importChain...), path),
		generators:  make(map[*Generator]struct{}),
	}
	child.config.SourcePath = path
	child.root = newExecution(child, nil)
	child.root.path = path
	child.active = child.root
	return child
}

// RegisterBuiltin adds or replaces a native function. It survives Reset.
func (in *Interpreter) RegisterBuiltin(name string, fn BuiltinFunc) {
	in.custom[name] = fn
	in.builtins[name] = NewBuiltinValue(name, fn)
}

func (in *Interpreter) registerBuiltin(name string, fn BuiltinFunc) {
	in.builtins[name] = NewBuiltinValue(name, fn)
}

// Builtins lists the registered builtin names.
func (in *Interpreter) Builtins() []string {
	names := make([]string, 0, len(in.builtins))
	for name := range in.builtins {
		names = append(names, name)
	}
	return names
}

func (in *Interpreter) Globals() *Env { return in.globals }

func (in *Interpreter) Logger() zerolog.Logger { return in.logger }

// Output returns the text printed so far when CaptureOutput is set.
func (in *Interpreter) Output() string {
	if in.captured == nil {
		return ""
	}
	return in.captured.String()
}

// Run executes the program's top-level statements against the global
// environment. A top-level give stops the program.
func (in *Interpreter) Run(program *Program) error {
	if in.closed {
		return errors.New("xell: interpreter is closed")
	}
	exec := in.root
	prevSource, prevPath := exec.source, exec.path
	exec.source = program.Source
	if program.Path != "" {
		exec.path = program.Path
	}
	defer func() {
		exec.source, exec.path = prevSource, prevPath
	}()

	for _, stmt := range program.Statements {
		_, returned, err := exec.evalStatement(stmt, in.globals)
		if err != nil {
			return exec.escapeError(err, stmt.Pos().Line)
		}
		if returned {
			return nil
		}
	}
	return nil
}

// RunSource parses and runs source. path is used for error messages and to
// resolve relative brings; it may be empty.
func (in *Interpreter) RunSource(source, path string) error {
	program, err := Parse(source, path)
	if err != nil {
		return err
	}
	return in.Run(program)
}

// RunFile runs the file at path, placing it at the root of the import
// chain so a module bringing it back is reported as a cycle.
func (in *Interpreter) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: IOError, Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	if canonical, err := canonicalPath(path); err == nil && len(in.importChain) == 0 {
		in.importChain = []string{canonical}
	}
	return in.RunSource(string(data), path)
}

// Eval evaluates a single expression in the global environment.
func (in *Interpreter) Eval(expr Expression) (Value, error) {
	val, err := in.root.evalExpression(expr, in.globals)
	if err != nil {
		return NewNone(), in.root.escapeError(err, expr.Pos().Line)
	}
	return val, nil
}

// Exec executes a single statement in the global environment.
func (in *Interpreter) Exec(stmt Statement) error {
	_, _, err := in.root.evalStatement(stmt, in.globals)
	if err != nil {
		return in.root.escapeError(err, stmt.Pos().Line)
	}
	return nil
}

// CallUserFn invokes a user-defined function. Builtins use it to call back
// into script code.
func (in *Interpreter) CallUserFn(fn *Function, args []Value, line int) (Value, error) {
	return in.active.callFunction(fn, args, line)
}

// CallValue invokes any callable value.
func (in *Interpreter) CallValue(callee Value, args []Value, line int) (Value, error) {
	return in.active.callValue(callee, args, line)
}

// Reset discards all globals, modules and generators and re-registers the
// builtins, leaving the interpreter as New returned it.
func (in *Interpreter) Reset() {
	in.shutdown()
	in.resetState()
	in.logger.Debug().Msg("interpreter reset")
}

// Close abandons every live generator and closes imported modules.
func (in *Interpreter) Close() error {
	if in.closed {
		return nil
	}
	in.shutdown()
	in.closed = true
	return nil
}

func (in *Interpreter) shutdown() {
	for _, g := range in.liveGenerators() {
		if err := g.Close(); err != nil {
			in.logger.Warn().Err(err).Str("generator", g.ID.String()).Msg("close generator")
		}
	}
	for i := len(in.imported) - 1; i >= 0; i-- {
		in.imported[i].Close()
	}
	in.imported = nil
	if len(in.importChain) <= 1 {
		in.modules.clear()
	}
}

func (in *Interpreter) trackGenerator(g *Generator) {
	in.genMu.Lock()
	in.generators[g] = struct{}{}
	in.genMu.Unlock()
}

func (in *Interpreter) forgetGenerator(g *Generator) {
	in.genMu.Lock()
	delete(in.generators, g)
	in.genMu.Unlock()
}

func (in *Interpreter) liveGenerators() []*Generator {
	in.genMu.Lock()
	defer in.genMu.Unlock()
	out := make([]*Generator, 0, len(in.generators))
	for g := range in.generators {
		out = append(out, g)
	}
	return out
}

// LiveGenerators reports how many generators have not finished or been
// closed.
func (in *Interpreter) LiveGenerators() int {
	in.genMu.Lock()
	defer in.genMu.Unlock()
	return len(in.generators)
}

func (in *Interpreter) write(s string) error {
	if _, err := io.WriteString(in.out, s); err != nil {
		return newError(IOError, 0, "write failed: %v", err)
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}
