package xell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const moduleExtension = ".xel"

// moduleRegistry caches the interpreters of imported modules by canonical
// path. It is shared by an interpreter and every module it imports.
type moduleRegistry struct {
	mu      sync.Mutex
	modules map[string]*Interpreter
}

func newModuleRegistry() *moduleRegistry {
	return &moduleRegistry{modules: make(map[string]*Interpreter)}
}

func (r *moduleRegistry) get(path string) (*Interpreter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mod, ok := r.modules[path]
	return mod, ok
}

func (r *moduleRegistry) put(path string, mod *Interpreter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[path] = mod
}

func (r *moduleRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = make(map[string]*Interpreter)
}

func (exec *Execution) evalBring(stmt *BringStmt, env *Env) error {
	line := stmt.Pos().Line
	in := exec.interp
	path, err := in.resolveModule(stmt.Path, exec.path, line)
	if err != nil {
		return err
	}
	mod, err := in.loadModule(stmt.Path, path, line)
	if err != nil {
		return err
	}

	if stmt.All {
		for _, name := range mod.globals.AllNames() {
			val, _ := mod.globals.Get(name)
			env.Define(name, val)
		}
		return nil
	}
	for i, name := range stmt.Names {
		val, ok := mod.globals.Get(name)
		if !ok {
			return newError(BringError, line, "'%s' is not defined in '%s'", name, stmt.Path)
		}
		alias := name
		if i < len(stmt.Aliases) {
			alias = stmt.Aliases[i]
		}
		env.Define(alias, val)
	}
	return nil
}

// resolveModule finds the file a bring refers to: relative to the importing
// file first, then each module path. The result is canonical.
func (in *Interpreter) resolveModule(name, importer string, line int) (string, error) {
	if name == "" {
		return "", newError(BringError, line, "module path cannot be empty")
	}
	file := filepath.FromSlash(name)
	if filepath.Ext(file) == "" {
		file += moduleExtension
	}

	var candidates []string
	if filepath.IsAbs(file) {
		candidates = append(candidates, file)
	} else {
		base := "."
		if importer != "" {
			base = filepath.Dir(importer)
		}
		candidates = append(candidates, filepath.Join(base, file))
		for _, dir := range in.config.ModulePaths {
			candidates = append(candidates, filepath.Join(dir, file))
		}
	}

	for _, candidate := range candidates {
		stat, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", newError(BringError, line, "cannot access '%s': %v", candidate, err)
		}
		if stat.IsDir() {
			continue
		}
		canonical, err := canonicalPath(candidate)
		if err != nil {
			return "", newError(BringError, line, "cannot resolve '%s': %v", candidate, err)
		}
		in.logger.Debug().Str("module", name).Str("path", canonical).Msg("bring resolved")
		return canonical, nil
	}
	return "", newError(BringError, line, "module '%s' not found", name)
}

// loadModule runs the module at path in a child interpreter, or returns the
// cached one. A path already on the import chain is a cycle.
func (in *Interpreter) loadModule(name, path string, line int) (*Interpreter, error) {
	if cycle, ok := moduleCycleFromLoadStack(in.importChain, path); ok {
		in.logger.Debug().Str("module", name).Msg("bring cycle")
		return nil, newError(BringError, line, "circular bring detected: %s", formatModuleCycle(cycle))
	}
	if mod, ok := in.modules.get(path); ok {
		in.logger.Debug().Str("path", path).Msg("bring cache hit")
		return mod, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(BringError, line, "cannot read module '%s': %v", name, err)
	}
	program, err := Parse(string(data), path)
	if err != nil {
		return nil, newError(BringError, line, "cannot parse module '%s': %v", name, err)
	}

	child := in.newChild(path)
	if err := child.Run(program); err != nil {
		child.Close()
		return nil, moduleFailure(name, line, err)
	}
	in.modules.put(path, child)
	in.imported = append(in.imported, child)
	return child, nil
}

// moduleFailure reports a module whose top level failed. The inner error
// stays reachable through Unwrap with its own path and frames.
func moduleFailure(name string, line int, err error) *Error {
	detail := err.Error()
	var inner *Error
	if errors.As(err, &inner) {
		detail = fmt.Sprintf("%s: %s", inner.Kind, inner.Message)
	}
	wrapped := newError(BringError, line, "module '%s' failed: %s", name, detail)
	wrapped.Cause = err
	return wrapped
}
