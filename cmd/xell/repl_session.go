package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/maruel/natural"

	"github.com/xell-lang/xell/xell"
)

// replSession evaluates REPL input against one interpreter. Input that
// stops mid-block is buffered until the block is closed.
type replSession struct {
	interp  *xell.Interpreter
	pending []string
	printed int
}

func newREPLSession(cfg xell.Config) (*replSession, error) {
	cfg.CaptureOutput = true
	interp, err := xell.New(cfg)
	if err != nil {
		return nil, err
	}
	return &replSession{interp: interp}, nil
}

func (s *replSession) close() {
	s.interp.Close()
}

// evaluate runs one line. more reports that the line opened a block that
// is not closed yet.
func (s *replSession) evaluate(input string) (output string, isErr, more bool) {
	s.pending = append(s.pending, input)
	program, err := xell.Parse(strings.Join(s.pending, "\n"), "")
	if err != nil {
		if needsMoreInput(err) {
			return "", false, true
		}
		s.pending = nil
		return err.Error(), true, false
	}
	s.pending = nil

	result, hasResult, err := s.run(program)
	printed := s.flush()
	if err != nil {
		return joinOutput(printed, err.Error()), true, false
	}
	if hasResult && !result.IsNone() {
		s.interp.Globals().Define("_", result)
		return joinOutput(printed, result.Repr()), false, false
	}
	return printed, false, false
}

// run executes the program and, when it ends in an expression statement,
// returns that expression's value.
func (s *replSession) run(program *xell.Program) (xell.Value, bool, error) {
	stmts := program.Statements
	if len(stmts) == 0 {
		return xell.NewNone(), false, nil
	}
	last, isExpr := stmts[len(stmts)-1].(*xell.ExprStmt)
	if isExpr {
		stmts = stmts[:len(stmts)-1]
	}
	for _, stmt := range stmts {
		if err := s.interp.Exec(stmt); err != nil {
			return xell.NewNone(), false, err
		}
	}
	if !isExpr {
		return xell.NewNone(), false, nil
	}
	val, err := s.interp.Eval(last.Expr)
	return val, err == nil, err
}

// flush returns what the program printed since the last call.
func (s *replSession) flush() string {
	out := s.interp.Output()
	printed := out[s.printed:]
	s.printed = len(out)
	return strings.TrimSuffix(printed, "\n")
}

func (s *replSession) pendingInput() bool { return len(s.pending) > 0 }

func (s *replSession) reset() {
	s.interp.Reset()
	s.pending = nil
	s.flush()
}

type replVar struct {
	name  string
	value string
}

// vars lists user globals in definition order.
func (s *replSession) vars() []replVar {
	names := s.interp.Globals().AllNames()
	out := make([]replVar, 0, len(names))
	for _, name := range names {
		val, _ := s.interp.Globals().Get(name)
		out = append(out, replVar{name: name, value: val.Repr()})
	}
	return out
}

// completions returns every keyword, builtin and global starting with
// prefix, in natural order.
func (s *replSession) completions(prefix string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(names []string) {
		for _, name := range names {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	add(xell.Keywords())
	add(s.interp.Builtins())
	add(s.interp.Globals().AllNames())
	slices.SortFunc(out, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return out
}

// needsMoreInput reports whether every parse error is the parser running
// off the end of the input.
func needsMoreInput(err error) bool {
	var errs xell.ParseErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return false
	}
	for _, perr := range errs {
		if !strings.HasSuffix(perr.Message, "got end of input") {
			return false
		}
	}
	return true
}

func joinOutput(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n")
}

// runLineREPL is the REPL used when stdin or stdout is not a terminal.
// Commands match the TUI's; prompts are written only to w.
func runLineREPL(s *replSession, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	prompt := func() {
		if s.pendingInput() {
			fmt.Fprint(w, "....> ")
		} else {
			fmt.Fprint(w, "xell> ")
		}
	}
	prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" && !s.pendingInput():
		case strings.HasPrefix(line, ":") && !s.pendingInput():
			quit := false
			switch strings.Fields(line)[0] {
			case ":quit", ":q":
				quit = true
			case ":reset", ":r":
				s.reset()
				fmt.Fprintln(w, "Environment reset")
			case ":vars", ":v":
				for _, v := range s.vars() {
					fmt.Fprintf(w, "%s = %s\n", v.name, v.value)
				}
			case ":help", ":h":
				for _, h := range replHelp {
					fmt.Fprintf(w, "%-8s %s\n", h.key, h.desc)
				}
			case ":clear", ":c":
			default:
				fmt.Fprintf(w, "Unknown command: %s\n", line)
			}
			if quit {
				return nil
			}
		default:
			output, isErr, _ := s.evaluate(line)
			if output != "" {
				if isErr {
					fmt.Fprintln(w, "error: "+output)
				} else {
					fmt.Fprintln(w, output)
				}
			}
		}
		prompt()
	}
	return scanner.Err()
}
