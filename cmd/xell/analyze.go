package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xell-lang/xell/xell"
)

const mainScope = "<main>"

type lintWarning struct {
	Function string
	Pos      xell.Position
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("xell analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	program, err := xell.Parse(string(input), scriptPath)
	if err != nil {
		return fmt.Errorf("analysis parse failed: %w", err)
	}

	warnings := analyzeProgram(program)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzeProgram lints the top level and every function body, including
// nested functions.
func analyzeProgram(program *xell.Program) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements(mainScope, program.Statements, &warnings)
	xell.Inspect(program, func(n xell.Node) bool {
		if fn, ok := n.(*xell.FunctionStmt); ok {
			lintStatements(fn.Name, fn.Body, &warnings)
		}
		return true
	})

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})

	return warnings
}

func lintStatements(function string, statements []xell.Statement, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt xell.Statement, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *xell.GiveStmt, *xell.BreakStmt, *xell.ContinueStmt:
		return true
	case *xell.ExprStmt:
		return isThrowCall(typed.Expr)
	case *xell.IfStmt:
		return ifStatementTerminates(function, typed, warnings)
	case *xell.ForStmt:
		lintStatements(function, typed.Body, warnings)
		return false
	case *xell.WhileStmt:
		lintStatements(function, typed.Body, warnings)
		return false
	case *xell.InCaseStmt:
		allTerminated := len(typed.Else) > 0
		for _, clause := range typed.Clauses {
			if !lintStatements(function, clause.Body, warnings) {
				allTerminated = false
			}
		}
		if !lintStatements(function, typed.Else, warnings) {
			allTerminated = false
		}
		return allTerminated
	case *xell.TryStmt:
		bodyTerminated := lintStatements(function, typed.Body, warnings)
		catchTerminated := false
		if typed.HasCatch {
			catchTerminated = lintStatements(function, typed.Catch, warnings)
		}
		if len(typed.Finally) > 0 && lintStatements(function, typed.Finally, warnings) {
			return true
		}
		if !typed.HasCatch {
			return false
		}
		return bodyTerminated && catchTerminated
	default:
		return false
	}
}

func ifStatementTerminates(function string, stmt *xell.IfStmt, warnings *[]lintWarning) bool {
	consequentTerminated := lintStatements(function, stmt.Consequent, warnings)
	elseIfAllTerminated := true
	for _, elseIf := range stmt.ElseIf {
		if !lintStatements(function, elseIf.Consequent, warnings) {
			elseIfAllTerminated = false
		}
	}
	if len(stmt.Alternate) == 0 {
		return false
	}
	alternateTerminated := lintStatements(function, stmt.Alternate, warnings)
	return consequentTerminated && elseIfAllTerminated && alternateTerminated
}

func isThrowCall(expr xell.Expression) bool {
	call, ok := expr.(*xell.CallExpr)
	if !ok {
		return false
	}
	ident, ok := call.Callee.(*xell.Identifier)
	return ok && ident.Name == "throw"
}
