package xell

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind names a category of the language's error hierarchy. The name is
// what scripts see in the `type` field of a caught error.
type ErrorKind string

const (
	TypeError              ErrorKind = "TypeError"
	ArityError             ErrorKind = "ArityError"
	IndexError             ErrorKind = "IndexError"
	KeyError               ErrorKind = "KeyError"
	DivisionByZeroError    ErrorKind = "DivisionByZeroError"
	UndefinedVariableError ErrorKind = "UndefinedVariableError"
	RecursionError         ErrorKind = "RecursionError"
	HashError              ErrorKind = "HashError"
	BringError             ErrorKind = "BringError"
	NotImplementedError    ErrorKind = "NotImplementedError"
	ValueError             ErrorKind = "ValueError"
	RuntimeError           ErrorKind = "RuntimeError"
	IOError                ErrorKind = "IOError"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrType              = &Error{Kind: TypeError}
	ErrArity             = &Error{Kind: ArityError}
	ErrIndex             = &Error{Kind: IndexError}
	ErrKey               = &Error{Kind: KeyError}
	ErrDivisionByZero    = &Error{Kind: DivisionByZeroError}
	ErrUndefinedVariable = &Error{Kind: UndefinedVariableError}
	ErrRecursion         = &Error{Kind: RecursionError}
	ErrHash              = &Error{Kind: HashError}
	ErrBring             = &Error{Kind: BringError}
	ErrNotImplemented    = &Error{Kind: NotImplementedError}
	ErrValue             = &Error{Kind: ValueError}
	ErrRuntime           = &Error{Kind: RuntimeError}
	ErrIO                = &Error{Kind: IOError}
)

type StackFrame struct {
	Function string
	Line     int
}

// Error is a language-level error. It is the only kind of error a script's
// try/catch can observe.
type Error struct {
	Kind      ErrorKind
	Message   string
	Line      int
	Path      string
	CodeFrame string
	Frames    []StackFrame
	// Cause is the error this one wraps, such as the failure inside a
	// brought module.
	Cause error
}

const (
	errorFrameHead = 8
	errorFrameTail = 8
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[XELL ERROR] ")
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "Line %d - ", e.Line)
	}
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(e.CodeFrame)
	}

	renderFrame := func(frame StackFrame) {
		if frame.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}
	if len(e.Frames) <= errorFrameHead+errorFrameTail {
		for _, frame := range e.Frames {
			renderFrame(frame)
		}
		return b.String()
	}
	for _, frame := range e.Frames[:errorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(e.Frames) - (errorFrameHead + errorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range e.Frames[len(e.Frames)-errorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Is matches a sentinel of the same kind, so errors.Is(err, ErrType) works
// for any TypeError.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// NewError builds an error for use by externally registered builtins.
func NewError(kind ErrorKind, line int, format string, args ...any) error {
	return newError(kind, line, format, args...)
}

// IsKind reports whether err is a language error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var xe *Error
	return errors.As(err, &xe) && xe.Kind == kind
}

func arityError(name string, min, max, got int, variadic bool, line int) *Error {
	switch {
	case variadic:
		return newError(ArityError, line, "%s() expects at least %d argument(s), got %d", name, min, got)
	case min == max:
		return newError(ArityError, line, "%s() expects %d argument(s), got %d", name, min, got)
	case got < min:
		return newError(ArityError, line, "%s() expects at least %d argument(s), got %d", name, min, got)
	default:
		return newError(ArityError, line, "%s() expects at most %d argument(s), got %d", name, max, got)
	}
}

// Control-flow signals. They travel on the error path but are never caught
// by try/catch; each is consumed at its structural boundary.
var (
	errLoopBreak          = errors.New("break outside loop")
	errLoopContinue       = errors.New("continue outside loop")
	errGeneratorAbandoned = errors.New("generator abandoned")
)

func isControlSignal(err error) bool {
	return errors.Is(err, errLoopBreak) ||
		errors.Is(err, errLoopContinue) ||
		errors.Is(err, errGeneratorAbandoned)
}

// asLanguageError converts any error into the language hierarchy so that
// catch blocks and top-level callers see a uniform shape.
func asLanguageError(err error, line int) *Error {
	var xe *Error
	if errors.As(err, &xe) {
		if xe.Line == 0 {
			xe.Line = line
		}
		return xe
	}
	return &Error{Kind: RuntimeError, Message: err.Error(), Line: line}
}

// errorValue is the map bound to a catch variable.
func errorValue(err *Error) Value {
	return NewMap(
		[]string{"type", "message", "line"},
		[]Value{NewString(string(err.Kind)), NewString(err.Message), NewInt(int64(err.Line))},
	)
}
