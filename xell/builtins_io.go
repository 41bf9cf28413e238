package xell

import (
	"errors"
	"io"
	"strings"
)

func builtinPrint(in *Interpreter, args []Value, line int) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	if err := in.write(strings.Join(parts, " ") + "\n"); err != nil {
		return NewNone(), withLine(err, line)
	}
	return NewNone(), nil
}

// builtinInput reads one line. At end of input it returns none.
func builtinInput(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("input", args, 0, 1, line); err != nil {
		return NewNone(), err
	}
	if len(args) == 1 {
		if err := in.write(args[0].String()); err != nil {
			return NewNone(), withLine(err, line)
		}
	}
	text, err := in.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if text == "" {
				return NewNone(), nil
			}
		} else {
			return NewNone(), newError(IOError, line, "input failed: %v", err)
		}
	}
	return NewString(strings.TrimRight(text, "\r\n")), nil
}
