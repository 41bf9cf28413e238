package xell

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// builtinThrow raises a language error. throw(message) raises a
// RuntimeError; throw(kind, message) uses the given kind name.
func builtinThrow(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("throw", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	kind := RuntimeError
	msg := args[0]
	if len(args) == 2 {
		name, err := stringArg("throw", args, 0, line)
		if err != nil {
			return NewNone(), err
		}
		if name == "" {
			return NewNone(), newError(ValueError, line, "throw() error kind must not be empty")
		}
		kind = ErrorKind(name)
		msg = args[1]
	}
	return NewNone(), &Error{Kind: kind, Message: msg.String(), Line: line}
}

func builtinAssert(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("assert", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	if args[0].Truthy() {
		return NewNone(), nil
	}
	if len(args) == 2 {
		return NewNone(), newError(RuntimeError, line, "assertion failed: %s", args[1].String())
	}
	return NewNone(), newError(RuntimeError, line, "assertion failed")
}

func builtinUUID(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("uuid", args, 0, 0, line); err != nil {
		return NewNone(), err
	}
	return NewString(uuid.NewString()), nil
}

// builtinHash returns a stable integer for any hashable value. Equal values
// hash equally, including across numeric kinds.
func builtinHash(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("hash", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	key, err := hashKey(args[0])
	if err != nil {
		return NewNone(), withLine(err, line)
	}
	h := fnv.New64a()
	h.Write([]byte(key))
	return NewInt(int64(h.Sum64() >> 1)), nil
}
