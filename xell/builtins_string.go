package xell

import (
	"strings"
)

func stringArg(name string, args []Value, pos, line int) (string, error) {
	if err := expectKind(name, args[pos], pos, line, KindString); err != nil {
		return "", err
	}
	return args[pos].Str(), nil
}

func builtinSplit(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("split", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	text, err := stringArg("split", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	var parts []string
	if len(args) == 1 {
		parts = strings.Fields(text)
	} else {
		sep, err := stringArg("split", args, 1, line)
		if err != nil {
			return NewNone(), err
		}
		if sep == "" {
			return NewNone(), newError(ValueError, line, "split() separator must not be empty")
		}
		parts = strings.Split(text, sep)
	}
	items := make([]Value, len(parts))
	for i, part := range parts {
		items[i] = NewString(part)
	}
	return NewList(items), nil
}

func builtinUpper(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("upper", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	text, err := stringArg("upper", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	return NewString(strings.ToUpper(text)), nil
}

func builtinLower(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("lower", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	text, err := stringArg("lower", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	return NewString(strings.ToLower(text)), nil
}

func builtinTrim(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("trim", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	text, err := stringArg("trim", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	if len(args) == 2 {
		cutset, err := stringArg("trim", args, 1, line)
		if err != nil {
			return NewNone(), err
		}
		return NewString(strings.Trim(text, cutset)), nil
	}
	return NewString(strings.TrimSpace(text)), nil
}

func builtinReplace(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("replace", args, 3, 4, line); err != nil {
		return NewNone(), err
	}
	var parts [3]string
	for i := range parts {
		s, err := stringArg("replace", args, i, line)
		if err != nil {
			return NewNone(), err
		}
		parts[i] = s
	}
	count := -1
	if len(args) == 4 {
		if err := expectKind("replace", args[3], 3, line, KindInt); err != nil {
			return NewNone(), err
		}
		count = int(args[3].Int())
	}
	return NewString(strings.Replace(parts[0], parts[1], parts[2], count)), nil
}

func builtinStartsWith(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("starts_with", args, 2, 2, line); err != nil {
		return NewNone(), err
	}
	text, err := stringArg("starts_with", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	prefix, err := stringArg("starts_with", args, 1, line)
	if err != nil {
		return NewNone(), err
	}
	return NewBool(strings.HasPrefix(text, prefix)), nil
}

func builtinEndsWith(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("ends_with", args, 2, 2, line); err != nil {
		return NewNone(), err
	}
	text, err := stringArg("ends_with", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	suffix, err := stringArg("ends_with", args, 1, line)
	if err != nil {
		return NewNone(), err
	}
	return NewBool(strings.HasSuffix(text, suffix)), nil
}

// builtinFormat substitutes "{}" placeholders in order. "{{" and "}}" are
// literal braces.
func builtinFormat(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("format", args, 1, -1, line); err != nil {
		return NewNone(), err
	}
	tmpl, err := stringArg("format", args, 0, line)
	if err != nil {
		return NewNone(), err
	}
	values := args[1:]
	var b strings.Builder
	next := 0
	for i := 0; i < len(tmpl); i++ {
		switch {
		case strings.HasPrefix(tmpl[i:], "{{"):
			b.WriteByte('{')
			i++
		case strings.HasPrefix(tmpl[i:], "}}"):
			b.WriteByte('}')
			i++
		case strings.HasPrefix(tmpl[i:], "{}"):
			if next >= len(values) {
				return NewNone(), newError(IndexError, line, "format() needs more than %d arguments", len(values))
			}
			b.WriteString(values[next].String())
			next++
			i++
		default:
			b.WriteByte(tmpl[i])
		}
	}
	return NewString(b.String()), nil
}
