package xell

func generatorArg(name string, args []Value, line int) (*Generator, error) {
	if err := expectArgs(name, args, 1, 1, line); err != nil {
		return nil, err
	}
	if err := expectKind(name, args[0], 0, line, KindGenerator); err != nil {
		return nil, err
	}
	return args[0].Generator(), nil
}

// builtinNext resumes a generator to its next yield. After the body
// finishes it returns the given value once, then raises.
func builtinNext(in *Interpreter, args []Value, line int) (Value, error) {
	g, err := generatorArg("next", args, line)
	if err != nil {
		return NewNone(), err
	}
	return g.next(line)
}

func builtinIsExhausted(in *Interpreter, args []Value, line int) (Value, error) {
	g, err := generatorArg("is_exhausted", args, line)
	if err != nil {
		return NewNone(), err
	}
	return NewBool(g.Exhausted()), nil
}

func builtinGenCollect(in *Interpreter, args []Value, line int) (Value, error) {
	g, err := generatorArg("gen_collect", args, line)
	if err != nil {
		return NewNone(), err
	}
	items, err := g.collect()
	if err != nil {
		return NewNone(), withLine(err, line)
	}
	return NewList(items), nil
}

func builtinGenClose(in *Interpreter, args []Value, line int) (Value, error) {
	g, err := generatorArg("gen_close", args, line)
	if err != nil {
		return NewNone(), err
	}
	if err := g.Close(); err != nil {
		return NewNone(), withLine(err, line)
	}
	return NewNone(), nil
}
