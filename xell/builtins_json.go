package xell

import (
	"bytes"
	"errors"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

const maxJSONDepth = 256

// builtinJSONParse decodes a JSON document. Integers stay ints; object keys
// are inserted in sorted order.
func builtinJSONParse(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("json_parse", args, 1, 1, line); err != nil {
		return NewNone(), err
	}
	text, err := stringArg("json_parse", args, 0, line)
	if err != nil {
		return NewNone(), err
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return NewNone(), newError(ValueError, line, "json_parse() invalid JSON: %v", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return NewNone(), newError(ValueError, line, "json_parse() unexpected trailing data")
	}
	return jsonToValue(decoded, line)
}

func jsonToValue(raw any, line int) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NewNone(), nil
	case bool:
		return NewBool(v), nil
	case string:
		return NewString(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return NewInt(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return NewNone(), newError(ValueError, line, "json_parse() invalid number %s", v)
		}
		return NewFloat(f), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			val, err := jsonToValue(item, line)
			if err != nil {
				return NewNone(), err
			}
			items[i] = val
		}
		return NewList(items), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		values := make([]Value, len(keys))
		for i, key := range keys {
			val, err := jsonToValue(v[key], line)
			if err != nil {
				return NewNone(), err
			}
			values[i] = val
		}
		return NewMap(keys, values), nil
	default:
		return NewNone(), newError(ValueError, line, "json_parse() unsupported value %T", raw)
	}
}

// builtinJSONStringify encodes a value as JSON. Maps keep their insertion
// order. An optional indent argument pretty-prints the result.
func builtinJSONStringify(in *Interpreter, args []Value, line int) (Value, error) {
	if err := expectArgs("json_stringify", args, 1, 2, line); err != nil {
		return NewNone(), err
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, args[0], line, 0); err != nil {
		return NewNone(), err
	}
	if len(args) == 2 {
		if err := expectKind("json_stringify", args[1], 1, line, KindInt); err != nil {
			return NewNone(), err
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, buf.Bytes(), "", strings.Repeat(" ", int(args[1].Int()))); err != nil {
			return NewNone(), newError(ValueError, line, "json_stringify() failed: %v", err)
		}
		return NewString(pretty.String()), nil
	}
	return NewString(buf.String()), nil
}

func writeJSON(buf *bytes.Buffer, val Value, line, depth int) error {
	if depth > maxJSONDepth {
		return newError(ValueError, line, "json_stringify() nesting too deep")
	}
	switch val.Kind() {
	case KindNone:
		buf.WriteString("null")
	case KindBool:
		if val.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt, KindFloat, KindString:
		if val.Kind() == KindFloat && (math.IsNaN(val.Float()) || math.IsInf(val.Float(), 0)) {
			return newError(ValueError, line, "json_stringify() cannot encode %s", formatFloat(val.Float()))
		}
		var raw any
		switch val.Kind() {
		case KindInt:
			raw = val.Int()
		case KindFloat:
			raw = val.Float()
		default:
			raw = val.Str()
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return newError(ValueError, line, "json_stringify() failed: %v", err)
		}
		buf.Write(encoded)
	case KindList, KindTuple, KindSet, KindFrozenSet:
		var items []Value
		if val.Kind() == KindSet || val.Kind() == KindFrozenSet {
			items = val.SetData().Items()
		} else {
			items = val.Items()
		}
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item, line, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, entry := range val.MapData().Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key := entry.Key.String()
			encoded, err := json.Marshal(key)
			if err != nil {
				return newError(ValueError, line, "json_stringify() failed: %v", err)
			}
			buf.Write(encoded)
			buf.WriteByte(':')
			if err := writeJSON(buf, entry.Value, line, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return newError(TypeError, line, "json_stringify() cannot encode %s", val.TypeName())
	}
	return nil
}
