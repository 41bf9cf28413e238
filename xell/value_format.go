package xell

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String renders v the way print shows it. Strings print bare at the top
// level and quoted inside containers.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	default:
		return v.repr()
	}
}

// Repr renders v the way it appears inside a container, with strings
// quoted. The REPL echoes results this way.
func (v Value) Repr() string { return v.repr() }

func (v Value) repr() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindBool:
		if v.data.(bool) {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return formatFloat(v.data.(float64))
	case KindComplex:
		return formatComplex(v.data.(complex128))
	case KindString:
		return strconv.Quote(v.data.(string))
	case KindBytes:
		return formatBytes(v.data.(*Bytes).Data)
	case KindList:
		return "[" + joinRepr(v.data.(*List).Items) + "]"
	case KindTuple:
		items := v.data.(*Tuple).Items
		if len(items) == 1 {
			return "(" + items[0].repr() + ",)"
		}
		return "(" + joinRepr(items) + ")"
	case KindSet:
		s := v.data.(*Set)
		if s.Len() == 0 {
			return "set()"
		}
		return "{" + joinRepr(s.items) + "}"
	case KindFrozenSet:
		return "<" + joinRepr(v.data.(*Set).items) + ">"
	case KindMap:
		m := v.data.(*Map)
		parts := make([]string, len(m.entries))
		for i, entry := range m.entries {
			key := entry.Key.repr()
			if entry.Key.kind == KindString {
				key = entry.Key.data.(string)
			}
			parts[i] = key + ": " + entry.Value.repr()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		fn := v.data.(*Function)
		if fn.Name == "" {
			return "<fn lambda>"
		}
		return "<fn " + fn.Name + ">"
	case KindBuiltin:
		return "<builtin " + v.data.(*Builtin).Name + ">"
	case KindEnum:
		e := v.data.(*Enum)
		return "<enum " + e.Name + ": " + strings.Join(e.Members, ", ") + ">"
	case KindGenerator:
		return "<generator " + v.data.(*Generator).Name + ">"
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

func joinRepr(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.repr()
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	sign := "+"
	if im < 0 || (im == 0 && math.Signbit(im)) {
		sign = "-"
		im = -im
	}
	return "(" + formatFloat(re) + sign + formatFloat(im) + "i)"
}

func formatBytes(data []byte) string {
	var b strings.Builder
	b.WriteString(`b"`)
	for _, c := range data {
		switch {
		case c == '\\' || c == '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
