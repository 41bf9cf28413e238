package xell

func (v Value) Truthy() bool {
	switch v.kind {
	case KindNone:
		return false
	case KindBool:
		return v.data.(bool)
	case KindInt:
		return v.data.(int64) != 0
	case KindFloat:
		return v.data.(float64) != 0
	case KindComplex:
		return v.data.(complex128) != 0
	case KindString:
		return v.data.(string) != ""
	case KindList:
		return len(v.data.(*List).Items) > 0
	case KindTuple:
		return len(v.data.(*Tuple).Items) > 0
	case KindSet, KindFrozenSet:
		return v.data.(*Set).Len() > 0
	case KindMap:
		return v.data.(*Map).Len() > 0
	case KindBytes:
		return len(v.data.(*Bytes).Data) > 0
	default:
		return true
	}
}

// Equal is structural equality. Numbers compare across kinds; maps ignore
// insertion order; functions, builtins and generators compare by identity.
func (v Value) Equal(other Value) bool {
	if v.isNumeric() && other.isNumeric() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.data.(int64) == other.data.(int64)
		}
		if v.kind == KindComplex || other.kind == KindComplex {
			return v.Complex() == other.Complex()
		}
		return v.Float() == other.Float()
	}
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNone:
		return true
	case KindBool:
		return v.data.(bool) == other.data.(bool)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindBytes:
		return string(v.data.(*Bytes).Data) == string(other.data.(*Bytes).Data)
	case KindList, KindTuple:
		a, b := v.Items(), other.Items()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindSet, KindFrozenSet:
		a, b := v.data.(*Set), other.data.(*Set)
		if a.Len() != b.Len() {
			return false
		}
		for key := range a.index {
			if _, ok := b.index[key]; !ok {
				return false
			}
		}
		return true
	case KindMap:
		a, b := v.data.(*Map), other.data.(*Map)
		if a.Len() != b.Len() {
			return false
		}
		for key, idx := range a.index {
			otherIdx, ok := b.index[key]
			if !ok {
				return false
			}
			if !a.entries[idx].Value.Equal(b.entries[otherIdx].Value) {
				return false
			}
		}
		return true
	case KindEnum:
		a, b := v.data.(*Enum), other.data.(*Enum)
		if a.Name != b.Name || len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if a.Members[i] != b.Members[i] {
				return false
			}
		}
		return true
	case KindFunction, KindBuiltin, KindGenerator:
		return v.data == other.data
	default:
		return false
	}
}

// Clone returns a deep copy. Containers are copied recursively; functions,
// builtins, enums and generators are shared since they have no mutable
// state a script can reach through the value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		return NewList(cloneItems(v.data.(*List).Items))
	case KindTuple:
		return NewTuple(cloneItems(v.data.(*Tuple).Items))
	case KindBytes:
		return NewBytes(append([]byte(nil), v.data.(*Bytes).Data...))
	case KindSet, KindFrozenSet:
		src := v.data.(*Set)
		dst := &Set{
			items:  cloneItems(src.items),
			index:  make(map[string]int, len(src.index)),
			frozen: src.frozen,
		}
		for key, idx := range src.index {
			dst.index[key] = idx
		}
		return newSetValue(dst)
	case KindMap:
		src := v.data.(*Map)
		dst := &Map{
			entries: make([]MapEntry, len(src.entries)),
			index:   make(map[string]int, len(src.index)),
		}
		for i, entry := range src.entries {
			dst.entries[i] = MapEntry{Key: entry.Key.Clone(), Value: entry.Value.Clone()}
		}
		for key, idx := range src.index {
			dst.index[key] = idx
		}
		return NewMapValue(dst)
	default:
		return v
	}
}

func cloneItems(items []Value) []Value {
	if items == nil {
		return nil
	}
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
