package xell

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// hashKey derives a comparable key for a hashable value. Values that are
// Equal produce the same key, including across numeric kinds.
func hashKey(v Value) (string, error) {
	switch v.kind {
	case KindNone:
		return "n", nil
	case KindBool:
		if v.data.(bool) {
			return "b1", nil
		}
		return "b0", nil
	case KindInt:
		return "i" + strconv.FormatInt(v.data.(int64), 10), nil
	case KindFloat:
		return floatHashKey(v.data.(float64)), nil
	case KindComplex:
		c := v.data.(complex128)
		if imag(c) == 0 {
			return floatHashKey(real(c)), nil
		}
		return "c" + strconv.FormatFloat(real(c), 'g', -1, 64) + "," + strconv.FormatFloat(imag(c), 'g', -1, 64), nil
	case KindString:
		return "s" + v.data.(string), nil
	case KindBytes:
		return "y" + string(v.data.(*Bytes).Data), nil
	case KindEnum:
		// name and members, matching Equal
		e := v.data.(*Enum)
		var b strings.Builder
		b.WriteByte('e')
		writeLengthPrefixed(&b, e.Name)
		for _, member := range e.Members {
			writeLengthPrefixed(&b, member)
		}
		return b.String(), nil
	case KindTuple:
		var b strings.Builder
		b.WriteByte('t')
		for _, item := range v.data.(*Tuple).Items {
			key, err := hashKey(item)
			if err != nil {
				return "", err
			}
			writeLengthPrefixed(&b, key)
		}
		return b.String(), nil
	case KindFrozenSet:
		s := v.data.(*Set)
		keys := make([]string, 0, len(s.items))
		for key := range s.index {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteByte('z')
		for _, key := range keys {
			writeLengthPrefixed(&b, key)
		}
		return b.String(), nil
	default:
		return "", newError(HashError, 0, "cannot hash mutable type '%s'", v.TypeName())
	}
}

func floatHashKey(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return "i" + strconv.FormatInt(int64(f), 10)
	}
	return "f" + strconv.FormatFloat(f, 'g', -1, 64)
}

func writeLengthPrefixed(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// IsHashable reports whether v may be used as a set element or map key.
func (v Value) IsHashable() bool {
	_, err := hashKey(v)
	return err == nil
}

type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an insertion-ordered hash map keyed by hashable values.
type Map struct {
	entries []MapEntry
	index   map[string]int
}

func newMap() *Map {
	return &Map{index: make(map[string]int)}
}

func (m *Map) Len() int { return len(m.entries) }

func (m *Map) Get(key Value) (Value, bool, error) {
	hk, err := hashKey(key)
	if err != nil {
		return Value{}, false, err
	}
	if idx, ok := m.index[hk]; ok {
		return m.entries[idx].Value, true, nil
	}
	return Value{}, false, nil
}

// GetString is the fast path for string keys.
func (m *Map) GetString(key string) (Value, bool) {
	if idx, ok := m.index["s"+key]; ok {
		return m.entries[idx].Value, true
	}
	return Value{}, false
}

func (m *Map) Set(key, val Value) error {
	hk, err := hashKey(key)
	if err != nil {
		return err
	}
	m.setHashed(hk, key, val)
	return nil
}

func (m *Map) SetString(key string, val Value) {
	m.setHashed("s"+key, NewString(key), val)
}

func (m *Map) setHashed(hk string, key, val Value) {
	if idx, ok := m.index[hk]; ok {
		m.entries[idx].Value = val
		return
	}
	m.index[hk] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: val})
}

func (m *Map) Delete(key Value) (bool, error) {
	hk, err := hashKey(key)
	if err != nil {
		return false, err
	}
	idx, ok := m.index[hk]
	if !ok {
		return false, nil
	}
	delete(m.index, hk)
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	for i := idx; i < len(m.entries); i++ {
		k, _ := hashKey(m.entries[i].Key)
		m.index[k] = i
	}
	return true, nil
}

// Entries returns the entries in insertion order. The slice is a copy.
func (m *Map) Entries() []MapEntry {
	return append([]MapEntry(nil), m.entries...)
}

func (m *Map) Keys() []Value {
	keys := make([]Value, len(m.entries))
	for i, entry := range m.entries {
		keys[i] = entry.Key
	}
	return keys
}

func (m *Map) Values() []Value {
	values := make([]Value, len(m.entries))
	for i, entry := range m.entries {
		values[i] = entry.Value
	}
	return values
}

// Set is an insertion-ordered collection of distinct hashable values. A
// frozen set is immutable and itself hashable.
type Set struct {
	items  []Value
	index  map[string]int
	frozen bool
}

func newSetFrom(items []Value, frozen bool) (*Set, error) {
	s := &Set{index: make(map[string]int, len(items)), frozen: frozen}
	for _, item := range items {
		if err := s.add(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) Len() int       { return len(s.items) }
func (s *Set) Frozen() bool   { return s.frozen }
func (s *Set) Items() []Value { return append([]Value(nil), s.items...) }

func (s *Set) Has(v Value) (bool, error) {
	hk, err := hashKey(v)
	if err != nil {
		return false, err
	}
	_, ok := s.index[hk]
	return ok, nil
}

func (s *Set) add(v Value) error {
	hk, err := hashKey(v)
	if err != nil {
		return err
	}
	if _, ok := s.index[hk]; ok {
		return nil
	}
	s.index[hk] = len(s.items)
	s.items = append(s.items, v)
	return nil
}

// Add inserts v. Frozen sets reject mutation.
func (s *Set) Add(v Value) error {
	if s.frozen {
		return newError(TypeError, 0, "cannot add to a frozenset")
	}
	return s.add(v)
}

func (s *Set) Remove(v Value) (bool, error) {
	if s.frozen {
		return false, newError(TypeError, 0, "cannot remove from a frozenset")
	}
	hk, err := hashKey(v)
	if err != nil {
		return false, err
	}
	idx, ok := s.index[hk]
	if !ok {
		return false, nil
	}
	delete(s.index, hk)
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	for i := idx; i < len(s.items); i++ {
		k, _ := hashKey(s.items[i])
		s.index[k] = i
	}
	return true, nil
}
