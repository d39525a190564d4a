package interp

import "strings"

// DefaultKey is the sentinel Mapping key used for the "default:" entry
// consulted by PropertyAccessor. It is never equal to any real attribute
// name because names come from the string pool and this is a distinct
// Go value.
var DefaultKey = &struct{ name string }{"default"}

// DictKey is the sentinel that, used as a property name, returns the
// property itself — letting group authors write `<m:{k,v|<k>}>`-style
// iteration over a mapping's keys without a dedicated opcode.
var DictKey = &struct{ name string }{"key"}

// Sequence is an ordered, growable list of Values — the runtime
// representation pushed by the LIST opcode and grown by ADD.
type Sequence struct {
	Elems []Value
}

func NewSequence() *Sequence { return &Sequence{} }

func SequenceOf(vs ...Value) *Sequence { return &Sequence{Elems: vs} }

func (s *Sequence) Kind() ObjectKind { return KindSeq }

func (s *Sequence) Inspect() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range s.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Inspect())
	}
	b.WriteByte(']')
	return b.String()
}

func (s *Sequence) Hash() uint32 { return uint32(len(s.Elems)) }

func (s *Sequence) Append(v Value) { s.Elems = append(s.Elems, v) }

func (s *Sequence) Len() int { return len(s.Elems) }

// Mapping is an insertion-ordered associative container. Keys are
// compared with Go == on their normalized form (see NormalizeKey), so an
// int64 key and an equal float64 key are distinct; DefaultKey and DictKey (above) are the two
// sentinel keys PropertyAccessor treats specially.
type Mapping struct {
	keys []any // string, int64, float64, bool, or one of the sentinel pointers
	vals []Value
}

func NewMapping() *Mapping { return &Mapping{} }

func (m *Mapping) Kind() ObjectKind { return KindMap }

func (m *Mapping) Inspect() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		switch kk := k.(type) {
		case string:
			b.WriteString(kk)
		default:
			b.WriteString(m.vals[i].Inspect())
		}
		b.WriteString(": ")
		b.WriteString(m.vals[i].Inspect())
	}
	b.WriteByte('}')
	return b.String()
}

func (m *Mapping) Hash() uint32 { return uint32(len(m.keys)) }

func (m *Mapping) indexOf(key any) int {
	for i, k := range m.keys {
		if k == key {
			return i
		}
		if ks, ok := k.(string); ok {
			if vs, ok2 := key.(string); ok2 && ks == vs {
				return i
			}
		}
	}
	return -1
}

// Put inserts or overwrites key -> v, preserving first-insertion order.
func (m *Mapping) Put(key any, v Value) {
	if i := m.indexOf(key); i >= 0 {
		m.vals[i] = v
		return
	}
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Get looks up key, returning (value, true) on a hit.
func (m *Mapping) Get(key any) (Value, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.vals[i], true
	}
	return Value{}, false
}

// Keys returns a fresh Sequence of the map's keys in insertion order.
func (m *Mapping) Keys() *Sequence {
	seq := NewSequence()
	for _, k := range m.keys {
		switch kk := k.(type) {
		case string:
			seq.Append(StrVal(kk))
		case int64:
			seq.Append(IntVal(kk))
		case float64:
			seq.Append(FloatVal(kk))
		case bool:
			seq.Append(BoolVal(kk))
		default:
			seq.Append(NullVal())
		}
	}
	return seq
}

// Values returns a fresh Sequence of the map's values in insertion order.
func (m *Mapping) Values() *Sequence {
	seq := NewSequence()
	seq.Elems = append(seq.Elems, m.vals...)
	return seq
}

func (m *Mapping) Len() int { return len(m.keys) }

// NormalizeKey converts a Value into the key representation Mapping
// indexes by: strings, integers, floats and booleans compare by value;
// null normalizes to nil; any other object falls back to its Inspect()
// string so at least identity-by-text holds.
func NormalizeKey(v Value) any {
	switch v.Type {
	case ValInt:
		return v.AsInt()
	case ValFloat:
		return v.AsFloat()
	case ValBool:
		return v.AsBool()
	case ValObj:
		if s, ok := v.AsStr(); ok {
			return s
		}
		return v.Inspect()
	default:
		return nil
	}
}

// Iterator is a single-pass cursor over Values, the normalized form
// every collection-like Value is converted to before iteration.
type Iterator struct {
	next func() (Value, bool)
}

func NewIterator(next func() (Value, bool)) *Iterator { return &Iterator{next: next} }

func (it *Iterator) Kind() ObjectKind { return KindIter }
func (it *Iterator) Inspect() string  { return "<iterator>" }
func (it *Iterator) Hash() uint32     { return 0 }

// Next advances the iterator, returning (value, true) or (zero, false)
// once exhausted. Safe to call after exhaustion (keeps returning false).
func (it *Iterator) Next() (Value, bool) {
	if it.next == nil {
		return Value{}, false
	}
	return it.next()
}

// SliceIterator returns an Iterator walking vs in order.
func SliceIterator(vs []Value) *Iterator {
	i := 0
	return NewIterator(func() (Value, bool) {
		if i >= len(vs) {
			return Value{}, false
		}
		v := vs[i]
		i++
		return v, true
	})
}

// Opaque boxes a generic Go value (a "userRef") for reflective property
// access: property.go resolves properties on it through Go reflection
// over Get/Is methods, exported fields and map keys.
type Opaque struct {
	Val any
}

func (o *Opaque) Kind() ObjectKind { return KindOpaque }
func (o *Opaque) Inspect() string  { return "<object>" }
func (o *Opaque) Hash() uint32     { return 0 }
