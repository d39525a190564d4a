package interp

import "strings"

// ValueOps groups the conversion/transform rules shared by the interpreter:
// iterator normalization, truthiness, length, first/last/rest/trunc/strip/
// reverse, and string conversion.

// NormalizeToIterator converts collections to their natural iterator:
// a Sequence iterates its elements, a Mapping iterates its *values*, an
// Iterator is returned unchanged, and anything else is returned
// unchanged (not wrapped).
func NormalizeToIterator(v Value) Value {
	if v.Type != ValObj || v.Obj == nil {
		return v
	}
	switch o := v.Obj.(type) {
	case *Sequence:
		return ObjVal(SliceIterator(o.Elems))
	case *Mapping:
		return ObjVal(SliceIterator(o.Values().Elems))
	case *Iterator:
		return v
	default:
		return v
	}
}

// ForceIterator is NormalizeToIterator plus: null yields an empty
// iterator and other non-iterable values are wrapped as a singleton
// iterator, so the result is always an Iterator.
func ForceIterator(v Value) *Iterator {
	n := NormalizeToIterator(v)
	if n.Type == ValObj {
		if it, ok := n.Obj.(*Iterator); ok {
			return it
		}
	}
	if v.IsNull() {
		return SliceIterator(nil)
	}
	return SliceIterator([]Value{v})
}

// isIterable reports whether v normalizes to an Iterator (i.e. is a
// Sequence, Mapping, or already an Iterator) rather than a scalar.
func isIterable(v Value) bool {
	if v.Type != ValObj || v.Obj == nil {
		return false
	}
	switch v.Obj.(type) {
	case *Sequence, *Mapping, *Iterator:
		return true
	}
	return false
}

// drain fully consumes v (normalized to an iterator) into a slice.
func drain(v Value) []Value {
	it := ForceIterator(v)
	var out []Value
	for {
		val, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, val)
	}
	return out
}

// FirstIterator returns the first element of v (normalized), or v
// itself if v is not iterable.
func FirstIterator(v Value) Value {
	if !isIterable(v) {
		return v
	}
	it := ForceIterator(v)
	val, ok := it.Next()
	if !ok {
		return NullVal()
	}
	return val
}

// Last returns the final element of v, or v itself if not iterable.
func Last(v Value) Value {
	if !isIterable(v) {
		return v
	}
	if v.Type == ValObj {
		if s, ok := v.Obj.(*Sequence); ok {
			if len(s.Elems) == 0 {
				return NullVal()
			}
			return s.Elems[len(s.Elems)-1]
		}
	}
	elems := drain(v)
	if len(elems) == 0 {
		return NullVal()
	}
	return elems[len(elems)-1]
}

// Rest returns every element but the first. Sequences with <=1 elements
// and empty iterators yield null.
func Rest(v Value) Value {
	if !isIterable(v) {
		return v
	}
	elems := drain(v)
	if _, isSeq := v.Obj.(*Sequence); isSeq && len(elems) <= 1 {
		return NullVal()
	}
	if len(elems) == 0 {
		return NullVal()
	}
	return ObjVal(SequenceOf(elems[1:]...))
}

// Trunc returns every element but the last.
func Trunc(v Value) Value {
	if !isIterable(v) {
		return v
	}
	elems := drain(v)
	if len(elems) <= 1 {
		return NullVal()
	}
	return ObjVal(SequenceOf(elems[:len(elems)-1]...))
}

// Strip copies only the non-null elements of v into a new Sequence;
// non-iterable values pass through unchanged.
func Strip(v Value) Value {
	if !isIterable(v) {
		return v
	}
	elems := drain(v)
	out := NewSequence()
	for _, e := range elems {
		if !e.IsNull() {
			out.Append(e)
		}
	}
	return ObjVal(out)
}

// Reverse produces a new list with elements in reverse order (nulls preserved).
func Reverse(v Value) Value {
	if !isIterable(v) {
		return v
	}
	elems := drain(v)
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return ObjVal(SequenceOf(out...))
}

// Length returns 0 for null, the element/key count for collections, and
// 1 for any other scalar.
func Length(v Value) int64 {
	if v.IsNull() {
		return 0
	}
	if v.Type == ValObj {
		switch o := v.Obj.(type) {
		case *Sequence:
			return int64(len(o.Elems))
		case *Mapping:
			return int64(o.Len())
		case *Iterator:
			return int64(len(drain(v)))
		}
	}
	return 1
}

// Truthiness reports a value's boolean condition: null is false, booleans
// are themselves, collections/maps are non-empty, iterators report
// hasNext, anything else non-null is true.
func Truthiness(v Value) bool {
	if v.IsNull() {
		return false
	}
	if v.IsBool() {
		return v.AsBool()
	}
	if v.Type == ValObj {
		switch o := v.Obj.(type) {
		case *Sequence:
			return len(o.Elems) > 0
		case *Mapping:
			return o.Len() > 0
		case *Iterator:
			// Peek by taking one element and pushing it back in front of
			// the remaining ones, so the iterator is not consumed.
			head, ok := o.Next()
			if !ok {
				return false
			}
			rest, pending := o.next, true
			o.next = func() (Value, bool) {
				if pending {
					pending = false
					return head, true
				}
				return rest()
			}
			return true
		}
	}
	return true
}

// ToString renders v to a Go string: strings are returned verbatim,
// templates are rendered into a nested string sink with a
// no-indentation writer (so default-argument eager eval and TOSTR don't
// double the enclosing indentation), and everything else goes through
// writeObject with no options into that same sink.
func ToString(d *Dispatcher, self *Template, v Value) (string, error) {
	if s, ok := v.AsStr(); ok {
		return s, nil
	}
	var sb strings.Builder
	sink := NewStringSinkWriter(&sb)
	re := &RenderEngine{Dispatcher: d}
	if _, err := re.WriteNoOptions(sink, self, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}
