// Package interp is the runtime execution core: the bytecode dispatcher,
// operand stack, attribute/property resolution, map engine, render engine,
// argument binder and debug tap. It depends only on the GroupService and
// WriterService interfaces (interfaces.go) — never on a
// concrete group or writer implementation.
package interp

import (
	"fmt"
	"hash/fnv"
	"math"
)

// ValueType identifies which arm of the Value sum type is populated.
type ValueType uint8

const (
	ValNull ValueType = iota
	ValBool
	ValInt
	ValFloat
	ValObj // String, Template, Sequence, Mapping, Iterator or Opaque — see ObjectKind
)

// ObjectKind distinguishes the heap-ish arms of Value that aren't
// bit-packable primitives.
type ObjectKind uint8

const (
	KindStr ObjectKind = iota
	KindTemplate
	KindSeq
	KindMap
	KindIter
	KindOpaque
)

// Object is satisfied by every non-primitive Value payload.
type Object interface {
	Kind() ObjectKind
	Inspect() string
	Hash() uint32
}

// Value is a stack-allocated tagged union, mirroring the interpreter's
// own operand representation: small primitives live inline in Data,
// everything else is a boxed Object held in Obj so it survives as long
// as something on the stack (or an attribute table) references it.
type Value struct {
	Type ValueType
	Data uint64
	Obj  Object
}

func NullVal() Value { return Value{Type: ValNull} }

func BoolVal(b bool) Value {
	var d uint64
	if b {
		d = 1
	}
	return Value{Type: ValBool, Data: d}
}

func IntVal(i int64) Value { return Value{Type: ValInt, Data: uint64(i)} }

func FloatVal(f float64) Value { return Value{Type: ValFloat, Data: math.Float64bits(f)} }

func StrVal(s string) Value { return Value{Type: ValObj, Obj: StrObject(s)} }

func ObjVal(o Object) Value { return Value{Type: ValObj, Obj: o} }

func (v Value) IsNull() bool  { return v.Type == ValNull }
func (v Value) IsBool() bool  { return v.Type == ValBool }
func (v Value) IsInt() bool   { return v.Type == ValInt }
func (v Value) IsFloat() bool { return v.Type == ValFloat }
func (v Value) IsObj() bool   { return v.Type == ValObj }

func (v Value) AsBool() bool     { return v.Data == 1 }
func (v Value) AsInt() int64     { return int64(v.Data) }
func (v Value) AsFloat() float64 { return math.Float64frombits(v.Data) }

// AsStr returns the underlying string and true if v boxes a StrObject.
func (v Value) AsStr() (string, bool) {
	if v.Type == ValObj {
		if s, ok := v.Obj.(StrObject); ok {
			return string(s), true
		}
	}
	return "", false
}

// ObjectKind reports the boxed kind, or a sentinel for primitives.
func (v Value) ObjectKind() (ObjectKind, bool) {
	if v.Type != ValObj || v.Obj == nil {
		return 0, false
	}
	return v.Obj.Kind(), true
}

// StrObject boxes a Go string as an Object.
type StrObject string

func (s StrObject) Kind() ObjectKind { return KindStr }
func (s StrObject) Inspect() string  { return string(s) }
func (s StrObject) Hash() uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Inspect renders a string form of any Value. Disassembly traces use it,
// and RenderEngine.writePOJO uses it as the natural text of primitives
// and strings that have no registered AttributeRenderer.
func (v Value) Inspect() string {
	switch v.Type {
	case ValNull:
		return "null"
	case ValBool:
		return fmt.Sprintf("%t", v.AsBool())
	case ValInt:
		return fmt.Sprintf("%d", v.AsInt())
	case ValFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case ValObj:
		if v.Obj == nil {
			return "<nil>"
		}
		return v.Obj.Inspect()
	default:
		return "<?>"
	}
}

// Hash supports using a Value as a Mapping key.
func (v Value) Hash() uint32 {
	switch v.Type {
	case ValNull:
		return 0
	case ValBool:
		return uint32(v.Data)
	case ValInt, ValFloat:
		return uint32(v.Data ^ (v.Data >> 32))
	case ValObj:
		if v.Obj != nil {
			return v.Obj.Hash()
		}
	}
	return 0
}

// Equals implements the equality the interpreter needs for DICT_KEY
// comparisons and map re-substitution; it is not exposed as an opcode.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		if v.Type == ValInt && other.Type == ValFloat {
			return float64(v.AsInt()) == other.AsFloat()
		}
		if v.Type == ValFloat && other.Type == ValInt {
			return v.AsFloat() == float64(other.AsInt())
		}
		return false
	}
	switch v.Type {
	case ValNull:
		return true
	case ValBool, ValInt, ValFloat:
		return v.Data == other.Data
	case ValObj:
		if v.Obj == nil || other.Obj == nil {
			return v.Obj == other.Obj
		}
		if s1, ok := v.Obj.(StrObject); ok {
			if s2, ok2 := other.Obj.(StrObject); ok2 {
				return s1 == s2
			}
			return false
		}
		return v.Obj == other.Obj
	}
	return false
}
