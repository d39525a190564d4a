package interp

import (
	"reflect"
	"strings"
)

// PropertyAccessor resolves dynamic attribute/property lookup across
// template instances, mappings, and generic Go objects.
type PropertyAccessor struct {
	sink ErrorSink
}

func NewPropertyAccessor(sink ErrorSink) *PropertyAccessor {
	return &PropertyAccessor{sink: sink}
}

// Access resolves property on receiver, reporting NO_SUCH_PROPERTY via
// the sink on any failure and returning null in that case.
func (p *PropertyAccessor) Access(caller *Template, ip int, receiver, property Value) Value {
	if receiver.IsNull() {
		p.report(caller, ip, "null object")
		return NullVal()
	}
	if property.IsNull() {
		p.report(caller, ip, "null property")
		return NullVal()
	}

	if receiver.Type == ValObj {
		switch recv := receiver.Obj.(type) {
		case *Template:
			// Template receiver: attribute-table lookup only, no scope walk.
			v, _ := recv.LocalAttribute(propertyKeyString(property))
			return v
		case *Mapping:
			return p.accessMap(recv, property)
		case *Opaque:
			v, ok := p.accessReflective(recv.Val, propertyKeyString(property))
			if !ok {
				p.report(caller, ip, "no such property "+propertyKeyString(property))
				return NullVal()
			}
			return v
		}
	}

	p.report(caller, ip, "receiver is not a property-bearing object")
	return NullVal()
}

func propertyKeyString(property Value) string {
	if s, ok := property.AsStr(); ok {
		return s
	}
	return property.Inspect()
}

func (p *PropertyAccessor) accessMap(m *Mapping, property Value) Value {
	if isDictKeySentinel(property) {
		return property
	}
	name := propertyKeyString(property)
	if name == "keys" {
		return ObjVal(m.Keys())
	}
	if name == "values" {
		return ObjVal(m.Values())
	}

	key := NormalizeKey(property)
	if v, ok := m.Get(key); ok {
		return substituteDictKey(v, property)
	}
	if v, ok := m.Get(name); ok {
		return substituteDictKey(v, property)
	}
	if v, ok := m.Get(DefaultKey); ok {
		return substituteDictKey(v, property)
	}
	return NullVal()
}

// isDictKeySentinel reports whether property IS the DICT_KEY sentinel
// itself (identity, not a string named "key").
func isDictKeySentinel(property Value) bool {
	if property.Type != ValObj {
		return false
	}
	if o, ok := property.Obj.(*Opaque); ok {
		return o.Val == DictKey
	}
	return false
}

// substituteDictKey: after resolution, if the value equals DICT_KEY,
// substitute the property name itself.
func substituteDictKey(resolved, property Value) Value {
	if isDictKeySentinel(resolved) {
		return property
	}
	return resolved
}

// accessReflective tries get<Capitalized>(), is<Capitalized>(), then a
// public field named property, in that order.
func (p *PropertyAccessor) accessReflective(obj any, property string) (Value, bool) {
	if obj == nil {
		return Value{}, false
	}
	capName := capitalize(property)
	rv := reflect.ValueOf(obj)

	if m := rv.MethodByName("Get" + capName); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() >= 1 {
		out := m.Call(nil)
		return goToValue(out[0].Interface()), true
	}
	if m := rv.MethodByName("Is" + capName); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() >= 1 {
		out := m.Call(nil)
		return goToValue(out[0].Interface()), true
	}

	structVal := rv
	for structVal.Kind() == reflect.Ptr {
		if structVal.IsNil() {
			return Value{}, false
		}
		structVal = structVal.Elem()
	}
	if structVal.Kind() == reflect.Struct {
		f := structVal.FieldByName(capName)
		if f.IsValid() && f.CanInterface() {
			return goToValue(f.Interface()), true
		}
	}
	if structVal.Kind() == reflect.Map {
		mv := structVal.MapIndex(reflect.ValueOf(property))
		if mv.IsValid() {
			return goToValue(mv.Interface()), true
		}
	}
	return Value{}, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// goToValue converts a handful of common Go kinds into Value; anything
// unrecognized is boxed as Opaque so further property access can chain.
func goToValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return NullVal()
	case string:
		return StrVal(x)
	case bool:
		return BoolVal(x)
	case int:
		return IntVal(int64(x))
	case int64:
		return IntVal(x)
	case float64:
		return FloatVal(x)
	case Value:
		return x
	default:
		return ObjVal(&Opaque{Val: v})
	}
}

func (p *PropertyAccessor) report(caller *Template, ip int, details string) {
	if p.sink != nil {
		p.sink.RuntimeError(caller, ip, ErrNoSuchProperty, details)
	}
}
