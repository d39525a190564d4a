package interp

// Template ("ST") is a template instance bound to a CompiledTemplate and
// a group context. It is created by GroupService on embedding,
// populated by STORE_ATTR/STORE_SOLE_ARG, read during render, and
// discarded when its render returns — except when a DebugTap retains it
// via an InterpEvent.
type Template struct {
	Impl *CompiledTemplate

	Attributes map[string]Value

	// EnclosingInstance is a non-owning back reference to the template
	// that embedded this one; used for scope walking, never for
	// ownership or lifetime.
	EnclosingInstance *Template

	// GroupThatCreatedThisInstance is the effective group for lookups
	// performed while rendering this instance.
	GroupThatCreatedThisInstance GroupService

	// PassThroughAttributes: when set, an unresolved reference in this
	// instance's own body is not reported as a missing attribute
	// definition — it is assumed to resolve via the enclosing-instance
	// scope walk instead of requiring a formal declaration here.
	PassThroughAttributes bool
}

// NewTemplate creates a bare instance over impl in the given group.
func NewTemplate(impl *CompiledTemplate, group GroupService) *Template {
	return &Template{
		Impl:                         impl,
		Attributes:                   map[string]Value{},
		GroupThatCreatedThisInstance: group,
	}
}

// Kind, Inspect and Hash let a *Template be boxed directly as a Value.Obj:
// templates are first-class values, pushed by NEW/SUPER_NEW and consumed
// by WRITE/MAP like any other Object.
func (t *Template) Kind() ObjectKind { return KindTemplate }

func (t *Template) Inspect() string {
	if t.Impl == nil {
		return "<template>"
	}
	return "<template " + t.Impl.Name + ">"
}

func (t *Template) Hash() uint32 {
	h := uint32(0)
	for i := 0; i < len(t.Impl.Name); i++ {
		h = h*31 + uint32(t.Impl.Name[i])
	}
	return h
}

// RawSetAttribute sets name unconditionally (STORE_ATTR/STORE_SOLE_ARG
// have already checked that the formal exists where required).
func (t *Template) RawSetAttribute(name string, v Value) {
	if t.Attributes == nil {
		t.Attributes = map[string]Value{}
	}
	t.Attributes[name] = v
}

// LocalAttribute looks up name in this template's own attribute table
// only — no scope walk. Used by LOAD_LOCAL and by PropertyAccessor on a
// template receiver, which never scope-walks.
func (t *Template) LocalAttribute(name string) (Value, bool) {
	v, ok := t.Attributes[name]
	return v, ok
}

// ScopedAttribute implements the LOAD_ATTR lookup algorithm: self first,
// then each enclosingInstance in turn.
func (t *Template) ScopedAttribute(name string) (Value, bool) {
	for cur := t; cur != nil; cur = cur.EnclosingInstance {
		if v, ok := cur.Attributes[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// declaresFormalInChain walks the enclosing-instance chain looking for an
// ancestor whose CompiledTemplate declares name as a formal argument —
// the null-against-formals check.
func (t *Template) declaresFormalInChain(name string) bool {
	for cur := t; cur != nil; cur = cur.EnclosingInstance {
		if cur.Impl != nil && cur.Impl.HasFormalArg(name) {
			return true
		}
	}
	return false
}

// passThroughInChain reports whether this instance or any instance it is
// embedded in has been marked pass-through. A pass-through instance lets
// an unresolved reference in its own body propagate outward through the
// enclosing-instance scope walk instead of being reported as missing.
func (t *Template) passThroughInChain() bool {
	for cur := t; cur != nil; cur = cur.EnclosingInstance {
		if cur.PassThroughAttributes {
			return true
		}
	}
	return false
}
