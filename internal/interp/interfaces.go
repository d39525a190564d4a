package interp

// GroupService is the external collaborator that owns template lookup,
// instantiation, imports and attribute renderers. The core never
// holds a concrete group implementation — only this interface — so a
// host can swap in any group loader (file-backed, embedded, generated)
// without touching the dispatcher.
type GroupService interface {
	// GetInstanceOf returns a fresh Template for name, or nil on a miss.
	GetInstanceOf(name string) *Template
	// GetEmbeddedInstanceOf is like GetInstanceOf but records the caller
	// linkage used for scope walking; on a miss it returns a Blank
	// instance (never nil) and the caller is responsible for reporting.
	GetEmbeddedInstanceOf(caller *Template, ip int, name string) (*Template, bool)
	// LookupTemplate returns the compiled form without instantiating it.
	LookupTemplate(name string) *CompiledTemplate
	// LookupImportedTemplate resolves name via this group's import chain,
	// used by SUPER_NEW to find a template defined in a "native" group.
	LookupImportedTemplate(name string) *CompiledTemplate
	// CreateStringTemplate returns a bare Template bound to this group,
	// used for par map instantiation.
	CreateStringTemplate(impl *CompiledTemplate) *Template
	// GetAttributeRenderer returns the renderer registered for a runtime
	// type tag, or nil if none is registered.
	GetAttributeRenderer(typeTag string) AttributeRenderer
	// Debug reports whether DebugTap collection should be active.
	Debug() bool
	// Locale returns the group's configured locale, forwarded to
	// AttributeRenderer.Render; "" if none is configured.
	Locale() string
	// Blank returns the shared sentinel instance substituted on lookup
	// failures so downstream writes still produce (empty) output.
	Blank() *Template
}

// AttributeRenderer formats a value of some runtime type using an
// optional format string and locale.
type AttributeRenderer interface {
	Render(value Value, format string, locale string) string
}

// AttributeRendererFunc adapts a function to AttributeRenderer.
type AttributeRendererFunc func(value Value, format, locale string) string

func (f AttributeRendererFunc) Render(value Value, format, locale string) string {
	return f(value, format, locale)
}

// WriterService is the external collaborator owning indentation,
// anchoring, wrap policy and line breaking. All write-returning methods
// report the number of characters actually emitted.
type WriterService interface {
	Index() int
	Write(text string) (int, error)
	WriteWrapped(text string, wrap string) (int, error)
	WriteSeparator(text string) (int, error)
	WriteWrap(wrap string) (int, error)
	PushIndentation(text string)
	PopIndentation()
	PushAnchorPoint()
	PopAnchorPoint()
}
