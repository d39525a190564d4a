// Package group provides a reference, in-memory GroupService: a host
// needs some concrete implementation to render anything, so this one
// holds compiled templates and imports in plain maps, with lookups
// resolved first locally and then through the import chain.
package group

import "github.com/funvibe/strtmpl/internal/interp"

// Group is an in-memory namespace of CompiledTemplates, AttributeRenderers
// and imports — the reference implementation of interp.GroupService.
type Group struct {
	Name string

	templates map[string]*interp.CompiledTemplate
	imports   []*Group
	renderers map[string]interp.AttributeRenderer

	debugEnabled bool
	blank        *interp.Template
	locale       string
}

// New creates an empty group named name.
func New(name string) *Group {
	return &Group{
		Name:      name,
		templates: map[string]*interp.CompiledTemplate{},
		renderers: map[string]interp.AttributeRenderer{},
	}
}

// Define registers ct under its own name, setting ct's NativeGroup to g,
// the group where the template was defined.
func (g *Group) Define(ct *interp.CompiledTemplate) {
	ct.NativeGroup = g
	g.templates[ct.Name] = ct
}

// Import adds other to g's import chain, searched after g's own
// templates (LookupTemplate) and exclusively by LookupImportedTemplate
// (used by SUPER_NEW/`super` resolution).
func (g *Group) Import(other *Group) {
	g.imports = append(g.imports, other)
}

// RegisterRenderer associates an AttributeRenderer with a runtime type tag.
func (g *Group) RegisterRenderer(typeTag string, r interp.AttributeRenderer) {
	g.renderers[typeTag] = r
}

// SetDebug toggles whether rendering through this group requests an
// enabled DebugTap.
func (g *Group) SetDebug(enabled bool) { g.debugEnabled = enabled }

// SetLocale sets the locale forwarded to AttributeRenderer.Render for
// values rendered through this group.
func (g *Group) SetLocale(locale string) { g.locale = locale }

// Locale returns the group's configured locale, "" if none was set.
func (g *Group) Locale() string { return g.locale }

func (g *Group) GetInstanceOf(name string) *interp.Template {
	ct := g.LookupTemplate(name)
	if ct == nil {
		return nil
	}
	return interp.NewTemplate(ct, g)
}

func (g *Group) GetEmbeddedInstanceOf(caller *interp.Template, ip int, name string) (*interp.Template, bool) {
	ct := g.LookupTemplate(name)
	if ct == nil {
		return g.Blank(), false
	}
	t := interp.NewTemplate(ct, g)
	t.EnclosingInstance = caller
	return t, true
}

func (g *Group) LookupTemplate(name string) *interp.CompiledTemplate {
	if ct, ok := g.templates[name]; ok {
		return ct
	}
	for _, imp := range g.imports {
		if ct := imp.LookupTemplate(name); ct != nil {
			return ct
		}
	}
	return nil
}

func (g *Group) LookupImportedTemplate(name string) *interp.CompiledTemplate {
	for _, imp := range g.imports {
		if ct := imp.LookupTemplate(name); ct != nil {
			return ct
		}
	}
	return nil
}

func (g *Group) CreateStringTemplate(impl *interp.CompiledTemplate) *interp.Template {
	return interp.NewTemplate(impl, g)
}

func (g *Group) GetAttributeRenderer(typeTag string) interp.AttributeRenderer {
	return g.renderers[typeTag]
}

func (g *Group) Debug() bool { return g.debugEnabled }

// Blank is the shared sentinel instance substituted on lookup failures.
// It renders as empty output: its compiled template has a zero-length
// instruction stream.
func (g *Group) Blank() *interp.Template {
	if g.blank == nil {
		empty := interp.NewCompiledTemplate("<blank>", nil, nil)
		empty.UnknownFormals = true
		g.blank = interp.NewTemplate(empty, g)
	}
	return g.blank
}
