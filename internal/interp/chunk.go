package interp

// FormalArgument describes one formal parameter of a CompiledTemplate:
// its name, an optional compiled default-value sub-template, and the raw
// default-value source text used to detect the `{<(...)>}` early-eval
// shape.
type FormalArgument struct {
	Name                 string
	CompiledDefaultValue *CompiledTemplate
	DefaultText          string
}

// HasEagerDefault reports whether the raw default text is the `{<(...)>}`
// shape that must be rendered to a string immediately rather than bound
// as a lazy sub-template.
func (f *FormalArgument) HasEagerDefault() bool {
	t := f.DefaultText
	return len(t) >= 6 && t[:3] == "{<(" && t[len(t)-3:] == ")>}"
}

// CompiledTemplate is the immutable artifact a template compiles to: its
// instruction stream, constant pool, formal-argument table (insertion
// order is positional-argument order) and the group it was originally
// defined in (used for SUPER_NEW / `super` resolution).
type CompiledTemplate struct {
	Name     string
	Instrs   []byte
	CodeSize int
	Strings  []string

	// FormalArgNames preserves declaration order; FormalArgs indexes by name.
	FormalArgNames []string
	FormalArgs     map[string]*FormalArgument

	// NativeGroup is the group this template was defined in, distinct
	// from the render-time group used for ordinary lookups.
	NativeGroup GroupService

	// UnknownFormals marks an unknown formal set: when true, the
	// null-against-formals check is skipped entirely for this template.
	UnknownFormals bool
}

// NewCompiledTemplate builds a CompiledTemplate with an empty formal list.
func NewCompiledTemplate(name string, instrs []byte, strings []string) *CompiledTemplate {
	return &CompiledTemplate{
		Name:       name,
		Instrs:     instrs,
		CodeSize:   len(instrs),
		Strings:    strings,
		FormalArgs: map[string]*FormalArgument{},
	}
}

// AddFormalArg declares a formal argument in positional order.
func (c *CompiledTemplate) AddFormalArg(fa *FormalArgument) {
	if c.FormalArgs == nil {
		c.FormalArgs = map[string]*FormalArgument{}
	}
	c.FormalArgNames = append(c.FormalArgNames, fa.Name)
	c.FormalArgs[fa.Name] = fa
}

// NumFormalArgs returns the declared formal-argument count.
func (c *CompiledTemplate) NumFormalArgs() int { return len(c.FormalArgNames) }

// FirstFormalArgName returns the first declared formal's name, or "" if none.
func (c *CompiledTemplate) FirstFormalArgName() string {
	if len(c.FormalArgNames) == 0 {
		return ""
	}
	return c.FormalArgNames[0]
}

// HasFormalArg reports whether name is declared as a formal on this template.
func (c *CompiledTemplate) HasFormalArg(name string) bool {
	if c.FormalArgs == nil {
		return false
	}
	_, ok := c.FormalArgs[name]
	return ok
}
