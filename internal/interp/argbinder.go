package interp

// ArgumentBinder handles sole-argument binding, formal-argument
// existence checks, and default-argument injection.
type ArgumentBinder struct {
	dsp *Dispatcher
}

func NewArgumentBinder(dsp *Dispatcher) *ArgumentBinder {
	return &ArgumentBinder{dsp: dsp}
}

// CheckAttributeExists verifies name is declared as a formal on tmpl's
// CompiledTemplate, reporting NO_ATTRIBUTE_DEFINITION and returning
// false otherwise. An unknown formal set bypasses the check.
func (b *ArgumentBinder) CheckAttributeExists(caller *Template, ip int, tmpl *Template, name string) bool {
	if tmpl.Impl == nil || tmpl.Impl.UnknownFormals {
		return true
	}
	if tmpl.Impl.HasFormalArg(name) {
		return true
	}
	if b.dsp != nil && b.dsp.sink != nil {
		b.dsp.sink.RuntimeError(caller, ip, ErrNoAttributeDefinition, name)
	}
	return false
}

// BindSoleArgument implements the sole-argument rule: a target with no
// declared formals binds under "it"; with >=1 formals it binds under the
// first formal's name, reporting EXPECTING_SINGLE_ARGUMENT (but still
// binding) if more than one formal is declared.
func (b *ArgumentBinder) BindSoleArgument(caller *Template, ip int, tmpl *Template, v Value) {
	name := "it"
	if tmpl.Impl != nil && tmpl.Impl.NumFormalArgs() > 0 {
		name = tmpl.Impl.FirstFormalArgName()
		if tmpl.Impl.NumFormalArgs() > 1 && b.dsp != nil && b.dsp.sink != nil {
			b.dsp.sink.RuntimeError(caller, ip, ErrExpectingSingleArgument, name)
		}
	}
	tmpl.RawSetAttribute(name, v)
}

// InjectDefaultArguments handles default-argument injection: for each
// formal with a compiled default that tmpl hasn't been given an
// explicit value for, construct (and, for the `{<(...)>}` shape, eagerly
// render) the default.
func (b *ArgumentBinder) InjectDefaultArguments(tmpl *Template) {
	if tmpl.Impl == nil {
		return
	}
	for _, name := range tmpl.Impl.FormalArgNames {
		fa := tmpl.Impl.FormalArgs[name]
		if fa == nil || fa.CompiledDefaultValue == nil {
			continue
		}
		if _, explicit := tmpl.LocalAttribute(name); explicit {
			continue
		}
		sub := NewTemplate(fa.CompiledDefaultValue, tmpl.GroupThatCreatedThisInstance)
		sub.EnclosingInstance = tmpl
		if fa.HasEagerDefault() {
			if b.dsp != nil {
				s, err := ToString(b.dsp, tmpl, ObjVal(sub))
				if err == nil {
					tmpl.RawSetAttribute(name, StrVal(s))
					continue
				}
			}
			tmpl.RawSetAttribute(name, StrVal(""))
			continue
		}
		tmpl.RawSetAttribute(name, ObjVal(sub))
	}
}
