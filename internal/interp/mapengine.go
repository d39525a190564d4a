package interp

// MapEngine implements single-template map, rotating multi-template map,
// and parallel zip-map, with attribute binding and iteration indices.
type MapEngine struct {
	sink  ErrorSink
	group GroupService
	dsp   *Dispatcher
}

func NewMapEngine(sink ErrorSink, group GroupService, dsp *Dispatcher) *MapEngine {
	return &MapEngine{sink: sink, group: group, dsp: dsp}
}

// Map is rot_map(attr, []string{name}).
func (e *MapEngine) Map(caller *Template, ip int, attr Value, name string) Value {
	return e.RotMap(caller, ip, attr, []string{name})
}

// RotMap implements rotating multi-template map.
func (e *MapEngine) RotMap(caller *Template, ip int, attr Value, names []string) Value {
	if attr.IsNull() {
		return NullVal()
	}

	if !isIterable(attr) {
		// Single scalar: instantiate names[0] directly and yield a single
		// template rather than a one-element sequence.
		tmpl, ok := e.instantiate(caller, ip, names[0])
		if !ok {
			return ObjVal(e.group.Blank())
		}
		e.bindSoleArg(tmpl, attr)
		tmpl.RawSetAttribute("i0", IntVal(0))
		tmpl.RawSetAttribute("i", IntVal(1))
		return ObjVal(tmpl)
	}

	it := ForceIterator(attr)
	result := NewSequence()
	i0 := 0
	for {
		val, ok := it.Next()
		if !ok {
			break
		}
		if val.IsNull() {
			continue
		}
		name := names[i0%len(names)]
		tmpl, ok := e.instantiate(caller, ip, name)
		if ok {
			e.bindSoleArg(tmpl, val)
			tmpl.RawSetAttribute("i0", IntVal(int64(i0)))
			tmpl.RawSetAttribute("i", IntVal(int64(i0+1)))
			result.Append(ObjVal(tmpl))
		} else {
			result.Append(ObjVal(e.group.Blank()))
		}
		i0++
	}
	return ObjVal(result)
}

// ParMap implements the positional zip-map.
func (e *MapEngine) ParMap(caller *Template, ip int, exprs []Value, name string) Value {
	if len(exprs) == 0 || name == "" {
		return NullVal()
	}
	impl := e.group.LookupTemplate(name)
	if impl == nil || impl.NumFormalArgs() == 0 {
		e.report(caller, ip, ErrMissingFormalArguments, "template "+name+" has no formal arguments")
		return NullVal()
	}

	iters := make([]*Iterator, len(exprs))
	for i, ex := range exprs {
		iters[i] = ForceIterator(ex)
	}

	formals := impl.FormalArgNames
	n := len(formals)
	if n != len(iters) {
		e.report(caller, ip, ErrMapArgumentCountMismatch, "expected arguments for template "+name)
		if len(iters) < n {
			n = len(iters)
		}
	}

	result := NewSequence()
	round := 0
	for {
		vals := make([]Value, n)
		present := make([]bool, n)
		anyLeft := false
		for i := 0; i < n; i++ {
			v, ok := iters[i].Next()
			if ok {
				vals[i] = v
				present[i] = true
				anyLeft = true
			}
		}
		if !anyLeft {
			break
		}
		tmpl := e.group.CreateStringTemplate(impl)
		tmpl.RawSetAttribute("i0", IntVal(int64(round)))
		tmpl.RawSetAttribute("i", IntVal(int64(round+1)))
		for i := 0; i < n; i++ {
			if present[i] {
				tmpl.RawSetAttribute(formals[i], vals[i])
			}
			// else: leave unset — downstream access resolves via
			// enclosing-scope lookup, not a bound null.
		}
		result.Append(ObjVal(tmpl))
		round++
	}
	return ObjVal(result)
}

func (e *MapEngine) instantiate(caller *Template, ip int, name string) (*Template, bool) {
	tmpl, ok := e.group.GetEmbeddedInstanceOf(caller, ip, name)
	if !ok {
		e.report(caller, ip, ErrNoSuchTemplate, name)
	}
	return tmpl, ok
}

func (e *MapEngine) bindSoleArg(tmpl *Template, v Value) {
	NewArgumentBinder(e.dsp).BindSoleArgument(nil, 0, tmpl, v)
}

func (e *MapEngine) report(caller *Template, ip int, kind ErrorKind, details string) {
	if e.sink != nil {
		e.sink.RuntimeError(caller, ip, kind, details)
	}
}
