package interp

import "fmt"

// RenderEngine writes values with or without options, dispatching
// templates vs iterators vs plain objects, and driving
// separator/null/format/anchor/wrap options.
type RenderEngine struct {
	Dispatcher *Dispatcher
}

// WriteNoOptions is writeObject(value, nil).
func (r *RenderEngine) WriteNoOptions(w WriterService, self *Template, value Value) (int, error) {
	return r.writeObject(w, self, value, nil)
}

// WriteWithOptions pre-renders each option slot to a string, pushes an
// anchor point if ANCHOR is set, writes, then pops the anchor.
func (r *RenderEngine) WriteWithOptions(w WriterService, self *Template, value Value, opts *OptionsArray) (int, error) {
	rendered := &RenderedOptions{}
	if opts != nil {
		for slot := 0; slot < len(opts.Vals); slot++ {
			if !opts.Vals[slot].IsNull() {
				s, err := ToString(r.Dispatcher, self, opts.Vals[slot])
				if err != nil {
					return 0, err
				}
				rendered.Strs[slot] = s
				rendered.set[slot] = true
			}
		}
	}

	if rendered.IsSet(OptAnchor) {
		w.PushAnchorPoint()
	}
	n, err := r.writeObject(w, self, value, rendered)
	if rendered.IsSet(OptAnchor) {
		w.PopAnchorPoint()
	}
	return n, err
}

func (r *RenderEngine) writeObject(w WriterService, self *Template, value Value, opts *RenderedOptions) (int, error) {
	if value.IsNull() {
		if opts != nil && opts.IsSet(OptNull) {
			return w.Write(opts.Get(OptNull))
		}
		return 0, nil
	}

	if value.Type == ValObj {
		if tmpl, ok := value.Obj.(*Template); ok {
			return r.writeTemplate(w, self, tmpl, opts)
		}
	}

	if isIterable(value) {
		return r.writeIterator(w, self, ForceIterator(value), opts)
	}

	return r.writePOJO(w, self, value, opts)
}

func (r *RenderEngine) writeTemplate(w WriterService, self *Template, tmpl *Template, opts *RenderedOptions) (int, error) {
	tmpl.EnclosingInstance = self
	if r.Dispatcher != nil {
		NewArgumentBinder(r.Dispatcher).InjectDefaultArguments(tmpl)
	}
	if opts != nil && opts.IsSet(OptWrap) {
		if _, err := w.WriteWrap(opts.Get(OptWrap)); err != nil {
			return 0, err
		}
	}
	return r.Dispatcher.Exec(w, tmpl)
}

// writeIterator emits SEPARATOR between elements, only when an earlier
// element produced output (or a null substitution) and the next element
// will too.
func (r *RenderEngine) writeIterator(w WriterService, self *Template, it *Iterator, opts *RenderedOptions) (int, error) {
	total := 0
	prevProduced := false
	first := true
	for {
		val, ok := it.Next()
		if !ok {
			break
		}
		willProduce := !val.IsNull() || (opts != nil && opts.IsSet(OptNull))
		if !first && prevProduced && willProduce {
			sep := ""
			if opts != nil && opts.IsSet(OptSeparator) {
				sep = opts.Get(OptSeparator)
			}
			n, err := w.WriteSeparator(sep)
			if err != nil {
				return total, err
			}
			total += n
		}
		n, err := r.writeObject(w, self, val, opts)
		if err != nil {
			return total, err
		}
		total += n
		if n > 0 {
			prevProduced = true
		}
		first = false
	}
	return total, nil
}

// writePOJO looks up a renderer via GroupService, falling back to the
// value's natural string form.
func (r *RenderEngine) writePOJO(w WriterService, self *Template, value Value, opts *RenderedOptions) (int, error) {
	text, ok := r.renderedText(self, value, opts)
	if !ok {
		text = value.Inspect()
		if o, isOpaque := value.Obj.(*Opaque); isOpaque {
			text = fmt.Sprint(o.Val)
		}
	}
	if opts != nil && opts.IsSet(OptWrap) {
		return w.WriteWrapped(text, opts.Get(OptWrap))
	}
	return w.Write(text)
}

func (r *RenderEngine) renderedText(self *Template, value Value, opts *RenderedOptions) (string, bool) {
	if self == nil || self.GroupThatCreatedThisInstance == nil {
		return "", false
	}
	tag := runtimeTypeTag(value)
	renderer := self.GroupThatCreatedThisInstance.GetAttributeRenderer(tag)
	if renderer == nil {
		return "", false
	}
	format := ""
	if opts != nil && opts.IsSet(OptFormat) {
		format = opts.Get(OptFormat)
	}
	return renderer.Render(value, format, self.GroupThatCreatedThisInstance.Locale()), true
}

// runtimeTypeTag names the runtime type for AttributeRenderer lookup.
func runtimeTypeTag(v Value) string {
	switch v.Type {
	case ValBool:
		return "bool"
	case ValInt:
		return "int"
	case ValFloat:
		return "float"
	case ValObj:
		if v.Obj != nil {
			switch v.Obj.(type) {
			case StrObject:
				return "string"
			case *Opaque:
				return "object"
			}
		}
	}
	return "object"
}
