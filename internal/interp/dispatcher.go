package interp

import (
	"fmt"
	"strings"
)

// Dispatcher is the instruction dispatch loop over a template instance's
// instruction buffer. One Dispatcher services exactly one render request;
// it is not safe to share across
// concurrent renders, and its operand stack is shared across every
// recursive Exec call so nested embedded-template renders compose onto
// the same physical stack rather than each allocating their own.
type Dispatcher struct {
	group GroupService
	sink  ErrorSink
	debug *DebugTap

	stack *OperandStack

	frameDepth int
	lineChars  int
	prevOp     Opcode
	hasPrevOp  bool

	prop    *PropertyAccessor
	mapEng  *MapEngine
	render  *RenderEngine
	argBind *ArgumentBinder
}

// NewDispatcher builds a fresh Interpreter bound to group and sink, with
// debugTap (possibly disabled) and a stack of the given capacity (0 =>
// the package default).
func NewDispatcher(group GroupService, sink ErrorSink, debug *DebugTap, stackCapacity int) *Dispatcher {
	if debug == nil {
		debug = NewDebugTap(false, "")
	}
	d := &Dispatcher{
		group: group,
		sink:  sink,
		debug: debug,
		stack: NewOperandStack(stackCapacity),
	}
	d.prop = NewPropertyAccessor(sink)
	d.mapEng = NewMapEngine(sink, group, d)
	d.render = &RenderEngine{Dispatcher: d}
	d.argBind = NewArgumentBinder(d)
	return d
}

// Exec executes template.impl.instrs[0..codeSize], writing to w, and
// returns the number of characters written while this frame (and every
// frame it recursed into) was active.
func (d *Dispatcher) Exec(w WriterService, tmpl *Template) (int, error) {
	if tmpl == nil || tmpl.Impl == nil {
		return 0, nil
	}
	d.frameDepth++
	defer func() { d.frameDepth-- }()

	token := d.debug.BeginEval(tmpl.EnclosingInstance, tmpl, w.Index())

	impl := tmpl.Impl
	charCount := 0
	ip := 0
	for ip < impl.CodeSize {
		opIP := ip
		op := Opcode(impl.Instrs[opIP])
		width := operandWidth(op)
		nextIP := opIP + 1 + width
		if nextIP > impl.CodeSize {
			d.sink.RuntimeError(tmpl, opIP, ErrInternalError,
				fmt.Sprintf("%s: truncated bytecode, operand runs past code size %d", op, impl.CodeSize))
			break
		}

		n, branch, err := d.executeOneOp(w, tmpl, impl, op, opIP)
		if err != nil {
			d.sink.RuntimeError(tmpl, opIP, ErrInternalError,
				fmt.Sprintf("%s: %v\n%s", op, err, Disassemble(impl)))
			break
		}
		charCount += n
		if n > 0 && op != OP_NEWLINE {
			d.lineChars += n
		}

		d.debug.TraceInstruction(impl, opIP, d.stack, d.frameDepth, charCount)
		d.prevOp = op
		d.hasPrevOp = true

		if branch >= 0 {
			ip = branch
		} else {
			ip = nextIP
		}
	}

	d.debug.EndEval(tmpl.EnclosingInstance, token, w.Index())
	return charCount, nil
}

// executeOneOp decodes and runs a single instruction. It returns the
// number of characters written by this instruction (for WRITE/WRITE_OPT
// bookkeeping), a branch target (-1 meaning "fall through to the next
// instruction"), and an error only for internal/fatal conditions — all
// recoverable runtime problems are reported via the sink, not returned.
func (d *Dispatcher) executeOneOp(w WriterService, self *Template, impl *CompiledTemplate, op Opcode, ip int) (int, int, error) {
	switch op {
	case OP_LOAD_STR:
		idx := readShort(impl.Instrs, ip+1)
		return 0, -1, d.push(StrVal(impl.Strings[idx]))

	case OP_LOAD_ATTR:
		idx := readShort(impl.Instrs, ip+1)
		name := impl.Strings[idx]
		val, ok := self.ScopedAttribute(name)
		if !ok {
			val = NullVal()
		}
		if val.IsNull() {
			if !self.Impl.UnknownFormals && !self.declaresFormalInChain(name) && !self.passThroughInChain() {
				d.sink.RuntimeError(self, ip, ErrNoAttributeDefinition, name)
			}
		}
		return 0, -1, d.push(val)

	case OP_LOAD_LOCAL:
		idx := readShort(impl.Instrs, ip+1)
		name := impl.Strings[idx]
		val, ok := self.LocalAttribute(name)
		if !ok {
			val = NullVal()
		}
		return 0, -1, d.push(val)

	case OP_LOAD_PROP:
		idx := readShort(impl.Instrs, ip+1)
		recv, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		prop := StrVal(impl.Strings[idx])
		return 0, -1, d.push(d.prop.Access(self, ip, recv, prop))

	case OP_LOAD_PROP_IND:
		prop, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		recv, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		return 0, -1, d.push(d.prop.Access(self, ip, recv, prop))

	case OP_NEW:
		idx := readShort(impl.Instrs, ip+1)
		name := impl.Strings[idx]
		return 0, -1, d.newTemplate(self, ip, name)

	case OP_NEW_IND:
		nameVal, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		name, _ := nameVal.AsStr()
		return 0, -1, d.newTemplate(self, ip, name)

	case OP_SUPER_NEW:
		idx := readShort(impl.Instrs, ip+1)
		name := impl.Strings[idx]
		return 0, -1, d.superNew(self, ip, name)

	case OP_STORE_ATTR:
		idx := readShort(impl.Instrs, ip+1)
		name := impl.Strings[idx]
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		tv, err := d.stack.Peek(0)
		if err != nil {
			return 0, -1, err
		}
		tmpl := asTemplate(tv)
		if tmpl != nil && d.argBind.CheckAttributeExists(self, ip, tmpl, name) {
			tmpl.RawSetAttribute(name, val)
		}
		return 0, -1, nil

	case OP_STORE_SOLE_ARG:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		tv, err := d.stack.Peek(0)
		if err != nil {
			return 0, -1, err
		}
		if tmpl := asTemplate(tv); tmpl != nil {
			d.argBind.BindSoleArgument(self, ip, tmpl, val)
		}
		return 0, -1, nil

	case OP_SET_PASS_THRU:
		tv, err := d.stack.Peek(0)
		if err != nil {
			return 0, -1, err
		}
		if tmpl := asTemplate(tv); tmpl != nil {
			tmpl.PassThroughAttributes = true
		}
		return 0, -1, nil

	case OP_STORE_OPTION:
		slot := readShort(impl.Instrs, ip+1)
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		ov, err := d.stack.Peek(0)
		if err != nil {
			return 0, -1, err
		}
		if opts := asOptions(ov); opts != nil {
			opts.Set(slot, val)
		}
		return 0, -1, nil

	case OP_OPTIONS:
		return 0, -1, d.push(ObjVal(NewOptionsArray()))

	case OP_LIST:
		return 0, -1, d.push(ObjVal(NewSequence()))

	case OP_ADD:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		sv, err := d.stack.Peek(0)
		if err != nil {
			return 0, -1, err
		}
		seq := asSequence(sv)
		if seq != nil {
			addToList(seq, val)
		}
		return 0, -1, nil

	case OP_WRITE:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		n, werr := d.render.WriteNoOptions(w, self, val)
		if werr != nil {
			d.sink.RuntimeError(self, ip, ErrWriteIOError, werr.Error())
			return 0, -1, nil
		}
		return n, -1, nil

	case OP_WRITE_OPT:
		ov, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		n, werr := d.render.WriteWithOptions(w, self, val, asOptions(ov))
		if werr != nil {
			d.sink.RuntimeError(self, ip, ErrWriteIOError, werr.Error())
			return 0, -1, nil
		}
		return n, -1, nil

	case OP_MAP:
		nameVal, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		attr, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		name, _ := nameVal.AsStr()
		return 0, -1, d.push(d.mapEng.Map(self, ip, attr, name))

	case OP_ROT_MAP:
		n := readShort(impl.Instrs, ip+1)
		names := make([]string, n)
		for i := n - 1; i >= 0; i-- {
			v, err := d.stack.Pop()
			if err != nil {
				return 0, -1, err
			}
			names[i], _ = v.AsStr()
		}
		attr, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		return 0, -1, d.push(d.mapEng.RotMap(self, ip, attr, names))

	case OP_PAR_MAP:
		n := readShort(impl.Instrs, ip+1)
		nameVal, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		name, _ := nameVal.AsStr()
		exprs := make([]Value, n)
		for i := n - 1; i >= 0; i-- {
			v, err := d.stack.Pop()
			if err != nil {
				return 0, -1, err
			}
			exprs[i] = v
		}
		return 0, -1, d.push(d.mapEng.ParMap(self, ip, exprs, name))

	case OP_BR:
		a := readShort(impl.Instrs, ip+1)
		return 0, a, nil

	case OP_BRF:
		a := readShort(impl.Instrs, ip+1)
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		if !Truthiness(val) {
			return 0, a, nil
		}
		return 0, -1, nil

	case OP_TOSTR:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		s, serr := ToString(d, self, val)
		if serr != nil {
			return 0, -1, serr
		}
		return 0, -1, d.push(StrVal(s))

	case OP_FIRST, OP_LAST, OP_REST, OP_TRUNC, OP_STRIP, OP_REVERSE, OP_LENGTH:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		return 0, -1, d.push(applyValueOp(op, val))

	case OP_TRIM:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		s, ok := val.AsStr()
		if !ok {
			d.sink.RuntimeError(self, ip, ErrExpectingString, val.Inspect())
			return 0, -1, d.push(val)
		}
		return 0, -1, d.push(StrVal(strings.TrimSpace(s)))

	case OP_STRLEN:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		s, ok := val.AsStr()
		if !ok {
			d.sink.RuntimeError(self, ip, ErrExpectingString, val.Inspect())
			return 0, -1, d.push(IntVal(0))
		}
		return 0, -1, d.push(IntVal(int64(len(s))))

	case OP_NOT:
		val, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		return 0, -1, d.push(BoolVal(!Truthiness(val)))

	case OP_OR, OP_AND:
		right, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		left, err := d.stack.Pop()
		if err != nil {
			return 0, -1, err
		}
		var result bool
		if op == OP_OR {
			result = Truthiness(left) || Truthiness(right)
		} else {
			result = Truthiness(left) && Truthiness(right)
		}
		return 0, -1, d.push(BoolVal(result))

	case OP_INDENT:
		idx := readShort(impl.Instrs, ip+1)
		w.PushIndentation(impl.Strings[idx])
		return 0, -1, nil

	case OP_DEDENT:
		w.PopIndentation()
		return 0, -1, nil

	case OP_NEWLINE:
		shouldEmit := d.lineChars > 0 || (d.hasPrevOp && (d.prevOp == OP_NEWLINE || d.prevOp == OP_INDENT))
		d.lineChars = 0
		if shouldEmit {
			n, err := w.Write("\n")
			if err != nil {
				d.sink.RuntimeError(self, ip, ErrWriteIOError, err.Error())
				return 0, -1, nil
			}
			return n, -1, nil
		}
		return 0, -1, nil

	case OP_NOOP:
		return 0, -1, nil

	case OP_POP:
		_, err := d.stack.Pop()
		return 0, -1, err

	default:
		return 0, -1, fmt.Errorf("unknown opcode %d", op)
	}
}

func (d *Dispatcher) push(v Value) error { return d.stack.Push(v) }

func (d *Dispatcher) newTemplate(self *Template, ip int, name string) error {
	tmpl, ok := d.group.GetEmbeddedInstanceOf(self, ip, name)
	if !ok {
		d.sink.RuntimeError(self, ip, ErrNoSuchTemplate, name)
		return d.push(ObjVal(d.group.Blank()))
	}
	return d.push(ObjVal(tmpl))
}

func (d *Dispatcher) superNew(self *Template, ip int, name string) error {
	if self.Impl == nil || self.Impl.NativeGroup == nil {
		d.sink.RuntimeError(self, ip, ErrNoImportedTemplate, name)
		return d.push(ObjVal(d.group.Blank()))
	}
	compiled := self.Impl.NativeGroup.LookupImportedTemplate(name)
	if compiled == nil {
		d.sink.RuntimeError(self, ip, ErrNoImportedTemplate, name)
		return d.push(ObjVal(d.group.Blank()))
	}
	active := self.GroupThatCreatedThisInstance
	if active == nil {
		active = d.group
	}
	tmpl := NewTemplate(compiled, active)
	return d.push(ObjVal(tmpl))
}

func asTemplate(v Value) *Template {
	if v.Type != ValObj || v.Obj == nil {
		return nil
	}
	t, _ := v.Obj.(*Template)
	return t
}

func asOptions(v Value) *OptionsArray {
	if v.Type != ValObj || v.Obj == nil {
		return nil
	}
	o, _ := v.Obj.(*OptionsArray)
	return o
}

func asSequence(v Value) *Sequence {
	if v.Type != ValObj || v.Obj == nil {
		return nil
	}
	s, _ := v.Obj.(*Sequence)
	return s
}

// addToList implements the ADD opcode's list-add rule: null is dropped,
// iterables are spread element-by-element, scalars are appended.
func addToList(seq *Sequence, val Value) {
	if val.IsNull() {
		return
	}
	if isIterable(val) {
		for _, e := range drain(val) {
			seq.Append(e)
		}
		return
	}
	seq.Append(val)
}

func applyValueOp(op Opcode, val Value) Value {
	switch op {
	case OP_FIRST:
		return FirstIterator(val)
	case OP_LAST:
		return Last(val)
	case OP_REST:
		return Rest(val)
	case OP_TRUNC:
		return Trunc(val)
	case OP_STRIP:
		return Strip(val)
	case OP_REVERSE:
		return Reverse(val)
	case OP_LENGTH:
		return IntVal(Length(val))
	default:
		return val
	}
}
