package interp

import "testing"

func TestBindSoleArgumentNoFormalsBindsIt(t *testing.T) {
	sink := &CollectingErrorSink{}
	dsp := &Dispatcher{sink: sink}
	b := NewArgumentBinder(dsp)

	ct := NewCompiledTemplate("t", nil, nil)
	tmpl := NewTemplate(ct, nil)
	b.BindSoleArgument(nil, 0, tmpl, StrVal("hi"))

	v, ok := tmpl.LocalAttribute("it")
	if !ok {
		t.Fatal("expected \"it\" to be bound")
	}
	s, _ := v.AsStr()
	if s != "hi" {
		t.Fatalf("got %q", s)
	}
	if len(sink.Reports) != 0 {
		t.Fatalf("unexpected reports: %+v", sink.Reports)
	}
}

func TestBindSoleArgumentOneFormalBindsByName(t *testing.T) {
	b := NewArgumentBinder(&Dispatcher{sink: &CollectingErrorSink{}})
	ct := NewCompiledTemplate("t", nil, nil)
	ct.AddFormalArg(&FormalArgument{Name: "name"})
	tmpl := NewTemplate(ct, nil)

	b.BindSoleArgument(nil, 0, tmpl, IntVal(5))
	v, ok := tmpl.LocalAttribute("name")
	if !ok || v.AsInt() != 5 {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestBindSoleArgumentMultipleFormalsReportsButStillBinds(t *testing.T) {
	sink := &CollectingErrorSink{}
	b := NewArgumentBinder(&Dispatcher{sink: sink})
	ct := NewCompiledTemplate("t", nil, nil)
	ct.AddFormalArg(&FormalArgument{Name: "a"})
	ct.AddFormalArg(&FormalArgument{Name: "b"})
	tmpl := NewTemplate(ct, nil)

	b.BindSoleArgument(nil, 0, tmpl, IntVal(1))
	if _, ok := tmpl.LocalAttribute("a"); !ok {
		t.Fatal("expected the first formal to still be bound")
	}
	if len(sink.Reports) != 1 || sink.Reports[0].Kind != ErrExpectingSingleArgument {
		t.Fatalf("expected an EXPECTING_SINGLE_ARGUMENT report, got %+v", sink.Reports)
	}
}

func TestCheckAttributeExistsUnknownFormalsBypasses(t *testing.T) {
	b := NewArgumentBinder(&Dispatcher{sink: &CollectingErrorSink{}})
	ct := NewCompiledTemplate("t", nil, nil)
	ct.UnknownFormals = true
	tmpl := NewTemplate(ct, nil)

	if !b.CheckAttributeExists(nil, 0, tmpl, "anything") {
		t.Fatal("UnknownFormals should bypass the check entirely")
	}
}

func TestCheckAttributeExistsReportsOnUndeclaredName(t *testing.T) {
	sink := &CollectingErrorSink{}
	b := NewArgumentBinder(&Dispatcher{sink: sink})
	ct := NewCompiledTemplate("t", nil, nil)
	tmpl := NewTemplate(ct, nil)

	if b.CheckAttributeExists(nil, 0, tmpl, "x") {
		t.Fatal("expected false for an undeclared formal")
	}
	if len(sink.Reports) != 1 || sink.Reports[0].Kind != ErrNoAttributeDefinition {
		t.Fatalf("expected a NO_ATTRIBUTE_DEFINITION report, got %+v", sink.Reports)
	}
}

func TestInjectDefaultArgumentsLazyBindsSubTemplate(t *testing.T) {
	ct := NewCompiledTemplate("t", nil, nil)
	def := NewCompiledTemplate("t.default.greeting", nil, nil)
	ct.AddFormalArg(&FormalArgument{Name: "greeting", CompiledDefaultValue: def, DefaultText: "<name>"})
	tmpl := NewTemplate(ct, nil)

	NewArgumentBinder(nil).InjectDefaultArguments(tmpl)

	v, ok := tmpl.LocalAttribute("greeting")
	if !ok {
		t.Fatal("expected a default to be injected")
	}
	if _, isTmpl := v.Obj.(*Template); !isTmpl {
		t.Fatalf("lazy default should bind a sub-Template, got %v", v.Inspect())
	}
}

func TestInjectDefaultArgumentsSkipsExplicitValue(t *testing.T) {
	ct := NewCompiledTemplate("t", nil, nil)
	def := NewCompiledTemplate("t.default.greeting", nil, nil)
	ct.AddFormalArg(&FormalArgument{Name: "greeting", CompiledDefaultValue: def, DefaultText: "<name>"})
	tmpl := NewTemplate(ct, nil)
	tmpl.RawSetAttribute("greeting", StrVal("explicit"))

	NewArgumentBinder(nil).InjectDefaultArguments(tmpl)

	v, _ := tmpl.LocalAttribute("greeting")
	s, _ := v.AsStr()
	if s != "explicit" {
		t.Fatalf("explicit value should not be overwritten by the default, got %q", s)
	}
}
