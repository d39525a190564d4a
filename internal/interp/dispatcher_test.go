package interp_test

import (
	"strings"
	"testing"

	"github.com/funvibe/strtmpl/internal/asm"
	"github.com/funvibe/strtmpl/internal/group"
	"github.com/funvibe/strtmpl/internal/interp"
	"github.com/funvibe/strtmpl/internal/iowriter"
)

func render(t *testing.T, g *group.Group, name string, bind func(*interp.Template)) (string, *interp.CollectingErrorSink) {
	t.Helper()
	tmpl := g.GetInstanceOf(name)
	if tmpl == nil {
		t.Fatalf("no such template %q", name)
	}
	if bind != nil {
		bind(tmpl)
	}
	sink := &interp.CollectingErrorSink{}
	dsp := interp.NewDispatcher(g, sink, nil, 0)
	var sb strings.Builder
	w := iowriter.New(&sb)
	if _, err := dsp.Exec(w, tmpl); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	return sb.String(), sink
}

// hello(name) ::= "Hello, <name>!" — 13 characters for name="World".
func TestHelloNameCharCount(t *testing.T) {
	g := group.New("demo")
	b := asm.New("hello")
	b.OpStr(interp.OP_LOAD_STR, "Hello, ")
	b.Op(interp.OP_WRITE)
	b.OpStr(interp.OP_LOAD_ATTR, "name")
	b.Op(interp.OP_WRITE)
	b.OpStr(interp.OP_LOAD_STR, "!")
	b.Op(interp.OP_WRITE)
	b.FormalArg("name", nil, "")
	g.Define(b.Build())

	out, sink := render(t, g, "hello", func(tmpl *interp.Template) {
		tmpl.RawSetAttribute("name", interp.StrVal("World"))
	})
	if out != "Hello, World!" {
		t.Fatalf("got %q", out)
	}
	if len(out) != 13 {
		t.Fatalf("len(out) = %d, want 13", len(out))
	}
	if len(sink.Reports) != 0 {
		t.Fatalf("unexpected reports: %+v", sink.Reports)
	}
}

// iter() ::= "<items; separator=\",\">" over [1, null, 2, null, 3]: nulls
// never "produce" output, so no separator is emitted adjacent to them —
// result is "1,2,3", not "1,,2,,3" or "1,,,2,,,3".
func TestIterationSeparatorSkipsNulls(t *testing.T) {
	g := group.New("demo")
	b := asm.New("iter")
	b.OpStr(interp.OP_LOAD_ATTR, "items")
	b.Op(interp.OP_OPTIONS)
	b.OpStr(interp.OP_LOAD_STR, ",")
	b.OpShort(interp.OP_STORE_OPTION, interp.OptSeparator)
	b.Op(interp.OP_WRITE_OPT)
	g.Define(b.Build())

	out, _ := render(t, g, "iter", func(tmpl *interp.Template) {
		items := interp.NewSequence()
		items.Append(interp.IntVal(1))
		items.Append(interp.NullVal())
		items.Append(interp.IntVal(2))
		items.Append(interp.NullVal())
		items.Append(interp.IntVal(3))
		tmpl.RawSetAttribute("items", interp.ObjVal(items))
	})
	if out != "1,2,3" {
		t.Fatalf("got %q, want \"1,2,3\"", out)
	}
}

// rot(items) ::= "<items:red(),blue()>" over four items rotates R1B2R3B4.
func TestRotatingMapAlternatesTemplates(t *testing.T) {
	g := group.New("demo")

	red := asm.New("red")
	red.OpStr(interp.OP_LOAD_STR, "R")
	red.Op(interp.OP_WRITE)
	red.OpStr(interp.OP_LOAD_ATTR, "it")
	red.Op(interp.OP_WRITE)
	g.Define(red.Build())

	blue := asm.New("blue")
	blue.OpStr(interp.OP_LOAD_STR, "B")
	blue.Op(interp.OP_WRITE)
	blue.OpStr(interp.OP_LOAD_ATTR, "it")
	blue.Op(interp.OP_WRITE)
	g.Define(blue.Build())

	rot := asm.New("rot")
	rot.OpStr(interp.OP_LOAD_ATTR, "items")
	rot.OpStr(interp.OP_LOAD_STR, "red")
	rot.OpStr(interp.OP_LOAD_STR, "blue")
	rot.OpShort(interp.OP_ROT_MAP, 2)
	rot.Op(interp.OP_WRITE)
	g.Define(rot.Build())

	out, _ := render(t, g, "rot", func(tmpl *interp.Template) {
		items := interp.NewSequence()
		items.Append(interp.IntVal(1))
		items.Append(interp.IntVal(2))
		items.Append(interp.IntVal(3))
		items.Append(interp.IntVal(4))
		tmpl.RawSetAttribute("items", interp.ObjVal(items))
	})
	if out != "R1B2R3B4" {
		t.Fatalf("got %q, want \"R1B2R3B4\"", out)
	}
}

// par(xs, ys) ::= "<xs,ys:pair()>" where pair() has two formals and two
// expressions are supplied: the lengths of xs/ys may still differ per
// round, with the short iterator's formal simply left unbound rather
// than reported — no MAP_ARGUMENT_COUNT_MISMATCH here.
func TestParallelMapUnequalIterableLengthsLeaveFormalUnset(t *testing.T) {
	g := group.New("demo")

	pair := asm.New("pair")
	pair.OpStr(interp.OP_LOAD_ATTR, "a")
	pair.Op(interp.OP_WRITE)
	pair.OpStr(interp.OP_LOAD_ATTR, "b")
	pair.Op(interp.OP_TOSTR)
	pair.Op(interp.OP_WRITE)
	pair.FormalArg("a", nil, "")
	pair.FormalArg("b", nil, "")
	g.Define(pair.Build())

	par := asm.New("par")
	par.OpStr(interp.OP_LOAD_ATTR, "xs")
	par.OpStr(interp.OP_LOAD_ATTR, "ys")
	par.OpStr(interp.OP_LOAD_STR, "pair")
	par.OpShort(interp.OP_PAR_MAP, 2)
	par.Op(interp.OP_WRITE)
	g.Define(par.Build())

	out, sink := render(t, g, "par", func(tmpl *interp.Template) {
		xs := interp.NewSequence()
		xs.Append(interp.IntVal(1))
		xs.Append(interp.IntVal(2))
		xs.Append(interp.IntVal(3))
		ys := interp.NewSequence()
		ys.Append(interp.StrVal("a"))
		ys.Append(interp.StrVal("b"))
		tmpl.RawSetAttribute("xs", interp.ObjVal(xs))
		tmpl.RawSetAttribute("ys", interp.ObjVal(ys))
	})
	// round0: a=1,b="a" -> "1a"; round1: a=2,b="b" -> "2b";
	// round2: a=3, b unbound (declared formal, so no report) -> "3".
	if out != "1a2b3" {
		t.Fatalf("got %q, want \"1a2b3\"", out)
	}
	for _, r := range sink.Reports {
		if r.Kind == interp.ErrMapArgumentCountMismatch {
			t.Fatalf("unequal element counts across iterables should not itself report a mismatch: %+v", sink.Reports)
		}
	}
}

// par(xs) ::= "<xs:pair()>" supplying only one parallel expression
// against a template declaring two formals reports
// MAP_ARGUMENT_COUNT_MISMATCH (the expression-count/formal-count
// mismatch, distinct from per-round iterable-length differences above).
func TestParallelMapWrongExpressionCountReports(t *testing.T) {
	g := group.New("demo")

	pair := asm.New("pair")
	pair.OpStr(interp.OP_LOAD_ATTR, "a")
	pair.Op(interp.OP_WRITE)
	pair.FormalArg("a", nil, "")
	pair.FormalArg("b", nil, "")
	g.Define(pair.Build())

	par := asm.New("par")
	par.OpStr(interp.OP_LOAD_ATTR, "xs")
	par.OpStr(interp.OP_LOAD_STR, "pair")
	par.OpShort(interp.OP_PAR_MAP, 1)
	par.Op(interp.OP_WRITE)
	g.Define(par.Build())

	out, sink := render(t, g, "par", func(tmpl *interp.Template) {
		xs := interp.NewSequence()
		xs.Append(interp.IntVal(1))
		xs.Append(interp.IntVal(2))
		tmpl.RawSetAttribute("xs", interp.ObjVal(xs))
	})
	if out != "12" {
		t.Fatalf("got %q, want \"12\"", out)
	}
	found := false
	for _, r := range sink.Reports {
		if r.Kind == interp.ErrMapArgumentCountMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MAP_ARGUMENT_COUNT_MISMATCH report, got %+v", sink.Reports)
	}
}

// noformal() ::= "<x>" referencing an attribute not declared as a formal
// anywhere in the enclosing chain reports NO_ATTRIBUTE_DEFINITION; the
// same lookup against a declared formal that's simply unbound does not.
func TestNullAttributeReportsOnlyWithoutFormalDeclaration(t *testing.T) {
	g := group.New("demo")

	noFormal := asm.New("noformal")
	noFormal.OpStr(interp.OP_LOAD_ATTR, "x")
	noFormal.Op(interp.OP_TOSTR)
	noFormal.Op(interp.OP_WRITE)
	g.Define(noFormal.Build())

	_, sink := render(t, g, "noformal", nil)
	if len(sink.Reports) != 1 || sink.Reports[0].Kind != interp.ErrNoAttributeDefinition {
		t.Fatalf("expected one NO_ATTRIBUTE_DEFINITION report, got %+v", sink.Reports)
	}

	declared := asm.New("declared")
	declared.OpStr(interp.OP_LOAD_ATTR, "x")
	declared.Op(interp.OP_TOSTR)
	declared.Op(interp.OP_WRITE)
	declared.FormalArg("x", nil, "")
	g.Define(declared.Build())

	_, sink2 := render(t, g, "declared", nil)
	if len(sink2.Reports) != 0 {
		t.Fatalf("expected no reports when x is a declared-but-unbound formal, got %+v", sink2.Reports)
	}
}

// blank(x) ::= "x<\n><x><\n>y": the middle newline follows a write that
// produced zero characters (a null attribute), so it must not be emitted
// as a spurious blank line — output is "x\ny", not "x\n\ny".
func TestNewlineAfterZeroCharWriteIsSuppressed(t *testing.T) {
	g := group.New("demo")

	b := asm.New("blank")
	b.OpStr(interp.OP_LOAD_STR, "x")
	b.Op(interp.OP_WRITE)
	b.Op(interp.OP_NEWLINE)
	b.OpStr(interp.OP_LOAD_ATTR, "x")
	b.Op(interp.OP_TOSTR)
	b.Op(interp.OP_WRITE)
	b.Op(interp.OP_NEWLINE)
	b.OpStr(interp.OP_LOAD_STR, "y")
	b.Op(interp.OP_WRITE)
	g.Define(b.Build())

	out, _ := render(t, g, "blank", nil)
	if out != "x\ny" {
		t.Fatalf("got %q, want %q", out, "x\ny")
	}
}

// outer() ::= "<inner()>" where inner() is instantiated with SET_PASS_THRU
// and references "x", a name declared nowhere in the static formal chain:
// normally that reports NO_ATTRIBUTE_DEFINITION, but a pass-through
// instance lets the unresolved reference propagate outward silently.
func TestPassThroughSuppressesUndeclaredAttributeReport(t *testing.T) {
	g := group.New("demo")

	inner := asm.New("inner")
	inner.OpStr(interp.OP_LOAD_ATTR, "x")
	inner.Op(interp.OP_TOSTR)
	inner.Op(interp.OP_WRITE)
	g.Define(inner.Build())

	outer := asm.New("outer")
	outer.OpStr(interp.OP_NEW, "inner")
	outer.Op(interp.OP_SET_PASS_THRU)
	outer.Op(interp.OP_WRITE)
	g.Define(outer.Build())

	_, sink := render(t, g, "outer", nil)
	if len(sink.Reports) != 0 {
		t.Fatalf("pass-through should suppress the report, got %+v", sink.Reports)
	}

	plain := asm.New("outerNoPassThru")
	plain.OpStr(interp.OP_NEW, "inner")
	plain.Op(interp.OP_WRITE)
	g.Define(plain.Build())

	_, sink2 := render(t, g, "outerNoPassThru", nil)
	if len(sink2.Reports) != 1 || sink2.Reports[0].Kind != interp.ErrNoAttributeDefinition {
		t.Fatalf("expected a NO_ATTRIBUTE_DEFINITION report without pass-through, got %+v", sink2.Reports)
	}
}

// withlocale(v) ::= "<v>" where "v"'s runtime type has a registered
// renderer that echoes the locale it was called with — proves the
// group's configured locale actually reaches AttributeRenderer.Render.
func TestConfiguredLocaleReachesRenderer(t *testing.T) {
	g := group.New("demo")
	g.SetLocale("fr-FR")
	g.RegisterRenderer("int", interp.AttributeRendererFunc(func(v interp.Value, format, locale string) string {
		return locale
	}))

	b := asm.New("withlocale")
	b.OpStr(interp.OP_LOAD_ATTR, "v")
	b.Op(interp.OP_WRITE)
	b.FormalArg("v", nil, "")
	g.Define(b.Build())

	out, _ := render(t, g, "withlocale", func(tmpl *interp.Template) {
		tmpl.RawSetAttribute("v", interp.IntVal(7))
	})
	if out != "fr-FR" {
		t.Fatalf("got %q, want the configured locale \"fr-FR\"", out)
	}
}

// lookup(m) ::= "<m.missing>" over a Mapping carrying a "default" entry
// falls back to it via DEFAULT_KEY.
func TestPropertyOnMapFallsBackToDefaultKey(t *testing.T) {
	g := group.New("demo")

	b := asm.New("lookup")
	b.OpStr(interp.OP_LOAD_ATTR, "m")
	b.OpStr(interp.OP_LOAD_PROP, "missing")
	b.Op(interp.OP_TOSTR)
	b.Op(interp.OP_WRITE)
	b.FormalArg("m", nil, "")
	g.Define(b.Build())

	out, _ := render(t, g, "lookup", func(tmpl *interp.Template) {
		m := interp.NewMapping()
		m.Put(interp.DefaultKey, interp.StrVal("fallback"))
		tmpl.RawSetAttribute("m", interp.ObjVal(m))
	})
	if out != "fallback" {
		t.Fatalf("got %q, want \"fallback\"", out)
	}
}
