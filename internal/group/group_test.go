package group

import (
	"testing"

	"github.com/funvibe/strtmpl/internal/interp"
)

func TestDefineAndGetInstanceOf(t *testing.T) {
	g := New("demo")
	ct := interp.NewCompiledTemplate("greet", nil, nil)
	g.Define(ct)

	tmpl := g.GetInstanceOf("greet")
	if tmpl == nil {
		t.Fatal("expected an instance")
	}
	if tmpl.Impl.Name != "greet" {
		t.Fatalf("got %q", tmpl.Impl.Name)
	}
	if g.GetInstanceOf("missing") != nil {
		t.Fatal("expected nil for an undefined template")
	}
}

func TestImportResolutionOrder(t *testing.T) {
	base := New("base")
	base.Define(interp.NewCompiledTemplate("shared", nil, nil))

	child := New("child")
	child.Import(base)
	child.Define(interp.NewCompiledTemplate("own", nil, nil))

	if child.LookupTemplate("own") == nil {
		t.Fatal("expected own template to resolve locally")
	}
	if child.LookupTemplate("shared") == nil {
		t.Fatal("expected shared template to resolve via import chain")
	}
	if child.LookupImportedTemplate("own") != nil {
		t.Fatal("LookupImportedTemplate must not see the group's own templates")
	}
	if child.LookupImportedTemplate("shared") == nil {
		t.Fatal("LookupImportedTemplate should find imported templates")
	}
}

func TestDefineSetsNativeGroup(t *testing.T) {
	g := New("demo")
	ct := interp.NewCompiledTemplate("t", nil, nil)
	g.Define(ct)
	if ct.NativeGroup != g {
		t.Fatal("Define should set NativeGroup to the defining group")
	}
}

func TestBlankIsSharedAndRendersEmpty(t *testing.T) {
	g := New("demo")
	b1 := g.Blank()
	b2 := g.Blank()
	if b1 != b2 {
		t.Fatal("Blank() should return the same instance across calls")
	}
	if b1.Impl.CodeSize != 0 {
		t.Fatal("Blank's compiled template should have no instructions")
	}
	if !b1.Impl.UnknownFormals {
		t.Fatal("Blank should skip the null-against-formals check")
	}
}

func TestGetEmbeddedInstanceOfLinksEnclosing(t *testing.T) {
	g := New("demo")
	g.Define(interp.NewCompiledTemplate("child", nil, nil))
	caller := g.GetInstanceOf("child")

	embedded, ok := g.GetEmbeddedInstanceOf(caller, 0, "child")
	if !ok {
		t.Fatal("expected a hit")
	}
	if embedded.EnclosingInstance != caller {
		t.Fatal("GetEmbeddedInstanceOf should set EnclosingInstance to the caller")
	}

	blank, ok := g.GetEmbeddedInstanceOf(caller, 0, "nonexistent")
	if ok {
		t.Fatal("expected a miss")
	}
	if blank != g.Blank() {
		t.Fatal("a miss should return the shared Blank instance")
	}
}
