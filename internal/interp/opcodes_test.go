package interp

import (
	"strings"
	"testing"
)

func buildSample() *CompiledTemplate {
	ct := NewCompiledTemplate("sample", nil, []string{"Hello"})
	ct.Instrs = []byte{byte(OP_LOAD_STR), 0, 0, byte(OP_WRITE), byte(OP_NOOP)}
	ct.CodeSize = len(ct.Instrs)
	return ct
}

func TestDisassembleIncludesMnemonicsAndConstant(t *testing.T) {
	out := Disassemble(buildSample())
	if !strings.Contains(out, "LOAD_STR") {
		t.Fatalf("expected LOAD_STR in disassembly, got:\n%s", out)
	}
	if !strings.Contains(out, "Hello") {
		t.Fatalf("expected the interned constant text in disassembly, got:\n%s", out)
	}
	if !strings.Contains(out, "WRITE") {
		t.Fatalf("expected WRITE in disassembly, got:\n%s", out)
	}
	if !strings.Contains(out, "NOOP") {
		t.Fatalf("expected NOOP in disassembly, got:\n%s", out)
	}
}

func TestOpcodeStringUnknown(t *testing.T) {
	if got := Opcode(255).String(); got != "UNKNOWN_OPCODE" {
		t.Fatalf("got %q", got)
	}
}

func TestHasEagerDefault(t *testing.T) {
	eager := &FormalArgument{DefaultText: "{<(x)>}"}
	if !eager.HasEagerDefault() {
		t.Fatal("expected eager default shape to be detected")
	}
	lazy := &FormalArgument{DefaultText: "<x>"}
	if lazy.HasEagerDefault() {
		t.Fatal("plain default text should not be treated as eager")
	}
}
