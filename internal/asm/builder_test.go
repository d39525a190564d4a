package asm

import (
	"testing"

	"github.com/funvibe/strtmpl/internal/interp"
)

func TestStrInterning(t *testing.T) {
	b := New("t")
	i1 := b.Str("hello")
	i2 := b.Str("world")
	i3 := b.Str("hello")
	if i1 != i3 {
		t.Fatalf("Str should intern repeated constants to the same index, got %d and %d", i1, i3)
	}
	if i1 == i2 {
		t.Fatalf("distinct constants must get distinct indices")
	}
}

func TestOpStrEmitsLoadStrWithOperand(t *testing.T) {
	b := New("t")
	b.OpStr(interp.OP_LOAD_STR, "hi")
	ct := b.Build()
	if ct.CodeSize != 3 {
		t.Fatalf("CodeSize = %d, want 3 (1 opcode byte + 2 operand bytes)", ct.CodeSize)
	}
	if interp.Opcode(ct.Instrs[0]) != interp.OP_LOAD_STR {
		t.Fatalf("first byte should be OP_LOAD_STR")
	}
	idx := int(ct.Instrs[1])<<8 | int(ct.Instrs[2])
	if ct.Strings[idx] != "hi" {
		t.Fatalf("operand should index the interned constant, got %q", ct.Strings[idx])
	}
}

func TestPatchShortRewritesBranchTarget(t *testing.T) {
	b := New("t")
	b.OpShort(interp.OP_BR, 0)
	target := b.Label()
	b.Op(interp.OP_NOOP)
	b.PatchShort(1, target)
	ct := b.Build()
	got := int(ct.Instrs[1])<<8 | int(ct.Instrs[2])
	if got != target {
		t.Fatalf("branch operand = %d, want patched target %d", got, target)
	}
}

func TestFormalArgOrderAndLookup(t *testing.T) {
	b := New("t")
	b.FormalArg("a", nil, "")
	b.FormalArg("b", nil, "")
	ct := b.Build()
	if ct.NumFormalArgs() != 2 {
		t.Fatalf("NumFormalArgs() = %d, want 2", ct.NumFormalArgs())
	}
	if ct.FirstFormalArgName() != "a" {
		t.Fatalf("FirstFormalArgName() = %q, want \"a\"", ct.FirstFormalArgName())
	}
	if !ct.HasFormalArg("b") {
		t.Fatal("expected b to be a declared formal")
	}
}

func TestUnknownFormalsFlag(t *testing.T) {
	b := New("t").UnknownFormals()
	ct := b.Build()
	if !ct.UnknownFormals {
		t.Fatal("UnknownFormals() should mark the built template")
	}
}
