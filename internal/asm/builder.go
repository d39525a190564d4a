// Package asm is a small bytecode assembler used by tests and the
// reference CLI to hand-build CompiledTemplates directly, without
// depending on a compiler front end.
package asm

import "github.com/funvibe/strtmpl/internal/interp"

// Builder assembles one CompiledTemplate's instruction stream and
// string pool.
type Builder struct {
	name    string
	instrs  []byte
	strings []string
	strIdx  map[string]int
	formals []*interp.FormalArgument
	unknown bool
}

func New(name string) *Builder {
	return &Builder{name: name, strIdx: map[string]int{}}
}

// Str interns s in the constant pool, returning its index.
func (b *Builder) Str(s string) int {
	if i, ok := b.strIdx[s]; ok {
		return i
	}
	i := len(b.strings)
	b.strings = append(b.strings, s)
	b.strIdx[s] = i
	return i
}

func (b *Builder) emitShort(n int) {
	b.instrs = append(b.instrs, byte(n>>8), byte(n))
}

// Op emits a bare opcode with no operand.
func (b *Builder) Op(op interp.Opcode) *Builder {
	b.instrs = append(b.instrs, byte(op))
	return b
}

// OpShort emits an opcode followed by a 2-byte big-endian operand.
func (b *Builder) OpShort(op interp.Opcode, operand int) *Builder {
	b.instrs = append(b.instrs, byte(op))
	b.emitShort(operand)
	return b
}

// OpStr emits an opcode followed by the constant-pool index of s,
// interning s if needed.
func (b *Builder) OpStr(op interp.Opcode, s string) *Builder {
	return b.OpShort(op, b.Str(s))
}

// Label returns the current instruction offset, for patching branch targets.
func (b *Builder) Label() int { return len(b.instrs) }

// PatchShort overwrites the 2-byte operand starting at offset.
func (b *Builder) PatchShort(offset int, value int) {
	b.instrs[offset] = byte(value >> 8)
	b.instrs[offset+1] = byte(value)
}

// FormalArg declares a formal argument in positional order, with an
// optional compiled default sub-template and its raw source text.
func (b *Builder) FormalArg(name string, def *interp.CompiledTemplate, defText string) *Builder {
	b.formals = append(b.formals, &interp.FormalArgument{Name: name, CompiledDefaultValue: def, DefaultText: defText})
	return b
}

// UnknownFormals marks the built template as having an unknown formal
// set, skipping the null-against-formals check entirely.
func (b *Builder) UnknownFormals() *Builder {
	b.unknown = true
	return b
}

// Build finalizes the CompiledTemplate.
func (b *Builder) Build() *interp.CompiledTemplate {
	ct := interp.NewCompiledTemplate(b.name, b.instrs, b.strings)
	for _, fa := range b.formals {
		ct.AddFormalArg(fa)
	}
	ct.UnknownFormals = b.unknown
	return ct
}
