package interp

import (
	"fmt"
	"strconv"
)

// Opcode is a single bytecode instruction tag. Every instruction
// is a 1-byte opcode followed by zero, one or two 2-byte big-endian
// unsigned short operands (string-pool indices, branch targets, option
// indices, map-template counts).
type Opcode byte

const (
	OP_LOAD_STR Opcode = iota
	OP_LOAD_ATTR
	OP_LOAD_LOCAL
	OP_LOAD_PROP
	OP_LOAD_PROP_IND
	OP_NEW
	OP_NEW_IND
	OP_SUPER_NEW
	OP_STORE_ATTR
	OP_STORE_SOLE_ARG
	OP_SET_PASS_THRU
	OP_STORE_OPTION
	OP_OPTIONS
	OP_LIST
	OP_ADD
	OP_WRITE
	OP_WRITE_OPT
	OP_MAP
	OP_ROT_MAP
	OP_PAR_MAP
	OP_BR
	OP_BRF
	OP_TOSTR
	OP_FIRST
	OP_LAST
	OP_REST
	OP_TRUNC
	OP_STRIP
	OP_REVERSE
	OP_LENGTH
	OP_TRIM
	OP_STRLEN
	OP_NOT
	OP_OR
	OP_AND
	OP_INDENT
	OP_DEDENT
	OP_NEWLINE
	OP_NOOP
	OP_POP
)

// OpcodeNames maps opcodes to their disassembly mnemonic.
var OpcodeNames = map[Opcode]string{
	OP_LOAD_STR:       "LOAD_STR",
	OP_LOAD_ATTR:      "LOAD_ATTR",
	OP_LOAD_LOCAL:     "LOAD_LOCAL",
	OP_LOAD_PROP:      "LOAD_PROP",
	OP_LOAD_PROP_IND:  "LOAD_PROP_IND",
	OP_NEW:            "NEW",
	OP_NEW_IND:        "NEW_IND",
	OP_SUPER_NEW:      "SUPER_NEW",
	OP_STORE_ATTR:     "STORE_ATTR",
	OP_STORE_SOLE_ARG: "STORE_SOLE_ARG",
	OP_SET_PASS_THRU:  "SET_PASS_THRU",
	OP_STORE_OPTION:   "STORE_OPTION",
	OP_OPTIONS:        "OPTIONS",
	OP_LIST:           "LIST",
	OP_ADD:            "ADD",
	OP_WRITE:          "WRITE",
	OP_WRITE_OPT:      "WRITE_OPT",
	OP_MAP:            "MAP",
	OP_ROT_MAP:        "ROT_MAP",
	OP_PAR_MAP:        "PAR_MAP",
	OP_BR:             "BR",
	OP_BRF:            "BRF",
	OP_TOSTR:          "TOSTR",
	OP_FIRST:          "FIRST",
	OP_LAST:           "LAST",
	OP_REST:           "REST",
	OP_TRUNC:          "TRUNC",
	OP_STRIP:          "STRIP",
	OP_REVERSE:        "REVERSE",
	OP_LENGTH:         "LENGTH",
	OP_TRIM:           "TRIM",
	OP_STRLEN:         "STRLEN",
	OP_NOT:            "NOT",
	OP_OR:             "OR",
	OP_AND:            "AND",
	OP_INDENT:         "INDENT",
	OP_DEDENT:         "DEDENT",
	OP_NEWLINE:        "NEWLINE",
	OP_NOOP:           "NOOP",
	OP_POP:            "POP",
}

func (op Opcode) String() string {
	if n, ok := OpcodeNames[op]; ok {
		return n
	}
	return "UNKNOWN_OPCODE"
}

// Option slot indices, positional and in fixed order.
const (
	OptAnchor = iota
	OptFormat
	OptNull
	OptSeparator
	OptWrap
)

// OptionNames names the fixed option slots, for disassembly and error text.
var OptionNames = [5]string{"anchor", "format", "null", "separator", "wrap"}

// readShort decodes a 2-byte big-endian unsigned short at instrs[ip].
func readShort(instrs []byte, ip int) int {
	return int(instrs[ip])<<8 | int(instrs[ip+1])
}

// operandWidth reports how many operand bytes follow this opcode (0 or 2).
func operandWidth(op Opcode) int {
	switch op {
	case OP_LOAD_STR, OP_LOAD_ATTR, OP_LOAD_LOCAL, OP_LOAD_PROP,
		OP_NEW, OP_SUPER_NEW, OP_STORE_ATTR, OP_BR, OP_BRF, OP_INDENT,
		OP_ROT_MAP, OP_PAR_MAP:
		return 2
	case OP_STORE_OPTION:
		return 2
	default:
		return 0
	}
}

// Disassemble renders the full instruction stream of impl in a
// human-readable form, one line per instruction, offset-prefixed —
// attached to the INTERNAL_ERROR report when Dispatcher.Exec halts a
// frame. The DebugTap trace formats single instructions with
// disassembleInstruction.
func Disassemble(impl *CompiledTemplate) string {
	var out []byte
	ip := 0
	for ip < impl.CodeSize {
		line, next := disassembleInstruction(impl, ip)
		out = append(out, line...)
		out = append(out, '\n')
		ip = next
	}
	return string(out)
}

func disassembleInstruction(impl *CompiledTemplate, ip int) (string, int) {
	op := Opcode(impl.Instrs[ip])
	name := op.String()
	switch operandWidth(op) {
	case 2:
		operand := readShort(impl.Instrs, ip+1)
		extra := ""
		switch op {
		case OP_LOAD_STR, OP_LOAD_ATTR, OP_LOAD_LOCAL, OP_LOAD_PROP, OP_NEW, OP_SUPER_NEW, OP_STORE_ATTR:
			if operand >= 0 && operand < len(impl.Strings) {
				extra = " ; " + impl.Strings[operand]
			}
		case OP_STORE_OPTION:
			if operand >= 0 && operand < len(OptionNames) {
				extra = " ; " + OptionNames[operand]
			}
		}
		return formatDisasmLine(ip, name, operand, extra), ip + 3
	default:
		return formatDisasmLine(ip, name, -1, ""), ip + 1
	}
}

func formatDisasmLine(ip int, name string, operand int, extra string) string {
	if operand < 0 {
		return fmt.Sprintf("%04d  %s%s", ip, name, extra)
	}
	return fmt.Sprintf("%04d  %s %s%s", ip, name, strconv.Itoa(operand), extra)
}
