// Package bytecode holds the p-code instruction set, the in-memory object
// model (constant pool, function table, instruction streams) the analyzer
// builds, and the textual (s0) and binary (o0) serializers that turn that
// model into an image. Nothing in this package walks an AST: it is purely
// the target side of compilation, built up by internal/semantic's Analyzer.
package bytecode

// Opcode identifies a single p-code instruction.
type Opcode byte

const (
	BIPUSH Opcode = 0x01
	IPUSH  Opcode = 0x02
	LOADC  Opcode = 0x09
	LOADA  Opcode = 0x0a
	SNEW   Opcode = 0x0c

	ILOAD Opcode = 0x10
	DLOAD Opcode = 0x11

	ISTORE Opcode = 0x20
	DSTORE Opcode = 0x21

	IADD Opcode = 0x30
	DADD Opcode = 0x31
	ISUB Opcode = 0x34
	DSUB Opcode = 0x35
	IMUL Opcode = 0x38
	DMUL Opcode = 0x39
	IDIV Opcode = 0x3c
	DDIV Opcode = 0x3d

	INEG Opcode = 0x40
	DNEG Opcode = 0x41

	ICMP Opcode = 0x44
	DCMP Opcode = 0x45

	I2D Opcode = 0x60
	D2I Opcode = 0x61
	I2C Opcode = 0x62

	JMP Opcode = 0x70
	JE  Opcode = 0x71
	JNE Opcode = 0x72
	JL  Opcode = 0x73
	JGE Opcode = 0x74
	JG  Opcode = 0x75
	JLE Opcode = 0x76

	CALL Opcode = 0x80

	RET  Opcode = 0x88
	IRET Opcode = 0x89
	DRET Opcode = 0x8a

	IPRINT Opcode = 0xa0
	DPRINT Opcode = 0xa1
	CPRINT Opcode = 0xa2
	SPRINT Opcode = 0xa3
	PRINTL Opcode = 0xaf

	ISCAN Opcode = 0xb0
	DSCAN Opcode = 0xb1
	CSCAN Opcode = 0xb2
)

// Spec describes one opcode's mnemonic and the byte width of each of its
// operands, in the order they are encoded.
type Spec struct {
	Mnemonic     string
	OperandSizes []int
}

// instructionSet is the closed, fixed table mapping every opcode to its
// mnemonic and operand widths.
var instructionSet = map[Opcode]Spec{
	BIPUSH: {"bipush", []int{1}},
	IPUSH:  {"ipush", []int{4}},
	LOADC:  {"loadc", []int{2}},
	LOADA:  {"loada", []int{2, 4}},
	SNEW:   {"snew", []int{4}},

	ILOAD: {"iload", nil},
	DLOAD: {"dload", nil},

	ISTORE: {"istore", nil},
	DSTORE: {"dstore", nil},

	IADD: {"iadd", nil},
	DADD: {"dadd", nil},
	ISUB: {"isub", nil},
	DSUB: {"dsub", nil},
	IMUL: {"imul", nil},
	DMUL: {"dmul", nil},
	IDIV: {"idiv", nil},
	DDIV: {"ddiv", nil},

	INEG: {"ineg", nil},
	DNEG: {"dneg", nil},

	ICMP: {"icmp", nil},
	DCMP: {"dcmp", nil},

	I2D: {"i2d", nil},
	D2I: {"d2i", nil},
	I2C: {"i2c", nil},

	JMP: {"jmp", []int{2}},
	JE:  {"je", []int{2}},
	JNE: {"jne", []int{2}},
	JL:  {"jl", []int{2}},
	JGE: {"jge", []int{2}},
	JG:  {"jg", []int{2}},
	JLE: {"jle", []int{2}},

	CALL: {"call", []int{2}},

	RET:  {"ret", nil},
	IRET: {"iret", nil},
	DRET: {"dret", nil},

	IPRINT: {"iprint", nil},
	DPRINT: {"dprint", nil},
	CPRINT: {"cprint", nil},
	SPRINT: {"sprint", nil},
	PRINTL: {"printl", nil},

	ISCAN: {"iscan", nil},
	DSCAN: {"dscan", nil},
	CSCAN: {"cscan", nil},
}

// LookupSpec returns the Spec for op and whether it is a known opcode.
func LookupSpec(op Opcode) (Spec, bool) {
	s, ok := instructionSet[op]
	return s, ok
}

// Mnemonic returns op's textual mnemonic, or "unknown" if op isn't in the
// table.
func (op Opcode) Mnemonic() string {
	if s, ok := instructionSet[op]; ok {
		return s.Mnemonic
	}
	return "unknown"
}

// Instruction is one emitted p-code instruction: an opcode plus its operand
// values (for jump placeholders, not yet their final values pending a
// backpatch). The operand count is not checked when an instruction is
// emitted; WriteBinary checks it against the opcode's Spec.
type Instruction struct {
	Op       Opcode
	Operands []int64
}
