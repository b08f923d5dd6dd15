package bytecode

// PType is one of C0's four primitive types.
type PType int

const (
	Void PType = iota
	Int
	Char
	Double
)

func (t PType) String() string {
	switch t {
	case Void:
		return "void"
	case Int:
		return "int"
	case Char:
		return "char"
	case Double:
		return "double"
	}
	return "unknown"
}

// Size returns the stack-slot size of t: int and char occupy one 4-byte
// slot, double occupies two.
func (t PType) Size() int {
	if t == Double {
		return 2
	}
	return 1
}

// ConstKind tags the payload kind of a pooled Constant.
type ConstKind int

const (
	ConstStr ConstKind = iota
	ConstInt
	ConstDouble
)

// Constant is one entry of the deduplicated constant pool.
type Constant struct {
	Kind   ConstKind
	SValue string
	IValue int32
	DValue float64
}

func (c Constant) equals(o Constant) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ConstStr:
		return c.SValue == o.SValue
	case ConstInt:
		return c.IValue == o.IValue
	case ConstDouble:
		return c.DValue == o.DValue
	}
	return false
}

// Function is one compiled function: its pooled name, signature, and its
// own instruction stream.
type Function struct {
	Name         string
	NameIdx      int
	ReturnType   PType
	ParamTypes   []PType
	Instructions []Instruction
}

// ParamSize is the sum of each parameter's stack-slot size.
func (f *Function) ParamSize() int {
	n := 0
	for _, t := range f.ParamTypes {
		n += t.Size()
	}
	return n
}

// ParamCount is the number of declared parameters.
func (f *Function) ParamCount() int {
	return len(f.ParamTypes)
}

// ObjectModel is the analyzer's target: a deduplicated constant pool, the
// global (pre-main) instruction stream, and the function table, each
// function owning its own instruction stream.
type ObjectModel struct {
	Start     []Instruction
	Constants []Constant
	Functions []Function
}

// NewObjectModel returns an empty model ready to receive global
// initializers and function definitions.
func NewObjectModel() *ObjectModel {
	return &ObjectModel{}
}

// AddConstant deduplicates on (kind, value) and returns the constant's pool
// index, inserting a new entry only if none already matches.
func (m *ObjectModel) AddConstant(c Constant) int {
	for i, existing := range m.Constants {
		if existing.equals(c) {
			return i
		}
	}
	m.Constants = append(m.Constants, c)
	return len(m.Constants) - 1
}

// FunctionByName performs a linear scan for a function named name.
func (m *ObjectModel) FunctionByName(name string) (*Function, bool) {
	for i := range m.Functions {
		if m.Functions[i].Name == name {
			return &m.Functions[i], true
		}
	}
	return nil, false
}

// FunctionIndexByName is the CALL operand: the function's position within
// the function table.
func (m *ObjectModel) FunctionIndexByName(name string) (int, bool) {
	for i := range m.Functions {
		if m.Functions[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// AddFunction appends a new function entry. It does not check for an
// existing function of the same name; the caller (the analyzer) rejects
// redefinitions before calling it.
func (m *ObjectModel) AddFunction(returnType PType, name string, nameIdx int, paramTypes []PType) *Function {
	m.Functions = append(m.Functions, Function{
		Name:       name,
		NameIdx:    nameIdx,
		ReturnType: returnType,
		ParamTypes: paramTypes,
	})
	return &m.Functions[len(m.Functions)-1]
}

// HasFunction reports whether a function named name already exists.
func (m *ObjectModel) HasFunction(name string) bool {
	_, ok := m.FunctionByName(name)
	return ok
}

// currentStream returns whichever instruction stream is "current": the
// last-added function's stream if any function has been added, otherwise
// the global start stream. There is no separate mutable "current
// function" pointer beyond the function table's own length.
func (m *ObjectModel) currentStream() *[]Instruction {
	if len(m.Functions) > 0 {
		return &m.Functions[len(m.Functions)-1].Instructions
	}
	return &m.Start
}

// Emit appends an instruction to the current stream and returns its index.
func (m *ObjectModel) Emit(op Opcode, operands ...int64) int {
	stream := m.currentStream()
	*stream = append(*stream, Instruction{Op: op, Operands: operands})
	return len(*stream) - 1
}

// NextInstIdx returns the length of the current stream: a stable index a
// not-yet-emitted instruction will occupy, used as a jump target.
func (m *ObjectModel) NextInstIdx() int {
	return len(*m.currentStream())
}

// InsertAt splices an instruction into the current stream at index at,
// shifting every later instruction up by one. Used for retroactive
// left-operand promotion.
func (m *ObjectModel) InsertAt(at int, op Opcode, operands ...int64) {
	stream := m.currentStream()
	inst := Instruction{Op: op, Operands: operands}
	*stream = append(*stream, Instruction{})
	copy((*stream)[at+1:], (*stream)[at:])
	(*stream)[at] = inst
}

// UpdateOperands backpatches the instruction at index in the current stream
// with new operand values, typically a jump target discovered after the
// instruction was emitted with a placeholder.
func (m *ObjectModel) UpdateOperands(index int, operands ...int64) {
	stream := m.currentStream()
	(*stream)[index].Operands = operands
}

// LastInstruction returns the last instruction of the current stream and
// whether the stream is non-empty.
func (m *ObjectModel) LastInstruction() (Instruction, bool) {
	stream := *m.currentStream()
	if len(stream) == 0 {
		return Instruction{}, false
	}
	return stream[len(stream)-1], true
}
