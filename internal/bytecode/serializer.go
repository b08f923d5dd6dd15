package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Magic and Version identify the binary (o0) object format.
const (
	Magic   uint32 = 0x43303A29
	Version uint32 = 1
)

// WriteText renders m as the textual (s0) assembly: `.constants`, `.start`,
// and `.functions` sections followed by one named section per function.
func WriteText(m *ObjectModel) string {
	var sb bytes.Buffer

	sb.WriteString(".constants:\n")
	for i, c := range m.Constants {
		fmt.Fprintf(&sb, "%d %s\n", i, formatConstant(c))
	}

	sb.WriteString(".start:\n")
	writeInstructions(&sb, m.Start)

	sb.WriteString(".functions:\n")
	for i, fn := range m.Functions {
		fmt.Fprintf(&sb, "%d %d %d 1\n", i, fn.NameIdx, fn.ParamSize())
	}

	for _, fn := range m.Functions {
		fmt.Fprintf(&sb, "%s:\n", fn.Name)
		writeInstructions(&sb, fn.Instructions)
	}

	return sb.String()
}

func formatConstant(c Constant) string {
	switch c.Kind {
	case ConstStr:
		return "S " + strconv.Quote(c.SValue)
	case ConstInt:
		return fmt.Sprintf("I %d", c.IValue)
	case ConstDouble:
		return fmt.Sprintf("D %v", c.DValue)
	}
	return "?"
}

func writeInstructions(sb *bytes.Buffer, insts []Instruction) {
	for i, inst := range insts {
		fmt.Fprintf(sb, "%d %s", i, inst.Op.Mnemonic())
		for _, operand := range inst.Operands {
			fmt.Fprintf(sb, " %d", operand)
		}
		sb.WriteByte('\n')
	}
}

// WriteBinary renders m as the bit-exact binary (o0) object: big-endian
// throughout, fixed field widths, no padding.
func WriteBinary(m *ObjectModel) ([]byte, error) {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.BigEndian, Magic); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, Version); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(m.Constants))); err != nil {
		return nil, err
	}
	for _, c := range m.Constants {
		if err := writeConstant(&buf, c); err != nil {
			return nil, err
		}
	}

	if err := writeInstructionsBinary(&buf, m.Start); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(m.Functions))); err != nil {
		return nil, err
	}
	for _, fn := range m.Functions {
		if err := binary.Write(&buf, binary.BigEndian, uint16(fn.NameIdx)); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(fn.ParamSize())); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(1)); err != nil {
			return nil, err
		}
		if err := writeInstructionsBinary(&buf, fn.Instructions); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func writeConstant(buf *bytes.Buffer, c Constant) error {
	switch c.Kind {
	case ConstStr:
		if err := buf.WriteByte(0); err != nil {
			return err
		}
		b := []byte(c.SValue)
		if err := binary.Write(buf, binary.BigEndian, uint16(len(b))); err != nil {
			return err
		}
		_, err := buf.Write(b)
		return err
	case ConstInt:
		if err := buf.WriteByte(1); err != nil {
			return err
		}
		return binary.Write(buf, binary.BigEndian, c.IValue)
	case ConstDouble:
		if err := buf.WriteByte(2); err != nil {
			return err
		}
		return binary.Write(buf, binary.BigEndian, math.Float64bits(c.DValue))
	}
	return fmt.Errorf("bytecode: unknown constant kind %d", c.Kind)
}

func writeInstructionsBinary(buf *bytes.Buffer, insts []Instruction) error {
	if err := binary.Write(buf, binary.BigEndian, uint16(len(insts))); err != nil {
		return err
	}
	for _, inst := range insts {
		if err := buf.WriteByte(byte(inst.Op)); err != nil {
			return err
		}
		spec, ok := LookupSpec(inst.Op)
		if !ok {
			return fmt.Errorf("bytecode: unknown opcode 0x%02x", byte(inst.Op))
		}
		if len(spec.OperandSizes) != len(inst.Operands) {
			return fmt.Errorf("bytecode: %s expects %d operand(s), got %d", spec.Mnemonic, len(spec.OperandSizes), len(inst.Operands))
		}
		for i, size := range spec.OperandSizes {
			if err := writeOperand(buf, size, inst.Operands[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeOperand(buf *bytes.Buffer, size int, value int64) error {
	switch size {
	case 1:
		return buf.WriteByte(byte(int8(value)))
	case 2:
		return binary.Write(buf, binary.BigEndian, int16(value))
	case 4:
		return binary.Write(buf, binary.BigEndian, int32(value))
	}
	return fmt.Errorf("bytecode: unsupported operand size %d", size)
}
