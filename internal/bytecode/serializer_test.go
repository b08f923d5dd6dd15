package bytecode

import (
	"strings"
	"testing"
)

func TestBinaryHeaderIsExact(t *testing.T) {
	m := NewObjectModel()
	data, err := WriteBinary(m)
	if err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	want := []byte{0x43, 0x30, 0x3A, 0x29, 0x00, 0x00, 0x00, 0x01}
	if len(data) < len(want) {
		t.Fatalf("image too short: %d bytes", len(data))
	}
	for i, b := range want {
		if data[i] != b {
			t.Fatalf("byte %d: expected 0x%02x, got 0x%02x", i, b, data[i])
		}
	}
}

func TestBinaryImageLengthMatchesLayout(t *testing.T) {
	m := NewObjectModel()
	m.AddFunction(Int, "main", m.AddConstant(Constant{Kind: ConstStr, SValue: "main"}), nil)
	m.Emit(IPUSH, 3)
	m.Emit(IRET)
	data, err := WriteBinary(m)
	if err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	// header(8) + constants_count(2) + 1 string const (1+2+4=7) + start
	// count(2, empty) + functions_count(2) + one function header
	// (2+2+2=6) + instructions_count(2) + ipush(1+4) + iret(1) = 8+2+7+2+2+6+2+5+1
	expectedLen := 8 + 2 + 7 + 2 + 2 + 6 + 2 + 5 + 1
	if len(data) != expectedLen {
		t.Fatalf("expected %d bytes, got %d", expectedLen, len(data))
	}
}

func TestTextualSectionsPresent(t *testing.T) {
	m := NewObjectModel()
	nameIdx := m.AddConstant(Constant{Kind: ConstStr, SValue: "main"})
	m.AddFunction(Int, "main", nameIdx, nil)
	m.Emit(IPUSH, 0)
	m.Emit(IRET)
	out := WriteText(m)
	for _, want := range []string{".constants:", ".start:", ".functions:", "main:", "ipush 0", "iret"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected textual output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTextualStringConstantIsQuoted(t *testing.T) {
	m := NewObjectModel()
	m.AddConstant(Constant{Kind: ConstStr, SValue: "hi"})
	out := WriteText(m)
	if !strings.Contains(out, `"hi"`) {
		t.Errorf("expected quoted string constant, got:\n%s", out)
	}
}
