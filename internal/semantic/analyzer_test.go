package semantic

import (
	"testing"

	"github.com/cwbudde/cc0/internal/bytecode"
	"github.com/cwbudde/cc0/internal/lexer"
	"github.com/cwbudde/cc0/internal/parser"
)

func compile(t *testing.T, src string) (*bytecode.ObjectModel, *Error) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(l.Errors()) > 0 {
		t.Fatalf("unexpected lex errors: %v", l.Errors())
	}
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return NewAnalyzer().Generate(prog)
}

func mustCompile(t *testing.T, src string) *bytecode.ObjectModel {
	t.Helper()
	m, err := compile(t, src)
	if err != nil {
		t.Fatalf("unexpected semantic error: %v", err)
	}
	return m
}

func mustFail(t *testing.T, src string, want ErrorKind) *Error {
	t.Helper()
	_, err := compile(t, src)
	if err == nil {
		t.Fatalf("expected a semantic error, got none")
	}
	if err.Kind != want {
		t.Fatalf("expected %s, got %s (%s)", want, err.Kind, err.Message)
	}
	return err
}

func TestMissingMainFails(t *testing.T) {
	mustFail(t, `int f() { return 1; }`, MissingMain)
}

func TestSimplestMainCompiles(t *testing.T) {
	m := mustCompile(t, `void main() { }`)
	if !m.HasFunction("main") {
		t.Fatalf("expected main to be registered")
	}
	fn, _ := m.FunctionByName("main")
	if fn.ReturnType != bytecode.Void {
		t.Fatalf("expected void return type")
	}
	last := fn.Instructions[len(fn.Instructions)-1]
	if last.Op != bytecode.RET {
		t.Fatalf("expected defensive ret epilogue, got %s", last.Op.Mnemonic())
	}
}

func TestIntMainGetsDefensiveIretEpilogue(t *testing.T) {
	m := mustCompile(t, `int main() { return 0; }`)
	fn, _ := m.FunctionByName("main")
	n := len(fn.Instructions)
	if fn.Instructions[n-1].Op != bytecode.IRET || fn.Instructions[n-2].Op != bytecode.IPUSH {
		t.Fatalf("expected trailing ipush 0; iret epilogue, got %+v", fn.Instructions[n-2:])
	}
}

func TestDoubleMainGetsDefensiveDretEpilogue(t *testing.T) {
	m := mustCompile(t, `double main() { return 0.0; }`)
	fn, _ := m.FunctionByName("main")
	n := len(fn.Instructions)
	if fn.Instructions[n-1].Op != bytecode.DRET || fn.Instructions[n-2].Op != bytecode.I2D {
		t.Fatalf("expected trailing i2d; dret epilogue, got %+v", fn.Instructions[n-2:])
	}
}

func TestConstantNotInitialized(t *testing.T) {
	mustFail(t, `const int x; void main() { }`, ConstantNotInitialized)
}

func TestDuplicateSymbolInSameScope(t *testing.T) {
	mustFail(t, `void main() { int x; int x; }`, DuplicateSymbol)
}

func TestAssignToConstantFails(t *testing.T) {
	mustFail(t, `void main() { const int x = 1; x = 2; }`, AssignToConstant)
}

func TestUndefinedSymbolFails(t *testing.T) {
	mustFail(t, `void main() { y = 1; }`, UndefinedSymbol)
}

func TestFunctionRedefinitionFails(t *testing.T) {
	mustFail(t, `void f() { } void f() { } void main() { }`, FunctionRedefinitionException)
}

func TestFunctionNotDefinedFails(t *testing.T) {
	mustFail(t, `void main() { g(); }`, FunctionNotDefined)
}

func TestArgumentsNumberMismatchFails(t *testing.T) {
	mustFail(t, `int f(int a) { return a; } void main() { f(); }`, ArgumentsNumberNotMatchException)
}

func TestNoReturnValueForNotVoidFunctionFails(t *testing.T) {
	mustFail(t, `int f() { int x; } void main() { }`, NoReturnValueForNotVoidFunction)
}

func TestReturnValueForVoidFunctionFails(t *testing.T) {
	mustFail(t, `void f() { return 1; } void main() { }`, ReturnValueForVoidFunction)
}

func TestVoidVariableExceptionFails(t *testing.T) {
	mustFail(t, `void main() { void x; }`, VoidVariableException)
}

func TestStructDeclIsRejected(t *testing.T) {
	mustFail(t, `struct s { int x; }; void main() { }`, NotSupportedFeature)
}

// TestForStatementIsRejected also pins the diagnostic to the 'for' keyword
// itself: every clause of `for (;;)` is empty, so the position must come
// from the keyword token, not from a clause.
func TestForStatementIsRejected(t *testing.T) {
	err := mustFail(t, `void main() { for (;;) { } }`, NotSupportedFeature)
	if err.Pos.Line != 1 || err.Pos.Column != 15 {
		t.Fatalf("expected the error at the 'for' keyword (1:15), got %s", err.Pos)
	}
}

func TestDoWhileStatementIsRejected(t *testing.T) {
	mustFail(t, `void main() { do { } while (1); }`, NotSupportedFeature)
}

func TestSwitchStatementIsRejected(t *testing.T) {
	mustFail(t, `void main() { switch (1) { case 1: break; } }`, NotSupportedFeature)
}

func TestBreakAndContinueAreRejected(t *testing.T) {
	mustFail(t, `void main() { while (1) { break; } }`, NotSupportedFeature)
	mustFail(t, `void main() { while (1) { continue; } }`, NotSupportedFeature)
}

// TestBinaryLeftPromotionSplicesI2D covers an int left operand combined
// with a double right operand: since the left side's code was emitted
// first and ends before the right side's, promoting it requires splicing
// i2d in between the two operands' code rather than appending it at the
// end (which would wrongly convert the right operand instead).
func TestBinaryLeftPromotionSplicesI2D(t *testing.T) {
	m := mustCompile(t, `double main() { return 1 + 2.0; }`)
	fn, _ := m.FunctionByName("main")
	var ops []bytecode.Opcode
	for _, in := range fn.Instructions {
		ops = append(ops, in.Op)
	}
	// ipush 1; i2d (spliced); loadc(2.0); dadd; ...
	idxIpush, idxLoadc := -1, -1
	for i, op := range ops {
		if op == bytecode.IPUSH && idxIpush == -1 {
			idxIpush = i
		}
		if op == bytecode.LOADC && idxLoadc == -1 {
			idxLoadc = i
		}
	}
	if idxIpush == -1 || idxLoadc == -1 || ops[idxIpush+1] != bytecode.I2D || idxIpush+1 >= idxLoadc {
		t.Fatalf("expected i2d spliced between ipush and loadc, got %v", ops)
	}
}

// TestBinaryRightPromotionAppendsI2D covers a double left operand combined
// with an int right operand: the right operand's code is the last thing
// emitted, so promoting it is a plain append immediately afterward.
func TestBinaryRightPromotionAppendsI2D(t *testing.T) {
	m := mustCompile(t, `double main() { return 2.0 + 1; }`)
	fn, _ := m.FunctionByName("main")
	var ops []bytecode.Opcode
	for _, in := range fn.Instructions {
		ops = append(ops, in.Op)
	}
	// Only the first ipush is the right operand; the double epilogue's
	// trailing "ipush 0; i2d" must not satisfy this check.
	foundI2DAfterIpush := false
	for i, op := range ops {
		if op == bytecode.IPUSH {
			foundI2DAfterIpush = i+1 < len(ops) && ops[i+1] == bytecode.I2D
			break
		}
	}
	if !foundI2DAfterIpush {
		t.Fatalf("expected i2d immediately after ipush, got %v", ops)
	}
}

func TestCastChainAppliesInsideOut(t *testing.T) {
	// (int)(double)1 : innermost cast converts int literal 1 to double
	// (i2d), outer cast converts that double back to int (d2i).
	m := mustCompile(t, `int main() { return (int)(double)1; }`)
	fn, _ := m.FunctionByName("main")
	var ops []bytecode.Opcode
	for _, in := range fn.Instructions {
		ops = append(ops, in.Op)
	}
	foundI2D, foundD2IAfter := false, false
	for _, op := range ops {
		if op == bytecode.I2D {
			foundI2D = true
		}
		if foundI2D && op == bytecode.D2I {
			foundD2IAfter = true
		}
	}
	if !foundI2D || !foundD2IAfter {
		t.Fatalf("expected i2d followed later by d2i, got %v", ops)
	}
}

func TestIfEmitsBackpatchedForwardJump(t *testing.T) {
	m := mustCompile(t, `void main() { int x; if (x < 1) { x = 1; } }`)
	fn, _ := m.FunctionByName("main")
	var jgeIdx = -1
	for i, in := range fn.Instructions {
		if in.Op == bytecode.JGE {
			jgeIdx = i
			break
		}
	}
	if jgeIdx == -1 {
		t.Fatalf("expected a jge for '<' condition, got %+v", fn.Instructions)
	}
	target := fn.Instructions[jgeIdx].Operands[0]
	if int(target) <= jgeIdx || int(target) > len(fn.Instructions) {
		t.Fatalf("expected jge target to point forward within bounds, got %d (len=%d)", target, len(fn.Instructions))
	}
}

func TestWhileEmitsBackwardJump(t *testing.T) {
	m := mustCompile(t, `void main() { int x; while (x < 1) { x = x + 1; } }`)
	fn, _ := m.FunctionByName("main")
	var jmpIdx = -1
	for i, in := range fn.Instructions {
		if in.Op == bytecode.JMP {
			jmpIdx = i
		}
	}
	if jmpIdx == -1 {
		t.Fatalf("expected a backward jmp closing the loop")
	}
	if int(fn.Instructions[jmpIdx].Operands[0]) >= jmpIdx {
		t.Fatalf("expected jmp to target backward to the condition, got %d at index %d", fn.Instructions[jmpIdx].Operands[0], jmpIdx)
	}
}

func TestPrintInsertsSpaceBetweenItems(t *testing.T) {
	m := mustCompile(t, `void main() { print(1, 2); }`)
	fn, _ := m.FunctionByName("main")
	var ops []bytecode.Opcode
	for _, in := range fn.Instructions {
		ops = append(ops, in.Op)
	}
	foundSpacer := false
	for i := 0; i+1 < len(ops); i++ {
		if ops[i] == bytecode.BIPUSH && ops[i+1] == bytecode.CPRINT {
			foundSpacer = true
		}
	}
	if !foundSpacer {
		t.Fatalf("expected a bipush 32; cprint spacer between print items, got %v", ops)
	}
}

func TestScanCharUsesIstore(t *testing.T) {
	m := mustCompile(t, `void main() { char c; scan(c); }`)
	fn, _ := m.FunctionByName("main")
	foundCscan, foundIstoreAfter := false, false
	for _, in := range fn.Instructions {
		if in.Op == bytecode.CSCAN {
			foundCscan = true
		}
		if foundCscan && in.Op == bytecode.ISTORE {
			foundIstoreAfter = true
		}
	}
	if !foundCscan || !foundIstoreAfter {
		t.Fatalf("expected cscan followed by istore")
	}
}

func TestRecursiveCallResolvesAgainstItself(t *testing.T) {
	m := mustCompile(t, `int fact(int n) { return n * fact(n); } void main() { }`)
	fn, _ := m.FunctionByName("fact")
	foundCall := false
	for _, in := range fn.Instructions {
		if in.Op == bytecode.CALL {
			foundCall = true
		}
	}
	if !foundCall {
		t.Fatalf("expected a recursive call instruction")
	}
}

func TestGlobalDeclarationsRouteIntoStartStream(t *testing.T) {
	m := mustCompile(t, `int g = 1; void main() { }`)
	if len(m.Start) == 0 {
		t.Fatalf("expected global initializer code in the start stream")
	}
}
