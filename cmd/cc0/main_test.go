package main

import (
	"testing"

	"github.com/cwbudde/cc0/internal/bytecode"
	"github.com/cwbudde/cc0/internal/lexer"
	"github.com/cwbudde/cc0/internal/parser"
	"github.com/cwbudde/cc0/internal/semantic"
	"github.com/gkampitakis/go-snaps/snaps"
)

// compileToText runs the full pipeline used by runCompile and returns the
// textual (s0) assembly, failing the test on any lex/parse/semantic error.
func compileToText(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	model, err := semantic.NewAnalyzer().Generate(program)
	if err != nil {
		t.Fatalf("unexpected semantic error: %v", err)
	}
	return bytecode.WriteText(model)
}

func TestSnapshotArithmeticAndPrint(t *testing.T) {
	src := `
int main() {
	int a;
	double b;
	a = 2 + 3 * 4;
	b = (double)a / 2.0;
	print(a, b);
	return 0;
}
`
	snaps.MatchSnapshot(t, "arithmetic_and_print", compileToText(t, src))
}

func TestSnapshotIfWhileControlFlow(t *testing.T) {
	src := `
void main() {
	int i;
	i = 0;
	while (i < 5) {
		if (i == 2) {
			print(i);
		} else {
			print(0);
		}
		i = i + 1;
	}
}
`
	snaps.MatchSnapshot(t, "if_while_control_flow", compileToText(t, src))
}

func TestSnapshotRecursiveFunction(t *testing.T) {
	src := `
int fact(int n) {
	if (n <= 1) {
		return 1;
	}
	return n * fact(n - 1);
}

void main() {
	print(fact(5));
}
`
	snaps.MatchSnapshot(t, "recursive_function", compileToText(t, src))
}

func TestSnapshotScanAndGlobals(t *testing.T) {
	src := `
int total = 0;

void main() {
	int x;
	char c;
	scan(x);
	scan(c);
	total = total + x;
	print(total, c);
}
`
	snaps.MatchSnapshot(t, "scan_and_globals", compileToText(t, src))
}
