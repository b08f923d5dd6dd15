package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `const int x = 3;
int main() { return x + 10; }
`

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"const", CONST},
		{"int", INT},
		{"x", IDENT},
		{"=", ASSIGN},
		{"3", INTLIT},
		{";", SEMI},
		{"int", INT},
		{"main", IDENT},
		{"(", LPAREN},
		{")", RPAREN},
		{"{", LBRACE},
		{"return", RETURN},
		{"x", IDENT},
		{"+", ADD},
		{"10", INTLIT},
		{";", SEMI},
		{"}", RBRACE},
		{"", EOF},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLiteralValues(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		value any
	}{
		{"0", INTLIT, int32(0)},
		{"42", INTLIT, int32(42)},
		{"0xFF", INTLIT, int32(255)},
		{"0X1a", INTLIT, int32(26)},
		{"2147483647", INTLIT, int32(2147483647)},
		{"3.14", DOUBLELIT, 3.14},
		{".5", DOUBLELIT, 0.5},
		{"1.", DOUBLELIT, 1.0},
		{"1e3", DOUBLELIT, 1000.0},
		{"1.5e-2", DOUBLELIT, 0.015},
		{"'A'", CHARLIT, byte('A')},
		{`'\n'`, CHARLIT, byte('\n')},
		{`'\x41'`, CHARLIT, byte('A')},
		{`"hi"`, STRLIT, "hi"},
		{`"a\nb"`, STRLIT, "a\nb"},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.typ {
			t.Fatalf("%q: expected type %s, got %s", tt.input, tt.typ, tok.Type)
		}
		if tok.Value != tt.value {
			t.Fatalf("%q: expected value %#v, got %#v", tt.input, tt.value, tok.Value)
		}
		if len(l.Errors()) != 0 {
			t.Fatalf("%q: unexpected errors: %v", tt.input, l.Errors())
		}
	}
}

func TestKeywordsNotIdentifiers(t *testing.T) {
	for word, want := range keywords {
		l := New(word)
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("keyword %q: expected kind %s, got %s (IDENT would be wrong)", word, want, tok.Type)
		}
		if tok.Type == IDENT {
			t.Errorf("reserved word %q must not lex as IDENT", word)
		}
	}
}

func TestIntegerOverflow(t *testing.T) {
	l := New("99999999999")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for overflowing literal, got %s", tok.Type)
	}
	errs := l.Errors()
	if len(errs) != 1 || errs[0].Kind != Integer32Overflow {
		t.Fatalf("expected a single Integer32Overflow error, got %v", errs)
	}
}

func TestLeadingZeroDigitIsError(t *testing.T) {
	l := New("012")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for leading-zero-then-digit, got %s", tok.Type)
	}
	if len(l.Errors()) != 1 || l.Errors()[0].Kind != InvalidInputForState {
		t.Fatalf("expected InvalidInputForState, got %v", l.Errors())
	}
}

func TestIllegalBang(t *testing.T) {
	l := New("!x")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for bare '!', got %s", tok.Type)
	}
	if len(l.Errors()) != 1 || l.Errors()[0].Kind != IllegalSingleCharOp {
		t.Fatalf("expected IllegalSingleCharOp, got %v", l.Errors())
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "int /* c */ x; // trailing\nint y;"
	l := New(input)
	var types []TokenType
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		types = append(types, tok.Type)
	}
	want := []TokenType{INT, IDENT, SEMI, INT, IDENT, SEMI}
	if len(types) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(types), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], types[i])
		}
	}
}

func TestPositionTracking(t *testing.T) {
	input := "int\nx;"
	l := New(input)
	tok := l.NextToken() // int
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("expected int at 1:1, got %s", tok.Pos)
	}
	tok = l.NextToken() // x
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("expected x at 2:1, got %s", tok.Pos)
	}
}
