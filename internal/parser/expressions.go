package parser

import (
	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/lexer"
)

// parseExpression is the entry point for the expression grammar:
//
//	expr          := IDENT '=' expr | additive_expr
//	additive_expr := term (('+'|'-') term)*
//	term          := cast_expr (('*'|'/') cast_expr)*
//	cast_expr     := {'(' type_specifier ')'} unary_expr
//	unary_expr    := ('+'|'-') cast_expr | primary
//	primary       := INTLIT | DOUBLELIT | CHARLIT | STRLIT | '(' expr ')' | IDENT | IDENT '(' args ')'
//
// Assignment is recognized by a one-token lookahead past a leading
// identifier: `IDENT '='` can only start an assignment in C0 (there is no
// other construct beginning with `ident =`), so no backtracking is needed.
func (p *Parser) parseExpression() *ast.Node {
	if p.is(lexer.IDENT) && p.peek(1).Type == lexer.ASSIGN {
		name := p.advance()
		p.advance() // '='
		rhs := p.parseExpression()
		if rhs == nil {
			return nil
		}
		return ast.New(ast.AssignExpr, ast.NewToken(ast.Identifier, name), rhs)
	}
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() *ast.Node {
	left := p.parseTerm()
	if left == nil {
		return nil
	}
	for p.is(lexer.ADD) || p.is(lexer.SUB) {
		op := p.advance()
		right := p.parseTerm()
		if right == nil {
			return nil
		}
		node := ast.New(ast.BinaryExpr, left, right)
		node.Op = op.Literal
		left = node
	}
	return left
}

func (p *Parser) parseTerm() *ast.Node {
	left := p.parseCastExpr()
	if left == nil {
		return nil
	}
	for p.is(lexer.MUL) || p.is(lexer.DIV) {
		op := p.advance()
		right := p.parseCastExpr()
		if right == nil {
			return nil
		}
		node := ast.New(ast.BinaryExpr, left, right)
		node.Op = op.Literal
		left = node
	}
	return left
}

// isCastPrefix reports whether the cursor sits on a `'(' type_specifier ')'`
// sequence. Type keywords cannot start an expression on their own, so this
// lookahead unambiguously distinguishes a cast from a parenthesized
// expression.
func (p *Parser) isCastPrefix() bool {
	return p.is(lexer.LPAREN) && p.peek(1).Type.IsTypeSpecifier() && p.peek(2).Type == lexer.RPAREN
}

// parseCastExpr implements the `{'(' type ')'} unary` production. Casts
// chain left-to-right textually ("(int)(double)x" reads as int-cast of
// double-cast of x) but are applied inside-out at codegen time: the
// recursive structure built here (each CastExpr wraps the next, innermost
// last) is exactly what the semantic analyzer needs to
// apply conversions from the innermost cast outward without any reversal.
func (p *Parser) parseCastExpr() *ast.Node {
	if p.isCastPrefix() {
		p.advance() // '('
		typeSpec := p.parseTypeSpec()
		p.advance() // ')'
		inner := p.parseCastExpr()
		if inner == nil {
			return nil
		}
		return ast.New(ast.CastExpr, typeSpec, inner)
	}
	return p.parseUnary()
}

func (p *Parser) parseUnary() *ast.Node {
	if p.is(lexer.ADD) {
		p.advance()
		return p.parseCastExpr()
	}
	if p.is(lexer.SUB) {
		op := p.advance()
		operand := p.parseCastExpr()
		if operand == nil {
			return nil
		}
		node := ast.New(ast.UnaryExpr, operand)
		node.Op = op.Literal
		return node
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() *ast.Node {
	switch p.cur().Type {
	case lexer.INTLIT:
		return ast.NewToken(ast.IntLiteral, p.advance())
	case lexer.DOUBLELIT:
		return ast.NewToken(ast.FloatLiteral, p.advance())
	case lexer.CHARLIT:
		return ast.NewToken(ast.CharLiteral, p.advance())
	case lexer.STRLIT:
		return ast.NewToken(ast.StringLiteral, p.advance())
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
			return nil
		}
		return ast.New(ast.GroupExpr, inner)
	case lexer.IDENT:
		name := p.advance()
		if p.is(lexer.LPAREN) {
			return p.parseCallArgs(name)
		}
		return ast.NewToken(ast.Identifier, name)
	default:
		p.addError(InvalidExpression, p.cur().Pos, "expected an expression, got %s %q", p.cur().Type, p.cur().Literal)
		return nil
	}
}

// parseCallArgs parses `'(' [expr (',' expr)*] ')'` following a function
// name already consumed into name.
func (p *Parser) parseCallArgs(name lexer.Token) *ast.Node {
	p.advance() // '('
	children := []*ast.Node{ast.NewToken(ast.Token, name)}
	if !p.is(lexer.RPAREN) {
		for {
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			children = append(children, arg)
			if p.is(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		return nil
	}
	return ast.New(ast.CallExpr, children...)
}
