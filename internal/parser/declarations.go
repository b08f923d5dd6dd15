package parser

import (
	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/lexer"
)

// parseTypeSpec consumes a single type-specifier keyword (void/int/char/double)
// and wraps it in an ast.TypeSpec leaf.
func (p *Parser) parseTypeSpec() *ast.Node {
	if !p.cur().Type.IsTypeSpecifier() {
		p.addError(ExpectedTypeSpecifier, p.cur().Pos, "expected a type specifier, got %s %q", p.cur().Type, p.cur().Literal)
		return ast.NewToken(ast.TypeSpec, p.cur())
	}
	return ast.NewToken(ast.TypeSpec, p.advance())
}

// parseVarDecl parses `['const'] type_specifier declarator (',' declarator)* ';'`.
// It is used both for top-level (global) declarations and for the
// declarations that may open a compound statement.
func (p *Parser) parseVarDecl() *ast.Node {
	isConst := false
	if p.is(lexer.CONST) {
		p.advance()
		isConst = true
	}
	if !p.cur().Type.IsTypeSpecifier() {
		p.addError(InvalidVariableDeclaration, p.cur().Pos, "expected a type specifier in variable declaration, got %s %q", p.cur().Type, p.cur().Literal)
		p.skipToNextDecl()
		return nil
	}
	typeSpec := p.parseTypeSpec()

	children := []*ast.Node{typeSpec}
	for {
		decl := p.parseDeclarator()
		if decl == nil {
			p.skipToNextDecl()
			return nil
		}
		children = append(children, decl)
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.SEMI, MissingSemicolon); !ok {
		return nil
	}
	node := ast.New(ast.VarDecl, children...)
	node.Const = isConst
	return node
}

// parseDeclarator parses `IDENT ['=' expr]`.
func (p *Parser) parseDeclarator() *ast.Node {
	name, ok := p.expect(lexer.IDENT, ExpectedIdentifier)
	if !ok {
		return nil
	}
	nameNode := ast.NewToken(ast.Token, name)
	if p.is(lexer.ASSIGN) {
		p.advance()
		init := p.parseExpression()
		if init == nil {
			return nil
		}
		return ast.New(ast.Declarator, nameNode, init)
	}
	return ast.New(ast.Declarator, nameNode)
}

// parseFunctionDef parses `type_specifier IDENT '(' [param_list] ')' block`.
func (p *Parser) parseFunctionDef() *ast.Node {
	typeSpec := p.parseTypeSpec()
	name, ok := p.expect(lexer.IDENT, ExpectedIdentifier)
	if !ok {
		p.addError(InvalidFunctionDefinition, p.prevEnd(), "missing function name")
		return nil
	}
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidFunctionDefinition, p.prevEnd(), "expected '(' after function name")
		return nil
	}
	params := p.parseParamList()
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidFunctionDefinition, p.prevEnd(), "expected ')' to close parameter list")
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		p.addError(InvalidFunctionDefinition, p.prevEnd(), "expected a function body")
		return nil
	}
	return ast.New(ast.FuncDecl, typeSpec, ast.NewToken(ast.Token, name), params, body)
}

// parseParamList parses a (possibly empty) comma-separated parameter list.
func (p *Parser) parseParamList() *ast.Node {
	var params []*ast.Node
	if p.is(lexer.RPAREN) {
		return ast.New(ast.ParamList)
	}
	for {
		typeSpec := p.parseTypeSpec()
		name, ok := p.expect(lexer.IDENT, ExpectedIdentifier)
		if !ok {
			break
		}
		params = append(params, ast.New(ast.Param, typeSpec, ast.NewToken(ast.Token, name)))
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return ast.New(ast.ParamList, params...)
}

// parseStructDecl parses `'struct' IDENT '{' {type_specifier IDENT ';'} '}' ';'`.
// Struct support is recognized by the grammar but rejected by the analyzer;
// this parse exists purely so the analyzer sees a well-formed StructDecl
// node to reject with NotSupportedFeature.
func (p *Parser) parseStructDecl() *ast.Node {
	p.advance() // 'struct'
	name, ok := p.expect(lexer.IDENT, ExpectedIdentifier)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.LBRACE, ExpectedSymbol); !ok {
		return nil
	}
	var fields []*ast.Node
	for !p.is(lexer.RBRACE) && !p.is(lexer.EOF) {
		typeSpec := p.parseTypeSpec()
		fieldName, ok := p.expect(lexer.IDENT, ExpectedIdentifier)
		if !ok {
			break
		}
		if _, ok := p.expect(lexer.SEMI, MissingSemicolon); !ok {
			break
		}
		fields = append(fields, ast.New(ast.StructField, typeSpec, ast.NewToken(ast.Token, fieldName)))
	}
	p.expect(lexer.RBRACE, ExpectedSymbol)
	p.expect(lexer.SEMI, MissingSemicolon)
	children := append([]*ast.Node{ast.NewToken(ast.Token, name)}, fields...)
	return ast.New(ast.StructDecl, children...)
}
