package parser

import (
	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/lexer"
)

// parseBlock parses `'{' {var_decl} {statement} '}'`.
func (p *Parser) parseBlock() *ast.Node {
	if _, ok := p.expect(lexer.LBRACE, ExpectedSymbol); !ok {
		return nil
	}
	var stmts []*ast.Node
	for p.cur().Type.IsTypeSpecifier() || p.is(lexer.CONST) {
		d := p.parseVarDecl()
		if d != nil {
			stmts = append(stmts, d)
		}
	}
	for !p.is(lexer.RBRACE) && !p.is(lexer.EOF) {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	if _, ok := p.expect(lexer.RBRACE, ExpectedSymbol); !ok {
		p.addError(InvalidStatement, p.prevEnd(), "expected '}' to close block")
	}
	return ast.New(ast.Block, stmts...)
}

// parseStatement dispatches on the first token of the statement.
func (p *Parser) parseStatement() *ast.Node {
	switch p.cur().Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.PRINT:
		return p.parsePrintStatement()
	case lexer.SCAN:
		return p.parseScanStatement()
	case lexer.BREAK:
		tok := p.advance()
		p.expect(lexer.SEMI, MissingSemicolon)
		return ast.NewToken(ast.BreakStmt, tok)
	case lexer.CONTINUE:
		tok := p.advance()
		p.expect(lexer.SEMI, MissingSemicolon)
		return ast.NewToken(ast.ContinueStmt, tok)
	case lexer.SEMI:
		p.advance()
		return ast.New(ast.EmptyStmt)
	case lexer.EOF:
		p.addError(InvalidStatement, p.prevEnd(), "expected a statement, found end of input")
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseIfStatement() *ast.Node {
	p.advance() // 'if'
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidIfStatement, p.prevEnd(), "expected '(' after 'if'")
		return nil
	}
	cond := p.parseCondition()
	if cond == nil {
		p.addError(InvalidIfStatement, p.prevEnd(), "expected a condition in 'if'")
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidIfStatement, p.prevEnd(), "expected ')' after 'if' condition")
		return nil
	}
	then := p.parseStatement()
	if then == nil {
		p.addError(InvalidIfStatement, p.prevEnd(), "expected a statement for the 'if' branch")
		return nil
	}
	if p.is(lexer.ELSE) {
		p.advance()
		els := p.parseStatement()
		if els == nil {
			p.addError(InvalidIfStatement, p.prevEnd(), "expected a statement for the 'else' branch")
			return nil
		}
		return ast.New(ast.IfStmt, cond, then, els)
	}
	return ast.New(ast.IfStmt, cond, then)
}

func (p *Parser) parseWhileStatement() *ast.Node {
	p.advance() // 'while'
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidStatement, p.prevEnd(), "expected '(' after 'while'")
		return nil
	}
	cond := p.parseCondition()
	if cond == nil {
		p.addError(InvalidStatement, p.prevEnd(), "expected a condition in 'while'")
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidStatement, p.prevEnd(), "expected ')' after 'while' condition")
		return nil
	}
	body := p.parseStatement()
	if body == nil {
		p.addError(InvalidStatement, p.prevEnd(), "expected a statement for the 'while' body")
		return nil
	}
	return ast.New(ast.WhileStmt, cond, body)
}

// parseForStatement parses `'for' '(' [expr] ';' [expr] ';' [expr] ')' statement`.
// Recognized by the grammar; the analyzer rejects it with NotSupportedFeature("for").
// The keyword token leads the child list: every clause may be empty, so
// without it the node would have no position to report the rejection at.
func (p *Parser) parseForStatement() *ast.Node {
	kw := p.advance() // 'for'
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		return nil
	}
	var initNode, condNode, postNode *ast.Node
	if !p.is(lexer.SEMI) {
		initNode = p.parseExpression()
	}
	p.expect(lexer.SEMI, MissingSemicolon)
	if !p.is(lexer.SEMI) {
		condNode = p.parseExpression()
	}
	p.expect(lexer.SEMI, MissingSemicolon)
	if !p.is(lexer.RPAREN) {
		postNode = p.parseExpression()
	}
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		return nil
	}
	body := p.parseStatement()
	children := []*ast.Node{ast.NewToken(ast.Token, kw), wrapOrEmpty(initNode), wrapOrEmpty(condNode), wrapOrEmpty(postNode), wrapOrEmpty(body)}
	return ast.New(ast.ForStmt, children...)
}

func wrapOrEmpty(n *ast.Node) *ast.Node {
	if n == nil {
		return ast.New(ast.EmptyStmt)
	}
	return n
}

// parseDoWhileStatement parses `'do' statement 'while' '(' condition ')' ';'`.
// Recognized by the grammar; the analyzer rejects it with NotSupportedFeature("do-while").
func (p *Parser) parseDoWhileStatement() *ast.Node {
	kw := p.advance() // 'do'
	body := p.parseStatement()
	if _, ok := p.expect(lexer.WHILE, ExpectedSymbol); !ok {
		return nil
	}
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		return nil
	}
	cond := p.parseCondition()
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		return nil
	}
	p.expect(lexer.SEMI, MissingSemicolon)
	return ast.New(ast.DoWhileStmt, ast.NewToken(ast.Token, kw), wrapOrEmpty(body), wrapOrEmpty(cond))
}

// parseSwitchStatement parses `'switch' '(' expr ')' '{' {case_clause} '}'`.
// Recognized by the grammar; the analyzer rejects it with NotSupportedFeature("switch").
func (p *Parser) parseSwitchStatement() *ast.Node {
	kw := p.advance() // 'switch'
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidSwitchStatement, p.prevEnd(), "expected '(' after 'switch'")
		return nil
	}
	subject := p.parseExpression()
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		p.addError(InvalidSwitchStatement, p.prevEnd(), "expected ')' after 'switch' subject")
		return nil
	}
	if _, ok := p.expect(lexer.LBRACE, ExpectedSymbol); !ok {
		p.addError(InvalidSwitchStatement, p.prevEnd(), "expected '{' to open 'switch' body")
		return nil
	}
	children := []*ast.Node{ast.NewToken(ast.Token, kw), wrapOrEmpty(subject)}
	for p.is(lexer.CASE) || p.is(lexer.DEFAULT) {
		children = append(children, p.parseCaseClause())
	}
	p.expect(lexer.RBRACE, ExpectedSymbol)
	return ast.New(ast.SwitchStmt, children...)
}

func (p *Parser) parseCaseClause() *ast.Node {
	var label *ast.Node
	if p.is(lexer.CASE) {
		p.advance()
		label = p.parseExpression()
	} else {
		p.advance() // 'default'
	}
	p.expect(lexer.COLON, ExpectedSymbol)
	var stmts []*ast.Node
	for !p.is(lexer.CASE) && !p.is(lexer.DEFAULT) && !p.is(lexer.RBRACE) && !p.is(lexer.EOF) {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	children := append([]*ast.Node{wrapOrEmpty(label)}, stmts...)
	return ast.New(ast.CaseClause, children...)
}

func (p *Parser) parseReturnStatement() *ast.Node {
	p.advance() // 'return'
	if p.is(lexer.SEMI) {
		p.advance()
		return ast.New(ast.ReturnStmt)
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(lexer.SEMI, MissingSemicolon); !ok {
		return nil
	}
	return ast.New(ast.ReturnStmt, expr)
}

// parsePrintStatement parses `'print' '(' [printable (',' printable)*] ')' ';'`
// where a printable is either a string literal or an expression.
func (p *Parser) parsePrintStatement() *ast.Node {
	p.advance() // 'print'
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		return nil
	}
	var items []*ast.Node
	if !p.is(lexer.RPAREN) {
		for {
			var item *ast.Node
			if p.is(lexer.STRLIT) {
				item = ast.NewToken(ast.StringLiteral, p.advance())
			} else {
				item = p.parseExpression()
			}
			if item == nil {
				return nil
			}
			items = append(items, item)
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
	if _, ok := p.expect(lexer.SEMI, MissingSemicolon); !ok {
		return nil
	}
	return ast.New(ast.PrintStmt, items...)
}

// parseScanStatement parses `'scan' '(' IDENT ')' ';'`.
func (p *Parser) parseScanStatement() *ast.Node {
	p.advance() // 'scan'
	if _, ok := p.expect(lexer.LPAREN, ExpectedSymbol); !ok {
		return nil
	}
	name, ok := p.expect(lexer.IDENT, ExpectedIdentifier)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN, ExpectedSymbol); !ok {
		return nil
	}
	if _, ok := p.expect(lexer.SEMI, MissingSemicolon); !ok {
		return nil
	}
	return ast.New(ast.ScanStmt, ast.NewToken(ast.Token, name))
}

func (p *Parser) parseExpressionStatement() *ast.Node {
	expr := p.parseExpression()
	if expr == nil {
		p.addError(InvalidStatement, p.cur().Pos, "expected a statement, got %s %q", p.cur().Type, p.cur().Literal)
		return nil
	}
	if _, ok := p.expect(lexer.SEMI, MissingSemicolon); !ok {
		return nil
	}
	return ast.New(ast.ExprStmt, expr)
}

// parseCondition parses `expr [relop expr]`, used by `if`/`while`.
func (p *Parser) parseCondition() *ast.Node {
	left := p.parseExpression()
	if left == nil {
		return nil
	}
	if p.cur().Type.IsRelational() {
		op := p.advance()
		right := p.parseExpression()
		if right == nil {
			return nil
		}
		node := ast.New(ast.Condition, left, right)
		node.Op = op.Literal
		return node
	}
	return ast.New(ast.Condition, left)
}
