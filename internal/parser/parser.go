// Package parser implements a recursive-descent parser that turns a C0
// token stream into an ast.Node tree.
//
// Lookahead is provided by fully buffering the token stream up front (the
// compiler is single-pass but batch: the whole source is available before
// parsing starts), so "peek 3 tokens then unread" disambiguation is just an
// index read with no backtracking machinery required.
package parser

import (
	"fmt"

	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/lexer"
)

// Parser holds the buffered token stream and the current read position.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []*Error
}

// New creates a Parser over every token l produces.
func New(l *lexer.Lexer) *Parser {
	return &Parser{tokens: l.AllTokens()}
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) addError(kind ErrorKind, pos lexer.Position, format string, args ...any) {
	p.errors = append(p.errors, &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// cur returns the token at the current position.
func (p *Parser) cur() lexer.Token {
	return p.at(p.pos)
}

// peek returns the token n positions ahead of the current one. peek(1) is
// the next token.
func (p *Parser) peek(n int) lexer.Token {
	return p.at(p.pos + n)
}

func (p *Parser) at(i int) lexer.Token {
	if i < 0 {
		i = 0
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

// prevEnd returns the position of the last consumed token, used to anchor
// errors raised on premature end-of-input.
func (p *Parser) prevEnd() lexer.Position {
	return p.at(p.pos - 1).Pos
}

// advance consumes the current token and returns it.
func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// is reports whether the current token has type tt.
func (p *Parser) is(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

// expect consumes the current token if it has type tt, otherwise records a
// typed error and leaves the cursor in place.
func (p *Parser) expect(tt lexer.TokenType, kind ErrorKind) (lexer.Token, bool) {
	if p.is(tt) {
		return p.advance(), true
	}
	p.addError(kind, p.cur().Pos, "expected %s, got %s %q", tt, p.cur().Type, p.cur().Literal)
	return lexer.Token{}, false
}

// ParseProgram parses the whole token stream into an ast.Program node.
// Individual declarations that fail to parse are skipped (to the next
// plausible declaration boundary) so the remaining errors in the file are
// also reported.
func (p *Parser) ParseProgram() *ast.Node {
	var decls []*ast.Node
	for !p.is(lexer.EOF) {
		before := p.pos
		d := p.parseTopLevelDecl()
		if d != nil {
			decls = append(decls, d)
		}
		if p.pos == before {
			// Safety valve: parseTopLevelDecl must always make progress.
			p.advance()
		}
	}
	return ast.New(ast.Program, decls...)
}

// parseTopLevelDecl dispatches between a struct declaration, a function
// definition, and a variable declaration by peeking ahead far enough to
// disambiguate without committing to either parse.
func (p *Parser) parseTopLevelDecl() *ast.Node {
	if p.is(lexer.STRUCT) {
		return p.parseStructDecl()
	}
	if p.is(lexer.CONST) {
		return p.parseVarDecl()
	}
	if !p.cur().Type.IsTypeSpecifier() {
		p.addError(InvalidStatement, p.cur().Pos, "expected a top-level declaration, got %s %q", p.cur().Type, p.cur().Literal)
		p.skipToNextDecl()
		return nil
	}
	// type_specifier IDENT '(' => function definition; otherwise a variable
	// declaration.
	if p.peek(1).Type == lexer.IDENT && p.peek(2).Type == lexer.LPAREN {
		return p.parseFunctionDef()
	}
	return p.parseVarDecl()
}

// skipToNextDecl advances past tokens until it has consumed a semicolon or
// reaches a token that plausibly starts the next declaration (a type
// specifier, 'const' or 'struct'); a closing brace does not stop it. This
// way a single malformed declaration doesn't cascade into spurious errors
// for the rest of the file.
func (p *Parser) skipToNextDecl() {
	for !p.is(lexer.EOF) {
		if p.cur().Type == lexer.SEMI {
			p.advance()
			return
		}
		if p.cur().Type.IsTypeSpecifier() || p.cur().Type == lexer.CONST || p.cur().Type == lexer.STRUCT {
			return
		}
		p.advance()
	}
}
