// Package ast defines the Abstract Syntax Tree node types produced by the
// C0 parser.
//
// The tree is a single tagged-variant node type rather than a class
// hierarchy: every Node carries a Kind, an ordered list of Children, and —
// only for leaf "token" kinds — an embedded lexer.Token. Non-leaf kinds
// never carry a token; leaf kinds always do. The tree is immutable once the
// parser returns it; the semantic analyzer reads it but never mutates it.
package ast

import "github.com/cwbudde/cc0/internal/lexer"

// Kind tags the syntactic category of a Node.
type Kind int

const (
	// Program is the root of every parsed file: a sequence of top-level
	// variable declarations and function definitions.
	Program Kind = iota

	// Token is a leaf node wrapping a single lexer.Token (identifiers,
	// literals, and the bare operator/type-specifier tokens that only need
	// their lexeme and position, not a subtree).
	Token

	// Declarations
	VarDecl    // children: [TypeSpec, Declarator+]; Const (bool) in Node
	Declarator // children: [Token(ident), Expression?]
	TypeSpec   // leaf: Token(void|int|char|double)
	FuncDecl   // children: [TypeSpec, Token(name), ParamList, Block]
	ParamList  // children: Param*
	Param      // children: [TypeSpec, Token(ident)]

	// Statements
	Block            // children: Statement*
	ExprStmt         // children: [Expression]
	IfStmt           // children: [Condition, Statement(then), Statement(else)?]
	WhileStmt        // children: [Condition, Statement(body)]
	ReturnStmt       // children: [Expression?]
	PrintStmt        // children: Printable*
	ScanStmt         // children: [Token(ident)]
	ForStmt          // children: [Token(for), init, cond, post, body] (clauses may be EmptyStmt) — unsupported
	DoWhileStmt      // children: [Token(do), Statement(body), Condition] — unsupported
	SwitchStmt       // children: [Token(switch), Expression, CaseClause*] — unsupported
	CaseClause       // children: [Expression (EmptyStmt for default), Statement*]
	BreakStmt        // leaf: Token(break) — unsupported
	ContinueStmt     // leaf: Token(continue) — unsupported
	StructDecl       // children: [Token(name), Field*] — unsupported
	StructField      // children: [TypeSpec, Token(ident)]
	EmptyStmt        // no children; a bare ';'

	// Expressions
	Identifier       // leaf: Token(ident)
	IntLiteral       // leaf: Token(INTLIT)
	FloatLiteral     // leaf: Token(DOUBLELIT)
	CharLiteral      // leaf: Token(CHARLIT)
	StringLiteral    // leaf: Token(STRLIT)
	BinaryExpr       // children: [left, right]; Op in Node
	UnaryExpr        // children: [operand]; Op in Node
	AssignExpr       // children: [Identifier, Expression]
	CallExpr         // children: [Token(name), Arg*]
	CastExpr         // children: [TypeSpec, Expression]
	GroupExpr        // children: [Expression]
	Condition        // children: [left, right?]; Op in Node (bare expr when right==nil)
)

var kindNames = map[Kind]string{
	Program:       "Program",
	Token:         "Token",
	VarDecl:       "VarDecl",
	Declarator:    "Declarator",
	TypeSpec:      "TypeSpec",
	FuncDecl:      "FuncDecl",
	ParamList:     "ParamList",
	Param:         "Param",
	Block:         "Block",
	ExprStmt:      "ExprStmt",
	IfStmt:        "IfStmt",
	WhileStmt:     "WhileStmt",
	ReturnStmt:    "ReturnStmt",
	PrintStmt:     "PrintStmt",
	ScanStmt:      "ScanStmt",
	ForStmt:       "ForStmt",
	DoWhileStmt:   "DoWhileStmt",
	SwitchStmt:    "SwitchStmt",
	CaseClause:    "CaseClause",
	BreakStmt:     "BreakStmt",
	ContinueStmt:  "ContinueStmt",
	StructDecl:    "StructDecl",
	StructField:   "StructField",
	EmptyStmt:     "EmptyStmt",
	Identifier:    "Identifier",
	IntLiteral:    "IntLiteral",
	FloatLiteral:  "FloatLiteral",
	CharLiteral:   "CharLiteral",
	StringLiteral: "StringLiteral",
	BinaryExpr:    "BinaryExpr",
	UnaryExpr:     "UnaryExpr",
	AssignExpr:    "AssignExpr",
	CallExpr:      "CallExpr",
	CastExpr:      "CastExpr",
	GroupExpr:     "GroupExpr",
	Condition:     "Condition",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownKind"
}

// Node is the single AST node type. Exactly one of two shapes holds:
//   - a leaf "token" node: HasToken is true, Children is empty.
//   - any other node: HasToken is false, Children holds its ordered subtrees.
//
// Op carries the operator spelling for BinaryExpr/UnaryExpr/Condition nodes
// (e.g. "+", "<=", "-"); Const records whether a VarDecl/Declarator chain
// was introduced with the `const` qualifier. Both fields are zero-valued
// (empty string / false) on node kinds that don't use them.
type Node struct {
	Kind     Kind
	Tok      lexer.Token
	HasToken bool
	Children []*Node
	Op       string
	Const    bool
}

// NewToken builds a leaf token node.
func NewToken(kind Kind, tok lexer.Token) *Node {
	return &Node{Kind: kind, Tok: tok, HasToken: true}
}

// New builds a non-leaf node with the given children.
func New(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Pos returns the source position to blame this node on: its own token if
// it is a leaf, or the first token found by descending into its first
// non-nil child otherwise. Used by every error taxonomy that needs to
// anchor a diagnostic to an inner (non-leaf) AST node.
func (n *Node) Pos() lexer.Position {
	if n == nil {
		return lexer.Position{}
	}
	if n.HasToken {
		return n.Tok.Pos
	}
	for _, c := range n.Children {
		if c != nil {
			return c.Pos()
		}
	}
	return lexer.Position{}
}

// Literal returns the token's literal text for a leaf node, or "" otherwise.
func (n *Node) Literal() string {
	if n == nil || !n.HasToken {
		return ""
	}
	return n.Tok.Literal
}
