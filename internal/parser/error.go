package parser

import (
	"fmt"

	"github.com/cwbudde/cc0/internal/lexer"
)

// ErrorKind classifies a single parse error.
type ErrorKind int

const (
	InvalidVariableDeclaration ErrorKind = iota
	InvalidFunctionDefinition
	InvalidStatement
	InvalidExpression
	ExpectedSymbol
	ExpectedTypeSpecifier
	ExpectedIdentifier
	ExpectedInt32
	ExpectedCharLiteral
	ExpectedFloatLiteral
	ExpectedStrLiteral
	InvalidIfStatement
	InvalidSwitchStatement
	MissingSemicolon
)

var errorKindNames = map[ErrorKind]string{
	InvalidVariableDeclaration: "InvalidVariableDeclaration",
	InvalidFunctionDefinition:  "InvalidFunctionDefinition",
	InvalidStatement:           "InvalidStatement",
	InvalidExpression:          "InvalidExpression",
	ExpectedSymbol:             "ExpectedSymbol",
	ExpectedTypeSpecifier:      "ExpectedTypeSpecifier",
	ExpectedIdentifier:         "ExpectedIdentifier",
	ExpectedInt32:              "ExpectedInt32",
	ExpectedCharLiteral:        "ExpectedCharLiteral",
	ExpectedFloatLiteral:       "ExpectedFloatLiteral",
	ExpectedStrLiteral:         "ExpectedStrLiteral",
	InvalidIfStatement:         "InvalidIfStatement",
	InvalidSwitchStatement:     "InvalidSwitchStatement",
	MissingSemicolon:           "MissingSemicolon",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "UnknownParseError"
}

// Error is a single typed parse error carrying the source position of the
// offending token.
type Error struct {
	Kind    ErrorKind
	Pos     lexer.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}
