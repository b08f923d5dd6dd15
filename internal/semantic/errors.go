// Package semantic implements the scoped symbol table and the single-pass
// analyzer that type-checks a C0 AST while emitting p-code into a
// bytecode.ObjectModel.
package semantic

import (
	"fmt"

	"github.com/cwbudde/cc0/internal/lexer"
)

// ErrorKind classifies an analyzer or symbol-table failure. Both
// taxonomies share this one enumeration and Error type, since both live
// in this package.
type ErrorKind int

const (
	ConstantNotInitialized ErrorKind = iota
	DuplicateSymbol
	UndefinedSymbol
	NoReturnValueForNotVoidFunction
	ReturnValueForVoidFunction
	NotCallingFunction
	FunctionNotDefined
	FunctionRedefinitionException
	MissingMain
	AssignToConstant
	ArgumentsNumberNotMatchException
	VoidVariableException
	UnknownVariableType
	VoidTypeCalculationNotSupported
	NotSupportedFeature

	// SymbolTable taxonomy. SymbolWithoutType has no raise site: every
	// Attrs carries a Type from construction.
	SymbolNotFound
	SymbolWithoutType
	FunctionTypeHasNoOffsetAttribute
)

var errorKindNames = map[ErrorKind]string{
	ConstantNotInitialized:           "ConstantNotInitialized",
	DuplicateSymbol:                  "DuplicateSymbol",
	UndefinedSymbol:                  "UndefinedSymbol",
	NoReturnValueForNotVoidFunction:  "NoReturnValueForNotVoidFunction",
	ReturnValueForVoidFunction:       "ReturnValueForVoidFunction",
	NotCallingFunction:               "NotCallingFunction",
	FunctionNotDefined:               "FunctionNotDefined",
	FunctionRedefinitionException:    "FunctionRedefinitionException",
	MissingMain:                      "MissingMain",
	AssignToConstant:                 "AssignToConstant",
	ArgumentsNumberNotMatchException: "ArgumentsNumberNotMatchException",
	VoidVariableException:            "VoidVariableException",
	UnknownVariableType:              "UnknownVariableType",
	VoidTypeCalculationNotSupported:  "VoidTypeCalculationNotSupported",
	NotSupportedFeature:              "NotSupportedFeature",
	SymbolNotFound:                   "SymbolNotFound",
	SymbolWithoutType:                "SymbolWithoutType",
	FunctionTypeHasNoOffsetAttribute: "FunctionTypeHasNoOffsetAttribute",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "UnknownSemanticError"
}

// Error is a single typed analyzer/symbol-table failure, carrying the
// source position of the offending AST node (or, for non-leaf nodes, the
// position recovered by descending to its first token, per ast.Node.Pos).
type Error struct {
	Kind    ErrorKind
	Pos     lexer.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

func newError(kind ErrorKind, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
