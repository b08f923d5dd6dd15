// Package errors renders cc0's typed compiler errors as human-readable
// diagnostics: a file:line:column header, the offending source line with a
// line-number gutter, and a caret under the failing column. The package is
// policy-free about color: the caller decides. The cc0 driver always
// passes color=true; it does not check whether stderr is a terminal.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/cc0/internal/lexer"
)

// ANSI escape codes used when color output is requested.
const (
	ansiBold    = "\033[1m"
	ansiRedBold = "\033[1;31m"
	ansiDim     = "\033[2m"
	ansiReset   = "\033[0m"
)

// CompilerError is one diagnostic ready for rendering: the typed error's
// message plus the source text and file name needed to show context. The
// lexer, parser, and semantic packages each keep their own typed error; the
// driver converts whichever taxonomy failed into this one shape.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// NewCompilerError creates a new compiler error.
func NewCompilerError(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{
		Pos:     pos,
		Message: message,
		Source:  source,
		File:    file,
	}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with its source line and a caret under the
// offending column.
func (e *CompilerError) Format(color bool) string {
	return e.FormatWithContext(0, color)
}

// FormatWithContext renders like Format but surrounds the offending line
// with up to contextLines lines of source above and below, dimmed when
// color is enabled. A position outside the source (such as the zero
// position carried by whole-program errors) renders the header and message
// without a source excerpt.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	lines := strings.Split(e.Source, "\n")
	if e.Source != "" && e.Pos.Line >= 1 && e.Pos.Line <= len(lines) {
		start := e.Pos.Line - contextLines
		if start < 1 {
			start = 1
		}
		end := e.Pos.Line + contextLines
		if end > len(lines) {
			end = len(lines)
		}
		for n := start; n <= end; n++ {
			gutter := fmt.Sprintf("%4d | ", n)
			if n == e.Pos.Line {
				sb.WriteString(paint(color, ansiBold, gutter+lines[n-1]))
				sb.WriteByte('\n')
				sb.WriteString(strings.Repeat(" ", len(gutter)+e.Pos.Column-1))
				sb.WriteString(paint(color, ansiRedBold, "^"))
				sb.WriteByte('\n')
			} else {
				sb.WriteString(paint(color, ansiDim, gutter+lines[n-1]))
				sb.WriteByte('\n')
			}
		}
	}

	sb.WriteString(paint(color, ansiBold, e.Message))
	return sb.String()
}

// FormatErrors renders a batch of errors in order. A single error is
// rendered bare; multiple errors get a count header and per-error markers.
func FormatErrors(errors []*CompilerError, color bool) string {
	return FormatErrorsWithContext(errors, 0, color)
}

// FormatErrorsWithContext is FormatErrors with surrounding source context
// on each error.
func FormatErrorsWithContext(errors []*CompilerError, contextLines int, color bool) string {
	if len(errors) == 0 {
		return ""
	}
	if len(errors) == 1 {
		return errors[0].FormatWithContext(contextLines, color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compilation failed with %d error(s):\n\n", len(errors))
	for i, err := range errors {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errors))
		sb.WriteString(err.FormatWithContext(contextLines, color))
		if i < len(errors)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + ansiReset
}
