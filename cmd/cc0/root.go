package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/bytecode"
	"github.com/cwbudde/cc0/internal/errors"
	"github.com/cwbudde/cc0/internal/lexer"
	"github.com/cwbudde/cc0/internal/parser"
	"github.com/cwbudde/cc0/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	flagTextual   bool
	flagBinary    bool
	flagOutput    string
	flagPrintAST  bool
	flagPrintFull bool
)

var rootCmd = &cobra.Command{
	Use:   "cc0 [options] input",
	Short: "Compile a C0 source file to a p-code image",
	Long: `cc0 is a single-pass compiler for the C0 teaching language.

It tokenizes, parses, and type-checks one source file and emits a
stack-machine p-code image, either as textual assembly (-s) or as a
binary object (-c).`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCompile,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagTextual, "textual", "s", false, "produce textual assembly (s0)")
	rootCmd.Flags().BoolVarP(&flagBinary, "binary", "c", false, "produce binary object (o0)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "./out", "output path")
	rootCmd.Flags().BoolVarP(&flagPrintAST, "ast", "a", false, "print the abstract AST to stdout (collapsed)")
	rootCmd.Flags().BoolVarP(&flagPrintFull, "ast-full", "A", false, "print the full AST to stdout")
}

func runCompile(_ *cobra.Command, args []string) error {
	if flagTextual == flagBinary {
		if flagTextual {
			return fmt.Errorf("-s and -c are mutually exclusive")
		}
		return fmt.Errorf("one of -s or -c is required")
	}

	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	source := string(content)

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if lexErrs := l.Errors(); len(lexErrs) > 0 {
		return reportLexErrors(lexErrs, source, filename)
	}
	if len(p.Errors()) > 0 {
		return reportParseErrors(p.Errors(), source, filename)
	}

	if flagPrintAST {
		fmt.Println(ast.Print(program, true))
	}
	if flagPrintFull {
		fmt.Println(ast.Print(program, false))
	}

	analyzer := semantic.NewAnalyzer()
	model, semErr := analyzer.Generate(program)
	if semErr != nil {
		return reportSemanticError(semErr, source, filename)
	}

	var data []byte
	if flagTextual {
		data = []byte(bytecode.WriteText(model))
	} else {
		data, err = bytecode.WriteBinary(model)
		if err != nil {
			return fmt.Errorf("failed to serialize image: %w", err)
		}
	}

	if err := os.WriteFile(flagOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flagOutput, err)
	}
	return nil
}

func reportLexErrors(lexErrs []lexer.Error, source, filename string) error {
	var out []*errors.CompilerError
	for _, e := range lexErrs {
		out = append(out, errors.NewCompilerError(e.Pos, e.Error(), source, filename))
	}
	fmt.Fprint(os.Stderr, errors.FormatErrors(out, true))
	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("lexing failed with %d error(s)", len(lexErrs))
}

func reportParseErrors(parseErrs []*parser.Error, source, filename string) error {
	var out []*errors.CompilerError
	for _, e := range parseErrs {
		out = append(out, errors.NewCompilerError(e.Pos, e.Error(), source, filename))
	}
	fmt.Fprint(os.Stderr, errors.FormatErrors(out, true))
	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("parsing failed with %d error(s)", len(parseErrs))
}

// reportSemanticError shows a line of surrounding source on each side: the
// analyzer stops at its first error, so the single diagnostic can afford
// more context than the accumulated lex/parse batches.
func reportSemanticError(semErr *semantic.Error, source, filename string) error {
	out := []*errors.CompilerError{errors.NewCompilerError(semErr.Pos, semErr.Error(), source, filename)}
	fmt.Fprint(os.Stderr, errors.FormatErrorsWithContext(out, 1, true))
	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("semantic analysis failed: %s", semErr.Kind)
}
