package semantic

import (
	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/bytecode"
	"github.com/cwbudde/cc0/internal/lexer"
)

// Analyzer walks an ast.Program exactly once, maintaining a SymbolTable and
// emitting p-code into a bytecode.ObjectModel as it goes: every visited
// node both type-checks and emits.
//
// Unlike the tokenizer and parser, which accumulate every error they find,
// the analyzer stops at its first failure: nothing is recovered
// mid-compilation. Generate signals that failure through a single
// returned *Error rather than a slice.
type Analyzer struct {
	table  *SymbolTable
	model  *bytecode.ObjectModel
	curRet bytecode.PType
	curFn  string
}

// NewAnalyzer returns an Analyzer ready to walk a freshly parsed program.
func NewAnalyzer() *Analyzer {
	return &Analyzer{table: NewSymbolTable(), model: bytecode.NewObjectModel()}
}

// abort is the sentinel panic payload fail uses to unwind straight out of
// Generate on the first semantic error.
type abort struct{ err *Error }

func (a *Analyzer) fail(kind ErrorKind, pos lexer.Position, format string, args ...any) {
	panic(abort{newError(kind, pos, format, args...)})
}

// Generate type-checks and compiles prog, returning the populated object
// model on success or the first semantic error encountered.
func (a *Analyzer) Generate(prog *ast.Node) (model *bytecode.ObjectModel, err *Error) {
	defer func() {
		if r := recover(); r != nil {
			if ab, ok := r.(abort); ok {
				err = ab.err
				return
			}
			panic(r)
		}
	}()

	for _, decl := range prog.Children {
		a.analyzeTopLevelDecl(decl)
	}
	if !a.model.HasFunction("main") {
		a.fail(MissingMain, lexer.Position{}, "program has no 'main' function")
	}
	return a.model, nil
}

func (a *Analyzer) analyzeTopLevelDecl(decl *ast.Node) {
	switch decl.Kind {
	case ast.VarDecl:
		a.analyzeVarDecl(decl)
	case ast.FuncDecl:
		a.analyzeFunctionDef(decl)
	case ast.StructDecl:
		a.fail(NotSupportedFeature, decl.Pos(), "struct declarations are not supported")
	default:
		a.fail(NotSupportedFeature, decl.Pos(), "unsupported top-level construct %s", decl.Kind)
	}
}

// typeOf reads the primitive type named by a leaf ast.TypeSpec node.
func typeOf(spec *ast.Node) bytecode.PType {
	switch spec.Literal() {
	case "void":
		return bytecode.Void
	case "int":
		return bytecode.Int
	case "char":
		return bytecode.Char
	case "double":
		return bytecode.Double
	}
	return bytecode.Void
}

// promote implements "char is promoted to int on use in any operator": at
// the type level only, no conversion instruction is emitted since char and
// int share the same one-slot representation and load/store opcodes.
func promote(t bytecode.PType) bytecode.PType {
	if t == bytecode.Char {
		return bytecode.Int
	}
	return t
}

// coerce emits the instruction(s) needed to convert a value already on the
// stack from `from` to `to`.
func (a *Analyzer) coerce(from, to bytecode.PType, pos lexer.Position) {
	if from == bytecode.Void {
		a.fail(VoidTypeCalculationNotSupported, pos, "a void value cannot be used here")
	}
	switch {
	case from == to:
		return
	case from == bytecode.Int && to == bytecode.Char:
		a.model.Emit(bytecode.I2C)
	case from == bytecode.Int && to == bytecode.Double:
		a.model.Emit(bytecode.I2D)
	case from == bytecode.Char && to == bytecode.Int:
		// no conversion: char and int share representation and load/store.
	case from == bytecode.Char && to == bytecode.Double:
		a.model.Emit(bytecode.I2D)
	case from == bytecode.Double && to == bytecode.Int:
		a.model.Emit(bytecode.D2I)
	case from == bytecode.Double && to == bytecode.Char:
		a.model.Emit(bytecode.D2I)
		a.model.Emit(bytecode.I2C)
	default:
		a.fail(UnknownVariableType, pos, "cannot convert %s to %s", from, to)
	}
}

// analyzeVarDecl implements the variable-declaration algorithm, used for
// both global declarations (before any function has been added, so
// emission routes into the start stream) and function-local ones.
func (a *Analyzer) analyzeVarDecl(node *ast.Node) {
	typeSpec := node.Children[0]
	t := typeOf(typeSpec)
	if t == bytecode.Void {
		a.fail(VoidVariableException, typeSpec.Pos(), "variable cannot have type void")
	}
	for _, decl := range node.Children[1:] {
		nameTok := decl.Children[0]
		name := nameTok.Literal()
		if a.table.ContainsLocal(name) {
			a.fail(DuplicateSymbol, nameTok.Pos(), "%q is already declared in this scope", name)
		}
		a.table.Add(name, t, node.Const, false)
		a.model.Emit(bytecode.SNEW, int64(t.Size()))

		if len(decl.Children) == 1 {
			if node.Const {
				a.fail(ConstantNotInitialized, nameTok.Pos(), "const %q must be initialized", name)
			}
			continue
		}
		initExpr := decl.Children[1]
		ld, off, symErr := a.table.Offset(name)
		if symErr != nil {
			a.fail(symErr.Kind, nameTok.Pos(), "%s", symErr.Message)
		}
		a.model.Emit(bytecode.LOADA, int64(ld), int64(off))
		initType := a.analyzeExpr(initExpr)
		a.coerce(initType, t, initExpr.Pos())
		if t == bytecode.Double {
			a.model.Emit(bytecode.DSTORE)
		} else {
			a.model.Emit(bytecode.ISTORE)
		}
	}
}

// analyzeFunctionDef implements the function-definition algorithm:
// register the function and its parameters before compiling the
// body (so self-recursive calls resolve), compile the body directly inside
// the one new-frame scope the parameters already live in, check for a
// missing return on a non-void function, then emit the unconditional
// defensive epilogue.
func (a *Analyzer) analyzeFunctionDef(node *ast.Node) {
	typeSpec := node.Children[0]
	nameTok := node.Children[1]
	paramList := node.Children[2]
	body := node.Children[3]

	returnType := typeOf(typeSpec)
	name := nameTok.Literal()
	if a.model.HasFunction(name) {
		a.fail(FunctionRedefinitionException, nameTok.Pos(), "function %q is already defined", name)
	}

	var paramTypes []bytecode.PType
	for _, p := range paramList.Children {
		paramTypes = append(paramTypes, typeOf(p.Children[0]))
	}
	nameIdx := a.model.AddConstant(bytecode.Constant{Kind: bytecode.ConstStr, SValue: name})
	a.model.AddFunction(returnType, name, nameIdx, paramTypes)
	a.table.Add(name, returnType, false, true)

	a.table.EnterScope(true)
	for _, p := range paramList.Children {
		pt := typeOf(p.Children[0])
		pNameTok := p.Children[1]
		pname := pNameTok.Literal()
		if pt == bytecode.Void {
			a.fail(VoidVariableException, p.Pos(), "parameter %q cannot have type void", pname)
		}
		if a.table.ContainsLocal(pname) {
			a.fail(DuplicateSymbol, pNameTok.Pos(), "parameter %q is already declared", pname)
		}
		a.table.Add(pname, pt, false, false)
	}

	prevRet, prevFn := a.curRet, a.curFn
	a.curRet, a.curFn = returnType, name

	stats := a.analyzeBlockContents(body.Children)
	if returnType != bytecode.Void && stats["return"] == 0 {
		a.fail(NoReturnValueForNotVoidFunction, nameTok.Pos(), "function %q must return a value on every path", name)
	}

	switch returnType {
	case bytecode.Void:
		a.model.Emit(bytecode.RET)
	case bytecode.Double:
		a.model.Emit(bytecode.IPUSH, 0)
		a.model.Emit(bytecode.I2D)
		a.model.Emit(bytecode.DRET)
	default:
		a.model.Emit(bytecode.IPUSH, 0)
		a.model.Emit(bytecode.IRET)
	}

	a.table.ExitScope()
	a.curRet, a.curFn = prevRet, prevFn
}

// analyzeBlockContents walks the children of a Block (local variable
// declarations first, then statements, as the grammar requires), accumulating the
// return-statement statistics used for missing-return detection.
func (a *Analyzer) analyzeBlockContents(children []*ast.Node) map[string]int {
	stats := map[string]int{}
	for _, child := range children {
		if child.Kind == ast.VarDecl {
			a.analyzeVarDecl(child)
			continue
		}
		mergeStats(stats, a.analyzeStatement(child))
	}
	return stats
}

func mergeStats(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}
