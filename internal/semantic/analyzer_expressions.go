package semantic

import (
	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/bytecode"
)

// analyzeExpr type-checks expr and emits its code, returning its
// resulting type.
func (a *Analyzer) analyzeExpr(expr *ast.Node) bytecode.PType {
	switch expr.Kind {
	case ast.IntLiteral:
		v, _ := expr.Tok.Value.(int32)
		a.model.Emit(bytecode.IPUSH, int64(v))
		return bytecode.Int

	case ast.FloatLiteral:
		v, _ := expr.Tok.Value.(float64)
		idx := a.model.AddConstant(bytecode.Constant{Kind: bytecode.ConstDouble, DValue: v})
		a.model.Emit(bytecode.LOADC, int64(idx))
		return bytecode.Double

	case ast.CharLiteral:
		v, _ := expr.Tok.Value.(byte)
		a.model.Emit(bytecode.BIPUSH, int64(v))
		return bytecode.Char

	case ast.StringLiteral:
		a.fail(UnknownVariableType, expr.Pos(), "a string literal cannot be used as a value")
		return bytecode.Void

	case ast.Identifier:
		return a.analyzeLoad(expr)

	case ast.GroupExpr:
		return a.analyzeExpr(expr.Children[0])

	case ast.AssignExpr:
		return a.analyzeAssign(expr)

	case ast.BinaryExpr:
		return a.analyzeBinary(expr)

	case ast.UnaryExpr:
		return a.analyzeUnary(expr)

	case ast.CastExpr:
		return a.analyzeCast(expr)

	case ast.CallExpr:
		return a.analyzeCall(expr)
	}

	a.fail(NotSupportedFeature, expr.Pos(), "unsupported expression %s", expr.Kind)
	return bytecode.Void
}

func (a *Analyzer) analyzeLoad(ident *ast.Node) bytecode.PType {
	name := ident.Literal()
	attrs, ok := a.table.Lookup(name)
	if !ok {
		a.fail(UndefinedSymbol, ident.Pos(), "undefined symbol %q", name)
	}
	if attrs.IsFunction {
		a.fail(UndefinedSymbol, ident.Pos(), "%q is a function, not a value", name)
	}
	ld, off, symErr := a.table.Offset(name)
	if symErr != nil {
		a.fail(symErr.Kind, ident.Pos(), "%s", symErr.Message)
	}
	a.model.Emit(bytecode.LOADA, int64(ld), int64(off))
	if attrs.Type == bytecode.Double {
		a.model.Emit(bytecode.DLOAD)
	} else {
		a.model.Emit(bytecode.ILOAD)
	}
	return attrs.Type
}

func (a *Analyzer) analyzeAssign(expr *ast.Node) bytecode.PType {
	identNode := expr.Children[0]
	name := identNode.Literal()
	if !a.table.Contains(name) {
		a.fail(UndefinedSymbol, identNode.Pos(), "undefined symbol %q", name)
	}
	if a.table.IsConst(name) {
		a.fail(AssignToConstant, identNode.Pos(), "cannot assign to const %q", name)
	}
	ld, off, symErr := a.table.Offset(name)
	if symErr != nil {
		a.fail(symErr.Kind, identNode.Pos(), "%s", symErr.Message)
	}
	a.model.Emit(bytecode.LOADA, int64(ld), int64(off))
	targetType := a.table.Type(name)
	rhsType := a.analyzeExpr(expr.Children[1])
	a.coerce(rhsType, targetType, expr.Children[1].Pos())
	if targetType == bytecode.Double {
		a.model.Emit(bytecode.DSTORE)
	} else {
		a.model.Emit(bytecode.ISTORE)
	}
	return targetType
}

// analyzeBinary implements retroactive left-operand promotion: the left
// operand's code is emitted first, its end index recorded, then the right
// operand is emitted; if only the left side
// turns out to need promoting to double, an i2d is spliced in at the
// recorded index rather than re-emitted out of order.
func (a *Analyzer) analyzeBinary(expr *ast.Node) bytecode.PType {
	left, right := expr.Children[0], expr.Children[1]

	leftType := a.analyzeExpr(left)
	leftEndIdx := a.model.NextInstIdx()
	rightType := a.analyzeExpr(right)

	if leftType == bytecode.Void || rightType == bytecode.Void {
		a.fail(VoidTypeCalculationNotSupported, expr.Pos(), "operands of %q cannot be void", expr.Op)
	}

	effLeft, effRight := promote(leftType), promote(rightType)
	switch {
	case effLeft == bytecode.Double && effRight == bytecode.Int:
		a.model.Emit(bytecode.I2D)
		effRight = bytecode.Double
	case effLeft == bytecode.Int && effRight == bytecode.Double:
		a.model.InsertAt(leftEndIdx, bytecode.I2D)
		effLeft = bytecode.Double
	}

	resultType := bytecode.Int
	if effLeft == bytecode.Double || effRight == bytecode.Double {
		resultType = bytecode.Double
	}

	isDouble := resultType == bytecode.Double
	var op bytecode.Opcode
	switch expr.Op {
	case "+":
		op = pick(isDouble, bytecode.DADD, bytecode.IADD)
	case "-":
		op = pick(isDouble, bytecode.DSUB, bytecode.ISUB)
	case "*":
		op = pick(isDouble, bytecode.DMUL, bytecode.IMUL)
	case "/":
		op = pick(isDouble, bytecode.DDIV, bytecode.IDIV)
	default:
		a.fail(NotSupportedFeature, expr.Pos(), "unsupported operator %q", expr.Op)
	}
	a.model.Emit(op)
	return resultType
}

func pick(cond bool, ifTrue, ifFalse bytecode.Opcode) bytecode.Opcode {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func (a *Analyzer) analyzeUnary(expr *ast.Node) bytecode.PType {
	operandType := a.analyzeExpr(expr.Children[0])
	if operandType == bytecode.Void {
		a.fail(VoidTypeCalculationNotSupported, expr.Pos(), "operand of unary %q cannot be void", expr.Op)
	}
	eff := promote(operandType)
	if eff == bytecode.Double {
		a.model.Emit(bytecode.DNEG)
	} else {
		a.model.Emit(bytecode.INEG)
	}
	return eff
}

// analyzeCast applies the conversion chain inside-out: the recursive call
// on the inner expression resolves first (so a nested cast's own conversion
// happens before this one), then this cast's target conversion is emitted
// on top of whatever value is now on the stack.
func (a *Analyzer) analyzeCast(expr *ast.Node) bytecode.PType {
	targetType := typeOf(expr.Children[0])
	if targetType == bytecode.Void {
		a.fail(VoidTypeCalculationNotSupported, expr.Pos(), "cannot cast to void")
	}
	innerType := a.analyzeExpr(expr.Children[1])
	a.coerce(innerType, targetType, expr.Pos())
	return targetType
}

func (a *Analyzer) analyzeCall(expr *ast.Node) bytecode.PType {
	nameTok := expr.Children[0]
	name := nameTok.Literal()
	if !a.table.Contains(name) {
		a.fail(FunctionNotDefined, nameTok.Pos(), "function %q is not defined", name)
	}
	if !a.table.IsFunction(name) {
		a.fail(NotCallingFunction, nameTok.Pos(), "%q is not a function", name)
	}
	fn, _ := a.model.FunctionByName(name)
	args := expr.Children[1:]
	if len(args) != fn.ParamCount() {
		a.fail(ArgumentsNumberNotMatchException, expr.Pos(), "function %q expects %d argument(s), got %d", name, fn.ParamCount(), len(args))
	}
	for i, arg := range args {
		argType := a.analyzeExpr(arg)
		a.coerce(argType, fn.ParamTypes[i], arg.Pos())
	}
	idx, _ := a.model.FunctionIndexByName(name)
	a.model.Emit(bytecode.CALL, int64(idx))
	return fn.ReturnType
}
