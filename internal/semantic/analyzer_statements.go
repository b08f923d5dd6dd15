package semantic

import (
	"github.com/cwbudde/cc0/internal/ast"
	"github.com/cwbudde/cc0/internal/bytecode"
)

// analyzeStatement type-checks and compiles a single statement, returning
// the return-statement statistics gathered from it (and, for compound
// constructs, its nested statements) for missing-return detection.
func (a *Analyzer) analyzeStatement(stmt *ast.Node) map[string]int {
	switch stmt.Kind {
	case ast.Block:
		a.table.EnterScope(false)
		stats := a.analyzeBlockContents(stmt.Children)
		a.table.ExitScope()
		return stats

	case ast.ExprStmt:
		a.analyzeExpr(stmt.Children[0])
		return nil

	case ast.IfStmt:
		return a.analyzeIf(stmt)

	case ast.WhileStmt:
		return a.analyzeWhile(stmt)

	case ast.ReturnStmt:
		return a.analyzeReturn(stmt)

	case ast.PrintStmt:
		a.analyzePrint(stmt)
		return nil

	case ast.ScanStmt:
		a.analyzeScan(stmt)
		return nil

	case ast.EmptyStmt:
		return nil

	case ast.ForStmt:
		a.fail(NotSupportedFeature, stmt.Pos(), "'for' is not supported")
	case ast.DoWhileStmt:
		a.fail(NotSupportedFeature, stmt.Pos(), "'do-while' is not supported")
	case ast.SwitchStmt:
		a.fail(NotSupportedFeature, stmt.Pos(), "'switch' is not supported")
	case ast.BreakStmt:
		a.fail(NotSupportedFeature, stmt.Pos(), "'break' is not supported")
	case ast.ContinueStmt:
		a.fail(NotSupportedFeature, stmt.Pos(), "'continue' is not supported")
	default:
		a.fail(NotSupportedFeature, stmt.Pos(), "unsupported statement %s", stmt.Kind)
	}
	return nil
}

// analyzeCondition compiles `expr [relop expr]`, applying the same
// retroactive left-operand promotion as a binary expression, and returns
// the opcode that jumps when the condition is FALSE: each relational
// operator maps to its logical negation since the generated jump skips
// the true branch.
func (a *Analyzer) analyzeCondition(cond *ast.Node) bytecode.Opcode {
	if len(cond.Children) == 1 {
		t := a.analyzeExpr(cond.Children[0])
		if t == bytecode.Void {
			a.fail(VoidTypeCalculationNotSupported, cond.Pos(), "a void value cannot be used as a condition")
		}
		if promote(t) == bytecode.Double {
			a.model.Emit(bytecode.D2I)
		}
		return bytecode.JE
	}

	left, right := cond.Children[0], cond.Children[1]
	leftType := a.analyzeExpr(left)
	leftEndIdx := a.model.NextInstIdx()
	rightType := a.analyzeExpr(right)

	if leftType == bytecode.Void || rightType == bytecode.Void {
		a.fail(VoidTypeCalculationNotSupported, cond.Pos(), "operands of %q cannot be void", cond.Op)
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

	if effLeft == bytecode.Double || effRight == bytecode.Double {
		a.model.Emit(bytecode.DCMP)
	} else {
		a.model.Emit(bytecode.ICMP)
	}

	switch cond.Op {
	case "==":
		return bytecode.JNE
	case "!=":
		return bytecode.JE
	case "<":
		return bytecode.JGE
	case ">":
		return bytecode.JLE
	case "<=":
		return bytecode.JG
	case ">=":
		return bytecode.JL
	}
	a.fail(NotSupportedFeature, cond.Pos(), "unsupported relational operator %q", cond.Op)
	return bytecode.JE
}

func (a *Analyzer) analyzeIf(stmt *ast.Node) map[string]int {
	cond := stmt.Children[0]
	falseJump := a.analyzeCondition(cond)
	jIdx := a.model.Emit(falseJump, 0)

	thenStats := a.analyzeStatement(stmt.Children[1])

	if len(stmt.Children) == 3 {
		jmpIdx := a.model.Emit(bytecode.JMP, 0)
		elseStart := a.model.NextInstIdx()
		a.model.UpdateOperands(jIdx, int64(elseStart))

		elseStats := a.analyzeStatement(stmt.Children[2])

		after := a.model.NextInstIdx()
		a.model.UpdateOperands(jmpIdx, int64(after))

		merged := map[string]int{}
		mergeStats(merged, thenStats)
		mergeStats(merged, elseStats)
		return merged
	}

	after := a.model.NextInstIdx()
	a.model.UpdateOperands(jIdx, int64(after))
	return thenStats
}

func (a *Analyzer) analyzeWhile(stmt *ast.Node) map[string]int {
	condIdx := a.model.NextInstIdx()
	falseJump := a.analyzeCondition(stmt.Children[0])
	jIdx := a.model.Emit(falseJump, 0)

	bodyStats := a.analyzeStatement(stmt.Children[1])

	a.model.Emit(bytecode.JMP, int64(condIdx))
	after := a.model.NextInstIdx()
	a.model.UpdateOperands(jIdx, int64(after))
	return bodyStats
}

func (a *Analyzer) analyzeReturn(stmt *ast.Node) map[string]int {
	if len(stmt.Children) == 0 {
		if a.curRet != bytecode.Void {
			a.fail(NoReturnValueForNotVoidFunction, stmt.Pos(), "function %q must return a %s value", a.curFn, a.curRet)
		}
		a.model.Emit(bytecode.RET)
		return map[string]int{"return": 1}
	}

	exprNode := stmt.Children[0]
	if a.curRet == bytecode.Void {
		a.fail(ReturnValueForVoidFunction, exprNode.Pos(), "void function %q cannot return a value", a.curFn)
	}
	t := a.analyzeExpr(exprNode)
	a.coerce(t, a.curRet, exprNode.Pos())
	if a.curRet == bytecode.Double {
		a.model.Emit(bytecode.DRET)
	} else {
		a.model.Emit(bytecode.IRET)
	}
	return map[string]int{"return": 1}
}

// analyzePrint compiles `print(printable (',' printable)*)`: each printable
// after the first is preceded by a literal space (bipush 32; cprint), and
// the whole statement ends with printl.
func (a *Analyzer) analyzePrint(stmt *ast.Node) {
	for i, item := range stmt.Children {
		if i > 0 {
			a.model.Emit(bytecode.BIPUSH, 32)
			a.model.Emit(bytecode.CPRINT)
		}
		if item.Kind == ast.StringLiteral {
			s, _ := item.Tok.Value.(string)
			idx := a.model.AddConstant(bytecode.Constant{Kind: bytecode.ConstStr, SValue: s})
			a.model.Emit(bytecode.LOADC, int64(idx))
			a.model.Emit(bytecode.SPRINT)
			continue
		}
		t := a.analyzeExpr(item)
		switch t {
		case bytecode.Void:
			a.fail(VoidTypeCalculationNotSupported, item.Pos(), "cannot print a void value")
		case bytecode.Char:
			a.model.Emit(bytecode.CPRINT)
		case bytecode.Double:
			a.model.Emit(bytecode.DPRINT)
		default:
			a.model.Emit(bytecode.IPRINT)
		}
	}
	a.model.Emit(bytecode.PRINTL)
}

// analyzeScan compiles `scan(ident)`. A char-typed target scans as cscan
// but still stores through istore, since char occupies the same one-slot
// representation as int.
func (a *Analyzer) analyzeScan(stmt *ast.Node) {
	nameTok := stmt.Children[0]
	name := nameTok.Literal()
	if !a.table.Contains(name) {
		a.fail(UndefinedSymbol, nameTok.Pos(), "undefined symbol %q", name)
	}
	if a.table.IsConst(name) {
		a.fail(AssignToConstant, nameTok.Pos(), "cannot scan into const %q", name)
	}
	ld, off, symErr := a.table.Offset(name)
	if symErr != nil {
		a.fail(symErr.Kind, nameTok.Pos(), "%s", symErr.Message)
	}
	a.model.Emit(bytecode.LOADA, int64(ld), int64(off))
	switch a.table.Type(name) {
	case bytecode.Int:
		a.model.Emit(bytecode.ISCAN)
		a.model.Emit(bytecode.ISTORE)
	case bytecode.Double:
		a.model.Emit(bytecode.DSCAN)
		a.model.Emit(bytecode.DSTORE)
	case bytecode.Char:
		a.model.Emit(bytecode.CSCAN)
		a.model.Emit(bytecode.ISTORE)
	}
}
