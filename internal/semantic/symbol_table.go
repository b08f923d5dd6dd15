package semantic

import (
	"github.com/cwbudde/cc0/internal/bytecode"
	"github.com/cwbudde/cc0/internal/lexer"
)

// Attrs is the attribute set carried by every symbol-table entry.
type Attrs struct {
	Type       bytecode.PType
	Const      bool
	IsFunction bool
	Size       int
	Offset     int
}

// scopeLevel is one lexical scope: an ordered name->attrs mapping plus the
// running allocation offset and the call-frame level it belongs to.
type scopeLevel struct {
	order         []string
	symbols       map[string]Attrs
	nextOffset    int
	functionLevel int
}

func newScope(nextOffset, functionLevel int) *scopeLevel {
	return &scopeLevel{symbols: make(map[string]Attrs), nextOffset: nextOffset, functionLevel: functionLevel}
}

// SymbolTable is a stack of lexical scopes, innermost last.
type SymbolTable struct {
	scopes []*scopeLevel
}

// NewSymbolTable returns a table with a single file-scope level at
// function level 0 (the implicit frame holding global declarations).
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []*scopeLevel{newScope(0, 0)}}
}

func (t *SymbolTable) top() *scopeLevel {
	return t.scopes[len(t.scopes)-1]
}

// EnterScope pushes a new lexical scope. newFrame true starts a fresh call
// frame (resets the offset counter and bumps the function level, for a
// function body); newFrame false opens an ordinary nested scope that
// inherits the enclosing offset counter and function level.
func (t *SymbolTable) EnterScope(newFrame bool) {
	cur := t.top()
	if newFrame {
		t.scopes = append(t.scopes, newScope(0, cur.functionLevel+1))
		return
	}
	t.scopes = append(t.scopes, newScope(cur.nextOffset, cur.functionLevel))
}

// ExitScope pops the innermost scope.
func (t *SymbolTable) ExitScope() {
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// ContainsLocal reports whether name is declared in the innermost scope
// only, the check used to detect DuplicateSymbol.
func (t *SymbolTable) ContainsLocal(name string) bool {
	_, ok := t.top().symbols[name]
	return ok
}

// Contains reports whether name is visible from the current scope (any
// enclosing scope).
func (t *SymbolTable) Contains(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Add places name into the innermost scope with the given attributes. For
// non-function symbols, Size and Offset are computed from the current
// scope's allocation counter; function symbols carry no offset. The caller
// must have already checked ContainsLocal to reject duplicates.
func (t *SymbolTable) Add(name string, typ bytecode.PType, isConst, isFunction bool) Attrs {
	scope := t.top()
	attrs := Attrs{Type: typ, Const: isConst, IsFunction: isFunction}
	if !isFunction {
		attrs.Size = typ.Size()
		attrs.Offset = scope.nextOffset
		scope.nextOffset += attrs.Size
	}
	scope.symbols[name] = attrs
	scope.order = append(scope.order, name)
	return attrs
}

// Lookup searches from the innermost scope outward.
func (t *SymbolTable) Lookup(name string) (Attrs, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if a, ok := t.scopes[i].symbols[name]; ok {
			return a, true
		}
	}
	return Attrs{}, false
}

// lookupWithLevel returns the attrs together with the function level of the
// scope that defines name, needed to compute the loada level-difference
// operand.
func (t *SymbolTable) lookupWithLevel(name string) (Attrs, int, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if a, ok := t.scopes[i].symbols[name]; ok {
			return a, t.scopes[i].functionLevel, true
		}
	}
	return Attrs{}, 0, false
}

// IsConst reports whether name resolves to a const symbol.
func (t *SymbolTable) IsConst(name string) bool {
	a, _ := t.Lookup(name)
	return a.Const
}

// IsFunction reports whether name resolves to a function symbol.
func (t *SymbolTable) IsFunction(name string) bool {
	a, _ := t.Lookup(name)
	return a.IsFunction
}

// Type returns name's declared type.
func (t *SymbolTable) Type(name string) bytecode.PType {
	a, _ := t.Lookup(name)
	return a.Type
}

// Offset returns the (level_diff, stack_offset) pair that forms the two
// operands of the loada instruction: level_diff is the current function
// level minus the level of the scope that defines name. Fails with
// SymbolNotFound if name is undeclared, or FunctionTypeHasNoOffsetAttribute
// if name names a function (functions carry no stack offset).
func (t *SymbolTable) Offset(name string) (levelDiff int, offset int, err *Error) {
	attrs, definingLevel, ok := t.lookupWithLevel(name)
	if !ok {
		return 0, 0, newError(SymbolNotFound, lexer.Position{}, "symbol %q not found", name)
	}
	if attrs.IsFunction {
		return 0, 0, newError(FunctionTypeHasNoOffsetAttribute, lexer.Position{}, "function %q has no stack offset", name)
	}
	return t.top().functionLevel - definingLevel, attrs.Offset, nil
}
