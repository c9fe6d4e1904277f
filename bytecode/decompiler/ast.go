// Package decompiler lifts a function's linear opcode stream into a tree of
// high-level statements and expressions: a scope-stack pass recovers
// control flow (if/else/loop/switch/try), an expression pass turns
// register traffic into a typed expression tree, and a small rewrite
// pipeline cleans up patterns the compiler leaves behind.
package decompiler

import (
	"github.com/mna/vmbc/bytecode/ref"
)

// Expr is any node that produces a value.
type Expr interface{ exprNode() }

// Stmt is any node that has only side effects.
type Stmt interface{ stmtNode() }

// ConstInt, ConstFloat, ConstString, ConstBool and ConstNull are the leaf
// constant expressions produced by literal-load opcodes.
type (
	ConstInt    struct{ Value ref.Int }
	ConstFloat  struct{ Value ref.Float }
	ConstString struct{ Value ref.String }
	ConstBool   struct{ Value bool }
	ConstNull   struct{}
)

// LiteralInt is a bare integer value rendered as-is, with no pool lookup -
// unlike ConstInt, whose Value indexes the container's Ints pool. Used for
// switch-case patterns synthesized from a jump table's positional index,
// which is never itself a pool reference.
type LiteralInt struct{ Value int32 }

// RegRef is a read of a register's current expression, rendered by name.
type RegRef struct {
	Reg  ref.Reg
	Name string // resolved via debug assigns, or "reg<N>" fallback
}

// Operation is an arithmetic, bitwise or comparison tree over the current
// expressions of its operand registers.
type Operation struct {
	Op       string // opcode mnemonic, e.g. "add", "jslt"
	Unsigned bool
	Args     []Expr
}

// Call is a direct or closure call.
type Call struct {
	Callee Expr // FunRef for a direct call, any Expr for a closure call
	Args   []Expr
}

// FunRef names a function statically, as produced by a direct call target
// or a StaticClosure.
type FunRef struct{ Func ref.Function }

// Closure is an instance closure: a function bound to a captured receiver.
type Closure struct {
	Func     ref.Function
	Receiver Expr
}

// Field is a field read relative to an object expression.
type Field struct {
	Obj  Expr
	Name string
}

// ThisField is a field read relative to the implicit receiver.
type ThisField struct{ Name string }

// GlobalRef reads a global slot.
type GlobalRef struct{ Global ref.Global }

// Constructor is the result of absorbing a New + field-setter run closed by
// its constructor call.
type Constructor struct {
	Type ref.Type
	Args []Expr
}

// Cast wraps an inner expression for the non-statement-producing cast and
// type-query opcodes.
type Cast struct {
	Kind  string
	Inner Expr
}

// IfElse is an expression-position if/else, produced by the if-expression
// merging rewrite pass; it never appears straight out of the lifter.
type IfElse struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Ident is a bare resolved name substituted in by a rewrite pass, e.g. the
// callee of a trace call once the field-access wrapper is stripped away.
type Ident struct{ Name string }

func (ConstInt) exprNode()    {}
func (LiteralInt) exprNode()  {}
func (ConstFloat) exprNode()  {}
func (ConstString) exprNode() {}
func (ConstBool) exprNode()   {}
func (ConstNull) exprNode()   {}
func (RegRef) exprNode()      {}
func (Operation) exprNode()   {}
func (Call) exprNode()        {}
func (FunRef) exprNode()      {}
func (Closure) exprNode()     {}
func (Field) exprNode()       {}
func (ThisField) exprNode()   {}
func (GlobalRef) exprNode()   {}
func (Constructor) exprNode() {}
func (Cast) exprNode()        {}
func (IfElse) exprNode()      {}
func (Ident) exprNode()       {}

// Assign is a statement-position assignment. Decl is true the first time a
// register is written (a declaration), false on reassignment.
type Assign struct {
	Name  string
	Value Expr
	Decl  bool
}

// ExprStmt wraps an expression evaluated for its side effect, typically a
// call whose result is discarded.
type ExprStmt struct{ Value Expr }

// FieldAssign is `obj.Name = Value`, the lvalue counterpart of Field and
// ThisField (Obj is nil for the implicit-receiver form).
type FieldAssign struct {
	Obj   Expr // nil for a ThisField target
	Name  string
	Value Expr
}

// Return is `return` or `return <expr>`; Value is nil for the void form.
type Return struct{ Value Expr }

// Throw and Rethrow mirror the opcodes of the same name.
type Throw struct{ Value Expr }
type Rethrow struct{ Value Expr }

// If is a structured conditional; Else is nil when there was no else
// branch.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Loop is a structured loop recovered from a backward jump; Cond is nil if
// the loop's guard could not be determined (an unconditional loop).
type Loop struct {
	Cond Expr
	Body []Stmt
}

// SwitchCase is one case arm of a Switch statement.
type SwitchCase struct {
	Pattern Expr
	Body    []Stmt
}

// Switch is a structured switch statement.
type Switch struct {
	Value   Expr
	Cases   []SwitchCase
	Default []Stmt
}

// Try is a structured try/catch.
type Try struct {
	Body  []Stmt
	Catch []Stmt
}

func (Assign) stmtNode()      {}
func (ExprStmt) stmtNode()    {}
func (FieldAssign) stmtNode() {}
func (Return) stmtNode()  {}
func (Throw) stmtNode()   {}
func (Rethrow) stmtNode() {}
func (If) stmtNode()      {}
func (Loop) stmtNode()    {}
func (Switch) stmtNode()  {}
func (Try) stmtNode()     {}

// Visitor is implemented by callers that want to walk a statement tree;
// VisitStmt/VisitExpr return false to skip a node's children.
type Visitor interface {
	VisitStmt(Stmt) bool
	VisitExpr(Expr) bool
}

// Walk visits every statement and expression reachable from stmts,
// depth-first, calling v for each node.
func Walk(v Visitor, stmts []Stmt) {
	for _, s := range stmts {
		walkStmt(v, s)
	}
}

func walkStmt(v Visitor, s Stmt) {
	if s == nil || !v.VisitStmt(s) {
		return
	}
	switch n := s.(type) {
	case Assign:
		walkExpr(v, n.Value)
	case ExprStmt:
		walkExpr(v, n.Value)
	case FieldAssign:
		walkExpr(v, n.Obj)
		walkExpr(v, n.Value)
	case Return:
		walkExpr(v, n.Value)
	case Throw:
		walkExpr(v, n.Value)
	case Rethrow:
		walkExpr(v, n.Value)
	case If:
		walkExpr(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case Loop:
		walkExpr(v, n.Cond)
		Walk(v, n.Body)
	case Switch:
		walkExpr(v, n.Value)
		for _, c := range n.Cases {
			walkExpr(v, c.Pattern)
			Walk(v, c.Body)
		}
		Walk(v, n.Default)
	case Try:
		Walk(v, n.Body)
		Walk(v, n.Catch)
	}
}

func walkExpr(v Visitor, e Expr) {
	if e == nil || !v.VisitExpr(e) {
		return
	}
	switch n := e.(type) {
	case Operation:
		for _, a := range n.Args {
			walkExpr(v, a)
		}
	case Call:
		walkExpr(v, n.Callee)
		for _, a := range n.Args {
			walkExpr(v, a)
		}
	case Closure:
		walkExpr(v, n.Receiver)
	case Field:
		walkExpr(v, n.Obj)
	case Constructor:
		for _, a := range n.Args {
			walkExpr(v, a)
		}
	case Cast:
		walkExpr(v, n.Inner)
	case IfElse:
		walkExpr(v, n.Cond)
		walkExpr(v, n.Then)
		walkExpr(v, n.Else)
	}
}
