package decompiler

import "github.com/mna/vmbc/bytecode/container"

// Simplify runs the AST rewrite pipeline over a decompiled function body,
// in the order that makes each pass's input shape predictable: string
// concatenation and int-to-string unwrapping clean up compiler artifacts
// before trace-call rewriting looks for its pattern, and if-expression
// merging runs last since it depends on the settled shape of the other
// three.
func Simplify(c *container.Code, stmts []Stmt) []Stmt {
	stmts = mapStmts(stmts, func(e Expr) Expr { return restoreStringConcat(c, e) })
	stmts = mapStmts(stmts, func(e Expr) Expr { return unwrapIntToString(c, e) })
	stmts = mapStmts(stmts, func(e Expr) Expr { return rewriteTraceCall(c, e) })
	stmts = mergeIfExpressions(stmts)
	return stmts
}

func calleeName(c *container.Code, e Expr) (string, bool) {
	fr, ok := e.(FunRef)
	if !ok {
		return "", false
	}
	if fn, ok := c.Function(fr.Func); ok && !fn.Name.IsNull() {
		return c.String(fn.Name), true
	}
	if n, ok := c.NativeFor(fr.Func); ok {
		return c.String(n.Name), true
	}
	return "", false
}

// restoreStringConcat turns a call to the runtime's two-argument string
// concatenation helper back into the "+" operator the source used.
func restoreStringConcat(c *container.Code, e Expr) Expr {
	call, ok := e.(Call)
	if !ok || len(call.Args) != 2 {
		return e
	}
	if name, ok := calleeName(c, call.Callee); ok && name == "__add__" {
		return Operation{Op: "add", Args: call.Args}
	}
	return e
}

// unwrapIntToString removes the alloc(itos(x)) idiom the compiler emits
// for string interpolation of an integer, leaving just x: the allocation
// and conversion are implementation detail, not part of the recovered
// expression.
func unwrapIntToString(c *container.Code, e Expr) Expr {
	outer, ok := e.(Call)
	if !ok || len(outer.Args) != 1 {
		return e
	}
	outerName, ok := calleeName(c, outer.Callee)
	if !ok || outerName != "__alloc__" {
		return e
	}
	inner, ok := outer.Args[0].(Call)
	if !ok || len(inner.Args) != 1 {
		return e
	}
	innerName, ok := calleeName(c, inner.Callee)
	if !ok || innerName != "itos" {
		return e
	}
	return inner.Args[0]
}

// rewriteTraceCall turns `holder.trace(args)` into a direct `trace(args)`
// call, holder being whatever global or field access resolves the standard
// library's logging entry point.
func rewriteTraceCall(c *container.Code, e Expr) Expr {
	call, ok := e.(Call)
	if !ok {
		return e
	}
	field, ok := call.Callee.(Field)
	if !ok || field.Name != "trace" {
		return e
	}
	return Call{Callee: Ident{Name: "trace"}, Args: call.Args}
}

// mergeIfExpressions replaces an If statement whose branches are each a
// single assignment to the same variable with one Assign whose value is an
// IfElse expression, recovering the source's ternary/if-expression.
func mergeIfExpressions(stmts []Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, mergeIfExpressionsStmt(s))
	}
	return out
}

func mergeIfExpressionsStmt(s Stmt) Stmt {
	switch n := s.(type) {
	case If:
		n.Then = mergeIfExpressions(n.Then)
		n.Else = mergeIfExpressions(n.Else)
		if merged, ok := asIfExpr(n); ok {
			return merged
		}
		return n
	case Loop:
		n.Body = mergeIfExpressions(n.Body)
		return n
	case Switch:
		for i := range n.Cases {
			n.Cases[i].Body = mergeIfExpressions(n.Cases[i].Body)
		}
		n.Default = mergeIfExpressions(n.Default)
		return n
	case Try:
		n.Body = mergeIfExpressions(n.Body)
		n.Catch = mergeIfExpressions(n.Catch)
		return n
	default:
		return s
	}
}

func asIfExpr(n If) (Stmt, bool) {
	if len(n.Then) != 1 || len(n.Else) != 1 {
		return nil, false
	}
	then, ok1 := n.Then[0].(Assign)
	els, ok2 := n.Else[0].(Assign)
	if !ok1 || !ok2 || then.Name != els.Name {
		return nil, false
	}
	return Assign{
		Name:  then.Name,
		Decl:  then.Decl,
		Value: IfElse{Cond: n.Cond, Then: then.Value, Else: els.Value},
	}, true
}

// mapStmts applies f to every expression reachable from stmts, bottom-up,
// returning a rewritten copy of the tree.
func mapStmts(stmts []Stmt, f func(Expr) Expr) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = mapStmt(s, f)
	}
	return out
}

func mapStmt(s Stmt, f func(Expr) Expr) Stmt {
	switch n := s.(type) {
	case Assign:
		n.Value = mapExpr(n.Value, f)
		return n
	case ExprStmt:
		n.Value = mapExpr(n.Value, f)
		return n
	case FieldAssign:
		n.Obj = mapExpr(n.Obj, f)
		n.Value = mapExpr(n.Value, f)
		return n
	case Return:
		n.Value = mapExpr(n.Value, f)
		return n
	case Throw:
		n.Value = mapExpr(n.Value, f)
		return n
	case Rethrow:
		n.Value = mapExpr(n.Value, f)
		return n
	case If:
		n.Cond = mapExpr(n.Cond, f)
		n.Then = mapStmts(n.Then, f)
		n.Else = mapStmts(n.Else, f)
		return n
	case Loop:
		n.Cond = mapExpr(n.Cond, f)
		n.Body = mapStmts(n.Body, f)
		return n
	case Switch:
		n.Value = mapExpr(n.Value, f)
		cases := make([]SwitchCase, len(n.Cases))
		for i, c := range n.Cases {
			c.Pattern = mapExpr(c.Pattern, f)
			c.Body = mapStmts(c.Body, f)
			cases[i] = c
		}
		n.Cases = cases
		n.Default = mapStmts(n.Default, f)
		return n
	case Try:
		n.Body = mapStmts(n.Body, f)
		n.Catch = mapStmts(n.Catch, f)
		return n
	default:
		return s
	}
}

// mapExpr rewrites e bottom-up: children are rewritten first, then f is
// applied to the resulting node.
func mapExpr(e Expr, f func(Expr) Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case Operation:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = mapExpr(a, f)
		}
		n.Args = args
		return f(n)
	case Call:
		n.Callee = mapExpr(n.Callee, f)
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = mapExpr(a, f)
		}
		n.Args = args
		return f(n)
	case Closure:
		n.Receiver = mapExpr(n.Receiver, f)
		return f(n)
	case Field:
		n.Obj = mapExpr(n.Obj, f)
		return f(n)
	case Constructor:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = mapExpr(a, f)
		}
		n.Args = args
		return f(n)
	case Cast:
		n.Inner = mapExpr(n.Inner, f)
		return f(n)
	case IfElse:
		n.Cond = mapExpr(n.Cond, f)
		n.Then = mapExpr(n.Then, f)
		n.Else = mapExpr(n.Else, f)
		return f(n)
	default:
		return f(e)
	}
}
