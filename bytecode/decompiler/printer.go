package decompiler

import (
	"fmt"
	"strings"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/format"
	"github.com/mna/vmbc/bytecode/ref"
)

// Print renders a decompiled statement tree as indented, source-like text.
// It resolves every pool reference left in the tree (constants, function
// and global names, field names already carried by the lifter) through c.
func Print(c *container.Code, stmts []Stmt) string {
	p := &printer{c: c, enh: format.Enhanced{}}
	p.stmts(stmts, 0)
	return p.buf.String()
}

type printer struct {
	buf strings.Builder
	c   *container.Code
	enh format.Enhanced
}

func (p *printer) indent(depth int) { p.buf.WriteString(strings.Repeat("    ", depth)) }

func (p *printer) line(depth int, format string, args ...interface{}) {
	p.indent(depth)
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) stmts(stmts []Stmt, depth int) {
	for _, s := range stmts {
		p.stmt(s, depth)
	}
}

func (p *printer) stmt(s Stmt, depth int) {
	switch n := s.(type) {
	case Assign:
		kw := ""
		if n.Decl {
			kw = "var "
		}
		p.line(depth, "%s%s = %s", kw, n.Name, p.expr(n.Value))

	case FieldAssign:
		if n.Obj == nil {
			p.line(depth, "this.%s = %s", n.Name, p.expr(n.Value))
		} else {
			p.line(depth, "%s.%s = %s", p.expr(n.Obj), n.Name, p.expr(n.Value))
		}

	case ExprStmt:
		p.line(depth, "%s", p.expr(n.Value))

	case Return:
		if n.Value == nil {
			p.line(depth, "return")
		} else {
			p.line(depth, "return %s", p.expr(n.Value))
		}

	case Throw:
		p.line(depth, "throw %s", p.expr(n.Value))

	case Rethrow:
		p.line(depth, "rethrow %s", p.expr(n.Value))

	case If:
		p.line(depth, "if %s {", p.expr(n.Cond))
		p.stmts(n.Then, depth+1)
		if len(n.Else) > 0 {
			p.line(depth, "} else {")
			p.stmts(n.Else, depth+1)
		}
		p.line(depth, "}")

	case Loop:
		if n.Cond == nil {
			p.line(depth, "loop {")
		} else {
			p.line(depth, "while %s {", p.expr(n.Cond))
		}
		p.stmts(n.Body, depth+1)
		p.line(depth, "}")

	case Switch:
		p.line(depth, "switch %s {", p.expr(n.Value))
		for _, cs := range n.Cases {
			p.line(depth+1, "case %s:", p.expr(cs.Pattern))
			p.stmts(cs.Body, depth+2)
		}
		p.line(depth+1, "default:")
		p.stmts(n.Default, depth+2)
		p.line(depth, "}")

	case Try:
		p.line(depth, "try {")
		p.stmts(n.Body, depth+1)
		p.line(depth, "} catch {")
		p.stmts(n.Catch, depth+1)
		p.line(depth, "}")

	default:
		p.line(depth, "<unknown statement %T>", s)
	}
}

func (p *printer) expr(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch n := e.(type) {
	case ConstInt:
		if int(n.Value) >= 0 && int(n.Value) < len(p.c.Ints) {
			return fmt.Sprintf("%d", p.c.Ints[n.Value])
		}
		return fmt.Sprintf("int@%d", int32(n.Value))
	case LiteralInt:
		return fmt.Sprintf("%d", n.Value)
	case ConstFloat:
		return p.enh.Reference(p.c, "float", int32(n.Value))
	case ConstString:
		return p.enh.Reference(p.c, "string", int32(n.Value))
	case ConstBool:
		return fmt.Sprintf("%t", n.Value)
	case ConstNull:
		return "null"
	case RegRef:
		return n.Name
	case Ident:
		return n.Name
	case Operation:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s(%s)", n.Op, strings.Join(args, ", "))
	case Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s(%s)", p.expr(n.Callee), strings.Join(args, ", "))
	case FunRef:
		return p.enh.Reference(p.c, "fun", int32(n.Func))
	case Closure:
		return fmt.Sprintf("%s.bind(%s)", p.expr(n.Receiver), p.enh.Reference(p.c, "fun", int32(n.Func)))
	case Field:
		return fmt.Sprintf("%s.%s", p.expr(n.Obj), n.Name)
	case ThisField:
		return "this." + n.Name
	case GlobalRef:
		return p.globalName(n.Global)
	case Constructor:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("new %s(%s)", p.enh.Reference(p.c, "type", int32(n.Type)), strings.Join(args, ", "))
	case Cast:
		return fmt.Sprintf("(%s) %s", n.Kind, p.expr(n.Inner))
	case IfElse:
		return fmt.Sprintf("(%s ? %s : %s)", p.expr(n.Cond), p.expr(n.Then), p.expr(n.Else))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func (p *printer) globalName(g ref.Global) string {
	if int(g) >= 0 && int(g) < len(p.c.Globals) {
		return p.enh.Reference(p.c, "type", int32(p.c.Globals[g])) + fmt.Sprintf("@global%d", int32(g))
	}
	return fmt.Sprintf("global@%d", int32(g))
}
