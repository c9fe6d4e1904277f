package decompiler

import (
	"fmt"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/format"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
)

// assignPos pairs a debug-assigns name with the opcode position whose
// write it names.
type assignPos struct {
	pos  int
	name ref.String
}

// lifter maintains the register -> current-expression map and the
// constructor-collection window while walking a function's opcodes.
type lifter struct {
	c  *container.Code
	fn *container.Function

	regExpr  map[ref.Reg]Expr
	declared map[ref.Reg]bool
	assigns  map[ref.Reg][]assignPos

	// dirty is a stack mirroring the open branching scopes (if/else, loop
	// body, switch case, try/catch): each frame records which registers
	// were written while it was open. On close, those registers are reset
	// to a name reference rather than kept as the inlined expression from
	// whichever branch happened to run last in the lift order, since after
	// a merge point the value actually depends on which branch ran.
	dirty []map[ref.Reg]bool

	ctorActive bool
	ctorReg    ref.Reg
	ctorArgs   []Expr
}

func newLifter(c *container.Code, fn *container.Function) *lifter {
	l := &lifter{
		c:        c,
		fn:       fn,
		regExpr:  make(map[ref.Reg]Expr),
		declared: make(map[ref.Reg]bool),
		assigns:  make(map[ref.Reg][]assignPos),
	}
	for _, a := range fn.Assigns {
		if a.Pos < 0 || a.Pos >= len(fn.Ops) {
			continue
		}
		instr := fn.Ops[a.Pos]
		if len(instr.Regs) == 0 {
			continue
		}
		dst := instr.Regs[0]
		l.assigns[dst] = append(l.assigns[dst], assignPos{pos: a.Pos, name: a.Name})
	}
	return l
}

// nameOf resolves the debug name in effect for reg at pc: the assigns
// entry for that register with the greatest position not exceeding pc, or
// "reg<N>" if none applies.
func (l *lifter) nameOf(reg ref.Reg, pc int) string {
	best := ""
	bestPos := -1
	for _, a := range l.assigns[reg] {
		if a.pos <= pc && a.pos > bestPos {
			bestPos = a.pos
			best = l.c.String(a.name)
		}
	}
	if best != "" {
		return best
	}
	return fmt.Sprintf("reg%d", int32(reg))
}

func (l *lifter) read(reg ref.Reg, pc int) Expr {
	if e, ok := l.regExpr[reg]; ok {
		return e
	}
	return RegRef{Reg: reg, Name: l.nameOf(reg, pc)}
}

func (l *lifter) regType(reg ref.Reg) ref.Type {
	if int(reg) >= 0 && int(reg) < len(l.fn.Regs) {
		return l.fn.Regs[reg]
	}
	return 0
}

// write records value as reg's current expression and returns the
// statement that should be appended (an Assign). It always returns the
// Assign; writes absorbed into a constructor are handled by the caller.
func (l *lifter) write(reg ref.Reg, pc int, value Expr) Stmt {
	l.regExpr[reg] = value
	if n := len(l.dirty); n > 0 {
		l.dirty[n-1][reg] = true
	}
	decl := !l.declared[reg]
	l.declared[reg] = true
	return Assign{Name: l.nameOf(reg, pc), Value: value, Decl: decl}
}

// pushDirty opens a new branch-tracking frame, called whenever
// decompile.go opens a scope whose body is an alternative control path.
func (l *lifter) pushDirty() {
	l.dirty = append(l.dirty, make(map[ref.Reg]bool))
}

// popDirty closes the innermost branch-tracking frame: every register
// written inside it is forced back to a plain name reference, since a
// read after the merge point cannot assume either branch's literal
// expression. Registers are also propagated to the new top frame so an
// enclosing scope re-applies the same reset when it closes.
func (l *lifter) popDirty(pc int) {
	if len(l.dirty) == 0 {
		return
	}
	top := l.dirty[len(l.dirty)-1]
	l.dirty = l.dirty[:len(l.dirty)-1]
	for reg := range top {
		l.regExpr[reg] = RegRef{Reg: reg, Name: l.nameOf(reg, pc)}
		if n := len(l.dirty); n > 0 {
			l.dirty[n-1][reg] = true
		}
	}
}

// liftInstr lifts one non-control-flow opcode. It returns the statement to
// append (nil if none, e.g. an absorbed constructor step; a cast, like any
// other register write, yields an Assign of the Cast expression) and
// whether the instruction was fully handled here (false means the caller,
// decompile.go, must interpret it as a control-flow opcode instead).
func (l *lifter) liftInstr(pc int, instr *opcode.Instr) (Stmt, bool) {
	switch instr.Op {
	case opcode.OMov, opcode.OToDyn, opcode.OToSFloat, opcode.OToUFloat, opcode.OToInt,
		opcode.OSafeCast, opcode.OUnsafeCast, opcode.OToVirtual, opcode.OGetType:
		dst, src := instr.Regs[0], instr.Regs[1]
		val := l.read(src, pc)
		if instr.Op != opcode.OMov {
			val = Cast{Kind: instr.Op.Name(), Inner: val}
		}
		return l.write(dst, pc, val), true

	case opcode.OInt:
		return l.write(instr.Regs[0], pc, ConstInt{Value: ref.Int(instr.Ints[0])}), true
	case opcode.OFloat:
		return l.write(instr.Regs[0], pc, ConstFloat{Value: ref.Float(instr.Ints[0])}), true
	case opcode.OBool:
		return l.write(instr.Regs[0], pc, ConstBool{Value: instr.Ints[0] != 0}), true
	case opcode.OString:
		return l.write(instr.Regs[0], pc, ConstString{Value: ref.String(instr.Ints[0])}), true
	case opcode.ONull:
		return l.write(instr.Regs[0], pc, ConstNull{}), true

	case opcode.OAdd, opcode.OSub, opcode.OMul, opcode.OSDiv, opcode.OUDiv, opcode.OSMod, opcode.OUMod,
		opcode.OShl, opcode.OSShr, opcode.OUShr, opcode.OAnd, opcode.OOr, opcode.OXor,
		opcode.OJSLt, opcode.OJSGte, opcode.OJSGt, opcode.OJSLte, opcode.OJULt, opcode.OJUGte,
		opcode.OJNotLt, opcode.OJNotGte, opcode.OJEq, opcode.OJNotEq:
		unsigned := instr.Op == opcode.OUDiv || instr.Op == opcode.OUMod || instr.Op == opcode.OUShr ||
			instr.Op == opcode.OJULt || instr.Op == opcode.OJUGte
		if isJumpCompare(instr.Op) {
			// comparisons feeding a conditional jump are lifted by
			// decompile.go when it opens the If/Loop scope, not here.
			return nil, false
		}
		a, b := l.read(instr.Regs[1], pc), l.read(instr.Regs[2], pc)
		return l.write(instr.Regs[0], pc, Operation{Op: instr.Op.Name(), Unsigned: unsigned, Args: []Expr{a, b}}), true

	case opcode.ONeg, opcode.ONot:
		a := l.read(instr.Regs[1], pc)
		return l.write(instr.Regs[0], pc, Operation{Op: instr.Op.Name(), Args: []Expr{a}}), true

	case opcode.OCall0, opcode.OCall1, opcode.OCall2, opcode.OCall3, opcode.OCall4, opcode.OCallN:
		return l.liftCall(pc, instr)

	case opcode.OStaticClosure:
		return l.write(instr.Regs[0], pc, FunRef{Func: ref.Function(instr.Ints[0])}), true

	case opcode.OInstanceClosure:
		recv := l.read(instr.Regs[1], pc)
		return l.write(instr.Regs[0], pc, Closure{Func: ref.Function(instr.Ints[0]), Receiver: recv}), true

	case opcode.OField:
		obj := l.read(instr.Regs[1], pc)
		name := format.FieldNameOf(l.c, l.regType(instr.Regs[1]), instr.Ints[0])
		return l.write(instr.Regs[0], pc, Field{Obj: obj, Name: name}), true

	case opcode.OSetField:
		if l.ctorActive && instr.Regs[0] == l.ctorReg {
			l.ctorArgs = append(l.ctorArgs, l.read(instr.Regs[1], pc))
			return nil, true
		}
		obj := l.read(instr.Regs[0], pc)
		name := format.FieldNameOf(l.c, l.regType(instr.Regs[0]), instr.Ints[0])
		src := l.read(instr.Regs[1], pc)
		return FieldAssign{Obj: obj, Name: name, Value: src}, true

	case opcode.OGetThis:
		name := format.FieldNameOf(l.c, l.regType(0), instr.Ints[0])
		return l.write(instr.Regs[0], pc, ThisField{Name: name}), true

	case opcode.OSetThis:
		name := format.FieldNameOf(l.c, l.regType(0), instr.Ints[0])
		src := l.read(instr.Regs[0], pc)
		return FieldAssign{Name: name, Value: src}, true

	case opcode.OGetGlobal:
		return l.write(instr.Regs[0], pc, GlobalRef{Global: ref.Global(instr.Ints[0])}), true

	case opcode.ONew:
		l.ctorActive = true
		l.ctorReg = instr.Regs[0]
		l.ctorArgs = nil
		return nil, true

	case opcode.ORet:
		if len(instr.Regs) == 0 {
			return Return{}, true
		}
		return Return{Value: l.read(instr.Regs[0], pc)}, true

	case opcode.OThrow:
		return Throw{Value: l.read(instr.Regs[0], pc)}, true
	case opcode.ORethrow:
		return Rethrow{Value: l.read(instr.Regs[0], pc)}, true

	case opcode.ONullCheck:
		// implicit in the source language, dropped per the spec
		return nil, true

	case opcode.ONop, opcode.OLabel:
		return nil, true

	case opcode.OJTrue, opcode.OJFalse, opcode.OJNull, opcode.OJNotNull, opcode.OJAlways,
		opcode.OSwitch, opcode.OTrap, opcode.OEndTrap:
		// control-flow opcodes: the scope-recovery driver in decompile.go
		// interprets these directly, they never reach the expression lifter.
		return nil, false

	default:
		return l.liftGeneric(pc, instr)
	}
}

func isJumpCompare(op opcode.Opcode) bool { return opcode.IsJump(op) && op != opcode.OJAlways }

// liftGeneric is the fallback for opcodes without dedicated lifting above:
// enum construction/access, array and raw-memory access, references,
// dynamic field access, incr/decr and bytes. Regs[0] is treated as the
// destination when present; remaining registers and any Ints become the
// operands of a named Operation. This loses some precision (for example a
// write-only opcode like SetArray has no real destination register) but
// keeps every opcode representable without a dedicated case.
func (l *lifter) liftGeneric(pc int, instr *opcode.Instr) (Stmt, bool) {
	var args []Expr
	start := 0
	if len(instr.Regs) > 0 {
		start = 1
	}
	for _, r := range instr.Regs[start:] {
		args = append(args, l.read(r, pc))
	}
	for _, n := range instr.Ints {
		args = append(args, ConstInt{Value: ref.Int(n)})
	}
	op := Operation{Op: instr.Op.Name(), Args: args}

	if len(instr.Regs) == 0 {
		return ExprStmt{Value: op}, true
	}
	return l.write(instr.Regs[0], pc, op), true
}

// liftCall handles the fixed 0-4 arg and N-arg call forms, including
// closing a constructor-collection window opened by a preceding New.
func (l *lifter) liftCall(pc int, instr *opcode.Instr) (Stmt, bool) {
	dst := instr.Regs[0]
	target := ref.Function(instr.Ints[0])
	var args []Expr
	for _, r := range instr.Regs[1:] {
		args = append(args, l.read(r, pc))
	}
	for _, r := range instr.RegList {
		args = append(args, l.read(r, pc))
	}

	if instr.Op == opcode.OCall1 && l.ctorActive && dst == l.ctorReg && len(instr.Regs) > 1 && instr.Regs[1] == l.ctorReg {
		ctor := Constructor{Type: l.regType(dst), Args: l.ctorArgs}
		l.ctorActive = false
		return l.write(dst, pc, ctor), true
	}

	call := Call{Callee: FunRef{Func: target}, Args: args}
	return l.write(dst, pc, call), true
}
