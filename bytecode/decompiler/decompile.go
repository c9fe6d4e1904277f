package decompiler

import (
	"sort"

	"github.com/mna/vmbc/bytecode/bcerrors"
	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/opcode"
)

// Decompile lifts fn's linear opcode stream into a tree of structured
// statements: a single forward pass drives both the scope stack (control
// flow) and the expression lifter (register traffic) together, since the
// two are only meaningful relative to each other. Run the rewrite passes
// in Simplify on the result before printing it.
func Decompile(c *container.Code, fn *container.Function) ([]Stmt, error) {
	l := newLifter(c, fn)
	s := newScopeStack()

	loopHeaders := findLoopHeaders(fn)
	var pendingSwitch []switchBoundary

	// closeFixedThrough closes every fixed frame due at pc, popping the
	// lifter's matching branch-tracking frame for each one so that
	// registers written inside are read back by name afterwards.
	closeFixedThrough := func(pc int) {
		for {
			f := s.top()
			if !f.fixed || f.target > pc {
				return
			}
			l.popDirty(pc)
			s.closeTop()
		}
	}

	for pc := 0; pc < len(fn.Ops); pc++ {
		if len(pendingSwitch) > 0 && pendingSwitch[0].pc == pc {
			b := pendingSwitch[0]
			pendingSwitch = pendingSwitch[1:]
			if s.top().kind == scopeSwitchCase {
				l.popDirty(pc)
				s.closeTop()
			}
			if b.pattern != nil && s.top().kind == scopeSwitch {
				end := s.top().target
				if len(pendingSwitch) > 0 {
					end = pendingSwitch[0].pc
				}
				l.pushDirty()
				s.push(&scopeFrame{kind: scopeSwitchCase, fixed: true, target: end, curCase: b.pattern})
			}
		}

		closeFixedThrough(pc)

		// a backward jump elsewhere in the function targets this pc: open
		// the loop body here so the eventual backward jump has a frame to
		// close against. Unfixed, since its extent is only known when that
		// closing jump is actually reached.
		if loopHeaders[pc] {
			l.pushDirty()
			s.push(&scopeFrame{kind: scopeLoop, loopStart: pc})
		}

		instr := fn.Ops[pc]

		switch {
		case instr.Op == opcode.OJAlways:
			target, _ := instr.Jump()
			dest := pc + int(target) + 1
			if dest <= pc {
				if s.top().kind == scopeLoop && s.top().loopStart == dest {
					l.popDirty(pc)
					s.closeLoop(dest, nil)
					continue
				}
				return nil, bcerrors.NewMalformed("backward jump at instruction %d targets %d, no open loop there", pc, dest)
			}
			if s.top().kind == scopeIf {
				// the then-branch of an if/else ends here: close it as a
				// proper If{Cond, Then} appended to the parent, then open
				// the else-branch covering [pc+1, dest) as its own frame
				// that, on close, patches that If's Else field. The pushDirty
				// frame opened for the then-branch stays open across both
				// arms, so a register written in either branch is reset to
				// a name reference once the whole if/else closes.
				s.convertIfToElse(dest)
				continue
			}
			// end of a switch case body or other forward skip: nothing to
			// open, closeFixedThrough at dest handles any enclosing frame.
			continue

		case isCondJump(instr.Op):
			target, _ := instr.Jump()
			dest := pc + int(target) + 1
			cond := l.condExpr(pc, instr)
			if dest <= pc {
				if s.top().kind == scopeLoop && s.top().loopStart == dest {
					l.popDirty(pc)
					s.closeLoop(dest, cond)
					continue
				}
				return nil, bcerrors.NewMalformed("backward conditional jump at instruction %d targets %d, no open loop there", pc, dest)
			}
			// the compiler negates the source condition to jump past the
			// then-block, so the recovered guard is the negation of what
			// the opcode actually tests.
			l.pushDirty()
			s.push(&scopeFrame{kind: scopeIf, fixed: true, target: dest, cond: negate(cond)})
			continue

		case instr.Op == opcode.OSwitch:
			pendingSwitch = switchBoundaries(pc, instr)
			// the switch's own extent is not recoverable from the jump
			// table alone (the last case/default body has no further
			// boundary); it is assumed to run until whatever would close
			// its enclosing scope, or to the end of the function if none.
			end := len(fn.Ops)
			if parent := s.top(); parent.fixed {
				end = parent.target
			}
			l.pushDirty()
			s.push(&scopeFrame{kind: scopeSwitch, fixed: true, target: end, switchVal: l.read(instr.Switch.Reg, pc)})
			continue

		case instr.Op == opcode.OTrap:
			// OTrap is not classified as a jump by opcode.IsJump (it is a
			// trap-registration opcode, not a branch test), so its offset
			// is read directly rather than through Instr.Jump.
			dest := pc + int(instr.Ints[len(instr.Ints)-1]) + 1
			l.pushDirty()
			s.push(&scopeFrame{kind: scopeTry, fixed: true, target: dest})
			continue

		case instr.Op == opcode.OEndTrap:
			if s.top().kind == scopeTry {
				s.top().kind = scopeCatch
			}
			continue
		}

		stmt, handled := l.liftInstr(pc, instr)
		if !handled {
			return nil, bcerrors.NewMalformed("opcode %s at instruction %d has no control-flow handling", instr.Op, pc)
		}
		if stmt != nil {
			s.append(stmt)
		}
	}

	closeFixedThrough(len(fn.Ops))
	if s.depth() != 0 {
		return nil, bcerrors.NewMalformed("function %d ends with %d scope(s) still open", fn.FIndex, s.depth())
	}
	return s.root(), nil
}

// findLoopHeaders scans fn for every backward jump (conditional or not) and
// returns the set of pcs they target. Each such pc is where a Loop scope
// frame must be opened before the walk reaches it, since a backward jump
// only has somewhere to close against if the frame already exists.
func findLoopHeaders(fn *container.Function) map[int]bool {
	headers := make(map[int]bool)
	for pc, instr := range fn.Ops {
		if instr.Op != opcode.OJAlways && !isCondJump(instr.Op) {
			continue
		}
		target, ok := instr.Jump()
		if !ok {
			continue
		}
		dest := pc + int(target) + 1
		if dest <= pc {
			headers[dest] = true
		}
	}
	return headers
}

func isCondJump(op opcode.Opcode) bool {
	return opcode.IsJump(op) && op != opcode.OJAlways
}

// condExpr builds the expression tested by a conditional jump opcode.
func (l *lifter) condExpr(pc int, instr *opcode.Instr) Expr {
	switch instr.Op {
	case opcode.OJTrue:
		return l.read(instr.Regs[0], pc)
	case opcode.OJFalse:
		return Operation{Op: "not", Args: []Expr{l.read(instr.Regs[0], pc)}}
	case opcode.OJNull:
		return Operation{Op: "isnull", Args: []Expr{l.read(instr.Regs[0], pc)}}
	case opcode.OJNotNull:
		return Operation{Op: "not", Args: []Expr{Operation{Op: "isnull", Args: []Expr{l.read(instr.Regs[0], pc)}}}}
	default:
		a, b := l.read(instr.Regs[0], pc), l.read(instr.Regs[1], pc)
		return Operation{Op: instr.Op.Name(), Args: []Expr{a, b}}
	}
}

// negate wraps cond in a boolean negation, collapsing a double negation
// back to the inner expression instead of stacking "not"s.
func negate(cond Expr) Expr {
	if op, ok := cond.(Operation); ok && op.Op == "not" && len(op.Args) == 1 {
		return op.Args[0]
	}
	return Operation{Op: "not", Args: []Expr{cond}}
}

// switchBoundary marks where a case body (or the default, pattern == nil)
// begins.
type switchBoundary struct {
	pc      int
	pattern Expr
}

// switchBoundaries computes, for a Switch instruction at pc, the sorted
// (by start pc) list of case and default body boundaries. Case values are
// synthesized as their integer index into the jump table (a LiteralInt,
// not a ConstInt - the index is not a reference into the Ints pool), since
// the container format does not retain the original literal pattern.
func switchBoundaries(pc int, instr *opcode.Instr) []switchBoundary {
	var out []switchBoundary
	for i, off := range instr.Switch.Targets {
		out = append(out, switchBoundary{pc: pc + int(off) + 1, pattern: LiteralInt{Value: int32(i)}})
	}
	out = append(out, switchBoundary{pc: pc + int(instr.Switch.Default) + 1, pattern: nil})
	sort.Slice(out, func(i, j int) bool { return out[i].pc < out[j].pc })
	return out
}
