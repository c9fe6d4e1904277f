package analysis

import (
	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
)

// Call is one syntactic call or closure creation found in a function body.
type Call struct {
	Target ref.Function
	Kind   UseKind
}

// callsIn scans fn's opcodes for every statically resolvable call or
// closure creation: direct calls, closure creation, and method dispatch
// resolved through the receiver's declared static type.
func callsIn(c *container.Code, fn *container.Function) []Call {
	var calls []Call
	for _, instr := range fn.Ops {
		switch instr.Op {
		case opcode.OCall0, opcode.OCall1, opcode.OCall2, opcode.OCall3, opcode.OCall4, opcode.OCallN:
			calls = append(calls, Call{Target: ref.Function(instr.Ints[0]), Kind: UseCall})

		case opcode.OStaticClosure, opcode.OInstanceClosure:
			calls = append(calls, Call{Target: ref.Function(instr.Ints[0]), Kind: UseClosure})

		case opcode.OCallMethod:
			if target, ok := resolveMethodDispatch(c, fn, instr.Regs[1], instr.Ints[0]); ok {
				calls = append(calls, Call{Target: target, Kind: UseMethodDispatch})
			}

		case opcode.OCallThis:
			if target, ok := resolveMethodDispatch(c, fn, 0, instr.Ints[0]); ok {
				calls = append(calls, Call{Target: target, Kind: UseMethodDispatch})
			}
		}
	}
	return calls
}

// resolveMethodDispatch follows receiver's static type -> record ->
// proto[protoIdx] -> findex. ok is false if the receiver's register type is
// not a record, per the "use is not recorded" rule for untyped receivers.
func resolveMethodDispatch(c *container.Code, fn *container.Function, receiver ref.Reg, protoIdx int32) (ref.Function, bool) {
	if int(receiver) < 0 || int(receiver) >= len(fn.Regs) {
		return 0, false
	}
	rec := c.Record(fn.Regs[receiver])
	if rec == nil {
		return 0, false
	}
	if protoIdx < 0 || int(protoIdx) >= len(rec.Protos) {
		return 0, false
	}
	return rec.Protos[protoIdx].FIndex, true
}
