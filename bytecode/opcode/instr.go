package opcode

import (
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/wire"
)

// Switch is the payload of the Switch instruction: the register holding the
// discriminant, the per-case jump offsets (at most 255 of them), and the
// default offset taken when no case matches.
type Switch struct {
	Reg     ref.Reg
	Targets []int32
	Default int32
}

// Instr is a single decoded instruction. Register arguments and all other
// scalar arguments are kept in two parallel slices, populated strictly in
// the order the opcode's Layout declares them; RegList and Switch cover the
// two argument kinds that don't fit that generic shape.
type Instr struct {
	Op      Opcode
	Regs    []ref.Reg // one entry per ArgReg in Layout(Op), in order
	RegList []ref.Reg // present iff Layout(Op) contains ArgRegList
	Ints    []int32   // one entry per non-register, non-switch arg, in order
	Switch  *Switch   // present iff Op == OSwitch
}

// Decode reads one instruction for the given opcode tag. The caller has
// already read and validated the tag byte.
func Decode(r *wire.Reader, op Opcode) (*Instr, error) {
	instr := &Instr{Op: op}
	for _, k := range Layout(op) {
		switch k {
		case ArgReg:
			v, err := wire.ReadUnsignedVarint(r)
			if err != nil {
				return nil, err
			}
			instr.Regs = append(instr.Regs, ref.Reg(v))

		case ArgRegList:
			n, err := wire.ReadUnsignedVarint(r)
			if err != nil {
				return nil, err
			}
			regs := make([]ref.Reg, n)
			for i := range regs {
				v, err := wire.ReadUnsignedVarint(r)
				if err != nil {
					return nil, err
				}
				regs[i] = ref.Reg(v)
			}
			instr.RegList = regs

		case ArgBool:
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			instr.Ints = append(instr.Ints, int32(b))

		case ArgJump:
			v, err := wire.ReadSignedVarint(r)
			if err != nil {
				return nil, err
			}
			instr.Ints = append(instr.Ints, v)

		case ArgInt:
			v, err := wire.ReadSignedVarint(r)
			if err != nil {
				return nil, err
			}
			instr.Ints = append(instr.Ints, v)

		case ArgSwitch:
			reg, err := wire.ReadUnsignedVarint(r)
			if err != nil {
				return nil, err
			}
			n, err := wire.ReadUnsignedVarint(r)
			if err != nil {
				return nil, err
			}
			targets := make([]int32, n)
			for i := range targets {
				v, err := wire.ReadSignedVarint(r)
				if err != nil {
					return nil, err
				}
				targets[i] = v
			}
			def, err := wire.ReadSignedVarint(r)
			if err != nil {
				return nil, err
			}
			instr.Switch = &Switch{Reg: ref.Reg(reg), Targets: targets, Default: def}

		default: // ArgFloat, ArgString, ArgBytes, ArgType, ArgGlobal, ArgFun, ArgField, ArgConstruct
			v, err := wire.ReadUnsignedVarint(r)
			if err != nil {
				return nil, err
			}
			instr.Ints = append(instr.Ints, int32(v))
		}
	}
	return instr, nil
}

// Encode writes the instruction's tag byte followed by its payload.
func Encode(w *wire.Writer, instr *Instr) error {
	if err := w.WriteByte(byte(instr.Op)); err != nil {
		return err
	}

	var regIdx, intIdx int
	for _, k := range Layout(instr.Op) {
		switch k {
		case ArgReg:
			if err := wire.WriteUnsignedVarint(w, uint32(instr.Regs[regIdx])); err != nil {
				return err
			}
			regIdx++

		case ArgRegList:
			if err := wire.WriteUnsignedVarint(w, uint32(len(instr.RegList))); err != nil {
				return err
			}
			for _, r := range instr.RegList {
				if err := wire.WriteUnsignedVarint(w, uint32(r)); err != nil {
					return err
				}
			}

		case ArgBool:
			if err := w.WriteByte(byte(instr.Ints[intIdx])); err != nil {
				return err
			}
			intIdx++

		case ArgJump, ArgInt:
			if err := wire.WriteSignedVarint(w, instr.Ints[intIdx]); err != nil {
				return err
			}
			intIdx++

		case ArgSwitch:
			sw := instr.Switch
			if err := wire.WriteUnsignedVarint(w, uint32(sw.Reg)); err != nil {
				return err
			}
			if err := wire.WriteUnsignedVarint(w, uint32(len(sw.Targets))); err != nil {
				return err
			}
			for _, t := range sw.Targets {
				if err := wire.WriteSignedVarint(w, t); err != nil {
					return err
				}
			}
			if err := wire.WriteSignedVarint(w, sw.Default); err != nil {
				return err
			}

		default: // ArgFloat, ArgString, ArgBytes, ArgType, ArgGlobal, ArgFun, ArgField, ArgConstruct
			if err := wire.WriteUnsignedVarint(w, uint32(instr.Ints[intIdx])); err != nil {
				return err
			}
			intIdx++
		}
	}
	return nil
}

// Default builds the zero-value instruction for op: every register is 0,
// every ref is 0, jump offsets are 0, and RegList/Switch are present but
// empty if the layout calls for them. It is mainly useful for tests that
// need a well-shaped placeholder instruction for every opcode.
func Default(op Opcode) *Instr {
	instr := &Instr{Op: op}
	for _, k := range Layout(op) {
		switch k {
		case ArgReg:
			instr.Regs = append(instr.Regs, 0)
		case ArgRegList:
			instr.RegList = []ref.Reg{}
		case ArgSwitch:
			instr.Switch = &Switch{Targets: []int32{}}
		default:
			instr.Ints = append(instr.Ints, 0)
		}
	}
	return instr
}

// Jump returns the instruction's jump offset and true if op is a jump
// variant (see IsJump); the offset is always the last entry in Ints for
// those opcodes.
func (instr *Instr) Jump() (int32, bool) {
	if !IsJump(instr.Op) || len(instr.Ints) == 0 {
		return 0, false
	}
	return instr.Ints[len(instr.Ints)-1], true
}
