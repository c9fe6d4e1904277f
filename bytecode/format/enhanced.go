package format

import (
	"fmt"
	"strings"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
)

// Enhanced consults the container to resolve names, expand field references
// into their human names relative to an owning type, unfold function
// signatures, and substitute operands in opcode text. It is also used by
// the decompiler for identifier rendering.
type Enhanced struct{}

func typeName(c *container.Code, r ref.Type) string {
	t := c.Type(r)
	if t == nil {
		return fmt.Sprintf("type@%d", int32(r))
	}
	switch t.Kind {
	case types.KObj, types.KStruct:
		name := c.String(t.Rec.Name)
		if name == "" {
			return fmt.Sprintf("%s@%d", t.Kind, int32(r))
		}
		return name
	case types.KAbstract:
		return c.String(t.Name)
	case types.KEnum:
		return c.String(t.Enum.Name)
	case types.KRef, types.KNull, types.KPacked:
		return fmt.Sprintf("%s(%s)", t.Kind, typeName(c, t.Wrapped))
	case types.KFun, types.KMethod:
		return signatureName(c, t.Sig)
	default:
		return t.Kind.String()
	}
}

func signatureName(c *container.Code, sig *types.Signature) string {
	args := make([]string, len(sig.Args))
	for i, a := range sig.Args {
		args[i] = typeName(c, a)
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(args, ", "), typeName(c, sig.Ret))
}

func funcName(c *container.Code, r ref.Function) string {
	if fn, ok := c.Function(r); ok && !fn.Name.IsNull() {
		return c.String(fn.Name)
	}
	if n, ok := c.NativeFor(r); ok {
		return c.String(n.Lib) + "." + c.String(n.Name)
	}
	return fmt.Sprintf("fun@%d", int32(r))
}

// FieldNameOf resolves the field at flattened index idx on the record typed
// by r, or a placeholder if either lookup fails. Exported for the
// decompiler, which needs the same name resolution for field expressions.
func FieldNameOf(c *container.Code, r ref.Type, idx int32) string {
	rec := c.Record(r)
	if rec == nil || idx < 0 || int(idx) >= len(rec.Flattened) {
		return fmt.Sprintf("field@%d", idx)
	}
	return c.String(rec.Flattened[idx].Name)
}

func (Enhanced) Reference(c *container.Code, kind string, idx int32) string {
	switch kind {
	case "string":
		return fmt.Sprintf("%q", c.String(ref.String(idx)))
	case "type":
		return typeName(c, ref.Type(idx))
	case "fun":
		return funcName(c, ref.Function(idx))
	case "float":
		if int(idx) >= 0 && int(idx) < len(c.Floats) {
			return fmt.Sprintf("%g", c.Floats[idx])
		}
		return fmt.Sprintf("float@%d", idx)
	default:
		return fmt.Sprintf("%s@%d", kind, idx)
	}
}

func (Enhanced) Type(c *container.Code, t *types.Type) string {
	switch t.Kind {
	case types.KObj, types.KStruct:
		s := fmt.Sprintf("%s %s", t.Kind, c.String(t.Rec.Name))
		if t.Rec.HasSuper() {
			s += " extends " + typeName(c, *t.Rec.Super)
		}
		return s
	case types.KFun, types.KMethod:
		return fmt.Sprintf("%s %s", t.Kind, signatureName(c, t.Sig))
	default:
		return t.String()
	}
}

func (Enhanced) Native(c *container.Code, n *container.Native) string {
	return fmt.Sprintf("native %s.%s : %s", c.String(n.Lib), c.String(n.Name), typeName(c, n.Type))
}

func (Enhanced) FunctionHeader(c *container.Code, fn *container.Function) string {
	name := fmt.Sprintf("fun@%d", int32(fn.FIndex))
	if !fn.Name.IsNull() {
		name = c.String(fn.Name)
	}
	if fn.Parent != 0 {
		name = typeName(c, fn.Parent) + "." + name
	}
	return fmt.Sprintf("function %s : %s", name, typeName(c, fn.Type))
}

func (e Enhanced) Function(c *container.Code, fn *container.Function) string {
	return genericFunction(e, c, fn, func(f Formatter, c *container.Code, instr *opcode.Instr) string {
		return enhancedInstr(c, fn, instr)
	})
}

// enhancedInstr substitutes operands for the field-access family of
// opcodes, e.g. "Field dst obj fieldRef" becomes "dst = obj.<name>"; every
// other opcode falls back to the generic mnemonic-and-operands rendering.
func enhancedInstr(c *container.Code, fn *container.Function, instr *opcode.Instr) string {
	regType := func(r ref.Reg) ref.Type {
		if int(r) >= 0 && int(r) < len(fn.Regs) {
			return fn.Regs[r]
		}
		return 0
	}

	switch instr.Op {
	case opcode.OField:
		dst, obj := instr.Regs[0], instr.Regs[1]
		name := FieldNameOf(c, regType(obj), instr.Ints[0])
		return fmt.Sprintf("%s = %s.%s", dst, obj, name)

	case opcode.OSetField:
		obj, src := instr.Regs[0], instr.Regs[1]
		name := FieldNameOf(c, regType(obj), instr.Ints[0])
		return fmt.Sprintf("%s.%s = %s", obj, name, src)

	case opcode.OGetThis:
		// the receiver is always register 0
		dst := instr.Regs[0]
		name := FieldNameOf(c, regType(0), instr.Ints[0])
		return fmt.Sprintf("%s = this.%s", dst, name)

	case opcode.OSetThis:
		src := instr.Regs[0]
		name := FieldNameOf(c, regType(0), instr.Ints[0])
		return fmt.Sprintf("this.%s = %s", name, src)

	case opcode.ODynGet:
		dst, obj := instr.Regs[0], instr.Regs[1]
		return fmt.Sprintf("%s = %s.%s", dst, obj, c.String(ref.String(instr.Ints[0])))

	case opcode.ODynSet:
		obj, src := instr.Regs[0], instr.Regs[1]
		return fmt.Sprintf("%s.%s = %s", obj, c.String(ref.String(instr.Ints[0])), src)

	default:
		return genericInstr(Enhanced{}, c, instr)
	}
}
