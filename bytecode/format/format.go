// Package format renders container entities as human-readable text, at one
// of three fidelities: Debug (mechanical, no container lookups), Terse
// (brief, raw indices), and Enhanced (resolves names and unfolds signatures).
package format

import (
	"fmt"
	"strings"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
)

// Formatter renders the five entity kinds a caller may want to print. Debug
// and Terse never dereference c; Enhanced does.
type Formatter interface {
	Reference(c *container.Code, kind string, idx int32) string
	Type(c *container.Code, t *types.Type) string
	Native(c *container.Code, n *container.Native) string
	FunctionHeader(c *container.Code, fn *container.Function) string
	Function(c *container.Code, fn *container.Function) string
}

// genericInstr renders one instruction using ref for operand text, the same
// shape for every formatter: "<mnemonic> <arg> <arg> ...". Enhanced
// overrides specific opcodes with richer text and falls back to this.
func genericInstr(f Formatter, c *container.Code, instr *opcode.Instr) string {
	var b strings.Builder
	b.WriteString(instr.Op.Name())

	regIdx, intIdx := 0, 0
	for _, k := range opcode.Layout(instr.Op) {
		b.WriteByte(' ')
		switch k {
		case opcode.ArgReg:
			fmt.Fprintf(&b, "%s", instr.Regs[regIdx])
			regIdx++
		case opcode.ArgRegList:
			parts := make([]string, len(instr.RegList))
			for i, r := range instr.RegList {
				parts[i] = r.String()
			}
			b.WriteByte('[')
			b.WriteString(strings.Join(parts, ", "))
			b.WriteByte(']')
		case opcode.ArgBool:
			if instr.Ints[intIdx] != 0 {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
			intIdx++
		case opcode.ArgJump:
			fmt.Fprintf(&b, "%+d", instr.Ints[intIdx])
			intIdx++
		case opcode.ArgSwitch:
			fmt.Fprintf(&b, "%s %v default %+d", instr.Switch.Reg, instr.Switch.Targets, instr.Switch.Default)
		case opcode.ArgInt:
			fmt.Fprintf(&b, "%s", ref.Int(instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgFloat:
			b.WriteString(f.Reference(c, "float", instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgString:
			b.WriteString(f.Reference(c, "string", instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgBytes:
			b.WriteString(f.Reference(c, "bytes", instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgType:
			b.WriteString(f.Reference(c, "type", instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgGlobal:
			b.WriteString(f.Reference(c, "global", instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgFun:
			b.WriteString(f.Reference(c, "fun", instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgField:
			b.WriteString(f.Reference(c, "field", instr.Ints[intIdx]))
			intIdx++
		case opcode.ArgConstruct:
			b.WriteString(f.Reference(c, "construct", instr.Ints[intIdx]))
			intIdx++
		}
	}
	return b.String()
}

// genericFunction renders a header line followed by one line per
// instruction, each produced by render.
func genericFunction(f Formatter, c *container.Code, fn *container.Function, render func(Formatter, *container.Code, *opcode.Instr) string) string {
	var b strings.Builder
	b.WriteString(f.FunctionHeader(c, fn))
	b.WriteByte('\n')
	for i, instr := range fn.Ops {
		fmt.Fprintf(&b, "  %4d: %s\n", i, render(f, c, instr))
	}
	return b.String()
}
