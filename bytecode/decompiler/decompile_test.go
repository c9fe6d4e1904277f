package decompiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/decompiler"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
)

func reg(n int32) ref.Reg { return ref.Reg(n) }

func jump(op opcode.Opcode, regs []ref.Reg, offset int32) *opcode.Instr {
	instr := opcode.Default(op)
	if len(regs) > 0 {
		instr.Regs = append([]ref.Reg{}, regs...)
	}
	instr.Ints[len(instr.Ints)-1] = offset
	return instr
}

func intLit(dst ref.Reg, val int32) *opcode.Instr {
	instr := opcode.Default(opcode.OInt)
	instr.Regs = []ref.Reg{dst}
	instr.Ints = []int32{val}
	return instr
}

func ret(r ref.Reg) *opcode.Instr {
	instr := opcode.Default(opcode.ORet)
	instr.Regs = []ref.Reg{r}
	return instr
}

func decompileOps(t *testing.T, ops []*opcode.Instr) []decompiler.Stmt {
	t.Helper()
	c := &container.Code{Ints: []int32{1, 2}}
	fn := &container.Function{FIndex: 0, Regs: []ref.Type{0, 0, 0}, Ops: ops}
	stmts, err := decompiler.Decompile(c, fn)
	require.NoError(t, err)
	return stmts
}

func TestDecompileLinearReturn(t *testing.T) {
	stmts := decompileOps(t, []*opcode.Instr{
		intLit(reg(0), 0),
		ret(reg(0)),
	})

	// the literal load produces its own Assign even though the very next
	// instruction consumes the register; neither Decompile nor Simplify
	// eliminates dead stores.
	require.Len(t, stmts, 2)
	a, ok := stmts[0].(decompiler.Assign)
	require.True(t, ok)
	aci, ok := a.Value.(decompiler.ConstInt)
	require.True(t, ok)
	require.Equal(t, ref.Int(0), aci.Value)

	r, ok := stmts[1].(decompiler.Return)
	require.True(t, ok)
	ci, ok := r.Value.(decompiler.ConstInt)
	require.True(t, ok)
	require.Equal(t, ref.Int(0), ci.Value)
}

// if !(r0 < r1) return 0; else return 1;
func TestDecompileIfElse(t *testing.T) {
	ops := []*opcode.Instr{
		jump(opcode.OJSLt, []ref.Reg{reg(0), reg(1)}, 3), // 0: negated test jumps to else start (pc 4)
		intLit(reg(2), 0),             // 1: then
		ret(reg(2)),                   // 2: then
		jump(opcode.OJAlways, nil, 2), // 3: skip else, to end (pc 6)
		intLit(reg(2), 1),             // 4: else
		ret(reg(2)),                   // 5: else
	}
	stmts := decompileOps(t, ops)

	require.Len(t, stmts, 1)
	ifStmt, ok := stmts[0].(decompiler.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 2)
	require.Len(t, ifStmt.Else, 2)

	// the recovered guard is the negation of what OJSLt actually tests,
	// since the compiler jumps past the then-block when the condition is
	// false.
	neg, ok := ifStmt.Cond.(decompiler.Operation)
	require.True(t, ok)
	require.Equal(t, "not", neg.Op)
}

// a do-while-shaped loop: Label; body; backward conditional jump to Label.
// This is a conditional-tail variant of the Label ... backward-JAlways
// pattern of SPEC_FULL.md's S6: the tail jump's own condition becomes the
// recovered Loop's guard.
func TestDecompileLoop(t *testing.T) {
	ops := []*opcode.Instr{
		opcode.Default(opcode.OLabel),                     // 0: loop header
		intLit(reg(2), 0),                                 // 1: body
		jump(opcode.OJSLt, []ref.Reg{reg(0), reg(1)}, -3), // 2: continue while r0<r1, back to 0
		ret(reg(0)), // 3: after loop
	}
	stmts := decompileOps(t, ops)

	require.Len(t, stmts, 2)
	loop, ok := stmts[0].(decompiler.Loop)
	require.True(t, ok)
	require.Len(t, loop.Body, 1)
	require.NotNil(t, loop.Cond)
	_, ok = stmts[1].(decompiler.Return)
	require.True(t, ok)
}

func TestDecompileSwitch(t *testing.T) {
	sw := opcode.Default(opcode.OSwitch)
	sw.Switch.Reg = reg(0)
	sw.Switch.Targets = []int32{0, 2} // case 0 body at pc 1, case 1 body at pc 3
	sw.Switch.Default = 4             // default body at pc 5

	ops := []*opcode.Instr{
		sw,                // 0: switch r0
		intLit(reg(1), 0), // 1: case 0
		ret(reg(1)),       // 2
		intLit(reg(1), 1), // 3: case 1
		ret(reg(1)),       // 4
		intLit(reg(1), 2), // 5: default
		ret(reg(1)),       // 6
	}
	stmts := decompileOps(t, ops)

	require.Len(t, stmts, 1)
	sw2, ok := stmts[0].(decompiler.Switch)
	require.True(t, ok)
	require.Len(t, sw2.Cases, 2)
	require.Len(t, sw2.Default, 2)
	require.Equal(t, decompiler.LiteralInt{Value: 0}, sw2.Cases[0].Pattern)
	require.Equal(t, decompiler.LiteralInt{Value: 1}, sw2.Cases[1].Pattern)
}

// TestPassesIdempotent checks that running Simplify twice is the same as
// running it once, per the stability property the pass pipeline must
// satisfy.
func TestPassesIdempotent(t *testing.T) {
	c := &container.Code{}
	stmts := []decompiler.Stmt{
		decompiler.Return{Value: decompiler.ConstInt{Value: ref.Int(0)}},
	}

	once := decompiler.Simplify(c, stmts)
	twice := decompiler.Simplify(c, once)
	require.Equal(t, once, twice)
}

func TestMergeIfExpressions(t *testing.T) {
	c := &container.Code{}
	stmts := []decompiler.Stmt{
		decompiler.If{
			Cond: decompiler.RegRef{Reg: reg(0), Name: "cond"},
			Then: []decompiler.Stmt{decompiler.Assign{Name: "x", Value: decompiler.ConstInt{Value: ref.Int(0)}}},
			Else: []decompiler.Stmt{decompiler.Assign{Name: "x", Value: decompiler.ConstInt{Value: ref.Int(1)}}},
		},
	}

	out := decompiler.Simplify(c, stmts)
	require.Len(t, out, 1)
	assign, ok := out[0].(decompiler.Assign)
	require.True(t, ok)
	require.Equal(t, "x", assign.Name)
	_, ok = assign.Value.(decompiler.IfElse)
	require.True(t, ok)
}

func TestPrintReturnsSourceLikeText(t *testing.T) {
	c := &container.Code{Ints: []int32{42}}
	stmts := []decompiler.Stmt{
		decompiler.Return{Value: decompiler.ConstInt{Value: ref.Int(0)}},
	}
	out := decompiler.Print(c, stmts)
	require.Contains(t, out, "return 42")
}
