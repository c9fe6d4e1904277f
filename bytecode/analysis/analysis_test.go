package analysis_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/vmbc/bytecode/analysis"
	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
	"github.com/mna/vmbc/bytecode/wire"
)

// debugOf returns n copies of a (file, 0) debug position, enough to match
// however many opcodes a test function body has.
func debugOf(file, n int) []wire.DebugPos {
	out := make([]wire.DebugPos, n)
	for i := range out {
		out[i] = wire.DebugPos{File: file}
	}
	return out
}

// buildCallChain wires three functions: main calls helper, helper calls
// leaf. leaf has a debug file containing "std".
func buildCallChain(t *testing.T) *container.Code {
	t.Helper()

	callMain := opcode.Default(opcode.OCall0)
	callMain.Regs = []ref.Reg{0}
	callMain.Ints = []int32{1} // calls findex 1 (helper)

	callHelper := opcode.Default(opcode.OCall0)
	callHelper.Regs = []ref.Reg{0}
	callHelper.Ints = []int32{2} // calls findex 2 (leaf)

	c := &container.Code{
		Version:    4,
		Entrypoint: ref.Function(0),
		Strings:    []string{"s"},
		DebugFiles: []string{"app.hl", "std/core.hl"},
		HasDebug:   true,
		Functions: []container.Function{
			{FIndex: 0, Regs: []ref.Type{0}, Ops: []*opcode.Instr{callMain, opcode.Default(opcode.ORet)},
				Debug: debugOf(0, 2)},
			{FIndex: 1, Regs: []ref.Type{0}, Ops: []*opcode.Instr{callHelper, opcode.Default(opcode.ORet)},
				Debug: debugOf(0, 2)},
			{FIndex: 2, Regs: []ref.Type{0}, Ops: []*opcode.Instr{opcode.Default(opcode.ORet)},
				Debug: debugOf(1, 1)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, container.Write(&buf, c))
	got, err := container.Read(&buf)
	require.NoError(t, err)
	return got
}

func TestCallGraph(t *testing.T) {
	c := buildCallChain(t)
	g := analysis.BuildCallGraph(c, ref.Function(0), 10)

	require.Equal(t, []ref.Function{1}, g.Callees(ref.Function(0)))
	require.Equal(t, []ref.Function{2}, g.Callees(ref.Function(1)))
	require.Empty(t, g.Callees(ref.Function(2)))
}

func TestCallGraphDepthLimit(t *testing.T) {
	c := buildCallChain(t)
	g := analysis.BuildCallGraph(c, ref.Function(0), 0)

	require.Empty(t, g.Callees(ref.Function(0)))
}

func TestStdHeuristic(t *testing.T) {
	c := buildCallChain(t)
	require.False(t, analysis.IsStdFunction(c, &c.Functions[0]))
	require.True(t, analysis.IsStdFunction(c, &c.Functions[2]))
}

func TestUsageInversionFindsCalls(t *testing.T) {
	c := buildCallChain(t)
	u := analysis.Invert(c)

	uses, ok := u.Functions.Get(ref.Function(1))
	require.True(t, ok)
	require.Len(t, uses, 1)
	require.Equal(t, analysis.UseCall, uses[0].Kind)
	require.Equal(t, ref.Function(0), uses[0].In)
}

func TestIsStdRecordByNamePrefix(t *testing.T) {
	c := &container.Code{
		Strings: []string{"", "std.Buffer"},
		Types: []*types.Type{
			{Kind: types.KObj, Rec: &types.Record{Name: ref.String(1)}},
		},
	}
	require.True(t, analysis.IsStdRecord(c, c.Types[0]))
}
