package format_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/format"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
)

func sample(t *testing.T) *container.Code {
	t.Helper()

	i32 := &types.Type{Kind: types.KI32}
	point := &types.Type{Kind: types.KObj, Rec: &types.Record{
		Name:   ref.String(0), // index 0 is the null sentinel: Point is unnamed
		Fields: []types.Field{{Name: ref.String(1), Type: ref.Type(0)}}, // x
	}}

	getX := opcode.Default(opcode.OField)
	getX.Regs = []ref.Reg{1, 0}
	getX.Ints = []int32{0}

	c := &container.Code{
		Version: 4,
		Strings: []string{"Point", "x"},
		Types:   []*types.Type{i32, point},
		Functions: []container.Function{
			{
				Type: ref.Type(1),
				Regs: []ref.Type{ref.Type(1), ref.Type(0)},
				Ops:  []*opcode.Instr{getX, opcode.Default(opcode.ORet)},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, container.Write(&buf, c))
	got, err := container.Read(&buf)
	require.NoError(t, err)
	return got
}

func TestDebugNeverConsultsContainer(t *testing.T) {
	c := sample(t)
	out := format.Debug{}.Function(c, &c.Functions[0])
	require.Contains(t, out, "field")
	require.Contains(t, out, "reg1")
}

func TestTerseUsesPlaceholders(t *testing.T) {
	c := sample(t)
	out := format.Terse{}.Function(c, &c.Functions[0])
	require.Contains(t, out, "@0")
}

func TestEnhancedResolvesFieldName(t *testing.T) {
	c := sample(t)
	out := format.Enhanced{}.Function(c, &c.Functions[0])
	require.Contains(t, out, "reg1 = reg0.x")
}
