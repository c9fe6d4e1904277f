package opcode_test

import (
	"bytes"
	"testing"

	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/wire"
	"github.com/stretchr/testify/require"
)

func TestNameFromNameInverse(t *testing.T) {
	for op := opcode.Opcode(0); int(op) < opcode.Count(); op++ {
		name := op.Name()
		require.NotEmpty(t, name, "opcode %d", op)

		got, ok := opcode.FromName(name)
		require.True(t, ok, "FromName(%q)", name)
		require.Equal(t, op, got)
	}
}

func TestUnknownName(t *testing.T) {
	_, ok := opcode.FromName("not-a-real-opcode")
	require.False(t, ok)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for op := opcode.Opcode(0); int(op) < opcode.Count(); op++ {
		instr := opcode.Default(op)

		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		require.NoError(t, opcode.Encode(w, instr), "opcode %s", op)
		require.NoError(t, w.Flush())

		r := wire.NewReader(&buf)
		tag, err := r.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte(op), tag)

		got, err := opcode.Decode(r, opcode.Opcode(tag))
		require.NoError(t, err, "opcode %s", op)
		require.Equal(t, instr, got, "opcode %s", op)
	}
}

func TestJumpClassification(t *testing.T) {
	require.True(t, opcode.IsJump(opcode.OJAlways))
	require.True(t, opcode.IsJump(opcode.OJEq))
	require.False(t, opcode.IsJump(opcode.OMov))
	require.False(t, opcode.IsJump(opcode.ONop))
}

func TestInstrJumpOffset(t *testing.T) {
	instr := opcode.Default(opcode.OJTrue)
	instr.Ints[0] = 7

	off, ok := instr.Jump()
	require.True(t, ok)
	require.Equal(t, int32(7), off)

	_, ok = opcode.Default(opcode.OMov).Jump()
	require.False(t, ok)
}
