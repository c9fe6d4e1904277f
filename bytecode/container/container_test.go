package container_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/opcode"
	"github.com/mna/vmbc/bytecode/ref"
	"github.com/mna/vmbc/bytecode/types"
)

// buildSample constructs a small container by hand: a Base record with one
// field, a Child record extending it with a second field and a proto
// method, and a single trivial function installed as that proto.
func buildSample(t *testing.T) *container.Code {
	t.Helper()

	i32 := &types.Type{Kind: types.KI32}
	base := &types.Type{Kind: types.KObj, Rec: &types.Record{
		Name:   ref.String(0), // index 0 is the null sentinel: Base is unnamed
		Fields: []types.Field{{Name: ref.String(2), Type: ref.Type(0)}}, // field_a
	}}
	superRef := ref.Type(1)
	child := &types.Type{Kind: types.KObj, Rec: &types.Record{
		Name:   ref.String(1), // "Child"
		Super:  &superRef,
		Fields: []types.Field{{Name: ref.String(3), Type: ref.Type(0)}}, // field_b
		Protos: []types.Proto{{Name: ref.String(4), FIndex: ref.Function(0), PIndex: 0}},
	}}

	c := &container.Code{
		Version:    4,
		Entrypoint: ref.Function(0),
		Strings:    []string{"Base", "Child", "field_a", "field_b", "method_b"},
		Types:      []*types.Type{i32, base, child},
		Functions: []container.Function{
			{
				Type:   ref.Type(0),
				FIndex: ref.Function(0),
				Regs:   []ref.Type{ref.Type(0)},
				Ops:    []*opcode.Instr{opcode.Default(opcode.ONop)},
			},
		},
	}
	return c
}

func TestRoundTrip(t *testing.T) {
	c := buildSample(t)

	var buf bytes.Buffer
	require.NoError(t, container.Write(&buf, c))

	got, err := container.Read(&buf)
	require.NoError(t, err)

	require.Equal(t, c.Version, got.Version)
	require.Equal(t, c.Entrypoint, got.Entrypoint)
	require.Equal(t, c.Strings, got.Strings)
	require.Len(t, got.Types, 3)
	require.Len(t, got.Functions, 1)
	require.Equal(t, opcode.ONop, got.Functions[0].Ops[0].Op)
}

func TestFieldFlattening(t *testing.T) {
	c := buildSample(t)
	require.NoError(t, container.Write(new(bytes.Buffer), c)) // no-op, exercises nothing extra

	// Re-read through the wire so the linking passes run exactly as a real
	// caller would observe them.
	var buf bytes.Buffer
	require.NoError(t, container.Write(&buf, c))
	got, err := container.Read(&buf)
	require.NoError(t, err)

	child := got.Record(ref.Type(2))
	require.NotNil(t, child)
	require.Len(t, child.Flattened, 2)
	require.Equal(t, ref.String(2), child.Flattened[0].Name) // field_a, inherited
	require.Equal(t, ref.String(3), child.Flattened[1].Name) // field_b, own
}

func TestMethodNamingAndDispatch(t *testing.T) {
	c := buildSample(t)

	var buf bytes.Buffer
	require.NoError(t, container.Write(&buf, c))
	got, err := container.Read(&buf)
	require.NoError(t, err)

	fn, ok := got.Function(ref.Function(0))
	require.True(t, ok)
	require.Equal(t, ref.String(4), fn.Name) // method_b
	require.Equal(t, ref.Type(2), fn.Parent) // Child

	findex, ok := got.NameToFunc.Get("method_b")
	require.True(t, ok)
	require.Equal(t, ref.Function(0), findex)
}

func TestUnknownMagicFails(t *testing.T) {
	_, err := container.Read(bytes.NewReader([]byte("XXX")))
	require.Error(t, err)
}

func TestUnsupportedVersionFails(t *testing.T) {
	buf := []byte{'H', 'L', 'B', 99, 0}
	_, err := container.Read(bytes.NewReader(buf))
	require.Error(t, err)
}
