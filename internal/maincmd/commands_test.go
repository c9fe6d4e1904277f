package maincmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/format"
	"github.com/mna/vmbc/bytecode/ref"
)

func TestFormatterFor(t *testing.T) {
	require.IsType(t, format.Debug{}, formatterFor("debug"))
	require.IsType(t, format.Terse{}, formatterFor("terse"))
	require.IsType(t, format.Enhanced{}, formatterFor("enhanced"))
	require.IsType(t, format.Enhanced{}, formatterFor(""))
}

// namedFunctionContainer builds a container with one function per name.
// String index 0 is the ref.String null sentinel, so the string pool
// carries a dummy entry there and every name starts at index 1.
func namedFunctionContainer(names ...string) *container.Code {
	c := &container.Code{Strings: append([]string{""}, names...)}
	for i := range names {
		c.Functions = append(c.Functions, container.Function{
			FIndex: ref.Function(i),
			Name:   ref.String(i + 1),
		})
		c.Dispatch = append(c.Dispatch, container.DispatchEntry{Kind: container.DispatchFunc, Index: int32(i)})
	}
	return c
}

func TestFindFunction(t *testing.T) {
	c := namedFunctionContainer("main", "helper")

	fn, err := findFunction(c, "helper")
	require.NoError(t, err)
	require.Equal(t, ref.Function(1), fn.FIndex)

	_, err = findFunction(c, "missing")
	require.Error(t, err)
}

func TestFindFunctionAmbiguous(t *testing.T) {
	c := namedFunctionContainer("run", "run")

	_, err := findFunction(c, "run")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ambiguous")
}
