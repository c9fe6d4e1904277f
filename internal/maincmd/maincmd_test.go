package maincmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCmdsRegistersSubcommands(t *testing.T) {
	cmds := buildCmds(&Cmd{})
	for _, name := range []string{"dump", "usage", "callgraph", "decompile"} {
		require.Contains(t, cmds, name)
	}
}

func TestValidateHelpAndVersionSkipEverythingElse(t *testing.T) {
	c := &Cmd{Help: true}
	require.NoError(t, c.Validate())

	c = &Cmd{Version: true}
	require.NoError(t, c.Validate())
}

func TestValidateNoCommand(t *testing.T) {
	c := &Cmd{}
	c.SetArgs(nil)
	require.EqualError(t, c.Validate(), "no command specified")
}

func TestValidateUnknownCommand(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"bogus", "a.hlb"})
	require.Error(t, c.Validate())
}

func TestValidateMissingFile(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"dump"})
	require.Error(t, c.Validate())
}

func TestValidateDefaultsFidelity(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"dump", "a.hlb"})
	require.NoError(t, c.Validate())
	require.Equal(t, "enhanced", c.Fidelity)
}

func TestValidateRejectsUnknownFidelity(t *testing.T) {
	c := &Cmd{Fidelity: "verbose"}
	c.SetArgs([]string{"dump", "a.hlb"})
	require.Error(t, c.Validate())
}

func TestValidateCallgraphRequiresFunc(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"callgraph", "a.hlb"})
	require.Error(t, c.Validate())
}

func TestValidateCallgraphDefaultsDepth(t *testing.T) {
	c := &Cmd{Func: "main"}
	c.SetArgs([]string{"callgraph", "a.hlb"})
	require.NoError(t, c.Validate())
	require.Equal(t, 4, c.Depth)
}

func TestValidateDecompileRequiresFunc(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"decompile", "a.hlb"})
	require.Error(t, c.Validate())
}
