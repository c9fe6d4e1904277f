package maincmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigPathFrom(t *testing.T) {
	require.Equal(t, "vmbc.yaml", configPathFrom([]string{"dump", "--config", "vmbc.yaml", "a.hlb"}))
	require.Equal(t, "vmbc.yaml", configPathFrom([]string{"dump", "--config=vmbc.yaml", "a.hlb"}))
	require.Equal(t, "", configPathFrom([]string{"dump", "a.hlb"}))
	require.Equal(t, "", configPathFrom([]string{"dump", "--config"}))
}

func writeProjectFile(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "vmbc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFromProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, "fidelity: terse\ntargets:\n  main: ./testdata/main.hlb\n")

	c := &Cmd{}
	require.NoError(t, loadConfig(c, []string{"dump", "--config", path}))
	require.Equal(t, "terse", c.Fidelity)
	require.Equal(t, path, c.Config)

	target, ok := resolveTarget(c.Config, "main")
	require.True(t, ok)
	require.Equal(t, "./testdata/main.hlb", target)

	_, ok = resolveTarget(c.Config, "missing")
	require.False(t, ok)
}

func TestLoadConfigEnvironmentOverridesProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, "fidelity: terse\n")
	t.Setenv("VMBC_FIDELITY", "debug")
	t.Setenv("VMBC_FUNC", "main")
	t.Setenv("VMBC_DEPTH", "7")

	c := &Cmd{}
	require.NoError(t, loadConfig(c, []string{"dump", "--config", path}))
	require.Equal(t, "debug", c.Fidelity)
	require.Equal(t, "main", c.Func)
	require.Equal(t, 7, c.Depth)
}

func TestLoadConfigWithoutProjectFile(t *testing.T) {
	c := &Cmd{}
	require.NoError(t, loadConfig(c, []string{"dump", "a.hlb"}))
	require.Equal(t, "", c.Config)
	require.Equal(t, "", c.Fidelity)
}
