package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/vmbc/bytecode/wire"
)

func roundTripDebugInfo(t *testing.T, positions []wire.DebugPos) []wire.DebugPos {
	t.Helper()

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, wire.WriteDebugInfo(w, positions))
	require.NoError(t, w.Flush())

	got, err := wire.ReadDebugInfo(wire.NewReader(&buf), len(positions))
	require.NoError(t, err)
	return got
}

func TestDebugInfoRoundTrip(t *testing.T) {
	positions := []wire.DebugPos{
		{File: 0, Line: 1},
		{File: 0, Line: 2},
		{File: 0, Line: 2},
		{File: 1, Line: 100},
		{File: 1, Line: 4000},
	}
	require.Equal(t, positions, roundTripDebugInfo(t, positions))
}

// TestDebugInfoRoundTripLargeFileIndex covers a debug file index at and
// above 256, which spills into the tag byte's upper bits rather than
// fitting in the second byte alone.
func TestDebugInfoRoundTripLargeFileIndex(t *testing.T) {
	positions := []wire.DebugPos{
		{File: 0, Line: 1},
		{File: 256, Line: 2},
		{File: 300, Line: 3},
		{File: 1, Line: 4},
	}
	require.Equal(t, positions, roundTripDebugInfo(t, positions))
}
