package analysis

import (
	"strings"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/types"
)

// fileOf returns the debug file name associated with fn's first opcode, or
// "" if there is no debug info.
func fileOf(c *container.Code, fn *container.Function) string {
	if len(fn.Debug) == 0 {
		return ""
	}
	idx := fn.Debug[0].File
	if idx < 0 || idx >= len(c.DebugFiles) {
		return ""
	}
	return c.DebugFiles[idx]
}

// IsStdFunction reports whether fn's debug file looks like it belongs to
// the standard library. Used only for UI filtering; never affects codec
// output.
func IsStdFunction(c *container.Code, fn *container.Function) bool {
	return strings.Contains(fileOf(c, fn), "std")
}

// IsStdNative reports whether n's library string is exactly "std".
func IsStdNative(c *container.Code, n *container.Native) bool {
	return c.String(n.Lib) == "std"
}

// IsStdRecord reports whether t looks like it belongs to the standard
// library: its first proto (or failing that, any binding) resolves to a
// std function or native, otherwise its type name has the "std" prefix.
func IsStdRecord(c *container.Code, t *types.Type) bool {
	if t == nil || !t.IsObjLike() {
		return false
	}
	rec := t.Rec

	if len(rec.Protos) > 0 {
		findex := rec.Protos[0].FIndex
		if fn, ok := c.Function(findex); ok && IsStdFunction(c, fn) {
			return true
		}
		if n, ok := c.NativeFor(findex); ok && IsStdNative(c, n) {
			return true
		}
	}
	for _, b := range rec.Bindings {
		if fn, ok := c.Function(b.FIndex); ok && IsStdFunction(c, fn) {
			return true
		}
		if n, ok := c.NativeFor(b.FIndex); ok && IsStdNative(c, n) {
			return true
		}
	}
	return strings.HasPrefix(c.String(rec.Name), "std")
}
