package format

import (
	"fmt"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/types"
)

// Terse prints brief placeholders: raw pool indices like "@12" and a
// placeholder name instead of resolving anything through the container.
type Terse struct{}

func (Terse) Reference(_ *container.Code, _ string, idx int32) string {
	return fmt.Sprintf("@%d", idx)
}

func (Terse) Type(_ *container.Code, t *types.Type) string {
	switch {
	case t.IsObjLike():
		return fmt.Sprintf("%s<%s>", t.Kind, "@?")
	case t.Kind == types.KEnum:
		return fmt.Sprintf("%s<%s>", t.Kind, "@?")
	default:
		return t.Kind.String()
	}
}

func (Terse) Native(_ *container.Code, n *container.Native) string {
	return fmt.Sprintf("native @%d", n.FIndex)
}

func (t Terse) FunctionHeader(_ *container.Code, fn *container.Function) string {
	return fmt.Sprintf("fn @%d", fn.FIndex)
}

func (t Terse) Function(c *container.Code, fn *container.Function) string {
	return genericFunction(t, c, fn, genericInstr)
}
