package format

import (
	"fmt"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/types"
)

// Debug is a mechanical dump formatter: it never consults the container,
// printing only the raw data each entity already carries.
type Debug struct{}

func (Debug) Reference(_ *container.Code, kind string, idx int32) string {
	return fmt.Sprintf("%s@%d", kind, idx)
}

func (Debug) Type(_ *container.Code, t *types.Type) string {
	return t.String()
}

func (Debug) Native(_ *container.Code, n *container.Native) string {
	return fmt.Sprintf("native lib=string@%d name=string@%d type=type@%d findex=fun@%d",
		n.Lib, n.Name, n.Type, n.FIndex)
}

func (d Debug) FunctionHeader(_ *container.Code, fn *container.Function) string {
	return fmt.Sprintf("function fun@%d type=type@%d regs=%d ops=%d", fn.FIndex, fn.Type, len(fn.Regs), len(fn.Ops))
}

func (d Debug) Function(c *container.Code, fn *container.Function) string {
	return genericFunction(d, c, fn, genericInstr)
}
