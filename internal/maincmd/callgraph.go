package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/vmbc/bytecode/analysis"
	"github.com/mna/vmbc/bytecode/format"
	"github.com/mna/vmbc/bytecode/ref"
)

// Callgraph reads a bytecode file and prints the call-graph reachable from
// --func within --depth hops, one "caller -> callee" line per edge.
func (c *Cmd) Callgraph(ctx context.Context, stdio mainer.Stdio, args []string) error {
	code, err := openTarget(c, args[0])
	if err != nil {
		return printError(stdio, err)
	}

	root, err := findFunction(code, c.Func)
	if err != nil {
		return printError(stdio, err)
	}

	g := analysis.BuildCallGraph(code, root.FIndex, c.Depth)
	enh := format.Enhanced{}

	seen := make(map[ref.Function]bool)
	var walk func(f ref.Function, depth int)
	walk = func(f ref.Function, depth int) {
		if seen[f] || depth <= 0 {
			return
		}
		seen[f] = true
		for _, callee := range g.Callees(f) {
			fmt.Fprintf(stdio.Stdout, "%s -> %s\n",
				enh.Reference(code, "fun", int32(f)), enh.Reference(code, "fun", int32(callee)))
			walk(callee, depth-1)
		}
	}
	walk(root.FIndex, c.Depth+1)
	return nil
}
