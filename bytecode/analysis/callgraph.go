package analysis

import (
	"golang.org/x/exp/slices"

	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/ref"
)

// Graph is a directed multi-graph of function-refs: an edge from a to b
// means a contains a syntactic call or closure creation of b.
type Graph struct {
	Edges map[ref.Function][]ref.Function
}

// Callees returns f's outgoing edges, in deterministic (sorted) order.
func (g *Graph) Callees(f ref.Function) []ref.Function {
	return g.Edges[f]
}

// BuildCallGraph runs a depth-limited DFS from root, following direct
// calls, closure creation and statically resolvable method dispatch.
// maxDepth counts the number of call hops still allowed to expand: 0 means
// root's own callees are not explored.
// Natives are terminal: BuildCallGraph never descends into one, since the
// container has no body to scan. A visited set prevents revisiting a
// function already expanded, so recursive or mutually recursive call
// chains terminate.
func BuildCallGraph(c *container.Code, root ref.Function, maxDepth int) *Graph {
	g := &Graph{Edges: make(map[ref.Function][]ref.Function)}
	visited := make(map[ref.Function]bool)

	var visit func(f ref.Function, depth int)
	visit = func(f ref.Function, depth int) {
		if depth <= 0 || visited[f] {
			return
		}
		visited[f] = true

		fn, ok := c.Function(f)
		if !ok {
			return
		}
		for _, call := range callsIn(c, fn) {
			g.Edges[f] = append(g.Edges[f], call.Target)
			visit(call.Target, depth-1)
		}
		if edges, ok := g.Edges[f]; ok {
			slices.Sort(edges)
		}
	}
	visit(root, maxDepth)
	return g
}
