package maincmd

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/mna/mainer"
	"github.com/mna/vmbc/bytecode/analysis"
	"github.com/mna/vmbc/bytecode/ref"
)

// swissKeys collects every key of a swiss.Map, since it (unlike a plain Go
// map) has no built-in analogue to golang.org/x/exp/maps.Keys.
func swissKeys[K comparable, V any](m interface{ Iter(func(K, V) bool) }) []K {
	var keys []K
	m.Iter(func(k K, _ V) bool {
		keys = append(keys, k)
		return false
	})
	return keys
}

// Usage reads a bytecode file and prints, for every type, function and
// string with at least one recorded use, the list of use sites found by
// analysis.Invert.
func (c *Cmd) Usage(ctx context.Context, stdio mainer.Stdio, args []string) error {
	code, err := openTarget(c, args[0])
	if err != nil {
		return printError(stdio, err)
	}

	u := analysis.Invert(code)

	types := swissKeys[ref.Type, []analysis.TypeUse](u.Types)
	slices.Sort(types)
	for _, t := range types {
		fmt.Fprintf(stdio.Stdout, "type %s:\n", t)
		uses, _ := u.Types.Get(t)
		for _, use := range uses {
			fmt.Fprintf(stdio.Stdout, "  %s in %s\n", use.Kind, refOrRoot(use.In))
		}
	}

	funcs := swissKeys[ref.Function, []analysis.FuncUse](u.Functions)
	slices.Sort(funcs)
	for _, fn := range funcs {
		fmt.Fprintf(stdio.Stdout, "function %s:\n", fn)
		uses, _ := u.Functions.Get(fn)
		for _, use := range uses {
			fmt.Fprintf(stdio.Stdout, "  %s in %s\n", use.Kind, refOrRoot(use.In))
		}
	}

	strs := swissKeys[ref.String, []analysis.StringUse](u.Strings)
	slices.Sort(strs)
	for _, s := range strs {
		fmt.Fprintf(stdio.Stdout, "string %s:\n", s)
		uses, _ := u.Strings.Get(s)
		for _, use := range uses {
			fmt.Fprintf(stdio.Stdout, "  %s in %s\n", use.Kind, refOrRoot(use.In))
		}
	}
	return nil
}

// refOrRoot renders a use's owning function, or "<root>" for uses recorded
// outside any function body (e.g. a type's own field declarations).
func refOrRoot(f ref.Function) string {
	if f == 0 {
		return "<root>"
	}
	return f.String()
}
