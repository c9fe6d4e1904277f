package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/vmbc/bytecode/decompiler"
)

// Decompile reads a bytecode file, lifts --func's opcode stream into the
// structured statement tree, runs the rewrite pipeline over it, and prints
// the resulting source-like rendering.
func (c *Cmd) Decompile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	code, err := openTarget(c, args[0])
	if err != nil {
		return printError(stdio, err)
	}

	fn, err := findFunction(code, c.Func)
	if err != nil {
		return printError(stdio, err)
	}

	stmts, err := decompiler.Decompile(code, fn)
	if err != nil {
		return printError(stdio, fmt.Errorf("decompiling %s: %w", c.Func, err))
	}
	stmts = decompiler.Simplify(code, stmts)

	fmt.Fprint(stdio.Stdout, decompiler.Print(code, stmts))
	return nil
}
