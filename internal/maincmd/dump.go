package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
)

// Dump reads a bytecode file and prints its pool sizes, every type, native
// and function, rendered at the fidelity requested by --fidelity.
func (c *Cmd) Dump(ctx context.Context, stdio mainer.Stdio, args []string) error {
	code, err := openTarget(c, args[0])
	if err != nil {
		return printError(stdio, err)
	}

	f := formatterFor(c.Fidelity)

	fmt.Fprintf(stdio.Stdout, "version=%d debug=%t entrypoint=%s\n", code.Version, code.HasDebug, code.Entrypoint)
	fmt.Fprintf(stdio.Stdout, "ints=%d floats=%d strings=%d types=%d globals=%d natives=%d functions=%d constants=%d\n",
		len(code.Ints), len(code.Floats), len(code.Strings), len(code.Types),
		len(code.Globals), len(code.Natives), len(code.Functions), len(code.Constants))

	for i, t := range code.Types {
		fmt.Fprintf(stdio.Stdout, "type %4d: %s\n", i, f.Type(code, t))
	}
	for i := range code.Natives {
		fmt.Fprintf(stdio.Stdout, "native %4d: %s\n", i, f.Native(code, &code.Natives[i]))
	}
	for i := range code.Functions {
		fmt.Fprint(stdio.Stdout, f.Function(code, &code.Functions[i]))
	}
	return nil
}
