package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/vmbc/bytecode/analysis"
	"github.com/mna/vmbc/bytecode/container"
	"github.com/mna/vmbc/bytecode/format"
)

// openTarget resolves name either as a vmbc.yaml target (when --config is
// set and defines it) or, failing that, as a direct filesystem path, and
// returns the parsed, linked container.
func openTarget(c *Cmd, name string) (*container.Code, error) {
	path := name
	if p, ok := resolveTarget(c.Config, name); ok {
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	code, err := container.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return code, nil
}

// formatterFor returns the Formatter matching the --fidelity flag.
func formatterFor(fidelity string) format.Formatter {
	switch fidelity {
	case "debug":
		return format.Debug{}
	case "terse":
		return format.Terse{}
	default:
		return format.Enhanced{}
	}
}

// findFunction resolves name to the single function definition it names,
// failing if the name is absent or ambiguous (installed on more than one
// record via same-named protos).
func findFunction(c *container.Code, name string) (*container.Function, error) {
	candidates, _ := analysis.IndexFunctionsByName(c).Get(name)
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("no function named %q", name)
	case 1:
		fn, _ := c.Function(candidates[0])
		return fn, nil
	default:
		return nil, fmt.Errorf("%q is ambiguous: %d functions share that name", name, len(candidates))
	}
}
