// Package maincmd implements the vmbc command-line surface: a thin
// consumer of the bytecode/* packages' read/query/render APIs. It encodes
// no bytecode-specific invariant of its own.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "vmbc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <file> [<arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Codec, analysis and decompiler toolkit for a stack-based bytecode format.

The <command> can be one of:
       dump                      Read a bytecode file and print its pool
                                  contents and every function's opcodes.
       usage                     Read a bytecode file and print the
                                  usage-inversion tables (who references
                                  a given type, function or string).
       callgraph                 Read a bytecode file and print the
                                  call-graph reachable from a root
                                  function name.
       decompile                 Read a bytecode file and print the
                                  decompiled, source-like rendering of a
                                  named function.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --fidelity=<f>            Rendering fidelity for dump:
                                  one of debug, terse, enhanced (default
                                  enhanced).
       --config=<path>           Project file (vmbc.yaml) supplying
                                  named targets and defaults; overridden
                                  by flags and by VMBC_* environment
                                  variables.

Valid flag options for the <callgraph> and <decompile> commands are:
       --func=<name>             Root (callgraph) or target (decompile)
                                  function name. Required.
       --depth=<n>               Maximum call-graph depth (callgraph
                                  only, default 4).

More information on the bytecode format this toolkit targets is in the
repository's SPEC_FULL.md.
`, binName)
)

// Cmd is the root of the CLI, populated by mainer.Parser from flags,
// environment variables and an optional project file, in that precedence
// order (flags win, then env, then file, then struct defaults).
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Fidelity string `flag:"fidelity" env:"VMBC_FIDELITY"`
	Config   string `flag:"config"`
	Func     string `flag:"func" env:"VMBC_FUNC"`
	Depth    int    `flag:"depth" env:"VMBC_DEPTH"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: a bytecode file must be provided", cmdName)
	}

	if c.Fidelity == "" {
		c.Fidelity = "enhanced"
	}
	switch c.Fidelity {
	case "debug", "terse", "enhanced":
	default:
		return fmt.Errorf("invalid --fidelity: %s", c.Fidelity)
	}

	if cmdName == "callgraph" || cmdName == "decompile" {
		if c.Func == "" {
			return fmt.Errorf("%s: --func is required", cmdName)
		}
	}
	if cmdName == "callgraph" && c.Depth <= 0 {
		c.Depth = 4
	}

	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	if err := loadConfig(c, args); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return mainer.InvalidArgs
	}

	p := mainer.Parser{
		EnvVars:   false, // env overlay is handled by loadConfig via caarlos0/env, ahead of flag parsing
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
