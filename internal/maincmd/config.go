package maincmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// projectFile is the shape of a vmbc.yaml project file: a set of named
// bytecode targets for batch/CI use, plus the fidelity to fall back to
// when --fidelity is not given on the command line.
type projectFile struct {
	Fidelity string            `yaml:"fidelity"`
	Targets  map[string]string `yaml:"targets"`
}

// loadConfig applies, in increasing precedence, the struct zero values,
// a project file (if --config is present in args or VMBC_CONFIG is set),
// and environment variable overrides. Command-line flags are applied
// afterwards by mainer.Parser in Main and so win over all of this.
func loadConfig(c *Cmd, args []string) error {
	path := configPathFrom(args)
	if path == "" {
		path = os.Getenv("VMBC_CONFIG")
	}
	if path != "" {
		pf, err := readProjectFile(path)
		if err != nil {
			return err
		}
		if pf.Fidelity != "" {
			c.Fidelity = pf.Fidelity
		}
		c.Config = path
	}

	if err := env.Parse(c); err != nil {
		return fmt.Errorf("reading environment overrides: %w", err)
	}
	return nil
}

// configPathFrom scans raw args for --config or --config=<path>, ahead of
// the full flag parse in Main, since the project file must be loaded
// before mainer.Parser resolves flag precedence.
func configPathFrom(args []string) string {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func readProjectFile(path string) (*projectFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file %s: %w", path, err)
	}
	var pf projectFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", path, err)
	}
	return &pf, nil
}

// resolveTarget looks up name in the project file at path, returning its
// bytecode file path. Used by commands so a CLI invocation can name a
// target from vmbc.yaml instead of a raw file path.
func resolveTarget(configPath, name string) (string, bool) {
	if configPath == "" {
		return "", false
	}
	pf, err := readProjectFile(configPath)
	if err != nil {
		return "", false
	}
	p, ok := pf.Targets[name]
	return p, ok
}
