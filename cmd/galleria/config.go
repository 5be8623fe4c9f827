package main

import (
	"flag"
	"fmt"

	"github.com/example/galleria/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	output string
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.StringVar(&c.output, "output", "", "file to save to (default: the loaded config file or "+config.DefaultPath()+")")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		_, err := fmt.Fprint(c.stdout, c.config.String())
		return err
	case "save":
		return c.runSave()
	default:
		return &UsageError{of: c, err: fmt.Errorf("unknown config command: %s", args[0])}
	}
}

func (c *configCmd) runSave() error {
	loader := config.NewLoader(version, configPathOverride)
	path := c.output
	if path == "" {
		path = loader.GetConfigPath()
	}
	written, err := loader.Save(c.config, path)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(c.stderr, "Configuration saved to %s\n", written)
	return nil
}
