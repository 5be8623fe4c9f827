package main

import (
	"flag"
	"fmt"
)

type versionCmd struct {
	*root
	fs *flag.FlagSet
}

func parseVersionCmd(args []string, r *root) (*versionCmd, error) {
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	c := &versionCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *versionCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *versionCmd) Run() error {
	fmt.Fprintf(c.stdout, "galleria version %s\n", version)
	if commit != "" {
		fmt.Fprintf(c.stdout, "commit %s\n", commit)
	}
	if date != "" {
		fmt.Fprintf(c.stdout, "built %s\n", date)
	}
	return nil
}
