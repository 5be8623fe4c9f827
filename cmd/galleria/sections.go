package main

import (
	"flag"
	"fmt"
	"text/tabwriter"
)

type sectionsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseSectionsCmd(args []string, r *root) (*sectionsCmd, error) {
	fs := flag.NewFlagSet("sections", flag.ExitOnError)
	c := &sectionsCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *sectionsCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *sectionsCmd) Run() error {
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	for i, key := range cat.Keys() {
		sec, _ := cat.Lookup(key)
		mark := " "
		if i == 0 {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t(%d images)\n", mark, sec.Key, sec.Name, sec.Len())
	}
	return tw.Flush()
}
