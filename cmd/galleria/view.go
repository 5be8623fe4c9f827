package main

import (
	"flag"

	"github.com/example/galleria/internal/ui"
)

type viewCmd struct {
	*root
	fs      *flag.FlagSet
	section string
	width   int
	height  int
	saveDir string
}

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	c := &viewCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.StringVar(&c.section, "section", r.config.Section, "section to open first (default: first in catalog)")
	fs.IntVar(&c.width, "width", 1024, "initial window width")
	fs.IntVar(&c.height, "height", 768, "initial window height")
	fs.StringVar(&c.saveDir, "save-dir", "", "directory for saved frames (default: current directory)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *viewCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *viewCmd) Run() error {
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}
	if c.section != "" {
		if _, err := cat.Get(c.section); err != nil {
			return err
		}
	}
	v := ui.New(c.newState(cat), c.newLoader(),
		ui.WithRenderer(c.newRenderer()),
		ui.WithNotifier(c.notifier),
		ui.WithLogger(c.log),
		ui.WithSection(c.section),
		ui.WithSaveDir(c.saveDir),
		ui.WithSize(c.width, c.height),
	)
	return v.Run()
}
