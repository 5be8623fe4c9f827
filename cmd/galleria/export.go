package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type exportCmd struct {
	*root
	fs       *flag.FlagSet
	section  string
	dir      string
	format   string
	width    int
	height   int
	chrome   bool
	progress bool
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	c := &exportCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.StringVar(&c.section, "section", r.config.Section, "section to export (default: first in catalog)")
	fs.StringVar(&c.dir, "dir", "", "directory to write frames to")
	fs.StringVar(&c.format, "format", "png", "image format: png, jpg, gif, bmp or tiff")
	fs.IntVar(&c.width, "width", 1024, "frame width in pixels")
	fs.IntVar(&c.height, "height", 768, "frame height in pixels")
	fs.BoolVar(&c.chrome, "chrome", false, "draw the section bar, buttons and thumbnail strip")
	fs.BoolVar(&c.progress, "progress", true, "show a progress bar")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.dir == "" {
		return nil, &UsageError{of: c, err: errors.New("an output directory is required")}
	}
	c.format = strings.ToLower(strings.TrimPrefix(c.format, "."))
	if _, err := imaging.FormatFromExtension(c.format); err != nil {
		return nil, &UsageError{of: c, err: err}
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, &UsageError{of: c, err: fmt.Errorf("invalid size %dx%d", c.width, c.height)}
	}
	return c, nil
}

func (c *exportCmd) FlagSet() *flag.FlagSet { return c.fs }

// Run writes one fitted frame per image of the section as DIR/NNN.EXT.
// Missing images are skipped and reported together once every frame has
// been attempted.
func (c *exportCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}
	st, err := c.loadSection(ctx, cat, c.section)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", c.dir, err)
	}

	n := st.Len()
	var bar *progressbar.ProgressBar
	if c.progress && n > 0 {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Exporting "+st.SectionKey()),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(c.stderr),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(c.stderr) }),
		)
	}

	rd := c.newRenderer()
	size := image.Pt(c.width, c.height)
	var errs error
	written := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		if !st.GoTo(i, false) || st.Current() == nil {
			errs = multierr.Append(errs, fmt.Errorf("image %d of section %q is missing", i, st.SectionKey()))
			continue
		}
		path := filepath.Join(c.dir, fmt.Sprintf("%03d.%s", i+1, c.format))
		if err := imaging.Save(renderFrame(rd, st, size, c.chrome), path); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to save %s: %w", path, err))
			continue
		}
		written++
	}
	if bar != nil {
		_ = bar.Finish()
	}
	c.log.Info("Exported section", zap.String("section", st.SectionKey()), zap.Int("written", written), zap.Int("images", n), zap.String("dir", c.dir))
	if written > 0 {
		c.notifier.Save(c.dir)
	}
	return errs
}
