package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/render"
	"github.com/example/galleria/internal/viewport"
)

type renderCmd struct {
	*root
	fs      *flag.FlagSet
	section string
	index   int
	width   int
	height  int
	zoom    float64
	panX    float64
	panY    float64
	chrome  bool
	output  string
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.SetOutput(r.stderr)
	fs.StringVar(&c.section, "section", r.config.Section, "section to render (default: first in catalog)")
	fs.IntVar(&c.index, "index", 0, "zero-based image index within the section")
	fs.IntVar(&c.width, "width", 1024, "output width in pixels")
	fs.IntVar(&c.height, "height", 768, "output height in pixels")
	fs.Float64Var(&c.zoom, "zoom", 1, fmt.Sprintf("zoom factor (%g to %g)", viewport.MinZoom, viewport.MaxZoom))
	fs.Float64Var(&c.panX, "x", 0, "horizontal pan in pixels")
	fs.Float64Var(&c.panY, "y", 0, "vertical pan in pixels")
	fs.BoolVar(&c.chrome, "chrome", false, "draw the section bar, buttons and thumbnail strip")
	fs.StringVar(&c.output, "output", "", "file to write; the extension selects the format")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.output == "" {
		return nil, &UsageError{of: c, err: errors.New("an output file is required")}
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, &UsageError{of: c, err: fmt.Errorf("invalid size %dx%d", c.width, c.height)}
	}
	return c, nil
}

func (c *renderCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *renderCmd) Run() error {
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
	if st.Len() == 0 {
		return fmt.Errorf("section %q has no images", st.SectionKey())
	}
	if !st.GoTo(c.index, false) {
		return fmt.Errorf("index %d out of range for section %q (%d images)", c.index, st.SectionKey(), st.Len())
	}
	if st.Current() == nil {
		return fmt.Errorf("image %d of section %q failed to load: %w", c.index, st.SectionKey(), st.LoadErr())
	}
	st.SetTransform(viewport.Transform{X: c.panX, Y: c.panY, Zoom: c.zoom})

	img := renderFrame(c.newRenderer(), st, image.Pt(c.width, c.height), c.chrome)
	if err := imaging.Save(img, c.output); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.output, err)
	}
	c.log.Info("Rendered frame", zap.String("section", st.SectionKey()), zap.Int("index", c.index), zap.String("path", c.output))
	c.notifier.Save(c.output)
	return nil
}

// renderFrame draws the current image of st onto a new canvas of the given
// size, optionally with the viewer chrome on top.
func renderFrame(rd *render.Renderer, st *gallery.State, size image.Point, chrome bool) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	rd.Clear(dst)
	rd.Plain(dst, st)
	if chrome {
		rd.Chrome(dst, st, render.NewLayout(size, st, rd.ThumbSize), render.Target{Index: -1})
	}
	return dst
}
