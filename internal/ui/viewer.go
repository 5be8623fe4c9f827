// Package ui runs the gallery in a desktop window using shiny.
package ui

import (
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/galleria/internal/clipboard"
	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/loader"
	"github.com/example/galleria/internal/notify"
	"github.com/example/galleria/internal/render"
)

// Viewer is the gallery window.
type Viewer struct {
	ctrl    controller
	section string
	title   string
	width   int
	height  int
	onClose func()
	err     error
}

// Option modifies a Viewer during creation.
type Option func(*Viewer)

// WithRenderer sets the renderer, which carries the theme.
func WithRenderer(r *render.Renderer) Option { return func(v *Viewer) { v.ctrl.r = r } }

// WithNotifier sets the desktop notifier used for save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(v *Viewer) { v.ctrl.notifier = n } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(v *Viewer) { v.ctrl.log = l } }

// WithSection selects the section shown first; empty means the catalog's
// first section.
func WithSection(key string) Option { return func(v *Viewer) { v.section = key } }

// WithSaveDir sets where Ctrl+S writes frames.
func WithSaveDir(dir string) Option { return func(v *Viewer) { v.ctrl.saveDir = dir } }

// WithSize sets the initial window size.
func WithSize(w, h int) Option { return func(v *Viewer) { v.width, v.height = w, h } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(v *Viewer) { v.onClose = fn } }

// New creates a Viewer over st, decoding sections with ld.
func New(st *gallery.State, ld *loader.Loader, opts ...Option) *Viewer {
	v := &Viewer{
		ctrl: controller{
			st:     st,
			ld:     ld,
			copyFn: clipboard.WriteImage,
		},
		title:  "Galleria",
		width:  1024,
		height: 768,
	}
	for _, o := range opts {
		o(v)
	}
	if v.ctrl.r == nil {
		v.ctrl.r = render.New(nil)
	}
	if v.ctrl.log == nil {
		v.ctrl.log = zap.NewNop()
	}
	if v.section == "" {
		if sec := st.Catalog().Default(); sec != nil {
			v.section = sec.Key
		}
	}
	return v
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() error {
	driver.Main(v.Main)
	return v.err
}

// Main is the shiny entry point; it owns the gallery state for the lifetime
// of the window.
func (v *Viewer) Main(s screen.Screen) {
	if v.onClose != nil {
		defer v.onClose()
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: v.width, Height: v.height, Title: v.title})
	if err != nil {
		v.err = fmt.Errorf("new window: %w", err)
		return
	}
	defer w.Release()

	c := &v.ctrl
	c.out = w
	c.size = image.Pt(v.width, v.height)
	defer c.close()

	if err := c.selectSection(v.section); err != nil {
		v.err = err
		return
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			c.size = e.Size()
			w.Send(paint.Event{})
		case paint.Event:
			v.paint(s, w)
		case frameEvent:
			c.frameQueued = false
			w.Send(paint.Event{})
		case decodeEvent:
			if c.handleDecode(e.Result) {
				w.Send(paint.Event{})
			}
		case key.Event:
			action := actionFor(e)
			if action == "" {
				continue
			}
			if c.handleAction(action) {
				w.Send(paint.Event{})
			}
			if c.quit {
				return
			}
		case mouse.Event:
			if c.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case error:
			c.log.Error("Window error", zap.Error(e))
		}
	}
}

func (v *Viewer) paint(s screen.Screen, w screen.Window) {
	sz := v.ctrl.size
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(sz)
	if err != nil {
		v.ctrl.log.Error("New buffer failed", zap.Error(err))
		return
	}
	defer b.Release()
	v.ctrl.paint(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
