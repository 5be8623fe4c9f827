package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/loader"
	"github.com/example/galleria/internal/notify"
	"github.com/example/galleria/internal/render"
	"github.com/example/galleria/internal/viewport"
)

// frameInterval paces animation frames at roughly 60Hz.
const frameInterval = 16 * time.Millisecond

var errNothingShown = errors.New("no image is displayed")

// sender is the subset of screen.Window the controller posts events to.
type sender interface {
	Send(event interface{})
}

// decodeEvent carries one loader result back to the event loop.
type decodeEvent struct {
	loader.Result
}

// frameEvent requests the next animation frame.
type frameEvent struct{}

// controller applies window events to the gallery state. All methods run on
// the event loop goroutine.
type controller struct {
	st       *gallery.State
	ld       *loader.Loader
	r        *render.Renderer
	notifier *notify.Notifier
	log      *zap.Logger
	saveDir  string
	copyFn   func(image.Image) error
	out      sender

	size        image.Point
	hover       render.Target
	cancel      context.CancelFunc
	loadDone    <-chan struct{}
	frameQueued bool
	quit        bool
}

// selectSection switches to key and starts decoding its images. The decode
// of the previous section, if any, is cancelled.
func (c *controller) selectSection(key string) error {
	gen, err := c.st.SelectSection(key)
	if err != nil {
		return err
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	out := c.out
	c.loadDone = c.ld.Start(ctx, gen, c.st.Section(), func(r loader.Result) {
		// the window may already be released once the load is cancelled
		if ctx.Err() != nil {
			return
		}
		out.Send(decodeEvent{r})
	})
	return nil
}

// handleDecode commits a decode result and reports whether to repaint.
func (c *controller) handleDecode(r loader.Result) bool {
	return c.st.Commit(r)
}

// handleAction runs a key action and reports whether to repaint.
func (c *controller) handleAction(action string) bool {
	switch action {
	case actionPrev:
		return c.st.Prev()
	case actionNext:
		return c.st.Next()
	case actionFirst:
		return c.st.First()
	case actionLast:
		return c.st.Last()
	case actionReset:
		if c.st.Transitioning() {
			return false
		}
		c.st.EndDrag()
		c.st.SetTransform(viewport.Identity())
		return true
	case actionCopy:
		if err := c.copyFrame(); err != nil {
			c.log.Warn("Copy failed", zap.Error(err))
		}
		return false
	case actionSave:
		if _, err := c.saveFrame(); err != nil {
			c.log.Warn("Save failed", zap.Error(err))
		}
		return false
	case actionQuit:
		c.quit = true
		return false
	}
	if i, ok := sectionIndex(action); ok {
		entries := c.st.Catalog().Entries()
		if i >= len(entries) || entries[i].Key == c.st.SectionKey() {
			return false
		}
		if err := c.selectSection(entries[i].Key); err != nil {
			c.log.Warn("Section change failed", zap.Error(err))
			return false
		}
		return true
	}
	return false
}

// handleMouse applies wheel zoom, drag panning, hover and clicks on the
// chrome. It reports whether to repaint.
func (c *controller) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	switch e.Button {
	case mouse.ButtonWheelUp, mouse.ButtonWheelDown:
		return c.st.Zoom(p, c.size, e.Button == mouse.ButtonWheelDown)
	}

	hit := render.NewLayout(c.size, c.st, c.r.ThumbSize).HitTest(p)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		switch hit.Kind {
		case render.TargetTab:
			if hit.Key == c.st.SectionKey() {
				return false
			}
			if err := c.selectSection(hit.Key); err != nil {
				c.log.Warn("Section change failed", zap.Error(err))
				return false
			}
			return true
		case render.TargetPrev:
			return c.st.Prev()
		case render.TargetNext, render.TargetArrow:
			return c.st.Next()
		case render.TargetThumb:
			return c.st.SelectThumbnail(hit.Index)
		default:
			c.st.BeginDrag(p)
			return false
		}
	case mouse.DirRelease:
		if e.Button == mouse.ButtonLeft {
			c.st.EndDrag()
		}
		return false
	case mouse.DirNone:
		moved := c.st.Drag(p)
		if hit != c.hover {
			c.hover = hit
			return true
		}
		return moved
	}
	return false
}

// paint draws a full frame into dst and queues the next one while anything
// is animating.
func (c *controller) paint(dst *image.RGBA) {
	_, animating := c.r.Frame(dst, c.st, c.hover)
	if animating {
		c.scheduleFrame()
	}
}

func (c *controller) scheduleFrame() {
	if c.frameQueued {
		return
	}
	c.frameQueued = true
	out := c.out
	time.AfterFunc(frameInterval, func() { out.Send(frameEvent{}) })
}

// snapshot renders the current image under the current transform without
// chrome.
func (c *controller) snapshot() (*image.RGBA, error) {
	cur := c.st.Current()
	if cur == nil || c.size.X <= 0 || c.size.Y <= 0 {
		return nil, errNothingShown
	}
	dst := image.NewRGBA(image.Rectangle{Max: c.size})
	c.r.Clear(dst)
	render.DrawImage(dst, cur, c.st.Transform(), 1, c.r.Still)
	return dst, nil
}

func (c *controller) copyFrame() error {
	img, err := c.snapshot()
	if err != nil {
		return err
	}
	if err := c.copyFn(img); err != nil {
		return err
	}
	c.log.Info("Image copied to clipboard", zap.String("section", c.st.SectionKey()), zap.Int("index", c.st.Index()))
	c.notifier.Copy(c.st.Section().Name, img)
	return nil
}

func (c *controller) saveFrame() (string, error) {
	img, err := c.snapshot()
	if err != nil {
		return "", err
	}
	dir := c.saveDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("galleria-%s-%03d.png", c.st.SectionKey(), c.st.Index()+1))
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	c.log.Info("Image saved", zap.String("path", path))
	c.notifier.Save(path)
	return path, nil
}

func (c *controller) close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
