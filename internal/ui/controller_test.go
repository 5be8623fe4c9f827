package ui

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/galleria/internal/catalog"
	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/loader"
	"github.com/example/galleria/internal/render"
)

type chanSender chan interface{}

func (c chanSender) Send(e interface{}) { c <- e }

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func testController(t *testing.T) (*controller, chanSender, *stepClock) {
	t.Helper()
	cat, err := catalog.New(
		&catalog.Section{Key: "a", Name: "Alpha", Path: "a/", Images: []string{"one", "bad", "three"}},
		&catalog.Section{Key: "b", Name: "Beta", Path: "b/", Images: []string{"x", "y"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	dec := loader.DecoderFunc(func(path string) (image.Image, error) {
		if path == "a/bad" {
			return nil, errors.New("corrupt")
		}
		img := image.NewRGBA(image.Rect(0, 0, 40, 30))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 200, 0, 255}), image.Point{}, draw.Src)
		return img, nil
	})
	clk := &stepClock{t: time.Unix(100, 0)}
	out := make(chanSender, 64)
	c := &controller{
		st:     gallery.New(cat, gallery.WithClock(clk)),
		ld:     loader.New(loader.WithDecoder(dec), loader.WithWorkers(2)),
		r:      render.New(nil),
		log:    zap.NewNop(),
		copyFn: func(image.Image) error { return nil },
		out:    out,
		size:   image.Pt(400, 300),
	}
	t.Cleanup(c.close)
	return c, out, clk
}

// drain feeds decode events back into the controller until the load settles.
func drain(t *testing.T, c *controller, out chanSender) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for c.st.Loading() {
		select {
		case e := <-out:
			if d, ok := e.(decodeEvent); ok {
				c.handleDecode(d.Result)
			}
		case <-deadline:
			t.Fatal("load did not settle")
		}
	}
}

func finishTransition(c *controller, clk *stepClock) {
	dst := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for i := 0; i < 20 && c.st.Transitioning(); i++ {
		c.r.Step(dst, c.st)
		clk.t = clk.t.Add(100 * time.Millisecond)
	}
}

func TestControllerLoadsAndNavigates(t *testing.T) {
	c, out, clk := testController(t)
	if err := c.selectSection("a"); err != nil {
		t.Fatal(err)
	}
	drain(t, c, out)
	if c.st.Index() != 0 || c.st.LoadErr() == nil {
		t.Fatalf("index=%d loadErr=%v", c.st.Index(), c.st.LoadErr())
	}
	if !c.handleAction(actionNext) {
		t.Fatal("next rejected")
	}
	if c.handleAction(actionNext) {
		t.Fatal("second next accepted during transition")
	}
	finishTransition(c, clk)
	if c.st.Index() != 1 || c.st.Current() != nil {
		t.Fatalf("expected failed slot 1 to be current, index=%d", c.st.Index())
	}
	if !c.handleAction(actionLast) {
		t.Fatal("last rejected")
	}
	finishTransition(c, clk)
	if c.st.Index() != 2 {
		t.Fatalf("index %d, want 2", c.st.Index())
	}
}

func TestControllerSectionKeys(t *testing.T) {
	c, out, _ := testController(t)
	c.selectSection("a")
	drain(t, c, out)
	if c.handleAction(sectionPrefix + "0") {
		t.Fatal("reselecting the current section should be ignored")
	}
	if c.handleAction(sectionPrefix + "7") {
		t.Fatal("out of range section accepted")
	}
	if !c.handleAction(sectionPrefix + "1") {
		t.Fatal("section 2 rejected")
	}
	if c.st.SectionKey() != "b" {
		t.Fatalf("section %q", c.st.SectionKey())
	}
	drain(t, c, out)
	if c.st.Len() != 2 || c.st.Current() == nil {
		t.Fatal("section b not loaded")
	}
}

func TestControllerMouse(t *testing.T) {
	c, out, clk := testController(t)
	c.selectSection("a")
	drain(t, c, out)

	centre := mouse.Event{X: 200, Y: 150}
	wheel := centre
	wheel.Button = mouse.ButtonWheelUp
	wheel.Direction = mouse.DirStep
	if !c.handleMouse(wheel) || c.st.Transform().Zoom <= 1 {
		t.Fatalf("wheel zoom not applied: %+v", c.st.Transform())
	}

	press := centre
	press.Button = mouse.ButtonLeft
	press.Direction = mouse.DirPress
	c.handleMouse(press)
	if !c.st.Dragging() {
		t.Fatal("press on the canvas should start a drag when zoomed")
	}
	before := c.st.Transform()
	c.handleMouse(mouse.Event{X: 210, Y: 155})
	if after := c.st.Transform(); after.X-before.X != 10 || after.Y-before.Y != 5 {
		t.Fatalf("drag moved by (%v, %v)", after.X-before.X, after.Y-before.Y)
	}
	release := press
	release.Direction = mouse.DirRelease
	c.handleMouse(release)
	if c.st.Dragging() {
		t.Fatal("release did not end the drag")
	}

	if !c.handleAction(actionReset) || !c.st.Transform().IsIdentity() {
		t.Fatalf("reset left %+v", c.st.Transform())
	}

	l := render.NewLayout(c.size, c.st, c.r.ThumbSize)
	if len(l.Thumbs) != 2 {
		t.Fatalf("laid out %d thumbs, want one per decoded image", len(l.Thumbs))
	}
	thumb := l.Thumbs[1].Rect.Min.Add(image.Pt(2, 2))
	click := mouse.Event{X: float32(thumb.X), Y: float32(thumb.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress}
	if !c.handleMouse(click) {
		t.Fatal("thumbnail click rejected")
	}
	finishTransition(c, clk)
	if c.st.Index() != 2 || c.st.ActiveThumb() != 2 {
		t.Fatalf("thumbnail click went to %d", c.st.Index())
	}

	tab := l.Tabs[1].Rect.Min.Add(image.Pt(2, 2))
	if !c.handleMouse(mouse.Event{X: float32(tab.X), Y: float32(tab.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress}) {
		t.Fatal("tab click rejected")
	}
	if c.st.SectionKey() != "b" {
		t.Fatalf("tab click selected %q", c.st.SectionKey())
	}
}

func TestControllerSaveAndCopy(t *testing.T) {
	c, out, _ := testController(t)
	c.saveDir = t.TempDir()
	var copied image.Image
	c.copyFn = func(img image.Image) error {
		copied = img
		return nil
	}

	if _, err := c.saveFrame(); !errors.Is(err, errNothingShown) {
		t.Fatalf("save before load: %v", err)
	}

	c.selectSection("a")
	drain(t, c, out)
	path, err := c.saveFrame()
	if err != nil {
		t.Fatalf("saveFrame: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	if err := c.copyFrame(); err != nil {
		t.Fatalf("copyFrame: %v", err)
	}
	if copied == nil || copied.Bounds().Size() != c.size {
		t.Fatalf("copied %v", copied)
	}
}

func TestControllerQuit(t *testing.T) {
	c, _, _ := testController(t)
	c.handleAction(actionQuit)
	if !c.quit {
		t.Fatal("quit not recorded")
	}
}

func TestScheduleFrameOnce(t *testing.T) {
	c, out, _ := testController(t)
	c.scheduleFrame()
	c.scheduleFrame()
	select {
	case e := <-out:
		if _, ok := e.(frameEvent); !ok {
			t.Fatalf("unexpected event %T", e)
		}
	case <-time.After(time.Second):
		t.Fatal("frame not delivered")
	}
	select {
	case e := <-out:
		t.Fatalf("second frame queued: %T", e)
	case <-time.After(5 * frameInterval):
	}
}

func TestCloseStopsDeliveryToWindow(t *testing.T) {
	c, out, _ := testController(t)
	gate := make(chan struct{})
	c.ld = loader.New(loader.WithWorkers(1), loader.WithDecoder(loader.DecoderFunc(func(string) (image.Image, error) {
		<-gate
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	})))
	if err := c.selectSection("b"); err != nil {
		t.Fatal(err)
	}
	c.close()
	close(gate)
	select {
	case <-c.loadDone:
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
	for len(out) > 0 {
		if e, ok := (<-out).(decodeEvent); ok {
			t.Fatalf("decode result sent after close: %+v", e)
		}
	}
}
