package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/example/galleria/internal/arrow"
	"github.com/example/galleria/internal/catalog"
	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/loader"
	"github.com/example/galleria/internal/transition"
	"github.com/example/galleria/internal/viewport"
)

var red = color.RGBA{255, 0, 0, 255}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// loadedState returns a state showing a three image section whose slot 1
// failed to decode.
func loadedState(t *testing.T) (*gallery.State, *fixedClock) {
	t.Helper()
	cat, err := catalog.New(
		&catalog.Section{Key: "s", Name: "Section", Images: []string{"a", "b", "c"}},
		&catalog.Section{Key: "m", Name: "Museum", Images: make([]string, 4),
			Arrow: arrow.New(map[int][2]float64{0: {50, 50}, 3: {80, 50}})},
	)
	if err != nil {
		t.Fatal(err)
	}
	clk := &fixedClock{t: time.Unix(0, 0)}
	st := gallery.New(cat, gallery.WithClock(clk))
	gen, err := st.SelectSection("s")
	if err != nil {
		t.Fatal(err)
	}
	st.Commit(loader.Result{Generation: gen, Index: 0, Image: solid(400, 300, red)})
	st.Commit(loader.Result{Generation: gen, Index: 1, Err: errors.New("corrupt")})
	st.Commit(loader.Result{Generation: gen, Index: 2, Image: solid(300, 400, color.RGBA{0, 0, 255, 255})})
	if st.Loading() {
		t.Fatal("load did not complete")
	}
	return st, clk
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestPlainFillsCanvasAtFit(t *testing.T) {
	st, _ := loadedState(t)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	if !r.Plain(dst, st) {
		t.Fatal("plain render skipped")
	}
	for _, p := range []image.Point{{0, 0}, {400, 300}, {799, 599}} {
		if c := dst.RGBAAt(p.X, p.Y); !near(c.R, 255, 2) || c.B > 2 {
			t.Fatalf("pixel %v = %v, want red", p, c)
		}
	}
}

func TestPlainLetterboxes(t *testing.T) {
	st, clk := loadedState(t)
	st.GoTo(2, false)
	clk.t = clk.t.Add(time.Second)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	r.Plain(dst, st)
	// 300x400 fits as 450x600 centred: x in [175, 625)
	if c := dst.RGBAAt(10, 300); c != r.Theme.Background {
		t.Fatalf("letterbox pixel %v, want background", c)
	}
	if c := dst.RGBAAt(400, 300); !near(c.B, 255, 2) {
		t.Fatalf("centre pixel %v, want blue", c)
	}
}

func TestMissingImageLeavesCanvasUntouched(t *testing.T) {
	st, clk := loadedState(t)
	if !st.GoTo(1, true) {
		t.Fatal("navigation to failed slot rejected")
	}
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 150))
	mark := color.RGBA{1, 2, 3, 255}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(mark), image.Point{}, draw.Src)
	if r.Plain(dst, st) {
		t.Fatal("plain render ran during a transition")
	}

	for i := 0; i < 10 && st.Transitioning(); i++ {
		r.Step(dst, st)
		clk.t = clk.t.Add(100 * time.Millisecond)
	}
	if st.Transitioning() || st.Index() != 1 {
		t.Fatalf("transition did not finish at index 1: index=%d", st.Index())
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(mark), image.Point{}, draw.Src)
	if r.Plain(dst, st) {
		t.Fatal("plain render drew a missing image")
	}
	if c := dst.RGBAAt(100, 75); c != mark {
		t.Fatalf("canvas changed to %v", c)
	}
}

func TestCrossfadeSkipsAbsentLayer(t *testing.T) {
	st, _ := loadedState(t)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 80, 60))
	r.Crossfade(dst, st, transition.Frame{From: 0, To: 1, Progress: 0.5, OutAlpha: 0.5, InAlpha: 0.5})
	c := dst.RGBAAt(40, 30)
	bg := r.Theme.Background
	wantR := uint8((255 + int(bg.R)) / 2)
	if !near(c.R, wantR, 3) || !near(c.B, bg.B/2, 3) {
		t.Fatalf("half faded pixel %v, want R≈%d", c, wantR)
	}
}

func TestCrossfadeBlendsBothLayers(t *testing.T) {
	st, _ := loadedState(t)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 80, 60))
	r.Crossfade(dst, st, transition.Frame{From: 0, To: 2, Progress: 1, OutAlpha: 0, InAlpha: 1})
	if c := dst.RGBAAt(40, 30); !near(c.B, 255, 2) || c.R > 2 {
		t.Fatalf("fully faded in pixel %v, want blue", c)
	}
}

func TestStepFinishesWithPlainRender(t *testing.T) {
	st, clk := loadedState(t)
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 80, 60))
	st.GoTo(2, true)
	if !r.Step(dst, st) {
		t.Fatal("first step should keep animating")
	}
	clk.t = clk.t.Add(transition.DefaultDuration)
	if r.Step(dst, st) {
		t.Fatal("last step should stop animating")
	}
	if st.ActiveThumb() != 2 {
		t.Fatalf("active thumb %d, want 2", st.ActiveThumb())
	}
	if c := dst.RGBAAt(40, 30); !near(c.B, 255, 2) {
		t.Fatalf("final frame pixel %v", c)
	}
}

func TestDrawImageHonoursTransform(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	DrawImage(dst, solid(10, 10, red), viewport.Transform{X: 60, Zoom: 1}, 1, New(nil).Still)
	if c := dst.RGBAAt(30, 50); c.A != 0 {
		t.Fatalf("panned image still covers %v", c)
	}
	if c := dst.RGBAAt(80, 50); !near(c.R, 255, 2) {
		t.Fatalf("pixel inside panned image %v", c)
	}
}

func TestFrameDrawsChromeOverEmptySection(t *testing.T) {
	cat, _ := catalog.New(&catalog.Section{Key: "e", Name: "Empty"})
	st := gallery.New(cat)
	st.SelectSection("e")
	r := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 320, 240))
	l, animating := r.Frame(dst, st, Target{})
	if animating {
		t.Fatal("empty section should not animate")
	}
	if len(l.Thumbs) != 0 {
		t.Fatalf("unexpected thumbs %v", l.Thumbs)
	}
	if c := dst.RGBAAt(160, 120); c != r.Theme.Background {
		t.Fatalf("canvas centre %v, want background", c)
	}
}
