package render

import (
	"image"
	"image/color"
	"testing"
)

func TestApplyShadowExpandsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	subject := image.Pt(5, 5)
	img.Set(subject.X, subject.Y, color.RGBA{R: 255, A: 255})

	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}
	out := ApplyShadow(img, opts)
	if out.Image == nil {
		t.Fatal("expected output image")
	}
	if want := image.Rect(0, 0, 22, 20); !out.Image.Bounds().Eq(want) {
		t.Fatalf("bounds %v, want %v", out.Image.Bounds(), want)
	}
	if out.Offset != (image.Point{}) {
		t.Fatalf("offset %v, want origin", out.Offset)
	}
	shadowPt := subject.Add(opts.Offset)
	if out.Image.RGBAAt(shadowPt.X, shadowPt.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", shadowPt)
	}
	if got := out.Image.RGBAAt(subject.X, subject.Y); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("subject pixel %v", got)
	}
}

func TestApplyShadowNegativeOffset(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{A: 255})
	out := ApplyShadow(img, ShadowOptions{Radius: 1, Offset: image.Pt(-3, -2), Opacity: 1})
	if out.Offset != image.Pt(4, 3) {
		t.Fatalf("offset %v, want (4,3)", out.Offset)
	}
	if out.Image.Bounds().Min != (image.Point{}) {
		t.Fatalf("result should have a zero origin, got %v", out.Image.Bounds())
	}
}

func TestApplyShadowNoShadowWhenOpacityZero(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, fill)
		}
	}
	out := ApplyShadow(img, ShadowOptions{Radius: 12, Offset: image.Pt(20, 10), Opacity: 0})
	if !out.Image.Bounds().Eq(img.Bounds()) {
		t.Fatalf("bounds changed: %v", out.Image.Bounds())
	}
	if got := out.Image.RGBAAt(2, 2); got != fill {
		t.Fatalf("pixel %v, want %v", got, fill)
	}
}

func TestApplyShadowNil(t *testing.T) {
	if out := ApplyShadow(nil, DefaultShadowOptions()); out.Image != nil {
		t.Fatal("expected empty result for nil image")
	}
}

func TestArrowSprite(t *testing.T) {
	fill := color.RGBA{255, 255, 255, 255}
	s := ArrowSprite(40, fill)
	if s.Bounds().Dx() != 40 || s.Bounds().Dy() != 40 {
		t.Fatalf("bounds %v", s.Bounds())
	}
	if s.RGBAAt(0, 0).A != 0 || s.RGBAAt(39, 39).A != 0 {
		t.Fatal("corners should be transparent")
	}
	// tip of the chevron sits on the centre line
	if s.RGBAAt(30, 20) != fill {
		t.Fatalf("tip pixel %v", s.RGBAAt(30, 20))
	}
}
