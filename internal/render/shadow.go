package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// ShadowOptions configures the drop shadow drawn under overlay sprites.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the sprite composited over its blurred shadow.
	Image *image.RGBA
	// Offset is where the original top-left corner ended up inside Image.
	Offset image.Point
}

// DefaultShadowOptions returns the shadow used for the floating arrow.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(3, 4),
		Opacity: 0.5,
	}
}

// ApplyShadow composites img over a blurred silhouette of itself. The result
// has a zero origin and grows to fit the shadow.
func ApplyShadow(img image.Image, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	src := img.Bounds()
	if src.Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: toRGBA(img)}
	}
	opacity := math.Min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	union := src.Union(shadow)

	silhouette := image.NewNRGBA(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			silhouette.SetNRGBA(x-padded.Min.X, y-padded.Min.Y, color.NRGBA{A: uint8(float64(a>>8)*opacity + 0.5)})
		}
	}
	var blurred image.Image = silhouette
	if radius > 0 {
		blurred = imaging.Blur(silhouette, float64(radius)/2)
	}

	dst := image.NewRGBA(union.Sub(union.Min))
	draw.Draw(dst, blurred.Bounds().Add(shadow.Min.Sub(union.Min)), blurred, image.Point{}, draw.Over)
	draw.Draw(dst, src.Sub(union.Min), img, src.Min, draw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(union.Min)}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b.Sub(b.Min))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// ArrowSprite draws a right-pointing chevron of the given size in fill.
func ArrowSprite(size int, fill color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}
	s := float64(size)
	thick := s * 0.22
	u := image.NewUniform(fill)
	for y := 0; y < size; y++ {
		fy := float64(y) + 0.5
		// distance from the horizontal centre line, 0 at the tip
		dy := math.Abs(fy - s/2)
		tip := s*0.8 - dy
		for x := 0; x < size; x++ {
			fx := float64(x) + 0.5
			if fx >= tip-thick && fx <= tip && fx >= s*0.2 {
				img.Set(x, y, u.C)
			}
		}
	}
	return img
}
