// Package render composites the gallery state onto an RGBA canvas: the
// fitted image, the crossfade between two images and the viewer chrome.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/theme"
	"github.com/example/galleria/internal/transition"
	"github.com/example/galleria/internal/viewport"
)

// Renderer draws gallery frames. Still is used for settled frames and Moving
// while a crossfade runs.
type Renderer struct {
	Theme  *theme.Theme
	Still  xdraw.Interpolator
	Moving xdraw.Interpolator

	// ThumbSize is the edge of a thumbnail cell in the strip.
	ThumbSize int

	arrow     *image.RGBA
	arrowSize int
	arrowFill color.RGBA
	arrowOff  image.Point
}

// New creates a Renderer using th, or the default theme when th is nil.
func New(th *theme.Theme) *Renderer {
	if th == nil {
		th = theme.Default()
	}
	return &Renderer{
		Theme:     th,
		Still:     xdraw.CatmullRom,
		Moving:    xdraw.ApproxBiLinear,
		ThumbSize: 64,
	}
}

// Clear fills dst with the theme background.
func (r *Renderer) Clear(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.Theme.Background), image.Point{}, draw.Src)
}

// DrawImage scales img into its fit rectangle on dst under t, blended at
// alpha. A nil img draws nothing.
func DrawImage(dst *image.RGBA, img image.Image, t viewport.Transform, alpha float64, scaler xdraw.Interpolator) {
	if img == nil || alpha <= 0 {
		return
	}
	b := dst.Bounds()
	rect := viewport.FitImage(img, b.Size(), t).Image().Add(b.Min)
	if rect.Empty() || !rect.Overlaps(b) {
		return
	}
	var opts *xdraw.Options
	if alpha < 1 {
		opts = &xdraw.Options{DstMask: image.NewUniform(color.Alpha16{A: uint16(alpha*0xffff + 0.5)})}
	}
	scaler.Scale(dst, rect, img, img.Bounds(), draw.Over, opts)
}

// Plain draws the current image of st fitted to dst. It does nothing while a
// crossfade runs and leaves dst untouched when the current image is absent.
func (r *Renderer) Plain(dst *image.RGBA, st *gallery.State) bool {
	if st.Transitioning() {
		return false
	}
	cur := st.Current()
	if cur == nil {
		return false
	}
	r.Clear(dst)
	DrawImage(dst, cur, st.Transform(), 1, r.Still)
	return true
}

// Crossfade draws one frame of a transition: the outgoing image fading out
// under the incoming one. Absent images are skipped.
func (r *Renderer) Crossfade(dst *image.RGBA, st *gallery.State, f transition.Frame) {
	r.Clear(dst)
	t := st.Transform()
	DrawImage(dst, st.Image(f.From), t, f.OutAlpha, r.Moving)
	DrawImage(dst, st.Image(f.To), t, f.InAlpha, r.Moving)
}

// Step advances st's crossfade to the current time and draws the image layer
// for it. The final frame of a crossfade is drawn as a plain render. It
// reports whether further frames are needed.
func (r *Renderer) Step(dst *image.RGBA, st *gallery.State) (animating bool) {
	f, done, ok := st.Advance()
	switch {
	case !ok:
		r.Plain(dst, st)
	case done:
		r.Plain(dst, st)
	default:
		r.Crossfade(dst, st, f)
	}
	return (ok && !done) || st.ArrowGliding()
}

// Frame draws a complete window frame: background, image layer and chrome.
func (r *Renderer) Frame(dst *image.RGBA, st *gallery.State, hover Target) (Layout, bool) {
	if st.Current() == nil && !st.Transitioning() {
		r.Clear(dst)
	}
	animating := r.Step(dst, st)
	l := NewLayout(dst.Bounds().Size(), st, r.ThumbSize)
	r.Chrome(dst, st, l, hover)
	return l, animating
}

func (r *Renderer) arrowSprite(size int) (*image.RGBA, image.Point) {
	if r.arrow == nil || r.arrowSize != size || r.arrowFill != r.Theme.ArrowFill {
		res := ApplyShadow(ArrowSprite(size, r.Theme.ArrowFill), DefaultShadowOptions())
		r.arrow, r.arrowOff = res.Image, res.Offset
		r.arrowSize, r.arrowFill = size, r.Theme.ArrowFill
	}
	return r.arrow, r.arrowOff
}
