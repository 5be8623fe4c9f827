// Package viewport holds the pan/zoom transform applied to the displayed
// image and the fit-to-canvas geometry derived from it.
package viewport

import (
	"image"
	"math"
)

const (
	MinZoom = 1.0
	MaxZoom = 5.0

	zoomOutFactor = 0.9
	zoomInFactor  = 1.1
)

// Transform is a pan offset in canvas pixels plus a zoom factor relative to
// the fitted size.
type Transform struct {
	X, Y float64
	Zoom float64
}

// Identity returns the untransformed state: centred and fitted.
func Identity() Transform { return Transform{Zoom: 1} }

// IsIdentity reports whether t is the identity transform.
func (t Transform) IsIdentity() bool { return t == Identity() }

// Rect is a floating point destination rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Image rounds r to integer canvas coordinates.
func (r Rect) Image() image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.W)), y0+int(math.Round(r.H)))
}

// FitRect computes where an imgW×imgH image is drawn on a canvasW×canvasH
// surface: letterboxed, centred, then scaled by t.Zoom and shifted by the pan.
func FitRect(imgW, imgH, canvasW, canvasH int, t Transform) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{}
	}
	ratio := math.Min(float64(canvasW)/float64(imgW), float64(canvasH)/float64(imgH)) * t.Zoom
	w := float64(imgW) * ratio
	h := float64(imgH) * ratio
	return Rect{
		X: t.X + (float64(canvasW)-w)/2,
		Y: t.Y + (float64(canvasH)-h)/2,
		W: w,
		H: h,
	}
}

// FitImage is FitRect for a decoded image.
func FitImage(img image.Image, canvas image.Point, t Transform) Rect {
	b := img.Bounds()
	return FitRect(b.Dx(), b.Dy(), canvas.X, canvas.Y, t)
}

// ZoomAt applies one wheel step around the cursor position (canvas
// coordinates) on a canvas of the given size. wheelDown zooms out. The pan is
// adjusted so the image point under the cursor keeps its screen position.
func (t Transform) ZoomAt(cursor image.Point, canvas image.Point, wheelDown bool) Transform {
	factor := zoomInFactor
	if wheelDown {
		factor = zoomOutFactor
	}
	return t.ZoomTo(float64(cursor.X), float64(cursor.Y), canvas, t.Zoom*factor)
}

// ZoomTo sets the zoom to z (clamped) keeping the image point under (cx, cy)
// fixed. The fitted image is centred, so the cursor is measured from the
// canvas centre: new = (old - d) * (z/oldZoom) + d.
func (t Transform) ZoomTo(cx, cy float64, canvas image.Point, z float64) Transform {
	old := t.Zoom
	if old <= 0 {
		old = 1
	}
	z = Clamp(z)
	scale := z / old
	dx := cx - float64(canvas.X)/2
	dy := cy - float64(canvas.Y)/2
	return Transform{
		X:    (t.X-dx)*scale + dx,
		Y:    (t.Y-dy)*scale + dy,
		Zoom: z,
	}
}

// ToImage maps a canvas point to image pixel coordinates for an imgW×imgH
// image drawn under t.
func (t Transform) ToImage(px, py float64, imgW, imgH int, canvas image.Point) (float64, float64) {
	r := FitRect(imgW, imgH, canvas.X, canvas.Y, t)
	if r.W == 0 || r.H == 0 {
		return 0, 0
	}
	return (px - r.X) * float64(imgW) / r.W, (py - r.Y) * float64(imgH) / r.H
}

// Pan shifts the transform by a pointer delta.
func (t Transform) Pan(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// Clamp limits z to [MinZoom, MaxZoom].
func Clamp(z float64) float64 {
	return math.Max(MinZoom, math.Min(z, MaxZoom))
}
