// Package arrow positions the moving "next" control of sections that define
// a keyframe table.
package arrow

import (
	"image"
	"math"
	"sort"
)

// Keyframe anchors the control at a screen position, in percent of the
// viewport, for one image index.
type Keyframe struct {
	Index int
	X, Y  float64
}

// Table is a sparse, index-sorted set of keyframes.
type Table struct {
	frames []Keyframe
}

// New builds a table from an index → [x%, y%] mapping.
func New(points map[int][2]float64) *Table {
	t := &Table{frames: make([]Keyframe, 0, len(points))}
	for idx, p := range points {
		t.frames = append(t.frames, Keyframe{Index: idx, X: p[0], Y: p[1]})
	}
	sort.Slice(t.frames, func(i, j int) bool { return t.frames[i].Index < t.frames[j].Index })
	return t
}

// Len reports the number of keyframes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.frames)
}

// Keyframes returns a copy of the sorted keyframes.
func (t *Table) Keyframes() []Keyframe {
	if t == nil {
		return nil
	}
	out := make([]Keyframe, len(t.frames))
	copy(out, t.frames)
	return out
}

// Interpolate returns the percent position of the control for image index i.
// The bracketing keyframes are the greatest key <= i (the smallest key when
// none) and the smallest key > i (the largest key when none).
func (t *Table) Interpolate(i int) (x, y float64) {
	if t.Len() == 0 {
		return 0, 0
	}
	prev := t.frames[0]
	for _, k := range t.frames {
		if k.Index > i {
			break
		}
		prev = k
	}
	next := t.frames[len(t.frames)-1]
	if n := sort.Search(len(t.frames), func(j int) bool { return t.frames[j].Index > i }); n < len(t.frames) {
		next = t.frames[n]
	}
	progress := 1.0
	if interval := next.Index - prev.Index; interval != 0 {
		progress = float64(i-prev.Index) / float64(interval)
	}
	return lerp(prev.X, next.X, progress), lerp(prev.Y, next.Y, progress)
}

// Position converts the interpolated percentages into pixels of a viewport
// of the given size.
func (t *Table) Position(i, width, height int) image.Point {
	x, y := t.Interpolate(i)
	return PercentToPoint(x, y, width, height)
}

// PercentToPoint maps percent coordinates onto a width×height viewport.
func PercentToPoint(x, y float64, width, height int) image.Point {
	return image.Pt(int(math.Round(x*float64(width)/100)), int(math.Round(y*float64(height)/100)))
}

// Glide moves between two percent positions with ease-in-out timing, p in [0,1].
func Glide(fromX, fromY, toX, toY, p float64) (x, y float64) {
	e := easeInOut(p)
	return lerp(fromX, toX, e), lerp(fromY, toY, e)
}

func easeInOut(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	case p < 0.5:
		return 2 * p * p
	default:
		return 1 - math.Pow(-2*p+2, 2)/2
	}
}

func lerp(a, b, p float64) float64 { return a + (b-a)*p }
