package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/galleria/internal/arrow"
	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/viewport"
)

const (
	barHeight    = 24
	tabMinWidth  = 80
	stripPad     = 6
	buttonWidth  = 40
	buttonHeight = 64
	buttonMargin = 8
	arrowSize    = 48
)

var face = basicfont.Face7x13

// TargetKind identifies a clickable chrome element.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetTab
	TargetPrev
	TargetNext
	TargetThumb
	TargetArrow
)

// Target is the element under a point. Index is the thumbnail index for
// TargetThumb; Key is the section key for TargetTab.
type Target struct {
	Kind  TargetKind
	Index int
	Key   string
}

// Tab is one entry of the section selector.
type Tab struct {
	Key   string
	Label string
	Rect  image.Rectangle
}

// Thumb is one cell of the thumbnail strip.
type Thumb struct {
	Index int
	Rect  image.Rectangle
}

// Layout places the chrome on a canvas of a given size.
type Layout struct {
	Size   image.Point
	Bar    image.Rectangle
	Tabs   []Tab
	Prev   image.Rectangle
	Next   image.Rectangle
	Strip  image.Rectangle
	Thumbs []Thumb
	Arrow  image.Rectangle
}

// NewLayout computes the chrome geometry for st on a canvas of size. The
// thumbnail strip is scrolled so the active thumbnail is in view.
func NewLayout(size image.Point, st *gallery.State, thumbSize int) Layout {
	if thumbSize <= 0 {
		thumbSize = 64
	}
	l := Layout{Size: size}
	l.Bar = image.Rect(0, 0, size.X, barHeight)

	x := 0
	current := st.SectionKey()
	for _, e := range st.Catalog().Entries() {
		label := e.Name
		if e.Key == current {
			label = "[" + label + "]"
		}
		w := max(tabMinWidth, font.MeasureString(face, label).Ceil()+16)
		l.Tabs = append(l.Tabs, Tab{Key: e.Key, Label: label, Rect: image.Rect(x, 0, x+w, barHeight)})
		x += w
	}

	stripH := thumbSize + 2*stripPad
	l.Strip = image.Rect(0, size.Y-stripH, size.X, size.Y)

	midY := barHeight + (l.Strip.Min.Y-barHeight)/2
	l.Prev = image.Rect(buttonMargin, midY-buttonHeight/2, buttonMargin+buttonWidth, midY+buttonHeight/2)
	l.Next = image.Rect(size.X-buttonMargin-buttonWidth, midY-buttonHeight/2, size.X-buttonMargin, midY+buttonHeight/2)

	// one control per decoded image, in slot order
	var slots []int
	focus := -1
	want := st.ActiveThumb()
	if want < 0 {
		want = st.Index()
	}
	for i := 0; i < st.Len(); i++ {
		if st.Thumb(i) == nil {
			continue
		}
		if i <= want {
			focus = len(slots)
		}
		slots = append(slots, i)
	}
	if n := len(slots); n > 0 {
		focus = max(focus, 0)
		step := thumbSize + stripPad
		total := n*step - stripPad
		offset := (size.X - total) / 2
		if total > size.X-2*stripPad {
			offset = size.X/2 - (focus*step + thumbSize/2)
			offset = min(offset, stripPad)
			offset = max(offset, size.X-stripPad-total)
		}
		for k, i := range slots {
			x0 := offset + k*step
			r := image.Rect(x0, l.Strip.Min.Y+stripPad, x0+thumbSize, l.Strip.Min.Y+stripPad+thumbSize)
			if r.Max.X < 0 || r.Min.X > size.X {
				continue
			}
			l.Thumbs = append(l.Thumbs, Thumb{Index: i, Rect: r})
		}
	}

	if st.ArrowVisible() {
		px, py := st.ArrowPercent()
		p := arrow.PercentToPoint(px, py, size.X, size.Y)
		l.Arrow = image.Rect(p.X, p.Y, p.X+arrowSize, p.Y+arrowSize)
	}
	return l
}

// HitTest returns the chrome element at p.
func (l Layout) HitTest(p image.Point) Target {
	for _, t := range l.Tabs {
		if p.In(t.Rect) {
			return Target{Kind: TargetTab, Key: t.Key, Index: -1}
		}
	}
	if p.In(l.Arrow) {
		return Target{Kind: TargetArrow, Index: -1}
	}
	if p.In(l.Strip) {
		for _, t := range l.Thumbs {
			if p.In(t.Rect) {
				return Target{Kind: TargetThumb, Index: t.Index}
			}
		}
		return Target{Kind: TargetNone, Index: -1}
	}
	if p.In(l.Prev) {
		return Target{Kind: TargetPrev, Index: -1}
	}
	if p.In(l.Next) {
		return Target{Kind: TargetNext, Index: -1}
	}
	return Target{Kind: TargetNone, Index: -1}
}

// Chrome draws the section bar, navigation buttons, thumbnail strip and the
// floating arrow over dst.
func (r *Renderer) Chrome(dst *image.RGBA, st *gallery.State, l Layout, hover Target) {
	th := r.Theme
	fill(dst, l.Bar, th.BarBackground)
	for _, t := range l.Tabs {
		text := th.TabText
		if t.Key == st.SectionKey() {
			fill(dst, t.Rect, th.TabActive)
			text = th.TabTextActive
		} else if hover.Kind == TargetTab && hover.Key == t.Key {
			fill(dst, t.Rect, th.ButtonBackgroundHover)
		}
		drawString(dst, t.Label, t.Rect.Min.X+8, t.Rect.Min.Y+16, text)
	}
	status := statusLine(st)
	sw := font.MeasureString(face, status).Ceil()
	statusColor := th.Foreground
	if !st.Loading() && st.Len() > 0 && st.Current() == nil {
		statusColor = th.ThumbMissing
	}
	drawString(dst, status, l.Size.X-sw-8, 16, statusColor)

	if st.CanNavigate() {
		r.button(dst, l.Prev, "<", hover.Kind == TargetPrev)
		r.button(dst, l.Next, ">", hover.Kind == TargetNext)
	}

	fill(dst, l.Strip, th.StripBackground)
	for _, t := range l.Thumbs {
		img := st.Thumb(t.Index)
		rect := viewport.FitImage(img, t.Rect.Size(), viewport.Identity()).Image().Add(t.Rect.Min)
		xdraw.ApproxBiLinear.Scale(dst, rect, img, img.Bounds(), draw.Over, nil)
		switch {
		case t.Index == st.ActiveThumb():
			strokeRect(dst, t.Rect.Inset(-2), th.ThumbActive, 2)
		case hover.Kind == TargetThumb && hover.Index == t.Index:
			strokeRect(dst, t.Rect, th.ButtonBackgroundHover, 1)
		default:
			strokeRect(dst, t.Rect, th.ThumbBorder, 1)
		}
	}

	if !l.Arrow.Empty() && st.CanNavigate() {
		sprite, off := r.arrowSprite(arrowSize)
		at := l.Arrow.Min.Sub(off)
		draw.Draw(dst, sprite.Bounds().Add(at), sprite, image.Point{}, draw.Over)
	}
}

func (r *Renderer) button(dst *image.RGBA, rect image.Rectangle, label string, hover bool) {
	bg := r.Theme.ButtonBackground
	if hover {
		bg = r.Theme.ButtonBackgroundHover
	}
	fill(dst, rect, bg)
	w := font.MeasureString(face, label).Ceil()
	drawString(dst, label, rect.Min.X+(rect.Dx()-w)/2, rect.Min.Y+rect.Dy()/2+5, r.Theme.ButtonText)
}

func statusLine(st *gallery.State) string {
	sec := st.Section()
	if sec == nil {
		return ""
	}
	if st.Loading() {
		return fmt.Sprintf("%s: loading %d images", sec.Name, sec.Len())
	}
	if st.Len() == 0 {
		return sec.Name + ": no images"
	}
	s := fmt.Sprintf("%s %d/%d", sec.Name, st.Index()+1, st.Len())
	if z := st.Transform().Zoom; z > 1 {
		s += fmt.Sprintf("  %.0f%%", z*100)
	}
	if st.Current() == nil {
		s += "  (missing)"
	}
	return s
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	if c.A == 0 {
		return
	}
	op := draw.Over
	if c.A == 255 {
		op = draw.Src
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, op)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.RGBA, thick int) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y+thick, r.Min.X+thick, r.Max.Y-thick), c)
	fill(dst, image.Rect(r.Max.X-thick, r.Min.Y+thick, r.Max.X, r.Max.Y-thick), c)
}

func drawString(dst *image.RGBA, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
