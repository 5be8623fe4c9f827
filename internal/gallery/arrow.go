package gallery

import (
	"time"

	"github.com/example/galleria/internal/arrow"
	"github.com/example/galleria/internal/viewport"
)

type arrowState struct {
	set          bool
	fromX, fromY float64
	toX, toY     float64
	start        time.Time
	glide        bool
	// waiting for the crossfade's first step to fix start
	pending bool
}

func (s *State) moveArrow(i int, animate bool) {
	x, y := s.section.Arrow.Interpolate(i)
	if !s.arrow.set {
		animate = false
	}
	if animate {
		s.arrow.fromX, s.arrow.fromY = s.ArrowPercent()
	} else {
		s.arrow.fromX, s.arrow.fromY = x, y
	}
	s.arrow.toX, s.arrow.toY = x, y
	s.arrow.start = s.clock.Now()
	s.arrow.glide = animate
	s.arrow.pending = animate
	s.arrow.set = true
}

// ArrowVisible reports whether the floating next control is shown for the
// current section.
func (s *State) ArrowVisible() bool {
	return s.section != nil && s.section.HasArrow()
}

// ArrowAnimated reports whether the floating control glides between
// positions rather than jumping.
func (s *State) ArrowAnimated() bool { return s.ArrowVisible() }

// ArrowTarget returns the keyframe-interpolated position, in percent of the
// viewport, for the current index.
func (s *State) ArrowTarget() (x, y float64) {
	if !s.ArrowVisible() {
		return 0, 0
	}
	return s.section.Arrow.Interpolate(s.index)
}

// ArrowPercent returns where the floating control is drawn now, in percent
// of the viewport. A glide runs in step with the crossfade and stays at its
// origin until the crossfade's first frame.
func (s *State) ArrowPercent() (x, y float64) {
	if !s.ArrowVisible() || !s.arrow.set {
		return s.ArrowTarget()
	}
	if !s.arrow.glide || s.engine.Duration <= 0 {
		return s.arrow.toX, s.arrow.toY
	}
	if s.arrow.pending {
		return s.arrow.fromX, s.arrow.fromY
	}
	p := float64(s.clock.Now().Sub(s.arrow.start)) / float64(s.engine.Duration)
	return arrow.Glide(s.arrow.fromX, s.arrow.fromY, s.arrow.toX, s.arrow.toY, p)
}

// ArrowGliding reports whether the floating control is still moving.
func (s *State) ArrowGliding() bool {
	if !s.ArrowVisible() || !s.arrow.glide {
		return false
	}
	if s.arrow.pending {
		return true
	}
	return s.clock.Now().Sub(s.arrow.start) < s.engine.Duration
}

// SetTransform replaces the pan/zoom, clamping the zoom. Used by headless
// rendering to reproduce a view.
func (s *State) SetTransform(t viewport.Transform) {
	t.Zoom = viewport.Clamp(t.Zoom)
	s.transform = t
}
