package gallery

import (
	"image"

	"go.uber.org/zap"

	"github.com/example/galleria/internal/transition"
	"github.com/example/galleria/internal/viewport"
)

// CanNavigate reports whether index changes are possible: the section has
// finished loading and at least one of its images decoded.
func (s *State) CanNavigate() bool {
	if s.section == nil || s.loading || len(s.images) == 0 {
		return false
	}
	for _, img := range s.images {
		if img != nil {
			return true
		}
	}
	return false
}

// GoTo makes i the current index. Requests made while a crossfade runs, while
// loading, or for an index outside the section are dropped and GoTo returns
// false. The transform is reset on every accepted change. Without a
// transition the thumbnail is activated immediately; otherwise it is
// activated when the crossfade finishes (see Advance).
func (s *State) GoTo(i int, withTransition bool) bool {
	if s.engine.Active() {
		s.log.Debug("Navigation dropped, transition in flight", zap.Int("index", i))
		return false
	}
	if s.section == nil || s.loading || i < 0 || i >= len(s.images) {
		return false
	}
	prev := s.index
	s.index = i
	s.transform = viewport.Identity()
	s.dragging = false
	if s.section.HasArrow() {
		s.moveArrow(i, withTransition)
	}
	if !withTransition {
		s.active = i
		return true
	}
	s.engine.Start(prev, i)
	return true
}

// Next advances to the following image, wrapping to the first.
func (s *State) Next() bool {
	if !s.CanNavigate() {
		return false
	}
	n := len(s.images)
	return s.GoTo((s.index+1)%n, true)
}

// Prev steps back to the preceding image, wrapping to the last.
func (s *State) Prev() bool {
	if !s.CanNavigate() {
		return false
	}
	n := len(s.images)
	return s.GoTo((s.index-1+n)%n, true)
}

// First jumps to the first image.
func (s *State) First() bool {
	if !s.CanNavigate() {
		return false
	}
	return s.GoTo(0, true)
}

// Last jumps to the last image.
func (s *State) Last() bool {
	if !s.CanNavigate() {
		return false
	}
	return s.GoTo(len(s.images)-1, true)
}

// SelectThumbnail navigates to the image of thumbnail i with a transition.
func (s *State) SelectThumbnail(i int) bool {
	if !s.CanNavigate() {
		return false
	}
	return s.GoTo(i, true)
}

// Advance steps the running crossfade to the clock's current time. ok is
// false when nothing is running. On the final step done is true, the engine
// is idle again and the destination thumbnail becomes active.
func (s *State) Advance() (f transition.Frame, done, ok bool) {
	if !s.engine.Active() {
		return transition.Frame{}, false, false
	}
	now := s.clock.Now()
	f, done = s.engine.Step(now)
	if s.arrow.pending {
		s.arrow.start = now
		s.arrow.pending = false
	}
	if done {
		s.active = f.To
	}
	return f, done, true
}

// Zoom applies one wheel step at cursor on a canvas of the given size. It is
// ignored while a crossfade runs or while nothing is displayed.
func (s *State) Zoom(cursor, canvas image.Point, wheelDown bool) bool {
	if s.engine.Active() || !s.CanNavigate() {
		return false
	}
	s.transform = s.transform.ZoomAt(cursor, canvas, wheelDown)
	return true
}

// BeginDrag starts a pan at p. Panning is only possible when zoomed in and
// no crossfade is running.
func (s *State) BeginDrag(p image.Point) bool {
	if s.engine.Active() || s.transform.Zoom <= 1 {
		return false
	}
	s.dragging = true
	s.lastDrag = p
	return true
}

// Drag moves the pan by the pointer delta since the previous call.
func (s *State) Drag(p image.Point) bool {
	if !s.dragging || s.engine.Active() {
		return false
	}
	d := p.Sub(s.lastDrag)
	s.lastDrag = p
	if d.X == 0 && d.Y == 0 {
		return false
	}
	s.transform = s.transform.Pan(float64(d.X), float64(d.Y))
	return true
}

// EndDrag stops panning.
func (s *State) EndDrag() { s.dragging = false }

// Dragging reports whether a pan is in progress.
func (s *State) Dragging() bool { return s.dragging }
