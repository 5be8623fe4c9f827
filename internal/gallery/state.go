// Package gallery holds the viewer state: the active section and image, the
// decoded image set, the pan/zoom transform and the running crossfade. A State
// is owned by a single goroutine; it does no locking.
package gallery

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/example/galleria/internal/catalog"
	"github.com/example/galleria/internal/loader"
	"github.com/example/galleria/internal/transition"
	"github.com/example/galleria/internal/viewport"
)

// State is the single holder of navigation, transform and transition state.
type State struct {
	cat   *catalog.Catalog
	clock transition.Clock
	log   *zap.Logger

	section *catalog.Section
	index   int
	active  int

	gen     uint64
	loading bool
	images  []image.Image
	thumbs  []image.Image
	settled []bool
	pending int
	loadErr error

	transform viewport.Transform
	engine    *transition.Engine

	dragging bool
	lastDrag image.Point

	arrow arrowState
}

// Option configures a State.
type Option func(*State)

// WithClock injects the time source used by transitions.
func WithClock(c transition.Clock) Option { return func(s *State) { s.clock = c } }

// WithTransitionDuration overrides the crossfade length.
func WithTransitionDuration(d time.Duration) Option {
	return func(s *State) { s.engine = transition.New(d) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *State) { s.log = l } }

// New creates an empty State over cat. No section is active until
// SelectSection is called.
func New(cat *catalog.Catalog, opts ...Option) *State {
	s := &State{
		cat:       cat,
		clock:     transition.SystemClock{},
		log:       zap.NewNop(),
		engine:    transition.New(transition.DefaultDuration),
		transform: viewport.Identity(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Catalog returns the catalog the state navigates.
func (s *State) Catalog() *catalog.Catalog { return s.cat }

// SelectSection starts loading the section named key and returns the new
// load generation. Results for the load must be passed to Commit.
func (s *State) SelectSection(key string) (uint64, error) {
	sec, err := s.cat.Get(key)
	if err != nil {
		return 0, err
	}
	return s.BeginLoad(sec), nil
}

// BeginLoad makes sec current at index 0 with an identity transform and an
// empty image set, and invalidates any load still in flight. A section with
// no images completes immediately.
func (s *State) BeginLoad(sec *catalog.Section) uint64 {
	s.gen++
	s.section = sec
	s.index = 0
	s.active = -1
	s.transform = viewport.Identity()
	s.engine.Abort()
	s.dragging = false
	n := sec.Len()
	s.images = make([]image.Image, n)
	s.thumbs = make([]image.Image, n)
	s.settled = make([]bool, n)
	s.pending = n
	s.loadErr = nil
	s.loading = true
	s.arrow = arrowState{}
	s.log.Debug("Loading section", zap.String("section", sec.Key), zap.Int("images", n), zap.Uint64("generation", s.gen))
	if n == 0 {
		s.finishLoad()
	}
	return s.gen
}

// Commit records one decode result. Results from a superseded load, for a
// slot outside the section or for an already settled slot are ignored and
// Commit returns false. When the last slot settles the load completes and
// the first image is shown without a transition.
func (s *State) Commit(r loader.Result) bool {
	if !s.loading || r.Generation != s.gen {
		s.log.Debug("Dropping stale decode", zap.Uint64("generation", r.Generation), zap.Uint64("current", s.gen), zap.Int("index", r.Index))
		return false
	}
	if r.Index < 0 || r.Index >= len(s.settled) || s.settled[r.Index] {
		return false
	}
	s.settled[r.Index] = true
	s.pending--
	if r.Err != nil || r.Image == nil {
		err := r.Err
		if err == nil {
			err = fmt.Errorf("load %s: no image", r.Path)
		}
		s.loadErr = multierr.Append(s.loadErr, err)
	} else {
		s.images[r.Index] = r.Image
		s.thumbs[r.Index] = r.Thumb
		if r.Thumb == nil {
			s.thumbs[r.Index] = r.Image
		}
	}
	if s.pending == 0 {
		s.finishLoad()
	}
	return true
}

func (s *State) finishLoad() {
	s.loading = false
	if failed := len(multierr.Errors(s.loadErr)); failed > 0 {
		s.log.Warn("Section loaded with missing images",
			zap.String("section", s.section.Key), zap.Int("failed", failed), zap.Int("images", s.section.Len()))
	} else {
		s.log.Info("Section loaded", zap.String("section", s.section.Key), zap.Int("images", s.section.Len()))
	}
	if s.section.Len() == 0 {
		return
	}
	s.GoTo(0, false)
}

// Generation returns the current load generation.
func (s *State) Generation() uint64 { return s.gen }

// Loading reports whether the current section still has unsettled decodes.
func (s *State) Loading() bool { return s.loading }

// LoadErr returns the combined decode failures of the current section.
func (s *State) LoadErr() error { return s.loadErr }

// Section returns the current section, nil before the first selection.
func (s *State) Section() *catalog.Section { return s.section }

// SectionKey returns the key of the current section.
func (s *State) SectionKey() string {
	if s.section == nil {
		return ""
	}
	return s.section.Key
}

// Index returns the current image index.
func (s *State) Index() int { return s.index }

// Len returns the number of image slots of the current section.
func (s *State) Len() int { return len(s.images) }

// Image returns the decoded image at i, nil when absent or out of range.
func (s *State) Image(i int) image.Image {
	if i < 0 || i >= len(s.images) {
		return nil
	}
	return s.images[i]
}

// Current returns the image at the current index, nil when absent.
func (s *State) Current() image.Image { return s.Image(s.index) }

// Thumb returns the thumbnail for slot i, nil when absent.
func (s *State) Thumb(i int) image.Image {
	if i < 0 || i >= len(s.thumbs) {
		return nil
	}
	return s.thumbs[i]
}

// ActiveThumb returns the index of the highlighted thumbnail, -1 for none.
func (s *State) ActiveThumb() int { return s.active }

// Transform returns the current pan/zoom.
func (s *State) Transform() viewport.Transform { return s.transform }

// Transitioning reports whether a crossfade is in flight.
func (s *State) Transitioning() bool { return s.engine.Active() }

// Duration returns the crossfade length.
func (s *State) Duration() time.Duration { return s.engine.Duration }

// Now reads the state's clock.
func (s *State) Now() time.Time { return s.clock.Now() }
