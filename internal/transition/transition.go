// Package transition drives the crossfade between two images as a small state
// machine stepped with timestamps from an injected clock.
package transition

import (
	"math"
	"time"
)

// DefaultDuration is the length of a crossfade.
const DefaultDuration = 500 * time.Millisecond

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Frame describes what to composite for one animation step.
type Frame struct {
	From, To int
	// Progress is the linear progress in [0,1].
	Progress float64
	// OutAlpha and InAlpha always sum to 1.
	OutAlpha float64
	InAlpha  float64
}

// Ease is the cubic ease-out curve 1-(1-p)^3, with p clamped to [0,1].
func Ease(p float64) float64 {
	p = clamp01(p)
	return 1 - math.Pow(1-p, 3)
}

// Engine runs at most one crossfade at a time.
type Engine struct {
	Duration time.Duration

	active   bool
	started  bool
	from, to int
	start    time.Time
}

// New returns an engine with the given duration, DefaultDuration when d <= 0.
func New(d time.Duration) *Engine {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Engine{Duration: d}
}

// Active reports whether a crossfade is in flight.
func (e *Engine) Active() bool { return e.active }

// Endpoints returns the indices of the running crossfade.
func (e *Engine) Endpoints() (from, to int) { return e.from, e.to }

// Start begins a crossfade. It refuses (returns false) while another one is
// running; requests are not queued.
func (e *Engine) Start(from, to int) bool {
	if e.active {
		return false
	}
	e.active = true
	e.started = false
	e.from = from
	e.to = to
	return true
}

// Step advances the animation to now. The first step captures the start
// time. done is true on the step that reaches full progress, after which the
// engine is idle again.
func (e *Engine) Step(now time.Time) (f Frame, done bool) {
	if !e.active {
		return Frame{From: e.from, To: e.to, Progress: 1, InAlpha: 1}, true
	}
	if !e.started {
		e.started = true
		e.start = now
	}
	p := 1.0
	if e.Duration > 0 {
		p = clamp01(float64(now.Sub(e.start)) / float64(e.Duration))
	}
	eased := Ease(p)
	f = Frame{From: e.from, To: e.to, Progress: p, OutAlpha: 1 - eased, InAlpha: eased}
	if p >= 1 {
		e.active = false
		e.started = false
		return f, true
	}
	return f, false
}

// Progress reports the linear progress of the running crossfade at now
// without advancing it.
func (e *Engine) Progress(now time.Time) float64 {
	if !e.active {
		return 1
	}
	if !e.started || e.Duration <= 0 {
		return 0
	}
	return clamp01(float64(now.Sub(e.start)) / float64(e.Duration))
}

// Abort drops the running crossfade, if any.
func (e *Engine) Abort() {
	e.active = false
	e.started = false
}

func clamp01(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
