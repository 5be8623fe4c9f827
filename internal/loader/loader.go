// Package loader decodes the images of a section concurrently and reports one
// result per image, tagged with the load generation that requested it.
package loader

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/galleria/internal/catalog"
)

// DefaultThumbSize is the edge of the square box thumbnails are fitted in.
const DefaultThumbSize = 96

// Result is the outcome of decoding one image slot.
type Result struct {
	Generation uint64
	Index      int
	Path       string
	Image      image.Image
	Thumb      image.Image
	Err        error
}

// Loader decodes section assets.
type Loader struct {
	decoder   Decoder
	log       *zap.Logger
	workers   int
	thumbSize int
}

// Option configures a Loader.
type Option func(*Loader)

// WithDecoder replaces the filesystem decoder.
func WithDecoder(d Decoder) Option { return func(l *Loader) { l.decoder = d } }

// WithWorkers bounds the number of concurrent decodes.
func WithWorkers(n int) Option { return func(l *Loader) { l.workers = n } }

// WithThumbSize sets the thumbnail box size.
func WithThumbSize(n int) Option { return func(l *Loader) { l.thumbSize = n } }

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option { return func(l *Loader) { l.log = log } }

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		decoder:   FileDecoder{},
		log:       zap.NewNop(),
		workers:   runtime.NumCPU(),
		thumbSize: DefaultThumbSize,
	}
	for _, o := range opts {
		o(l)
	}
	if l.workers < 1 {
		l.workers = 1
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	return l
}

// Start decodes every image of s in the background. deliver is called exactly
// once per image slot, from the decoding goroutines, and must not block for
// long. Start returns immediately; the returned channel is closed after the
// last delivery.
func (l *Loader) Start(ctx context.Context, gen uint64, s *catalog.Section, deliver func(Result)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.run(ctx, gen, s, deliver)
	}()
	return done
}

// Load decodes every image of s and returns the results positionally.
func (l *Loader) Load(ctx context.Context, gen uint64, s *catalog.Section) []Result {
	results := make([]Result, s.Len())
	l.run(ctx, gen, s, func(r Result) { results[r.Index] = r })
	return results
}

func (l *Loader) run(ctx context.Context, gen uint64, s *catalog.Section, deliver func(Result)) {
	started := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i := range s.Images {
		path := s.AssetPath(i)
		g.Go(func() error {
			deliver(l.decodeSlot(ctx, gen, i, path))
			return nil
		})
	}
	_ = g.Wait()
	l.log.Debug("Section decoded",
		zap.String("section", s.Key),
		zap.Int("images", s.Len()),
		zap.Uint64("generation", gen),
		zap.Duration("elapsed", time.Since(started)))
}

func (l *Loader) decodeSlot(ctx context.Context, gen uint64, idx int, path string) Result {
	r := Result{Generation: gen, Index: idx, Path: path}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}
	img, err := l.decoder.Decode(path)
	if err != nil {
		r.Err = fmt.Errorf("load %s: %w", path, err)
		l.log.Warn("Unable to decode image, slot left empty",
			zap.String("path", path), zap.Int("index", idx), zap.Error(err))
		return r
	}
	r.Image = img
	r.Thumb = Thumbnail(img, l.thumbSize)
	return r
}
