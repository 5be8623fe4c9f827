package loader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/example/galleria/internal/catalog"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestLoadPositionalWithFailure(t *testing.T) {
	sec := &catalog.Section{Key: "s", Path: "mem/", Images: []string{"a.png", "b.png", "c.png"}}
	dec := DecoderFunc(func(path string) (image.Image, error) {
		if path == "mem/b.png" {
			return nil, errors.New("corrupt")
		}
		return solid(300, 200), nil
	})
	l := New(WithDecoder(dec), WithWorkers(2), WithThumbSize(30))
	results := l.Load(context.Background(), 7, sec)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Generation != 7 {
			t.Fatalf("result %d misplaced: %+v", i, r)
		}
	}
	if results[1].Err == nil || results[1].Image != nil {
		t.Fatalf("slot 1 should have failed: %+v", results[1])
	}
	if results[0].Image == nil || results[2].Image == nil {
		t.Fatal("slots 0 and 2 should be decoded")
	}
	tb := results[0].Thumb.Bounds()
	if tb.Dx() != 30 || tb.Dy() != 20 {
		t.Fatalf("thumbnail bounds %v, want 30x20", tb)
	}
}

func TestStartDeliversOncePerSlot(t *testing.T) {
	sec := &catalog.Section{Key: "s", Images: []string{"1", "2", "3", "4", "5", "6"}}
	dec := DecoderFunc(func(string) (image.Image, error) { return solid(4, 4), nil })
	l := New(WithDecoder(dec), WithWorkers(3))

	var mu sync.Mutex
	seen := map[int]int{}
	done := l.Start(context.Background(), 1, sec, func(r Result) {
		mu.Lock()
		seen[r.Index]++
		mu.Unlock()
	})
	<-done
	if len(seen) != 6 {
		t.Fatalf("delivered %d slots, want 6", len(seen))
	}
	for idx, n := range seen {
		if n != 1 {
			t.Fatalf("slot %d delivered %d times", idx, n)
		}
	}
}

func TestCancelledLoadStillSettlesEverySlot(t *testing.T) {
	sec := &catalog.Section{Key: "s", Images: []string{"1", "2", "3"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := New(WithDecoder(DecoderFunc(func(string) (image.Image, error) { return solid(1, 1), nil })))
	for _, r := range l.Load(ctx, 1, sec) {
		if !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("slot %d: expected cancellation, got %v", r.Index, r.Err)
		}
	}
}

func TestFileDecoder(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(8, 6)); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.png")
	if err := os.WriteFile(good, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := FileDecoder{}.Decode(good)
	if err != nil {
		t.Fatalf("decode good: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if _, err := (FileDecoder{}).Decode(bad); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := (FileDecoder{}).Decode(filepath.Join(dir, "missing.png")); err == nil || !strings.Contains(err.Error(), "missing.png") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	img := solid(10, 10)
	if Thumbnail(img, 96) != img {
		t.Fatal("small image should be returned unchanged")
	}
	if Thumbnail(nil, 96) != nil {
		t.Fatal("nil stays nil")
	}
}
