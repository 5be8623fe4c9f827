package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/galleria/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) SendFunc {
	return func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		*out = append(*out, s)
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Save("x.png")
	n.Copy("x", nil)
	if len(got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(got))
	}
	var nilNotifier *Notifier
	nilNotifier.Save("x")
	nilNotifier.Enable(EventSave, true)
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventSave, true)
	n.Save(path)
	if len(got) != 1 {
		t.Fatalf("sent %d notifications", len(got))
	}
	if got[0].title != "Galleria" || got[0].body != "Saved "+path || got[0].opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", got[0])
	}
}

func TestCopyAttachesPreview(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(got) != 1 {
		t.Fatalf("sent %d notifications", len(got))
	}
	if got[0].body != "Copied image to clipboard" {
		t.Fatalf("body %q", got[0].body)
	}
	if !got[0].iconExisted {
		t.Fatal("preview file missing during send")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatal("preview file not cleaned up")
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("GALLERIA_NOTIFY_TITLE", "Museum")
	t.Setenv("GALLERIA_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Museum" || prefs.Events[EventSave].Template != "Wrote %s" {
		t.Fatalf("unexpected prefs %+v", prefs)
	}
	if !strings.Contains(prefs.Events[EventCopy].Template, "clipboard") {
		t.Fatalf("copy template lost: %+v", prefs.Events[EventCopy])
	}
}

func TestSendFailureIsNotFatal(t *testing.T) {
	n := New(DefaultPreferences(), WithSender(func(string, string, platform.Options) error {
		return errors.New("no bus")
	}))
	n.Enable(EventCopy, true)
	n.Copy("thing", nil)
}

func TestUnsupportedPlatformLogsAtDebug(t *testing.T) {
	for _, tc := range []struct {
		name  string
		err   error
		level zapcore.Level
	}{
		{"unsupported", platform.ErrUnsupported, zapcore.DebugLevel},
		{"failure", errors.New("no bus"), zapcore.WarnLevel},
	} {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			n := New(DefaultPreferences(),
				WithLogger(zap.New(core)),
				WithSender(func(string, string, platform.Options) error { return tc.err }))
			n.Enable(EventSave, true)
			n.Save("frame.png")
			entries := logs.All()
			if len(entries) != 1 || entries[0].Level != tc.level {
				t.Fatalf("expected one %v entry, got %+v", tc.level, entries)
			}
		})
	}
}
